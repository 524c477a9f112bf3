package handler

import (
	"context"

	"flashcards/internal/i18n"
	"flashcards/internal/middleware"
	"flashcards/internal/service"
	"flashcards/internal/speech"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Handler manages all bot interactions
type Handler struct {
	ctx        context.Context
	bot        *tele.Bot
	sessions   *service.SessionStore
	speaker    *speech.Speaker
	translator *i18n.Translator
	logger     *zap.Logger
}

// NewHandler creates a new handler instance. ctx bounds the background
// work handlers start (fetches, speech); cancel it on shutdown. speaker may
// be nil, which disables the speak buttons.
func NewHandler(
	ctx context.Context,
	bot *tele.Bot,
	sessions *service.SessionStore,
	speaker *speech.Speaker,
	translator *i18n.Translator,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		ctx:        ctx,
		bot:        bot,
		sessions:   sessions,
		speaker:    speaker,
		translator: translator,
		logger:     logger,
	}
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	h.bot.Use(middleware.SessionMiddleware(h.sessions, h.logger))

	// Commands
	h.bot.Handle("/start", h.handleStart)
	h.bot.Handle("/next", h.handleNext)
	h.bot.Handle("/reload", h.handleReload)

	// Callback queries (inline buttons)
	h.bot.Handle(&btnReveal, h.handleReveal)
	h.bot.Handle(&btnNext, h.handleNext)
	h.bot.Handle(&btnSpeakEN, h.handleSpeakEN)
	h.bot.Handle(&btnSpeakRU, h.handleSpeakRU)

	// Generic callback handler for anything that slipped past the buttons
	h.bot.Handle(tele.OnCallback, h.handleCallback)
}

// speechEnabled reports whether the speak buttons are offered
func (h *Handler) speechEnabled() bool {
	return h.speaker != nil
}

// t localizes key for the sender of c
func (h *Handler) t(c tele.Context, key string, data map[string]any) string {
	return h.translator.T(localeOf(c), key, data)
}

func localeOf(c tele.Context) string {
	if sender := c.Sender(); sender != nil {
		return sender.LanguageCode
	}
	return ""
}

// Inline keyboard buttons; labels are localized per message
var (
	btnReveal  = tele.Btn{Unique: "reveal"}
	btnNext    = tele.Btn{Unique: "next"}
	btnSpeakEN = tele.Btn{Unique: "speak_en"}
	btnSpeakRU = tele.Btn{Unique: "speak_ru"}
)
