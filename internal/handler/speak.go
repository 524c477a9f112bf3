package handler

import (
	"bytes"
	"context"
	"errors"
	"time"

	"flashcards/internal/middleware"
	"flashcards/internal/speech"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const speakTimeout = 30 * time.Second

// Language tags passed to the speaker
const (
	langWord        = "en-US"
	langTranslation = "ru-RU"
)

// handleSpeakEN speaks the word; only offered once the card is revealed
func (h *Handler) handleSpeakEN(c tele.Context) error {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		return h.fail(c)
	}
	rec, ok := session.Current()
	if !ok || !session.Revealed() {
		return c.Respond()
	}
	return h.speak(c, rec.Word, langWord)
}

// handleSpeakRU speaks the translation
func (h *Handler) handleSpeakRU(c tele.Context) error {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		return h.fail(c)
	}
	rec, ok := session.Current()
	if !ok {
		return c.Respond()
	}
	return h.speak(c, rec.Translation, langTranslation)
}

// speak acknowledges the button and synthesizes in the background. A newer
// request from the same chat cancels the one in flight.
func (h *Handler) speak(c tele.Context, text, lang string) error {
	if !h.speechEnabled() {
		return c.Respond(&tele.CallbackResponse{Text: h.t(c, "speech.unavailable", nil)})
	}

	recipient := c.Recipient()
	userID := c.Sender().ID
	chatID := chatKey(c)

	go func() {
		ctx, cancel := context.WithTimeout(h.ctx, speakTimeout)
		defer cancel()

		audio, err := h.speaker.Speak(ctx, chatID, text, lang)
		switch {
		case err == nil:
		case errors.Is(err, context.Canceled),
			errors.Is(err, speech.ErrNoVoices),
			errors.Is(err, speech.ErrEmptyText):
			return
		default:
			h.logger.Warn("Failed to synthesize speech",
				zap.Int64("user_id", userID),
				zap.String("lang", lang),
				zap.Error(err),
			)
			return
		}

		file := &tele.Audio{
			File:     tele.FromReader(bytes.NewReader(audio)),
			FileName: "speech.wav",
			Title:    text,
			MIME:     "audio/wav",
		}
		if _, err := h.bot.Send(recipient, file); err != nil {
			h.logger.Warn("Failed to send speech",
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
		}
	}()

	return c.Respond()
}

// chatKey identifies the chat whose utterances cancel each other
func chatKey(c tele.Context) int64 {
	if chat := c.Chat(); chat != nil {
		return chat.ID
	}
	return c.Sender().ID
}
