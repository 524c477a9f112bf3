package handler

import (
	"errors"
	"strings"
	"unicode"

	"flashcards/internal/domain"
	"flashcards/internal/middleware"
	"flashcards/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// cleanCallbackData removes all non-printable characters from callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}

// handleEditError handles errors from c.Edit(). An unmodified message is
// acknowledged and swallowed; anything else is returned.
func (h *Handler) handleEditError(err error, c tele.Context, userID int64) error {
	if err == nil {
		return nil
	}

	// Another callback already put the same content there
	if strings.Contains(err.Error(), "message is not modified") {
		h.logger.Debug("Message already modified by another callback, acknowledging",
			zap.Int64("user_id", userID),
			zap.String("callback_id", c.Callback().ID),
		)
		c.Respond()
		return nil
	}

	h.logger.Warn("Failed to edit message",
		zap.Error(err),
		zap.Int64("user_id", userID),
		zap.String("callback_id", c.Callback().ID),
	)
	if ackErr := c.Respond(); ackErr != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(ackErr))
	}
	return err
}

// handleCallback handles callbacks the button endpoints did not catch
func (h *Handler) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		h.logger.Warn("handleCallback: callback is nil")
		return nil
	}

	data := cleanCallbackData(callback.Data)
	h.logger.Info("handleCallback: Processing callback",
		zap.String("data", data),
		zap.String("unique", callback.Unique),
		zap.Int64("user_id", c.Sender().ID),
	)

	key := callback.Unique
	if key == "" {
		key = data
	}

	switch key {
	case btnReveal.Unique:
		return h.handleReveal(c)
	case btnNext.Unique:
		return h.handleNext(c)
	case btnSpeakEN.Unique:
		return h.handleSpeakEN(c)
	case btnSpeakRU.Unique:
		return h.handleSpeakRU(c)
	}

	h.logger.Warn("Unhandled callback in handleCallback",
		zap.String("data", data),
		zap.String("unique", callback.Unique),
	)
	return c.Respond()
}

// handleNext shows a new random card
func (h *Handler) handleNext(c tele.Context) error {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		return h.fail(c)
	}

	// Speech for the old card is no longer wanted
	if h.speechEnabled() {
		h.speaker.Cancel(chatKey(c))
	}

	card := h.nextCard(c, session)

	if c.Callback() != nil {
		if err := c.Respond(); err != nil {
			h.logger.Warn("Failed to acknowledge callback", zap.Error(err))
		}
	}
	return h.sendCard(c, session, card)
}

// nextCard draws a card. An empty list may be a failed fetch, so it is
// reloaded once first.
func (h *Handler) nextCard(c tele.Context, session *service.Session) domain.Card {
	if !session.HasRecords() {
		session.Load(h.ctx)
	}

	card, err := session.Next()
	if errors.Is(err, domain.ErrNoWords) {
		h.logger.Info("No words to show",
			zap.Int64("user_id", c.Sender().ID),
		)
	}
	return card
}

// handleReveal discloses the word on the current card
func (h *Handler) handleReveal(c tele.Context) error {
	userID := c.Sender().ID

	session, ok := middleware.SessionFrom(c)
	if !ok {
		return h.fail(c)
	}

	msg := c.Message()
	if msg == nil || msg.ID != session.MessageID() {
		return c.Respond(&tele.CallbackResponse{Text: h.t(c, "card.outdated", nil)})
	}

	card, changed := session.Reveal()
	if !changed {
		return c.Respond(&tele.CallbackResponse{Text: h.t(c, "card.already_revealed", nil)})
	}

	// The card went out as text after its picture failed
	if msg.Photo == nil && card.Visual.Kind != domain.VisualPlaceholder {
		if fallback, err := session.FallbackCard(); err == nil {
			card = fallback
		}
	}

	locale := localeOf(c)
	text := h.cardText(locale, card)
	markup := h.cardMarkup(locale, card)

	var err error
	if msg.Photo != nil {
		err = c.EditCaption(text, markup)
	} else {
		err = c.Edit(text, markup)
	}
	if err != nil {
		if handleErr := h.handleEditError(err, c, userID); handleErr == nil {
			return nil
		}
		return h.sendCard(c, session, card)
	}
	return c.Respond()
}

// sendCard posts a card and binds it to the session. A picture Telegram
// refuses is replaced by the text placeholder.
func (h *Handler) sendCard(c tele.Context, session *service.Session, card domain.Card) error {
	locale := localeOf(c)
	markup := h.cardMarkup(locale, card)

	what, err := h.cardMessage(locale, card)
	var msg *tele.Message
	if err == nil {
		msg, err = h.bot.Send(c.Recipient(), what, markup)
	}

	if err != nil && card.Visual.Kind != domain.VisualPlaceholder {
		h.logger.Warn("Failed to send card picture, falling back to text",
			zap.Int64("user_id", c.Sender().ID),
			zap.String("kind", string(card.Visual.Kind)),
			zap.String("image_url", card.Visual.ImageURL),
			zap.Error(err),
		)
		if fallback, fbErr := session.FallbackCard(); fbErr == nil {
			card = fallback
		}
		msg, err = h.bot.Send(c.Recipient(), h.cardText(locale, card), markup)
	}

	if err != nil {
		h.logger.Error("Failed to send card",
			zap.Int64("user_id", c.Sender().ID),
			zap.Error(err),
		)
		return err
	}

	session.BindMessage(msg.ID)
	return nil
}

// fail answers with the generic error message
func (h *Handler) fail(c tele.Context) error {
	text := h.t(c, "error.generic", nil)
	if c.Callback() != nil {
		return c.Respond(&tele.CallbackResponse{Text: text})
	}
	return c.Send(text)
}
