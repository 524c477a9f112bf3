package handler

import (
	"errors"

	"flashcards/internal/domain"
	"flashcards/internal/middleware"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleStart handles /start command
func (h *Handler) handleStart(c tele.Context) error {
	sender := c.Sender()

	h.logger.Info("User started bot",
		zap.Int64("user_id", sender.ID),
		zap.String("username", sender.Username),
	)

	if name := displayName(sender); name != "" {
		if err := c.Send(h.t(c, "greeting", map[string]any{"Name": name})); err != nil {
			h.logger.Warn("Failed to send greeting", zap.Error(err))
		}
	}

	session, ok := middleware.SessionFrom(c)
	if !ok {
		return c.Send(h.t(c, "error.generic", nil))
	}

	return h.sendCard(c, session, h.nextCard(c, session))
}

// handleReload handles /reload command
func (h *Handler) handleReload(c tele.Context) error {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		return c.Send(h.t(c, "error.generic", nil))
	}

	count := session.Load(h.ctx)

	h.logger.Info("Words reloaded",
		zap.Int64("user_id", c.Sender().ID),
		zap.Int("count", count),
	)

	if err := c.Send(h.t(c, "reload.done", map[string]any{"Count": count})); err != nil {
		return err
	}
	card, err := session.Next()
	if errors.Is(err, domain.ErrNoWords) {
		h.logger.Info("Reload returned no words", zap.Int64("user_id", c.Sender().ID))
	}
	return h.sendCard(c, session, card)
}

// displayName is the host identity shown in the greeting
func displayName(user *tele.User) string {
	if user == nil {
		return ""
	}
	if user.FirstName != "" {
		return user.FirstName
	}
	return user.Username
}
