package middleware

import (
	"context"

	"flashcards/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// sessionKey is where the caller's session lives in tele.Context
const sessionKey = "flashcard_session"

// sessionSource is the part of service.SessionStore the middleware needs
type sessionSource interface {
	Get(ctx context.Context, userID int64) *service.Session
}

// SessionMiddleware attaches the sender's flashcard session to the context,
// loading the word list on the sender's first update
func SessionMiddleware(sessions sessionSource, logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if sender == nil {
				logger.Debug("Update without sender, skipping session")
				return next(c)
			}

			c.Set(sessionKey, sessions.Get(context.Background(), sender.ID))
			return next(c)
		}
	}
}

// SessionFrom returns the session attached by SessionMiddleware
func SessionFrom(c tele.Context) (*service.Session, bool) {
	session, ok := c.Get(sessionKey).(*service.Session)
	return session, ok && session != nil
}
