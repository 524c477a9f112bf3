package service

import (
	"context"
	"sync"
	"time"

	"flashcards/internal/repository"

	"go.uber.org/zap"
)

// SessionStore keeps one flashcard session per user in memory
type SessionStore struct {
	source repository.WordSource
	images *ImageResolver
	logger *zap.Logger
	now    func() time.Time

	sessions map[int64]*Session
	mu       sync.RWMutex
}

// NewSessionStore creates a new session store
func NewSessionStore(source repository.WordSource, images *ImageResolver, logger *zap.Logger) *SessionStore {
	return &SessionStore{
		source:   source,
		images:   images,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[int64]*Session),
	}
}

// Get returns the user's session, creating and loading it on first use.
// Concurrent first calls for one user wait for a single load. Every call
// counts as activity for EvictIdle.
func (s *SessionStore) Get(ctx context.Context, userID int64) *Session {
	session := s.getOrCreate(userID)

	session.loadOnce.Do(func() {
		count := session.Load(ctx)
		s.logger.Info("Session created",
			zap.Int64("user_id", userID),
			zap.Int("words", count),
		)
	})
	session.markUsed()
	return session
}

func (s *SessionStore) getOrCreate(userID int64) *Session {
	s.mu.RLock()
	session, exists := s.sessions[userID]
	s.mu.RUnlock()
	if exists {
		return session
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if session, exists = s.sessions[userID]; exists {
		return session
	}
	session = s.newSession()
	s.sessions[userID] = session
	return session
}

// EvictIdle removes sessions unused for longer than maxIdle
func (s *SessionStore) EvictIdle(maxIdle time.Duration) int {
	cutoff := s.now().Add(-maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for userID, session := range s.sessions {
		if session.IdleSince().Before(cutoff) {
			delete(s.sessions, userID)
			evicted++
		}
	}

	s.logger.Info("Idle sessions evicted",
		zap.Int("evicted", evicted),
		zap.Int("remaining", len(s.sessions)),
	)
	return evicted
}

func (s *SessionStore) newSession() *Session {
	session := NewSession(s.source, s.images, s.logger)
	session.now = s.now
	session.lastUsed = s.now()
	return session
}
