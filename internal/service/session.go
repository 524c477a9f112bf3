package service

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"flashcards/internal/domain"
	"flashcards/internal/repository"

	"go.uber.org/zap"
)

// Session is one user's flashcard session
type Session struct {
	source repository.WordSource
	images *ImageResolver
	logger *zap.Logger
	pick   func(n int) int
	now    func() time.Time

	loadOnce sync.Once

	mu       sync.Mutex
	state    domain.SessionState
	lastUsed time.Time
}

// NewSession creates an empty session. Call Load before Next.
func NewSession(source repository.WordSource, images *ImageResolver, logger *zap.Logger) *Session {
	return &Session{
		source:   source,
		images:   images,
		logger:   logger,
		pick:     rand.IntN,
		now:      time.Now,
		lastUsed: time.Now(),
	}
}

// Load fetches the word list. A failed fetch leaves an empty list behind;
// the error is logged and never returned.
func (s *Session) Load(ctx context.Context) int {
	words, err := s.source.FetchWords(ctx)
	if err != nil {
		s.logger.Error("Failed to load words", zap.Error(err))
		words = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Records = words
	s.touch()

	s.logger.Debug("Words loaded", zap.Int("count", len(words)))
	return len(words)
}

// Next draws a random hidden card. With no records loaded it returns the
// empty card with ErrNoWords and leaves the state alone.
func (s *Session) Next() (domain.Card, error) {
	return s.Draw(false)
}

// Draw picks a random record and renders it, revealed or not, in one step
func (s *Session) Draw(revealed bool) (domain.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if !s.state.HasRecords() {
		return domain.EmptyCard(), domain.ErrNoWords
	}

	rec := s.state.Records[s.pick(len(s.state.Records))]
	s.state.Current = &rec
	s.state.Revealed = revealed
	s.state.MessageID = 0

	return s.render(), nil
}

// Reveal discloses the current word. It reports whether anything changed;
// a second call for the same card is a no-op.
func (s *Session) Reveal() (domain.Card, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.state.Current == nil {
		return domain.EmptyCard(), false
	}
	if s.state.Revealed {
		return s.render(), false
	}

	s.state.Revealed = true
	return s.render(), true
}

// FallbackCard renders the current record with the text placeholder,
// used when its image could not be shown.
func (s *Session) FallbackCard() (domain.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Current == nil {
		return domain.EmptyCard(), domain.ErrNoCurrentCard
	}
	rec := *s.state.Current
	return domain.NewCard(rec, domain.PlaceholderVisual(rec.Translation), s.state.Revealed), nil
}

// Current returns the record on display
func (s *Session) Current() (domain.WordRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Current == nil {
		return domain.WordRecord{}, false
	}
	return *s.state.Current, true
}

// Revealed reports whether the current card is revealed
func (s *Session) Revealed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Revealed
}

// HasRecords reports whether any words are loaded
func (s *Session) HasRecords() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.HasRecords()
}

// MessageID returns the chat message bound to the current card
func (s *Session) MessageID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.MessageID
}

// BindMessage records which chat message shows the current card
func (s *Session) BindMessage(messageID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.MessageID = messageID
}

// IdleSince returns the last time the session was used
func (s *Session) IdleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// render must be called with s.mu held and s.state.Current set
func (s *Session) render() domain.Card {
	rec := *s.state.Current
	return domain.NewCard(rec, s.images.Resolve(rec), s.state.Revealed)
}

// markUsed refreshes the idle clock; the card is left as is
func (s *Session) markUsed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
}

func (s *Session) touch() {
	s.lastUsed = s.now()
}
