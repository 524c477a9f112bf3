// Package speech speaks flashcard text through a pluggable TTS backend.
package speech

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultPollInterval is how often the voice list is retried at startup
	DefaultPollInterval = 80 * time.Millisecond
	// DefaultPollTimeout bounds the startup wait for voices
	DefaultPollTimeout = 700 * time.Millisecond
)

var (
	// ErrNoVoices means the backend has no voice to speak with
	ErrNoVoices = errors.New("no voices available")
	// ErrEmptyText means there is nothing to say
	ErrEmptyText = errors.New("empty text")
)

// Voice is one voice offered by the backend
type Voice struct {
	ID       string
	Name     string
	Language string
}

// Backend is a text-to-speech engine with voice enumeration
type Backend interface {
	Voices(ctx context.Context) ([]Voice, error)
	Synthesize(ctx context.Context, voice Voice, text string) ([]byte, error)
}

type utterance struct {
	id     uint64
	cancel context.CancelFunc
}

// Speaker selects voices and makes sure only one utterance per chat is in flight
type Speaker struct {
	backend Backend
	logger  *zap.Logger

	pollInterval time.Duration
	pollTimeout  time.Duration

	mu       sync.Mutex
	voices   []Voice
	inflight map[int64]utterance
	seq      uint64
}

// NewSpeaker creates a new speaker
func NewSpeaker(backend Backend, logger *zap.Logger) *Speaker {
	return &Speaker{
		backend:      backend,
		logger:       logger,
		pollInterval: DefaultPollInterval,
		pollTimeout:  DefaultPollTimeout,
		inflight:     make(map[int64]utterance),
	}
}

// WaitForVoices polls the backend until it lists at least one voice or the
// poll timeout passes. It always returns; an empty result is not an error.
func (s *Speaker) WaitForVoices(ctx context.Context) []Voice {
	ctx, cancel := context.WithTimeout(ctx, s.pollTimeout)
	defer cancel()

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		voices, err := s.backend.Voices(ctx)
		if err != nil {
			s.logger.Debug("Voice list not ready", zap.Error(err))
		}
		if len(voices) > 0 {
			s.setVoices(voices)
			return voices
		}

		select {
		case <-ctx.Done():
			s.logger.Info("No voices after waiting, continuing without them",
				zap.Duration("timeout", s.pollTimeout),
			)
			return nil
		case <-ticker.C:
		}
	}
}

// Speak cancels any utterance in flight for key and synthesizes text with
// the voice best matching lang.
func (s *Speaker) Speak(ctx context.Context, key int64, text, lang string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}

	voice, ok := SelectVoice(s.availableVoices(ctx), lang)
	if !ok {
		return nil, ErrNoVoices
	}

	ctx, id := s.begin(ctx, key)
	defer s.finish(key, id)

	audio, err := s.backend.Synthesize(ctx, voice, text)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("failed to synthesize with voice %s: %w", voice.ID, err)
	}

	s.logger.Debug("Speech synthesized",
		zap.Int64("key", key),
		zap.String("voice", voice.ID),
		zap.String("lang", lang),
		zap.Int("bytes", len(audio)),
	)
	return audio, nil
}

// Cancel stops the utterance in flight for key, if any
func (s *Speaker) Cancel(key int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u, ok := s.inflight[key]; ok {
		u.cancel()
		delete(s.inflight, key)
	}
}

// SelectVoice picks the voice for lang: one whose language shares lang's
// prefix, else any English voice, else the first one.
func SelectVoice(voices []Voice, lang string) (Voice, bool) {
	if len(voices) == 0 {
		return Voice{}, false
	}

	if prefix := languagePrefix(lang); prefix != "" {
		if v, ok := findByPrefix(voices, prefix); ok {
			return v, true
		}
	}
	if v, ok := findByPrefix(voices, "en"); ok {
		return v, true
	}
	return voices[0], true
}

func findByPrefix(voices []Voice, prefix string) (Voice, bool) {
	for _, v := range voices {
		if languagePrefix(v.Language) == prefix {
			return v, true
		}
	}
	return Voice{}, false
}

// languagePrefix turns "en-US", "en_us" or "EN" into "en"
func languagePrefix(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if i := strings.IndexAny(tag, "-_"); i >= 0 {
		tag = tag[:i]
	}
	return tag
}

func (s *Speaker) availableVoices(ctx context.Context) []Voice {
	s.mu.Lock()
	voices := s.voices
	s.mu.Unlock()
	if len(voices) > 0 {
		return voices
	}

	voices, err := s.backend.Voices(ctx)
	if err != nil {
		s.logger.Warn("Failed to list voices", zap.Error(err))
		return nil
	}
	s.setVoices(voices)
	return voices
}

func (s *Speaker) setVoices(voices []Voice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.voices = voices
}

func (s *Speaker) begin(ctx context.Context, key int64) (context.Context, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.inflight[key]; ok {
		prev.cancel()
	}

	ctx, cancel := context.WithCancel(ctx)
	s.seq++
	s.inflight[key] = utterance{id: s.seq, cancel: cancel}
	return ctx, s.seq
}

func (s *Speaker) finish(key int64, id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u, ok := s.inflight[key]; ok && u.id == id {
		u.cancel()
		delete(s.inflight, key)
	}
}
