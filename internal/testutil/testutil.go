package testutil

import (
	"flashcards/internal/domain"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestWord creates a test word record
func NewTestWord(word, transcription, translation, image string) domain.WordRecord {
	return domain.WordRecord{
		Word:          word,
		Transcription: transcription,
		Translation:   translation,
		Image:         image,
	}
}

// NewTestWords returns a small mixed vocabulary
func NewTestWords() []domain.WordRecord {
	return []domain.WordRecord{
		NewTestWord("cat", "kæt", "кошка", "images/cat.jpg"),
		NewTestWord("red", "red", "красный", ""),
		NewTestWord("tree", "triː", "дерево", ""),
		NewTestWord("dog", "", "", ""),
	}
}
