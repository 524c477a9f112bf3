package repository

import (
	"context"

	"flashcards/internal/domain"
)

// WordSource defines where the vocabulary list comes from
type WordSource interface {
	FetchWords(ctx context.Context) ([]domain.WordRecord, error)
}
