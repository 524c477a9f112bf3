package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"flashcards/internal/domain"
)

// WordRepo implements repository.WordSource on top of the words table
type WordRepo struct {
	db *sql.DB
}

// NewWordRepo creates a new word repository
func NewWordRepo(db *sql.DB) *WordRepo {
	return &WordRepo{db: db}
}

// FetchWords returns the whole vocabulary list
func (r *WordRepo) FetchWords(ctx context.Context) ([]domain.WordRecord, error) {
	query := `
		SELECT word, transcription, translation, image
		FROM words
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query words: %w", err)
	}
	defer rows.Close()

	words := []domain.WordRecord{}
	for rows.Next() {
		var w domain.WordRecord
		var transcription, translation, image sql.NullString
		if err := rows.Scan(&w.Word, &transcription, &translation, &image); err != nil {
			return nil, fmt.Errorf("failed to scan word: %w", err)
		}
		w.Transcription = transcription.String
		w.Translation = translation.String
		w.Image = image.String
		words = append(words, w)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return words, nil
}
