package testutil

import (
	"context"

	"flashcards/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockWordSource is a mock for repository.WordSource
type MockWordSource struct {
	mock.Mock
}

func (m *MockWordSource) FetchWords(ctx context.Context) ([]domain.WordRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WordRecord), args.Error(1)
}
