package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"flashcards/internal/domain"
	"flashcards/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newLoadedSession(t *testing.T, words []domain.WordRecord, fetchErr error) *Session {
	t.Helper()

	mockSource := new(testutil.MockWordSource)
	mockSource.On("FetchWords", mock.Anything).Return(words, fetchErr)

	session := NewSession(mockSource, NewImageResolver("https://cards.example.com/app/"), testutil.NewTestLogger())
	session.Load(context.Background())

	mockSource.AssertExpectations(t)
	return session
}

func TestSession_Load(t *testing.T) {
	tests := []struct {
		name          string
		mockReturn    []domain.WordRecord
		mockError     error
		expectedCount int
	}{
		{
			name:          "words loaded",
			mockReturn:    testutil.NewTestWords(),
			expectedCount: 4,
		},
		{
			name:          "empty feed",
			mockReturn:    []domain.WordRecord{},
			expectedCount: 0,
		},
		{
			name:          "fetch error leaves empty list",
			mockReturn:    nil,
			mockError:     fmt.Errorf("network down"),
			expectedCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSource := new(testutil.MockWordSource)
			mockSource.On("FetchWords", mock.Anything).Return(tt.mockReturn, tt.mockError)

			session := NewSession(mockSource, NewImageResolver(""), testutil.NewTestLogger())

			count := session.Load(context.Background())

			assert.Equal(t, tt.expectedCount, count)
			assert.Equal(t, tt.expectedCount > 0, session.HasRecords())
			mockSource.AssertExpectations(t)
		})
	}
}

func TestSession_Load_FailureReplacesPreviousList(t *testing.T) {
	mockSource := new(testutil.MockWordSource)
	mockSource.On("FetchWords", mock.Anything).Return(testutil.NewTestWords(), nil).Once()
	mockSource.On("FetchWords", mock.Anything).Return(nil, fmt.Errorf("timeout")).Once()

	session := NewSession(mockSource, NewImageResolver(""), testutil.NewTestLogger())

	assert.Equal(t, 4, session.Load(context.Background()))
	assert.Equal(t, 0, session.Load(context.Background()))
	assert.False(t, session.HasRecords())

	card, err := session.Next()
	assert.ErrorIs(t, err, domain.ErrNoWords)
	assert.True(t, card.Empty)
	mockSource.AssertExpectations(t)
}

func TestSession_Next_PicksFromList(t *testing.T) {
	words := testutil.NewTestWords()
	session := newLoadedSession(t, words, nil)

	for i := 0; i < 200; i++ {
		_, err := session.Next()
		require.NoError(t, err)

		current, ok := session.Current()
		require.True(t, ok)
		assert.Contains(t, words, current)
		assert.False(t, session.Revealed())
	}
}

func TestSession_Next_UsesPicker(t *testing.T) {
	words := testutil.NewTestWords()
	session := newLoadedSession(t, words, nil)

	var gotN int
	session.pick = func(n int) int {
		gotN = n
		return 2
	}

	card, err := session.Next()
	require.NoError(t, err)

	assert.Equal(t, len(words), gotN)
	assert.Equal(t, "tree", card.Word)
	assert.Equal(t, "[triː]", card.Transcription)
	assert.Equal(t, "дерево", card.Translation)
	assert.Equal(t, domain.VisualPlaceholder, card.Visual.Kind)
	assert.Equal(t, "ДЕРЕВО", card.Visual.Text)
	assert.False(t, card.Revealed)
}

func TestSession_Next_EmptyList(t *testing.T) {
	session := newLoadedSession(t, []domain.WordRecord{}, nil)

	card, err := session.Next()

	assert.ErrorIs(t, err, domain.ErrNoWords)
	assert.Equal(t, domain.EmptyCard(), card)
	_, ok := session.Current()
	assert.False(t, ok)
}

func TestSession_Next_ResetsReveal(t *testing.T) {
	session := newLoadedSession(t, testutil.NewTestWords(), nil)

	session.Next()
	session.BindMessage(42)
	_, changed := session.Reveal()
	require.True(t, changed)
	require.True(t, session.Revealed())

	card, err := session.Next()
	require.NoError(t, err)

	assert.False(t, card.Revealed)
	assert.False(t, session.Revealed())
	assert.Zero(t, session.MessageID())
}

func TestSession_Reveal_Idempotent(t *testing.T) {
	session := newLoadedSession(t, testutil.NewTestWords(), nil)
	session.Next()

	first, changed := session.Reveal()
	assert.True(t, changed)
	assert.True(t, first.Revealed)

	second, changed := session.Reveal()
	assert.False(t, changed)
	assert.True(t, second.Revealed)
	assert.Equal(t, first, second)
}

func TestSession_Reveal_WithoutCard(t *testing.T) {
	session := newLoadedSession(t, testutil.NewTestWords(), nil)

	card, changed := session.Reveal()

	assert.False(t, changed)
	assert.True(t, card.Empty)
	assert.False(t, session.Revealed())
}

func TestSession_Draw_Revealed(t *testing.T) {
	session := newLoadedSession(t, testutil.NewTestWords(), nil)
	session.pick = func(int) int { return 0 }
	session.BindMessage(7)

	card, err := session.Draw(true)

	require.NoError(t, err)
	assert.True(t, card.Revealed)
	assert.Equal(t, "cat", card.Word)
	assert.Equal(t, domain.VisualImage, card.Visual.Kind)
	assert.Equal(t, "https://cards.example.com/app/images/cat.jpg", card.Visual.ImageURL)
	assert.True(t, session.Revealed())
	assert.Zero(t, session.MessageID())

	// Already revealed, so Reveal has nothing left to do
	_, changed := session.Reveal()
	assert.False(t, changed)
}

func TestSession_Draw_Concurrent(t *testing.T) {
	session := newLoadedSession(t, testutil.NewTestWords(), nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			revealed := i%2 == 0
			card, err := session.Draw(revealed)
			assert.NoError(t, err)
			assert.Equal(t, revealed, card.Revealed)
			assert.NotEqual(t, domain.MissingText, card.Word)
		}()
	}
	wg.Wait()
}

func TestSession_Draw_EmptyList(t *testing.T) {
	session := newLoadedSession(t, nil, fmt.Errorf("network down"))

	card, err := session.Draw(true)

	assert.ErrorIs(t, err, domain.ErrNoWords)
	assert.True(t, card.Empty)
	assert.False(t, session.Revealed())
}

func TestSession_FallbackCard(t *testing.T) {
	session := newLoadedSession(t, testutil.NewTestWords(), nil)

	_, err := session.FallbackCard()
	assert.ErrorIs(t, err, domain.ErrNoCurrentCard)

	session.pick = func(int) int { return 0 }
	session.Next()

	card, err := session.FallbackCard()
	assert.NoError(t, err)
	assert.Equal(t, domain.VisualPlaceholder, card.Visual.Kind)
	assert.Equal(t, "КОШКА", card.Visual.Text)
	assert.Equal(t, "cat", card.Word)
}

func TestSession_BindMessage(t *testing.T) {
	session := newLoadedSession(t, testutil.NewTestWords(), nil)
	session.Next()

	session.BindMessage(7)

	assert.Equal(t, 7, session.MessageID())
}
