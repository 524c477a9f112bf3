package service

import (
	"testing"

	"flashcards/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestImageResolver_Resolve(t *testing.T) {
	tests := []struct {
		name     string
		baseURL  string
		record   domain.WordRecord
		expected domain.Visual
	}{
		{
			name:     "color word wins over image",
			baseURL:  "https://cards.example.com/",
			record:   domain.WordRecord{Word: "Red", Translation: "красный", Image: "images/red.jpg"},
			expected: domain.Visual{Kind: domain.VisualColor, Color: "red"},
		},
		{
			name:     "sky blue",
			record:   domain.WordRecord{Word: "sky blue"},
			expected: domain.Visual{Kind: domain.VisualColor, Color: "skyblue"},
		},
		{
			name:    "relative image resolved against base",
			baseURL: "https://cards.example.com/app",
			record:  domain.WordRecord{Word: "cat", Translation: "кошка", Image: "images/cat.jpg"},
			expected: domain.Visual{
				Kind:     domain.VisualImage,
				ImageURL: "https://cards.example.com/app/images/cat.jpg",
				Alt:      "cat",
			},
		},
		{
			name:    "absolute image url",
			record:  domain.WordRecord{Translation: "кошка", Image: "https://img.example.com/cat.png"},
			expected: domain.Visual{
				Kind:     domain.VisualImage,
				ImageURL: "https://img.example.com/cat.png",
				Alt:      "кошка",
			},
		},
		{
			name:     "relative image without base falls back",
			record:   domain.WordRecord{Word: "cat", Translation: "кошка", Image: "images/cat.jpg"},
			expected: domain.Visual{Kind: domain.VisualPlaceholder, Text: "КОШКА"},
		},
		{
			name:     "non http scheme falls back",
			baseURL:  "https://cards.example.com/",
			record:   domain.WordRecord{Word: "cat", Translation: "cat", Image: "file:///etc/cat.jpg"},
			expected: domain.Visual{Kind: domain.VisualPlaceholder, Text: "CAT"},
		},
		{
			name:     "no image uses translation",
			record:   domain.WordRecord{Word: "cat", Translation: "cat"},
			expected: domain.Visual{Kind: domain.VisualPlaceholder, Text: "CAT"},
		},
		{
			name:     "nothing at all",
			record:   domain.WordRecord{Word: "cat"},
			expected: domain.Visual{Kind: domain.VisualPlaceholder, Text: "—"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := NewImageResolver(tt.baseURL)
			assert.Equal(t, tt.expected, resolver.Resolve(tt.record))
		})
	}
}

func TestNewImageResolver_InvalidBase(t *testing.T) {
	resolver := NewImageResolver("not a url")

	_, ok := resolver.ImageURL("images/cat.jpg")
	assert.False(t, ok)
}
