package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColorForWord(t *testing.T) {
	tests := []struct {
		name     string
		word     string
		expected string
		ok       bool
	}{
		{name: "lowercase", word: "red", expected: "red", ok: true},
		{name: "uppercase", word: "BLUE", expected: "blue", ok: true},
		{name: "mixed case", word: "GoLd", expected: "gold", ok: true},
		{name: "two words", word: "Sky Blue", expected: "skyblue", ok: true},
		{name: "grey spelling", word: "grey", expected: "grey", ok: true},
		{name: "gray spelling", word: "gray", expected: "gray", ok: true},
		{name: "not a color", word: "cat", ok: false},
		{name: "color inside phrase", word: "red apple", ok: false},
		{name: "surrounding space", word: " red ", ok: false},
		{name: "empty", word: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			color, ok := ColorForWord(tt.word)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, color)
		})
	}
}
