package domain

import (
	"fmt"
	"strings"
)

const (
	// MissingText fills a text slot with no value
	MissingText = "---"
	// EmptyPlaceholder is shown in the visual slot when there is nothing to show
	EmptyPlaceholder = "—"
)

// VisualKind selects how the visual slot is drawn
type VisualKind string

const (
	VisualColor       VisualKind = "color"
	VisualImage       VisualKind = "image"
	VisualPlaceholder VisualKind = "placeholder"
)

// Visual describes the image slot of a card
type Visual struct {
	Kind     VisualKind `json:"kind"`
	Color    string     `json:"color,omitempty"`
	ImageURL string     `json:"image_url,omitempty"`
	Text     string     `json:"text,omitempty"`
	Alt      string     `json:"alt,omitempty"`
}

// Card is a rendered flashcard
type Card struct {
	Word          string `json:"word"`
	Transcription string `json:"transcription"`
	Translation   string `json:"translation"`
	Visual        Visual `json:"visual"`
	Revealed      bool   `json:"revealed"`
	Empty         bool   `json:"empty"`
}

// EmptyCard is shown when no words are loaded
func EmptyCard() Card {
	return Card{
		Word:          MissingText,
		Transcription: MissingText,
		Translation:   MissingText,
		Visual:        PlaceholderVisual(""),
		Empty:         true,
	}
}

// PlaceholderVisual renders the uppercased translation, or an em-dash
func PlaceholderVisual(translation string) Visual {
	text := strings.ToUpper(translation)
	if text == "" {
		text = EmptyPlaceholder
	}
	return Visual{Kind: VisualPlaceholder, Text: text}
}

// FormatTranscription wraps a transcription in brackets
func FormatTranscription(transcription string) string {
	if transcription == "" {
		return MissingText
	}
	return fmt.Sprintf("[%s]", transcription)
}

func orMissing(s string) string {
	if s == "" {
		return MissingText
	}
	return s
}

// NewCard fills the text slots of a card from a record
func NewCard(rec WordRecord, visual Visual, revealed bool) Card {
	return Card{
		Word:          orMissing(rec.Word),
		Transcription: FormatTranscription(rec.Transcription),
		Translation:   orMissing(rec.Translation),
		Visual:        visual,
		Revealed:      revealed,
	}
}
