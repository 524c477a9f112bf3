package handler

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"

	"flashcards/internal/domain"

	tele "gopkg.in/telebot.v3"
)

const swatchSize = 320

// swatchColors maps the color names produced by domain.ColorForWord to RGB
var swatchColors = map[string]color.RGBA{
	"red":     {R: 0xff, A: 0xff},
	"blue":    {B: 0xff, A: 0xff},
	"green":   {G: 0x80, A: 0xff},
	"yellow":  {R: 0xff, G: 0xff, A: 0xff},
	"pink":    {R: 0xff, G: 0xc0, B: 0xcb, A: 0xff},
	"purple":  {R: 0x80, B: 0x80, A: 0xff},
	"black":   {A: 0xff},
	"white":   {R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	"brown":   {R: 0xa5, G: 0x2a, B: 0x2a, A: 0xff},
	"grey":    {R: 0x80, G: 0x80, B: 0x80, A: 0xff},
	"gray":    {R: 0x80, G: 0x80, B: 0x80, A: 0xff},
	"orange":  {R: 0xff, G: 0xa5, A: 0xff},
	"gold":    {R: 0xff, G: 0xd7, A: 0xff},
	"silver":  {R: 0xc0, G: 0xc0, B: 0xc0, A: 0xff},
	"skyblue": {R: 0x87, G: 0xce, B: 0xeb, A: 0xff},
}

// placeholderBackground is used for unknown colors
var placeholderBackground = color.RGBA{R: 0xf3, G: 0xf4, B: 0xf6, A: 0xff}

// colorSwatch encodes a solid square of the named color as PNG
func colorSwatch(name string) ([]byte, error) {
	fill, ok := swatchColors[name]
	if !ok {
		fill = placeholderBackground
	}

	img := image.NewRGBA(image.Rect(0, 0, swatchSize, swatchSize))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = fill.R
		img.Pix[i+1] = fill.G
		img.Pix[i+2] = fill.B
		img.Pix[i+3] = fill.A
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// cardText lays out the text slots of a card. The word and transcription
// stay hidden until the card is revealed.
func (h *Handler) cardText(locale string, card domain.Card) string {
	var b strings.Builder

	if card.Visual.Kind == domain.VisualPlaceholder {
		b.WriteString("🖼 ")
		b.WriteString(card.Visual.Text)
		b.WriteString("\n\n")
	}

	if card.Revealed || card.Empty {
		b.WriteString("📝 ")
		b.WriteString(card.Word)
		b.WriteString("\n🔤 ")
		b.WriteString(card.Transcription)
	} else {
		b.WriteString(h.translator.T(locale, "card.hidden", nil))
	}

	b.WriteString("\n🔄 ")
	b.WriteString(card.Translation)

	if card.Empty {
		b.WriteString("\n\n")
		b.WriteString(h.translator.T(locale, "card.empty", nil))
	}

	return b.String()
}

// cardMarkup builds the inline keyboard under a card
func (h *Handler) cardMarkup(locale string, card domain.Card) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	rows := []tele.Row{}

	if !card.Empty && !card.Revealed {
		rows = append(rows, markup.Row(markup.Data(h.translator.T(locale, "btn.reveal", nil), btnReveal.Unique)))
	}

	if !card.Empty && h.speechEnabled() {
		speak := tele.Row{}
		if card.Revealed {
			speak = append(speak, markup.Data(h.translator.T(locale, "btn.speak_en", nil), btnSpeakEN.Unique))
		}
		speak = append(speak, markup.Data(h.translator.T(locale, "btn.speak_ru", nil), btnSpeakRU.Unique))
		rows = append(rows, speak)
	}

	rows = append(rows, markup.Row(markup.Data(h.translator.T(locale, "btn.next", nil), btnNext.Unique)))

	markup.Inline(rows...)
	return markup
}

// cardMessage returns what to send for a card: a photo for color and image
// visuals, plain text for placeholders
func (h *Handler) cardMessage(locale string, card domain.Card) (interface{}, error) {
	text := h.cardText(locale, card)

	switch card.Visual.Kind {
	case domain.VisualColor:
		swatch, err := colorSwatch(card.Visual.Color)
		if err != nil {
			return nil, err
		}
		return &tele.Photo{File: tele.FromReader(bytes.NewReader(swatch)), Caption: text}, nil
	case domain.VisualImage:
		return &tele.Photo{File: tele.FromURL(card.Visual.ImageURL), Caption: text}, nil
	default:
		return text, nil
	}
}
