package service

import (
	"net/url"
	"strings"

	"flashcards/internal/domain"
)

// ImageResolver decides what goes into a card's visual slot
type ImageResolver struct {
	base *url.URL
}

// NewImageResolver creates a resolver. Relative image paths are resolved
// against baseURL; with an empty or invalid baseURL only absolute image URLs render.
func NewImageResolver(baseURL string) *ImageResolver {
	r := &ImageResolver{}
	if baseURL == "" {
		return r
	}
	if u, err := url.Parse(baseURL); err == nil && u.IsAbs() {
		if !strings.HasSuffix(u.Path, "/") {
			u.Path += "/"
		}
		r.base = u
	}
	return r
}

// Resolve applies the visual priority: color word, then image, then placeholder
func (r *ImageResolver) Resolve(rec domain.WordRecord) domain.Visual {
	if color, ok := domain.ColorForWord(rec.Word); ok {
		return domain.Visual{Kind: domain.VisualColor, Color: color}
	}

	if rec.Image != "" {
		if imageURL, ok := r.ImageURL(rec.Image); ok {
			return domain.Visual{
				Kind:     domain.VisualImage,
				ImageURL: imageURL,
				Alt:      altText(rec),
			}
		}
	}

	return domain.PlaceholderVisual(rec.Translation)
}

// ImageURL turns an image path from the feed into an absolute URL
func (r *ImageResolver) ImageURL(path string) (string, bool) {
	ref, err := url.Parse(strings.TrimSpace(path))
	if err != nil {
		return "", false
	}
	if ref.IsAbs() {
		return ref.String(), ref.Scheme == "http" || ref.Scheme == "https"
	}
	if r.base == nil {
		return "", false
	}
	return r.base.ResolveReference(ref).String(), true
}

func altText(rec domain.WordRecord) string {
	switch {
	case rec.Word != "":
		return rec.Word
	case rec.Translation != "":
		return rec.Translation
	default:
		return "image"
	}
}
