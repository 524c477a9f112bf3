package domain

import "errors"

var (
	// ErrNoWords is returned when an operation needs a non-empty word list
	ErrNoWords = errors.New("no words loaded")
	// ErrNoCurrentCard is returned when no card has been drawn yet
	ErrNoCurrentCard = errors.New("no current card")
)
