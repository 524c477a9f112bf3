package domain

import "strings"

// colorNames maps lowercase color words to CSS color names
var colorNames = map[string]string{
	"red":      "red",
	"blue":     "blue",
	"green":    "green",
	"yellow":   "yellow",
	"pink":     "pink",
	"purple":   "purple",
	"black":    "black",
	"white":    "white",
	"brown":    "brown",
	"grey":     "grey",
	"gray":     "gray",
	"orange":   "orange",
	"gold":     "gold",
	"silver":   "silver",
	"sky blue": "skyblue",
	"skyblue":  "skyblue",
}

// ColorForWord returns the color a word names, if any.
// Matching is case-insensitive and exact.
func ColorForWord(word string) (string, bool) {
	if word == "" {
		return "", false
	}
	color, ok := colorNames[strings.ToLower(word)]
	return color, ok
}
