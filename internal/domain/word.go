package domain

// WordRecord represents one vocabulary entry as served by the words feed.
// Optional fields are empty when absent.
type WordRecord struct {
	Word          string `json:"word"`
	Transcription string `json:"transcription,omitempty"`
	Translation   string `json:"translation,omitempty"`
	Image         string `json:"image,omitempty"`
}
