package domain

// SessionState holds one user's flashcard state
type SessionState struct {
	Records  []WordRecord
	Current  *WordRecord
	Revealed bool

	// MessageID is the chat message currently showing Current
	MessageID int
}

// HasRecords reports whether there is anything to pick from
func (s *SessionState) HasRecords() bool {
	return len(s.Records) > 0
}
