package review

import "github.com/abhisek/mio/internal/session"

// drawnMsg carries the result of drawing the next card.
type drawnMsg struct {
	card *session.Card
	err  error
}

// flushedMsg is sent once the session has been written back.
type flushedMsg struct {
	summary *session.Summary
	err     error
}
