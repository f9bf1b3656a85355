package session

import (
	"time"

	"github.com/abhisek/mio/internal/deck"
)

// DeckSummary is one deck's line on the summary screen.
type DeckSummary struct {
	Name            string
	Mode            deck.Mode
	NewPracticed    int
	ReviewPracticed int
	NewLeft         int
	ReviewLeft      int
	BoxCounts       []int
}

// Summary holds the data displayed when a session ends.
type Summary struct {
	SessionID  string
	Duration   time.Duration
	Responses  int
	Passed     int
	Repeated   int
	Introduced int
	Accuracy   float64
	Decks      []DeckSummary
}

// Summary reports what happened in the session so far. Responses already
// flushed are no longer counted.
func (s *Session) Summary() *Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := &Summary{
		SessionID: s.id,
		Duration:  s.now().Sub(s.started),
		Responses: len(s.events),
	}
	for _, e := range s.events {
		if e.StackAfter == string(deck.StackDone) {
			sum.Passed++
			if e.StackBefore == string(deck.StackNew) {
				sum.Introduced++
			}
		} else {
			sum.Repeated++
		}
	}
	if sum.Responses > 0 {
		sum.Accuracy = float64(sum.Passed) / float64(sum.Responses)
	}

	for _, ds := range s.decks {
		line := DeckSummary{
			Name:      ds.deck.Name,
			Mode:      ds.deck.Mode,
			NewLeft:   ds.newAvail(),
			BoxCounts: ds.boxCounts(),
		}
		line.ReviewLeft = ds.reviewAvail(s.lastDay())
		if ds.deck.Mode == deck.ModeInterval {
			line.NewPracticed, line.ReviewPracticed = ds.count.NewPracticed, ds.count.ReviewPracticed
		} else if rec := ds.record(); rec != nil {
			line.NewPracticed, line.ReviewPracticed = rec.NewPracticed, rec.ReviewPracticed
		}
		sum.Decks = append(sum.Decks, line)
	}
	return sum
}
