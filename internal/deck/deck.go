// Package deck defines the records the scheduler works on: deadlines, the
// decks under them and the items inside a deck.
package deck

import (
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/mio/internal/spacedrep"
)

// Mode selects how a deck schedules its items. It is fixed when the deck is
// created.
type Mode int

const (
	// ModeBox schedules items in Leitner boxes against a deadline.
	ModeBox Mode = iota
	// ModeInterval schedules items with SM-2 intervals and no deadline.
	ModeInterval
)

func (m Mode) String() string {
	switch m {
	case ModeBox:
		return "box"
	case ModeInterval:
		return "interval"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Stack tells where an item stands in the current session.
type Stack string

const (
	StackNew    Stack = "new"
	StackReview Stack = "review"
	StackDone   Stack = "done"
)

// ErrMixedState is returned when an item carries no scheduling state, both
// states, or the state of the wrong mode.
var ErrMixedState = errors.New("deck: item scheduling state does not match deck mode")

// BoxState places an item in a Leitner box.
type BoxState struct {
	Position   int       `json:"position"`
	LastReview time.Time `json:"last_review"`
}

// Item is a card. Exactly one of Box and Interval is set, matching the
// owning deck's mode.
type Item struct {
	ID       int64                    `json:"id"`
	DeckID   int64                    `json:"deck_id"`
	Front    string                   `json:"front"`
	Back     string                   `json:"back"`
	Box      *BoxState                `json:"box,omitempty"`
	Interval *spacedrep.IntervalState `json:"interval,omitempty"`
}

// NewItem returns an unscheduled item in the initial state for mode.
func NewItem(mode Mode, front, back string) Item {
	it := Item{Front: front, Back: back}
	switch mode {
	case ModeInterval:
		st := spacedrep.NewIntervalState()
		it.Interval = &st
	default:
		it.Box = &BoxState{}
	}
	return it
}

// Mode returns the scheduling mode implied by the item's state.
func (it *Item) Mode() Mode {
	if it.Interval != nil {
		return ModeInterval
	}
	return ModeBox
}

// Check verifies that the item's state fits a deck of the given mode and
// box count.
func (it *Item) Check(mode Mode, boxCount int) error {
	if (it.Box == nil) == (it.Interval == nil) || it.Mode() != mode {
		return fmt.Errorf("%w: item %d", ErrMixedState, it.ID)
	}
	if it.Box != nil && (it.Box.Position < 0 || it.Box.Position >= boxCount) {
		return fmt.Errorf("deck: item %d in box %d outside [0, %d)", it.ID, it.Box.Position, boxCount)
	}
	return nil
}

// Clone returns a deep copy of the item.
func (it Item) Clone() Item {
	if it.Box != nil {
		b := *it.Box
		it.Box = &b
	}
	if it.Interval != nil {
		s := *it.Interval
		it.Interval = &s
	}
	return it
}

// Deck groups items under a deadline.
type Deck struct {
	ID         int64     `json:"id"`
	DeadlineID int64     `json:"deadline_id"`
	Name       string    `json:"name"`
	Mode       Mode      `json:"mode"`
	BoxCount   int       `json:"box_count"`
	NewPerDay  int       `json:"new_per_day"`
	CreatedAt  time.Time `json:"created_at"`
}

// Deadline is a due date shared by a set of decks. Interval-mode deadlines
// have no due date.
type Deadline struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	DueAt          time.Time `json:"due_at"`
	StudyIntensity int       `json:"study_intensity"`
	ResetCount     int       `json:"reset_count"`
	IntervalMode   bool      `json:"interval_mode"`
	CreatedAt      time.Time `json:"created_at"`
}

// Mode returns the mode of every deck under the deadline.
func (d Deadline) Mode() Mode {
	if d.IntervalMode {
		return ModeInterval
	}
	return ModeBox
}

// DaysToGo returns the days left until the deadline as seen at now.
func (d Deadline) DaysToGo(now time.Time) int {
	return DaysToGo(now, d.DueAt)
}
