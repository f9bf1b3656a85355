package session

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/abhisek/mio/internal/deck"
	"github.com/abhisek/mio/internal/leitner"
	"github.com/abhisek/mio/internal/quota"
	"github.com/abhisek/mio/internal/spacedrep"
)

// DeckInput is the persisted state of one deck handed to a session.
type DeckInput struct {
	Deck  deck.Deck
	Items []deck.Item

	// Quotas is the quota table of a box-mode deck.
	Quotas quota.Table

	// Day holds an interval-mode deck's counters for the last study day
	// it was used. A different day starts from zero.
	Day spacedrep.DayCount
}

// deckState is the in-memory scheduling state of one deck.
type deckState struct {
	deck  deck.Deck
	items []*deck.Item

	// Box mode.
	boxes  leitner.Boxes
	quotas quota.Table
	today  int // index into quotas, -1 when the table has no record for today

	// Interval mode.
	fresh *leitner.Queue
	due   *leitner.Queue
	count spacedrep.DayCount

	// intro holds the items that may be introduced this session.
	intro map[int64]bool
}

func newBoxDeck(in DeckInput, daysToGo int, rng *rand.Rand) (*deckState, error) {
	d := in.Deck
	if d.BoxCount < quota.MinBoxes {
		return nil, fmt.Errorf("%w: deck %q has %d boxes", ErrInvariant, d.Name, d.BoxCount)
	}
	if err := in.Quotas.Validate(); err != nil {
		return nil, fmt.Errorf("%w: deck %q: %w", ErrInvariant, d.Name, err)
	}

	ds := &deckState{
		deck:   d,
		boxes:  leitner.NewBoxes(d.BoxCount),
		quotas: in.Quotas.Clone(),
		today:  -1,
		intro:  make(map[int64]bool),
	}
	seen := make(map[int64]bool, len(in.Items))
	for _, it := range in.Items {
		if err := it.Check(deck.ModeBox, d.BoxCount); err != nil {
			return nil, fmt.Errorf("%w: deck %q: %w", ErrInvariant, d.Name, err)
		}
		if seen[it.ID] {
			return nil, fmt.Errorf("%w: deck %q lists item %d twice", ErrInvariant, d.Name, it.ID)
		}
		seen[it.ID] = true
		item := it.Clone()
		ds.items = append(ds.items, &item)
		ds.boxes[item.Box.Position].Push(&item, boxKey(&item, rng))
	}

	quota.HandleMissedDays(ds.quotas, daysToGo)
	if daysToGo < len(ds.quotas) {
		ds.today = daysToGo
	}
	if rec := ds.record(); rec != nil {
		for _, id := range ds.boxes[0].Lowest(rec.NewLeft()) {
			ds.intro[id] = true
		}
	}
	return ds, nil
}

func newIntervalDeck(in DeckInput, today time.Time, rng *rand.Rand) (*deckState, error) {
	d := in.Deck
	day := today.Format(deck.DayLayout)
	ds := &deckState{
		deck:  d,
		today: -1,
		fresh: leitner.NewQueue(),
		due:   leitner.NewQueue(),
		count: spacedrep.DayCount{Day: day},
		intro: make(map[int64]bool),
	}
	if in.Day.Day == day {
		ds.count = in.Day
	}

	for _, it := range in.Items {
		if err := it.Check(deck.ModeInterval, 0); err != nil {
			return nil, fmt.Errorf("%w: deck %q: %w", ErrInvariant, d.Name, err)
		}
		item := it.Clone()
		ds.items = append(ds.items, &item)
		st := item.Interval
		switch {
		case !st.IsDue(today):
		case st.IsNew():
			ds.fresh.Push(&item, item.ID)
		default:
			ds.due.Push(&item, leitner.Key(st.NextPractice, rng))
		}
	}

	for _, id := range ds.fresh.Lowest(spacedrep.NewQuota(d.NewPerDay, ds.count, ds.fresh.Len())) {
		ds.intro[id] = true
	}
	return ds, nil
}

// boxKey orders never-reviewed items by insertion and the rest by their
// last review.
func boxKey(it *deck.Item, rng *rand.Rand) int64 {
	if it.Box.LastReview.IsZero() {
		return it.ID
	}
	return leitner.Key(it.Box.LastReview, rng)
}

// record returns today's quota record, or nil.
func (d *deckState) record() *quota.Record {
	if d.today < 0 {
		return nil
	}
	return &d.quotas[d.today]
}

func (d *deckState) newAvail() int {
	if d.deck.Mode == deck.ModeInterval {
		return len(d.intro)
	}
	rec := d.record()
	if rec == nil {
		return 0
	}
	return min(rec.NewLeft(), len(d.intro))
}

func (d *deckState) reviewAvail(lastDay bool) int {
	if d.deck.Mode == deck.ModeInterval {
		return d.due.Len()
	}
	rec := d.record()
	if rec == nil || rec.ReviewLeft() == 0 {
		return 0
	}
	end := len(d.boxes) - 1
	if lastDay {
		end = len(d.boxes)
	}
	for i := 1; i < end; i++ {
		if d.boxes[i].Len() > 0 {
			return rec.ReviewLeft()
		}
	}
	return 0
}

func (d *deckState) progressed() int {
	if d.deck.Mode == deck.ModeInterval {
		return d.count.Progressed()
	}
	if rec := d.record(); rec != nil {
		return rec.NewPracticed + rec.ReviewPracticed
	}
	return 0
}

// popIntro takes the lowest-keyed item of q that is in the introduce set.
// Items skipped on the way go back with their keys.
func (d *deckState) popIntro(q *leitner.Queue) (*deck.Item, int64, bool) {
	type skipped struct {
		it  *deck.Item
		key int64
	}
	var back []skipped
	defer func() {
		for _, s := range back {
			q.Push(s.it, s.key)
		}
	}()

	for {
		it, key, ok := q.Pop()
		if !ok {
			return nil, 0, false
		}
		if d.intro[it.ID] {
			return it, key, true
		}
		back = append(back, skipped{it, key})
	}
}

// boxCounts returns the number of items per box, or nil in interval mode.
func (d *deckState) boxCounts() []int {
	if d.boxes == nil {
		return nil
	}
	return d.boxes.Counts()
}
