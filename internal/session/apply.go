package session

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/mio/internal/deck"
	"github.com/abhisek/mio/internal/leitner"
	"github.com/abhisek/mio/internal/quota"
	"github.com/abhisek/mio/internal/spacedrep"
	"github.com/abhisek/mio/internal/store"
)

// undoEntry is everything needed to take one response back.
type undoEntry struct {
	draw       draw
	prev       deck.Item
	record     quota.Record
	count      spacedrep.DayCount
	wasIntro   bool
	placed     *leitner.Queue // nil when the item left every queue
	score      int
	userAnswer string
	stackAfter deck.Stack
	events     int
}

// ApplyResponse grades the current draw. Box-mode decks take a score in
// {-1, 0, +1}; interval-mode decks take an SM-2 quality in 1..5. It returns
// where the item stands afterwards: "done" items need no more practice
// today.
func (s *Session) ApplyResponse(itemID int64, score int, userAnswer string) (deck.Stack, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.current
	if d == nil || d.item.ID != itemID {
		return "", fmt.Errorf("%w: item %d", ErrNoDraw, itemID)
	}
	ds := d.deck

	u := undoEntry{
		draw:       *d,
		prev:       d.item.Clone(),
		count:      ds.count,
		wasIntro:   ds.intro[itemID],
		score:      score,
		userAnswer: userAnswer,
		events:     len(s.events),
	}
	if rec := ds.record(); rec != nil {
		u.record = *rec
	}

	now := s.now()
	var err error
	if ds.deck.Mode == deck.ModeInterval {
		u.stackAfter, u.placed, err = s.applyInterval(d, score, now)
	} else {
		u.stackAfter, u.placed, err = s.applyBox(d, score, now)
	}
	if err != nil {
		return "", err
	}

	ev := store.ReviewEventData{
		Timestamp:   now,
		SessionID:   s.id,
		DeckID:      ds.deck.ID,
		CardID:      itemID,
		StackBefore: string(d.stack),
		StackAfter:  string(u.stackAfter),
		Score:       score,
		UserAnswer:  userAnswer,
	}
	if d.item.Box != nil {
		ev.BoxBefore, ev.BoxAfter = u.prev.Box.Position, d.item.Box.Position
	}
	s.events = append(s.events, ev)
	s.undo = append(s.undo, u)
	s.current = nil

	s.log.WithFields(logrus.Fields{
		"deck":  ds.deck.Name,
		"item":  itemID,
		"score": score,
		"stack": u.stackAfter,
	}).Debug("response applied")
	return u.stackAfter, nil
}

// applyBox moves the item between boxes and updates today's quota record.
func (s *Session) applyBox(d *draw, score int, now time.Time) (deck.Stack, *leitner.Queue, error) {
	if score < -1 || score > 1 {
		return "", nil, fmt.Errorf("%w: %d not in [-1, 1]", ErrInvalidScore, score)
	}
	ds, it := d.deck, d.item
	rec := ds.record()
	if rec == nil {
		return "", nil, fmt.Errorf("%w: deck %q has no quota for today", ErrInvariant, ds.deck.Name)
	}

	pos := leitner.NextPosition(it.Box.Position, score, len(ds.boxes))
	after := deck.StackReview
	switch {
	case d.stack == deck.StackNew && score == 1:
		rec.NewPracticed++
		delete(ds.intro, it.ID)
		after = deck.StackDone
	case d.stack == deck.StackNew:
		after = deck.StackNew
	case score == 1:
		rec.ReviewPracticed++
		after = deck.StackDone
	case score == -1:
		if rec.ReviewPracticed > 0 {
			rec.ReviewPracticed--
		} else {
			rec.ReviewAssigned++
		}
		if pos == 0 {
			// Forgotten items are introduced again.
			ds.intro[it.ID] = true
			after = deck.StackNew
		}
	}

	it.Box.Position = pos
	it.Box.LastReview = now
	q := ds.boxes[pos]
	q.Push(it, leitner.Key(now, s.rng))
	return after, q, nil
}

// applyInterval runs the SM-2 step. A positive interval finishes the item
// for today; interval 0 puts it back in line.
func (s *Session) applyInterval(d *draw, quality int, now time.Time) (deck.Stack, *leitner.Queue, error) {
	ds, it := d.deck, d.item
	next, res, err := it.Interval.Apply(quality, deck.StudyDate(now), now)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrInvalidScore, err)
	}
	*it.Interval = next

	if res.IntervalDays > 0 {
		if d.stack == deck.StackNew {
			ds.count.NewPracticed++
			delete(ds.intro, it.ID)
		} else {
			ds.count.ReviewPracticed++
		}
		return deck.StackDone, nil, nil
	}

	// Repetitions only grow on success, so a repeated item keeps its stack.
	if d.stack == deck.StackNew {
		ds.fresh.Push(it, d.key)
		return deck.StackNew, ds.fresh, nil
	}
	ds.due.Push(it, leitner.Key(now, s.rng))
	return deck.StackReview, ds.due, nil
}

// UndoLast takes back the most recent response and makes its item the
// current draw again. Any outstanding draw is put back first. It returns
// false when there is nothing to undo.
func (s *Session) UndoLast() (Undone, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.undo) == 0 {
		return Undone{}, false
	}
	s.abandon()

	u := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]

	d := u.draw
	ds, it := d.deck, d.item
	if u.placed != nil {
		u.placed.Remove(it.ID)
	}
	*it = u.prev
	if u.wasIntro {
		ds.intro[it.ID] = true
	} else {
		delete(ds.intro, it.ID)
	}
	if rec := ds.record(); rec != nil {
		*rec = u.record
	}
	ds.count = u.count
	s.events = s.events[:u.events]
	s.current = &d

	s.log.WithFields(logrus.Fields{"deck": ds.deck.Name, "item": it.ID}).Debug("response undone")
	return Undone{
		Card:       *d.card(),
		Score:      u.score,
		UserAnswer: u.userAnswer,
		StackAfter: u.stackAfter,
	}, true
}
