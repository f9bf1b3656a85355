package library

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/mio/internal/deck"
	"github.com/abhisek/mio/internal/quota"
)

// Cards lists the cards of d in insertion order.
func (s *Service) Cards(ctx context.Context, d deck.Deck) ([]deck.Item, error) {
	return s.st.Items(ctx, d)
}

// UpdateCard rewrites the text of card id in d. Its schedule is kept.
func (s *Service) UpdateCard(ctx context.Context, d deck.Deck, id int64, front, back string) error {
	front, back = strings.TrimSpace(front), strings.TrimSpace(back)
	if front == "" || back == "" {
		return fmt.Errorf("%w: card %d needs a front and a back", ErrInvalidArgument, id)
	}
	if _, err := s.st.Item(ctx, d, id); err != nil {
		return err
	}
	if err := s.st.UpdateItemText(ctx, id, front, back); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"deck": d.Name, "card": id}).Info("card updated")
	return nil
}

// DeleteCard removes card id from d. In a box-mode deck the reviews and the
// introduction the card still owed are taken out of the quota table from
// today back to the deadline day. It returns the number of quota units
// released.
func (s *Service) DeleteCard(ctx context.Context, dl deck.Deadline, d deck.Deck, id int64) (int, error) {
	it, err := s.st.Item(ctx, d, id)
	if err != nil {
		return 0, err
	}

	var (
		t        quota.Table
		released int
	)
	if d.Mode == deck.ModeBox {
		if t, err = s.st.Quotas(ctx, d.ID); err != nil {
			return 0, err
		}
		if len(t) == 0 {
			t = nil
		} else {
			released = quota.Release(t, dl.DaysToGo(s.now()), d.BoxCount, it.Box.Position)
		}
	}
	if err := s.st.DeleteItem(ctx, d.ID, id, t); err != nil {
		return 0, err
	}
	s.log.WithFields(logrus.Fields{"deck": d.Name, "card": id, "released": released}).Info("card deleted")
	return released, nil
}

// DeckStatus is the current workload of a deck.
type DeckStatus struct {
	Cards int

	// Box mode: what today's quota record still asks for.
	NewToday, ReviewsToday int

	// Interval mode.
	New        int // never reviewed
	Due        int
	MaxOverdue int // days the most overdue card is late
	NextDueIn  int // days until the next card falls due, -1 when none is scheduled
}

// Status summarizes the workload of d for the current study day.
func (s *Service) Status(ctx context.Context, dl deck.Deadline, d deck.Deck) (DeckStatus, error) {
	now := s.now()
	st := DeckStatus{NextDueIn: -1}

	if d.Mode == deck.ModeBox {
		n, err := s.st.CountItems(ctx, d.ID)
		if err != nil {
			return DeckStatus{}, err
		}
		st.Cards = n
		t, err := s.st.Quotas(ctx, d.ID)
		if err != nil {
			return DeckStatus{}, err
		}
		if rec, ok := t.Day(dl.DaysToGo(now)); ok {
			st.NewToday, st.ReviewsToday = rec.NewLeft(), rec.ReviewLeft()
		}
		return st, nil
	}

	items, err := s.st.Items(ctx, d)
	if err != nil {
		return DeckStatus{}, err
	}
	st.Cards = len(items)
	today := deck.StudyDate(now)
	for _, it := range items {
		iv := it.Interval
		switch {
		case iv.IsNew() && iv.LastReview.IsZero():
			st.New++
		case iv.IsDue(today):
			st.Due++
			st.MaxOverdue = max(st.MaxOverdue, iv.OverdueDays(today))
		default:
			if n := iv.DaysUntilReview(today); st.NextDueIn < 0 || n < st.NextDueIn {
				st.NextDueIn = n
			}
		}
	}
	return st, nil
}
