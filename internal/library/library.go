// Package library manages deadlines and decks on top of the store: it plans
// quota tables when decks are created or grow, resets deadlines and loads
// review sessions.
package library

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/mio/internal/deck"
	"github.com/abhisek/mio/internal/deckfile"
	"github.com/abhisek/mio/internal/logging"
	"github.com/abhisek/mio/internal/quota"
	"github.com/abhisek/mio/internal/session"
	"github.com/abhisek/mio/internal/store"
)

// ErrInvalidArgument is returned for unusable names, dates or limits.
var ErrInvalidArgument = errors.New("library: invalid argument")

// Service is the entry point for everything that changes decks.
type Service struct {
	st  *store.Store
	log logrus.FieldLogger
	now func() time.Time
}

// New returns a Service backed by st.
func New(st *store.Store, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logging.Discard()
	}
	return &Service{st: st, log: log, now: time.Now}
}

// DeadlineSpec describes a deadline to create.
type DeadlineSpec struct {
	Name           string
	DueAt          time.Time
	StudyIntensity int
	IntervalMode   bool
}

// CreateDeadline stores a new deadline. Box-mode deadlines must lie between
// today and the longest supported horizon.
func (s *Service) CreateDeadline(ctx context.Context, spec DeadlineSpec) (deck.Deadline, error) {
	name := strings.TrimSpace(spec.Name)
	if name == "" {
		return deck.Deadline{}, fmt.Errorf("%w: empty deadline name", ErrInvalidArgument)
	}
	if spec.StudyIntensity < 0 {
		return deck.Deadline{}, fmt.Errorf("%w: study intensity %d", ErrInvalidArgument, spec.StudyIntensity)
	}

	now := s.now()
	dl := deck.Deadline{
		Name:           name,
		DueAt:          spec.DueAt,
		StudyIntensity: spec.StudyIntensity,
		IntervalMode:   spec.IntervalMode,
		CreatedAt:      now,
	}
	if !spec.IntervalMode {
		if err := checkHorizon(dl.DaysToGo(now)); err != nil {
			return deck.Deadline{}, err
		}
	}
	if err := s.st.CreateDeadline(ctx, &dl); err != nil {
		return deck.Deadline{}, err
	}
	s.log.WithFields(logrus.Fields{"deadline": name, "days_to_go": dl.DaysToGo(now)}).Info("deadline created")
	return dl, nil
}

func checkHorizon(daysToGo int) error {
	if daysToGo < 0 {
		return fmt.Errorf("%w: deadline passed %d days ago", ErrInvalidArgument, -daysToGo)
	}
	_, err := quota.NumBoxes(daysToGo)
	return err
}

// CreateDeck adds a deck with its cards under dl and plans its quotas.
// newPerDay only applies to interval-mode deadlines.
func (s *Service) CreateDeck(ctx context.Context, dl deck.Deadline, name string, newPerDay int, cards []deckfile.Card) (deck.Deck, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return deck.Deck{}, fmt.Errorf("%w: empty deck name", ErrInvalidArgument)
	}
	if newPerDay < 0 {
		return deck.Deck{}, fmt.Errorf("%w: new items per day %d", ErrInvalidArgument, newPerDay)
	}

	now := s.now()
	d := deck.Deck{
		DeadlineID: dl.ID,
		Name:       name,
		Mode:       dl.Mode(),
		CreatedAt:  now,
	}
	if d.Mode == deck.ModeBox {
		dtg := dl.DaysToGo(now)
		if err := checkHorizon(dtg); err != nil {
			return deck.Deck{}, err
		}
		boxes, err := quota.NumBoxes(dtg)
		if err != nil {
			return deck.Deck{}, err
		}
		d.BoxCount = boxes
	} else {
		d.NewPerDay = newPerDay
	}

	if err := s.st.CreateDeck(ctx, &d); err != nil {
		return deck.Deck{}, err
	}
	if len(cards) > 0 {
		if _, err := s.AddCards(ctx, dl, d, cards); err != nil {
			if derr := s.st.DeleteDeck(ctx, d.ID); derr != nil {
				err = errors.Join(err, derr)
			}
			return deck.Deck{}, err
		}
	}
	s.log.WithFields(logrus.Fields{"deck": name, "mode": d.Mode, "boxes": d.BoxCount, "cards": len(cards)}).Info("deck created")
	return d, nil
}

// AddCards appends cards to d. A box-mode deck's quota table is replanned
// for the grown item count: past days keep their history, today keeps
// what was already practiced, and progress made so far is discounted from
// the remaining days. It returns the number of cards added.
func (s *Service) AddCards(ctx context.Context, dl deck.Deadline, d deck.Deck, cards []deckfile.Card) (int, error) {
	if len(cards) == 0 {
		return 0, nil
	}
	items := make([]deck.Item, len(cards))
	for i, c := range cards {
		items[i] = deck.NewItem(d.Mode, c.Front, c.Back)
	}
	if err := s.st.AddItems(ctx, d.ID, items); err != nil {
		return 0, err
	}
	if d.Mode == deck.ModeInterval {
		return len(items), nil
	}

	all, err := s.st.Items(ctx, d)
	if err != nil {
		return 0, err
	}
	old, err := s.st.Quotas(ctx, d.ID)
	if err != nil {
		return 0, err
	}
	dtg := max(dl.DaysToGo(s.now()), 0)

	t, err := replan(all, old, dtg, d.BoxCount)
	if err != nil {
		return 0, fmt.Errorf("replan deck %q: %w", d.Name, err)
	}
	if err := s.st.SaveQuotas(ctx, d.ID, t); err != nil {
		return 0, err
	}
	s.log.WithFields(logrus.Fields{"deck": d.Name, "items": len(all), "days_to_go": dtg}).Debug("quotas replanned")
	return len(items), nil
}

// progress returns how many items left box 0 and how many box moves beyond
// box 1 they made.
func progress(items []deck.Item) (doneNew, doneReview int) {
	for _, it := range items {
		if it.Box != nil && it.Box.Position > 0 {
			doneNew++
			doneReview += it.Box.Position - 1
		}
	}
	return doneNew, doneReview
}

// replan computes a fresh table for the remaining days and splices it with
// the recorded history of old.
func replan(items []deck.Item, old quota.Table, daysToGo, boxes int) (quota.Table, error) {
	t, err := quota.Compute(len(items), daysToGo, boxes)
	if err != nil {
		return nil, err
	}
	doneNew, doneReview := progress(items)
	quota.Discount(t, doneNew, doneReview)
	quota.Redistribute(t)

	if rec, ok := old.Day(daysToGo); ok {
		today := &t[daysToGo]
		today.NewAssigned += rec.NewPracticed
		today.ReviewAssigned += rec.ReviewPracticed
		today.NewPracticed = rec.NewPracticed
		today.ReviewPracticed = rec.ReviewPracticed
	}
	if len(old) > daysToGo+1 {
		t = append(t, old[daysToGo+1:]...)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// ResetDeadline moves a box-mode deadline to due with a new study intensity.
// Every deck gets more boxes as set by the intensity and a freshly planned
// table that counts the progress already made.
func (s *Service) ResetDeadline(ctx context.Context, dl deck.Deadline, due time.Time, intensity int) (deck.Deadline, error) {
	if dl.IntervalMode {
		return deck.Deadline{}, fmt.Errorf("%w: interval-mode deadline %q has no due date", ErrInvalidArgument, dl.Name)
	}
	if intensity < 0 {
		return deck.Deadline{}, fmt.Errorf("%w: study intensity %d", ErrInvalidArgument, intensity)
	}
	dtg := deck.DaysToGo(s.now(), due)
	if err := checkHorizon(dtg); err != nil {
		return deck.Deadline{}, err
	}

	dl.DueAt = due
	dl.StudyIntensity = intensity
	dl.ResetCount++

	decks, err := s.st.Decks(ctx, dl.ID)
	if err != nil {
		return deck.Deadline{}, err
	}
	for _, d := range decks {
		boxes, err := quota.ResetBoxes(d.BoxCount, dtg, intensity, dl.ResetCount)
		if err != nil {
			return deck.Deadline{}, err
		}
		d.BoxCount = boxes

		items, err := s.st.Items(ctx, d)
		if err != nil {
			return deck.Deadline{}, err
		}
		var t quota.Table
		if len(items) > 0 {
			if t, err = quota.Compute(len(items), dtg, boxes); err != nil {
				return deck.Deadline{}, fmt.Errorf("replan deck %q: %w", d.Name, err)
			}
			doneNew, doneReview := progress(items)
			quota.Discount(t, doneNew, doneReview)
			quota.Redistribute(t)
		}
		if err := s.st.UpdateDeck(ctx, d); err != nil {
			return deck.Deadline{}, err
		}
		if err := s.st.SaveQuotas(ctx, d.ID, t); err != nil {
			return deck.Deadline{}, err
		}
		s.log.WithFields(logrus.Fields{"deck": d.Name, "boxes": boxes, "days_to_go": dtg}).Info("deck replanned")
	}

	if err := s.st.UpdateDeadline(ctx, dl); err != nil {
		return deck.Deadline{}, err
	}
	return dl, nil
}

// QuotaTable returns the quota table of a deck.
func (s *Service) QuotaTable(ctx context.Context, d deck.Deck) (quota.Table, error) {
	return s.st.Quotas(ctx, d.ID)
}

// OpenSession loads every deck of dl into a new review session.
func (s *Service) OpenSession(ctx context.Context, dl deck.Deadline, opts session.Options) (*session.Session, error) {
	if opts.Now == nil {
		opts.Now = s.now
	}
	if opts.Logger == nil {
		opts.Logger = s.log
	}
	now := opts.Now()

	decks, err := s.st.Decks(ctx, dl.ID)
	if err != nil {
		return nil, err
	}
	inputs := make([]session.DeckInput, 0, len(decks))
	for _, d := range decks {
		in := session.DeckInput{Deck: d}
		if in.Items, err = s.st.Items(ctx, d); err != nil {
			return nil, err
		}
		if d.Mode == deck.ModeInterval {
			in.Day, err = s.st.DayCount(ctx, d.ID, deck.StudyDay(now))
		} else {
			in.Quotas, err = s.st.Quotas(ctx, d.ID)
		}
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, in)
	}
	return session.New(dl.DaysToGo(now), inputs, opts)
}

// Deadline looks a deadline up by name.
func (s *Service) Deadline(ctx context.Context, name string) (deck.Deadline, error) {
	return s.st.DeadlineByName(ctx, name)
}

// Deadlines lists every deadline.
func (s *Service) Deadlines(ctx context.Context) ([]deck.Deadline, error) {
	return s.st.Deadlines(ctx)
}

// Deck looks a deck up by name under dl.
func (s *Service) Deck(ctx context.Context, dl deck.Deadline, name string) (deck.Deck, error) {
	return s.st.DeckByName(ctx, dl.ID, name)
}

// Decks lists the decks of dl.
func (s *Service) Decks(ctx context.Context, dl deck.Deadline) ([]deck.Deck, error) {
	return s.st.Decks(ctx, dl.ID)
}

// DeleteDeck removes d with its cards and quotas.
func (s *Service) DeleteDeck(ctx context.Context, d deck.Deck) error {
	if err := s.st.DeleteDeck(ctx, d.ID); err != nil {
		return err
	}
	s.log.WithField("deck", d.Name).Info("deck deleted")
	return nil
}

// DeleteDeadline removes dl and everything under it.
func (s *Service) DeleteDeadline(ctx context.Context, dl deck.Deadline) error {
	if err := s.st.DeleteDeadline(ctx, dl.ID); err != nil {
		return err
	}
	s.log.WithField("deadline", dl.Name).Info("deadline deleted")
	return nil
}

// ReviewEvents reads the review log.
func (s *Service) ReviewEvents(ctx context.Context, opts store.QueryOpts) ([]store.ReviewEventData, error) {
	return s.st.ReviewEvents(ctx, opts)
}
