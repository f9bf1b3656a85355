// Package session runs a study session over the decks of one deadline: it
// draws the next item, applies graded responses to boxes and quota
// counters, undoes them, and hands the final state to the store.
package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/mio/internal/deck"
	"github.com/abhisek/mio/internal/leitner"
	"github.com/abhisek/mio/internal/logging"
	"github.com/abhisek/mio/internal/store"
)

var (
	// ErrComplete is returned by DrawNext when no new or review work is
	// left. It ends a session normally.
	ErrComplete = errors.New("session: complete")

	// ErrInvariant marks scheduling state that cannot be trusted. The
	// session must be abandoned.
	ErrInvariant = errors.New("session: invariant violated")

	// ErrNoDraw is returned when a response does not match the drawn item.
	ErrNoDraw = errors.New("session: item is not the current draw")

	// ErrDrawOutstanding is returned when DrawNext is called before the
	// previous draw was answered or abandoned.
	ErrDrawOutstanding = errors.New("session: previous draw not answered")

	// ErrInvalidScore is returned for a score outside the deck mode's range.
	ErrInvalidScore = errors.New("session: invalid score")
)

const (
	// cadenceCycle and cadenceNew give the 5 new / 10 review rhythm.
	cadenceCycle = 15
	cadenceNew   = 5

	maxDeckRetries = 10000
)

// Options tunes a session. Zero values pick the defaults.
type Options struct {
	Now    func() time.Time
	Rand   *rand.Rand
	Logger logrus.FieldLogger
}

// Card is a drawn item as seen by the caller.
type Card struct {
	Item     deck.Item
	DeckName string
	Mode     deck.Mode
	Stack    deck.Stack
}

// Quota is the work left in a session.
type Quota struct {
	NewLeft    int
	ReviewLeft int
	Progressed int
}

// Done reports whether no work is left.
func (q Quota) Done() bool {
	return q.NewLeft == 0 && q.ReviewLeft == 0
}

// Undone describes a response taken back by UndoLast.
type Undone struct {
	Card       Card
	Score      int
	UserAnswer string
	StackAfter deck.Stack
}

// Saver persists the state of a finished session.
type Saver interface {
	SaveSession(ctx context.Context, data store.SessionData) error
}

type draw struct {
	deck  *deckState
	item  *deck.Item
	stack deck.Stack
	queue *leitner.Queue
	key   int64
}

func (d *draw) card() *Card {
	return &Card{
		Item:     d.item.Clone(),
		DeckName: d.deck.deck.Name,
		Mode:     d.deck.deck.Mode,
		Stack:    d.stack,
	}
}

// Session holds the scheduling state of one study session. All methods are
// safe for concurrent use.
type Session struct {
	mu sync.Mutex

	id       string
	daysToGo int
	started  time.Time
	decks    []*deckState
	current  *draw
	undo     []undoEntry
	events   []store.ReviewEventData

	rng *rand.Rand
	now func() time.Time
	log logrus.FieldLogger
}

// New starts a session over decks. daysToGo is the distance to the shared
// deadline; it is ignored by interval-mode decks. Missed days are
// reconciled into each box-mode quota table before the first draw.
func New(daysToGo int, decks []DeckInput, opts Options) (*Session, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Rand == nil {
		seed := uint64(opts.Now().UnixNano())
		opts.Rand = rand.New(rand.NewPCG(seed, seed>>7|1))
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}

	s := &Session{
		id:       uuid.New().String(),
		daysToGo: max(daysToGo, 0),
		started:  opts.Now(),
		rng:      opts.Rand,
		now:      opts.Now,
	}
	s.log = opts.Logger.WithField("session", s.id)

	today := deck.StudyDate(s.started)
	for _, in := range decks {
		var (
			ds  *deckState
			err error
		)
		switch in.Deck.Mode {
		case deck.ModeInterval:
			ds, err = newIntervalDeck(in, today, s.rng)
		default:
			ds, err = newBoxDeck(in, s.daysToGo, s.rng)
		}
		if err != nil {
			return nil, err
		}
		s.log.WithFields(logrus.Fields{
			"deck":        ds.deck.Name,
			"days_to_go":  s.daysToGo,
			"new_left":    ds.newAvail(),
			"review_left": ds.reviewAvail(s.lastDay()),
		}).Debug("deck loaded")
		s.decks = append(s.decks, ds)
	}
	return s, nil
}

// ID returns the session's unique id.
func (s *Session) ID() string {
	return s.id
}

// DaysToGo returns the days left to the deadline.
func (s *Session) DaysToGo() int {
	return s.daysToGo
}

func (s *Session) lastDay() bool {
	return s.daysToGo == 0
}

// Remaining returns the summed quota left across decks.
func (s *Session) Remaining() Quota {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remaining()
}

func (s *Session) remaining() Quota {
	var q Quota
	for _, d := range s.decks {
		q.NewLeft += d.newAvail()
		q.ReviewLeft += d.reviewAvail(s.lastDay())
		q.Progressed += d.progressed()
	}
	return q
}

// Current returns the outstanding draw, if any.
func (s *Session) Current() (*Card, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil, false
	}
	return s.current.card(), true
}

// CanUndo reports whether a response can be taken back.
func (s *Session) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.undo) > 0
}

// DrawNext picks the next item to present. It returns ErrComplete when the
// day's work is done.
func (s *Session) DrawNext() (*Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		return nil, ErrDrawOutstanding
	}

	q := s.remaining()
	if q.Done() {
		return nil, ErrComplete
	}
	isNew := (q.Progressed%cadenceCycle < cadenceNew && q.NewLeft > 0) || q.ReviewLeft == 0

	ds, err := s.pickDeck(isNew)
	if err != nil {
		return nil, err
	}

	d := &draw{deck: ds, stack: deck.StackReview}
	var ok bool
	switch {
	case isNew && ds.deck.Mode == deck.ModeInterval:
		d.stack, d.queue = deck.StackNew, ds.fresh
		d.item, d.key, ok = ds.popIntro(ds.fresh)
	case isNew:
		d.stack, d.queue = deck.StackNew, ds.boxes[0]
		d.item, d.key, ok = ds.popIntro(ds.boxes[0])
	case ds.deck.Mode == deck.ModeInterval:
		d.queue = ds.due
		d.item, d.key, ok = ds.due.Pop()
	default:
		box := leitner.ChooseReviewBox(ds.boxes, s.lastDay(), s.rng)
		if box < 0 {
			return nil, fmt.Errorf("%w: deck %q has review quota but no reviewable box", ErrInvariant, ds.deck.Name)
		}
		d.queue = ds.boxes[box]
		d.item, d.key, ok = d.queue.Pop()
	}
	if !ok {
		return nil, fmt.Errorf("%w: deck %q has no %s item to draw", ErrInvariant, ds.deck.Name, d.stack)
	}

	s.current = d
	return d.card(), nil
}

// pickDeck chooses uniformly among the decks with work of the wanted kind.
func (s *Session) pickDeck(isNew bool) (*deckState, error) {
	for range maxDeckRetries {
		ds := s.decks[s.rng.IntN(len(s.decks))]
		if (isNew && ds.newAvail() > 0) || (!isNew && ds.reviewAvail(s.lastDay()) > 0) {
			return ds, nil
		}
	}
	return nil, fmt.Errorf("%w: no deck found after %d draws", ErrInvariant, maxDeckRetries)
}

// Abandon puts an outstanding draw back where it came from.
func (s *Session) Abandon() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.abandon()
}

func (s *Session) abandon() {
	if s.current == nil {
		return
	}
	s.current.queue.Push(s.current.item, s.current.key)
	s.current = nil
}

// Flush abandons any outstanding draw and saves every deck's items, quota
// table or day counters together with the buffered review events. Events
// are dropped from the buffer once saved.
func (s *Session) Flush(ctx context.Context, saver Saver) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.abandon()
	data := store.SessionData{
		SessionID: s.id,
		Events:    s.events,
	}
	for _, ds := range s.decks {
		dd := store.DeckData{DeckID: ds.deck.ID}
		for _, it := range ds.items {
			dd.Items = append(dd.Items, it.Clone())
		}
		if ds.deck.Mode == deck.ModeInterval {
			count := ds.count
			dd.Day = &count
		} else {
			dd.Quotas = ds.quotas.Clone()
		}
		data.Decks = append(data.Decks, dd)
	}

	if err := saver.SaveSession(ctx, data); err != nil {
		return fmt.Errorf("flush session: %w", err)
	}
	s.log.WithField("events", len(s.events)).Debug("session flushed")
	s.events = nil
	s.undo = nil
	return nil
}
