package session

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mio/internal/deck"
	"github.com/abhisek/mio/internal/quota"
	"github.com/abhisek/mio/internal/spacedrep"
	"github.com/abhisek/mio/internal/store"
)

var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func testOptions(seed uint64) Options {
	return Options{
		Now:  func() time.Time { return testNow },
		Rand: rand.New(rand.NewPCG(seed, 7)),
	}
}

// boxDeck builds a box-mode deck whose items sit at the given positions.
// Item ids are 1-based in position order.
func boxDeck(boxCount int, positions ...int) DeckInput {
	d := deck.Deck{ID: 1, Name: "verbs", Mode: deck.ModeBox, BoxCount: boxCount}
	in := DeckInput{Deck: d}
	for i, pos := range positions {
		it := deck.NewItem(deck.ModeBox, "front", "back")
		it.ID = int64(i + 1)
		it.DeckID = d.ID
		it.Box.Position = pos
		if pos > 0 {
			it.Box.LastReview = testNow.Add(-24 * time.Hour)
		}
		in.Items = append(in.Items, it)
	}
	return in
}

// todayTable returns a table for daysToGo days whose last record is today.
func todayTable(daysToGo, newAssigned, reviewAssigned int) quota.Table {
	t := make(quota.Table, daysToGo+1)
	for i := range t {
		t[i].DaysToGo = i
	}
	t[daysToGo].NewAssigned = newAssigned
	t[daysToGo].ReviewAssigned = reviewAssigned
	t[daysToGo].NewQuotaInitial = newAssigned
	t[daysToGo].ReviewQuotaInitial = reviewAssigned
	return t
}

type captureSaver struct {
	data store.SessionData
	err  error
}

func (c *captureSaver) SaveSession(_ context.Context, data store.SessionData) error {
	if c.err != nil {
		return c.err
	}
	c.data = data
	return nil
}

func flush(t *testing.T, s *Session) store.SessionData {
	t.Helper()
	var saver captureSaver
	require.NoError(t, s.Flush(context.Background(), &saver))
	return saver.data
}

func TestApplyResponse_ReviewPromotes(t *testing.T) {
	in := boxDeck(3, 1)
	in.Quotas = todayTable(2, 0, 1)

	s, err := New(2, []DeckInput{in}, testOptions(1))
	require.NoError(t, err)
	before := s.Remaining()
	assert.Equal(t, Quota{NewLeft: 0, ReviewLeft: 1, Progressed: 0}, before)

	card, err := s.DrawNext()
	require.NoError(t, err)
	assert.Equal(t, deck.StackReview, card.Stack)
	assert.Equal(t, int64(1), card.Item.ID)

	stack, err := s.ApplyResponse(card.Item.ID, 1, "")
	require.NoError(t, err)
	assert.Equal(t, deck.StackDone, stack)

	after := s.Remaining()
	assert.Equal(t, before.ReviewLeft-1, after.ReviewLeft)
	assert.Equal(t, before.Progressed+1, after.Progressed)

	_, err = s.DrawNext()
	assert.ErrorIs(t, err, ErrComplete)

	data := flush(t, s)
	require.Len(t, data.Decks, 1)
	assert.Equal(t, 2, data.Decks[0].Items[0].Box.Position)
	assert.True(t, data.Decks[0].Items[0].Box.LastReview.Equal(testNow))
	today := data.Decks[0].Quotas[2]
	assert.Equal(t, 1, today.ReviewPracticed)
	assert.Equal(t, 1, today.ReviewAssigned, "assigned keeps the day total")
	assert.Zero(t, today.ReviewLeft())
	require.Len(t, data.Events, 1)
	assert.Equal(t, "review", data.Events[0].StackBefore)
	assert.Equal(t, "done", data.Events[0].StackAfter)
	assert.Equal(t, 1, data.Events[0].BoxBefore)
	assert.Equal(t, 2, data.Events[0].BoxAfter)
	assert.Equal(t, s.ID(), data.Events[0].SessionID)
}

func TestDrawNext_CompleteWithoutQuota(t *testing.T) {
	in := boxDeck(4, 0, 0, 1, 2, 3)
	in.Quotas = todayTable(3, 0, 0)

	s, err := New(3, []DeckInput{in}, testOptions(1))
	require.NoError(t, err)

	for range 3 {
		_, err := s.DrawNext()
		assert.ErrorIs(t, err, ErrComplete)
	}
}

func TestDrawNext_EmptyDeckDegradesToZeroQuota(t *testing.T) {
	in := boxDeck(3)
	s, err := New(5, []DeckInput{in}, testOptions(1))
	require.NoError(t, err)

	assert.True(t, s.Remaining().Done())
	_, err = s.DrawNext()
	assert.ErrorIs(t, err, ErrComplete)
}

func TestDrawNext_IntroducesOnlySelectedItems(t *testing.T) {
	in := boxDeck(3, 0, 0, 0)
	in.Quotas = todayTable(2, 1, 0)

	s, err := New(2, []DeckInput{in}, testOptions(3))
	require.NoError(t, err)

	card, err := s.DrawNext()
	require.NoError(t, err)
	assert.Equal(t, deck.StackNew, card.Stack)
	assert.Equal(t, int64(1), card.Item.ID)

	_, err = s.ApplyResponse(card.Item.ID, 1, "")
	require.NoError(t, err)

	_, err = s.DrawNext()
	assert.ErrorIs(t, err, ErrComplete)
}

func TestApplyResponse_FailedNewItemIsRequeued(t *testing.T) {
	in := boxDeck(3, 0)
	in.Quotas = todayTable(1, 1, 0)

	s, err := New(1, []DeckInput{in}, testOptions(1))
	require.NoError(t, err)

	for _, score := range []int{0, -1} {
		card, err := s.DrawNext()
		require.NoError(t, err)
		stack, err := s.ApplyResponse(card.Item.ID, score, "nope")
		require.NoError(t, err)
		assert.Equal(t, deck.StackNew, stack)
		assert.Equal(t, 1, s.Remaining().NewLeft, "score %d", score)
	}

	card, err := s.DrawNext()
	require.NoError(t, err)
	stack, err := s.ApplyResponse(card.Item.ID, 1, "")
	require.NoError(t, err)
	assert.Equal(t, deck.StackDone, stack)
	assert.Equal(t, Quota{Progressed: 1}, s.Remaining())
}

func TestCadence_FiveNewThenTenReviews(t *testing.T) {
	positions := make([]int, 0, 20)
	for range 10 {
		positions = append(positions, 0)
	}
	for range 10 {
		positions = append(positions, 1)
	}
	in := boxDeck(3, positions...)
	in.Quotas = todayTable(4, 10, 10)

	s, err := New(4, []DeckInput{in}, testOptions(9))
	require.NoError(t, err)

	var stacks []deck.Stack
	for {
		card, err := s.DrawNext()
		if errors.Is(err, ErrComplete) {
			break
		}
		require.NoError(t, err)
		stacks = append(stacks, card.Stack)
		_, err = s.ApplyResponse(card.Item.ID, 1, "")
		require.NoError(t, err)
	}

	require.Len(t, stacks, 20)
	for i, st := range stacks {
		want := deck.StackReview
		if i < 5 || (i >= 15 && i < 20) {
			want = deck.StackNew
		}
		assert.Equal(t, want, st, "draw %d", i)
	}
}

func TestUndo_RestoresNewItem(t *testing.T) {
	in := boxDeck(4, 0, 0, 1, 2)
	in.Quotas = todayTable(3, 2, 3)

	s, err := New(3, []DeckInput{in}, testOptions(5))
	require.NoError(t, err)
	before := s.Remaining()

	card, err := s.DrawNext()
	require.NoError(t, err)
	require.Equal(t, deck.StackNew, card.Stack)

	_, err = s.ApplyResponse(card.Item.ID, 1, "hablar")
	require.NoError(t, err)
	assert.NotEqual(t, before, s.Remaining())

	undone, ok := s.UndoLast()
	require.True(t, ok)
	assert.Equal(t, card.Item.ID, undone.Card.Item.ID)
	assert.Equal(t, 0, undone.Card.Item.Box.Position)
	assert.Equal(t, 1, undone.Score)
	assert.Equal(t, "hablar", undone.UserAnswer)
	assert.Equal(t, deck.StackDone, undone.StackAfter)

	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, card.Item.ID, cur.Item.ID)

	s.Abandon()
	assert.Equal(t, before, s.Remaining())

	data := flush(t, s)
	assert.Equal(t, in.Quotas, data.Decks[0].Quotas)
	for i, it := range data.Decks[0].Items {
		assert.Equal(t, in.Items[i].Box.Position, it.Box.Position)
		assert.True(t, it.Box.LastReview.Equal(in.Items[i].Box.LastReview))
	}
	assert.Empty(t, data.Events)
}

func TestUndo_RestoresDemotion(t *testing.T) {
	in := boxDeck(3, 1)
	in.Quotas = todayTable(2, 0, 1)

	s, err := New(2, []DeckInput{in}, testOptions(1))
	require.NoError(t, err)

	card, err := s.DrawNext()
	require.NoError(t, err)
	stack, err := s.ApplyResponse(card.Item.ID, -1, "")
	require.NoError(t, err)
	assert.Equal(t, deck.StackNew, stack)

	_, ok := s.UndoLast()
	require.True(t, ok)
	s.Abandon()

	assert.Equal(t, Quota{ReviewLeft: 1}, s.Remaining())
	data := flush(t, s)
	assert.Equal(t, in.Quotas, data.Decks[0].Quotas)
	assert.Equal(t, 1, data.Decks[0].Items[0].Box.Position)
}

func TestUndo_Empty(t *testing.T) {
	in := boxDeck(3, 0)
	in.Quotas = todayTable(1, 1, 0)
	s, err := New(1, []DeckInput{in}, testOptions(1))
	require.NoError(t, err)

	_, ok := s.UndoLast()
	assert.False(t, ok)
	assert.False(t, s.CanUndo())
}

func TestDrawAndApply_Alternate(t *testing.T) {
	in := boxDeck(3, 0, 0)
	in.Quotas = todayTable(1, 2, 0)
	s, err := New(1, []DeckInput{in}, testOptions(1))
	require.NoError(t, err)

	_, err = s.ApplyResponse(1, 1, "")
	assert.ErrorIs(t, err, ErrNoDraw)

	card, err := s.DrawNext()
	require.NoError(t, err)

	_, err = s.DrawNext()
	assert.ErrorIs(t, err, ErrDrawOutstanding)

	_, err = s.ApplyResponse(card.Item.ID+1, 1, "")
	assert.ErrorIs(t, err, ErrNoDraw)

	_, err = s.ApplyResponse(card.Item.ID, 2, "")
	assert.ErrorIs(t, err, ErrInvalidScore)

	// A rejected response changes nothing.
	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, card.Item.ID, cur.Item.ID)
	assert.False(t, s.CanUndo())

	_, err = s.ApplyResponse(card.Item.ID, 1, "")
	require.NoError(t, err)
	assert.True(t, s.CanUndo())
}

func TestBoxPositionsStayInRange(t *testing.T) {
	const boxes = 4
	in := boxDeck(boxes, 0, 0, 0, 0, 1, 1, 2, 2, 3, 3)
	in.Quotas = todayTable(0, 4, 10)

	s, err := New(0, []DeckInput{in}, testOptions(11))
	require.NoError(t, err)

	rng := rand.New(rand.NewPCG(3, 4))
	for range 500 {
		card, err := s.DrawNext()
		if errors.Is(err, ErrComplete) {
			break
		}
		require.NoError(t, err)
		_, err = s.ApplyResponse(card.Item.ID, rng.IntN(3)-1, "")
		require.NoError(t, err)
		if rng.IntN(5) == 0 {
			s.UndoLast()
			s.Abandon()
		}
	}

	data := flush(t, s)
	for _, it := range data.Decks[0].Items {
		assert.GreaterOrEqual(t, it.Box.Position, 0)
		assert.Less(t, it.Box.Position, boxes)
	}
	require.NoError(t, data.Decks[0].Quotas.Validate())
}

func TestNew_ReconcilesMissedDays(t *testing.T) {
	in := boxDeck(3, 0, 0, 0, 1)
	in.Quotas = quota.Table{
		{DaysToGo: 0, ReviewAssigned: 4},
		{DaysToGo: 1, NewAssigned: 1, ReviewAssigned: 1},
		{DaysToGo: 2, NewAssigned: 1, ReviewAssigned: 1},
		{DaysToGo: 3, NewAssigned: 1, ReviewAssigned: 1, NewQuotaInitial: 1, ReviewQuotaInitial: 1},
	}

	s, err := New(1, []DeckInput{in}, testOptions(1))
	require.NoError(t, err)
	assert.Equal(t, Quota{NewLeft: 3, ReviewLeft: 3}, s.Remaining())

	data := flush(t, s)
	tbl := data.Decks[0].Quotas
	assert.Equal(t, 3, tbl[1].NewAssigned)
	assert.Equal(t, 3, tbl[1].ReviewAssigned)
	assert.Zero(t, tbl[2].NewAssigned)
	assert.Zero(t, tbl[3].ReviewAssigned)
	assert.Equal(t, 1, tbl[3].NewQuotaInitial, "initial values are kept")
}

func TestNew_RejectsCorruptState(t *testing.T) {
	tests := []struct {
		name string
		in   DeckInput
	}{
		{"box out of range", func() DeckInput {
			in := boxDeck(3, 0, 5)
			in.Quotas = todayTable(1, 1, 0)
			return in
		}()},
		{"broken table", func() DeckInput {
			in := boxDeck(3, 0)
			in.Quotas = quota.Table{{DaysToGo: 1}}
			return in
		}()},
		{"too few boxes", func() DeckInput {
			in := boxDeck(1, 0)
			in.Quotas = todayTable(1, 1, 0)
			return in
		}()},
		{"duplicate item ids", func() DeckInput {
			in := boxDeck(3, 0, 1)
			in.Items[1].ID = in.Items[0].ID
			in.Quotas = todayTable(1, 1, 0)
			return in
		}()},
		{"wrong state variant", func() DeckInput {
			in := boxDeck(3, 0)
			in.Deck.Mode = deck.ModeInterval
			return in
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(1, []DeckInput{tt.in}, testOptions(1))
			assert.ErrorIs(t, err, ErrInvariant)
		})
	}
}

func TestDrawNext_SpreadsAcrossDecks(t *testing.T) {
	a := boxDeck(3, 0, 0, 0, 0)
	a.Quotas = todayTable(1, 4, 0)
	b := boxDeck(3, 0, 0, 0, 0)
	b.Deck.ID, b.Deck.Name = 2, "nouns"
	for i := range b.Items {
		b.Items[i].ID += 10
		b.Items[i].DeckID = 2
	}
	b.Quotas = todayTable(1, 4, 0)

	s, err := New(1, []DeckInput{a, b}, testOptions(2))
	require.NoError(t, err)

	seen := map[string]int{}
	for {
		card, err := s.DrawNext()
		if errors.Is(err, ErrComplete) {
			break
		}
		require.NoError(t, err)
		seen[card.DeckName]++
		_, err = s.ApplyResponse(card.Item.ID, 1, "")
		require.NoError(t, err)
	}
	assert.Equal(t, map[string]int{"verbs": 4, "nouns": 4}, seen)
}

func TestFlush_KeepsEventsOnError(t *testing.T) {
	in := boxDeck(3, 0)
	in.Quotas = todayTable(1, 1, 0)
	s, err := New(1, []DeckInput{in}, testOptions(1))
	require.NoError(t, err)

	card, err := s.DrawNext()
	require.NoError(t, err)
	_, err = s.ApplyResponse(card.Item.ID, 1, "")
	require.NoError(t, err)

	failing := &captureSaver{err: errors.New("disk full")}
	require.Error(t, s.Flush(context.Background(), failing))

	data := flush(t, s)
	assert.Len(t, data.Events, 1)

	// A second flush does not repeat saved events.
	data = flush(t, s)
	assert.Empty(t, data.Events)
}

func TestSummary(t *testing.T) {
	in := boxDeck(3, 0, 0, 1)
	in.Quotas = todayTable(2, 2, 1)
	s, err := New(2, []DeckInput{in}, testOptions(4))
	require.NoError(t, err)

	scores := []int{1, 0, 1, 1}
	for _, score := range scores {
		card, err := s.DrawNext()
		require.NoError(t, err)
		_, err = s.ApplyResponse(card.Item.ID, score, "")
		require.NoError(t, err)
	}

	sum := s.Summary()
	assert.Equal(t, 4, sum.Responses)
	assert.Equal(t, 3, sum.Passed)
	assert.Equal(t, 1, sum.Repeated)
	assert.InDelta(t, 0.75, sum.Accuracy, 1e-9)
	require.Len(t, sum.Decks, 1)
	assert.Equal(t, "verbs", sum.Decks[0].Name)
	assert.Len(t, sum.Decks[0].BoxCounts, 3)
	cards := 0
	for _, n := range sum.Decks[0].BoxCounts {
		cards += n
	}
	assert.Equal(t, 3, cards, "every item sits in exactly one box")
}

func intervalDeck(newPerDay int, states ...spacedrep.IntervalState) DeckInput {
	d := deck.Deck{ID: 7, Name: "capitals", Mode: deck.ModeInterval, NewPerDay: newPerDay}
	in := DeckInput{Deck: d}
	for i, st := range states {
		it := deck.NewItem(deck.ModeInterval, "front", "back")
		it.ID = int64(i + 1)
		it.DeckID = d.ID
		*it.Interval = st
		in.Items = append(in.Items, it)
	}
	return in
}

func TestIntervalMode_DailyQuota(t *testing.T) {
	today := deck.StudyDate(testNow)
	fresh := spacedrep.NewIntervalState()
	due := spacedrep.IntervalState{Repetitions: 2, IntervalDays: 6, Easiness: 2.5, NextPractice: today.AddDate(0, 0, -1)}
	later := spacedrep.IntervalState{Repetitions: 3, IntervalDays: 15, Easiness: 2.5, NextPractice: today.AddDate(0, 0, 3)}

	in := intervalDeck(2, fresh, fresh, fresh, due, later)
	s, err := New(0, []DeckInput{in}, testOptions(1))
	require.NoError(t, err)
	assert.Equal(t, Quota{NewLeft: 2, ReviewLeft: 1}, s.Remaining())

	draws := 0
	for {
		card, err := s.DrawNext()
		if errors.Is(err, ErrComplete) {
			break
		}
		require.NoError(t, err)
		draws++
		stack, err := s.ApplyResponse(card.Item.ID, 5, "")
		require.NoError(t, err)
		assert.Equal(t, deck.StackDone, stack)
	}
	assert.Equal(t, 3, draws)

	data := flush(t, s)
	dd := data.Decks[0]
	require.NotNil(t, dd.Day)
	assert.Equal(t, spacedrep.DayCount{Day: "2026-03-10", NewPracticed: 2, ReviewPracticed: 1}, *dd.Day)
	assert.Nil(t, dd.Quotas)

	first := dd.Items[0].Interval
	assert.Equal(t, 1, first.Repetitions)
	assert.Equal(t, 1, first.IntervalDays)
	assert.True(t, first.NextPractice.Equal(today.AddDate(0, 0, 1)))
	assert.Zero(t, dd.Items[2].Interval.Repetitions, "third new item waits for another day")
	assert.Equal(t, 15, dd.Items[3].Interval.IntervalDays)
}

func TestIntervalMode_RepeatAndUndo(t *testing.T) {
	in := intervalDeck(5, spacedrep.NewIntervalState())
	s, err := New(0, []DeckInput{in}, testOptions(1))
	require.NoError(t, err)

	card, err := s.DrawNext()
	require.NoError(t, err)
	stack, err := s.ApplyResponse(card.Item.ID, 1, "")
	require.NoError(t, err)
	assert.Equal(t, deck.StackNew, stack)
	assert.Equal(t, 1, s.Remaining().NewLeft)

	_, err = s.ApplyResponse(card.Item.ID, 0, "")
	assert.ErrorIs(t, err, ErrNoDraw)

	card, err = s.DrawNext()
	require.NoError(t, err)
	_, err = s.ApplyResponse(card.Item.ID, 0, "")
	assert.ErrorIs(t, err, ErrInvalidScore)

	stack, err = s.ApplyResponse(card.Item.ID, 4, "")
	require.NoError(t, err)
	assert.Equal(t, deck.StackDone, stack)
	assert.Equal(t, Quota{Progressed: 1}, s.Remaining())

	undone, ok := s.UndoLast()
	require.True(t, ok)
	assert.Equal(t, 0, undone.Card.Item.Interval.Repetitions)
	s.Abandon()
	assert.Equal(t, Quota{NewLeft: 1}, s.Remaining())
}

func TestIntervalMode_DayCounters(t *testing.T) {
	fresh := spacedrep.NewIntervalState()

	t.Run("same day continues", func(t *testing.T) {
		in := intervalDeck(2, fresh, fresh, fresh)
		in.Day = spacedrep.DayCount{Day: "2026-03-10", NewPracticed: 2}
		s, err := New(0, []DeckInput{in}, testOptions(1))
		require.NoError(t, err)
		assert.Equal(t, Quota{Progressed: 2}, s.Remaining())
	})

	t.Run("new day starts over", func(t *testing.T) {
		in := intervalDeck(2, fresh, fresh, fresh)
		in.Day = spacedrep.DayCount{Day: "2026-03-09", NewPracticed: 2}
		s, err := New(0, []DeckInput{in}, testOptions(1))
		require.NoError(t, err)
		assert.Equal(t, Quota{NewLeft: 2}, s.Remaining())
	})
}
