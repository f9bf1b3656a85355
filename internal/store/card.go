package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/mio/internal/deck"
	"github.com/abhisek/mio/internal/quota"
	"github.com/abhisek/mio/internal/spacedrep"
)

var cardColumns = []string{
	"id", "deck_id", "front", "back", "box_position", "last_review",
	"repetitions", "interval_days", "easiness", "next_practice",
}

// cardRow is the flat storage form of an item. Both scheduling variants
// share one row; the deck's mode decides which columns are meaningful.
type cardRow struct {
	id, deckID   int64
	front, back  string
	box          int
	lastReview   int64
	reps, ivl    int
	easiness     float64
	nextPractice int64
}

func toRow(it deck.Item) cardRow {
	r := cardRow{id: it.ID, deckID: it.DeckID, front: it.Front, back: it.Back, easiness: spacedrep.DefaultEasiness}
	if it.Box != nil {
		r.box = it.Box.Position
		r.lastReview = unixOrZero(it.Box.LastReview)
	}
	if it.Interval != nil {
		r.reps = it.Interval.Repetitions
		r.ivl = it.Interval.IntervalDays
		r.easiness = it.Interval.Easiness
		r.nextPractice = unixOrZero(it.Interval.NextPractice)
		r.lastReview = unixOrZero(it.Interval.LastReview)
	}
	return r
}

func (r cardRow) item(mode deck.Mode) deck.Item {
	it := deck.Item{ID: r.id, DeckID: r.deckID, Front: r.front, Back: r.back}
	switch mode {
	case deck.ModeInterval:
		it.Interval = &spacedrep.IntervalState{
			Repetitions:  r.reps,
			IntervalDays: r.ivl,
			Easiness:     r.easiness,
			NextPractice: fromUnix(r.nextPractice),
			LastReview:   fromUnix(r.lastReview),
		}
	default:
		it.Box = &deck.BoxState{Position: r.box, LastReview: fromUnix(r.lastReview)}
	}
	return it
}

// AddItems inserts items into a deck in one transaction and sets their IDs
// and DeckID.
func (s *Store) AddItems(ctx context.Context, deckID int64, items []deck.Item) error {
	return s.withTx(ctx, func(tx dialect.Tx) error {
		for i := range items {
			items[i].DeckID = deckID
			r := toRow(items[i])
			id, err := insert(ctx, tx, builder.Insert(CardsTable.Name).
				Columns(cardColumns[1:]...).
				Values(r.deckID, r.front, r.back, r.box, r.lastReview, r.reps, r.ivl, r.easiness, r.nextPractice))
			if err != nil {
				return fmt.Errorf("save card: %w", err)
			}
			items[i].ID = id
		}
		return nil
	})
}

// Items returns the items of d in insertion order.
func (s *Store) Items(ctx context.Context, d deck.Deck) ([]deck.Item, error) {
	q, args := builder.Select(cardColumns...).
		From(builder.Table(CardsTable.Name)).
		Where(entsql.EQ("deck_id", d.ID)).
		OrderBy("id").
		Query()

	var out []deck.Item
	err := scanAll(ctx, s.drv, q, args, func(rows *entsql.Rows) error {
		var r cardRow
		if err := rows.Scan(&r.id, &r.deckID, &r.front, &r.back, &r.box, &r.lastReview,
			&r.reps, &r.ivl, &r.easiness, &r.nextPractice); err != nil {
			return err
		}
		out = append(out, r.item(d.Mode))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query cards: %w", err)
	}
	return out, nil
}

// Item returns the item id of d.
func (s *Store) Item(ctx context.Context, d deck.Deck, id int64) (deck.Item, error) {
	q, args := builder.Select(cardColumns...).
		From(builder.Table(CardsTable.Name)).
		Where(entsql.And(entsql.EQ("id", id), entsql.EQ("deck_id", d.ID))).
		Query()

	var (
		r     cardRow
		found bool
	)
	err := scanAll(ctx, s.drv, q, args, func(rows *entsql.Rows) error {
		found = true
		return rows.Scan(&r.id, &r.deckID, &r.front, &r.back, &r.box, &r.lastReview,
			&r.reps, &r.ivl, &r.easiness, &r.nextPractice)
	})
	if err != nil {
		return deck.Item{}, fmt.Errorf("query card: %w", err)
	}
	if !found {
		return deck.Item{}, notFound("card", id)
	}
	return r.item(d.Mode), nil
}

// UpdateItemText rewrites the front and back of an item. Its scheduling
// state is left alone.
func (s *Store) UpdateItemText(ctx context.Context, id int64, front, back string) error {
	q, args := builder.Update(CardsTable.Name).
		Set("front", front).
		Set("back", back).
		Where(entsql.EQ("id", id)).
		Query()
	n, err := execAffected(ctx, s.drv, q, args)
	if err != nil {
		return fmt.Errorf("update card %d: %w", id, err)
	}
	if n == 0 {
		return notFound("card", id)
	}
	return nil
}

// DeleteItem removes an item from a deck. A non-nil t replaces the deck's
// quota table in the same transaction.
func (s *Store) DeleteItem(ctx context.Context, deckID, id int64, t quota.Table) error {
	return s.withTx(ctx, func(tx dialect.Tx) error {
		q, args := builder.Delete(CardsTable.Name).
			Where(entsql.And(entsql.EQ("id", id), entsql.EQ("deck_id", deckID))).
			Query()
		n, err := execAffected(ctx, tx, q, args)
		if err != nil {
			return fmt.Errorf("delete card %d: %w", id, err)
		}
		if n == 0 {
			return notFound("card", id)
		}
		if t == nil {
			return nil
		}
		return replaceQuotas(ctx, tx, deckID, t)
	})
}

// CountItems returns the number of items in a deck.
func (s *Store) CountItems(ctx context.Context, deckID int64) (int, error) {
	q, args := builder.Select(entsql.Count("*")).
		From(builder.Table(CardsTable.Name)).
		Where(entsql.EQ("deck_id", deckID)).
		Query()

	var n int
	err := scanAll(ctx, s.drv, q, args, func(rows *entsql.Rows) error {
		return rows.Scan(&n)
	})
	if err != nil {
		return 0, fmt.Errorf("count cards: %w", err)
	}
	return n, nil
}

// updateItems writes the scheduling state of items.
func updateItems(ctx context.Context, eq dialect.ExecQuerier, items []deck.Item) error {
	for _, it := range items {
		r := toRow(it)
		q, args := builder.Update(CardsTable.Name).
			Set("box_position", r.box).
			Set("last_review", r.lastReview).
			Set("repetitions", r.reps).
			Set("interval_days", r.ivl).
			Set("easiness", r.easiness).
			Set("next_practice", r.nextPractice).
			Where(entsql.EQ("id", r.id)).
			Query()
		n, err := execAffected(ctx, eq, q, args)
		if err != nil {
			return fmt.Errorf("update card %d: %w", r.id, err)
		}
		if n == 0 {
			return notFound("card", r.id)
		}
	}
	return nil
}
