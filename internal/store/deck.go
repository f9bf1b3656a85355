package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/mio/internal/deck"
)

var deckColumns = []string{
	"id", "deadline_id", "name", "mode", "box_count", "new_per_day", "created_at",
}

func scanDeck(rows *entsql.Rows) (deck.Deck, error) {
	var (
		d    deck.Deck
		mode int
	)
	err := rows.Scan(&d.ID, &d.DeadlineID, &d.Name, &mode, &d.BoxCount, &d.NewPerDay, &d.CreatedAt)
	d.Mode = deck.Mode(mode)
	return d, err
}

// CreateDeck inserts d and sets its ID.
func (s *Store) CreateDeck(ctx context.Context, d *deck.Deck) error {
	id, err := insert(ctx, s.drv, builder.Insert(DecksTable.Name).
		Columns(deckColumns[1:]...).
		Values(d.DeadlineID, d.Name, int(d.Mode), d.BoxCount, d.NewPerDay, d.CreatedAt.UTC()))
	if err != nil {
		return fmt.Errorf("save deck: %w", err)
	}
	d.ID = id
	return nil
}

// UpdateDeck writes the box count and daily new-item limit of d.
func (s *Store) UpdateDeck(ctx context.Context, d deck.Deck) error {
	q, args := builder.Update(DecksTable.Name).
		Set("box_count", d.BoxCount).
		Set("new_per_day", d.NewPerDay).
		Where(entsql.EQ("id", d.ID)).
		Query()
	n, err := execAffected(ctx, s.drv, q, args)
	if err != nil {
		return fmt.Errorf("update deck: %w", err)
	}
	if n == 0 {
		return notFound("deck", d.ID)
	}
	return nil
}

// Decks returns the decks under a deadline ordered by name.
func (s *Store) Decks(ctx context.Context, deadlineID int64) ([]deck.Deck, error) {
	q, args := builder.Select(deckColumns...).
		From(builder.Table(DecksTable.Name)).
		Where(entsql.EQ("deadline_id", deadlineID)).
		OrderBy("name").
		Query()

	var out []deck.Deck
	err := scanAll(ctx, s.drv, q, args, func(rows *entsql.Rows) error {
		d, err := scanDeck(rows)
		if err != nil {
			return err
		}
		out = append(out, d)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query decks: %w", err)
	}
	return out, nil
}

// DeckByName returns the named deck under a deadline.
func (s *Store) DeckByName(ctx context.Context, deadlineID int64, name string) (deck.Deck, error) {
	q, args := builder.Select(deckColumns...).
		From(builder.Table(DecksTable.Name)).
		Where(entsql.And(entsql.EQ("deadline_id", deadlineID), entsql.EQ("name", name))).
		Limit(1).
		Query()

	var (
		out   deck.Deck
		found bool
	)
	err := scanAll(ctx, s.drv, q, args, func(rows *entsql.Rows) error {
		d, err := scanDeck(rows)
		out, found = d, true
		return err
	})
	if err != nil {
		return deck.Deck{}, fmt.Errorf("query deck: %w", err)
	}
	if !found {
		return deck.Deck{}, notFound("deck", name)
	}
	return out, nil
}

// DeleteDeck removes a deck, its cards and its quota table.
func (s *Store) DeleteDeck(ctx context.Context, id int64) error {
	q, args := builder.Delete(DecksTable.Name).Where(entsql.EQ("id", id)).Query()
	n, err := execAffected(ctx, s.drv, q, args)
	if err != nil {
		return fmt.Errorf("delete deck: %w", err)
	}
	if n == 0 {
		return notFound("deck", id)
	}
	return nil
}
