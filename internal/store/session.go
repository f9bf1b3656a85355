package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"

	"github.com/abhisek/mio/internal/deck"
	"github.com/abhisek/mio/internal/quota"
	"github.com/abhisek/mio/internal/spacedrep"
)

// DeckData is the scheduling state of one deck at the end of a session.
type DeckData struct {
	DeckID int64
	Items  []deck.Item

	// Quotas is set for box-mode decks.
	Quotas quota.Table

	// Day is set for interval-mode decks.
	Day *spacedrep.DayCount
}

// SessionData is everything a session writes back.
type SessionData struct {
	SessionID string
	Decks     []DeckData
	Events    []ReviewEventData
}

// SaveSession commits the state of a session in a single transaction.
func (s *Store) SaveSession(ctx context.Context, data SessionData) error {
	return s.withTx(ctx, func(tx dialect.Tx) error {
		for _, d := range data.Decks {
			if err := updateItems(ctx, tx, d.Items); err != nil {
				return fmt.Errorf("deck %d: %w", d.DeckID, err)
			}
			if d.Quotas != nil {
				if err := replaceQuotas(ctx, tx, d.DeckID, d.Quotas); err != nil {
					return fmt.Errorf("deck %d: %w", d.DeckID, err)
				}
			}
			if d.Day != nil {
				if err := upsertDayCount(ctx, tx, d.DeckID, *d.Day); err != nil {
					return fmt.Errorf("deck %d: %w", d.DeckID, err)
				}
			}
		}
		return s.appendReviewEvents(ctx, tx, data.Events)
	})
}
