package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// sequenceCounter hands out the global monotonic sequence number of review
// events, shared across sessions and decks.
//
// The increment runs as raw SQL: the mutex serializes within the process and
// the RETURNING clause makes the increment atomic in the database.
type sequenceCounter struct {
	mu sync.Mutex
}

// newSequenceCounter ensures the tracking table exists.
func newSequenceCounter(ctx context.Context, eq dialect.ExecQuerier) (*sequenceCounter, error) {
	err := eq.Exec(ctx, `CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`, []any{}, nil)
	if err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}

	err = eq.Exec(ctx, `INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`, []any{}, nil)
	if err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}

	return &sequenceCounter{}, nil
}

// Next atomically returns the next sequence number and increments the
// counter. eq may be a transaction, in which case the increment commits or
// rolls back with it.
func (sc *sequenceCounter) Next(ctx context.Context, eq dialect.ExecQuerier) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var rows entsql.Rows
	err := eq.Query(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
		[]any{}, &rows)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return 0, fmt.Errorf("next sequence: %w", err)
		}
		return 0, fmt.Errorf("next sequence: no row returned")
	}
	var seq int64
	if err := rows.Scan(&seq); err != nil {
		return 0, fmt.Errorf("scan sequence: %w", err)
	}
	return seq, nil
}

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	DeckID int64     // 0 = all decks
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// ReviewEventData captures one graded response.
type ReviewEventData struct {
	Sequence    int64
	Timestamp   time.Time
	SessionID   string
	DeckID      int64
	CardID      int64
	StackBefore string
	StackAfter  string
	Score       int
	UserAnswer  string
	BoxBefore   int
	BoxAfter    int
}

var reviewEventColumns = []string{
	"sequence", "timestamp", "session_id", "deck_id", "card_id",
	"stack_before", "stack_after", "score", "user_answer", "box_before", "box_after",
}

// appendReviewEvents assigns sequence numbers and inserts the events.
func (s *Store) appendReviewEvents(ctx context.Context, eq dialect.ExecQuerier, events []ReviewEventData) error {
	for _, e := range events {
		seq, err := s.seq.Next(ctx, eq)
		if err != nil {
			return err
		}
		q, args := builder.Insert(ReviewEventsTable.Name).
			Columns(reviewEventColumns...).
			Values(seq, e.Timestamp.UTC(), e.SessionID, e.DeckID, e.CardID,
				e.StackBefore, e.StackAfter, e.Score, e.UserAnswer, e.BoxBefore, e.BoxAfter).
			Query()
		if err := eq.Exec(ctx, q, args, nil); err != nil {
			return fmt.Errorf("save review event: %w", err)
		}
	}
	return nil
}

// ReviewEvents returns review events in sequence order.
func (s *Store) ReviewEvents(ctx context.Context, opts QueryOpts) ([]ReviewEventData, error) {
	var preds []*entsql.Predicate
	if opts.After > 0 {
		preds = append(preds, entsql.GT("sequence", opts.After))
	}
	if opts.DeckID > 0 {
		preds = append(preds, entsql.EQ("deck_id", opts.DeckID))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE("timestamp", opts.From.UTC()))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE("timestamp", opts.To.UTC()))
	}

	sel := builder.Select(reviewEventColumns...).
		From(builder.Table(ReviewEventsTable.Name)).
		OrderBy("sequence")
	if len(preds) > 0 {
		sel = sel.Where(entsql.And(preds...))
	}
	if opts.Limit > 0 {
		sel = sel.Limit(opts.Limit)
	}

	var out []ReviewEventData
	q, args := sel.Query()
	err := scanAll(ctx, s.drv, q, args, func(rows *entsql.Rows) error {
		var e ReviewEventData
		if err := rows.Scan(&e.Sequence, &e.Timestamp, &e.SessionID, &e.DeckID, &e.CardID,
			&e.StackBefore, &e.StackAfter, &e.Score, &e.UserAnswer, &e.BoxBefore, &e.BoxAfter); err != nil {
			return err
		}
		out = append(out, e)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query review events: %w", err)
	}
	return out, nil
}

// DeckStats summarizes the review log of one deck.
type DeckStats struct {
	DeckID     int64
	Reviews    int
	Passed     int
	Repeated   int
	Introduced int
	Sessions   int
	LastReview time.Time
}

// Stats aggregates the review log per deck.
func (s *Store) Stats(ctx context.Context, opts QueryOpts) (map[int64]*DeckStats, error) {
	events, err := s.ReviewEvents(ctx, opts)
	if err != nil {
		return nil, err
	}

	stats := make(map[int64]*DeckStats)
	sessions := make(map[int64]map[string]bool)
	for _, e := range events {
		st, ok := stats[e.DeckID]
		if !ok {
			st = &DeckStats{DeckID: e.DeckID}
			stats[e.DeckID] = st
			sessions[e.DeckID] = make(map[string]bool)
		}
		st.Reviews++
		if e.StackAfter == "done" {
			st.Passed++
		} else {
			st.Repeated++
		}
		if e.StackBefore == "new" && e.StackAfter == "done" {
			st.Introduced++
		}
		sessions[e.DeckID][e.SessionID] = true
		if e.Timestamp.After(st.LastReview) {
			st.LastReview = e.Timestamp
		}
	}
	for id, st := range stats {
		st.Sessions = len(sessions[id])
	}
	return stats, nil
}
