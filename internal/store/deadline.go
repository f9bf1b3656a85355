package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/mio/internal/deck"
)

var deadlineColumns = []string{
	"id", "name", "due_at", "study_intensity", "reset_count", "interval_mode", "created_at",
}

func scanDeadline(rows *entsql.Rows) (deck.Deadline, error) {
	var d deck.Deadline
	err := rows.Scan(&d.ID, &d.Name, &d.DueAt, &d.StudyIntensity, &d.ResetCount, &d.IntervalMode, &d.CreatedAt)
	return d, err
}

// CreateDeadline inserts d and sets its ID.
func (s *Store) CreateDeadline(ctx context.Context, d *deck.Deadline) error {
	id, err := insert(ctx, s.drv, builder.Insert(DeadlinesTable.Name).
		Columns(deadlineColumns[1:]...).
		Values(d.Name, d.DueAt.UTC(), d.StudyIntensity, d.ResetCount, d.IntervalMode, d.CreatedAt.UTC()))
	if err != nil {
		return fmt.Errorf("save deadline: %w", err)
	}
	d.ID = id
	return nil
}

// UpdateDeadline writes the mutable fields of d.
func (s *Store) UpdateDeadline(ctx context.Context, d deck.Deadline) error {
	q, args := builder.Update(DeadlinesTable.Name).
		Set("due_at", d.DueAt.UTC()).
		Set("study_intensity", d.StudyIntensity).
		Set("reset_count", d.ResetCount).
		Where(entsql.EQ("id", d.ID)).
		Query()
	n, err := execAffected(ctx, s.drv, q, args)
	if err != nil {
		return fmt.Errorf("update deadline: %w", err)
	}
	if n == 0 {
		return notFound("deadline", d.ID)
	}
	return nil
}

// Deadline returns the deadline with the given id.
func (s *Store) Deadline(ctx context.Context, id int64) (deck.Deadline, error) {
	return s.deadlineWhere(ctx, entsql.EQ("id", id), id)
}

// DeadlineByName returns the deadline with the given name.
func (s *Store) DeadlineByName(ctx context.Context, name string) (deck.Deadline, error) {
	return s.deadlineWhere(ctx, entsql.EQ("name", name), name)
}

func (s *Store) deadlineWhere(ctx context.Context, p *entsql.Predicate, key any) (deck.Deadline, error) {
	q, args := builder.Select(deadlineColumns...).
		From(builder.Table(DeadlinesTable.Name)).
		Where(p).
		Limit(1).
		Query()

	var (
		out   deck.Deadline
		found bool
	)
	err := scanAll(ctx, s.drv, q, args, func(rows *entsql.Rows) error {
		d, err := scanDeadline(rows)
		out, found = d, true
		return err
	})
	if err != nil {
		return deck.Deadline{}, fmt.Errorf("query deadline: %w", err)
	}
	if !found {
		return deck.Deadline{}, notFound("deadline", key)
	}
	return out, nil
}

// Deadlines returns all deadlines ordered by due date.
func (s *Store) Deadlines(ctx context.Context) ([]deck.Deadline, error) {
	q, args := builder.Select(deadlineColumns...).
		From(builder.Table(DeadlinesTable.Name)).
		OrderBy("due_at", "id").
		Query()

	var out []deck.Deadline
	err := scanAll(ctx, s.drv, q, args, func(rows *entsql.Rows) error {
		d, err := scanDeadline(rows)
		if err != nil {
			return err
		}
		out = append(out, d)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query deadlines: %w", err)
	}
	return out, nil
}

// DeleteDeadline removes a deadline together with its decks, cards and
// quota tables.
func (s *Store) DeleteDeadline(ctx context.Context, id int64) error {
	q, args := builder.Delete(DeadlinesTable.Name).Where(entsql.EQ("id", id)).Query()
	n, err := execAffected(ctx, s.drv, q, args)
	if err != nil {
		return fmt.Errorf("delete deadline: %w", err)
	}
	if n == 0 {
		return notFound("deadline", id)
	}
	return nil
}
