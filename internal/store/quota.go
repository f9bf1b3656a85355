package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/mio/internal/quota"
	"github.com/abhisek/mio/internal/spacedrep"
)

var quotaColumns = []string{
	"days_to_go", "new_assigned", "review_assigned",
	"new_quota_initial", "review_quota_initial", "new_practiced", "review_practiced",
}

// Quotas returns a deck's quota table. A deck without records gets an
// empty table.
func (s *Store) Quotas(ctx context.Context, deckID int64) (quota.Table, error) {
	q, args := builder.Select(quotaColumns...).
		From(builder.Table(QuotasTable.Name)).
		Where(entsql.EQ("deck_id", deckID)).
		OrderBy("days_to_go").
		Query()

	var t quota.Table
	err := scanAll(ctx, s.drv, q, args, func(rows *entsql.Rows) error {
		var r quota.Record
		if err := rows.Scan(&r.DaysToGo, &r.NewAssigned, &r.ReviewAssigned,
			&r.NewQuotaInitial, &r.ReviewQuotaInitial, &r.NewPracticed, &r.ReviewPracticed); err != nil {
			return err
		}
		t = append(t, r)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query quotas: %w", err)
	}
	return t, nil
}

// SaveQuotas replaces a deck's quota table.
func (s *Store) SaveQuotas(ctx context.Context, deckID int64, t quota.Table) error {
	return s.withTx(ctx, func(tx dialect.Tx) error {
		return replaceQuotas(ctx, tx, deckID, t)
	})
}

func replaceQuotas(ctx context.Context, eq dialect.ExecQuerier, deckID int64, t quota.Table) error {
	q, args := builder.Delete(QuotasTable.Name).Where(entsql.EQ("deck_id", deckID)).Query()
	if err := eq.Exec(ctx, q, args, nil); err != nil {
		return fmt.Errorf("clear quotas: %w", err)
	}
	if len(t) == 0 {
		return nil
	}

	ib := builder.Insert(QuotasTable.Name).Columns(append([]string{"deck_id"}, quotaColumns...)...)
	for _, r := range t {
		ib.Values(deckID, r.DaysToGo, r.NewAssigned, r.ReviewAssigned,
			r.NewQuotaInitial, r.ReviewQuotaInitial, r.NewPracticed, r.ReviewPracticed)
	}
	q, args = ib.Query()
	if err := eq.Exec(ctx, q, args, nil); err != nil {
		return fmt.Errorf("save quotas: %w", err)
	}
	return nil
}

// DayCount returns an interval-mode deck's counters for a study day.
// A day without a row reads as zero.
func (s *Store) DayCount(ctx context.Context, deckID int64, day string) (spacedrep.DayCount, error) {
	q, args := builder.Select("new_practiced", "review_practiced").
		From(builder.Table(IntervalDaysTable.Name)).
		Where(entsql.And(entsql.EQ("deck_id", deckID), entsql.EQ("day", day))).
		Query()

	dc := spacedrep.DayCount{Day: day}
	err := scanAll(ctx, s.drv, q, args, func(rows *entsql.Rows) error {
		return rows.Scan(&dc.NewPracticed, &dc.ReviewPracticed)
	})
	if err != nil {
		return spacedrep.DayCount{}, fmt.Errorf("query day count: %w", err)
	}
	return dc, nil
}

func upsertDayCount(ctx context.Context, eq dialect.ExecQuerier, deckID int64, dc spacedrep.DayCount) error {
	q, args := builder.Insert(IntervalDaysTable.Name).
		Columns("deck_id", "day", "new_practiced", "review_practiced").
		Values(deckID, dc.Day, dc.NewPracticed, dc.ReviewPracticed).
		OnConflict(
			entsql.ConflictColumns("deck_id", "day"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if err := eq.Exec(ctx, q, args, nil); err != nil {
		return fmt.Errorf("save day count: %w", err)
	}
	return nil
}
