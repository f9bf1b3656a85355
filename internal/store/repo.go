package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// builder renders SQLite statements.
var builder = entsql.Dialect(dialect.SQLite)

// scanAll runs a query and calls fn for each row.
func scanAll(ctx context.Context, eq dialect.ExecQuerier, q string, args []any, fn func(*entsql.Rows) error) error {
	var rows entsql.Rows
	if err := eq.Query(ctx, q, args, &rows); err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := fn(&rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

// insert runs an INSERT and returns the new row id.
func insert(ctx context.Context, eq dialect.ExecQuerier, ib *entsql.InsertBuilder) (int64, error) {
	q, args := ib.Query()
	var res sql.Result
	if err := eq.Exec(ctx, q, args, &res); err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// execAffected runs a statement and returns the number of affected rows.
func execAffected(ctx context.Context, eq dialect.ExecQuerier, q string, args []any) (int64, error) {
	var res sql.Result
	if err := eq.Exec(ctx, q, args, &res); err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// unixOrZero stores a zero time as 0.
func unixOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

// fromUnix is the inverse of unixOrZero.
func fromUnix(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}

func notFound(kind string, key any) error {
	return fmt.Errorf("%w: %s %v", ErrNotFound, kind, key)
}
