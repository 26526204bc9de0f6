package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/rulekit/pkg/logger"
	"github.com/dmitrymomot/rulekit/pkg/pg"
)

// Find runs a query and maps each row onto T by column name
// (see pgx.RowToStructByName).
func Find[T any](ctx context.Context, r *Repository, sql string, args ...any) ([]T, error) {
	if sql == "" {
		return nil, ErrEmptyQuery
	}

	ctx = logger.ContextWithOperation(ctx, "find")
	start := time.Now()
	var items []T
	err := pg.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, sql, args...)
		if err != nil {
			return errors.Join(ErrQueryFailed, err)
		}
		items, err = pgx.CollectRows(rows, pgx.RowToStructByName[T])
		if err != nil {
			return errors.Join(ErrQueryFailed, err)
		}
		return nil
	})
	r.log(ctx, start, err)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// FindOne is Find for queries expected to return a single row.
// ErrNotFound is returned when the query yields no rows.
func FindOne[T any](ctx context.Context, r *Repository, sql string, args ...any) (T, error) {
	var zero T
	items, err := Find[T](ctx, r, sql, args...)
	if err != nil {
		return zero, err
	}
	if len(items) == 0 {
		return zero, ErrNotFound
	}
	return items[0], nil
}
