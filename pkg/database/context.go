package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of pgx operations shared by a pool and a transaction.
// Repositories run against whichever is in scope.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type contextKey string

// querierKey is the context key for storing the transaction-scoped querier.
const querierKey contextKey = "querier"

// SetQuerier stores a querier (usually an open transaction) in the context.
func SetQuerier(ctx context.Context, q Querier) context.Context {
	return context.WithValue(ctx, querierKey, q)
}

// GetQuerier retrieves the querier from context. Returns nil and false if
// none is present.
func GetQuerier(ctx context.Context) (Querier, bool) {
	q, ok := ctx.Value(querierKey).(Querier)
	return q, ok
}

// Querier returns the querier in scope for ctx: the context-carried
// transaction if one is open, otherwise the pool itself.
func (db *DB) Querier(ctx context.Context) Querier {
	if q, ok := GetQuerier(ctx); ok {
		return q
	}
	return db.Pool
}

// WithTx runs fn inside a single transaction. The transaction is stored in
// the context passed to fn, so every repository call inside fn joins it.
// The transaction commits when fn returns nil and rolls back otherwise, so
// no partial write is ever observable.
func (db *DB) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := GetQuerier(ctx); ok {
		// Already inside a transaction; join it.
		return fn(ctx)
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(SetQuerier(ctx, tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && rbErr != pgx.ErrTxClosed {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
