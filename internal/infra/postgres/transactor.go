package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Transactor runs state rewrites that must succeed or fail together, such as
// a bulk schema upgrade.
type Transactor struct {
	pool *pgxpool.Pool
	opts pgx.TxOptions
}

// NewTransactor creates a Transactor whose transactions use isoLevel.
func NewTransactor(pool *pgxpool.Pool, isoLevel pgx.TxIsoLevel) *Transactor {
	return &Transactor{
		pool: pool,
		opts: pgx.TxOptions{IsoLevel: isoLevel},
	}
}

// WithinTx commits when fn succeeds and rolls back otherwise. fn receives a
// DBTX bound to the transaction.
func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error {
	tx, err := t.pool.BeginTx(ctx, t.opts)
	if err != nil {
		return fmt.Errorf("begin %s tx: %w", t.opts.IsoLevel, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
