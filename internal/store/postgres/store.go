// Package postgres implements core.Store on PostgreSQL using pgx.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"reliable-inventory/internal/core"
)

// querier is the subset of pgxpool.Pool and pgx.Tx used by the queries in this package.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// reader runs read queries against either the pool or an open transaction.
type reader struct {
	q querier
}

// Store is a core.Store backed by a pgx connection pool.
type Store struct {
	reader
	pool *pgxpool.Pool
}

var _ core.Store = (*Store)(nil)

// New wraps pool. The caller owns the pool and closes it.
func New(pool *pgxpool.Pool) *Store {
	return &Store{reader: reader{q: pool}, pool: pool}
}

// InTx runs fn inside a READ COMMITTED transaction. Serialization of competing writers comes
// from the SELECT ... FOR UPDATE row locks taken by tx.LockWarehouse and tx.LockProduct.
func (s *Store) InTx(ctx context.Context, fn func(tx core.Tx) error) error {
	pgTx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer pgTx.Rollback(ctx)

	if err := fn(&tx{reader: reader{q: pgTx}}); err != nil {
		return err
	}
	if err := pgTx.Commit(ctx); err != nil {
		return mapError(err, "commit transaction")
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// tx is a core.Tx bound to a pgx transaction.
type tx struct {
	reader
}
