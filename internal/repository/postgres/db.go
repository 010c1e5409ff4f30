package postgresrepo

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schema string

type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type txKey struct{}

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		pool: pool,
	}
}

// Migrate creates the tables the store needs if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	const op = "postgresrepo.Store.Migrate"

	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	return nil
}

const maxTxAttempts = 3

// RunTx runs fn in a serializable transaction, retrying serialization
// failures and deadlocks. Repositories created by the store pick the
// transaction up from the context passed to fn. A call nested in another
// RunTx joins the outer transaction.
func (s *Store) RunTx(ctx context.Context, fn func(ctx context.Context) error) error {
	const op = "postgresrepo.Store.RunTx"

	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}

	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = s.runTxOnce(ctx, fn)
		if err == nil || !IsRetryable(err) {
			return err
		}
	}

	return fmt.Errorf("%s: giving up after %d attempts: %w", op, maxTxAttempts, err)
}

func (s *Store) runTxOnce(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.Serializable,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return err
	}

	defer tx.Rollback(ctx)

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

func (s *Store) Reservations() *ReservationRepo { return &ReservationRepo{pool: s.pool} }

func handle(ctx context.Context, pool *pgxpool.Pool) DB {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return pool
}
