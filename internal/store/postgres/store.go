package postgres

import (
	"context"
	"embed"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/tenantkit/internal/store"
	"github.com/dmitrymomot/tenantkit/pkg/pg"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate applies the embedded schema.
func Migrate(ctx context.Context, pool *pgxpool.Pool, cfg pg.Config, log *slog.Logger) error {
	return pg.Migrate(ctx, pool, cfg, migrations, "migrations", log)
}

// dbtx is satisfied by both *pgxpool.Pool and pgx.Tx.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Store implements store.Store.
type Store struct {
	*queries
	pool       *pgxpool.Pool
	txAttempts int
}

var _ store.Store = (*Store)(nil)

// Option configures the store.
type Option func(*Store)

// WithClock sets the clock used for created_at stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithTxAttempts bounds how many times InTx runs a transaction that fails
// with a serialization failure or deadlock.
func WithTxAttempts(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.txAttempts = n
		}
	}
}

// New wraps an open pool.
func New(pool *pgxpool.Pool, opts ...Option) *Store {
	s := &Store{
		queries:    &queries{db: pool, now: time.Now},
		pool:       pool,
		txAttempts: 3,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// InTx runs fn in a read-committed transaction. fn's error is returned
// unchanged after rollback so sentinel checks keep working. Retryable
// conflicts rerun fn from scratch.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context, q store.Querier) error) error {
	var err error
	for range s.txAttempts {
		err = pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
			return fn(ctx, &queries{db: tx, now: s.now})
		})
		if !pg.IsRetryable(err) {
			return err
		}
	}
	return err
}

type queries struct {
	db  dbtx
	now func() time.Time
}

var _ store.Querier = (*queries)(nil)

func (q *queries) stamp(t time.Time) time.Time {
	if t.IsZero() {
		return q.now().UTC()
	}
	return t
}

// mapError translates driver errors into store sentinels.
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case pg.IsNotFoundError(err):
		return store.ErrNotFound
	case pg.IsDuplicateKeyError(err):
		return errors.Join(store.ErrDuplicate, err)
	case pg.IsForeignKeyViolationError(err):
		return errors.Join(store.ErrReference, err)
	default:
		return err
	}
}

// affected maps an UPDATE or DELETE that touched no rows to ErrNotFound.
func affected(tag pgconn.CommandTag, err error) error {
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
