// Package pg bootstraps PostgreSQL access on top of pgx/v5.
//
// Connect opens a *pgxpool.Pool from Config with retries, Migrate applies
// goose migrations from an fs.FS (usually an embed.FS owned by the store
// package), and Healthcheck adapts the pool to a readiness probe.
//
// Error helpers classify *pgconn.PgError values by SQLSTATE using
// github.com/jackc/pgerrcode:
//
//	if pg.IsDuplicateKeyError(err) {
//		return store.ErrDuplicate
//	}
package pg
