// Package postgres is the store layer. All access goes through an injected
// pgx connection pool with positional parameter binding; no SQL is ever
// built by string interpolation.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool creates the application connection pool and verifies connectivity.
// The pool is the only shared mutable resource in the process; callers close
// it on shutdown after the HTTP server has drained.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return pool, nil
}

// Store executes parameterized queries against the webshop schema.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a Store backed by the given pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// ErrDuplicate is returned by insert operations that hit a unique
// constraint, so callers can map it to a conflict without depending on
// driver error types.
var ErrDuplicate = errors.New("duplicate row")
