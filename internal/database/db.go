// Package database is the persistence gateway: every query is a raw
// parameterized SQL statement executed against a pgx pool. The Store is
// constructed once in main and passed to whoever needs it; there is no
// package-level connection.
package database

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schema string

// Sentinel errors returned by store operations. Handlers map these to HTTP
// statuses and user-visible messages.
var (
	ErrNotFound         = errors.New("not found")
	ErrUsernameTaken    = errors.New("username already taken")
	ErrSelfRequest      = errors.New("cannot send a friend request to yourself")
	ErrDuplicateRequest = errors.New("friend request already pending")
	ErrInvalidRequest   = errors.New("invalid friend request")
)

// Store wraps a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// Connect opens a pool against connStr, pings it, and applies the embedded
// schema (idempotent CREATE IF NOT EXISTS statements).
func Connect(ctx context.Context, connStr string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to parse pgx config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to create pgx pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	// One statement per Exec: the extended protocol does not accept
	// multi-statement strings.
	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := pool.Exec(ctx, stmt); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	return &Store{pool: pool}, nil
}

// Close releases the underlying pool.
func (s *Store) Close() {
	s.pool.Close()
}
