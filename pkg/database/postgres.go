package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool sizing falls back to these when the config leaves a field zero.
// MaxConnections is normally driven by PGMAX_CONNECTIONS.
const (
	defaultMaxConns     = 25
	defaultConnLifetime = time.Hour
	defaultConnIdleTime = 30 * time.Minute

	pingTimeout = 5 * time.Second
)

// DB wraps a pgxpool connection pool. Repositories reach it through
// Querier, which swaps in an open transaction when one is in the context.
type DB struct {
	*pgxpool.Pool
}

// Config holds connection pool settings, sourced from DatabaseConfig.
type Config struct {
	URL             string
	MaxConnections  int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

func (c *Config) withDefaults() Config {
	out := *c
	if out.MaxConnections == 0 {
		out.MaxConnections = defaultMaxConns
	}
	if out.MaxConnLifetime == 0 {
		out.MaxConnLifetime = defaultConnLifetime
	}
	if out.MaxConnIdleTime == 0 {
		out.MaxConnIdleTime = defaultConnIdleTime
	}
	return out
}

// NewConnection opens a pgx pool and verifies it with a bounded ping.
func NewConnection(ctx context.Context, cfg *Config) (*DB, error) {
	resolved := cfg.withDefaults()

	poolConfig, err := pgxpool.ParseConfig(resolved.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid database URL: %w", err)
	}

	poolConfig.MaxConns = resolved.MaxConnections
	poolConfig.MaxConnLifetime = resolved.MaxConnLifetime
	poolConfig.MaxConnIdleTime = resolved.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// Close closes the pool, waiting for checked-out connections to return.
func (db *DB) Close() {
	db.Pool.Close()
}
