package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrInsufficientBalance = errors.New("insufficient_balance")
)

// Store wraps DB access.
type Store struct {
	Pool *pgxpool.Pool

	// InitialBalance is granted to a player the first time the ledger
	// touches their row.
	InitialBalance int64
}

func New(dsn string, initialBalance int64) (*Store, error) {
	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return nil, err
	}
	return &Store{Pool: pool, InitialBalance: initialBalance}, nil
}

func (s *Store) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.Pool.Ping(ctx)
}

// Bootstrap creates the schema if it is missing.
func (s *Store) Bootstrap(ctx context.Context) error {
	_, err := s.Pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS players (
    username   VARCHAR(255) PRIMARY KEY,
    balance_cc BIGINT NOT NULL DEFAULT 0,
    wins       INTEGER NOT NULL DEFAULT 0,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS wager_entries (
    id         VARCHAR(26) PRIMARY KEY,
    username   VARCHAR(255) NOT NULL,
    type       VARCHAR(32) NOT NULL,
    amount_cc  BIGINT NOT NULL,
    ref_id     VARCHAR(255) NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS wager_entries_username_idx ON wager_entries (username);
`)
	return err
}
