package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

// Standing is one leaderboard row.
type Standing struct {
	User    string
	Balance int64
	Wins    int
}

// Balance reports the player's current balance. Unknown players are
// worth their starting grant; the row is only written once the ledger
// first adjusts them.
func (s *Store) Balance(ctx context.Context, user string) (int64, error) {
	row := s.Pool.QueryRow(ctx, `SELECT balance_cc FROM players WHERE username = $1`, user)
	var bal int64
	if err := row.Scan(&bal); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return s.InitialBalance, nil
		}
		return 0, err
	}
	return bal, nil
}

// Debit removes amount from the player and records a ledger entry,
// failing with ErrInsufficientBalance without touching the row when the
// balance cannot cover it.
func (s *Store) Debit(ctx context.Context, user string, amount int64, entryType, refID string) (int64, error) {
	if amount < 0 {
		return 0, errors.New("amount must be positive")
	}
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	bal, err := s.lockRow(ctx, tx, user)
	if err != nil {
		return 0, err
	}
	if bal < amount {
		return 0, ErrInsufficientBalance
	}
	newBal := bal - amount
	if err := s.applyEntry(ctx, tx, user, newBal, -amount, entryType, refID); err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return newBal, nil
}

// Credit adds amount to the player and records a ledger entry.
func (s *Store) Credit(ctx context.Context, user string, amount int64, entryType, refID string) (int64, error) {
	if amount < 0 {
		return 0, errors.New("amount must be positive")
	}
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	bal, err := s.lockRow(ctx, tx, user)
	if err != nil {
		return 0, err
	}
	newBal := bal + amount
	if err := s.applyEntry(ctx, tx, user, newBal, amount, entryType, refID); err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return newBal, nil
}

// AddWin bumps the player's win counter.
func (s *Store) AddWin(ctx context.Context, user string) error {
	_, err := s.Pool.Exec(ctx, `
INSERT INTO players (username, balance_cc, wins) VALUES ($1, $2, 1)
ON CONFLICT (username) DO UPDATE SET wins = players.wins + 1, updated_at = now()`,
		user, s.InitialBalance)
	return err
}

// Top returns up to n players ranked by balance, wins breaking ties.
func (s *Store) Top(ctx context.Context, n int) ([]Standing, error) {
	if n <= 0 {
		n = 10
	}
	rows, err := s.Pool.Query(ctx, `
SELECT username, balance_cc, wins FROM players
ORDER BY balance_cc DESC, wins DESC, username ASC LIMIT $1`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]Standing, 0, n)
	for rows.Next() {
		var st Standing
		if err := rows.Scan(&st.User, &st.Balance, &st.Wins); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// lockRow ensures the player row exists and locks it for the duration
// of the transaction.
func (s *Store) lockRow(ctx context.Context, tx pgx.Tx, user string) (int64, error) {
	if _, err := tx.Exec(ctx, `
INSERT INTO players (username, balance_cc) VALUES ($1, $2)
ON CONFLICT (username) DO NOTHING`, user, s.InitialBalance); err != nil {
		return 0, err
	}
	row := tx.QueryRow(ctx, `SELECT balance_cc FROM players WHERE username = $1 FOR UPDATE`, user)
	var bal int64
	if err := row.Scan(&bal); err != nil {
		return 0, err
	}
	return bal, nil
}

func (s *Store) applyEntry(ctx context.Context, tx pgx.Tx, user string, newBal, delta int64, entryType, refID string) error {
	if _, err := tx.Exec(ctx, `
UPDATE players SET balance_cc = $1, updated_at = $2 WHERE username = $3`,
		newBal, time.Now().UTC(), user); err != nil {
		return err
	}
	_, err := tx.Exec(ctx, `
INSERT INTO wager_entries (id, username, type, amount_cc, ref_id) VALUES ($1, $2, $3, $4, $5)`,
		NewID(), user, entryType, delta, refID)
	return err
}
