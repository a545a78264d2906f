package ledger

import (
	"context"
	"errors"
	"fmt"

	"titan-tictactoe/internal/game"
	"titan-tictactoe/internal/store"

	"github.com/rs/zerolog/log"
)

// Ledger wraps the balance store with the stake / payout / refund
// protocol. Stakes are strict: a failed debit aborts the create or join
// that requested it. Payouts and refunds are best effort: the game
// outcome stands even when the balance write fails, so errors are
// logged and swallowed.
type Ledger struct {
	Store *store.Store
}

func New(s *store.Store) *Ledger {
	return &Ledger{Store: s}
}

// Stake debits the wager before the session change is announced.
func (l *Ledger) Stake(ctx context.Context, user string, amount int64, gameRef string) error {
	if amount <= 0 {
		return nil
	}
	_, err := l.Store.Debit(ctx, user, amount, "wager_stake", gameRef)
	if errors.Is(err, store.ErrInsufficientBalance) {
		return game.ErrInsufficientFunds
	}
	if err != nil {
		return fmt.Errorf("stake %s: %w", user, err)
	}
	return nil
}

// AwardWin credits the payout and bumps the winner's win counter.
func (l *Ledger) AwardWin(ctx context.Context, user string, amount int64, gameRef string) {
	if amount > 0 {
		if _, err := l.Store.Credit(ctx, user, amount, "win_payout", gameRef); err != nil {
			log.Error().Err(err).Str("user", user).Int64("amount", amount).Msg("win payout failed")
		}
	}
	if err := l.Store.AddWin(ctx, user); err != nil {
		log.Error().Err(err).Str("user", user).Msg("win count update failed")
	}
}

// Refund returns a stake after a draw, stop, or idle eviction.
func (l *Ledger) Refund(ctx context.Context, user string, amount int64, gameRef string) {
	if amount <= 0 {
		return
	}
	if _, err := l.Store.Credit(ctx, user, amount, "wager_refund", gameRef); err != nil {
		log.Error().Err(err).Str("user", user).Int64("amount", amount).Msg("wager refund failed")
	}
}

// Balance reports a player's current balance.
func (l *Ledger) Balance(ctx context.Context, user string) (int64, error) {
	return l.Store.Balance(ctx, user)
}

// Top returns the leaderboard.
func (l *Ledger) Top(ctx context.Context, n int) ([]store.Standing, error) {
	return l.Store.Top(ctx, n)
}
