package game

import "errors"

var (
	ErrAlreadyPlaying    = errors.New("already_playing")
	ErrGameNotFound      = errors.New("game_not_found")
	ErrGameFull          = errors.New("game_full")
	ErrSelfJoin          = errors.New("self_join")
	ErrBotGame           = errors.New("bot_game")
	ErrNotStarted        = errors.New("not_started")
	ErrInvalidCell       = errors.New("invalid_cell")
	ErrCellOccupied      = errors.New("cell_occupied")
	ErrNotYourTurn       = errors.New("not_your_turn")
	ErrInsufficientFunds = errors.New("insufficient_funds")
)
