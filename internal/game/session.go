package game

import (
	"strings"
	"time"
)

// BotName is the synthetic opponent identity for solo matches. It never
// holds a balance and never receives a payout.
const BotName = "TitanBot"

type Mode string

const (
	ModeSolo Mode = "solo"
	ModeDuel Mode = "duel"
)

type Status int

const (
	StatusLobby Status = iota
	StatusActive
	StatusFinished
)

// Session is one hosted match. All mutation happens under the match
// coordinator's lock; Session itself carries no synchronization.
type Session struct {
	Host     string
	Mode     Mode
	Board    Board
	Turn     Cell
	Player1  string
	Player2  string // empty until a duel is joined; BotName in solo mode
	Wager    int64
	Status   Status
	LastMove time.Time
}

func NewSession(host string, mode Mode, wager int64, now time.Time) *Session {
	s := &Session{
		Host:     host,
		Mode:     mode,
		Board:    NewBoard(),
		Turn:     X,
		Player1:  host,
		Wager:    wager,
		Status:   StatusLobby,
		LastMove: now,
	}
	if mode == ModeSolo {
		s.Player2 = BotName
		s.Status = StatusActive
	}
	return s
}

// Has reports whether user is a party to this session.
func (s *Session) Has(user string) bool {
	return s.Player1 == user || (s.Player2 != "" && s.Player2 == user)
}

// Accepts reports whether user may take the open seat, without
// touching the session.
func (s *Session) Accepts(user string) error {
	if s.Mode == ModeSolo {
		return ErrBotGame
	}
	if s.Status != StatusLobby {
		return ErrGameFull
	}
	if s.Player2 != "" {
		return ErrGameFull
	}
	if strings.EqualFold(user, s.Player1) {
		return ErrSelfJoin
	}
	return nil
}

// Join seats player2 and activates a duel lobby.
func (s *Session) Join(user string, now time.Time) error {
	if err := s.Accepts(user); err != nil {
		return err
	}
	s.Player2 = user
	s.Status = StatusActive
	s.LastMove = now
	return nil
}

// CurrentPlayer resolves the identity expected to move this turn.
func (s *Session) CurrentPlayer() string {
	if s.Turn == X {
		return s.Player1
	}
	return s.Player2
}

// MoveResult describes the outcome of one applied move.
type MoveResult struct {
	Win    bool
	Draw   bool
	Line   [3]int
	Winner string
}

// Apply writes actor's symbol at cell and advances the state machine.
// In solo mode only player1 may act through here on X's turn; the bot's
// O move arrives with actor == BotName from the deferred timer.
func (s *Session) Apply(actor string, cell int, now time.Time) (MoveResult, error) {
	switch s.Status {
	case StatusLobby:
		return MoveResult{}, ErrNotStarted
	case StatusFinished:
		return MoveResult{}, ErrGameNotFound
	}
	if cell < 0 || cell > 8 {
		return MoveResult{}, ErrInvalidCell
	}
	if s.Mode == ModeSolo {
		if actor == BotName {
			if s.Turn != O {
				return MoveResult{}, ErrNotYourTurn
			}
		} else if actor != s.Player1 || s.Turn != X {
			return MoveResult{}, ErrNotYourTurn
		}
	} else if actor != s.CurrentPlayer() {
		return MoveResult{}, ErrNotYourTurn
	}
	if s.Board[cell] != Empty {
		return MoveResult{}, ErrCellOccupied
	}

	s.Board[cell] = s.Turn
	s.LastMove = now

	if line, ok := WinningLine(s.Board); ok {
		s.Status = StatusFinished
		return MoveResult{Win: true, Line: line, Winner: actor}, nil
	}
	if s.Board.Full() {
		s.Status = StatusFinished
		return MoveResult{Draw: true}, nil
	}
	s.Turn = Other(s.Turn)
	return MoveResult{}, nil
}

// Participants lists the human parties that staked the wager, in seat
// order. The bot identity is excluded.
func (s *Session) Participants() []string {
	out := []string{s.Player1}
	if s.Player2 != "" && s.Player2 != BotName {
		out = append(out, s.Player2)
	}
	return out
}
