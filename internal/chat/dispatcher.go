package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"titan-tictactoe/internal/game"
	"titan-tictactoe/internal/store"

	"github.com/rs/zerolog/log"
)

const helpText = "🎮 COMMANDS:\n" +
	"• `!start` -> Start PvP\n" +
	"• `!start bot` -> Play Solo\n" +
	"• `!start bet <points>` -> PvP with a wager\n" +
	"• `!join <user>` -> Join Game\n" +
	"• `!stop` -> End Game\n" +
	"• `!score` -> Standings\n" +
	"• `1-9` -> Move"

// Games is the coordinator surface the dispatcher drives.
type Games interface {
	Start(ctx context.Context, host string, mode game.Mode, wager int64) error
	Join(ctx context.Context, joiner, host string) error
	Move(ctx context.Context, actor string, cell int) error
	Stop(ctx context.Context, actor string) error
}

// Scores reads the wagering ledger for the !score command.
type Scores interface {
	Balance(ctx context.Context, user string) (int64, error)
	Top(ctx context.Context, n int) ([]store.Standing, error)
}

// Sender posts plain text back to the room.
type Sender interface {
	SendText(body string)
}

// Dispatcher turns room text into coordinator calls and maps
// command-level errors into user-facing notices. Every error is
// recovered here; nothing propagates past a chat line.
type Dispatcher struct {
	Games   Games
	Scores  Scores
	Out     Sender
	Timeout time.Duration
}

func NewDispatcher(games Games, scores Scores, out Sender) *Dispatcher {
	return &Dispatcher{Games: games, Scores: scores, Out: out, Timeout: 10 * time.Second}
}

// HandleText is the supervisor's TextHandler.
func (d *Dispatcher) HandleText(from, body string) {
	cmd, err := Parse(body)
	if err != nil {
		d.Out.SendText(usageFor(body))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.Timeout)
	defer cancel()

	switch cmd.Kind {
	case CmdNone:
	case CmdHelp:
		d.Out.SendText(helpText)
	case CmdStartDuel:
		d.report(from, d.Games.Start(ctx, from, game.ModeDuel, 0))
	case CmdStartSolo:
		d.report(from, d.Games.Start(ctx, from, game.ModeSolo, 0))
	case CmdStartBet:
		d.report(from, d.Games.Start(ctx, from, game.ModeDuel, cmd.Bet))
	case CmdJoin:
		if err := d.Games.Join(ctx, from, cmd.Host); err != nil {
			if errors.Is(err, game.ErrGameNotFound) {
				d.Out.SendText(fmt.Sprintf("⚠ No game found hosted by %s.", cmd.Host))
				return
			}
			d.report(from, err)
		}
	case CmdMove:
		d.reportMove(d.Games.Move(ctx, from, cmd.Cell))
	case CmdStop:
		if err := d.Games.Stop(ctx, from); err != nil {
			d.Out.SendText(fmt.Sprintf("⚠ %s, you are not in a game.", from))
		}
	case CmdScore:
		d.sendScore(ctx, from)
	}
}

// report maps a command error to its room notice. nil is quiet: the
// coordinator already announced the success.
func (d *Dispatcher) report(from string, err error) {
	switch {
	case err == nil:
	case errors.Is(err, game.ErrAlreadyPlaying):
		d.Out.SendText(fmt.Sprintf("⚠ %s, you are already playing! Type !stop to end it.", from))
	case errors.Is(err, game.ErrGameFull):
		d.Out.SendText("⚠ Game full!")
	case errors.Is(err, game.ErrBotGame):
		d.Out.SendText("⚠ Cannot join a Bot game.")
	case errors.Is(err, game.ErrSelfJoin):
		d.Out.SendText(fmt.Sprintf("⚠ %s, you cannot join your own game.", from))
	case errors.Is(err, game.ErrInsufficientFunds):
		d.Out.SendText(fmt.Sprintf("⚠ %s, you don't have enough points for that wager.", from))
	default:
		log.Error().Err(err).Str("user", from).Msg("command failed")
	}
}

// reportMove keeps the original engine's quiet failure modes: wrong
// turn and out-of-game digits pass without comment, an occupied cell
// gets a nudge.
func (d *Dispatcher) reportMove(err error) {
	if errors.Is(err, game.ErrCellOccupied) {
		d.Out.SendText("⚠ Taken!")
	}
}

func (d *Dispatcher) sendScore(ctx context.Context, from string) {
	balance, err := d.Scores.Balance(ctx, from)
	if err != nil {
		log.Error().Err(err).Str("user", from).Msg("balance lookup failed")
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "🏅 %s — %d points\n📊 TOP PLAYERS:", from, balance)
	top, err := d.Scores.Top(ctx, 5)
	if err != nil {
		log.Error().Err(err).Msg("leaderboard lookup failed")
		return
	}
	for i, st := range top {
		fmt.Fprintf(&b, "\n%d. %s — %d points (%d wins)", i+1, st.User, st.Balance, st.Wins)
	}
	d.Out.SendText(b.String())
}

func usageFor(body string) string {
	lower := strings.ToLower(strings.TrimSpace(body))
	if strings.HasPrefix(lower, "!join") {
		return "⚠ Usage: `!join <host_name>`"
	}
	if strings.HasPrefix(lower, "!start bet") {
		return "⚠ Usage: `!start bet <points>`"
	}
	return "⚠ Unknown command. Type !help."
}
