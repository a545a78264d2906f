package chat

import (
	"errors"
	"strconv"
	"strings"
)

var ErrSyntax = errors.New("invalid_command_syntax")

type CommandKind int

const (
	// CmdNone marks room text the game engine ignores.
	CmdNone CommandKind = iota
	CmdHelp
	CmdStartDuel
	CmdStartSolo
	CmdStartBet
	CmdJoin
	CmdStop
	CmdScore
	CmdMove
)

type Command struct {
	Kind CommandKind
	Host string // CmdJoin target
	Cell int    // CmdMove, zero-based
	Bet  int64  // CmdStartBet stake
}

// Parse reads one room line. Commands are case-insensitive and
// whitespace-trimmed; anything unrecognized is CmdNone rather than an
// error, so ordinary chatter never triggers a notice.
func Parse(text string) (Command, error) {
	trimmed := strings.TrimSpace(text)
	lower := strings.ToLower(trimmed)

	if n, err := strconv.Atoi(lower); err == nil {
		if n < 1 || n > 9 {
			return Command{}, nil
		}
		return Command{Kind: CmdMove, Cell: n - 1}, nil
	}

	fields := strings.Fields(lower)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "!") {
		return Command{}, nil
	}

	switch fields[0] {
	case "!help":
		return Command{Kind: CmdHelp}, nil
	case "!stop":
		return Command{Kind: CmdStop}, nil
	case "!score":
		return Command{Kind: CmdScore}, nil
	case "!start":
		if len(fields) == 1 {
			return Command{Kind: CmdStartDuel}, nil
		}
		switch fields[1] {
		case "bot":
			return Command{Kind: CmdStartSolo}, nil
		case "bet":
			if len(fields) != 3 {
				return Command{}, ErrSyntax
			}
			bet, err := strconv.ParseInt(fields[2], 10, 64)
			if err != nil || bet <= 0 {
				return Command{}, ErrSyntax
			}
			return Command{Kind: CmdStartBet, Bet: bet}, nil
		}
		return Command{}, ErrSyntax
	case "!join":
		// Preserve the host's original casing for the lookup message.
		parts := strings.Fields(trimmed)
		if len(parts) != 2 {
			return Command{}, ErrSyntax
		}
		return Command{Kind: CmdJoin, Host: parts[1]}, nil
	}
	return Command{}, nil
}
