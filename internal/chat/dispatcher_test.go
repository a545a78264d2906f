package chat

import (
	"context"
	"strings"
	"sync"
	"testing"

	"titan-tictactoe/internal/game"
	"titan-tictactoe/internal/store"
)

type fakeGames struct {
	mu    sync.Mutex
	calls []string

	startErr error
	joinErr  error
	moveErr  error
	stopErr  error
}

func (f *fakeGames) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeGames) Start(_ context.Context, host string, mode game.Mode, wager int64) error {
	f.record("start " + host)
	_ = mode
	_ = wager
	return f.startErr
}

func (f *fakeGames) Join(_ context.Context, joiner, host string) error {
	f.record("join " + joiner + " " + host)
	return f.joinErr
}

func (f *fakeGames) Move(_ context.Context, actor string, cell int) error {
	f.record("move " + actor)
	_ = cell
	return f.moveErr
}

func (f *fakeGames) Stop(_ context.Context, actor string) error {
	f.record("stop " + actor)
	return f.stopErr
}

type fakeScores struct {
	balance int64
	top     []store.Standing
}

func (f *fakeScores) Balance(context.Context, string) (int64, error) { return f.balance, nil }

func (f *fakeScores) Top(context.Context, int) ([]store.Standing, error) { return f.top, nil }

type fakeSender struct {
	mu    sync.Mutex
	texts []string
}

func (f *fakeSender) SendText(body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, body)
}

func (f *fakeSender) last(t *testing.T) string {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.texts) == 0 {
		t.Fatal("no text sent")
	}
	return f.texts[len(f.texts)-1]
}

func newTestDispatcher() (*Dispatcher, *fakeGames, *fakeSender) {
	games := &fakeGames{}
	out := &fakeSender{}
	return NewDispatcher(games, &fakeScores{}, out), games, out
}

func TestDispatchRoutesCommands(t *testing.T) {
	d, games, _ := newTestDispatcher()

	d.HandleText("alice", "!start")
	d.HandleText("bob", "!join alice")
	d.HandleText("alice", "5")
	d.HandleText("alice", "!stop")

	want := []string{"start alice", "join bob alice", "move alice", "stop alice"}
	if len(games.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", games.calls, want)
	}
	for i := range want {
		if games.calls[i] != want[i] {
			t.Fatalf("call %d = %q, want %q", i, games.calls[i], want[i])
		}
	}
}

func TestDispatchIgnoresChatter(t *testing.T) {
	d, games, out := newTestDispatcher()

	d.HandleText("alice", "good game everyone")
	d.HandleText("bob", "0")

	if len(games.calls) != 0 {
		t.Fatalf("calls = %v, want none", games.calls)
	}
	if len(out.texts) != 0 {
		t.Fatalf("texts = %v, want none", out.texts)
	}
}

func TestDispatchHelp(t *testing.T) {
	d, games, out := newTestDispatcher()

	d.HandleText("alice", "!help")

	if len(games.calls) != 0 {
		t.Fatalf("calls = %v, want none", games.calls)
	}
	if got := out.last(t); !strings.Contains(got, "!start bet") {
		t.Fatalf("help text = %q, missing bet usage", got)
	}
}

func TestDispatchErrorNotices(t *testing.T) {
	tests := []struct {
		name string
		err  error
		line string
		want string
	}{
		{"already playing", game.ErrAlreadyPlaying, "!start", "already playing"},
		{"game full", game.ErrGameFull, "!start", "Game full"},
		{"insufficient", game.ErrInsufficientFunds, "!start bet 500", "enough points"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, games, out := newTestDispatcher()
			games.startErr = tt.err
			d.HandleText("alice", tt.line)
			if got := out.last(t); !strings.Contains(got, tt.want) {
				t.Fatalf("notice = %q, want substring %q", got, tt.want)
			}
		})
	}
}

func TestDispatchJoinNotFound(t *testing.T) {
	d, games, out := newTestDispatcher()
	games.joinErr = game.ErrGameNotFound

	d.HandleText("bob", "!join Carol")

	if got := out.last(t); !strings.Contains(got, "No game found hosted by Carol") {
		t.Fatalf("notice = %q", got)
	}
}

func TestDispatchMoveNotices(t *testing.T) {
	d, games, out := newTestDispatcher()

	// Wrong turn and no-game digits pass silently.
	games.moveErr = game.ErrNotYourTurn
	d.HandleText("alice", "3")
	games.moveErr = game.ErrGameNotFound
	d.HandleText("alice", "3")
	if len(out.texts) != 0 {
		t.Fatalf("texts = %v, want silence", out.texts)
	}

	games.moveErr = game.ErrCellOccupied
	d.HandleText("alice", "3")
	if got := out.last(t); !strings.Contains(got, "Taken") {
		t.Fatalf("notice = %q", got)
	}
}

func TestDispatchStopNotInGame(t *testing.T) {
	d, games, out := newTestDispatcher()
	games.stopErr = game.ErrGameNotFound

	d.HandleText("alice", "!stop")

	if got := out.last(t); !strings.Contains(got, "not in a game") {
		t.Fatalf("notice = %q", got)
	}
}

func TestDispatchSyntaxUsage(t *testing.T) {
	d, _, out := newTestDispatcher()

	d.HandleText("alice", "!join")
	if got := out.last(t); !strings.Contains(got, "!join <host_name>") {
		t.Fatalf("usage = %q", got)
	}

	d.HandleText("alice", "!start bet nope")
	if got := out.last(t); !strings.Contains(got, "!start bet <points>") {
		t.Fatalf("usage = %q", got)
	}
}

func TestDispatchScore(t *testing.T) {
	scores := &fakeScores{
		balance: 240,
		top: []store.Standing{
			{User: "alice", Balance: 240, Wins: 3},
			{User: "bob", Balance: 90, Wins: 1},
		},
	}
	out := &fakeSender{}
	d := NewDispatcher(&fakeGames{}, scores, out)

	d.HandleText("alice", "!score")

	got := out.last(t)
	for _, want := range []string{"🏅 alice — 240 points", "TOP PLAYERS", "1. alice — 240 points (3 wins)", "2. bob — 90 points (1 wins)"} {
		if !strings.Contains(got, want) {
			t.Fatalf("score = %q, missing %q", got, want)
		}
	}
}
