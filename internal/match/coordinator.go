package match

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"titan-tictactoe/internal/game"

	"github.com/rs/zerolog/log"
)

const (
	defaultBotDelay = time.Second
	defaultIdleTTL  = 5 * time.Minute
	defaultWinBonus = 50
)

// Notifier carries coordinator output back to the chat room. Both
// methods are called outside the coordinator lock and must not call
// back into it.
type Notifier interface {
	Announce(text string)
	ShowBoard(host string, board game.Board, line []int)
}

// Wallet is the wagering ledger. Stake is strict and aborts the
// operation that requested it; AwardWin and Refund are best effort.
type Wallet interface {
	Stake(ctx context.Context, user string, amount int64, gameRef string) error
	AwardWin(ctx context.Context, user string, amount int64, gameRef string)
	Refund(ctx context.Context, user string, amount int64, gameRef string)
}

type Config struct {
	// BotDelay is the pause before the solo opponent answers a move.
	BotDelay time.Duration
	// IdleTTL evicts sessions whose last activity is older than this.
	IdleTTL time.Duration
	// WinBonus is the flat payout for winning an unwagered game.
	WinBonus int64
}

// Coordinator owns every in-progress session, keyed by host. The one
// mutex guards the session map and all session mutation; ledger calls
// and room output happen after the lock is released, against a snapshot
// taken under it.
type Coordinator struct {
	cfg    Config
	wallet Wallet
	notify Notifier

	rndMu sync.Mutex
	rnd   *rand.Rand

	mu       sync.Mutex
	sessions map[string]*game.Session
}

func New(cfg Config, wallet Wallet, notify Notifier, rnd *rand.Rand) *Coordinator {
	if cfg.BotDelay <= 0 {
		cfg.BotDelay = defaultBotDelay
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = defaultIdleTTL
	}
	if cfg.WinBonus <= 0 {
		cfg.WinBonus = defaultWinBonus
	}
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Coordinator{
		cfg:      cfg,
		wallet:   wallet,
		notify:   notify,
		rnd:      rnd,
		sessions: map[string]*game.Session{},
	}
}

// StartJanitor runs the idle sweep until ctx is cancelled.
func (c *Coordinator) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				c.evictIdle(ctx, now)
			}
		}
	}()
}

// Start opens a new session hosted by host. The stake is taken before
// the session is committed to the registry, so a lobby a joiner can
// see is always a lobby its host has paid into; a failed debit leaves
// nothing to unwind. The registry is rechecked after the debit and a
// lost race hands the stake straight back.
func (c *Coordinator) Start(ctx context.Context, host string, mode game.Mode, wager int64) error {
	if wager < 0 {
		wager = 0
	}
	if mode == game.ModeSolo {
		// The bot holds no balance, so solo games carry no wager.
		wager = 0
	}

	c.mu.Lock()
	if c.findLocked(host) != nil {
		c.mu.Unlock()
		return game.ErrAlreadyPlaying
	}
	c.mu.Unlock()

	if err := c.wallet.Stake(ctx, host, wager, host); err != nil {
		return err
	}

	now := time.Now()
	c.mu.Lock()
	if c.findLocked(host) != nil {
		// Another start or join seated host while the debit was in
		// flight.
		c.mu.Unlock()
		c.wallet.Refund(ctx, host, wager, host)
		return game.ErrAlreadyPlaying
	}
	s := game.NewSession(host, mode, wager, now)
	c.sessions[host] = s
	board := s.Board
	c.mu.Unlock()

	c.notify.ShowBoard(host, board, nil)
	if mode == game.ModeSolo {
		c.notify.Announce(fmt.Sprintf("🤖 BOT MATCH\n%s vs %s", host, game.BotName))
	} else if wager > 0 {
		c.notify.Announce(fmt.Sprintf("🎮 PvP LOBBY\nHost: %s\nWager: %d points\nOpponent: Type `!join %s`", host, wager, host))
	} else {
		c.notify.Announce(fmt.Sprintf("🎮 PvP LOBBY\nHost: %s\nOpponent: Type `!join %s`", host, host))
	}
	return nil
}

// Join seats joiner in the lobby hosted by hostName (case-insensitive).
// The seat is validated under the lock, the stake taken outside it, and
// the seat committed only after the debit lands; a lobby that vanished
// or filled in the meantime refunds the stake.
func (c *Coordinator) Join(ctx context.Context, joiner, hostName string) error {
	c.mu.Lock()
	if c.findLocked(joiner) != nil {
		c.mu.Unlock()
		return game.ErrAlreadyPlaying
	}
	s := c.lookupHostLocked(hostName)
	if s == nil {
		c.mu.Unlock()
		return game.ErrGameNotFound
	}
	if err := s.Accepts(joiner); err != nil {
		c.mu.Unlock()
		return err
	}
	host, wager := s.Host, s.Wager
	c.mu.Unlock()

	if err := c.wallet.Stake(ctx, joiner, wager, host); err != nil {
		return err
	}

	now := time.Now()
	c.mu.Lock()
	var err error
	switch {
	case c.sessions[host] != s:
		err = game.ErrGameNotFound
	case c.findLocked(joiner) != nil:
		err = game.ErrAlreadyPlaying
	default:
		err = s.Join(joiner, now)
	}
	c.mu.Unlock()
	if err != nil {
		c.wallet.Refund(ctx, joiner, wager, host)
		return err
	}

	c.notify.Announce(fmt.Sprintf("⚔ MATCH ON!\n%s (O) joined %s!", joiner, host))
	return nil
}

// Move applies actor's move in whichever session they are party to.
func (c *Coordinator) Move(ctx context.Context, actor string, cell int) error {
	now := time.Now()

	c.mu.Lock()
	s := c.findLocked(actor)
	if s == nil {
		c.mu.Unlock()
		return game.ErrGameNotFound
	}
	res, err := s.Apply(actor, cell, now)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	snap := c.takeLocked(s, res)
	scheduleBot := !snap.finished && s.Mode == game.ModeSolo && s.Turn == game.O
	c.mu.Unlock()

	if snap.finished {
		c.settle(ctx, snap)
		return nil
	}
	if scheduleBot {
		// Think for a moment off the caller's path. The timer is not
		// cancelled on stop or eviction; botMove revalidates instead.
		host := snap.host
		time.AfterFunc(c.cfg.BotDelay, func() {
			c.botMove(context.Background(), host)
		})
		return nil
	}
	c.notify.ShowBoard(snap.host, snap.board, nil)
	return nil
}

// botMove is the deferred solo opponent turn. A session that was
// stopped or evicted since the timer was armed makes this a no-op.
func (c *Coordinator) botMove(ctx context.Context, host string) {
	now := time.Now()

	c.mu.Lock()
	s := c.sessions[host]
	if s == nil || s.Mode != game.ModeSolo || s.Status != game.StatusActive || s.Turn != game.O {
		c.mu.Unlock()
		return
	}
	c.rndMu.Lock()
	cell, ok := game.ChooseMove(c.rnd, s.Board, game.O)
	c.rndMu.Unlock()
	if !ok {
		c.mu.Unlock()
		return
	}
	res, err := s.Apply(game.BotName, cell, now)
	if err != nil {
		c.mu.Unlock()
		return
	}
	snap := c.takeLocked(s, res)
	c.mu.Unlock()

	if snap.finished {
		c.settle(ctx, snap)
		return
	}
	c.notify.ShowBoard(snap.host, snap.board, nil)
}

// Stop ends the session actor is party to and refunds every stake.
func (c *Coordinator) Stop(ctx context.Context, actor string) error {
	c.mu.Lock()
	s := c.findLocked(actor)
	if s == nil {
		c.mu.Unlock()
		return game.ErrGameNotFound
	}
	delete(c.sessions, s.Host)
	host, wager, players := s.Host, s.Wager, s.Participants()
	c.mu.Unlock()

	for _, p := range players {
		c.wallet.Refund(ctx, p, wager, host)
	}
	c.notify.Announce(fmt.Sprintf("🛑 Game hosted by %s stopped.", host))
	return nil
}

// Find returns a copy of the session user is party to.
func (c *Coordinator) Find(user string) (game.Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s := c.findLocked(user); s != nil {
		return *s, true
	}
	return game.Session{}, false
}

// Count reports the number of live sessions.
func (c *Coordinator) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sessions)
}

// evictIdle removes sessions idle past the TTL, refunding stakes. The
// decision is made on a snapshot taken under the lock; refunds and
// notifications run after it is released.
func (c *Coordinator) evictIdle(ctx context.Context, now time.Time) int {
	type eviction struct {
		host    string
		wager   int64
		players []string
	}
	c.mu.Lock()
	var evicted []eviction
	for host, s := range c.sessions {
		if now.Sub(s.LastMove) > c.cfg.IdleTTL {
			delete(c.sessions, host)
			evicted = append(evicted, eviction{host: host, wager: s.Wager, players: s.Participants()})
		}
	}
	c.mu.Unlock()

	for _, e := range evicted {
		log.Info().Str("host", e.host).Int64("wager", e.wager).Msg("idle session evicted")
		for _, p := range e.players {
			c.wallet.Refund(ctx, p, e.wager, e.host)
		}
		c.notify.Announce(fmt.Sprintf("⏰ Game hosted by %s timed out. Wagers refunded.", e.host))
	}
	return len(evicted)
}

// snapshot is what settlement and rendering need once the lock is gone.
type snapshot struct {
	host     string
	wager    int64
	players  []string
	board    game.Board
	res      game.MoveResult
	finished bool
}

// takeLocked copies the fields settlement needs and unregisters the
// session if the move finished it. Callers hold c.mu.
func (c *Coordinator) takeLocked(s *game.Session, res game.MoveResult) snapshot {
	snap := snapshot{
		host:     s.Host,
		wager:    s.Wager,
		players:  s.Participants(),
		board:    s.Board,
		res:      res,
		finished: res.Win || res.Draw,
	}
	if snap.finished {
		delete(c.sessions, s.Host)
	}
	return snap
}

func (c *Coordinator) settle(ctx context.Context, snap snapshot) {
	if snap.res.Win {
		line := snap.res.Line
		c.notify.ShowBoard(snap.host, snap.board, line[:])
		if snap.res.Winner != game.BotName {
			payout := c.cfg.WinBonus
			if snap.wager > 0 {
				payout = snap.wager * 2
			}
			c.wallet.AwardWin(ctx, snap.res.Winner, payout, snap.host)
			c.notify.Announce(fmt.Sprintf("🏆 %s WINS! (+%d points)", snap.res.Winner, payout))
		} else {
			c.notify.Announce(fmt.Sprintf("🤖 %s WINS!", game.BotName))
		}
		return
	}
	c.notify.ShowBoard(snap.host, snap.board, nil)
	for _, p := range snap.players {
		c.wallet.Refund(ctx, p, snap.wager, snap.host)
	}
	c.notify.Announce("🤝 DRAW!")
}

func (c *Coordinator) findLocked(user string) *game.Session {
	for _, s := range c.sessions {
		if s.Has(user) {
			return s
		}
	}
	return nil
}

// lookupHostLocked resolves a host by name, falling back to a
// case-insensitive scan. Lowercase collisions resolve to the first
// match in map order.
func (c *Coordinator) lookupHostLocked(name string) *game.Session {
	if s, ok := c.sessions[name]; ok {
		return s
	}
	for host, s := range c.sessions {
		if strings.EqualFold(host, name) {
			return s
		}
	}
	return nil
}
