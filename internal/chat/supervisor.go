package chat

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var ErrAlreadyConnected = errors.New("already_connected")

// Conn is the slice of *websocket.Conn the supervisor needs; tests
// stand in fakes for it.
type Conn interface {
	ReadJSON(v any) error
	WriteJSON(v any) error
	Close() error
}

type Dialer func(url string) (Conn, error)

func DialWebsocket(url string) (Conn, error) {
	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, err
	}
	return c, nil
}

type Options struct {
	URL       string
	Heartbeat time.Duration
	Backoff   time.Duration
	Dial      Dialer
}

// TextHandler receives each room text line on the read path.
type TextHandler func(from, body string)

// Supervisor owns the connection lifecycle: dial, authenticate, join
// the room, heartbeat, and reconnect with a fixed backoff until
// Disconnect clears the run flag. Auth rejection also clears it, so a
// bad password never hammers the server.
type Supervisor struct {
	opts   Options
	onText TextHandler

	shouldRun atomic.Bool
	running   atomic.Bool
	state     atomic.Int32

	mu       sync.Mutex // guards conn, credentials, avatars
	conn     Conn
	username string
	password string
	room     string
	avatars  map[string]string

	writeMu sync.Mutex
}

func NewSupervisor(opts Options, onText TextHandler) *Supervisor {
	if opts.Heartbeat <= 0 {
		opts.Heartbeat = 20 * time.Second
	}
	if opts.Backoff <= 0 {
		opts.Backoff = 5 * time.Second
	}
	if opts.Dial == nil {
		opts.Dial = DialWebsocket
	}
	return &Supervisor{opts: opts, onText: onText, avatars: map[string]string{}}
}

func (s *Supervisor) State() ConnState {
	return ConnState(s.state.Load())
}

// Connect starts the supervisor loop with the given room credentials.
func (s *Supervisor) Connect(username, password, room string) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyConnected
	}
	s.mu.Lock()
	s.username, s.password, s.room = username, password, room
	s.mu.Unlock()
	s.shouldRun.Store(true)
	go s.run()
	return nil
}

// Disconnect clears the run flag and closes the live socket; the loop
// exits instead of reconnecting.
func (s *Supervisor) Disconnect() {
	s.shouldRun.Store(false)
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn != nil {
		_ = conn.Close()
	}
}

// Avatar returns the cached display image for a room member.
func (s *Supervisor) Avatar(user string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.avatars[user]
}

// SendText posts a plain announcement to the room. Dropped when the
// connection is not online.
func (s *Supervisor) SendText(body string) {
	s.send(func(room string) any { return newTextMessage(room, body) })
}

// SendImage posts an image message carrying a render URL.
func (s *Supervisor) SendImage(url string) {
	s.send(func(room string) any { return newImageMessage(room, url) })
}

func (s *Supervisor) send(frame func(room string) any) {
	if s.State() != StateOnline {
		return
	}
	s.mu.Lock()
	conn, room := s.conn, s.room
	s.mu.Unlock()
	if conn == nil {
		return
	}
	if err := s.writeTo(conn, frame(room)); err != nil {
		log.Warn().Err(err).Msg("room message dropped")
	}
}

func (s *Supervisor) run() {
	defer s.running.Store(false)
	for s.shouldRun.Load() {
		s.state.Store(int32(StateConnecting))
		conn, err := s.opts.Dial(s.opts.URL)
		if err != nil {
			log.Warn().Err(err).Str("url", s.opts.URL).Msg("chat dial failed")
			if !s.backoff() {
				break
			}
			continue
		}

		s.mu.Lock()
		s.conn = conn
		username, password := s.username, s.password
		s.mu.Unlock()

		s.state.Store(int32(StateAuthenticating))
		if err := s.writeTo(conn, newLogin(username, password)); err != nil {
			log.Warn().Err(err).Msg("chat login send failed")
		} else {
			s.readLoop(conn)
		}

		s.mu.Lock()
		if s.conn == conn {
			s.conn = nil
		}
		s.mu.Unlock()
		_ = conn.Close()

		if !s.backoff() {
			break
		}
	}
	s.state.Store(int32(StateDisconnected))
}

// backoff waits out the retry interval; false means the loop must stop.
func (s *Supervisor) backoff() bool {
	if !s.shouldRun.Load() {
		return false
	}
	s.state.Store(int32(StateRetrying))
	time.Sleep(s.opts.Backoff)
	return s.shouldRun.Load()
}

// readLoop drains the connection until it dies. It drives the auth
// handshake and hands room text to the dispatcher.
func (s *Supervisor) readLoop(conn Conn) {
	for {
		var env Envelope
		if err := conn.ReadJSON(&env); err != nil {
			log.Debug().Err(err).Msg("chat read ended")
			return
		}
		switch env.Handler {
		case "login_event":
			if env.Type != "success" {
				log.Error().Str("reason", env.Reason).Msg("chat auth rejected")
				s.shouldRun.Store(false)
				return
			}
			s.mu.Lock()
			room := s.room
			s.mu.Unlock()
			if err := s.writeTo(conn, newRoomJoin(room)); err != nil {
				return
			}
			s.state.Store(int32(StateOnline))
			go s.heartbeat(conn)
			log.Info().Str("room", room).Msg("chat online")
		case "room_event":
			if env.Type != "text" {
				continue
			}
			if env.AvatarURL != "" {
				s.mu.Lock()
				s.avatars[env.From] = env.AvatarURL
				s.mu.Unlock()
			}
			if s.onText != nil {
				s.onText(env.From, env.Body)
			}
		}
	}
}

// heartbeat keeps the socket alive for as long as this particular
// connection is. A stale heartbeat on a replaced connection errors out
// on its first write.
func (s *Supervisor) heartbeat(conn Conn) {
	ticker := time.NewTicker(s.opts.Heartbeat)
	defer ticker.Stop()
	for range ticker.C {
		if !s.shouldRun.Load() {
			return
		}
		if err := s.writeTo(conn, pingFrame{Handler: "ping"}); err != nil {
			return
		}
	}
}

func (s *Supervisor) writeTo(conn Conn, v any) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return conn.WriteJSON(v)
}
