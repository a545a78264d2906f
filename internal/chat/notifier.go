package chat

import (
	"time"

	"titan-tictactoe/internal/game"
	"titan-tictactoe/internal/render"
)

// RoomNotifier relays coordinator output to the room: announcements as
// text frames, positions as image frames pointing at the render
// endpoint.
type RoomNotifier struct {
	Sup     *Supervisor
	BaseURL string
}

func (n *RoomNotifier) Announce(text string) {
	n.Sup.SendText(text)
}

func (n *RoomNotifier) ShowBoard(host string, board game.Board, line []int) {
	n.Sup.SendImage(render.BoardURL(n.BaseURL, board, line, host, time.Now()))
}
