// Package chat owns the persistent room connection: the wire protocol,
// the reconnecting supervisor, and the command dispatch from room text
// to the match coordinator.
package chat

import (
	"strconv"
	"time"
)

// Envelope is the inbound frame shape. The server multiplexes every
// event through handler/type pairs.
type Envelope struct {
	Handler   string `json:"handler"`
	Type      string `json:"type"`
	From      string `json:"from,omitempty"`
	Body      string `json:"body,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

type loginFrame struct {
	Handler  string `json:"handler"`
	ID       string `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
	Platform string `json:"platform"`
}

type roomJoinFrame struct {
	Handler string `json:"handler"`
	ID      string `json:"id"`
	Name    string `json:"name"`
}

type roomMessageFrame struct {
	Handler string `json:"handler"`
	ID      string `json:"id"`
	Room    string `json:"room"`
	Type    string `json:"type"`
	Body    string `json:"body"`
	URL     string `json:"url"`
	Length  string `json:"length"`
}

type pingFrame struct {
	Handler string `json:"handler"`
}

// frameID mirrors the server's expectation of a fractional-seconds
// timestamp id.
func frameID() string {
	return strconv.FormatFloat(float64(time.Now().UnixNano())/1e9, 'f', 6, 64)
}

func newLogin(username, password string) loginFrame {
	return loginFrame{Handler: "login", ID: frameID(), Username: username, Password: password, Platform: "web"}
}

func newRoomJoin(room string) roomJoinFrame {
	return roomJoinFrame{Handler: "room_join", ID: frameID(), Name: room}
}

func newTextMessage(room, body string) roomMessageFrame {
	return roomMessageFrame{Handler: "room_message", ID: frameID(), Room: room, Type: "text", Body: body, Length: "0"}
}

func newImageMessage(room, url string) roomMessageFrame {
	return roomMessageFrame{Handler: "room_message", ID: frameID(), Room: room, Type: "image", URL: url, Length: "0"}
}
