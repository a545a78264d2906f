package main

import (
	"bytes"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"titan-tictactoe/internal/chat"
	"titan-tictactoe/internal/config"
)

type fakeConnector struct {
	mu         sync.Mutex
	user, room string
	connectErr error
	state      chat.ConnState
	dropped    bool
}

func (f *fakeConnector) Connect(username, _, room string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.connectErr != nil {
		return f.connectErr
	}
	f.user, f.room = username, room
	f.state = chat.StateConnecting
	return nil
}

func (f *fakeConnector) Disconnect() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dropped = true
	f.state = chat.StateDisconnected
}

func (f *fakeConnector) State() chat.ConnState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func newPanelRouter(conn *fakeConnector, cfg config.BotConfig) http.Handler {
	return newRouter(nil, nil, conn, cfg)
}

func TestIndexServesPanel(t *testing.T) {
	router := newPanelRouter(&fakeConnector{}, config.BotConfig{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("content type = %q", ct)
	}
	if !strings.Contains(w.Body.String(), "TITAN TIC-TAC-TOE BOT") {
		t.Fatal("panel title missing")
	}
}

func TestConnectUsesBodyCredentials(t *testing.T) {
	conn := &fakeConnector{}
	router := newPanelRouter(conn, config.BotConfig{})

	body := bytes.NewBufferString(`{"u":"titan","p":"secret","r":"arcade"}`)
	req := httptest.NewRequest(http.MethodPost, "/connect", body)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
	}
	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["status"] != "Connecting..." {
		t.Fatalf("status = %q", resp["status"])
	}
	if conn.user != "titan" || conn.room != "arcade" {
		t.Fatalf("connector got user=%q room=%q", conn.user, conn.room)
	}
}

func TestConnectFallsBackToEnvCredentials(t *testing.T) {
	conn := &fakeConnector{}
	router := newPanelRouter(conn, config.BotConfig{Username: "envbot", Password: "envpass", Room: "envroom"})

	req := httptest.NewRequest(http.MethodPost, "/connect", bytes.NewBufferString(`{}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if conn.user != "envbot" || conn.room != "envroom" {
		t.Fatalf("connector got user=%q room=%q", conn.user, conn.room)
	}
}

func TestConnectMissingCredentials(t *testing.T) {
	router := newPanelRouter(&fakeConnector{}, config.BotConfig{})

	req := httptest.NewRequest(http.MethodPost, "/connect", bytes.NewBufferString(`{}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["error"] != "missing_credentials" {
		t.Fatalf("error = %q", resp["error"])
	}
}

func TestConnectInvalidJSON(t *testing.T) {
	router := newPanelRouter(&fakeConnector{}, config.BotConfig{})

	req := httptest.NewRequest(http.MethodPost, "/connect", bytes.NewBufferString("{"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestConnectWhenAlreadyConnected(t *testing.T) {
	conn := &fakeConnector{connectErr: chat.ErrAlreadyConnected}
	router := newPanelRouter(conn, config.BotConfig{})

	body := bytes.NewBufferString(`{"u":"titan","r":"arcade"}`)
	req := httptest.NewRequest(http.MethodPost, "/connect", body)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["status"] != "Connected" {
		t.Fatalf("status = %q", resp["status"])
	}
}

func TestDisconnect(t *testing.T) {
	conn := &fakeConnector{state: chat.StateOnline}
	router := newPanelRouter(conn, config.BotConfig{})

	req := httptest.NewRequest(http.MethodPost, "/disconnect", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !conn.dropped {
		t.Fatal("Disconnect not forwarded to supervisor")
	}
}

func TestLogsReportsState(t *testing.T) {
	conn := &fakeConnector{state: chat.StateOnline}
	router := newPanelRouter(conn, config.BotConfig{})

	req := httptest.NewRequest(http.MethodGet, "/logs", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Logs      []string `json:"logs"`
		Connected bool     `json:"connected"`
		State     string   `json:"state"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Connected || resp.State != "online" {
		t.Fatalf("connected=%v state=%q", resp.Connected, resp.State)
	}
}

func TestRenderReturnsBoardPNG(t *testing.T) {
	router := newPanelRouter(&fakeConnector{}, config.BotConfig{})

	req := httptest.NewRequest(http.MethodGet, "/render?b=XOX_O___X&w=", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("content type = %q", ct)
	}
	img, err := png.Decode(w.Body)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if got := img.Bounds().Dx(); got != 900 {
		t.Fatalf("width = %d, want 900", got)
	}
}

func TestRenderDefaultsToEmptyBoard(t *testing.T) {
	router := newPanelRouter(&fakeConnector{}, config.BotConfig{})

	req := httptest.NewRequest(http.MethodGet, "/render", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if _, err := png.Decode(w.Body); err != nil {
		t.Fatalf("decode png: %v", err)
	}
}

func TestRenderRejectsBadParams(t *testing.T) {
	router := newPanelRouter(&fakeConnector{}, config.BotConfig{})

	tests := []struct {
		url  string
		want string
	}{
		{"/render?b=XO", "invalid_board"},
		{"/render?b=XOX_O___X&w=1,2", "invalid_line"},
		{"/render?b=XOX_O___X&w=0,4,9", "invalid_line"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.url, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", tt.url, w.Code)
		}
		var resp map[string]string
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("%s: decode response: %v", tt.url, err)
		}
		if resp["error"] != tt.want {
			t.Fatalf("%s: error = %q, want %q", tt.url, resp["error"], tt.want)
		}
	}
}
