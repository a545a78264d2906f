package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"titan-tictactoe/internal/chat"
	"titan-tictactoe/internal/config"
	"titan-tictactoe/internal/game"
	"titan-tictactoe/internal/ledger"
	"titan-tictactoe/internal/logging"
	"titan-tictactoe/internal/render"
	"titan-tictactoe/internal/store"
)

// connector is the supervisor surface the control panel drives.
type connector interface {
	Connect(username, password, room string) error
	Disconnect()
	State() chat.ConnState
}

func writeHTTPError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": code})
}

func indexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(panelHTML))
	}
}

func healthHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := st.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "db": "down"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "db": "up"})
	}
}

func connectHandler(conn connector, cfg config.BotConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			U string `json:"u"`
			P string `json:"p"`
			R string `json:"r"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		// Panel fields win; env credentials back them up.
		if body.U == "" {
			body.U = cfg.Username
		}
		if body.P == "" {
			body.P = cfg.Password
		}
		if body.R == "" {
			body.R = cfg.Room
		}
		if body.U == "" || body.R == "" {
			writeHTTPError(w, http.StatusBadRequest, "missing_credentials")
			return
		}
		if err := conn.Connect(body.U, body.P, body.R); err != nil {
			if errors.Is(err, chat.ErrAlreadyConnected) {
				_ = json.NewEncoder(w).Encode(map[string]any{"status": "Connected"})
				return
			}
			writeHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "Connecting..."})
	}
}

func disconnectHandler(conn connector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn.Disconnect()
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "Disconnected"})
	}
}

func logsHandler(conn connector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := conn.State()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"logs":      logging.Recent(),
			"connected": state == chat.StateOnline,
			"state":     state.String(),
		})
	}
}

func renderHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		boardParam := r.URL.Query().Get("b")
		if boardParam == "" {
			boardParam = "_________"
		}
		if len(boardParam) != 9 {
			writeHTTPError(w, http.StatusBadRequest, "invalid_board")
			return
		}
		board := game.ParseBoard(boardParam)

		var line []int
		if wp := r.URL.Query().Get("w"); wp != "" {
			parsed, ok := render.ParseLine(wp)
			if !ok {
				writeHTTPError(w, http.StatusBadRequest, "invalid_line")
				return
			}
			line = parsed
		}

		w.Header().Set("Content-Type", "image/png")
		if err := render.PNG(w, board, line); err != nil {
			writeHTTPError(w, http.StatusInternalServerError, "internal_error")
		}
	}
}

func leaderboardHandler(led *ledger.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 10
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 || n > 100 {
				writeHTTPError(w, http.StatusBadRequest, "invalid_limit")
				return
			}
			limit = n
		}
		items, err := led.Top(r.Context(), limit)
		if err != nil {
			writeHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		if items == nil {
			items = []store.Standing{}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"items": items, "limit": limit})
	}
}
