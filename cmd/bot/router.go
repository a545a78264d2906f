package main

import (
	"log/slog"
	"net/http"

	"titan-tictactoe/internal/config"
	"titan-tictactoe/internal/ledger"
	"titan-tictactoe/internal/logging"
	"titan-tictactoe/internal/store"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v3"
)

func newRouter(st *store.Store, led *ledger.Ledger, conn connector, botCfg config.BotConfig) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.Get("/", indexHandler())

	// The panel polls /logs and /render every second; keeping them off
	// the request logger stops the ring from filling with its own echo.
	r.Get("/logs", logsHandler(conn))
	r.Get("/render", renderHandler())

	r.Group(func(r chi.Router) {
		r.Use(apiLogMiddleware())
		r.Get("/healthz", healthHandler(st))
		r.Post("/connect", connectHandler(conn, botCfg))
		r.Post("/disconnect", disconnectHandler(conn))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(apiLogMiddleware())
		r.Get("/public/leaderboard", leaderboardHandler(led))
	})
	return r
}

func apiLogMiddleware() func(http.Handler) http.Handler {
	return httplog.RequestLogger(
		slog.New(slog.NewJSONHandler(logging.Writer(), &slog.HandlerOptions{})),
		&httplog.Options{
			Level:              slog.LevelInfo,
			Schema:             httplog.Schema{ResponseStatus: "status", ResponseDuration: "duration_ms"},
			LogRequestBody:     func(*http.Request) bool { return false },
			LogResponseBody:    func(*http.Request) bool { return false },
			LogRequestHeaders:  []string{},
			LogResponseHeaders: []string{},
			LogExtraAttrs: func(req *http.Request, _ string, _ int) []slog.Attr {
				rc := chi.RouteContext(req.Context())
				route := req.URL.Path
				if rc != nil && rc.RoutePattern() != "" {
					route = rc.RoutePattern()
				}
				return []slog.Attr{
					slog.String("request_id", chimw.GetReqID(req.Context())),
					slog.String("method", req.Method),
					slog.String("route", route),
					slog.String("path", req.URL.Path),
				}
			},
		},
	)
}
