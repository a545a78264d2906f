package main

import (
	"context"
	"math/rand"
	"net/http"
	"time"

	"titan-tictactoe/internal/chat"
	"titan-tictactoe/internal/config"
	"titan-tictactoe/internal/ledger"
	"titan-tictactoe/internal/logging"
	"titan-tictactoe/internal/match"
	"titan-tictactoe/internal/store"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.LoadApp()
	if err != nil {
		panic(err)
	}
	logging.Init(cfg.Log)

	st, err := store.New(cfg.Server.PostgresDSN, cfg.Server.StartingBalance)
	if err != nil {
		log.Fatal().Err(err).Msg("store init failed")
	}
	defer st.Close()
	if err := st.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("db ping failed")
	}
	if err := st.Bootstrap(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("db bootstrap failed")
	}

	led := ledger.New(st)

	// The dispatcher needs the supervisor for output and the supervisor
	// needs the dispatcher for input; the closure breaks the cycle.
	var dispatch *chat.Dispatcher
	sup := chat.NewSupervisor(chat.Options{
		URL:       cfg.Bot.ChatURL,
		Heartbeat: cfg.Bot.Heartbeat,
		Backoff:   cfg.Bot.ReconnectBackoff,
	}, func(from, body string) {
		dispatch.HandleText(from, body)
	})

	notifier := &chat.RoomNotifier{Sup: sup, BaseURL: cfg.Server.PublicBaseURL}
	coord := match.New(match.Config{
		BotDelay: cfg.Bot.BotDelay,
		IdleTTL:  cfg.Bot.IdleTTL,
		WinBonus: cfg.Bot.WinBonus,
	}, led, notifier, rand.New(rand.NewSource(time.Now().UnixNano())))
	coord.StartJanitor(context.Background(), cfg.Bot.SweepInterval)

	dispatch = chat.NewDispatcher(coord, led, sup)

	// Credentials in the environment mean headless deploys come up
	// connected; otherwise the control panel drives it.
	if cfg.Bot.Username != "" && cfg.Bot.Room != "" {
		if err := sup.Connect(cfg.Bot.Username, cfg.Bot.Password, cfg.Bot.Room); err != nil {
			log.Error().Err(err).Msg("auto connect failed")
		}
	}

	r := newRouter(st, led, sup, cfg.Bot)
	server := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	log.Info().Str("addr", cfg.Server.HTTPAddr).Msg("http listening")
	log.Fatal().Err(server.ListenAndServe()).Msg("server stopped")
}
