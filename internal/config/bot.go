package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type BotConfig struct {
	ChatURL  string `env:"CHAT_URL" envDefault:"wss://chatp.net:5333/server"`
	Username string `env:"CHAT_USERNAME"`
	Password string `env:"CHAT_PASSWORD"`
	Room     string `env:"CHAT_ROOM"`

	Heartbeat        time.Duration `env:"CHAT_HEARTBEAT" envDefault:"20s"`
	ReconnectBackoff time.Duration `env:"CHAT_RECONNECT_BACKOFF" envDefault:"5s"`

	BotDelay      time.Duration `env:"BOT_THINK_DELAY" envDefault:"1s"`
	IdleTTL       time.Duration `env:"GAME_IDLE_TTL" envDefault:"5m"`
	SweepInterval time.Duration `env:"GAME_SWEEP_INTERVAL" envDefault:"30s"`
	WinBonus      int64         `env:"WIN_BONUS_POINTS" envDefault:"50"`
}

func LoadBot() (BotConfig, error) {
	var cfg BotConfig
	err := env.Parse(&cfg)
	return cfg, err
}
