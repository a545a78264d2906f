package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"titan-tictactoe/internal/config"
)

var sink io.Writer = os.Stdout

// ring keeps the most recent log lines for the control panel.
var ring = NewRing(100)

func Init(cfg config.LogConfig) {
	level := zerolog.InfoLevel
	if v := strings.TrimSpace(cfg.Level); v != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(v)); err == nil {
			level = parsed
		}
	}

	var base io.Writer = os.Stdout
	if cfg.Pretty {
		base = zerolog.ConsoleWriter{Out: os.Stdout}
	}
	var fileErr error
	if cfg.File != "" {
		fw, err := newSizeCappedWriter(cfg.File, cfg.MaxMB)
		if err != nil {
			fileErr = err
		} else {
			base = io.MultiWriter(base, fw)
		}
	}
	sink = io.MultiWriter(base, ring)

	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(sink).With().Timestamp().Logger()
	if cfg.SampleEvery > 1 {
		logger = logger.Sample(&zerolog.BasicSampler{N: uint32(cfg.SampleEvery)})
	}
	log.Logger = logger
	if fileErr != nil {
		log.Warn().Err(fileErr).Str("path", cfg.File).Msg("log file disabled")
	}
}

// Writer is the shared log sink, also used by the HTTP request logger.
func Writer() io.Writer {
	return sink
}

// Recent returns the latest captured log lines, oldest first.
func Recent() []string {
	return ring.Lines()
}
