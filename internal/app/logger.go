package app

import (
	"io"
	"log/slog"

	"github.com/specialistvlad/fxgraph/internal/config"
)

// newLogger builds the application logger from the log section of the
// config. It does not set the global logger, allowing for isolated logger
// instances. An unknown level falls back to info.
func newLogger(cfg config.Log, outW io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(outW, opts))
	}
	return slog.New(slog.NewTextHandler(outW, opts))
}
