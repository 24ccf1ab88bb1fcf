// Package logging builds slog loggers from pipeline configuration.
package logging

import (
	"log/slog"
	"os"

	"github.com/heartmarshall/dialect-tuner/internal/config"
)

// New creates a logger according to cfg. Unknown levels fall back to info,
// unknown formats to text.
func New(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}
