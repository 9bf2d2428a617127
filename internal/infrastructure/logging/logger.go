// Package logging provides structured logging utilities.
//
// Console logs are formatted as:
// [LEVEL] [SCOPE] [HH:MM:SS] message key=value
package logging

import (
	"log/slog"
	"os"

	"github.com/ledgerdesk/backoffice-backend/internal/infrastructure/config"
)

// NewLogger creates a structured logger based on config
func NewLogger(cfg config.LoggingConfig) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}

	return slog.New(NewConsoleHandler(os.Stdout, opts))
}

// NewLoggerWithScope creates a logger with a scope prefix (e.g., "api", "reconcile").
// Useful for creating scoped loggers that can be injected into services
func NewLoggerWithScope(cfg config.LoggingConfig, scope string) *slog.Logger {
	logger := NewLogger(cfg)
	return logger.With("scope", scope)
}
