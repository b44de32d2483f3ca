package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// ParseLogLevel converts a string log level to slog.Level
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// InitLogger creates a logger with the specified log level.
// Uses colourized text for the dev environment otherwise output is JSON.
// Logs always go to stderr so command output on stdout stays clean.
func InitLogger(logLevel slog.Level, environment string) *slog.Logger {
	return NewLogger(os.Stderr, logLevel, environment)
}

// NewLogger is InitLogger with an explicit destination
func NewLogger(w io.Writer, logLevel slog.Level, environment string) *slog.Logger {
	if environment == "dev" {
		return slog.New(
			tint.NewHandler(w, &tint.Options{
				Level:       logLevel,
				TimeFormat:  time.Kitchen,
				ReplaceAttr: RedactAttr,
			}),
		)
	}

	return slog.New(
		slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:       logLevel,
			ReplaceAttr: RedactAttr,
		}))
}

// Discard returns a logger that drops everything, for tests and library callers that do not log
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
