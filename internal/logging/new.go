package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Supported output formats.
const (
	FormatText    = "text"
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Options selects the adapter and level. Output defaults to os.Stderr.
type Options struct {
	Format string
	Level  string
	Output io.Writer
}

// New builds a Logger: text and json use slog handlers, console uses a
// zerolog ConsoleWriter. Unknown formats fall back to text.
func New(opts Options) Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	switch strings.ToLower(opts.Format) {
	case FormatConsole:
		zl := zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}).
			Level(zerologLevel(opts.Level)).
			With().Timestamp().Logger()
		return NewZerologLogger(zl)
	case FormatJSON:
		h := slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slogLevel(opts.Level)})
		return NewSlogLogger(slog.New(h))
	default:
		h := slog.NewTextHandler(out, &slog.HandlerOptions{Level: slogLevel(opts.Level)})
		return NewSlogLogger(slog.New(h))
	}
}

func slogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func zerologLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

type nopLogger struct{}

// Nop returns a Logger that discards everything.
func Nop() Logger { return nopLogger{} }

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) Logger                  { return n }
