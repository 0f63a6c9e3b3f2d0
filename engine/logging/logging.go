// Package logging builds the engine's slog loggers.
//
// Text output goes through tint for colourised, aligned console lines; JSON
// output uses the standard JSON handler for log collectors.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/pkg/errors"
)

type Level = slog.Level

const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

type Format int

const (
	FormatText Format = iota
	FormatJSON
)

type Config struct {
	Level  Level
	Format Format
	// Output defaults to os.Stderr.
	Output    io.Writer
	NoColor   bool
	AddSource bool
	// Component is attached to every record when set.
	Component string
}

func DefaultConfig() Config {
	return Config{Level: LevelInfo, Format: FormatText, Output: os.Stderr, Component: "canopy"}
}

// New creates a logger for cfg.
func New(cfg Config) *slog.Logger {
	w := cfg.Output
	if w == nil {
		w = os.Stderr
	}

	var h slog.Handler
	switch cfg.Format {
	case FormatJSON:
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: cfg.Level, AddSource: cfg.AddSource})
	default:
		h = tint.NewHandler(w, &tint.Options{
			Level:      cfg.Level,
			AddSource:  cfg.AddSource,
			TimeFormat: time.TimeOnly,
			NoColor:    cfg.NoColor,
		})
	}
	if cfg.Component != "" {
		h = h.WithAttrs([]slog.Attr{slog.String("component", cfg.Component)})
	}
	return slog.New(h)
}

// ParseLevel accepts debug, info, warn (or warning) and error.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, errors.Errorf("logging: unknown level %q", s)
}

// ParseFormat accepts text and json.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	}
	return FormatText, errors.Errorf("logging: unknown format %q", s)
}

func LevelString(l Level) string {
	switch {
	case l <= LevelDebug:
		return "debug"
	case l <= LevelInfo:
		return "info"
	case l <= LevelWarn:
		return "warn"
	}
	return "error"
}
