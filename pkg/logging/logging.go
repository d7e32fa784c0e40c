package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Level is a slog level; mimic uses the four standard ones.
type Level = slog.Level

const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// Format selects the slog handler.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ComponentKey is the attribute naming the subsystem that emitted a record.
const ComponentKey = "component"

// Config describes a mimic logger. The zero value logs text at info level
// to stderr.
type Config struct {
	Level     Level
	Format    Format
	Output    io.Writer // nil means os.Stderr
	AddSource bool
}

// DefaultConfig is what `mimic serve` uses when the configuration has no log
// section.
func DefaultConfig() Config {
	return Config{Level: LevelInfo, Format: FormatText, Output: os.Stderr}
}

// Handler builds the slog handler described by c.
func (c Config) Handler() slog.Handler {
	out := c.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: c.Level, AddSource: c.AddSource}
	if c.Format == FormatJSON {
		return slog.NewJSONHandler(out, opts)
	}
	return slog.NewTextHandler(out, opts)
}

// New returns a logger for cfg.
func New(cfg Config) *slog.Logger {
	return slog.New(cfg.Handler())
}

// Nop returns a logger that drops every record. Components default to it
// until a WithLogger option replaces it.
func Nop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// Component tags log with the subsystem name under ComponentKey.
// A nil log yields a tagged Nop logger.
func Component(log *slog.Logger, name string) *slog.Logger {
	if log == nil {
		log = Nop()
	}
	return log.With(ComponentKey, name)
}

var levelNames = map[string]Level{
	"debug":   LevelDebug,
	"info":    LevelInfo,
	"warn":    LevelWarn,
	"warning": LevelWarn,
	"error":   LevelError,
}

// ParseLevel maps a configured level name to a Level, ignoring case.
// Unknown names fall back to info.
func ParseLevel(s string) Level {
	if lvl, ok := levelNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return lvl
	}
	return LevelInfo
}

// ParseFormat maps "json" (any case) to FormatJSON and everything else to
// FormatText.
func ParseFormat(s string) Format {
	if strings.EqualFold(strings.TrimSpace(s), string(FormatJSON)) {
		return FormatJSON
	}
	return FormatText
}
