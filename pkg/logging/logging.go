// Package logging configures the process wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Options selects the handler.
type Options struct {
	// Level is a slog level name: debug, info, warn or error.
	Level string

	// JSON selects the JSON handler instead of the text handler.
	JSON bool

	// Name and Version, when set, are attached to every record.
	Name    string
	Version string
}

// ParseLevel converts a level name to a slog.Level. Unknown names map to info.
func ParseLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// New returns a logger writing to w.
func New(w io.Writer, o Options) *slog.Logger {
	ho := &slog.HandlerOptions{
		Level:     ParseLevel(o.Level),
		AddSource: ParseLevel(o.Level) < slog.LevelInfo,
	}

	var h slog.Handler
	if o.JSON {
		h = slog.NewJSONHandler(w, ho)
	} else {
		h = slog.NewTextHandler(w, ho)
	}

	l := slog.New(h)
	if o.Name != "" {
		l = l.With("module", o.Name)
	}
	if o.Version != "" {
		l = l.With("version", o.Version)
	}
	return l
}

// SetDefault installs a stderr logger as the slog default.
func SetDefault(o Options) *slog.Logger {
	l := New(os.Stderr, o)
	slog.SetDefault(l)
	return l
}
