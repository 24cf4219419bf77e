package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
)

// Levels maps accepted level names to slog levels.
var Levels = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// Init creates and sets the package-level default slog logger on stderr.
// When outputIsStdout is true, uses JSONHandler (avoids mixing with echoed records).
// Otherwise uses TextHandler for human readability.
// Returns the session ID attached to every entry.
func Init(outputIsStdout bool, level slog.Level) string {
	return InitWriter(os.Stderr, outputIsStdout, level)
}

// InitWriter is Init with an explicit destination.
func InitWriter(w io.Writer, jsonFormat bool, level slog.Level) string {
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if jsonFormat {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	session := uuid.NewString()
	slog.SetDefault(slog.New(handler).With("session", session))
	return session
}

// ParseLevel converts a string ("debug", "info", "warn", "error") to slog.Level.
// Unknown strings default to LevelInfo.
func ParseLevel(s string) slog.Level {
	if lvl, ok := Levels[strings.ToLower(s)]; ok {
		return lvl
	}
	return slog.LevelInfo
}
