// ABOUTME: Structured logging setup for the planner service on log/slog
// ABOUTME: Level and format come from LOG_LEVEL and LOG_FORMAT

package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

const service = "decoplan"

// Init installs the default logger on stdout from LOG_LEVEL (debug, info,
// warn, error; default info) and LOG_FORMAT (text or json; default text).
func Init() {
	slog.SetDefault(New(os.Stdout, os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT")))
}

// New builds a logger writing to w. Every record carries the service name.
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var h slog.Handler = slog.NewTextHandler(w, opts)
	if strings.EqualFold(format, "json") {
		h = slog.NewJSONHandler(w, opts)
	}
	return slog.New(h).With("service", service)
}

// parseLevel accepts slog's own level names plus "warning". Anything it
// cannot read is info.
func parseLevel(s string) slog.Level {
	if strings.EqualFold(s, "warning") {
		return slog.LevelWarn
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}
