package app

import (
	"log/slog"
	"os"
	"strings"
)

// NewLogger builds the process logger at the given level. Unknown levels
// fall back to info. CLI output goes to stdout; logs stay on stderr.
func NewLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
