package observability

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// LogConfig selects the handler of NewLogger.
type LogConfig struct {
	Level  string    // debug|info|warn|error; default info
	Format string    // json|text; default json
	Output io.Writer // default os.Stderr
}

// NewLogger returns a slog.Logger for the given configuration.
func NewLogger(cfg LogConfig) *slog.Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}
	if strings.EqualFold(cfg.Format, "text") {
		return slog.New(slog.NewTextHandler(cfg.Output, opts))
	}
	return slog.New(slog.NewJSONHandler(cfg.Output, opts))
}

// ParseLevel maps a level name to slog.Level. Unknown names are treated as info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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
