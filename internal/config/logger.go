package config

import (
	"log/slog"
	"os"
)

// NewLogger builds the process-wide logger. Production gets JSON at info
// level for log shippers; everything else gets a debug-level text handler
// with source locations, which also surfaces the per-frame signal values
// the liveness engine logs at debug.
func NewLogger(env string) *slog.Logger {
	opts := &slog.HandlerOptions{
		AddSource: env != "production",
	}

	var handler slog.Handler
	if env == "production" {
		opts.Level = slog.LevelInfo
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
