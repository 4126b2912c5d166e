// Package logger configures the process-wide structured logger. Level and
// format come from LOG_LEVEL and LOG_FORMAT so deployments can switch to
// JSON without a rebuild.
package logger

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	mu  sync.Mutex
	cur *slog.Logger
)

// Setup builds the logger from the environment and installs it as the slog
// default. Call it once at startup, after the .env file is loaded.
func Setup() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()

	level := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	cur = slog.New(handler)
	slog.SetDefault(cur)
	return cur
}

// L returns the configured logger, setting up a default one if Setup has
// not run yet (useful in tests).
func L() *slog.Logger {
	mu.Lock()
	l := cur
	mu.Unlock()
	if l != nil {
		return l
	}
	return Setup()
}
