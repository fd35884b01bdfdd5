package core

import (
	"context"
	"log/slog"
)

// LevelTrace is the log level of per-step records.
const LevelTrace slog.Level = slog.LevelDebug - 4

// Trace logs at LevelTrace.
func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}
