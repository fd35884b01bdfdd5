package main

import (
	"log/slog"
	"os"

	"github.com/pkg/errors"
	slogmulti "github.com/samber/slog-multi"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/bricklines/config"
	"github.com/sarchlab/bricklines/core"
)

// setupLogging sends text records to stderr and, if configured, JSON records
// to the log file.
func setupLogging(c config.LogConfig) error {
	level, err := config.ParseLevel(c.Level)
	if err != nil {
		return err
	}

	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if l, ok := a.Value.Any().(slog.Level); ok && l <= core.LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	}

	handlers := []slog.Handler{
		slog.NewTextHandler(os.Stderr, opts),
	}

	if c.File != "" {
		file, err := os.OpenFile(c.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return errors.Wrap(err, "failed to open log file")
		}
		atexit.Register(func() { file.Close() })

		handlers = append(handlers, slog.NewJSONHandler(file, opts))
	}

	slog.SetDefault(slog.New(slogmulti.Fanout(handlers...)))

	return nil
}
