package testutil

import (
	"io"
	"log/slog"
)

// NopLogger returns a logger that writes nowhere. The coordinator and
// factory take a logger unconditionally; tests hand them this one.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
