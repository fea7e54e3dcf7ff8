package editor

import (
	"log/slog"

	"github.com/chazu/logica/internal/logging"
)

var logger logging.Slot

// SetLogger configures the logger used by the editor package.
// Pass nil to restore the silent default.
//
// Levels used:
//   - [slog.LevelDebug]: rejected gestures, menu dispatch
func SetLogger(l *slog.Logger) { logger.Set(l) }

// Logger returns the current package logger.
func Logger() *slog.Logger { return logger.Get() }
