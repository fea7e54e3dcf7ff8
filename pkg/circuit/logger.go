package circuit

import (
	"log/slog"

	"github.com/chazu/logica/internal/logging"
)

var logger logging.Slot

// SetLogger configures the logger used by the circuit package.
// By default nothing is logged. Pass nil to restore the silent default.
//
// Levels used:
//   - [slog.LevelDebug]: settle statistics
//   - [slog.LevelWarn]: evaluation that did not converge
func SetLogger(l *slog.Logger) { logger.Set(l) }

// Logger returns the current package logger.
func Logger() *slog.Logger { return logger.Get() }
