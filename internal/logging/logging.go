// Package logging holds the silent-by-default slog plumbing shared by the
// library packages. Each package keeps its own Slot so callers can turn
// logging on per package.
package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record. Enabled reports false so callers skip
// formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var nop = slog.New(nopHandler{})

// Nop returns a logger that drops everything.
func Nop() *slog.Logger { return nop }

// Slot is a concurrency-safe logger holder. The zero value logs nothing.
type Slot struct {
	p atomic.Pointer[slog.Logger]
}

// Set installs l. A nil logger restores the silent default.
func (s *Slot) Set(l *slog.Logger) {
	if l == nil {
		l = nop
	}
	s.p.Store(l)
}

// Get returns the installed logger.
func (s *Slot) Get() *slog.Logger {
	if l := s.p.Load(); l != nil {
		return l
	}
	return nop
}
