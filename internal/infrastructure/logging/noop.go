package logging

import (
	"context"

	"github.com/alexisbeaulieu97/nobra/internal/ports"
)

// Nop is a ports.Logger that discards every entry.
var Nop ports.Logger = nopLogger{}

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...interface{}) {}
func (nopLogger) Info(context.Context, string, ...interface{}) {}
func (nopLogger) Warn(context.Context, string, ...interface{}) {}
func (nopLogger) Error(context.Context, string, ...interface{}) {}
func (n nopLogger) With(...interface{}) ports.Logger { return n }

// OrNop returns logger, or Nop when logger is nil.
func OrNop(logger ports.Logger) ports.Logger {
	if logger == nil {
		return Nop
	}
	return logger
}
