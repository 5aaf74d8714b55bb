package logging

import (
	"context"
	"sync"

	"github.com/alexisbeaulieu97/nobra/internal/ports"
)

const defaultDeferredLimit = 256

type deferredEntry struct {
	ctx    context.Context
	level  string
	msg    string
	fields []interface{}
}

// Deferred is a ports.Logger for the window before the real logger can be
// built (configuration decides its level and format). Entries are held in a
// bounded queue, oldest dropped first, and replayed in order on Attach; after
// that every call forwards to the attached logger.
type Deferred struct {
	mu       sync.Mutex
	limit    int
	pending  []deferredEntry
	delegate ports.Logger
}

// NewDeferred returns a Deferred holding at most limit entries (256 when limit
// is not positive).
func NewDeferred(limit int) *Deferred {
	if limit <= 0 {
		limit = defaultDeferredLimit
	}
	return &Deferred{limit: limit}
}

// Attach replays queued entries into delegate and forwards all later calls.
func (d *Deferred) Attach(delegate ports.Logger) {
	if delegate == nil {
		return
	}
	d.mu.Lock()
	pending := d.pending
	d.pending = nil
	d.delegate = delegate
	d.mu.Unlock()

	for _, entry := range pending {
		emit(delegate, entry)
	}
}

// Pending reports how many entries are waiting for a delegate.
func (d *Deferred) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

func (d *Deferred) Debug(ctx context.Context, msg string, fields ...interface{}) {
	d.record(deferredEntry{ctx: ctx, level: "debug", msg: msg, fields: fields})
}

func (d *Deferred) Info(ctx context.Context, msg string, fields ...interface{}) {
	d.record(deferredEntry{ctx: ctx, level: "info", msg: msg, fields: fields})
}

func (d *Deferred) Warn(ctx context.Context, msg string, fields ...interface{}) {
	d.record(deferredEntry{ctx: ctx, level: "warn", msg: msg, fields: fields})
}

func (d *Deferred) Error(ctx context.Context, msg string, fields ...interface{}) {
	d.record(deferredEntry{ctx: ctx, level: "error", msg: msg, fields: fields})
}

// With returns a logger that adds fields to every entry routed through d.
func (d *Deferred) With(fields ...interface{}) ports.Logger {
	return &deferredChild{parent: d, fields: append([]interface{}(nil), fields...)}
}

func (d *Deferred) record(entry deferredEntry) {
	d.mu.Lock()
	delegate := d.delegate
	if delegate == nil {
		if len(d.pending) == d.limit {
			d.pending = append(d.pending[:0], d.pending[1:]...)
		}
		d.pending = append(d.pending, entry)
		d.mu.Unlock()
		return
	}
	d.mu.Unlock()
	emit(delegate, entry)
}

func emit(logger ports.Logger, entry deferredEntry) {
	switch entry.level {
	case "debug":
		logger.Debug(entry.ctx, entry.msg, entry.fields...)
	case "warn":
		logger.Warn(entry.ctx, entry.msg, entry.fields...)
	case "error":
		logger.Error(entry.ctx, entry.msg, entry.fields...)
	default:
		logger.Info(entry.ctx, entry.msg, entry.fields...)
	}
}

type deferredChild struct {
	parent *Deferred
	fields []interface{}
}

func (c *deferredChild) Debug(ctx context.Context, msg string, fields ...interface{}) {
	c.parent.Debug(ctx, msg, c.merge(fields)...)
}

func (c *deferredChild) Info(ctx context.Context, msg string, fields ...interface{}) {
	c.parent.Info(ctx, msg, c.merge(fields)...)
}

func (c *deferredChild) Warn(ctx context.Context, msg string, fields ...interface{}) {
	c.parent.Warn(ctx, msg, c.merge(fields)...)
}

func (c *deferredChild) Error(ctx context.Context, msg string, fields ...interface{}) {
	c.parent.Error(ctx, msg, c.merge(fields)...)
}

func (c *deferredChild) With(fields ...interface{}) ports.Logger {
	return &deferredChild{parent: c.parent, fields: c.merge(fields)}
}

func (c *deferredChild) merge(fields []interface{}) []interface{} {
	out := make([]interface{}, 0, len(c.fields)+len(fields))
	out = append(out, c.fields...)
	return append(out, fields...)
}

var (
	_ ports.Logger = (*Deferred)(nil)
	_ ports.Logger = (*deferredChild)(nil)
)
