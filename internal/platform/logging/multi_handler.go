package logging

import (
	"context"
	"errors"
	"log/slog"
)

// teeHandler sends each record to every wrapped handler that accepts its
// level. Used to pair the terminal output with the rolling log file.
type teeHandler []slog.Handler

// Tee combines handlers. Nil handlers are dropped, and a single remaining
// handler is returned as is.
func Tee(handlers ...slog.Handler) slog.Handler {
	out := make(teeHandler, 0, len(handlers))

	for _, h := range handlers {
		if h != nil {
			out = append(out, h)
		}
	}

	if len(out) == 1 {
		return out[0]
	}

	return out
}

func (t teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t {
		if h.Enabled(ctx, level) {
			return true
		}
	}

	return false
}

//nolint:gocritic // slog.Handler requires the record by value
func (t teeHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error

	for _, h := range t {
		if !h.Enabled(ctx, r.Level) {
			continue
		}

		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (t teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return t.each(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (t teeHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return t
	}

	return t.each(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (t teeHandler) each(fn func(slog.Handler) slog.Handler) teeHandler {
	out := make(teeHandler, len(t))
	for i, h := range t {
		out[i] = fn(h)
	}

	return out
}
