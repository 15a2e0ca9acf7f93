package logger

import (
	"context"
	"log/slog"
)

// ContextExtractor pulls an attribute out of a context.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

// ContextHandler runs its extractors on every record before delegating.
type ContextHandler struct {
	next       slog.Handler
	extractors []ContextExtractor
}

// NewContextHandler wraps next. Nil extractors are dropped.
func NewContextHandler(next slog.Handler, extractors ...ContextExtractor) slog.Handler {
	clean := make([]ContextExtractor, 0, len(extractors))
	for _, ex := range extractors {
		if ex != nil {
			clean = append(clean, ex)
		}
	}
	return &ContextHandler{next: next, extractors: clean}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, rec slog.Record) error {
	if ctx != nil {
		for _, ex := range h.extractors {
			if attr, ok := ex(ctx); ok {
				rec.AddAttrs(attr)
			}
		}
	}
	return h.next.Handle(ctx, rec)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{next: h.next.WithAttrs(attrs), extractors: h.extractors}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{next: h.next.WithGroup(name), extractors: h.extractors}
}

type itemIDKey struct{}

// WithItemID stores the id of the item being processed in ctx.
func WithItemID(ctx context.Context, id any) context.Context {
	return context.WithValue(ctx, itemIDKey{}, id)
}

// ItemIDFromContext returns the id stored by WithItemID.
func ItemIDFromContext(ctx context.Context) (any, bool) {
	id := ctx.Value(itemIDKey{})
	return id, id != nil
}

func itemIDExtractor(ctx context.Context) (slog.Attr, bool) {
	id, ok := ItemIDFromContext(ctx)
	if !ok {
		return slog.Attr{}, false
	}
	return ItemID(id), true
}
