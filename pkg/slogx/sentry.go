package slogx

import (
	"context"
	"log/slog"

	"github.com/getsentry/sentry-go"
)

// sentryHandler mirrors error records to Sentry before passing them on.
type sentryHandler struct {
	next  slog.Handler
	attrs []slog.Attr
}

func (h *sentryHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *sentryHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		hub := sentry.GetHubFromContext(ctx)
		if hub == nil {
			hub = sentry.CurrentHub()
		}
		if hub.Client() != nil {
			hub.WithScope(func(scope *sentry.Scope) {
				for _, a := range h.attrs {
					scope.SetExtra(a.Key, a.Value.String())
				}
				r.Attrs(func(a slog.Attr) bool {
					scope.SetExtra(a.Key, a.Value.String())
					return true
				})
				scope.SetLevel(sentry.LevelError)
				hub.CaptureMessage(r.Message)
			})
		}
	}
	return h.next.Handle(ctx, r)
}

func (h *sentryHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &sentryHandler{next: h.next.WithAttrs(attrs), attrs: merged}
}

func (h *sentryHandler) WithGroup(name string) slog.Handler {
	return &sentryHandler{next: h.next.WithGroup(name), attrs: h.attrs}
}
