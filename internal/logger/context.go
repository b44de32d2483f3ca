package logger

import (
	"context"
	"log/slog"
)

// context keys
type contextKey struct {
	name string
}

var logAttrsKey = contextKey{"log_attrs"}

// ContextWithLogAttrs returns a context carrying additional attributes for the request log.
//
// The client uses this to tag outgoing requests with the facade operation that made them
// (e.g. operation=login) so that RequestLogging can include it in the "request completed" line.
// The parent context is not modified.
func ContextWithLogAttrs(ctx context.Context, attrs ...slog.Attr) context.Context {
	existing := ContextLogAttrs(ctx)
	merged := make([]slog.Attr, 0, len(existing)+len(attrs))
	merged = append(merged, existing...)
	merged = append(merged, attrs...)
	return context.WithValue(ctx, logAttrsKey, merged)
}

// ContextLogAttrs returns the attributes added with ContextWithLogAttrs, if any
func ContextLogAttrs(ctx context.Context) []slog.Attr {
	if attrs, ok := ctx.Value(logAttrsKey).([]slog.Attr); ok {
		return attrs
	}
	return nil
}
