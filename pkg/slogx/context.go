package slogx

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

func FromContext(ctx context.Context) *slog.Logger {
	l, ok := ctx.Value(ctxKey{}).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return l
}

// WithSession decorates the request logger with the identity behind the
// current session so every later log line carries it.
func WithSession(ctx context.Context, sessionID, username, role string) context.Context {
	l := FromContext(ctx)
	return WithContext(ctx, l.With(
		"sid", sessionID,
		"username", username,
		"role", role,
	))
}
