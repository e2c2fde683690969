package contextx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

var ErrNoValue = errors.New("no value in context")

type (
	contextKeyTraceID  struct{}
	contextKeyUserID   struct{}
	contextKeyUserRole struct{}
	contextKeyLogger   struct{}
)

func valueFromContext[T any](ctx context.Context, key any, name string) (T, error) {
	v, ok := ctx.Value(key).(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%s: %w", name, ErrNoValue)
	}

	return v, nil
}

type TraceID string

func (t TraceID) String() string {
	return string(t)
}

func WithTraceID(ctx context.Context, traceID TraceID) context.Context {
	return context.WithValue(ctx, contextKeyTraceID{}, traceID)
}

func TraceIDFromContext(ctx context.Context) (TraceID, error) {
	return valueFromContext[TraceID](ctx, contextKeyTraceID{}, "trace id")
}

type UserID string

func (u UserID) String() string {
	return string(u)
}

func WithUserID(ctx context.Context, userID UserID) context.Context {
	return context.WithValue(ctx, contextKeyUserID{}, userID)
}

func UserIDFromContext(ctx context.Context) (UserID, error) {
	return valueFromContext[UserID](ctx, contextKeyUserID{}, "user id")
}

// UserRole is the role claim of the authenticated caller.
type UserRole string

func (u UserRole) String() string {
	return string(u)
}

func WithUserRole(ctx context.Context, role UserRole) context.Context {
	return context.WithValue(ctx, contextKeyUserRole{}, role)
}

func UserRoleFromContext(ctx context.Context) (UserRole, error) {
	return valueFromContext[UserRole](ctx, contextKeyUserRole{}, "user role")
}

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKeyLogger{}, logger)
}

func LoggerFromContext(ctx context.Context) (*slog.Logger, error) {
	return valueFromContext[*slog.Logger](ctx, contextKeyLogger{}, "logger")
}

// LoggerFromContextOrDefault never returns nil.
func LoggerFromContextOrDefault(ctx context.Context) *slog.Logger {
	logger, err := LoggerFromContext(ctx)
	if err != nil || logger == nil {
		return slog.Default()
	}

	return logger
}
