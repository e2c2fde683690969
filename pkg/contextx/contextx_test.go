package contextx_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"melidash/pkg/contextx"
)

func TestTraceID(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	traceID, err := contextx.TraceIDFromContext(ctx)
	rq.Empty(traceID)
	rq.ErrorIs(err, contextx.ErrNoValue)
	rq.ErrorContains(err, "trace id: no value in context")

	ctx = contextx.WithTraceID(ctx, contextx.TraceID("trace-1"))

	traceID, err = contextx.TraceIDFromContext(ctx)
	rq.NoError(err)
	rq.Equal("trace-1", traceID.String())
}

func TestUserIdentity(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	_, err := contextx.UserIDFromContext(ctx)
	rq.ErrorContains(err, "user id: no value in context")

	_, err = contextx.UserRoleFromContext(ctx)
	rq.ErrorContains(err, "user role: no value in context")

	ctx = contextx.WithUserID(ctx, "user-1")
	ctx = contextx.WithUserRole(ctx, "admin")

	userID, err := contextx.UserIDFromContext(ctx)
	rq.NoError(err)
	rq.Equal(contextx.UserID("user-1"), userID)

	role, err := contextx.UserRoleFromContext(ctx)
	rq.NoError(err)
	rq.Equal("admin", role.String())
}

func TestLogger(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	logger, err := contextx.LoggerFromContext(ctx)
	rq.Nil(logger)
	rq.ErrorIs(err, contextx.ErrNoValue)
	rq.Equal(slog.Default(), contextx.LoggerFromContextOrDefault(ctx))

	testLogger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	ctx = contextx.WithLogger(ctx, testLogger)

	logger, err = contextx.LoggerFromContext(ctx)
	rq.NoError(err)
	rq.Equal(testLogger, logger)
	rq.Equal(testLogger, contextx.LoggerFromContextOrDefault(ctx))
}
