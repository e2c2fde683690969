package modules

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"melidash/pkg/logx"
)

const defaultReadHeaderTimeout = 5 * time.Second

// HTTPServer serves handler on ListenAddress and drains it within
// ShutdownTimeout once ctx is done.
type HTTPServer struct {
	ListenAddress     string
	ShutdownTimeout   time.Duration
	ReadHeaderTimeout time.Duration
}

func (h HTTPServer) Run(
	ctx context.Context,
	g *errgroup.Group,
	handler http.Handler,
) {
	httpServer := &http.Server{
		Addr:              h.ListenAddress,
		Handler:           handler,
		ReadHeaderTimeout: cmp.Or(h.ReadHeaderTimeout, defaultReadHeaderTimeout),
	}

	g.Go(func() error {
		<-ctx.Done()

		start := time.Now()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.ShutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger(ctx).Error("httpServer.Shutdown", logx.Error(err))
			return nil
		}

		logger(ctx).Info(
			"http server drained",
			slog.String("address", h.ListenAddress),
			slog.Int64(logx.FieldDurationMs, time.Since(start).Milliseconds()),
		)

		return nil
	})

	g.Go(func() error {
		logger(ctx).Info("http server started", slog.String("address", h.ListenAddress))

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("httpServer.ListenAndServe: %w", err)
		}

		return nil
	})
}
