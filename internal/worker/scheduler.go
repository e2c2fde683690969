package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/samber/lo"

	"melidash/internal/domain"
	"melidash/internal/domain/entity"
	"melidash/internal/domain/value"
	"melidash/pkg/errcodes"
	"melidash/pkg/logx"
)

type SchedulerState string

const (
	SchedulerIdle    SchedulerState = "idle"
	SchedulerRunning SchedulerState = "running"
)

type SchedulerStatus struct {
	State      SchedulerState
	Interval   time.Duration
	LastRunAt  *time.Time
	LastResult map[value.ExecutionStatus]int
	LastError  string
}

// PricingScheduler runs automation over all products on an interval.
type PricingScheduler struct {
	runner   AutomationRunner
	interval time.Duration
	now      func() time.Time

	mu         sync.Mutex
	cancelFunc context.CancelFunc
	isRunning  bool
	wg         sync.WaitGroup

	lastRunAt  *time.Time
	lastResult map[value.ExecutionStatus]int
	lastError  string
}

func NewPricingScheduler(runner AutomationRunner, interval time.Duration) *PricingScheduler {
	return &PricingScheduler{
		runner:   runner,
		interval: interval,
		now:      time.Now,
	}
}

func (w *PricingScheduler) WithClock(now func() time.Time) *PricingScheduler {
	w.now = now
	return w
}

// Start launches the loop in the background. The loop outlives the request
// that started it; cancel ctx or call Stop to end it.
func (w *PricingScheduler) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isRunning {
		return domain.NewError(errcodes.SchedulerRunning, "scheduler is already running")
	}

	if err := w.checkInterval(); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	w.cancelFunc = cancel
	w.isRunning = true

	w.wg.Add(1)

	go func() {
		defer w.wg.Done()
		defer func() {
			w.mu.Lock()
			w.isRunning = false
			w.cancelFunc = nil
			w.mu.Unlock()
		}()

		if err := w.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger(runCtx).Error("pricing scheduler stopped", logx.Error(err))
		}
	}()

	return nil
}

func (w *PricingScheduler) Stop() {
	w.mu.Lock()

	if !w.isRunning {
		w.mu.Unlock()
		return
	}

	if w.cancelFunc != nil {
		w.cancelFunc()
	}
	w.mu.Unlock()

	w.wg.Wait()
}

func (w *PricingScheduler) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.isRunning
}

func (w *PricingScheduler) Status() SchedulerStatus {
	w.mu.Lock()
	defer w.mu.Unlock()

	status := SchedulerStatus{
		State:      SchedulerIdle,
		Interval:   w.interval,
		LastResult: w.lastResult,
		LastError:  w.lastError,
	}

	if w.isRunning {
		status.State = SchedulerRunning
	}

	if w.lastRunAt != nil {
		t := *w.lastRunAt
		status.LastRunAt = &t
	}

	return status
}

// Run executes automation immediately and then every interval until ctx is done.
func (w *PricingScheduler) Run(ctx context.Context) error {
	if err := w.checkInterval(); err != nil {
		return err
	}

	logger(ctx).Info("pricing scheduler started", slog.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		w.runOnce(ctx)

		select {
		case <-ctx.Done():
			logger(ctx).Info("pricing scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (w *PricingScheduler) checkInterval() error {
	if w.interval <= 0 {
		return domain.Errorf(errcodes.ValidationError, "scheduler interval must be positive, got %s", w.interval)
	}

	return nil
}

func (w *PricingScheduler) runOnce(ctx context.Context) {
	executions, err := w.runner.RunAutomation(ctx, nil)

	now := w.now()
	result := lo.CountValuesBy(executions, func(e entity.PricingExecution) value.ExecutionStatus {
		return e.Status
	})

	w.mu.Lock()
	w.lastRunAt = &now
	w.lastResult = result
	w.lastError = ""

	if err != nil {
		w.lastError = err.Error()
	}
	w.mu.Unlock()

	if err != nil {
		if ctx.Err() == nil {
			logger(ctx).Error("runner.RunAutomation", logx.Error(err))
		}

		return
	}

	logger(ctx).Info(
		"scheduled pricing run completed",
		slog.Int("executions", len(executions)),
		slog.Int("succeeded", result[value.ExecutionSuccess]),
		slog.Int("failed", result[value.ExecutionFailed]),
	)
}
