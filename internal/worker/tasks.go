package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	jsoniter "github.com/json-iterator/go"

	"melidash/internal/domain"
	"melidash/pkg/errcodes"
	"melidash/pkg/logx"
)

const (
	TypeRunAutomation = "pricing:run"
	QueuePricing      = "pricing"
)

type runAutomationPayload struct {
	ProductIDs []string `json:"productIds,omitempty"`
}

func NewRunAutomationTask(productIDs []string) (*asynq.Task, error) {
	payload, err := jsoniter.Marshal(runAutomationPayload{ProductIDs: productIDs})
	if err != nil {
		return nil, fmt.Errorf("jsoniter.Marshal: %w", err)
	}

	// Failed price updates are not retried.
	return asynq.NewTask(TypeRunAutomation, payload, asynq.Queue(QueuePricing), asynq.MaxRetry(0)), nil
}

type taskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type TaskQueue struct {
	client taskEnqueuer
}

func NewTaskQueue(client taskEnqueuer) *TaskQueue {
	return &TaskQueue{client: client}
}

// EnqueueRun schedules an automation run and returns the task id.
func (q *TaskQueue) EnqueueRun(ctx context.Context, productIDs []string) (string, error) {
	task, err := NewRunAutomationTask(productIDs)
	if err != nil {
		return "", err
	}

	info, err := q.client.EnqueueContext(ctx, task)
	if err != nil {
		return "", domain.WrapError(err, errcodes.Unavailable, "task queue is unavailable")
	}

	return info.ID, nil
}

// RunAutomationHandler processes TypeRunAutomation tasks.
func RunAutomationHandler(runner AutomationRunner) func(context.Context, *asynq.Task) error {
	return func(ctx context.Context, task *asynq.Task) error {
		var payload runAutomationPayload

		if err := jsoniter.Unmarshal(task.Payload(), &payload); err != nil {
			return fmt.Errorf("jsoniter.Unmarshal: %v: %w", err, asynq.SkipRetry)
		}

		executions, err := runner.RunAutomation(ctx, payload.ProductIDs)
		if err != nil {
			return fmt.Errorf("runner.RunAutomation: %v: %w", err, asynq.SkipRetry)
		}

		logger(ctx).Info(
			"queued pricing run completed",
			slog.String(logx.FieldTaskType, task.Type()),
			slog.Int("executions", len(executions)),
		)

		return nil
	}
}
