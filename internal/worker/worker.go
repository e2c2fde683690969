// Package worker runs pricing automation out of the request path: on a
// fixed interval and from queued tasks.
package worker

import (
	"context"

	"melidash/internal/domain/entity"
	"melidash/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type AutomationRunner interface {
	RunAutomation(ctx context.Context, productIDs []string) ([]entity.PricingExecution, error)
}
