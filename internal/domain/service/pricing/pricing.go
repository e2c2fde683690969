// Package pricing evaluates pricing rules against marketplace listings and
// applies the resulting price changes.
package pricing

import (
	"context"

	"melidash/internal/domain/entity"
	"melidash/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type ProductLister interface {
	GetMyProducts(ctx context.Context) ([]entity.Product, error)
}

type ProductUpdater interface {
	UpdateProduct(ctx context.Context, id string, price float64) error
}

type Marketplace interface {
	ProductLister
	ProductUpdater
}

// CompetitorSource returns competitor offers for a listing. Results are
// expected to be stable until Refresh is called for the product.
type CompetitorSource interface {
	GetCompetitors(ctx context.Context, product entity.Product) ([]entity.CompetitorData, error)
	Refresh(ctx context.Context, productID string) error
}

type EventPublisher interface {
	PublishExecution(ctx context.Context, execution entity.PricingExecution) error
}

type AlertNotifier interface {
	NotifyAlert(ctx context.Context, alert entity.PricingAlert) error
}
