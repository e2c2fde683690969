package pricing

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"melidash/internal/domain"
	"melidash/internal/domain/entity"
	"melidash/pkg/errcodes"
)

const (
	DefaultCostBasisRatio = 0.7
	DefaultAlertThreshold = 15.0

	highSeverityThreshold = 30.0
)

type Service struct {
	marketplace Marketplace
	competitors CompetitorSource
	evaluator   *Evaluator
	calculator  *Calculator
	publisher   EventPublisher
	notifier    AlertNotifier
	metrics     *Metrics

	costBasisRatio float64
	alertThreshold float64
	now            func() time.Time

	// runMu serializes automation runs.
	runMu sync.Mutex

	mu      sync.RWMutex
	rules   map[string]entity.PricingRule
	seq     int64
	history []entity.PricingExecution
	alerts  []entity.PricingAlert
}

func NewService(marketplace Marketplace, competitors CompetitorSource) *Service {
	return &Service{
		marketplace:    marketplace,
		competitors:    competitors,
		evaluator:      NewEvaluator(competitors, DefaultCostBasisRatio),
		calculator:     NewCalculator(competitors),
		costBasisRatio: DefaultCostBasisRatio,
		alertThreshold: DefaultAlertThreshold,
		now:            time.Now,
		rules:          make(map[string]entity.PricingRule),
	}
}

// WithCostBasisRatio sets the share of the price assumed to be cost when a
// listing has no cost price.
func (s *Service) WithCostBasisRatio(ratio float64) *Service {
	if ratio > 0 && ratio < 1 {
		s.costBasisRatio = ratio
		s.evaluator.costBasisRatio = ratio
	}

	return s
}

// WithAlertThreshold sets the swing, in percent, above which an alert is raised.
func (s *Service) WithAlertThreshold(percent float64) *Service {
	if percent > 0 {
		s.alertThreshold = percent
	}

	return s
}

func (s *Service) WithEventPublisher(publisher EventPublisher) *Service {
	s.publisher = publisher
	return s
}

func (s *Service) WithAlertNotifier(notifier AlertNotifier) *Service {
	s.notifier = notifier
	return s
}

func (s *Service) WithMetrics(metrics *Metrics) *Service {
	s.metrics = metrics
	return s
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	s.evaluator.now = now

	return s
}

func (s *Service) Evaluator() *Evaluator {
	return s.evaluator
}

func (s *Service) Calculator() *Calculator {
	return s.calculator
}

func (s *Service) ListProducts(ctx context.Context) ([]entity.Product, error) {
	products, err := s.marketplace.GetMyProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("marketplace.GetMyProducts: %w", err)
	}

	return products, nil
}

func (s *Service) getProduct(ctx context.Context, id string) (entity.Product, error) {
	products, err := s.ListProducts(ctx)
	if err != nil {
		return entity.Product{}, err
	}

	i := slices.IndexFunc(products, func(p entity.Product) bool { return p.ID == id })
	if i < 0 {
		return entity.Product{}, domain.Errorf(errcodes.ProductNotFound, "product %s not found", id)
	}

	return products[i], nil
}

// GetCompetitorData returns the competitor offers for a product, refetching
// them first when refresh is set.
func (s *Service) GetCompetitorData(ctx context.Context, productID string, refresh bool) ([]entity.CompetitorData, error) {
	product, err := s.getProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	if refresh {
		if err := s.competitors.Refresh(ctx, productID); err != nil {
			return nil, fmt.Errorf("competitors.Refresh: %w", err)
		}
	}

	competitors, err := s.competitors.GetCompetitors(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("competitors.GetCompetitors: %w", err)
	}

	return competitors, nil
}
