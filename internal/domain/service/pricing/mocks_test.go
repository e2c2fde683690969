package pricing_test

import (
	"context"
	"errors"
	"sync"

	"melidash/internal/domain/entity"
)

type updateCall struct {
	ID    string
	Price float64
}

type marketplaceMock struct {
	mu        sync.Mutex
	products  []entity.Product
	updateErr map[string]error
	updates   []updateCall
}

func (m *marketplaceMock) GetMyProducts(context.Context) ([]entity.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]entity.Product(nil), m.products...), nil
}

func (m *marketplaceMock) UpdateProduct(_ context.Context, id string, price float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.updateErr[id]; err != nil {
		return err
	}

	m.updates = append(m.updates, updateCall{ID: id, Price: price})

	for i := range m.products {
		if m.products[i].ID == id {
			m.products[i].Price = price
		}
	}

	return nil
}

type competitorsMock struct {
	byProduct map[string][]entity.CompetitorData
	err       error
	refreshed []string
}

func (c *competitorsMock) GetCompetitors(_ context.Context, product entity.Product) ([]entity.CompetitorData, error) {
	if c.err != nil {
		return nil, c.err
	}

	return c.byProduct[product.ID], nil
}

func (c *competitorsMock) Refresh(_ context.Context, productID string) error {
	c.refreshed = append(c.refreshed, productID)
	return nil
}

func offers(productID string, prices ...float64) []entity.CompetitorData {
	result := make([]entity.CompetitorData, 0, len(prices))
	for _, p := range prices {
		result = append(result, entity.CompetitorData{ProductID: productID, CompetitorPrice: p, Availability: true})
	}

	return result
}

type publisherMock struct {
	executions []entity.PricingExecution
}

func (p *publisherMock) PublishExecution(_ context.Context, e entity.PricingExecution) error {
	p.executions = append(p.executions, e)
	return nil
}

type notifierMock struct {
	alerts []entity.PricingAlert
}

func (n *notifierMock) NotifyAlert(_ context.Context, a entity.PricingAlert) error {
	n.alerts = append(n.alerts, a)
	return errors.New("telegram is down")
}
