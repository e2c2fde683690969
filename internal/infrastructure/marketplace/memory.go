package marketplace

import (
	"context"
	"slices"
	"sync"

	"melidash/internal/domain"
	"melidash/internal/domain/entity"
	"melidash/pkg/errcodes"
)

// Memory is an in-process marketplace used when no API is configured.
type Memory struct {
	mu       sync.RWMutex
	products []entity.Product
}

func NewMemory(products []entity.Product) *Memory {
	return &Memory{products: slices.Clone(products)}
}

func (m *Memory) GetMyProducts(context.Context) ([]entity.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Clone(m.products), nil
}

func (m *Memory) UpdateProduct(_ context.Context, id string, price float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := slices.IndexFunc(m.products, func(p entity.Product) bool { return p.ID == id })
	if i < 0 {
		return domain.Errorf(errcodes.ProductNotFound, "product %s not found", id)
	}

	m.products[i].Price = price

	return nil
}
