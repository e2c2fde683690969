package competitor

import (
	"context"
	"slices"
	"time"

	"github.com/patrickmn/go-cache"

	"melidash/internal/domain/entity"
)

// MemoryCache keeps offers in process. A zero TTL keeps them for the
// lifetime of the process.
type MemoryCache struct {
	c *cache.Cache
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}

	return &MemoryCache{c: cache.New(ttl, 10*time.Minute)}
}

func (m *MemoryCache) Get(_ context.Context, productID string) ([]entity.CompetitorData, bool, error) {
	v, ok := m.c.Get(productID)
	if !ok {
		return nil, false, nil
	}

	data, ok := v.([]entity.CompetitorData)
	if !ok {
		return nil, false, nil
	}

	return slices.Clone(data), true, nil
}

func (m *MemoryCache) Set(_ context.Context, productID string, data []entity.CompetitorData) error {
	m.c.SetDefault(productID, slices.Clone(data))
	return nil
}

func (m *MemoryCache) Delete(_ context.Context, productID string) error {
	m.c.Delete(productID)
	return nil
}
