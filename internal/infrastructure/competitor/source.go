// Package competitor fabricates competitor offers for listings and caches
// them so repeated lookups see the same market.
package competitor

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"melidash/internal/domain/entity"
	"melidash/pkg/contextx"
	"melidash/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

//nolint:gochecknoglobals
var names = []string{
	"TechStore Oficial",
	"MegaShop",
	"PrecioJusto",
	"ElectroMax",
	"OfertaYa",
	"MundoDigital",
	"ShopExpress",
	"CompraFacil",
}

const (
	minCompetitors   = 3
	maxCompetitors   = 5
	minPriceFactor   = 0.85
	priceFactorRange = 0.30
	availableShare   = 0.8
)

type Cache interface {
	Get(ctx context.Context, productID string) ([]entity.CompetitorData, bool, error)
	Set(ctx context.Context, productID string, data []entity.CompetitorData) error
	Delete(ctx context.Context, productID string) error
}

type Source struct {
	cache Cache
	now   func() time.Time
	group singleflight.Group

	// mu guards rnd only.
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewSource(cache Cache) *Source {
	return &Source{
		cache: cache,
		now:   time.Now,
		rnd:   rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())), //nolint:gosec
	}
}

// WithSeed makes the fabricated offers reproducible.
func (s *Source) WithSeed(seed uint64) *Source {
	s.rnd = rand.New(rand.NewPCG(seed, seed)) //nolint:gosec
	return s
}

// GetCompetitors returns the cached offers for the product, fabricating them
// on a miss. Concurrent misses for one product share a single fabrication.
func (s *Source) GetCompetitors(ctx context.Context, product entity.Product) ([]entity.CompetitorData, error) {
	data, err, _ := s.group.Do(product.ID, func() (any, error) {
		return s.load(ctx, product)
	})
	if err != nil {
		return nil, err
	}

	return data.([]entity.CompetitorData), nil //nolint:forcetypeassert
}

func (s *Source) load(ctx context.Context, product entity.Product) ([]entity.CompetitorData, error) {
	cached, ok, err := s.cache.Get(ctx, product.ID)
	if err != nil {
		return nil, fmt.Errorf("cache.Get: %w", err)
	}

	if ok {
		return cached, nil
	}

	data := s.fabricate(product)

	if err := s.cache.Set(ctx, product.ID, data); err != nil {
		return nil, fmt.Errorf("cache.Set: %w", err)
	}

	logger(ctx).Debug(
		"competitor offers fabricated",
		slog.String(logx.FieldProductID, product.ID),
		slog.Int("offers", len(data)),
	)

	return data, nil
}

// Refresh drops the cached offers so the next lookup fabricates new ones.
func (s *Source) Refresh(ctx context.Context, productID string) error {
	if err := s.cache.Delete(ctx, productID); err != nil {
		return fmt.Errorf("cache.Delete: %w", err)
	}

	return nil
}

func (s *Source) fabricate(product entity.Product) []entity.CompetitorData {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := minCompetitors + s.rnd.IntN(maxCompetitors-minCompetitors+1)
	picked := s.rnd.Perm(len(names))[:count]
	now := s.now()

	data := make([]entity.CompetitorData, 0, count)

	for _, i := range picked {
		factor := minPriceFactor + s.rnd.Float64()*priceFactorRange

		data = append(data, entity.CompetitorData{
			ProductID:       product.ID,
			CompetitorName:  names[i],
			CompetitorPrice: math.Round(product.Price*factor*100) / 100,
			LastUpdated:     now,
			Availability:    s.rnd.Float64() < availableShare,
		})
	}

	return data
}
