// Package trends serves search trends and competitor rankings.
package trends

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/samber/lo"

	"melidash/internal/domain"
	"melidash/internal/domain/entity"
	"melidash/pkg/errcodes"
)

const defaultOpportunities = 5

//nolint:gochecknoglobals
var competitionWeight = map[entity.Competition]float64{
	entity.CompetitionLow:    1.0,
	entity.CompetitionMedium: 0.6,
	entity.CompetitionHigh:   0.3,
}

// Service is read-only after construction.
type Service struct {
	trends      []entity.Trend
	competitors []entity.Competitor
}

func NewService(trends []entity.Trend, competitors []entity.Competitor) *Service {
	return &Service{
		trends:      slices.Clone(trends),
		competitors: slices.Clone(competitors),
	}
}

func (s *Service) ListTrends(_ context.Context, filter entity.TrendFilter, sort entity.TrendSort) ([]entity.Trend, error) {
	query := strings.ToLower(strings.TrimSpace(filter.Query))

	result := lo.Filter(s.trends, func(t entity.Trend, _ int) bool {
		switch {
		case filter.Category != "" && !strings.EqualFold(t.Category, filter.Category):
			return false
		case filter.Period != "" && t.Period != filter.Period:
			return false
		case filter.Competition != "" && t.Competition != filter.Competition:
			return false
		case query != "" && !strings.Contains(strings.ToLower(t.Keyword), query):
			return false
		default:
			return true
		}
	})

	compare, err := trendComparator(sort.Field)
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(result, func(a, b entity.Trend) int {
		if sort.Desc {
			return compare(b, a)
		}

		return compare(a, b)
	})

	return result, nil
}

func trendComparator(field string) (func(a, b entity.Trend) int, error) {
	switch field {
	case "", "growth":
		return func(a, b entity.Trend) int { return cmp.Compare(a.GrowthPercent, b.GrowthPercent) }, nil
	case "volume":
		return func(a, b entity.Trend) int { return cmp.Compare(a.SearchVolume, b.SearchVolume) }, nil
	case "price":
		return func(a, b entity.Trend) int { return cmp.Compare(a.AveragePrice, b.AveragePrice) }, nil
	case "keyword":
		return func(a, b entity.Trend) int { return strings.Compare(a.Keyword, b.Keyword) }, nil
	default:
		return nil, domain.Errorf(errcodes.ValidationError, "cannot sort trends by %q", field)
	}
}

func (s *Service) GetTrend(_ context.Context, id string) (entity.Trend, error) {
	i := slices.IndexFunc(s.trends, func(t entity.Trend) bool { return t.ID == id })
	if i < 0 {
		return entity.Trend{}, domain.Errorf(errcodes.TrendNotFound, "trend %s not found", id)
	}

	return s.trends[i], nil
}

func (s *Service) ListCategories(context.Context) []string {
	categories := lo.Uniq(lo.Map(s.trends, func(t entity.Trend, _ int) string { return t.Category }))
	slices.Sort(categories)

	return categories
}

func (s *Service) ListCompetitors(_ context.Context, sort entity.TrendSort) ([]entity.Competitor, error) {
	var compare func(a, b entity.Competitor) int

	switch sort.Field {
	case "", "marketShare":
		compare = func(a, b entity.Competitor) int { return cmp.Compare(a.MarketShare, b.MarketShare) }
	case "products":
		compare = func(a, b entity.Competitor) int { return cmp.Compare(a.ProductCount, b.ProductCount) }
	case "price":
		compare = func(a, b entity.Competitor) int { return cmp.Compare(a.AveragePrice, b.AveragePrice) }
	case "name":
		compare = func(a, b entity.Competitor) int { return strings.Compare(a.Name, b.Name) }
	default:
		return nil, domain.Errorf(errcodes.ValidationError, "cannot sort competitors by %q", sort.Field)
	}

	result := slices.Clone(s.competitors)
	slices.SortStableFunc(result, func(a, b entity.Competitor) int {
		if sort.Desc {
			return compare(b, a)
		}

		return compare(a, b)
	})

	return result, nil
}

// TopOpportunities ranks growing trends, favouring weak competition.
func (s *Service) TopOpportunities(_ context.Context, limit int) []entity.Trend {
	if limit <= 0 {
		limit = defaultOpportunities
	}

	growing := lo.Filter(s.trends, func(t entity.Trend, _ int) bool { return t.GrowthPercent > 0 })

	slices.SortStableFunc(growing, func(a, b entity.Trend) int {
		return cmp.Compare(opportunityScore(b), opportunityScore(a))
	})

	if len(growing) > limit {
		growing = growing[:limit]
	}

	return growing
}

func opportunityScore(t entity.Trend) float64 {
	return t.GrowthPercent * competitionWeight[t.Competition]
}
