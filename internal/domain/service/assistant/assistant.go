// Package assistant turns the state of the account into short, prioritised
// recommendations and answers questions about them.
package assistant

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rs/xid"
	"github.com/samber/lo"

	"melidash/internal/domain"
	"melidash/internal/domain/entity"
	"melidash/internal/domain/value"
	"melidash/pkg/contextx"
	"melidash/pkg/errcodes"
	"melidash/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const (
	lowStockThreshold  = 5
	staleAfterDays     = 90
	staleVelocity      = 0.2
	opportunitiesShown = 3
	maxQuestionLength  = 500
)

type ProductLister interface {
	ListProducts(ctx context.Context) ([]entity.Product, error)
}

type AlertLister interface {
	GetAlerts(ctx context.Context, onlyUnacknowledged bool) []entity.PricingAlert
}

type ReputationReader interface {
	GetMetrics(ctx context.Context) entity.ReputationMetrics
}

type OpportunityFinder interface {
	TopOpportunities(ctx context.Context, limit int) []entity.Trend
}

type Service struct {
	products   ProductLister
	alerts     AlertLister
	reputation ReputationReader
	trends     OpportunityFinder
	now        func() time.Time
}

func NewService(
	products ProductLister,
	alerts AlertLister,
	reputation ReputationReader,
	trends OpportunityFinder,
) *Service {
	return &Service{
		products:   products,
		alerts:     alerts,
		reputation: reputation,
		trends:     trends,
		now:        time.Now,
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// GenerateInsights returns the current recommendations, most urgent first.
// A failing product listing degrades to the remaining sources.
func (s *Service) GenerateInsights(ctx context.Context) []entity.Insight {
	now := s.now()

	var insights []entity.Insight

	products, err := s.products.ListProducts(ctx)
	if err != nil {
		logger(ctx).Warn("products.ListProducts", logx.Error(err))
	} else {
		insights = append(insights, s.stockInsights(products, now)...)
		insights = append(insights, s.staleInsights(products, now)...)
	}

	insights = append(insights, s.alertInsights(ctx, now)...)
	insights = append(insights, s.reputationInsights(ctx, now)...)
	insights = append(insights, s.trendInsights(ctx, now)...)

	slices.SortStableFunc(insights, func(a, b entity.Insight) int {
		return cmp.Compare(priorityRank(b.Priority), priorityRank(a.Priority))
	})

	return insights
}

func newInsight(kind entity.InsightKind, priority entity.InsightPriority, now time.Time, title, message string) entity.Insight {
	return entity.Insight{
		ID:        xid.New().String(),
		Kind:      kind,
		Title:     title,
		Message:   message,
		Priority:  priority,
		CreatedAt: now,
	}
}

func (s *Service) stockInsights(products []entity.Product, now time.Time) []entity.Insight {
	var insights []entity.Insight

	for _, p := range products {
		if p.Status != "active" || p.AvailableQuantity > lowStockThreshold {
			continue
		}

		if p.AvailableQuantity == 0 {
			insights = append(insights, newInsight(entity.InsightStock, entity.InsightPriorityHigh, now,
				"Out of stock: "+p.Title,
				fmt.Sprintf("%s is active but has no units left. Restock it or pause the listing.", p.Title),
			))

			continue
		}

		insights = append(insights, newInsight(entity.InsightStock, entity.InsightPriorityHigh, now,
			"Low stock: "+p.Title,
			fmt.Sprintf("Only %d units of %s left after %d sales. Restock soon or raise the price.",
				p.AvailableQuantity, p.Title, p.SoldQuantity),
		))
	}

	return insights
}

func (s *Service) staleInsights(products []entity.Product, now time.Time) []entity.Insight {
	var insights []entity.Insight

	for _, p := range products {
		if p.Status != "active" || p.AgeDays(now) < staleAfterDays || p.SalesVelocity() >= staleVelocity {
			continue
		}

		insights = append(insights, newInsight(entity.InsightPricing, entity.InsightPriorityMedium, now,
			"Slow seller: "+p.Title,
			fmt.Sprintf("%s has been listed for %d days and sold %.0f%% of its stock. Consider a price drop.",
				p.Title, p.AgeDays(now), p.SalesVelocity()*100),
		))
	}

	return insights
}

func (s *Service) alertInsights(ctx context.Context, now time.Time) []entity.Insight {
	open := s.alerts.GetAlerts(ctx, true)
	if len(open) == 0 {
		return nil
	}

	priority := entity.InsightPriorityMedium
	if lo.ContainsBy(open, func(a entity.PricingAlert) bool { return a.Severity == value.SeverityHigh }) {
		priority = entity.InsightPriorityHigh
	}

	return []entity.Insight{newInsight(entity.InsightPricing, priority, now,
		fmt.Sprintf("%d pricing alerts to review", len(open)),
		"Latest: "+open[0].Message,
	)}
}

func (s *Service) reputationInsights(ctx context.Context, now time.Time) []entity.Insight {
	m := s.reputation.GetMetrics(ctx)
	label := m.Temperature.Label()

	var priority entity.InsightPriority

	switch label {
	case value.TemperatureCold, value.TemperatureCool:
		priority = entity.InsightPriorityHigh
	case value.TemperatureWarm:
		priority = entity.InsightPriorityMedium
	case value.TemperatureHot, value.TemperatureBurning:
		priority = entity.InsightPriorityLow
	}

	message := fmt.Sprintf("Reputation temperature is %d (%s), average rating %.1f.", m.Temperature, label, m.AverageRating)
	if m.ResponseRate < 100 && m.TotalReviews > 0 {
		message += fmt.Sprintf(" You answered %.0f%% of the reviews; replying to the rest helps.", m.ResponseRate)
	}

	return []entity.Insight{newInsight(entity.InsightReputation, priority, now, "Reputation is "+string(label), message)}
}

func (s *Service) trendInsights(ctx context.Context, now time.Time) []entity.Insight {
	return lo.Map(s.trends.TopOpportunities(ctx, opportunitiesShown), func(t entity.Trend, _ int) entity.Insight {
		return newInsight(entity.InsightTrend, entity.InsightPriorityLow, now,
			"Opportunity: "+t.Keyword,
			fmt.Sprintf("Searches for %q in %s grew %.1f%% with %s competition; average price %.2f.",
				t.Keyword, t.Category, t.GrowthPercent, t.Competition, t.AveragePrice),
		)
	})
}

//nolint:gochecknoglobals
var topicKeywords = map[entity.InsightKind][]string{
	entity.InsightStock:      {"stock", "inventory", "inventario", "agotado", "restock", "units"},
	entity.InsightPricing:    {"price", "precio", "pricing", "alert", "alerta", "discount", "descuento"},
	entity.InsightReputation: {"reputation", "reputación", "reputacion", "review", "reseña", "opinion", "temperature", "rating"},
	entity.InsightTrend:      {"trend", "tendencia", "opportunit", "oportunidad", "competitor", "competencia", "search"},
}

// Ask answers a free-form question with the insights on the topics it mentions.
func (s *Service) Ask(ctx context.Context, question string) (string, []entity.Insight, error) {
	q := strings.ToLower(strings.TrimSpace(question))
	if q == "" || len(q) > maxQuestionLength {
		return "", nil, domain.NewError(errcodes.InvalidQuestion, "question must be between 1 and 500 characters")
	}

	var topics []entity.InsightKind

	for _, kind := range []entity.InsightKind{
		entity.InsightStock, entity.InsightPricing, entity.InsightReputation, entity.InsightTrend,
	} {
		if lo.SomeBy(topicKeywords[kind], func(k string) bool { return strings.Contains(q, k) }) {
			topics = append(topics, kind)
		}
	}

	insights := s.GenerateInsights(ctx)

	if len(topics) == 0 {
		return summary(insights), insights, nil
	}

	matched := lo.Filter(insights, func(i entity.Insight, _ int) bool { return slices.Contains(topics, i.Kind) })
	if len(matched) == 0 {
		return fmt.Sprintf("Nothing needs your attention about %s right now.", joinKinds(topics)), matched, nil
	}

	titles := lo.Map(matched, func(i entity.Insight, _ int) string { return i.Title })

	return fmt.Sprintf("About %s: %s.", joinKinds(topics), strings.Join(titles, "; ")), matched, nil
}

func summary(insights []entity.Insight) string {
	if len(insights) == 0 {
		return "Everything looks fine right now."
	}

	high := lo.CountBy(insights, func(i entity.Insight) bool { return i.Priority == entity.InsightPriorityHigh })

	return fmt.Sprintf("I have %d recommendations, %d of them urgent. Top one: %s.", len(insights), high, insights[0].Title)
}

func joinKinds(kinds []entity.InsightKind) string {
	return strings.Join(lo.Map(kinds, func(k entity.InsightKind, _ int) string { return string(k) }), ", ")
}

func priorityRank(p entity.InsightPriority) int {
	switch p {
	case entity.InsightPriorityHigh:
		return 3
	case entity.InsightPriorityMedium:
		return 2
	case entity.InsightPriorityLow:
		return 1
	default:
		return 0
	}
}
