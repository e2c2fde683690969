package assistant_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"melidash/internal/domain"
	"melidash/internal/domain/entity"
	"melidash/internal/domain/service/assistant"
	"melidash/internal/domain/service/reputation"
	"melidash/internal/domain/service/trends"
	"melidash/internal/domain/value"
	"melidash/internal/infrastructure/mockdata"
	"melidash/pkg/errcodes"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) //nolint:gochecknoglobals

type productsStub struct {
	products []entity.Product
	err      error
}

func (p productsStub) ListProducts(context.Context) ([]entity.Product, error) {
	return p.products, p.err
}

type alertsStub []entity.PricingAlert

func (a alertsStub) GetAlerts(context.Context, bool) []entity.PricingAlert {
	return a
}

func newService(products assistant.ProductLister, alerts alertsStub) *assistant.Service {
	return assistant.NewService(
		products,
		alerts,
		reputation.NewService(mockdata.Reviews(now), mockdata.SellerRates()),
		trends.NewService(mockdata.Trends(now), mockdata.Competitors()),
	).WithClock(func() time.Time { return now })
}

func titles(insights []entity.Insight) []string {
	return lo.Map(insights, func(i entity.Insight, _ int) string { return i.Title })
}

func TestGenerateInsights(t *testing.T) {
	rq := require.New(t)

	svc := newService(productsStub{products: mockdata.Products(now)}, alertsStub{
		{ID: "a1", Severity: value.SeverityHigh, Message: "rule \"flash\" changed the price of MLA1002 by 40.0%"},
	})

	insights := svc.GenerateInsights(context.Background())

	got := titles(insights)
	rq.Contains(got, "Low stock: Zapatillas Running Air")
	rq.Contains(got, "Slow seller: Cafetera Espresso 15 bar")
	rq.Contains(got, "Slow seller: Botella Térmica 1L")
	rq.Contains(got, "1 pricing alerts to review")
	rq.Contains(got, "Reputation is warm")
	rq.Contains(got, "Opportunity: mochila antirrobo")

	// The paused listing without stock is not reported.
	rq.NotContains(got, "Out of stock: Lámpara LED Escritorio")

	rq.Equal(entity.InsightPriorityHigh, insights[0].Priority)
	rq.Equal(entity.InsightPriorityLow, insights[len(insights)-1].Priority)

	for _, i := range insights {
		rq.NotEmpty(i.ID)
		rq.Equal(now, i.CreatedAt)
	}
}

func TestGenerateInsightsWithoutProducts(t *testing.T) {
	rq := require.New(t)

	svc := newService(productsStub{err: errors.New("marketplace down")}, nil)

	insights := svc.GenerateInsights(context.Background())
	rq.NotEmpty(insights)

	for _, i := range insights {
		rq.NotEqual(entity.InsightStock, i.Kind)
	}
}

func TestAsk(t *testing.T) {
	svc := newService(productsStub{products: mockdata.Products(now)}, nil)

	testCases := []struct {
		question   string
		wantKinds  []entity.InsightKind
		wantAnswer string
	}{
		{
			question:   "¿Qué productos tienen poco STOCK?",
			wantKinds:  []entity.InsightKind{entity.InsightStock},
			wantAnswer: "About stock: Low stock: Zapatillas Running Air.",
		},
		{
			question:  "How is my reputation and which trends should I follow?",
			wantKinds: []entity.InsightKind{entity.InsightReputation, entity.InsightTrend},
		},
		{
			question:  "hello there",
			wantKinds: []entity.InsightKind{entity.InsightStock, entity.InsightPricing, entity.InsightReputation, entity.InsightTrend},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.question, func(t *testing.T) {
			rq := require.New(t)

			answer, insights, err := svc.Ask(context.Background(), tc.question)
			rq.NoError(err)
			rq.NotEmpty(answer)

			if tc.wantAnswer != "" {
				rq.Equal(tc.wantAnswer, answer)
			}

			kinds := lo.Uniq(lo.Map(insights, func(i entity.Insight, _ int) entity.InsightKind { return i.Kind }))
			rq.ElementsMatch(tc.wantKinds, kinds)
		})
	}

	_, _, err := svc.Ask(context.Background(), "   ")
	require.True(t, domain.HasCode(err, errcodes.InvalidQuestion))
}

func TestAskNothingToReport(t *testing.T) {
	rq := require.New(t)

	svc := newService(productsStub{}, nil)

	answer, insights, err := svc.Ask(context.Background(), "any price alert?")
	rq.NoError(err)
	rq.Empty(insights)
	rq.Equal("Nothing needs your attention about pricing right now.", answer)
}
