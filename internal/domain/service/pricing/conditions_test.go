package pricing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"melidash/internal/domain/entity"
	"melidash/internal/domain/service/pricing"
	"melidash/internal/domain/value"
)

func TestEvaluateConditions(t *testing.T) {
	now := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	competitors := &competitorsMock{byProduct: map[string][]entity.CompetitorData{
		"MLA1": offers("MLA1", 95, 110),
	}}

	product := entity.Product{
		ID:                "MLA1",
		Price:             100,
		AvailableQuantity: 5,
		SoldQuantity:      30,
		InitialQuantity:   60,
		DateCreated:       now.AddDate(0, 0, -45),
	}

	cond := func(t value.ConditionType, op value.Operator, v float64) entity.PricingCondition {
		return entity.PricingCondition{Type: t, Operator: op, Value: v}
	}

	testCases := []struct {
		name       string
		product    entity.Product
		conditions []entity.PricingCondition
		wantValid  bool
		wantErrors []string
	}{
		{
			name:      "no conditions",
			product:   product,
			wantValid: true,
		},
		{
			name:       "stock below threshold",
			product:    product,
			conditions: []entity.PricingCondition{cond(value.ConditionStockLevel, value.OperatorLessThan, 10)},
			wantValid:  true,
		},
		{
			name: "stock above threshold",
			product: func() entity.Product {
				p := product
				p.AvailableQuantity = 15
				return p
			}(),
			conditions: []entity.PricingCondition{cond(value.ConditionStockLevel, value.OperatorLessThan, 10)},
			wantErrors: []string{"stock_level"},
		},
		{
			name:       "priced above cheapest competitor",
			product:    product,
			conditions: []entity.PricingCondition{cond(value.ConditionCompetitorPrice, value.OperatorGreaterThan, 0)},
			wantValid:  true,
		},
		{
			name:       "sales velocity ratio",
			product:    product,
			conditions: []entity.PricingCondition{cond(value.ConditionSalesVelocity, value.OperatorGreaterEqual, 0.5)},
			wantValid:  true,
		},
		{
			name:       "default cost basis gives 30 percent margin",
			product:    product,
			conditions: []entity.PricingCondition{cond(value.ConditionProfitMargin, value.OperatorEquals, 30)},
			wantValid:  true,
		},
		{
			name:    "listing age in days",
			product: product,
			conditions: []entity.PricingCondition{
				cond(value.ConditionTimeBased, value.OperatorGreaterThan, 30),
				cond(value.ConditionStockLevel, value.OperatorGreaterThan, 100),
				cond(value.ConditionProfitMargin, value.OperatorGreaterThan, 50),
			},
			wantErrors: []string{"stock_level", "profit_margin"},
		},
		{
			name:       "unknown operator",
			product:    product,
			conditions: []entity.PricingCondition{cond(value.ConditionStockLevel, "between", 1)},
			wantErrors: []string{`stock_level (unknown operator "between")`},
		},
	}

	svc := pricing.NewService(&marketplaceMock{}, competitors).WithClock(func() time.Time { return now })

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			got := svc.Evaluator().EvaluateConditions(context.Background(), tc.conditions, tc.product)
			rq.Equal(tc.wantValid, got.IsValid)
			rq.Equal(tc.wantErrors, got.Errors)
		})
	}
}

func TestEvaluateConditionsCompetitors(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	product := entity.Product{ID: "MLA2", Price: 100}
	condition := []entity.PricingCondition{{
		Type:     value.ConditionCompetitorPrice,
		Operator: value.OperatorGreaterThan,
	}}

	noOffers := pricing.NewEvaluator(&competitorsMock{}, pricing.DefaultCostBasisRatio)
	rq.False(noOffers.EvaluateConditions(ctx, condition, product).IsValid)

	unavailable := pricing.NewEvaluator(&competitorsMock{byProduct: map[string][]entity.CompetitorData{
		"MLA2": {{ProductID: "MLA2", CompetitorPrice: 50, Availability: false}},
	}}, pricing.DefaultCostBasisRatio)
	rq.False(unavailable.EvaluateConditions(ctx, condition, product).IsValid)

	failing := pricing.NewEvaluator(&competitorsMock{err: errors.New("feed down")}, pricing.DefaultCostBasisRatio)
	result := failing.EvaluateConditions(ctx, condition, product)
	rq.False(result.IsValid)
	rq.Len(result.Errors, 1)
	rq.Contains(result.Errors[0], "feed down")
}

func TestEvaluateConditionsCostPrice(t *testing.T) {
	rq := require.New(t)

	evaluator := pricing.NewEvaluator(nil, 0.5)
	margin := []entity.PricingCondition{{
		Type:     value.ConditionProfitMargin,
		Operator: value.OperatorGreaterEqual,
		Value:    50,
	}}

	rq.True(evaluator.EvaluateConditions(context.Background(), margin, entity.Product{Price: 100}).IsValid)
	rq.False(evaluator.EvaluateConditions(context.Background(), margin, entity.Product{Price: 100, CostPrice: 80}).IsValid)
}
