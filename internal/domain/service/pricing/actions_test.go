package pricing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"melidash/internal/domain/entity"
	"melidash/internal/domain/service/pricing"
	"melidash/internal/domain/value"
)

func TestCalculateNewPrice(t *testing.T) {
	competitors := &competitorsMock{byProduct: map[string][]entity.CompetitorData{
		"MLA1": offers("MLA1", 120, 80.5, 99),
	}}
	calculator := pricing.NewCalculator(competitors)

	testCases := []struct {
		name    string
		product entity.Product
		actions []entity.PricingAction
		want    float64
	}{
		{
			name:    "actions compose over the running price",
			product: entity.Product{Price: 100},
			actions: []entity.PricingAction{
				{Type: value.ActionDecreasePrice, Value: 10, Unit: value.UnitPercentage},
				{Type: value.ActionIncreasePrice, Value: 5, Unit: value.UnitPercentage},
			},
			want: 94.5,
		},
		{
			name:    "missing unit means percentage",
			product: entity.Product{Price: 19.99},
			actions: []entity.PricingAction{{Type: value.ActionIncreasePrice, Value: 10}},
			want:    21.99,
		},
		{
			name:    "fixed amounts",
			product: entity.Product{Price: 50},
			actions: []entity.PricingAction{
				{Type: value.ActionIncreasePrice, Value: 7.25, Unit: value.UnitFixed},
				{Type: value.ActionDecreasePrice, Value: 2, Unit: value.UnitFixed},
			},
			want: 55.25,
		},
		{
			name:    "set then adjust",
			product: entity.Product{Price: 50},
			actions: []entity.PricingAction{
				{Type: value.ActionSetPrice, Value: 200},
				{Type: value.ActionDecreasePrice, Value: 25, Unit: value.UnitPercentage},
			},
			want: 150,
		},
		{
			name:    "match cheapest competitor with percentage offset",
			product: entity.Product{ID: "MLA1", Price: 100},
			actions: []entity.PricingAction{{Type: value.ActionMatchCompetitor, Value: -2, Unit: value.UnitPercentage}},
			want:    78.89,
		},
		{
			name:    "match cheapest competitor with fixed offset",
			product: entity.Product{ID: "MLA1", Price: 100},
			actions: []entity.PricingAction{{Type: value.ActionMatchCompetitor, Value: -0.5, Unit: value.UnitFixed}},
			want:    80,
		},
		{
			name:    "nothing to match keeps the price",
			product: entity.Product{ID: "MLA9", Price: 100},
			actions: []entity.PricingAction{{Type: value.ActionMatchCompetitor}},
			want:    100,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			got, err := calculator.CalculateNewPrice(context.Background(), tc.actions, tc.product)
			rq.NoError(err)
			rq.InDelta(tc.want, got, 1e-9)
		})
	}
}

func TestCalculateNewPriceUnknownAction(t *testing.T) {
	_, err := pricing.NewCalculator(nil).CalculateNewPrice(
		context.Background(),
		[]entity.PricingAction{{Type: "double_price", Value: 2}},
		entity.Product{Price: 10},
	)
	require.ErrorContains(t, err, `unknown action type "double_price"`)
}
