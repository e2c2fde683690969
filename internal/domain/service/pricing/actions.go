package pricing

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"melidash/internal/domain/entity"
	"melidash/internal/domain/value"
	"melidash/pkg/logx"
)

var hundred = decimal.NewFromInt(100) //nolint:gochecknoglobals

type Calculator struct {
	competitors CompetitorSource
}

func NewCalculator(competitors CompetitorSource) *Calculator {
	return &Calculator{competitors: competitors}
}

// CalculateNewPrice folds the actions over the current price in order and
// rounds the result to cents.
func (c *Calculator) CalculateNewPrice(
	ctx context.Context,
	actions []entity.PricingAction,
	product entity.Product,
) (float64, error) {
	price := decimal.NewFromFloat(product.Price)

	for i, action := range actions {
		v := decimal.NewFromFloat(action.Value)
		fixed := action.Unit == value.UnitFixed

		switch action.Type {
		case value.ActionIncreasePrice:
			if fixed {
				price = price.Add(v)
			} else {
				price = price.Mul(hundred.Add(v)).Div(hundred)
			}
		case value.ActionDecreasePrice:
			if fixed {
				price = price.Sub(v)
			} else {
				price = price.Mul(hundred.Sub(v)).Div(hundred)
			}
		case value.ActionSetPrice:
			price = v
		case value.ActionMatchCompetitor:
			lowest, ok, err := lowestCompetitorPrice(ctx, c.competitors, product)
			if err != nil {
				return 0, fmt.Errorf("action %d: %w", i, err)
			}

			if !ok {
				logger(ctx).Debug("no competitor to match", slog.String(logx.FieldProductID, product.ID))
				continue
			}

			target := decimal.NewFromFloat(lowest)
			if fixed {
				price = target.Add(v)
			} else {
				price = target.Mul(hundred.Add(v)).Div(hundred)
			}
		default:
			return 0, fmt.Errorf("action %d: unknown action type %q", i, string(action.Type))
		}
	}

	return price.Round(2).InexactFloat64(), nil
}
