package pricing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"melidash/internal/domain/entity"
	"melidash/internal/domain/value"
	"melidash/pkg/logx"
)

type Evaluator struct {
	competitors    CompetitorSource
	costBasisRatio float64
	now            func() time.Time
}

func NewEvaluator(competitors CompetitorSource, costBasisRatio float64) *Evaluator {
	return &Evaluator{
		competitors:    competitors,
		costBasisRatio: costBasisRatio,
		now:            time.Now,
	}
}

// EvaluateConditions reports whether every condition holds for the product.
// Errors lists the types of the conditions that did not hold.
func (e *Evaluator) EvaluateConditions(
	ctx context.Context,
	conditions []entity.PricingCondition,
	product entity.Product,
) entity.ValidationResult {
	result := entity.ValidationResult{IsValid: true}

	for _, condition := range conditions {
		ok, err := e.evaluate(ctx, condition, product)
		if err != nil {
			logger(ctx).Warn(
				"condition evaluation failed",
				slog.String(logx.FieldProductID, product.ID),
				slog.String("condition", string(condition.Type)),
				logx.Error(err),
			)

			result.IsValid = false
			result.Errors = append(result.Errors, fmt.Sprintf("%s (%v)", condition.Type, err))

			continue
		}

		if !ok {
			result.IsValid = false
			result.Errors = append(result.Errors, string(condition.Type))
		}
	}

	return result
}

func (e *Evaluator) evaluate(ctx context.Context, condition entity.PricingCondition, product entity.Product) (bool, error) {
	var metric float64

	switch condition.Type {
	case value.ConditionCompetitorPrice:
		lowest, ok, err := lowestCompetitorPrice(ctx, e.competitors, product)
		if err != nil {
			return false, err
		}

		if !ok {
			return false, nil
		}

		return condition.Operator.Compare(product.Price, lowest) //nolint:wrapcheck
	case value.ConditionStockLevel:
		metric = float64(product.AvailableQuantity)
	case value.ConditionSalesVelocity:
		metric = product.SalesVelocity()
	case value.ConditionProfitMargin:
		metric = marginPercent(product.Price, product.Cost(product.Price, e.costBasisRatio))
	case value.ConditionTimeBased:
		metric = float64(product.AgeDays(e.now()))
	default:
		return false, fmt.Errorf("unknown condition type %q", string(condition.Type))
	}

	return condition.Operator.Compare(metric, condition.Value) //nolint:wrapcheck
}

// lowestCompetitorPrice ignores unavailable offers. ok is false when no offer is left.
func lowestCompetitorPrice(
	ctx context.Context,
	source CompetitorSource,
	product entity.Product,
) (lowest float64, ok bool, err error) {
	if source == nil {
		return 0, false, nil
	}

	competitors, err := source.GetCompetitors(ctx, product)
	if err != nil {
		return 0, false, fmt.Errorf("competitors.GetCompetitors: %w", err)
	}

	for _, c := range competitors {
		if !c.Availability || c.CompetitorPrice <= 0 {
			continue
		}

		if !ok || c.CompetitorPrice < lowest {
			lowest = c.CompetitorPrice
			ok = true
		}
	}

	return lowest, ok, nil
}

func marginPercent(price, cost float64) float64 {
	if price <= 0 {
		return 0
	}

	return (price - cost) * 100 / price
}
