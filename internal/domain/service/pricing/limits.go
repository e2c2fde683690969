package pricing

import (
	"fmt"
	"math"

	"melidash/internal/domain/entity"
)

// ValidatePriceChange checks a candidate price against the guard rails.
// cost is the unit cost used for the margin check.
func ValidatePriceChange(oldPrice, newPrice, cost float64, limits entity.PricingLimits) entity.ValidationResult {
	var errs []string

	if newPrice <= 0 {
		errs = append(errs, fmt.Sprintf("price %.2f must be positive", newPrice))
	}

	if limits.MinPrice > 0 && newPrice < limits.MinPrice {
		errs = append(errs, fmt.Sprintf("price %.2f is below minimum price %.2f", newPrice, limits.MinPrice))
	}

	if limits.MaxPrice > 0 && newPrice > limits.MaxPrice {
		errs = append(errs, fmt.Sprintf("price %.2f is above maximum price %.2f", newPrice, limits.MaxPrice))
	}

	if limits.MaxPercentageChange > 0 && oldPrice > 0 {
		change := changePercent(oldPrice, newPrice)
		if change > limits.MaxPercentageChange {
			errs = append(errs, fmt.Sprintf(
				"price change %.2f%% exceeds maximum change %.2f%%", change, limits.MaxPercentageChange,
			))
		}
	}

	if limits.MinMargin != 0 && newPrice > 0 {
		margin := marginPercent(newPrice, cost)
		if margin < limits.MinMargin {
			errs = append(errs, fmt.Sprintf("margin %.2f%% is below minimum margin %.2f%%", margin, limits.MinMargin))
		}
	}

	return entity.ValidationResult{
		IsValid: len(errs) == 0,
		Errors:  errs,
	}
}

// changePercent is the absolute swing relative to the old price.
func changePercent(oldPrice, newPrice float64) float64 {
	if oldPrice == 0 {
		return 0
	}

	return math.Abs(newPrice-oldPrice) * 100 / oldPrice
}
