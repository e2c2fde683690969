package entity

import (
	"time"

	"melidash/internal/domain/value"
)

type Review struct {
	ID           string
	ProductID    string
	ProductTitle string
	Rating       int
	Comment      string
	BuyerName    string
	CreatedAt    time.Time
	Reply        string
	RepliedAt    *time.Time
}

func (r Review) Replied() bool {
	return r.RepliedAt != nil
}

type ReviewFilter struct {
	Rating    int
	Responded *bool
	ProductID string
}

// SellerRates are the operational rates tracked by the marketplace, in percent.
type SellerRates struct {
	ClaimsRate           float64
	DelayedShipmentsRate float64
	CancellationsRate    float64
}

type ReputationMetrics struct {
	AverageRating   float64
	TotalReviews    int
	PositivePercent float64
	ResponseRate    float64
	SellerRates
	Temperature value.Temperature
}
