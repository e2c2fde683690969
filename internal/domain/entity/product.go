package entity

import "time"

// Product is the listing snapshot pricing rules are evaluated against.
type Product struct {
	ID                string
	Title             string
	Price             float64
	AvailableQuantity int
	SoldQuantity      int
	InitialQuantity   int
	CostPrice         float64
	Category          string
	Status            string
	DateCreated       time.Time
}

// SalesVelocity is sold/initial quantity. Initial defaults to sold+available.
func (p Product) SalesVelocity() float64 {
	initial := p.InitialQuantity
	if initial <= 0 {
		initial = p.SoldQuantity + p.AvailableQuantity
	}

	if initial <= 0 {
		return 0
	}

	return float64(p.SoldQuantity) / float64(initial)
}

// Cost falls back to price*costBasisRatio when the real cost is unknown.
func (p Product) Cost(price, costBasisRatio float64) float64 {
	if p.CostPrice > 0 {
		return p.CostPrice
	}

	return price * costBasisRatio
}

// AgeDays returns the number of whole days since the listing was created.
func (p Product) AgeDays(now time.Time) int {
	if p.DateCreated.IsZero() || now.Before(p.DateCreated) {
		return 0
	}

	return int(now.Sub(p.DateCreated) / (24 * time.Hour))
}
