package entity

import "time"

type Competition string

const (
	CompetitionLow    Competition = "low"
	CompetitionMedium Competition = "medium"
	CompetitionHigh   Competition = "high"
)

type Trend struct {
	ID            string
	Keyword       string
	Category      string
	SearchVolume  int
	GrowthPercent float64
	Competition   Competition
	AveragePrice  float64
	Period        string
	UpdatedAt     time.Time
}

type TrendFilter struct {
	Category    string
	Period      string
	Competition Competition
	Query       string
}

type TrendSort struct {
	Field string
	Desc  bool
}

type Competitor struct {
	ID              string
	Name            string
	ProductCount    int
	AveragePrice    float64
	ReputationLevel string
	MarketShare     float64
}
