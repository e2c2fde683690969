package entity

import (
	"time"

	"melidash/internal/domain/value"
)

type PricingCondition struct {
	Type     value.ConditionType
	Operator value.Operator
	Value    float64
	Field    string
}

// PricingLimits bounds a price action. Zero means unset.
type PricingLimits struct {
	MinPrice            float64
	MaxPrice            float64
	MaxPercentageChange float64
	MinMargin           float64
}

func (l PricingLimits) IsZero() bool {
	return l == PricingLimits{}
}

type PricingAction struct {
	Type   value.ActionType
	Value  float64
	Unit   value.Unit
	Limits *PricingLimits
}

type PricingRule struct {
	ID             string
	Name           string
	Description    string
	Priority       int
	Conditions     []PricingCondition
	Actions        []PricingAction
	IsActive       bool
	ExecutionCount int
	LastExecuted   *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Seq keeps creation order stable for rules sharing a priority.
	Seq int64
}

// Clone deep-copies the slices so callers cannot mutate stored rules.
func (r PricingRule) Clone() PricingRule {
	c := r
	c.Conditions = append([]PricingCondition(nil), r.Conditions...)
	c.Actions = make([]PricingAction, len(r.Actions))

	for i, a := range r.Actions {
		c.Actions[i] = a
		if a.Limits != nil {
			limits := *a.Limits
			c.Actions[i].Limits = &limits
		}
	}

	if r.LastExecuted != nil {
		t := *r.LastExecuted
		c.LastExecuted = &t
	}

	return c
}

type PricingExecution struct {
	ID         string
	RuleID     string
	RuleName   string
	ProductID  string
	ExecutedAt time.Time
	Status     value.ExecutionStatus
	OldPrice   float64
	NewPrice   float64
	Reason     string
	Error      string
}

type ExecutionFilter struct {
	RuleID    string
	ProductID string
	Status    value.ExecutionStatus
	Limit     int
}

type PricingAlert struct {
	ID           string
	Type         value.AlertType
	ProductID    string
	RuleID       string
	Message      string
	Severity     value.Severity
	OldPrice     float64
	NewPrice     float64
	CreatedAt    time.Time
	Acknowledged bool
}

type CompetitorData struct {
	ProductID       string
	CompetitorName  string
	CompetitorPrice float64
	LastUpdated     time.Time
	Availability    bool
}

type PricingStats struct {
	TotalRules           int
	ActiveRules          int
	TotalExecutions      int
	SuccessfulExecutions int
	FailedExecutions     int
	SkippedExecutions    int
	SuccessRate          float64
	AveragePriceChange   float64
	OpenAlerts           int
}

// ValidationResult collects human-readable reasons a check did not pass.
type ValidationResult struct {
	IsValid bool
	Errors  []string
}

type PreviewResult struct {
	ProductID    string
	Conditions   ValidationResult
	CurrentPrice float64
	NewPrice     float64
	Limits       ValidationResult
}
