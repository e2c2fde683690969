package entity

import "time"

type InsightKind string

const (
	InsightPricing    InsightKind = "pricing"
	InsightStock      InsightKind = "stock"
	InsightReputation InsightKind = "reputation"
	InsightTrend      InsightKind = "trend"
)

type InsightPriority string

const (
	InsightPriorityLow    InsightPriority = "low"
	InsightPriorityMedium InsightPriority = "medium"
	InsightPriorityHigh   InsightPriority = "high"
)

type Insight struct {
	ID        string
	Kind      InsightKind
	Title     string
	Message   string
	Priority  InsightPriority
	CreatedAt time.Time
}
