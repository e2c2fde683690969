package pricing

import (
	"context"
	"math"
	"slices"

	"melidash/internal/domain"
	"melidash/internal/domain/entity"
	"melidash/internal/domain/value"
	"melidash/pkg/errcodes"
)

// record appends the execution to the history and bumps the rule counters
// on success. History is append-only.
func (s *Service) record(ruleID string, execution entity.PricingExecution, alert *entity.PricingAlert) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append(s.history, execution)
	s.metrics.observeExecution(execution.Status)

	if execution.Status == value.ExecutionSuccess {
		if rule, ok := s.rules[ruleID]; ok {
			executedAt := execution.ExecutedAt
			rule.ExecutionCount++
			rule.LastExecuted = &executedAt
			s.rules[ruleID] = rule
		}
	}

	if alert != nil {
		s.alerts = append(s.alerts, *alert)
		s.metrics.observeAlert(alert.Type)
	}
}

// GetExecutionHistory returns matching executions in the order they ran.
// A positive Limit keeps only the most recent ones.
func (s *Service) GetExecutionHistory(_ context.Context, filter entity.ExecutionFilter) []entity.PricingExecution {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]entity.PricingExecution, 0, len(s.history))

	for _, e := range s.history {
		if filter.RuleID != "" && e.RuleID != filter.RuleID {
			continue
		}

		if filter.ProductID != "" && e.ProductID != filter.ProductID {
			continue
		}

		if filter.Status != "" && e.Status != filter.Status {
			continue
		}

		result = append(result, e)
	}

	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[len(result)-filter.Limit:]
	}

	return result
}

// GetAlerts returns alerts newest first.
func (s *Service) GetAlerts(_ context.Context, onlyUnacknowledged bool) []entity.PricingAlert {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]entity.PricingAlert, 0, len(s.alerts))

	for _, a := range slices.Backward(s.alerts) {
		if onlyUnacknowledged && a.Acknowledged {
			continue
		}

		result = append(result, a)
	}

	return result
}

func (s *Service) AcknowledgeAlert(_ context.Context, id string) (entity.PricingAlert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.alerts, func(a entity.PricingAlert) bool { return a.ID == id })
	if i < 0 {
		return entity.PricingAlert{}, domain.Errorf(errcodes.AlertNotFound, "alert %s not found", id)
	}

	s.alerts[i].Acknowledged = true

	return s.alerts[i], nil
}

func (s *Service) GetStats(_ context.Context) entity.PricingStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := entity.PricingStats{
		TotalRules:      len(s.rules),
		ActiveRules:     s.activeRulesLocked(),
		TotalExecutions: len(s.history),
	}

	var changeSum float64

	for _, e := range s.history {
		switch e.Status {
		case value.ExecutionSuccess:
			stats.SuccessfulExecutions++
			changeSum += changePercent(e.OldPrice, e.NewPrice)
		case value.ExecutionFailed:
			stats.FailedExecutions++
		case value.ExecutionSkipped:
			stats.SkippedExecutions++
		}
	}

	if attempted := stats.SuccessfulExecutions + stats.FailedExecutions; attempted > 0 {
		stats.SuccessRate = round2(float64(stats.SuccessfulExecutions) / float64(attempted) * 100)
	}

	if stats.SuccessfulExecutions > 0 {
		stats.AveragePriceChange = round2(changeSum / float64(stats.SuccessfulExecutions))
	}

	for _, a := range s.alerts {
		if !a.Acknowledged {
			stats.OpenAlerts++
		}
	}

	return stats
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
