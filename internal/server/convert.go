package server

import (
	"fmt"
	"time"

	"github.com/samber/lo"

	"melidash/internal/domain/entity"
	"melidash/internal/domain/service/admin"
	"melidash/internal/domain/value"
	"melidash/internal/worker"
	"melidash/pkg/lox"
	"melidash/pkg/rest"
)

func newRESTProduct(p entity.Product) rest.Product {
	return rest.Product{
		ID:                p.ID,
		Title:             p.Title,
		Price:             p.Price,
		AvailableQuantity: p.AvailableQuantity,
		SoldQuantity:      p.SoldQuantity,
		InitialQuantity:   p.InitialQuantity,
		CostPrice:         p.CostPrice,
		Category:          p.Category,
		Status:            p.Status,
		DateCreated:       p.DateCreated,
	}
}

func newRESTRule(rule entity.PricingRule) rest.PricingRule {
	return rest.PricingRule{
		ID:          rule.ID,
		Name:        rule.Name,
		Description: rule.Description,
		Priority:    rule.Priority,
		Conditions: lo.Map(rule.Conditions, func(c entity.PricingCondition, _ int) rest.PricingCondition {
			return rest.PricingCondition{
				Type:     string(c.Type),
				Operator: string(c.Operator),
				Value:    c.Value,
				Field:    c.Field,
			}
		}),
		Actions: lo.Map(rule.Actions, func(a entity.PricingAction, _ int) rest.PricingAction {
			action := rest.PricingAction{
				Type:  string(a.Type),
				Value: a.Value,
				Unit:  string(a.Unit),
			}

			if a.Limits != nil {
				action.Limits = &rest.PricingLimits{
					MinPrice:            a.Limits.MinPrice,
					MaxPrice:            a.Limits.MaxPrice,
					MaxPercentageChange: a.Limits.MaxPercentageChange,
					MinMargin:           a.Limits.MinMargin,
				}
			}

			return action
		}),
		IsActive:       rule.IsActive,
		ExecutionCount: rule.ExecutionCount,
		LastExecuted:   rule.LastExecuted,
		CreatedAt:      rule.CreatedAt,
		UpdatedAt:      rule.UpdatedAt,
	}
}

func newDomainRule(input rest.PricingRuleInput) (entity.PricingRule, error) {
	conditions, err := lox.MapErr(input.Conditions, newDomainCondition)
	if err != nil {
		return entity.PricingRule{}, err
	}

	actions, err := lox.MapErr(input.Actions, newDomainAction)
	if err != nil {
		return entity.PricingRule{}, err
	}

	return entity.PricingRule{
		Name:        input.Name,
		Description: input.Description,
		Priority:    input.Priority,
		Conditions:  conditions,
		Actions:     actions,
		IsActive:    input.IsActive,
	}, nil
}

func newDomainCondition(c rest.PricingCondition) (entity.PricingCondition, error) {
	conditionType, err := value.ParseConditionType(c.Type)
	if err != nil {
		return entity.PricingCondition{}, fmt.Errorf("value.ParseConditionType: %w", err)
	}

	operator, err := value.ParseOperator(c.Operator)
	if err != nil {
		return entity.PricingCondition{}, fmt.Errorf("value.ParseOperator: %w", err)
	}

	return entity.PricingCondition{
		Type:     conditionType,
		Operator: operator,
		Value:    c.Value,
		Field:    c.Field,
	}, nil
}

func newDomainAction(a rest.PricingAction) (entity.PricingAction, error) {
	actionType, err := value.ParseActionType(a.Type)
	if err != nil {
		return entity.PricingAction{}, fmt.Errorf("value.ParseActionType: %w", err)
	}

	unit, err := value.ParseUnit(a.Unit)
	if err != nil {
		return entity.PricingAction{}, fmt.Errorf("value.ParseUnit: %w", err)
	}

	action := entity.PricingAction{
		Type:  actionType,
		Value: a.Value,
		Unit:  unit,
	}

	if a.Limits != nil {
		action.Limits = &entity.PricingLimits{
			MinPrice:            a.Limits.MinPrice,
			MaxPrice:            a.Limits.MaxPrice,
			MaxPercentageChange: a.Limits.MaxPercentageChange,
			MinMargin:           a.Limits.MinMargin,
		}
	}

	return action, nil
}

func newRESTExecution(e entity.PricingExecution) rest.PricingExecution {
	return rest.PricingExecution{
		ID:         e.ID,
		RuleID:     e.RuleID,
		RuleName:   e.RuleName,
		ProductID:  e.ProductID,
		ExecutedAt: e.ExecutedAt,
		Status:     string(e.Status),
		OldPrice:   e.OldPrice,
		NewPrice:   e.NewPrice,
		Reason:     e.Reason,
		Error:      e.Error,
	}
}

func newRESTRunResult(executions []entity.PricingExecution) rest.RunResult {
	counts := lo.CountValuesBy(executions, func(e entity.PricingExecution) value.ExecutionStatus { return e.Status })

	return rest.RunResult{
		Executions: lo.Map(executions, func(e entity.PricingExecution, _ int) rest.PricingExecution {
			return newRESTExecution(e)
		}),
		Success: counts[value.ExecutionSuccess],
		Failed:  counts[value.ExecutionFailed],
		Skipped: counts[value.ExecutionSkipped],
	}
}

func newRESTAlert(a entity.PricingAlert) rest.PricingAlert {
	return rest.PricingAlert{
		ID:           a.ID,
		Type:         string(a.Type),
		ProductID:    a.ProductID,
		RuleID:       a.RuleID,
		Message:      a.Message,
		Severity:     string(a.Severity),
		OldPrice:     a.OldPrice,
		NewPrice:     a.NewPrice,
		CreatedAt:    a.CreatedAt,
		Acknowledged: a.Acknowledged,
	}
}

func newRESTStats(s entity.PricingStats) rest.PricingStats {
	return rest.PricingStats{
		TotalRules:           s.TotalRules,
		ActiveRules:          s.ActiveRules,
		TotalExecutions:      s.TotalExecutions,
		SuccessfulExecutions: s.SuccessfulExecutions,
		FailedExecutions:     s.FailedExecutions,
		SkippedExecutions:    s.SkippedExecutions,
		SuccessRate:          s.SuccessRate,
		AveragePriceChange:   s.AveragePriceChange,
		OpenAlerts:           s.OpenAlerts,
	}
}

func newRESTPreview(p entity.PreviewResult) rest.PreviewResult {
	return rest.PreviewResult{
		ProductID:       p.ProductID,
		ConditionsValid: p.Conditions.IsValid,
		ConditionErrors: lo.Ternary(p.Conditions.Errors == nil, []string{}, p.Conditions.Errors),
		CurrentPrice:    p.CurrentPrice,
		NewPrice:        p.NewPrice,
		LimitsValid:     p.Limits.IsValid,
		LimitErrors:     lo.Ternary(p.Limits.Errors == nil, []string{}, p.Limits.Errors),
	}
}

func newRESTCompetitorData(c entity.CompetitorData) rest.CompetitorData {
	return rest.CompetitorData{
		ProductID:       c.ProductID,
		CompetitorName:  c.CompetitorName,
		CompetitorPrice: c.CompetitorPrice,
		LastUpdated:     c.LastUpdated,
		Availability:    c.Availability,
	}
}

func newRESTSchedulerStatus(s worker.SchedulerStatus) rest.SchedulerStatus {
	status := rest.SchedulerStatus{
		State:     string(s.State),
		Running:   s.State == worker.SchedulerRunning,
		Interval:  s.Interval.String(),
		LastRunAt: s.LastRunAt,
		LastError: s.LastError,
	}

	if len(s.LastResult) > 0 {
		status.LastResult = lo.MapKeys(s.LastResult, func(_ int, k value.ExecutionStatus) string { return string(k) })
	}

	return status
}

func newRESTTrend(t entity.Trend) rest.Trend {
	return rest.Trend{
		ID:            t.ID,
		Keyword:       t.Keyword,
		Category:      t.Category,
		SearchVolume:  t.SearchVolume,
		GrowthPercent: t.GrowthPercent,
		Competition:   string(t.Competition),
		AveragePrice:  t.AveragePrice,
		Period:        t.Period,
		UpdatedAt:     t.UpdatedAt,
	}
}

func newRESTCompetitor(c entity.Competitor) rest.Competitor {
	return rest.Competitor{
		ID:              c.ID,
		Name:            c.Name,
		ProductCount:    c.ProductCount,
		AveragePrice:    c.AveragePrice,
		ReputationLevel: c.ReputationLevel,
		MarketShare:     c.MarketShare,
	}
}

func newRESTReview(r entity.Review) rest.Review {
	return rest.Review{
		ID:           r.ID,
		ProductID:    r.ProductID,
		ProductTitle: r.ProductTitle,
		Rating:       r.Rating,
		Comment:      r.Comment,
		BuyerName:    r.BuyerName,
		CreatedAt:    r.CreatedAt,
		Reply:        r.Reply,
		RepliedAt:    r.RepliedAt,
	}
}

func newRESTReputation(m entity.ReputationMetrics) rest.ReputationMetrics {
	return rest.ReputationMetrics{
		AverageRating:        m.AverageRating,
		TotalReviews:         m.TotalReviews,
		PositivePercent:      m.PositivePercent,
		ResponseRate:         m.ResponseRate,
		ClaimsRate:           m.ClaimsRate,
		DelayedShipmentsRate: m.DelayedShipmentsRate,
		CancellationsRate:    m.CancellationsRate,
		Temperature:          int(m.Temperature),
		TemperatureLabel:     string(m.Temperature.Label()),
	}
}

func newRESTInsights(insights []entity.Insight) []rest.Insight {
	return lo.Map(insights, func(i entity.Insight, _ int) rest.Insight {
		return rest.Insight{
			ID:        i.ID,
			Kind:      string(i.Kind),
			Title:     i.Title,
			Message:   i.Message,
			Priority:  string(i.Priority),
			CreatedAt: i.CreatedAt,
		}
	})
}

func newRESTUser(u entity.User) rest.User {
	return rest.User{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        u.Role.String(),
		Status:      string(u.Status),
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}

func newRESTInvite(i entity.Invite, withToken bool) rest.Invite {
	invite := rest.Invite{
		ID:        i.ID,
		Email:     i.Email,
		Role:      i.Role.String(),
		Status:    string(i.Status),
		InvitedBy: i.InvitedBy,
		CreatedAt: i.CreatedAt,
		ExpiresAt: i.ExpiresAt,
	}

	if withToken {
		invite.Token = i.Token
	}

	return invite
}

func newRESTLogin(s admin.Session) rest.LoginResponse {
	return rest.LoginResponse{
		AccessToken: s.AccessToken,
		ExpiresAt:   s.ExpiresAt.UTC().Truncate(time.Second),
		User:        newRESTUser(s.User),
	}
}
