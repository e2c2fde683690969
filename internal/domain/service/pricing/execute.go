package pricing

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"melidash/internal/domain"
	"melidash/internal/domain/entity"
	"melidash/internal/domain/value"
	"melidash/pkg/errcodes"
	"melidash/pkg/logx"
)

// RunAutomation loads the listings from the marketplace and executes the
// active rules against them. An empty productIDs runs over every listing.
func (s *Service) RunAutomation(ctx context.Context, productIDs []string) ([]entity.PricingExecution, error) {
	products, err := s.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	if len(productIDs) > 0 {
		selected := make([]entity.Product, 0, len(productIDs))

		for _, id := range productIDs {
			i := slices.IndexFunc(products, func(p entity.Product) bool { return p.ID == id })
			if i < 0 {
				return nil, domain.Errorf(errcodes.ProductNotFound, "product %s not found", id)
			}

			selected = append(selected, products[i])
		}

		products = selected
	}

	return s.ExecuteRules(ctx, products), nil
}

// ExecuteRules runs every active rule against every product, one pair at a
// time. A successful change is visible to the rules evaluated after it.
func (s *Service) ExecuteRules(ctx context.Context, products []entity.Product) []entity.PricingExecution {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	start := time.Now()
	defer func() { s.metrics.observeRun(time.Since(start).Seconds()) }()

	s.mu.RLock()
	rules := s.sortedRulesLocked(true)
	s.mu.RUnlock()

	snapshot := slices.Clone(products)
	executions := make([]entity.PricingExecution, 0, len(rules)*len(snapshot))

	for _, rule := range rules {
		for i := range snapshot {
			if ctx.Err() != nil {
				logger(ctx).Warn("automation run interrupted", logx.Error(ctx.Err()))
				return executions
			}

			execution := s.executeRule(ctx, rule, snapshot[i])
			if execution.Status == value.ExecutionSuccess {
				snapshot[i].Price = execution.NewPrice
			}

			executions = append(executions, execution)
		}
	}

	logger(ctx).Info(
		"automation run finished",
		slog.Int("rules", len(rules)),
		slog.Int("products", len(snapshot)),
		slog.Int("executions", len(executions)),
	)

	return executions
}

func (s *Service) executeRule(ctx context.Context, rule entity.PricingRule, product entity.Product) entity.PricingExecution {
	execution := entity.PricingExecution{
		ID:         uuid.NewString(),
		RuleID:     rule.ID,
		RuleName:   rule.Name,
		ProductID:  product.ID,
		ExecutedAt: s.now(),
		OldPrice:   product.Price,
		NewPrice:   product.Price,
	}

	var alert *entity.PricingAlert

	s.evaluateAndApply(ctx, rule, product, &execution)

	switch execution.Status {
	case value.ExecutionSuccess:
		alert = s.priceChangeAlert(rule, execution)
	case value.ExecutionFailed:
		if execution.Reason == reasonUpdateFailed {
			alert = &entity.PricingAlert{
				ID:        uuid.NewString(),
				Type:      value.AlertExecutionFailed,
				ProductID: product.ID,
				RuleID:    rule.ID,
				Message:   fmt.Sprintf("rule %q could not update product %s: %s", rule.Name, product.ID, execution.Error),
				Severity:  value.SeverityMedium,
				OldPrice:  execution.OldPrice,
				NewPrice:  execution.NewPrice,
				CreatedAt: execution.ExecutedAt,
			}
		}
	case value.ExecutionSkipped:
	}

	s.record(rule.ID, execution, alert)

	logger(ctx).Debug(
		"rule executed",
		slog.String(logx.FieldRuleID, rule.ID),
		slog.String(logx.FieldProductID, product.ID),
		slog.String(logx.FieldExecutionStatus, string(execution.Status)),
		slog.String("reason", execution.Reason),
	)

	if s.publisher != nil {
		if err := s.publisher.PublishExecution(ctx, execution); err != nil {
			logger(ctx).Error("publisher.PublishExecution", slog.String(logx.FieldRuleID, rule.ID), logx.Error(err))
		}
	}

	if alert != nil && s.notifier != nil {
		if err := s.notifier.NotifyAlert(ctx, *alert); err != nil {
			logger(ctx).Error("notifier.NotifyAlert", slog.String(logx.FieldAlertID, alert.ID), logx.Error(err))
		}
	}

	return execution
}

const (
	reasonPriceUnchanged   = "price unchanged"
	reasonCalculationError = "price calculation failed"
	reasonLimitsViolated   = "price limits violated"
	reasonUpdateFailed     = "product update failed"
)

func (s *Service) evaluateAndApply(
	ctx context.Context,
	rule entity.PricingRule,
	product entity.Product,
	execution *entity.PricingExecution,
) {
	conditions := s.evaluator.EvaluateConditions(ctx, rule.Conditions, product)
	if !conditions.IsValid {
		execution.Status = value.ExecutionSkipped
		execution.Reason = "conditions not met: " + strings.Join(conditions.Errors, ", ")

		return
	}

	newPrice, err := s.calculator.CalculateNewPrice(ctx, rule.Actions, product)
	if err != nil {
		execution.Status = value.ExecutionFailed
		execution.Reason = reasonCalculationError
		execution.Error = err.Error()

		return
	}

	execution.NewPrice = newPrice

	if newPrice == product.Price {
		execution.Status = value.ExecutionSkipped
		execution.Reason = reasonPriceUnchanged

		return
	}

	if limits := s.validateLimits(rule.Actions, product, newPrice); !limits.IsValid {
		execution.Status = value.ExecutionFailed
		execution.Reason = reasonLimitsViolated
		execution.Error = strings.Join(limits.Errors, "; ")

		return
	}

	if err := s.marketplace.UpdateProduct(ctx, product.ID, newPrice); err != nil {
		execution.Status = value.ExecutionFailed
		execution.Reason = reasonUpdateFailed
		execution.Error = err.Error()

		return
	}

	execution.Status = value.ExecutionSuccess
	execution.Reason = fmt.Sprintf("price changed from %.2f to %.2f", product.Price, newPrice)
}

// validateLimits checks the candidate against the limits of every action that has them.
func (s *Service) validateLimits(actions []entity.PricingAction, product entity.Product, newPrice float64) entity.ValidationResult {
	result := entity.ValidationResult{IsValid: true}
	cost := product.Cost(product.Price, s.costBasisRatio)

	for _, action := range actions {
		if action.Limits == nil || action.Limits.IsZero() {
			continue
		}

		r := ValidatePriceChange(product.Price, newPrice, cost, *action.Limits)
		if !r.IsValid {
			result.IsValid = false
			result.Errors = append(result.Errors, r.Errors...)
		}
	}

	if newPrice <= 0 && result.IsValid {
		result.IsValid = false
		result.Errors = append(result.Errors, fmt.Sprintf("price %.2f must be positive", newPrice))
	}

	return result
}

func (s *Service) priceChangeAlert(rule entity.PricingRule, execution entity.PricingExecution) *entity.PricingAlert {
	change := changePercent(execution.OldPrice, execution.NewPrice)
	if change <= s.alertThreshold {
		return nil
	}

	severity := value.SeverityMedium
	if change > highSeverityThreshold {
		severity = value.SeverityHigh
	}

	return &entity.PricingAlert{
		ID:        uuid.NewString(),
		Type:      value.AlertPriceChangeSignificant,
		ProductID: execution.ProductID,
		RuleID:    rule.ID,
		Message: fmt.Sprintf(
			"rule %q changed the price of %s by %.1f%% (%.2f -> %.2f)",
			rule.Name, execution.ProductID, change, execution.OldPrice, execution.NewPrice,
		),
		Severity:  severity,
		OldPrice:  execution.OldPrice,
		NewPrice:  execution.NewPrice,
		CreatedAt: execution.ExecutedAt,
	}
}

// PreviewRule evaluates a rule against one product without changing anything.
func (s *Service) PreviewRule(ctx context.Context, ruleID, productID string) (entity.PreviewResult, error) {
	rule, err := s.GetRule(ctx, ruleID)
	if err != nil {
		return entity.PreviewResult{}, err
	}

	product, err := s.getProduct(ctx, productID)
	if err != nil {
		return entity.PreviewResult{}, err
	}

	result := entity.PreviewResult{
		ProductID:    product.ID,
		Conditions:   s.evaluator.EvaluateConditions(ctx, rule.Conditions, product),
		CurrentPrice: product.Price,
		NewPrice:     product.Price,
		Limits:       entity.ValidationResult{IsValid: true},
	}

	newPrice, err := s.calculator.CalculateNewPrice(ctx, rule.Actions, product)
	if err != nil {
		result.Limits = entity.ValidationResult{Errors: []string{err.Error()}}
		return result, nil
	}

	result.NewPrice = newPrice
	result.Limits = s.validateLimits(rule.Actions, product, newPrice)

	return result, nil
}
