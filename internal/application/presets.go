package application

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"

	"melidash/internal/config"
	"melidash/internal/domain/entity"
	"melidash/internal/domain/value"
	"melidash/pkg/logx"
	"melidash/pkg/lox"
)

//go:embed presets/default_rules.yaml
var defaultRules []byte

type ruleCreator interface {
	CreateRule(ctx context.Context, rule entity.PricingRule) (entity.PricingRule, error)
}

// DefaultRulePresets returns the rule set used when no rules file is configured.
func DefaultRulePresets() (config.RulePresets, error) {
	presets, err := config.ParseRulePresets(defaultRules)
	if err != nil {
		return config.RulePresets{}, fmt.Errorf("config.ParseRulePresets: %w", err)
	}

	return presets, nil
}

func loadRulePresets(path string) (config.RulePresets, error) {
	if path == "" {
		return DefaultRulePresets()
	}

	presets, err := config.LoadRulePresets(path)
	if err != nil {
		return config.RulePresets{}, fmt.Errorf("config.LoadRulePresets: %w", err)
	}

	return presets, nil
}

// SeedRules creates every preset rule. The first invalid preset aborts seeding.
func SeedRules(ctx context.Context, creator ruleCreator, presets config.RulePresets) ([]entity.PricingRule, error) {
	rules, err := RulesFromPresets(presets)
	if err != nil {
		return nil, err
	}

	created := make([]entity.PricingRule, 0, len(rules))

	for _, rule := range rules {
		saved, err := creator.CreateRule(ctx, rule)
		if err != nil {
			return created, fmt.Errorf("creator.CreateRule %q: %w", rule.Name, err)
		}

		logger(ctx).Info("pricing rule seeded", slog.String(logx.FieldRuleID, saved.ID), slog.String("name", saved.Name))

		created = append(created, saved)
	}

	return created, nil
}

func RulesFromPresets(presets config.RulePresets) ([]entity.PricingRule, error) {
	return lox.MapErr(presets.Rules, func(p config.RulePreset) (entity.PricingRule, error) {
		conditions, err := lox.MapErr(p.Conditions, conditionFromPreset)
		if err != nil {
			return entity.PricingRule{}, fmt.Errorf("rule %q: %w", p.Name, err)
		}

		actions, err := lox.MapErr(p.Actions, actionFromPreset)
		if err != nil {
			return entity.PricingRule{}, fmt.Errorf("rule %q: %w", p.Name, err)
		}

		return entity.PricingRule{
			Name:        p.Name,
			Description: p.Description,
			Priority:    p.Priority,
			Conditions:  conditions,
			Actions:     actions,
			IsActive:    p.IsActive(),
		}, nil
	})
}

func conditionFromPreset(p config.ConditionPreset) (entity.PricingCondition, error) {
	conditionType, err := value.ParseConditionType(p.Type)
	if err != nil {
		return entity.PricingCondition{}, err //nolint:wrapcheck
	}

	operator, err := value.ParseOperator(p.Operator)
	if err != nil {
		return entity.PricingCondition{}, err //nolint:wrapcheck
	}

	return entity.PricingCondition{
		Type:     conditionType,
		Operator: operator,
		Value:    p.Value,
		Field:    p.Field,
	}, nil
}

func actionFromPreset(p config.ActionPreset) (entity.PricingAction, error) {
	actionType, err := value.ParseActionType(p.Type)
	if err != nil {
		return entity.PricingAction{}, err //nolint:wrapcheck
	}

	unit, err := value.ParseUnit(p.Unit)
	if err != nil {
		return entity.PricingAction{}, err //nolint:wrapcheck
	}

	action := entity.PricingAction{
		Type:  actionType,
		Value: p.Value,
		Unit:  unit,
	}

	if p.Limits != nil {
		action.Limits = &entity.PricingLimits{
			MinPrice:            p.Limits.MinPrice,
			MaxPrice:            p.Limits.MaxPrice,
			MaxPercentageChange: p.Limits.MaxPercentageChange,
			MinMargin:           p.Limits.MinMargin,
		}
	}

	return action, nil
}
