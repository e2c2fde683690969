package pricing

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"melidash/internal/domain"
	"melidash/internal/domain/entity"
	"melidash/internal/domain/value"
	"melidash/pkg/errcodes"
)

// ListRules returns all rules ordered by execution priority.
func (s *Service) ListRules(_ context.Context) []entity.PricingRule {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sortedRulesLocked(false)
}

func (s *Service) GetRule(_ context.Context, id string) (entity.PricingRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rule, ok := s.rules[id]
	if !ok {
		return entity.PricingRule{}, ruleNotFound(id)
	}

	return rule.Clone(), nil
}

// CreateRule stores a new rule. Identity, counters and timestamps of the
// input are ignored.
func (s *Service) CreateRule(_ context.Context, rule entity.PricingRule) (entity.PricingRule, error) {
	if err := validateRule(rule); err != nil {
		return entity.PricingRule{}, err
	}

	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++

	rule = rule.Clone()
	rule.ID = uuid.NewString()
	rule.Name = strings.TrimSpace(rule.Name)
	rule.ExecutionCount = 0
	rule.LastExecuted = nil
	rule.CreatedAt = now
	rule.UpdatedAt = now
	rule.Seq = s.seq
	normalizeUnits(rule.Actions)

	s.rules[rule.ID] = rule
	s.metrics.setActiveRules(s.activeRulesLocked())

	return rule.Clone(), nil
}

// UpdateRule replaces the definition of a rule and keeps its statistics.
func (s *Service) UpdateRule(_ context.Context, id string, rule entity.PricingRule) (entity.PricingRule, error) {
	if err := validateRule(rule); err != nil {
		return entity.PricingRule{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.rules[id]
	if !ok {
		return entity.PricingRule{}, ruleNotFound(id)
	}

	rule = rule.Clone()
	stored.Name = strings.TrimSpace(rule.Name)
	stored.Description = rule.Description
	stored.Priority = rule.Priority
	stored.Conditions = rule.Conditions
	stored.Actions = rule.Actions
	stored.IsActive = rule.IsActive
	stored.UpdatedAt = s.now()
	normalizeUnits(stored.Actions)

	s.rules[id] = stored
	s.metrics.setActiveRules(s.activeRulesLocked())

	return stored.Clone(), nil
}

func (s *Service) DeleteRule(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rules[id]; !ok {
		return ruleNotFound(id)
	}

	delete(s.rules, id)
	s.metrics.setActiveRules(s.activeRulesLocked())

	return nil
}

// ToggleRule flips the active flag.
func (s *Service) ToggleRule(_ context.Context, id string) (entity.PricingRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rule, ok := s.rules[id]
	if !ok {
		return entity.PricingRule{}, ruleNotFound(id)
	}

	rule.IsActive = !rule.IsActive
	rule.UpdatedAt = s.now()
	s.rules[id] = rule
	s.metrics.setActiveRules(s.activeRulesLocked())

	return rule.Clone(), nil
}

// sortedRulesLocked orders by priority, highest first, then by creation.
func (s *Service) sortedRulesLocked(onlyActive bool) []entity.PricingRule {
	rules := make([]entity.PricingRule, 0, len(s.rules))

	for _, r := range s.rules {
		if onlyActive && !r.IsActive {
			continue
		}

		rules = append(rules, r.Clone())
	}

	slices.SortFunc(rules, func(a, b entity.PricingRule) int {
		return cmp.Or(cmp.Compare(b.Priority, a.Priority), cmp.Compare(a.Seq, b.Seq))
	})

	return rules
}

func (s *Service) activeRulesLocked() int {
	return lo.CountBy(lo.Values(s.rules), func(r entity.PricingRule) bool { return r.IsActive })
}

func ruleNotFound(id string) error {
	return domain.Errorf(errcodes.RuleNotFound, "pricing rule %s not found", id)
}

func normalizeUnits(actions []entity.PricingAction) {
	for i := range actions {
		if actions[i].Unit == "" {
			actions[i].Unit = value.UnitPercentage
		}
	}
}

func validateRule(rule entity.PricingRule) error {
	if strings.TrimSpace(rule.Name) == "" {
		return domain.NewError(errcodes.InvalidRule, "rule name is required")
	}

	if len(rule.Actions) == 0 {
		return domain.NewError(errcodes.InvalidRule, "rule must have at least one action")
	}

	for i, c := range rule.Conditions {
		if _, err := value.ParseConditionType(string(c.Type)); err != nil {
			return domain.WrapError(err, errcodes.InvalidCondition, "condition has an unknown type")
		}

		if _, err := value.ParseOperator(string(c.Operator)); err != nil {
			return domain.WrapError(err, errcodes.InvalidCondition, "condition has an unknown operator")
		}

		if c.Type != value.ConditionCompetitorPrice && c.Value < 0 {
			return domain.Errorf(errcodes.InvalidCondition, "condition %d: value must not be negative", i+1)
		}
	}

	for i, a := range rule.Actions {
		if err := validateAction(i+1, a); err != nil {
			return err
		}
	}

	return nil
}

func validateAction(n int, a entity.PricingAction) error {
	if _, err := value.ParseActionType(string(a.Type)); err != nil {
		return domain.WrapError(err, errcodes.InvalidAction, "action has an unknown type")
	}

	unit, err := value.ParseUnit(string(a.Unit))
	if err != nil {
		return domain.WrapError(err, errcodes.InvalidAction, "action has an unknown unit")
	}

	switch a.Type {
	case value.ActionSetPrice:
		if a.Value <= 0 {
			return domain.Errorf(errcodes.InvalidAction, "action %d: price must be positive", n)
		}
	case value.ActionIncreasePrice, value.ActionDecreasePrice:
		if a.Value <= 0 {
			return domain.Errorf(errcodes.InvalidAction, "action %d: change must be positive", n)
		}

		if a.Type == value.ActionDecreasePrice && unit == value.UnitPercentage && a.Value >= 100 {
			return domain.Errorf(errcodes.InvalidAction, "action %d: decrease must be below 100%%", n)
		}
	case value.ActionMatchCompetitor:
	}

	if l := a.Limits; l != nil && l.MinPrice > 0 && l.MaxPrice > 0 && l.MinPrice > l.MaxPrice {
		return domain.Errorf(errcodes.InvalidAction, "action %d: minimum price exceeds maximum price", n)
	}

	return nil
}
