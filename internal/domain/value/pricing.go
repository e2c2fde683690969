package value

import (
	"fmt"
	"slices"
)

type ConditionType string

const (
	ConditionCompetitorPrice ConditionType = "competitor_price"
	ConditionStockLevel      ConditionType = "stock_level"
	ConditionSalesVelocity   ConditionType = "sales_velocity"
	ConditionProfitMargin    ConditionType = "profit_margin"
	ConditionTimeBased       ConditionType = "time_based"
)

func ParseConditionType(s string) (ConditionType, error) {
	t := ConditionType(s)
	if !slices.Contains([]ConditionType{
		ConditionCompetitorPrice,
		ConditionStockLevel,
		ConditionSalesVelocity,
		ConditionProfitMargin,
		ConditionTimeBased,
	}, t) {
		return "", fmt.Errorf("unknown condition type %q", s)
	}

	return t, nil
}

type Operator string

const (
	OperatorLessThan     Operator = "less_than"
	OperatorGreaterThan  Operator = "greater_than"
	OperatorLessEqual    Operator = "less_equal"
	OperatorGreaterEqual Operator = "greater_equal"
	OperatorEquals       Operator = "equals"
)

func ParseOperator(s string) (Operator, error) {
	o := Operator(s)
	if !slices.Contains([]Operator{
		OperatorLessThan,
		OperatorGreaterThan,
		OperatorLessEqual,
		OperatorGreaterEqual,
		OperatorEquals,
	}, o) {
		return "", fmt.Errorf("unknown operator %q", s)
	}

	return o, nil
}

// Compare applies the operator as "left <op> right".
func (o Operator) Compare(left, right float64) (bool, error) {
	const epsilon = 1e-9

	switch o {
	case OperatorLessThan:
		return left < right, nil
	case OperatorGreaterThan:
		return left > right, nil
	case OperatorLessEqual:
		return left <= right, nil
	case OperatorGreaterEqual:
		return left >= right, nil
	case OperatorEquals:
		d := left - right
		return d < epsilon && d > -epsilon, nil
	default:
		return false, fmt.Errorf("unknown operator %q", string(o))
	}
}

type ActionType string

const (
	ActionIncreasePrice   ActionType = "increase_price"
	ActionDecreasePrice   ActionType = "decrease_price"
	ActionSetPrice        ActionType = "set_price"
	ActionMatchCompetitor ActionType = "match_competitor"
)

func ParseActionType(s string) (ActionType, error) {
	t := ActionType(s)
	if !slices.Contains([]ActionType{
		ActionIncreasePrice,
		ActionDecreasePrice,
		ActionSetPrice,
		ActionMatchCompetitor,
	}, t) {
		return "", fmt.Errorf("unknown action type %q", s)
	}

	return t, nil
}

type Unit string

const (
	UnitPercentage Unit = "percentage"
	UnitFixed      Unit = "fixed"
)

// ParseUnit defaults to percentage.
func ParseUnit(s string) (Unit, error) {
	switch Unit(s) {
	case "", UnitPercentage:
		return UnitPercentage, nil
	case UnitFixed:
		return UnitFixed, nil
	default:
		return "", fmt.Errorf("unknown unit %q", s)
	}
}

type ExecutionStatus string

const (
	ExecutionSuccess ExecutionStatus = "success"
	ExecutionFailed  ExecutionStatus = "failed"
	ExecutionSkipped ExecutionStatus = "skipped"
)

type AlertType string

const (
	AlertPriceChangeSignificant AlertType = "price_change_significant"
	AlertExecutionFailed        AlertType = "execution_failed"
)

type Severity string

const (
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)
