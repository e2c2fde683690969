package pricing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"melidash/internal/domain"
	"melidash/internal/domain/entity"
	"melidash/internal/domain/service/pricing"
	"melidash/internal/domain/value"
	"melidash/pkg/errcodes"
)

func newTestService(products ...entity.Product) (*pricing.Service, *marketplaceMock) {
	marketplace := &marketplaceMock{products: products, updateErr: map[string]error{}}
	competitors := &competitorsMock{byProduct: map[string][]entity.CompetitorData{}}

	return pricing.NewService(marketplace, competitors), marketplace
}

func mustCreate(t *testing.T, svc *pricing.Service, rule entity.PricingRule) entity.PricingRule {
	t.Helper()

	created, err := svc.CreateRule(context.Background(), rule)
	require.NoError(t, err)

	return created
}

func decreaseRule(name string, priority int, percent float64) entity.PricingRule {
	return entity.PricingRule{
		Name:     name,
		Priority: priority,
		IsActive: true,
		Actions:  []entity.PricingAction{{Type: value.ActionDecreasePrice, Value: percent, Unit: value.UnitPercentage}},
	}
}

func TestExecuteRulesSignificantChangeRaisesAlert(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc, marketplace := newTestService(
		entity.Product{ID: "MLA1", Price: 100, AvailableQuantity: 3},
		entity.Product{ID: "MLA2", Price: 100, AvailableQuantity: 50},
	)

	publisher := &publisherMock{}
	notifier := &notifierMock{}
	svc.WithEventPublisher(publisher).WithAlertNotifier(notifier)

	rule := mustCreate(t, svc, entity.PricingRule{
		Name:       "clear low stock",
		IsActive:   true,
		Conditions: []entity.PricingCondition{{Type: value.ConditionStockLevel, Operator: value.OperatorLessThan, Value: 10}},
		Actions:    []entity.PricingAction{{Type: value.ActionIncreasePrice, Value: 20, Unit: value.UnitPercentage}},
	})

	executions, err := svc.RunAutomation(ctx, nil)
	rq.NoError(err)
	rq.Len(executions, 2)

	rq.Equal(value.ExecutionSuccess, executions[0].Status)
	rq.InDelta(120, executions[0].NewPrice, 1e-9)
	rq.Equal(value.ExecutionSkipped, executions[1].Status)
	rq.Equal("conditions not met: stock_level", executions[1].Reason)

	rq.Equal([]updateCall{{ID: "MLA1", Price: 120}}, marketplace.updates)

	alerts := svc.GetAlerts(ctx, true)
	rq.Len(alerts, 1)
	rq.Equal(value.AlertPriceChangeSignificant, alerts[0].Type)
	rq.Equal(value.SeverityMedium, alerts[0].Severity)
	rq.Equal(rule.ID, alerts[0].RuleID)

	// Notifier failures are logged, not surfaced.
	rq.Len(notifier.alerts, 1)
	rq.Len(publisher.executions, 2)

	stored, err := svc.GetRule(ctx, rule.ID)
	rq.NoError(err)
	rq.Equal(1, stored.ExecutionCount)
	rq.NotNil(stored.LastExecuted)
}

func TestExecuteRulesAlertThreshold(t *testing.T) {
	testCases := []struct {
		percent      float64
		wantAlert    bool
		wantSeverity value.Severity
	}{
		{percent: 15, wantAlert: false},
		{percent: 16, wantAlert: true, wantSeverity: value.SeverityMedium},
		{percent: 35, wantAlert: true, wantSeverity: value.SeverityHigh},
	}

	for _, tc := range testCases {
		rq := require.New(t)

		svc, _ := newTestService(entity.Product{ID: "MLA1", Price: 100})
		mustCreate(t, svc, decreaseRule("drop", 1, tc.percent))

		svc.ExecuteRules(context.Background(), []entity.Product{{ID: "MLA1", Price: 100}})

		alerts := svc.GetAlerts(context.Background(), false)
		if !tc.wantAlert {
			rq.Empty(alerts, "percent %v", tc.percent)
			continue
		}

		rq.Len(alerts, 1, "percent %v", tc.percent)
		rq.Equal(tc.wantSeverity, alerts[0].Severity)
	}
}

func TestExecuteRulesLimitsViolation(t *testing.T) {
	rq := require.New(t)

	svc, marketplace := newTestService(entity.Product{ID: "MLA1", Price: 100})

	rule := decreaseRule("floor", 1, 30)
	rule.Actions[0].Limits = &entity.PricingLimits{MinPrice: 80}
	mustCreate(t, svc, rule)

	executions := svc.ExecuteRules(context.Background(), []entity.Product{{ID: "MLA1", Price: 100}})
	rq.Len(executions, 1)
	rq.Equal(value.ExecutionFailed, executions[0].Status)
	rq.Contains(executions[0].Error, "below minimum price 80.00")
	rq.Empty(marketplace.updates)
	rq.Empty(svc.GetAlerts(context.Background(), false))
}

func TestExecuteRulesUpdateFailure(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc, marketplace := newTestService(entity.Product{ID: "MLA1", Price: 100})
	marketplace.updateErr["MLA1"] = errors.New("marketplace returned 503")
	mustCreate(t, svc, decreaseRule("small drop", 1, 5))

	executions := svc.ExecuteRules(ctx, []entity.Product{{ID: "MLA1", Price: 100}})
	rq.Len(executions, 1)
	rq.Equal(value.ExecutionFailed, executions[0].Status)
	rq.Equal("marketplace returned 503", executions[0].Error)

	alerts := svc.GetAlerts(ctx, true)
	rq.Len(alerts, 1)
	rq.Equal(value.AlertExecutionFailed, alerts[0].Type)

	// No retry within the run.
	rq.Empty(marketplace.updates)
}

func TestExecuteRulesPriorityAndSnapshot(t *testing.T) {
	rq := require.New(t)

	svc, _ := newTestService()

	low := mustCreate(t, svc, decreaseRule("low", 1, 10))
	high := mustCreate(t, svc, entity.PricingRule{
		Name:     "high",
		Priority: 5,
		IsActive: true,
		Actions:  []entity.PricingAction{{Type: value.ActionSetPrice, Value: 200}},
	})
	inactive := decreaseRule("inactive", 10, 50)
	inactive.IsActive = false
	mustCreate(t, svc, inactive)

	executions := svc.ExecuteRules(context.Background(), []entity.Product{{ID: "MLA1", Price: 100}})
	rq.Len(executions, 2)

	rq.Equal(high.ID, executions[0].RuleID)
	rq.InDelta(200, executions[0].NewPrice, 1e-9)

	rq.Equal(low.ID, executions[1].RuleID)
	rq.InDelta(200, executions[1].OldPrice, 1e-9)
	rq.InDelta(180, executions[1].NewPrice, 1e-9)
}

func TestExecuteRulesUnchangedPriceIsSkipped(t *testing.T) {
	rq := require.New(t)

	svc, marketplace := newTestService()
	mustCreate(t, svc, entity.PricingRule{
		Name:     "pin",
		IsActive: true,
		Actions:  []entity.PricingAction{{Type: value.ActionSetPrice, Value: 100}},
	})

	executions := svc.ExecuteRules(context.Background(), []entity.Product{{ID: "MLA1", Price: 100}})
	rq.Len(executions, 1)
	rq.Equal(value.ExecutionSkipped, executions[0].Status)
	rq.Empty(marketplace.updates)
}

func TestExecutionHistoryOnlyGrows(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc, _ := newTestService(entity.Product{ID: "MLA1", Price: 100}, entity.Product{ID: "MLA2", Price: 40})
	mustCreate(t, svc, decreaseRule("drop", 1, 1))

	previous := []entity.PricingExecution{}

	for range 3 {
		_, err := svc.RunAutomation(ctx, nil)
		rq.NoError(err)

		history := svc.GetExecutionHistory(ctx, entity.ExecutionFilter{})
		rq.Len(history, len(previous)+2)
		rq.Equal(previous, history[:len(previous)])

		previous = history
	}

	rq.Len(svc.GetExecutionHistory(ctx, entity.ExecutionFilter{ProductID: "MLA2"}), 3)

	last := svc.GetExecutionHistory(ctx, entity.ExecutionFilter{Limit: 2})
	rq.Equal(previous[len(previous)-2:], last)
}

func TestRunAutomationUnknownProduct(t *testing.T) {
	svc, _ := newTestService(entity.Product{ID: "MLA1", Price: 100})

	_, err := svc.RunAutomation(context.Background(), []string{"MLA404"})
	require.True(t, domain.HasCode(err, errcodes.ProductNotFound))
}

func TestPreviewRuleDoesNotApply(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc, marketplace := newTestService(entity.Product{ID: "MLA1", Price: 100, AvailableQuantity: 2})

	rule := decreaseRule("preview", 1, 40)
	rule.Conditions = []entity.PricingCondition{{Type: value.ConditionStockLevel, Operator: value.OperatorLessThan, Value: 10}}
	rule.Actions[0].Limits = &entity.PricingLimits{MaxPercentageChange: 25}
	created := mustCreate(t, svc, rule)

	preview, err := svc.PreviewRule(ctx, created.ID, "MLA1")
	rq.NoError(err)
	rq.True(preview.Conditions.IsValid)
	rq.InDelta(60, preview.NewPrice, 1e-9)
	rq.False(preview.Limits.IsValid)

	rq.Empty(marketplace.updates)
	rq.Empty(svc.GetExecutionHistory(ctx, entity.ExecutionFilter{}))

	_, err = svc.PreviewRule(ctx, "missing", "MLA1")
	rq.True(domain.HasCode(err, errcodes.RuleNotFound))
}

func TestAlertsAndStats(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	registry := prometheus.NewRegistry()
	svc, marketplace := newTestService(
		entity.Product{ID: "MLA1", Price: 100},
		entity.Product{ID: "MLA2", Price: 100},
		entity.Product{ID: "MLA3", Price: 100},
	)
	svc.WithMetrics(pricing.NewMetrics(registry)).
		WithClock(func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) })
	marketplace.updateErr["MLA3"] = errors.New("timeout")

	mustCreate(t, svc, decreaseRule("big drop", 1, 20))

	_, err := svc.RunAutomation(ctx, nil)
	rq.NoError(err)

	stats := svc.GetStats(ctx)
	rq.Equal(1, stats.TotalRules)
	rq.Equal(1, stats.ActiveRules)
	rq.Equal(3, stats.TotalExecutions)
	rq.Equal(2, stats.SuccessfulExecutions)
	rq.Equal(1, stats.FailedExecutions)
	rq.InDelta(66.67, stats.SuccessRate, 1e-9)
	rq.InDelta(20, stats.AveragePriceChange, 1e-9)
	rq.Equal(3, stats.OpenAlerts)

	alerts := svc.GetAlerts(ctx, true)
	acked, err := svc.AcknowledgeAlert(ctx, alerts[0].ID)
	rq.NoError(err)
	rq.True(acked.Acknowledged)
	rq.Len(svc.GetAlerts(ctx, true), 2)
	rq.Len(svc.GetAlerts(ctx, false), 3)
	rq.Equal(2, svc.GetStats(ctx).OpenAlerts)

	_, err = svc.AcknowledgeAlert(ctx, "nope")
	rq.True(domain.HasCode(err, errcodes.AlertNotFound))

	alertSeries, err := testutil.GatherAndCount(registry, "melidash_pricing_alerts_total")
	rq.NoError(err)
	rq.Equal(2, alertSeries)

	executionSeries, err := testutil.GatherAndCount(registry, "melidash_pricing_executions_total")
	rq.NoError(err)
	rq.Equal(2, executionSeries)
}

func TestGetCompetitorData(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	marketplace := &marketplaceMock{products: []entity.Product{{ID: "MLA1", Price: 10}}}
	competitors := &competitorsMock{byProduct: map[string][]entity.CompetitorData{"MLA1": offers("MLA1", 9, 11)}}
	svc := pricing.NewService(marketplace, competitors)

	data, err := svc.GetCompetitorData(ctx, "MLA1", true)
	rq.NoError(err)
	rq.Len(data, 2)
	rq.Equal([]string{"MLA1"}, competitors.refreshed)

	_, err = svc.GetCompetitorData(ctx, "MLA2", false)
	rq.True(domain.HasCode(err, errcodes.ProductNotFound))
}
