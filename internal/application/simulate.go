package application

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/samber/lo"

	"melidash/internal/config"
	"melidash/internal/domain/entity"
	"melidash/internal/domain/service/pricing"
	"melidash/internal/domain/value"
	"melidash/internal/infrastructure/competitor"
	"melidash/internal/infrastructure/marketplace"
	"melidash/internal/infrastructure/mockdata"
)

type SimulationReport struct {
	Rules      []entity.PricingRule
	Executions []entity.PricingExecution
	Alerts     []entity.PricingAlert
}

// Simulate runs the configured rules once over the mock listings. Nothing
// outside the process is touched.
func Simulate(ctx context.Context, cfg config.Config, seed uint64) (SimulationReport, error) {
	presets, err := loadRulePresets(cfg.Pricing.RulesFile)
	if err != nil {
		return SimulationReport{}, err
	}

	source := competitor.NewSource(competitor.NewMemoryCache(cfg.Redis.CompetitorTTL)).WithSeed(seed)

	svc := pricing.NewService(marketplace.NewMemory(mockdata.Products(time.Now())), source).
		WithCostBasisRatio(cfg.Pricing.CostBasisRatio).
		WithAlertThreshold(cfg.Pricing.AlertThreshold)

	rules, err := SeedRules(ctx, svc, presets)
	if err != nil {
		return SimulationReport{}, err
	}

	executions, err := svc.RunAutomation(ctx, nil)
	if err != nil {
		return SimulationReport{}, fmt.Errorf("pricing.RunAutomation: %w", err)
	}

	return SimulationReport{
		Rules:      rules,
		Executions: executions,
		Alerts:     svc.GetAlerts(ctx, false),
	}, nil
}

func (r SimulationReport) Write(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "RULE\tPRODUCT\tSTATUS\tOLD\tNEW\tREASON")

	for _, e := range r.Executions {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%.2f\t%s\n", e.RuleName, e.ProductID, e.Status, e.OldPrice, e.NewPrice, e.Reason)
	}

	counts := lo.CountValuesBy(r.Executions, func(e entity.PricingExecution) value.ExecutionStatus { return e.Status })

	fmt.Fprintf(tw, "\n%d rules, %d executions: %d success, %d skipped, %d failed, %d alerts\n",
		len(r.Rules),
		len(r.Executions),
		counts[value.ExecutionSuccess],
		counts[value.ExecutionSkipped],
		counts[value.ExecutionFailed],
		len(r.Alerts),
	)

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("tabwriter.Flush: %w", err)
	}

	return nil
}
