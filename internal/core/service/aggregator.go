package service

import (
	"context"

	"github.com/olusolaa/stack-drift-notifier/internal/core/domain"
	"github.com/olusolaa/stack-drift-notifier/internal/core/ports"
	"github.com/olusolaa/stack-drift-notifier/internal/errors"
)

// Aggregator reads the inventory again after polling, so the drift status
// recorded when each detection completed is picked up.
type Aggregator struct {
	inventory ports.StackInventory
	alerts    ports.AlertSink
	logger    ports.Logger
	metrics   ports.MetricsRecorder
	region    string
}

func NewAggregator(region string, inventory ports.StackInventory, alerts ports.AlertSink, logger ports.Logger, metrics ports.MetricsRecorder) *Aggregator {
	if metrics == nil {
		metrics = nopRecorder{}
	}
	return &Aggregator{
		inventory: inventory,
		alerts:    alerts,
		logger:    logger,
		metrics:   metrics,
		region:    region,
	}
}

// Report emits one line per stack outside the excluded sets. Drifted stacks
// are critical, everything else informational.
func (a *Aggregator) Report(ctx context.Context, excluded ...*domain.StackSet) ([]domain.StackReport, error) {
	stacks, err := a.inventory.ListActiveStacks(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodePlatformAPIError, "failed to re-read stacks for the drift report")
	}

	reports := make([]domain.StackReport, 0, len(stacks))
	drifted := 0
	for _, stack := range stacks {
		if isExcluded(stack.ID, excluded) {
			a.logger.Debugf(ctx, "Leaving stack %s out of the report", stack.Name)
			continue
		}

		rep := domain.StackReport{
			Region:      stack.Region,
			StackName:   stack.Name,
			StackID:     stack.ID,
			DriftStatus: stack.Drift.Status,
			LastChecked: stack.Drift.LastChecked,
			Severity:    domain.SeverityInfo,
		}
		if rep.Region == "" {
			rep.Region = a.region
		}

		if stack.Drift.Status == domain.DriftDrifted {
			drifted++
			rep.Severity = domain.SeverityCritical
			a.alerts.Critical(ctx, "Stack %s drift status: %s (last checked: %s)", stack.Name, stack.Drift.Status, stack.LastCheckedString())
		} else {
			a.alerts.Info(ctx, "Stack %s drift status: %s (last checked: %s)", stack.Name, stack.Drift.Status, stack.LastCheckedString())
		}
		reports = append(reports, rep)
	}

	a.metrics.StacksDrifted(a.region, drifted)
	return reports, nil
}

func isExcluded(id string, sets []*domain.StackSet) bool {
	for _, s := range sets {
		if s.Contains(id) {
			return true
		}
	}
	return false
}
