package service

import (
	"context"
	"time"

	"github.com/olusolaa/stack-drift-notifier/internal/core/domain"
	"github.com/olusolaa/stack-drift-notifier/internal/core/ports"
	"github.com/olusolaa/stack-drift-notifier/internal/errors"
)

// DefaultStalenessThreshold is how old a drift check may be before a new
// detection is started.
const DefaultStalenessThreshold = 60 * time.Second

type InitiationResult struct {
	Jobs      []domain.DetectionJob
	Evaluated int
	Skipped   int
	Conflicts int
}

// Initiator decides which stacks need a fresh drift detection and submits it.
type Initiator struct {
	drift   ports.DriftService
	alerts  ports.AlertSink
	logger  ports.Logger
	metrics ports.MetricsRecorder
	region  string
	now     func() time.Time
}

func NewInitiator(region string, drift ports.DriftService, alerts ports.AlertSink, logger ports.Logger, metrics ports.MetricsRecorder) *Initiator {
	if metrics == nil {
		metrics = nopRecorder{}
	}
	return &Initiator{
		drift:   drift,
		alerts:  alerts,
		logger:  logger,
		metrics: metrics,
		region:  region,
		now:     time.Now,
	}
}

// NeedsDetection applies the staleness policy: never-checked stacks and
// stacks whose last check is older than now-threshold are due.
func NeedsDetection(stack domain.Stack, threshold time.Duration, now time.Time) bool {
	if stack.Drift.Status == domain.DriftNotChecked || stack.Drift.LastChecked == nil {
		return true
	}
	return stack.Drift.LastChecked.Before(now.Add(-threshold))
}

// Initiate submits a detection for every due stack, in input order. A stack
// that already has a detection running is reported and skipped; any other
// submission error aborts.
func (i *Initiator) Initiate(ctx context.Context, stacks []domain.Stack, threshold time.Duration) (InitiationResult, error) {
	res := InitiationResult{Jobs: make([]domain.DetectionJob, 0, len(stacks))}
	now := i.now()

	for _, stack := range stacks {
		res.Evaluated++
		if !NeedsDetection(stack, threshold, now) {
			res.Skipped++
			i.logger.Debugf(ctx, "Skipping stack %s, last drift check at %s", stack.Name, stack.LastCheckedString())
			continue
		}

		jobID, err := i.drift.DetectStackDrift(ctx, stack.Name)
		if err != nil {
			if errors.Is(err, errors.CodeDetectionInProgress) {
				res.Conflicts++
				i.metrics.DetectionConflict(i.region)
				i.alerts.Critical(ctx, "Drift detection is already in progress for stack %s", stack.Name)
				continue
			}
			return res, errors.Wrap(err, errors.CodePlatformAPIError, "failed to start drift detection for stack "+stack.Name)
		}

		i.metrics.DetectionInitiated(i.region)
		i.logger.Debugf(ctx, "Started drift detection %s for stack %s", jobID, stack.Name)
		res.Jobs = append(res.Jobs, domain.DetectionJob{
			ID:        jobID,
			StackName: stack.Name,
			StackID:   stack.ID,
		})
	}

	return res, nil
}
