package service

import (
	"context"
	"time"

	"github.com/olusolaa/stack-drift-notifier/internal/config"
	"github.com/olusolaa/stack-drift-notifier/internal/core/domain"
	"github.com/olusolaa/stack-drift-notifier/internal/core/ports"
	"github.com/olusolaa/stack-drift-notifier/internal/errors"
)

// RegionPipeline runs inventory, initiation, polling and reporting for one
// region, strictly in that order.
type RegionPipeline struct {
	provider  ports.RegionProvider
	alerts    ports.AlertSink
	logger    ports.Logger
	metrics   ports.MetricsRecorder
	detection config.DetectionConfig
	now       func() time.Time
	sleep     Sleeper
}

func NewRegionPipeline(provider ports.RegionProvider, alerts ports.AlertSink, logger ports.Logger, metrics ports.MetricsRecorder, detection config.DetectionConfig) *RegionPipeline {
	if metrics == nil {
		metrics = nopRecorder{}
	}
	return &RegionPipeline{
		provider:  provider,
		alerts:    alerts,
		logger:    logger,
		metrics:   metrics,
		detection: detection,
		now:       time.Now,
		sleep:     sleepContext,
	}
}

func (p *RegionPipeline) Run(ctx context.Context) (res domain.RegionResult) {
	region := p.provider.Region()
	res.Region = region
	start := p.now()
	defer func() { res.Duration = p.now().Sub(start) }()

	stacks, err := p.provider.ListActiveStacks(ctx)
	if err != nil {
		res.Err = errors.Wrap(err, errors.CodePlatformAPIError, "failed to list stacks")
		return res
	}
	p.metrics.StacksEvaluated(region, len(stacks))
	p.logger.Infof(ctx, "Found %d active stacks", len(stacks))

	initiator := NewInitiator(region, p.provider, p.alerts, p.logger, p.metrics)
	initiator.now = p.now
	initiated, err := initiator.Initiate(ctx, stacks, p.detection.StalenessThreshold)
	res.StacksEvaluated = initiated.Evaluated
	res.JobsInitiated = len(initiated.Jobs)
	res.Conflicts = initiated.Conflicts
	if err != nil {
		res.Err = err
		return res
	}
	p.logger.Infof(ctx, "Started %d drift detections (%d recently checked, %d already running)",
		len(initiated.Jobs), initiated.Skipped, initiated.Conflicts)

	poller := NewPoller(region, p.provider, p.alerts, p.logger, p.metrics, PollerConfig{
		MaxTries:    p.detection.MaxTries,
		Backoff:     p.detection.Backoff,
		Concurrency: p.detection.PollConcurrency,
	})
	poller.sleep = p.sleep
	polled := poller.Poll(ctx, initiated.Jobs)
	res.FailedStackIDs = polled.Failed.IDs()
	res.IncompleteStackIDs = polled.Incomplete.IDs()

	aggregator := NewAggregator(region, p.provider, p.alerts, p.logger, p.metrics)
	reports, err := aggregator.Report(ctx, polled.Failed, polled.Incomplete)
	if err != nil {
		res.Err = err
		return res
	}
	res.Reports = reports
	return res
}
