package service

import (
	"context"
	stderrs "errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/olusolaa/stack-drift-notifier/internal/core/domain"
	"github.com/olusolaa/stack-drift-notifier/internal/core/ports"
	"github.com/olusolaa/stack-drift-notifier/internal/errors"
)

const (
	DefaultMaxTries        = 3
	DefaultBackoff         = 3 * time.Second
	DefaultPollConcurrency = 10
)

type PollerConfig struct {
	MaxTries    int
	Backoff     time.Duration
	Concurrency int
}

// PollResult holds the stacks that must be left out of the report.
type PollResult struct {
	Failed     *domain.StackSet
	Incomplete *domain.StackSet
	Outcomes   map[string]domain.PollOutcome
}

type jobPoll struct {
	job       domain.DetectionJob
	detection domain.Detection
	polls     int
	err       error
}

// Poller waits for submitted detections to finish. Each job runs its own
// linear backoff; jobs are polled concurrently.
type Poller struct {
	drift   ports.DriftService
	alerts  ports.AlertSink
	logger  ports.Logger
	metrics ports.MetricsRecorder
	region  string
	cfg     PollerConfig
	sleep   Sleeper
}

func NewPoller(region string, drift ports.DriftService, alerts ports.AlertSink, logger ports.Logger, metrics ports.MetricsRecorder, cfg PollerConfig) *Poller {
	if cfg.MaxTries < 0 {
		cfg.MaxTries = DefaultMaxTries
	}
	if cfg.Backoff < 0 {
		cfg.Backoff = DefaultBackoff
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultPollConcurrency
	}
	if metrics == nil {
		metrics = nopRecorder{}
	}
	return &Poller{
		drift:   drift,
		alerts:  alerts,
		logger:  logger,
		metrics: metrics,
		region:  region,
		cfg:     cfg,
		sleep:   sleepContext,
	}
}

// Poll returns once every job is terminal or has used up its attempts.
func (p *Poller) Poll(ctx context.Context, jobs []domain.DetectionJob) PollResult {
	polls := make([]jobPoll, len(jobs))

	var g errgroup.Group
	g.SetLimit(p.cfg.Concurrency)
	for i, job := range jobs {
		g.Go(func() error {
			det, n, err := p.pollJob(ctx, job)
			polls[i] = jobPoll{job: job, detection: det, polls: n, err: err}
			return nil
		})
	}
	_ = g.Wait()

	res := PollResult{
		Failed:     domain.NewStackSet(),
		Incomplete: domain.NewStackSet(),
		Outcomes:   make(map[string]domain.PollOutcome, len(jobs)),
	}
	for _, jp := range polls {
		outcome := p.classify(ctx, jp, res)
		res.Outcomes[jp.job.ID] = outcome
		p.metrics.DetectionOutcome(p.region, outcome)
	}
	return res
}

// pollJob describes the job until it is terminal. After the n-th
// non-terminal poll it sleeps backoff*n, giving up once n exceeds MaxTries,
// so a job is described at most MaxTries+1 times.
func (p *Poller) pollJob(ctx context.Context, job domain.DetectionJob) (domain.Detection, int, error) {
	var last domain.Detection
	for attempt := 1; ; attempt++ {
		det, err := p.drift.DescribeDetection(ctx, job.ID)
		if err != nil {
			return last, attempt, err
		}
		last = det
		if det.Status.IsTerminal() || attempt > p.cfg.MaxTries {
			return det, attempt, nil
		}

		wait := p.cfg.Backoff * time.Duration(attempt)
		p.logger.Debugf(ctx, "Detection %s for stack %s still in progress, retrying in %s", job.ID, job.StackName, wait)
		if err := p.sleep(ctx, wait); err != nil {
			return last, attempt, err
		}
	}
}

func (p *Poller) classify(ctx context.Context, jp jobPoll, res PollResult) domain.PollOutcome {
	stackID := jp.detection.StackID
	if stackID == "" {
		stackID = jp.job.StackID
	}

	if jp.err != nil {
		if isInterrupted(jp.err) {
			res.Incomplete.Add(stackID)
			p.logger.Warnf(ctx, "Drift detection for stack %s interrupted after %d polls: %v", jp.job.StackName, jp.polls, jp.err)
			return domain.OutcomeIncomplete
		}
		if res.Failed.Add(stackID) {
			failure := errors.Rewrap(jp.err, errors.CodeDetectionFailed, "drift detection status could not be read")
			p.logger.Errorf(ctx, failure, "Drift detection for stack %s failed", jp.job.StackName)
			p.alerts.Critical(ctx, "Drift detection status for stack %s could not be read: %v", stackID, jp.err)
		}
		return domain.OutcomeFailed
	}

	switch jp.detection.Status {
	case domain.DetectionSucceeded:
		p.logger.Debugf(ctx, "Drift detection for stack %s completed after %d polls", jp.job.StackName, jp.polls)
		return domain.OutcomeSucceeded
	case domain.DetectionFailed:
		if jp.detection.IsBenignFailure() {
			p.logger.Debugf(ctx, "Drift detection for stack %s skipped unsupported resources: %s", jp.job.StackName, jp.detection.Reason)
			return domain.OutcomeBenignFailure
		}
		if res.Failed.Add(stackID) {
			failure := errors.Newf(errors.CodeDetectionFailed, "drift detection failed: %s", jp.detection.Reason)
			p.logger.Errorf(ctx, failure, "Drift detection for stack %s failed", jp.job.StackName)
			p.alerts.Critical(ctx, "Drift detection failed for stack %s: %s", stackID, jp.detection.Reason)
		}
		return domain.OutcomeFailed
	default:
		res.Incomplete.Add(stackID)
		p.logger.Warnf(ctx, "Drift detection incomplete for stack %s after %d polls, excluding it from the report", jp.job.StackName, jp.polls)
		return domain.OutcomeIncomplete
	}
}

// isInterrupted covers cancellation, the deadline itself, and calls refused
// because they would outlast it.
func isInterrupted(err error) bool {
	return stderrs.Is(err, context.Canceled) ||
		stderrs.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, errors.CodeTimeout)
}
