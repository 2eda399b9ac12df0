package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/olusolaa/stack-drift-notifier/internal/config"
	"github.com/olusolaa/stack-drift-notifier/internal/core/domain"
	"github.com/olusolaa/stack-drift-notifier/internal/core/ports"
	"github.com/olusolaa/stack-drift-notifier/internal/errors"
)

// DriftAuditEngine runs the drift pipeline once per configured region.
type DriftAuditEngine struct {
	factory  ports.ProviderFactory
	alerts   ports.AlertSink
	logger   ports.Logger
	metrics  ports.MetricsRecorder
	identity ports.IdentityResolver
	reporter ports.Reporter

	regions   []string
	parallel  bool
	detection config.DetectionConfig
	runID     string
	now       func() time.Time
	sleep     Sleeper
}

type EngineOption func(*DriftAuditEngine)

func WithIdentityResolver(r ports.IdentityResolver) EngineOption {
	return func(e *DriftAuditEngine) { e.identity = r }
}

func WithReporter(r ports.Reporter) EngineOption {
	return func(e *DriftAuditEngine) { e.reporter = r }
}

func WithMetrics(m ports.MetricsRecorder) EngineOption {
	return func(e *DriftAuditEngine) {
		if m != nil {
			e.metrics = m
		}
	}
}

func WithRunID(id string) EngineOption {
	return func(e *DriftAuditEngine) { e.runID = id }
}

func WithClock(now func() time.Time) EngineOption {
	return func(e *DriftAuditEngine) {
		if now != nil {
			e.now = now
		}
	}
}

func WithSleeper(s Sleeper) EngineOption {
	return func(e *DriftAuditEngine) {
		if s != nil {
			e.sleep = s
		}
	}
}

func NewDriftAuditEngine(factory ports.ProviderFactory, alerts ports.AlertSink, logger ports.Logger, cfg *config.Config, opts ...EngineOption) (*DriftAuditEngine, error) {
	if factory == nil {
		return nil, errors.New(errors.CodeConfigValidation, "provider factory cannot be nil")
	}
	if alerts == nil {
		return nil, errors.New(errors.CodeConfigValidation, "alert sink cannot be nil")
	}
	if cfg == nil || len(cfg.Regions) == 0 {
		return nil, errors.NewUserFacing(errors.CodeConfigValidation, "no regions configured", "Set regions in the configuration file or DRIFT_REGIONS.")
	}

	e := &DriftAuditEngine{
		factory:   factory,
		alerts:    alerts,
		logger:    logger,
		metrics:   nopRecorder{},
		regions:   append([]string(nil), cfg.Regions...),
		parallel:  cfg.Settings.Parallel,
		detection: cfg.Detection,
		now:       time.Now,
		sleep:     sleepContext,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Run audits every region. A region that fails never stops the others; the
// returned error combines the failed regions and the summary is always
// complete.
func (e *DriftAuditEngine) Run(ctx context.Context) (domain.RunSummary, error) {
	summary := domain.RunSummary{RunID: e.runID, StartedAt: e.now()}

	if e.identity != nil {
		accountID, err := e.identity.AccountID(ctx)
		if err != nil {
			e.logger.Warnf(ctx, "Proceeding without AWS account ID: %v", err)
		} else {
			summary.AccountID = accountID
		}
	}

	e.logger.Infof(ctx, "Starting drift audit of %d regions (parallel: %t)", len(e.regions), e.parallel)

	results := make([]domain.RegionResult, len(e.regions))
	if e.parallel {
		var g errgroup.Group
		for i, region := range e.regions {
			g.Go(func() error {
				results[i] = e.runRegion(ctx, region)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, region := range e.regions {
			results[i] = e.runRegion(ctx, region)
		}
	}
	summary.Regions = results

	var runErr error
	for _, r := range results {
		if r.Err != nil {
			runErr = multierr.Append(runErr, errors.Rewrap(r.Err, errors.CodeRegionFailed, fmt.Sprintf("region %s", r.Region)))
		}
	}

	if e.reporter != nil {
		if err := e.reporter.Report(ctx, summary); err != nil {
			e.logger.Errorf(ctx, err, "Failed to render run summary")
		}
	}

	if runErr != nil {
		e.logger.Errorf(ctx, runErr, "Drift audit finished with %d failed regions", len(summary.FailedRegions()))
		return summary, runErr
	}
	e.logger.Infof(ctx, "Drift audit finished: %d drifted stacks", summary.TotalDrifted())
	return summary, nil
}

func (e *DriftAuditEngine) runRegion(ctx context.Context, region string) (res domain.RegionResult) {
	logger := e.logger.WithFields(map[string]any{"region": region})
	alerts := e.alerts.ForRegion(region)
	start := e.now()

	defer func() {
		if r := recover(); r != nil {
			res = domain.RegionResult{
				Region: region,
				Err:    errors.Newf(errors.CodeInternal, "panic while auditing region %s: %v", region, r),
			}
		}
		res.Region = region
		res.Duration = e.now().Sub(start)
		if res.Err != nil {
			logger.Errorf(ctx, res.Err, "Drift audit failed for region")
			alerts.Critical(ctx, "Drift audit failed for region %s: %v", region, res.Err)
		}
		e.metrics.RegionCompleted(region, res.Err)
	}()

	provider, err := e.factory.ForRegion(ctx, region)
	if err != nil {
		return domain.RegionResult{Err: err}
	}

	pipeline := NewRegionPipeline(provider, alerts, logger, e.metrics, e.detection)
	pipeline.now = e.now
	pipeline.sleep = e.sleep
	return pipeline.Run(ctx)
}
