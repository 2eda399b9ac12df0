package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/viper"

	"github.com/olusolaa/stack-drift-notifier/internal/adapters/platform/aws"
	"github.com/olusolaa/stack-drift-notifier/internal/adapters/platform/aws/shared"
	"github.com/olusolaa/stack-drift-notifier/internal/config"
	"github.com/olusolaa/stack-drift-notifier/internal/core/ports"
	"github.com/olusolaa/stack-drift-notifier/internal/core/service"
	"github.com/olusolaa/stack-drift-notifier/internal/errors"
	"github.com/olusolaa/stack-drift-notifier/internal/log"
	"github.com/olusolaa/stack-drift-notifier/internal/notify"
	jsonreporter "github.com/olusolaa/stack-drift-notifier/internal/reporting/json"
	"github.com/olusolaa/stack-drift-notifier/internal/reporting/text"
	"github.com/olusolaa/stack-drift-notifier/internal/telemetry"
)

const ReporterTypeNone = "none"

// BuildApplicationFromViper loads the configuration held by v and wires every
// component of a run.
func BuildApplicationFromViper(ctx context.Context, v *viper.Viper) (*Application, error) {
	cfg, err := config.Load(ctx, v)
	if err != nil {
		return nil, err
	}
	return BuildApplication(ctx, cfg)
}

func BuildApplication(ctx context.Context, cfg *config.Config) (*Application, error) {
	logger, closer, err := initLogger(cfg)
	if err != nil {
		return nil, err
	}
	runID := uuid.NewString()
	logger = logger.WithFields(map[string]any{"run_id": runID})
	logger.Infof(ctx, "Logger initialized (Level: %s, Format: %s)", cfg.Settings.LogLevel, cfg.Settings.LogFormat)

	app, err := wire(ctx, cfg, logger, runID)
	if err != nil {
		_ = closer.Close()
		return nil, err
	}
	app.closer = closer
	return app, nil
}

func initLogger(cfg *config.Config) (ports.Logger, io.Closer, error) {
	logger, closer, err := log.NewLogger(log.Config{
		Level:    cfg.Settings.LogLevel,
		Format:   cfg.Settings.LogFormat,
		FilePath: cfg.Settings.LogFile,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to initialize logger: %v\n", err)
		return nil, nil, errors.Wrap(err, errors.CodeInternal, "logger initialization failed")
	}
	return logger, closer, nil
}

func wire(ctx context.Context, cfg *config.Config, logger ports.Logger, runID string) (*Application, error) {
	provLog := logger.WithFields(map[string]any{"provider": shared.ProviderTypeAWS})
	provider, err := aws.NewProvider(ctx, cfg.AWS, provLog)
	if err != nil {
		return nil, err
	}
	provLog.Infof(ctx, "Using AWS provider (profile: %q, max attempts: %d, rps: %d)",
		cfg.AWS.Profile, cfg.AWS.MaxAttempts, cfg.AWS.RateLimitRPS)

	notifier, err := initNotifier(ctx, cfg, provider, logger)
	if err != nil {
		return nil, err
	}
	sink := notify.NewSink(logger, notifier, cfg.Notification.Subject)

	metrics := telemetry.NewMetrics()

	reporter, err := initReporter(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	opts := []service.EngineOption{
		service.WithIdentityResolver(provider),
		service.WithMetrics(metrics),
		service.WithRunID(runID),
	}
	if reporter != nil {
		opts = append(opts, service.WithReporter(reporter))
	}

	engine, err := service.NewDriftAuditEngine(provider, sink, logger.WithFields(map[string]any{"component": "engine"}), cfg, opts...)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to initialize drift audit engine")
	}

	logger.Infof(ctx, "Application bootstrap complete (%d regions)", len(cfg.Regions))
	return &Application{
		Engine:  engine,
		Logger:  logger,
		Config:  cfg,
		Metrics: metrics,
		RunID:   runID,
	}, nil
}

// initNotifier returns nil in dry run mode so critical lines stay local.
func initNotifier(ctx context.Context, cfg *config.Config, provider *aws.Provider, logger ports.Logger) (ports.Notifier, error) {
	if cfg.Settings.DryRun {
		logger.Warnf(ctx, "Dry run: critical notifications will not be published")
		return nil, nil
	}
	pub, err := provider.NewNotifier(cfg.Notification.TopicARN)
	if err != nil {
		return nil, errors.WrapUserFacing(err, errors.CodeConfigValidation, "failed to initialize SNS notifier",
			"Check that notification.topic_arn (DRIFT_NOTIFICATION_TOPIC_ARN) is a valid SNS topic ARN.")
	}
	logger.Infof(ctx, "Publishing critical notifications to %s", pub.TopicARN())
	return pub, nil
}

func initReporter(ctx context.Context, cfg *config.Config, logger ports.Logger) (ports.Reporter, error) {
	reportLog := logger.WithFields(map[string]any{"component": "reporter", "type": cfg.Settings.ReporterType})
	switch cfg.Settings.ReporterType {
	case text.ReporterTypeText, "":
		r, err := text.NewReporter(text.Config{NoColor: cfg.Settings.NoColor}, reportLog)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, "failed to initialize Text reporter")
		}
		reportLog.Debugf(ctx, "Using Text reporter (Color: %t)", !cfg.Settings.NoColor)
		return r, nil
	case jsonreporter.ReporterTypeJSON:
		r, err := jsonreporter.NewReporter(reportLog)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, "failed to initialize JSON reporter")
		}
		return r, nil
	case ReporterTypeNone:
		return nil, nil
	default:
		return nil, errors.NewUserFacing(errors.CodeConfigValidation,
			fmt.Sprintf("unsupported reporter type: %s", cfg.Settings.ReporterType), "Supported: text, json, none")
	}
}
