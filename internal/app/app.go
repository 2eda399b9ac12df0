package app

import (
	"context"
	"io"

	"github.com/olusolaa/stack-drift-notifier/internal/config"
	"github.com/olusolaa/stack-drift-notifier/internal/core/domain"
	"github.com/olusolaa/stack-drift-notifier/internal/core/ports"
)

// TextfileWriter persists run metrics for a node_exporter textfile collector.
type TextfileWriter interface {
	WriteTextfile(path string) error
}

// Application is one fully wired drift audit run.
type Application struct {
	Engine  ports.DriftAuditEngine
	Logger  ports.Logger
	Config  *config.Config
	Metrics TextfileWriter
	RunID   string

	closer io.Closer
}

func NewApplication(engine ports.DriftAuditEngine, logger ports.Logger) *Application {
	return &Application{
		Engine: engine,
		Logger: logger,
	}
}

// Run executes the audit. The summary is returned even when some regions
// failed.
func (a *Application) Run(ctx context.Context) (domain.RunSummary, error) {
	a.Logger.Infof(ctx, "Starting stack drift audit...")

	summary, err := a.Engine.Run(ctx)
	a.flushMetrics(ctx)

	if err != nil {
		a.Logger.Errorf(ctx, err, "Stack drift audit finished with errors")
		return summary, err
	}

	a.Logger.Infof(ctx, "Stack drift audit completed successfully")
	return summary, nil
}

func (a *Application) flushMetrics(ctx context.Context) {
	if a.Metrics == nil || a.Config == nil || a.Config.Metrics.Textfile == "" {
		return
	}
	if err := a.Metrics.WriteTextfile(a.Config.Metrics.Textfile); err != nil {
		a.Logger.Warnf(ctx, "Failed to write metrics textfile %s: %v", a.Config.Metrics.Textfile, err)
		return
	}
	a.Logger.Debugf(ctx, "Metrics written to %s", a.Config.Metrics.Textfile)
}

// Close releases the log file, if any.
func (a *Application) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}
