package json

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/olusolaa/stack-drift-notifier/internal/core/domain"
	"github.com/olusolaa/stack-drift-notifier/internal/core/ports"
)

const ReporterTypeJSON = "json"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Reporter struct {
	writer io.Writer
	logger ports.Logger
}

func NewReporter(logger ports.Logger) (*Reporter, error) {
	return NewReporterWithWriter(logger, os.Stdout), nil
}

func NewReporterWithWriter(logger ports.Logger, w io.Writer) *Reporter {
	return &Reporter{
		writer: w,
		logger: logger,
	}
}

type jsonReport struct {
	RunID     string       `json:"run_id,omitempty"`
	AccountID string       `json:"account_id,omitempty"`
	StartedAt time.Time    `json:"started_at"`
	Success   bool         `json:"success"`
	Summary   jsonSummary  `json:"summary"`
	Regions   []jsonRegion `json:"regions"`
}

type jsonSummary struct {
	Regions       int      `json:"regions"`
	FailedRegions []string `json:"failed_regions,omitempty"`
	Reported      int      `json:"stacks_reported"`
	Drifted       int      `json:"drifted"`
	Failed        int      `json:"detection_failed"`
	Incomplete    int      `json:"detection_incomplete"`
}

type jsonRegion struct {
	Region             string      `json:"region"`
	StacksEvaluated    int         `json:"stacks_evaluated"`
	JobsInitiated      int         `json:"jobs_initiated"`
	Conflicts          int         `json:"conflicts"`
	FailedStackIDs     []string    `json:"failed_stack_ids,omitempty"`
	IncompleteStackIDs []string    `json:"incomplete_stack_ids,omitempty"`
	DurationSeconds    float64     `json:"duration_seconds"`
	Error              string      `json:"error,omitempty"`
	Stacks             []jsonStack `json:"stacks"`
}

type jsonStack struct {
	Name        string             `json:"name"`
	ID          string             `json:"id"`
	DriftStatus domain.DriftStatus `json:"drift_status"`
	LastChecked *time.Time         `json:"last_checked,omitempty"`
	Severity    domain.Severity    `json:"severity"`
}

func (r *Reporter) Report(ctx context.Context, summary domain.RunSummary) error {
	report := jsonReport{
		RunID:     summary.RunID,
		AccountID: summary.AccountID,
		StartedAt: summary.StartedAt,
		Success:   summary.Success(),
		Summary: jsonSummary{
			Regions:       len(summary.Regions),
			FailedRegions: summary.FailedRegions(),
			Drifted:       summary.TotalDrifted(),
		},
		Regions: make([]jsonRegion, 0, len(summary.Regions)),
	}

	for _, rr := range summary.Regions {
		if ctx.Err() != nil {
			r.logger.Warnf(ctx, "JSON report generation cancelled.")
			return ctx.Err()
		}

		item := jsonRegion{
			Region:             rr.Region,
			StacksEvaluated:    rr.StacksEvaluated,
			JobsInitiated:      rr.JobsInitiated,
			Conflicts:          rr.Conflicts,
			FailedStackIDs:     rr.FailedStackIDs,
			IncompleteStackIDs: rr.IncompleteStackIDs,
			DurationSeconds:    rr.Duration.Seconds(),
			Stacks:             make([]jsonStack, 0, len(rr.Reports)),
		}
		if rr.Err != nil {
			item.Error = rr.Err.Error()
		}
		for _, rep := range rr.Reports {
			item.Stacks = append(item.Stacks, jsonStack{
				Name:        rep.StackName,
				ID:          rep.StackID,
				DriftStatus: rep.DriftStatus,
				LastChecked: rep.LastChecked,
				Severity:    rep.Severity,
			})
		}

		report.Summary.Reported += len(rr.Reports)
		report.Summary.Failed += len(rr.FailedStackIDs)
		report.Summary.Incomplete += len(rr.IncompleteStackIDs)
		report.Regions = append(report.Regions, item)
	}

	encoder := json.NewEncoder(r.writer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		r.logger.Errorf(ctx, err, "Failed to encode JSON report")
		return fmt.Errorf("failed to encode JSON report: %w", err)
	}

	r.logger.Debugf(ctx, "JSON report successfully generated.")
	return nil
}
