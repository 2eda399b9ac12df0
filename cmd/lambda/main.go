package main

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/olusolaa/stack-drift-notifier/internal/app"
	"github.com/olusolaa/stack-drift-notifier/internal/config"
	"github.com/olusolaa/stack-drift-notifier/internal/core/domain"
)

// Response is returned to the scheduler invoking the function.
type Response struct {
	RunID         string   `json:"run_id"`
	Success       bool     `json:"success"`
	FailedRegions []string `json:"failed_regions,omitempty"`
	Drifted       int      `json:"drifted"`
}

// handle ignores the triggering event; configuration comes from DRIFT_*
// environment variables. Only bootstrap failures, which happen before any
// alert is sent, are returned as errors.
func handle(ctx context.Context, _ json.RawMessage) (Response, error) {
	v := config.NewViper()
	// Lambda output lands in CloudWatch, where colour codes are noise.
	v.SetDefault("settings.no_color", true)
	v.SetDefault("settings.log_format", "json")
	v.SetDefault("settings.reporter", "json")

	application, err := app.BuildApplicationFromViper(ctx, v)
	if err != nil {
		return Response{}, err
	}
	defer application.Close()

	summary, _ := application.Run(ctx)
	return newResponse(application.RunID, summary), nil
}

// newResponse reports region failures in the body only. Scheduled invocations
// are asynchronous and Lambda retries those that return an error, which would
// publish every alert of the run again.
func newResponse(runID string, summary domain.RunSummary) Response {
	return Response{
		RunID:         runID,
		Success:       summary.Success(),
		FailedRegions: summary.FailedRegions(),
		Drifted:       summary.TotalDrifted(),
	}
}

func main() {
	lambda.Start(handle)
}
