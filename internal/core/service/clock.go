package service

import (
	"context"
	"time"

	"github.com/olusolaa/stack-drift-notifier/internal/core/domain"
)

// Sleeper blocks for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type nopRecorder struct{}

func (nopRecorder) StacksEvaluated(string, int)                 {}
func (nopRecorder) DetectionInitiated(string)                   {}
func (nopRecorder) DetectionConflict(string)                    {}
func (nopRecorder) DetectionOutcome(string, domain.PollOutcome) {}
func (nopRecorder) StacksDrifted(string, int)                   {}
func (nopRecorder) RegionCompleted(string, error)               {}
