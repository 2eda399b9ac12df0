package ports

import "github.com/olusolaa/stack-drift-notifier/internal/core/domain"

// MetricsRecorder receives pipeline counters. Implementations must be safe
// for concurrent use across regions.
type MetricsRecorder interface {
	StacksEvaluated(region string, n int)
	DetectionInitiated(region string)
	DetectionConflict(region string)
	DetectionOutcome(region string, outcome domain.PollOutcome)
	StacksDrifted(region string, n int)
	RegionCompleted(region string, err error)
}
