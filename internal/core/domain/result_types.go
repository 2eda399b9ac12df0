package domain

import "time"

type Severity string

const (
	SeverityInfo     Severity = "INFO"
	SeverityCritical Severity = "CRITICAL"
)

// StackReport is one line of the drift report.
type StackReport struct {
	Region      string
	StackName   string
	StackID     string
	DriftStatus DriftStatus
	LastChecked *time.Time
	Severity    Severity
}

// RegionResult is the outcome of one region's pipeline.
type RegionResult struct {
	Region             string
	StacksEvaluated    int
	JobsInitiated      int
	Conflicts          int
	FailedStackIDs     []string
	IncompleteStackIDs []string
	Reports            []StackReport
	Duration           time.Duration
	Err                error
}

func (r RegionResult) Drifted() int {
	n := 0
	for _, rep := range r.Reports {
		if rep.DriftStatus == DriftDrifted {
			n++
		}
	}
	return n
}

// RunSummary aggregates every region of one invocation.
type RunSummary struct {
	RunID     string
	AccountID string
	StartedAt time.Time
	Regions   []RegionResult
}

func (s RunSummary) FailedRegions() []string {
	var out []string
	for _, r := range s.Regions {
		if r.Err != nil {
			out = append(out, r.Region)
		}
	}
	return out
}

func (s RunSummary) Success() bool {
	return len(s.FailedRegions()) == 0
}

func (s RunSummary) TotalDrifted() int {
	n := 0
	for _, r := range s.Regions {
		n += r.Drifted()
	}
	return n
}
