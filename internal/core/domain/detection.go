package domain

import "strings"

type DetectionStatus string

const (
	DetectionInProgress DetectionStatus = "IN_PROGRESS"
	DetectionSucceeded  DetectionStatus = "SUCCEEDED"
	DetectionFailed     DetectionStatus = "FAILED"
)

func (s DetectionStatus) IsTerminal() bool {
	return s == DetectionSucceeded || s == DetectionFailed
}

func (s DetectionStatus) String() string {
	return string(s)
}

// UnsupportedResourceMarker is emitted by CloudFormation in the failure reason
// when one or more resources in the stack cannot be drift-checked.
const UnsupportedResourceMarker = "Failed to detect drift on resource"

// Detection is one observation of a drift detection job.
type Detection struct {
	JobID   string
	StackID string
	Status  DetectionStatus
	Reason  string
}

// IsBenignFailure reports whether a failed detection only failed because of
// resources that do not support drift detection.
func (d Detection) IsBenignFailure() bool {
	return d.Status == DetectionFailed && strings.Contains(d.Reason, UnsupportedResourceMarker)
}

// DetectionJob is a submitted drift detection for one stack.
type DetectionJob struct {
	ID        string
	StackName string
	StackID   string
}

// PollOutcome classifies how polling for a job ended.
type PollOutcome string

const (
	OutcomeSucceeded     PollOutcome = "succeeded"
	OutcomeBenignFailure PollOutcome = "benign_failure"
	OutcomeFailed        PollOutcome = "failed"
	OutcomeIncomplete    PollOutcome = "incomplete"
)
