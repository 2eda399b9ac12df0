package domain

import "time"

// StackStatus mirrors the CloudFormation stack lifecycle status.
type StackStatus string

const (
	StackCreateInProgress                        StackStatus = "CREATE_IN_PROGRESS"
	StackCreateFailed                            StackStatus = "CREATE_FAILED"
	StackCreateComplete                          StackStatus = "CREATE_COMPLETE"
	StackRollbackInProgress                      StackStatus = "ROLLBACK_IN_PROGRESS"
	StackRollbackFailed                          StackStatus = "ROLLBACK_FAILED"
	StackRollbackComplete                        StackStatus = "ROLLBACK_COMPLETE"
	StackDeleteInProgress                        StackStatus = "DELETE_IN_PROGRESS"
	StackDeleteFailed                            StackStatus = "DELETE_FAILED"
	StackDeleteComplete                          StackStatus = "DELETE_COMPLETE"
	StackUpdateInProgress                        StackStatus = "UPDATE_IN_PROGRESS"
	StackUpdateCompleteCleanupInProgress         StackStatus = "UPDATE_COMPLETE_CLEANUP_IN_PROGRESS"
	StackUpdateComplete                          StackStatus = "UPDATE_COMPLETE"
	StackUpdateFailed                            StackStatus = "UPDATE_FAILED"
	StackUpdateRollbackInProgress                StackStatus = "UPDATE_ROLLBACK_IN_PROGRESS"
	StackUpdateRollbackFailed                    StackStatus = "UPDATE_ROLLBACK_FAILED"
	StackUpdateRollbackCompleteCleanupInProgress StackStatus = "UPDATE_ROLLBACK_COMPLETE_CLEANUP_IN_PROGRESS"
	StackUpdateRollbackComplete                  StackStatus = "UPDATE_ROLLBACK_COMPLETE"
	StackReviewInProgress                        StackStatus = "REVIEW_IN_PROGRESS"
	StackImportInProgress                        StackStatus = "IMPORT_IN_PROGRESS"
	StackImportComplete                          StackStatus = "IMPORT_COMPLETE"
	StackImportRollbackInProgress                StackStatus = "IMPORT_ROLLBACK_IN_PROGRESS"
	StackImportRollbackFailed                    StackStatus = "IMPORT_ROLLBACK_FAILED"
	StackImportRollbackComplete                  StackStatus = "IMPORT_ROLLBACK_COMPLETE"
)

// ActiveStackStatuses returns every status of a stack that still exists.
// A fresh slice is returned on each call.
func ActiveStackStatuses() []StackStatus {
	return []StackStatus{
		StackCreateInProgress,
		StackCreateFailed,
		StackCreateComplete,
		StackRollbackInProgress,
		StackRollbackFailed,
		StackRollbackComplete,
		StackUpdateInProgress,
		StackUpdateCompleteCleanupInProgress,
		StackUpdateComplete,
		StackUpdateFailed,
		StackUpdateRollbackInProgress,
		StackUpdateRollbackFailed,
		StackUpdateRollbackCompleteCleanupInProgress,
		StackUpdateRollbackComplete,
		StackReviewInProgress,
		StackImportInProgress,
		StackImportComplete,
		StackImportRollbackInProgress,
		StackImportRollbackFailed,
		StackImportRollbackComplete,
	}
}

func (s StackStatus) IsActive() bool {
	switch s {
	case StackDeleteInProgress, StackDeleteFailed, StackDeleteComplete, "":
		return false
	}
	return true
}

func (s StackStatus) String() string {
	return string(s)
}

type DriftStatus string

const (
	DriftNotChecked DriftStatus = "NOT_CHECKED"
	DriftInSync     DriftStatus = "IN_SYNC"
	DriftDrifted    DriftStatus = "DRIFTED"
	DriftUnknown    DriftStatus = "UNKNOWN"
)

func (d DriftStatus) String() string {
	return string(d)
}

// DriftInfo is the provider's drift metadata for a stack.
// LastChecked is nil when the stack has never been checked.
type DriftInfo struct {
	Status      DriftStatus
	LastChecked *time.Time
}

// Stack is a read-only snapshot of a stack as reported by the inventory service.
type Stack struct {
	Name   string
	ID     string
	Region string
	Status StackStatus
	Drift  DriftInfo
}

// LastCheckedString renders LastChecked for log lines.
func (s Stack) LastCheckedString() string {
	if s.Drift.LastChecked == nil {
		return "never"
	}
	return s.Drift.LastChecked.UTC().Format(time.RFC3339)
}
