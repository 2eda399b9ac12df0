package cloudformation

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	cfntypes "github.com/aws/aws-sdk-go-v2/service/cloudformation/types"

	"github.com/olusolaa/stack-drift-notifier/internal/core/domain"
	apperrors "github.com/olusolaa/stack-drift-notifier/internal/errors"
)

func activeStatusFilter() []cfntypes.StackStatus {
	active := domain.ActiveStackStatuses()
	out := make([]cfntypes.StackStatus, 0, len(active))
	for _, s := range active {
		out = append(out, cfntypes.StackStatus(s))
	}
	return out
}

func mapStackSummary(summary cfntypes.StackSummary, region string) (domain.Stack, error) {
	name := aws.ToString(summary.StackName)
	if name == "" {
		return domain.Stack{}, apperrors.New(apperrors.CodePlatformAPIError, "stack summary without StackName")
	}

	stack := domain.Stack{
		Name:   name,
		ID:     aws.ToString(summary.StackId),
		Region: region,
		Status: domain.StackStatus(summary.StackStatus),
		Drift:  domain.DriftInfo{Status: domain.DriftNotChecked},
	}
	if di := summary.DriftInformation; di != nil {
		stack.Drift.Status = mapDriftStatus(di.StackDriftStatus)
		if di.LastCheckTimestamp != nil {
			ts := *di.LastCheckTimestamp
			stack.Drift.LastChecked = &ts
		}
	}
	return stack, nil
}

func mapDriftStatus(s cfntypes.StackDriftStatus) domain.DriftStatus {
	switch s {
	case cfntypes.StackDriftStatusDrifted:
		return domain.DriftDrifted
	case cfntypes.StackDriftStatusInSync:
		return domain.DriftInSync
	case cfntypes.StackDriftStatusNotChecked, "":
		return domain.DriftNotChecked
	default:
		return domain.DriftUnknown
	}
}

func mapDetectionStatus(jobID string, out *cloudformation.DescribeStackDriftDetectionStatusOutput) (domain.Detection, error) {
	if out == nil {
		return domain.Detection{}, apperrors.New(apperrors.CodePlatformAPIError, "empty DescribeStackDriftDetectionStatus response")
	}

	det := domain.Detection{
		JobID:   jobID,
		StackID: aws.ToString(out.StackId),
	}
	switch out.DetectionStatus {
	case cfntypes.StackDriftDetectionStatusDetectionInProgress:
		det.Status = domain.DetectionInProgress
	case cfntypes.StackDriftDetectionStatusDetectionComplete:
		det.Status = domain.DetectionSucceeded
	case cfntypes.StackDriftDetectionStatusDetectionFailed:
		det.Status = domain.DetectionFailed
		det.Reason = aws.ToString(out.DetectionStatusReason)
	default:
		return domain.Detection{}, apperrors.Newf(apperrors.CodePlatformAPIError,
			"unexpected detection status %q for job %s", out.DetectionStatus, jobID)
	}
	return det, nil
}
