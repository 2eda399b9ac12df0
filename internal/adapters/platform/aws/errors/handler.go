package errors

import (
	"context"
	stderrs "errors"
	"fmt"
	"strings"

	"github.com/aws/smithy-go"
	"github.com/olusolaa/stack-drift-notifier/internal/errors"
)

// detectionInProgressMessage is the text CloudFormation returns from
// DetectStackDrift when a detection for the same stack has not finished.
const detectionInProgressMessage = "already in progress"

var (
	authErrorCodes = []string{
		"AccessDenied",
		"AccessDeniedException",
		"UnauthorizedOperation",
		"AuthFailure",
		"ExpiredToken",
		"ExpiredTokenException",
		"InvalidClientTokenId",
		"UnrecognizedClientException",
		"SignatureDoesNotMatch",
	}
	throttleErrorCodes = []string{
		"Throttling",
		"ThrottlingException",
		"ThrottledException",
		"RequestLimitExceeded",
		"TooManyRequestsException",
		"RequestThrottled",
		"RequestThrottledException",
	}
	notFoundErrorCodes = []string{
		"NotFound",
		"NotFoundException",
		"ResourceNotFoundException",
		"StackNotFoundException",
	}
)

// ThrottleErrorCodes returns the error codes treated as throttling; the
// retryer adds them to its retryable set.
func ThrottleErrorCodes() []string {
	return append([]string(nil), throttleErrorCodes...)
}

// HandleAWSError maps err, returned by operation on service, to an AppError.
func HandleAWSError(ctx context.Context, service, operation string, err error) error {
	if err == nil {
		return errors.New(errors.CodeInternal, fmt.Sprintf("unexpected nil error in AWS error handler for %s:%s", service, operation))
	}

	if ctx != nil && ctx.Err() != nil {
		return errors.Wrap(ctx.Err(), errors.CodeTimeout,
			fmt.Sprintf("context done during AWS %s %s call", service, operation))
	}
	if stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return errors.Wrap(err, errors.CodeTimeout,
			fmt.Sprintf("context done during AWS %s %s call", service, operation))
	}

	code := errorCode(err)
	msg := err.Error()

	switch {
	case IsDetectionInProgress(err):
		return errors.Rewrap(err, errors.CodeDetectionInProgress,
			fmt.Sprintf("%s %s: drift detection already in progress", service, operation))
	case containsCode(authErrorCodes, code) || containsAny(msg, "AuthFailure", "UnauthorizedOperation", "AccessDenied"):
		return errors.WrapUserFacing(err, errors.CodePlatformAuthError,
			fmt.Sprintf("AWS authorization error calling %s %s", service, operation),
			"Check the AWS profile or execution role permissions for cloudformation:ListStacks, cloudformation:DetectStackDrift, cloudformation:DescribeStackDriftDetectionStatus and sns:Publish.")
	case containsCode(throttleErrorCodes, code):
		return errors.Rewrap(err, errors.CodePlatformThrottled,
			fmt.Sprintf("AWS %s %s throttled after retries", service, operation))
	case isNotFoundError(code, msg):
		return errors.Rewrap(err, errors.CodeResourceNotFound,
			fmt.Sprintf("AWS %s %s: resource not found", service, operation))
	}

	return errors.Rewrap(err, errors.CodePlatformAPIError,
		fmt.Sprintf("AWS %s %s call failed", service, operation))
}

// IsDetectionInProgress reports whether err is CloudFormation's rejection of a
// duplicate drift detection.
func IsDetectionInProgress(err error) bool {
	if err == nil {
		return false
	}
	var apiErr smithy.APIError
	if stderrs.As(err, &apiErr) {
		return strings.Contains(strings.ToLower(apiErr.ErrorMessage()), detectionInProgressMessage)
	}
	return strings.Contains(strings.ToLower(err.Error()), detectionInProgressMessage)
}

func errorCode(err error) string {
	var apiErr smithy.APIError
	if stderrs.As(err, &apiErr) && apiErr != nil {
		return apiErr.ErrorCode()
	}
	if coded, ok := err.(interface{ ErrorCode() string }); ok {
		return coded.ErrorCode()
	}
	return ""
}

func isNotFoundError(code, msg string) bool {
	if containsCode(notFoundErrorCodes, code) {
		return true
	}
	return code == "ValidationError" && strings.Contains(msg, "does not exist")
}

func containsCode(codes []string, code string) bool {
	if code == "" {
		return false
	}
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// DefaultErrorHandler implements shared.ErrorHandler.
type DefaultErrorHandler struct{}

func (d *DefaultErrorHandler) Handle(ctx context.Context, service, operation string, err error) error {
	return HandleAWSError(ctx, service, operation, err)
}
