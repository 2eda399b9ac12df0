package aws

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"

	aws_errors "github.com/olusolaa/stack-drift-notifier/internal/adapters/platform/aws/errors"
)

const (
	defaultMaxAttempts = 5
	maxRetryBackoff    = 20 * time.Second
)

// NewRetryer returns the transport-level retry policy applied to every AWS
// call: the SDK standard retryer with exponential jitter backoff, extended
// with the throttling codes CloudFormation and SNS are known to return.
func NewRetryer(maxAttempts int) aws.Retryer {
	if maxAttempts < 1 {
		maxAttempts = defaultMaxAttempts
	}
	codes := make(map[string]struct{})
	for _, c := range aws_errors.ThrottleErrorCodes() {
		codes[c] = struct{}{}
	}
	return retry.NewStandard(func(o *retry.StandardOptions) {
		o.MaxAttempts = maxAttempts
		o.MaxBackoff = maxRetryBackoff
		o.Backoff = retry.NewExponentialJitterBackoff(maxRetryBackoff)
		o.Retryables = append(o.Retryables, retry.RetryableErrorCode{Codes: codes})
	})
}
