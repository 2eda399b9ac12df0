package errors

import (
	"context"
	"fmt"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olusolaa/stack-drift-notifier/internal/errors"
)

// mockAPIError implements smithy.APIError.
type mockAPIError struct {
	errorCode string
	errorMsg  string
}

func (m *mockAPIError) Error() string {
	return fmt.Sprintf("api error %s: %s", m.errorCode, m.errorMsg)
}

func (m *mockAPIError) ErrorCode() string {
	return m.errorCode
}

func (m *mockAPIError) ErrorMessage() string {
	return m.errorMsg
}

func (m *mockAPIError) ErrorFault() smithy.ErrorFault {
	return smithy.FaultUnknown
}

func canceledContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}

func TestHandleAWSError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		ctx          context.Context
		expectedCode errors.Code
		userFacing   bool
	}{
		{
			name:         "nil error",
			err:          nil,
			ctx:          context.Background(),
			expectedCode: errors.CodeInternal,
		},
		{
			name:         "context canceled",
			err:          fmt.Errorf("some error"),
			ctx:          canceledContext(),
			expectedCode: errors.CodeTimeout,
		},
		{
			name:         "wrapped deadline exceeded",
			err:          fmt.Errorf("operation error: %w", context.DeadlineExceeded),
			ctx:          context.Background(),
			expectedCode: errors.CodeTimeout,
		},
		{
			name:         "detection already in progress",
			err:          &mockAPIError{errorCode: "ValidationError", errorMsg: "Drift detection is already in progress for stack app"},
			ctx:          context.Background(),
			expectedCode: errors.CodeDetectionInProgress,
		},
		{
			name:         "access denied",
			err:          &mockAPIError{errorCode: "AccessDenied", errorMsg: "not authorized to perform cloudformation:DetectStackDrift"},
			ctx:          context.Background(),
			expectedCode: errors.CodePlatformAuthError,
			userFacing:   true,
		},
		{
			name:         "throttling",
			err:          &mockAPIError{errorCode: "Throttling", errorMsg: "Rate exceeded"},
			ctx:          context.Background(),
			expectedCode: errors.CodePlatformThrottled,
		},
		{
			name:         "stack does not exist",
			err:          &mockAPIError{errorCode: "ValidationError", errorMsg: "Stack with id app does not exist"},
			ctx:          context.Background(),
			expectedCode: errors.CodeResourceNotFound,
		},
		{
			name:         "generic api error",
			err:          &mockAPIError{errorCode: "InternalFailure", errorMsg: "boom"},
			ctx:          context.Background(),
			expectedCode: errors.CodePlatformAPIError,
		},
		{
			name:         "plain error",
			err:          fmt.Errorf("connection reset"),
			ctx:          context.Background(),
			expectedCode: errors.CodePlatformAPIError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := HandleAWSError(tt.ctx, "CloudFormation", "DetectStackDrift", tt.err)

			require.Error(t, err)
			assert.Equal(t, tt.expectedCode, errors.GetCode(err))
			_, _, userFacing := errors.GetUserFacingMessage(err)
			assert.Equal(t, tt.userFacing, userFacing)
			if tt.err != nil && tt.expectedCode != errors.CodeTimeout {
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}
}

func TestIsDetectionInProgress(t *testing.T) {
	assert.True(t, IsDetectionInProgress(&mockAPIError{errorCode: "ValidationError", errorMsg: "Drift detection is already in progress for stack x"}))
	assert.True(t, IsDetectionInProgress(fmt.Errorf("Drift detection is Already In Progress")))
	assert.False(t, IsDetectionInProgress(&mockAPIError{errorCode: "ValidationError", errorMsg: "Stack x does not exist"}))
	assert.False(t, IsDetectionInProgress(nil))
}

func TestThrottleErrorCodes_ReturnsCopy(t *testing.T) {
	codes := ThrottleErrorCodes()
	require.NotEmpty(t, codes)
	codes[0] = "mutated"
	assert.NotEqual(t, "mutated", ThrottleErrorCodes()[0])
}

func TestDefaultErrorHandler(t *testing.T) {
	h := &DefaultErrorHandler{}
	err := h.Handle(context.Background(), "SNS", "Publish", &mockAPIError{errorCode: "Throttling", errorMsg: "slow down"})
	assert.True(t, errors.Is(err, errors.CodePlatformThrottled))
}
