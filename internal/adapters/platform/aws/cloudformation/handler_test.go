package cloudformation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	cfntypes "github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/olusolaa/stack-drift-notifier/internal/adapters/platform/aws/limiter"
	sharedmocks "github.com/olusolaa/stack-drift-notifier/internal/adapters/platform/aws/shared/mocks"
	"github.com/olusolaa/stack-drift-notifier/internal/core/domain"
	portsmocks "github.com/olusolaa/stack-drift-notifier/internal/core/ports/mocks"
	apperrors "github.com/olusolaa/stack-drift-notifier/internal/errors"
	"github.com/olusolaa/stack-drift-notifier/mocks"
)

type CloudFormationHandlerTestSuite struct {
	suite.Suite
	mockCFN          *mocks.MockCloudFormationClient
	mockPaginator    *mocks.MockListStacksPaginator
	mockLimiter      *sharedmocks.RateLimiter
	mockErrorHandler *sharedmocks.ErrorHandler
	mockLogger       *portsmocks.Logger
	listInput        *cloudformation.ListStacksInput
	handler          *Handler
	ctx              context.Context
	cancel           context.CancelFunc
}

func (s *CloudFormationHandlerTestSuite) SetupTest() {
	s.mockCFN = new(mocks.MockCloudFormationClient)
	s.mockPaginator = new(mocks.MockListStacksPaginator)
	s.mockLimiter = sharedmocks.NewRateLimiter(s.T())
	s.mockErrorHandler = sharedmocks.NewErrorHandler(s.T())
	s.mockLogger = portsmocks.NewQuietLogger(s.T())
	s.ctx, s.cancel = context.WithTimeout(context.Background(), 5*time.Second)

	s.handler = NewHandler(aws.Config{Region: "eu-west-1"}, s.mockLogger,
		WithCloudFormationClient(s.mockCFN),
		WithRateLimiter(s.mockLimiter),
		WithErrorHandler(s.mockErrorHandler),
		WithPaginatorFactory(func(_ CloudFormationClientInterface, input *cloudformation.ListStacksInput) ListStacksPaginator {
			s.listInput = input
			return s.mockPaginator
		}),
	)
}

func (s *CloudFormationHandlerTestSuite) TearDownTest() {
	s.cancel()
	s.mockCFN.AssertExpectations(s.T())
}

func TestCloudFormationHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(CloudFormationHandlerTestSuite))
}

func passThrough(_ context.Context, _, _ string, err error) error {
	return err
}

func (s *CloudFormationHandlerTestSuite) TestRegion() {
	s.Equal("eu-west-1", s.handler.Region())
}

func (s *CloudFormationHandlerTestSuite) TestListActiveStacks_MultiplePages() {
	checked := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	s.mockPaginator.Pages = []*cloudformation.ListStacksOutput{
		{StackSummaries: []cfntypes.StackSummary{
			{
				StackName:   aws.String("app"),
				StackId:     aws.String("arn:aws:cloudformation:eu-west-1:111122223333:stack/app/1"),
				StackStatus: cfntypes.StackStatusCreateComplete,
				DriftInformation: &cfntypes.StackDriftInformationSummary{
					StackDriftStatus:   cfntypes.StackDriftStatusDrifted,
					LastCheckTimestamp: aws.Time(checked),
				},
			},
		}},
		{StackSummaries: []cfntypes.StackSummary{
			{
				StackName:   aws.String("db"),
				StackId:     aws.String("arn:aws:cloudformation:eu-west-1:111122223333:stack/db/2"),
				StackStatus: cfntypes.StackStatusUpdateComplete,
			},
		}},
	}
	s.mockLimiter.On("Wait", mock.Anything, s.mockLogger).Return(nil).Twice()

	stacks, err := s.handler.ListActiveStacks(s.ctx)

	s.Require().NoError(err)
	s.Require().Len(stacks, 2)
	s.Equal("app", stacks[0].Name)
	s.Equal("eu-west-1", stacks[0].Region)
	s.Equal(domain.DriftDrifted, stacks[0].Drift.Status)
	s.Require().NotNil(stacks[0].Drift.LastChecked)
	s.True(checked.Equal(*stacks[0].Drift.LastChecked))
	s.Equal("db", stacks[1].Name)
	s.Equal(domain.DriftNotChecked, stacks[1].Drift.Status)
	s.Nil(stacks[1].Drift.LastChecked)
}

func (s *CloudFormationHandlerTestSuite) TestListActiveStacks_FiltersDeletedStatuses() {
	s.mockPaginator.Pages = []*cloudformation.ListStacksOutput{{}}
	s.mockLimiter.On("Wait", mock.Anything, s.mockLogger).Return(nil).Once()

	_, err := s.handler.ListActiveStacks(s.ctx)

	s.Require().NoError(err)
	s.Require().NotNil(s.listInput)
	s.NotEmpty(s.listInput.StackStatusFilter)
	for _, st := range s.listInput.StackStatusFilter {
		s.NotContains([]cfntypes.StackStatus{
			cfntypes.StackStatusDeleteComplete,
			cfntypes.StackStatusDeleteInProgress,
			cfntypes.StackStatusDeleteFailed,
		}, st)
	}
}

func (s *CloudFormationHandlerTestSuite) TestListActiveStacks_NoStacks() {
	s.mockPaginator.Pages = []*cloudformation.ListStacksOutput{{StackSummaries: nil}}
	s.mockLimiter.On("Wait", mock.Anything, s.mockLogger).Return(nil).Once()

	stacks, err := s.handler.ListActiveStacks(s.ctx)

	s.NoError(err)
	s.Empty(stacks)
}

func (s *CloudFormationHandlerTestSuite) TestListActiveStacks_PageError() {
	apiErr := &smithy.GenericAPIError{Code: "InternalFailure", Message: "boom"}
	handled := apperrors.New(apperrors.CodePlatformAPIError, "handled")

	s.mockPaginator.On("HasMorePages").Return(true).Once()
	s.mockPaginator.On("NextPage", mock.Anything).Return(nil, apiErr).Once()
	s.mockLimiter.On("Wait", mock.Anything, s.mockLogger).Return(nil).Once()
	s.mockErrorHandler.On("Handle", mock.Anything, "CloudFormation", "ListStacks", apiErr).Return(handled).Once()

	stacks, err := s.handler.ListActiveStacks(s.ctx)

	s.Nil(stacks)
	s.ErrorIs(err, handled)
	s.mockPaginator.AssertExpectations(s.T())
}

func (s *CloudFormationHandlerTestSuite) TestListActiveStacks_LimiterError() {
	s.mockPaginator.Pages = []*cloudformation.ListStacksOutput{{}}
	s.mockLimiter.On("Wait", mock.Anything, s.mockLogger).Return(context.Canceled).Once()
	s.mockErrorHandler.On("Handle", mock.Anything, "Limiter", "Wait", context.Canceled).Return(passThrough).Once()

	_, err := s.handler.ListActiveStacks(s.ctx)

	s.ErrorIs(err, context.Canceled)
}

func (s *CloudFormationHandlerTestSuite) TestListActiveStacks_MalformedSummary() {
	s.mockPaginator.Pages = []*cloudformation.ListStacksOutput{
		{StackSummaries: []cfntypes.StackSummary{
			{StackName: aws.String("app"), StackId: aws.String("id-app"), StackStatus: cfntypes.StackStatusCreateComplete},
			{StackId: aws.String("nameless")},
		}},
	}
	s.mockLimiter.On("Wait", mock.Anything, s.mockLogger).Return(nil).Once()

	stacks, err := s.handler.ListActiveStacks(s.ctx)

	s.Nil(stacks)
	s.Require().Error(err)
	s.True(apperrors.Is(err, apperrors.CodePlatformAPIError))
	s.Contains(err.Error(), "nameless")
}

func (s *CloudFormationHandlerTestSuite) TestDescribeDetection_LimiterWouldExceedDeadline() {
	mockLogger := portsmocks.NewQuietLogger(s.T())
	handler := NewHandler(aws.Config{Region: "eu-west-1"}, mockLogger,
		WithCloudFormationClient(s.mockCFN),
		WithRateLimiter(limiter.New(1, mockLogger)),
	)
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	s.mockCFN.On("DescribeStackDriftDetectionStatus", mock.Anything, mock.Anything).
		Return(&cloudformation.DescribeStackDriftDetectionStatusOutput{
			StackId:               aws.String("stack-a"),
			StackDriftDetectionId: aws.String("job-a"),
			DetectionStatus:       cfntypes.StackDriftDetectionStatusDetectionInProgress,
		}, nil).Once()

	_, err := handler.DescribeDetection(ctx, "job-a")
	s.Require().NoError(err)

	_, err = handler.DescribeDetection(ctx, "job-a")

	s.Require().Error(err)
	s.NoError(ctx.Err())
	s.ErrorIs(err, context.DeadlineExceeded)
	s.True(apperrors.Is(err, apperrors.CodeTimeout))
}

func (s *CloudFormationHandlerTestSuite) TestDetectStackDrift_Success() {
	s.mockLimiter.On("Wait", mock.Anything, s.mockLogger).Return(nil).Once()
	s.mockCFN.On("DetectStackDrift", mock.Anything, &cloudformation.DetectStackDriftInput{StackName: aws.String("app")}).
		Return(&cloudformation.DetectStackDriftOutput{StackDriftDetectionId: aws.String("job-1")}, nil).Once()

	jobID, err := s.handler.DetectStackDrift(s.ctx, "app")

	s.NoError(err)
	s.Equal("job-1", jobID)
}

func (s *CloudFormationHandlerTestSuite) TestDetectStackDrift_EmptyID() {
	s.mockLimiter.On("Wait", mock.Anything, s.mockLogger).Return(nil).Once()
	s.mockCFN.On("DetectStackDrift", mock.Anything, mock.Anything).
		Return(&cloudformation.DetectStackDriftOutput{}, nil).Once()

	jobID, err := s.handler.DetectStackDrift(s.ctx, "app")

	s.Empty(jobID)
	s.Equal(apperrors.CodePlatformAPIError, apperrors.GetCode(err))
}

func (s *CloudFormationHandlerTestSuite) TestDetectStackDrift_InProgress() {
	apiErr := &smithy.GenericAPIError{Code: "ValidationError", Message: "Drift detection is already in progress for stack app"}
	s.handler = NewHandler(aws.Config{Region: "eu-west-1"}, s.mockLogger,
		WithCloudFormationClient(s.mockCFN),
		WithRateLimiter(s.mockLimiter),
	)
	s.mockLimiter.On("Wait", mock.Anything, s.mockLogger).Return(nil).Once()
	s.mockCFN.On("DetectStackDrift", mock.Anything, mock.Anything).Return(nil, apiErr).Once()

	_, err := s.handler.DetectStackDrift(s.ctx, "app")

	s.Require().Error(err)
	s.True(apperrors.Is(err, apperrors.CodeDetectionInProgress))
}

func (s *CloudFormationHandlerTestSuite) TestDescribeDetection() {
	tests := []struct {
		name       string
		output     *cloudformation.DescribeStackDriftDetectionStatusOutput
		wantStatus domain.DetectionStatus
		wantReason string
		wantBenign bool
	}{
		{
			name: "in progress",
			output: &cloudformation.DescribeStackDriftDetectionStatusOutput{
				StackId:         aws.String("stack-1"),
				DetectionStatus: cfntypes.StackDriftDetectionStatusDetectionInProgress,
			},
			wantStatus: domain.DetectionInProgress,
		},
		{
			name: "complete",
			output: &cloudformation.DescribeStackDriftDetectionStatusOutput{
				StackId:         aws.String("stack-1"),
				DetectionStatus: cfntypes.StackDriftDetectionStatusDetectionComplete,
			},
			wantStatus: domain.DetectionSucceeded,
		},
		{
			name: "failed on unsupported resource",
			output: &cloudformation.DescribeStackDriftDetectionStatusOutput{
				StackId:               aws.String("stack-1"),
				DetectionStatus:       cfntypes.StackDriftDetectionStatusDetectionFailed,
				DetectionStatusReason: aws.String("Failed to detect drift on resource [Bucket]"),
			},
			wantStatus: domain.DetectionFailed,
			wantReason: "Failed to detect drift on resource [Bucket]",
			wantBenign: true,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.mockLimiter.On("Wait", mock.Anything, s.mockLogger).Return(nil).Once()
			s.mockCFN.On("DescribeStackDriftDetectionStatus", mock.Anything,
				&cloudformation.DescribeStackDriftDetectionStatusInput{StackDriftDetectionId: aws.String("job-1")}).
				Return(tt.output, nil).Once()

			det, err := s.handler.DescribeDetection(s.ctx, "job-1")

			s.Require().NoError(err)
			s.Equal("job-1", det.JobID)
			s.Equal("stack-1", det.StackID)
			s.Equal(tt.wantStatus, det.Status)
			s.Equal(tt.wantReason, det.Reason)
			s.Equal(tt.wantBenign, det.IsBenignFailure())
		})
	}
}

func (s *CloudFormationHandlerTestSuite) TestDescribeDetection_APIError() {
	apiErr := errors.New("network down")
	s.mockLimiter.On("Wait", mock.Anything, s.mockLogger).Return(nil).Once()
	s.mockCFN.On("DescribeStackDriftDetectionStatus", mock.Anything, mock.Anything).Return(nil, apiErr).Once()
	s.mockErrorHandler.On("Handle", mock.Anything, "CloudFormation", "DescribeStackDriftDetectionStatus", apiErr).
		Return(passThrough).Once()

	_, err := s.handler.DescribeDetection(s.ctx, "job-1")

	s.ErrorIs(err, apiErr)
}
