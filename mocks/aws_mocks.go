package mocks

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/mock"
)

// MockCloudFormationClient is a mock implementation of the CloudFormation client
type MockCloudFormationClient struct {
	mock.Mock
}

func (m *MockCloudFormationClient) ListStacks(ctx context.Context, params *cloudformation.ListStacksInput, optFns ...func(*cloudformation.Options)) (*cloudformation.ListStacksOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cloudformation.ListStacksOutput), args.Error(1)
}

func (m *MockCloudFormationClient) DetectStackDrift(ctx context.Context, params *cloudformation.DetectStackDriftInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DetectStackDriftOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cloudformation.DetectStackDriftOutput), args.Error(1)
}

func (m *MockCloudFormationClient) DescribeStackDriftDetectionStatus(ctx context.Context, params *cloudformation.DescribeStackDriftDetectionStatusInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DescribeStackDriftDetectionStatusOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cloudformation.DescribeStackDriftDetectionStatusOutput), args.Error(1)
}

// MockListStacksPaginator serves Pages in order unless HasMorePages or
// NextPage have explicit expectations.
type MockListStacksPaginator struct {
	mock.Mock
	Pages   []*cloudformation.ListStacksOutput
	curPage int
}

func (m *MockListStacksPaginator) HasMorePages() bool {
	if len(m.ExpectedCalls) == 0 {
		return m.curPage < len(m.Pages)
	}
	return m.Called().Bool(0)
}

func (m *MockListStacksPaginator) NextPage(ctx context.Context, optFns ...func(*cloudformation.Options)) (*cloudformation.ListStacksOutput, error) {
	if len(m.ExpectedCalls) == 0 {
		page := m.Pages[m.curPage]
		m.curPage++
		return page, nil
	}
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cloudformation.ListStacksOutput), args.Error(1)
}

// MockSNSClient is a mock implementation of the SNS client
type MockSNSClient struct {
	mock.Mock
}

func (m *MockSNSClient) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sns.PublishOutput), args.Error(1)
}

// ResetAllMocks clears expectations and recorded calls.
func ResetAllMocks(mocks ...interface{}) {
	for _, m := range mocks {
		switch mockTyped := m.(type) {
		case *MockCloudFormationClient:
			mockTyped.ExpectedCalls = nil
			mockTyped.Calls = nil
		case *MockListStacksPaginator:
			mockTyped.ExpectedCalls = nil
			mockTyped.Calls = nil
			mockTyped.curPage = 0
		case *MockSNSClient:
			mockTyped.ExpectedCalls = nil
			mockTyped.Calls = nil
		}
	}
}
