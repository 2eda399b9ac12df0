package cloudformation

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
)

//go:generate mockery --name CloudFormationClientInterface --output ./mocks --outpkg mocks --case underscore
//go:generate mockery --name ListStacksPaginator --output ./mocks --outpkg mocks --case underscore

type CloudFormationClientInterface interface {
	ListStacks(ctx context.Context, params *cloudformation.ListStacksInput, optFns ...func(*cloudformation.Options)) (*cloudformation.ListStacksOutput, error)
	DetectStackDrift(ctx context.Context, params *cloudformation.DetectStackDriftInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DetectStackDriftOutput, error)
	DescribeStackDriftDetectionStatus(ctx context.Context, params *cloudformation.DescribeStackDriftDetectionStatusInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DescribeStackDriftDetectionStatusOutput, error)
}

type ListStacksPaginator interface {
	HasMorePages() bool
	NextPage(ctx context.Context, optFns ...func(*cloudformation.Options)) (*cloudformation.ListStacksOutput, error)
}
