package cloudformation

import (
	"context"
	stderrs "errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"

	aws_errors "github.com/olusolaa/stack-drift-notifier/internal/adapters/platform/aws/errors"
	"github.com/olusolaa/stack-drift-notifier/internal/adapters/platform/aws/shared"
	"github.com/olusolaa/stack-drift-notifier/internal/core/domain"
	"github.com/olusolaa/stack-drift-notifier/internal/core/ports"
	apperrors "github.com/olusolaa/stack-drift-notifier/internal/errors"
)

const serviceName = "CloudFormation"

// Handler talks to CloudFormation in a single region. It implements
// ports.RegionProvider.
type Handler struct {
	region           string
	client           CloudFormationClientInterface
	limiter          shared.RateLimiter
	errorHandler     shared.ErrorHandler
	logger           ports.Logger
	paginatorFactory func(client CloudFormationClientInterface, input *cloudformation.ListStacksInput) ListStacksPaginator
}

type HandlerOption func(*Handler)

func WithCloudFormationClient(client CloudFormationClientInterface) HandlerOption {
	return func(h *Handler) {
		if client != nil {
			h.client = client
		}
	}
}

func WithRateLimiter(limiter shared.RateLimiter) HandlerOption {
	return func(h *Handler) {
		if limiter != nil {
			h.limiter = limiter
		}
	}
}

func WithErrorHandler(handler shared.ErrorHandler) HandlerOption {
	return func(h *Handler) {
		if handler != nil {
			h.errorHandler = handler
		}
	}
}

func WithPaginatorFactory(f func(CloudFormationClientInterface, *cloudformation.ListStacksInput) ListStacksPaginator) HandlerOption {
	return func(h *Handler) {
		if f != nil {
			h.paginatorFactory = f
		}
	}
}

// NewHandler builds a handler for cfg.Region. The client inherits the
// retryer configured on cfg.
func NewHandler(cfg aws.Config, logger ports.Logger, opts ...HandlerOption) *Handler {
	h := &Handler{
		region:       cfg.Region,
		logger:       logger,
		errorHandler: &aws_errors.DefaultErrorHandler{},
		paginatorFactory: func(client CloudFormationClientInterface, input *cloudformation.ListStacksInput) ListStacksPaginator {
			return cloudformation.NewListStacksPaginator(client, input)
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.client == nil {
		h.client = cloudformation.NewFromConfig(cfg)
	}
	return h
}

func (h *Handler) Region() string {
	return h.region
}

func (h *Handler) wait(ctx context.Context) error {
	if h.limiter == nil {
		return nil
	}
	if err := h.limiter.Wait(ctx, h.logger); err != nil {
		// rate.Limiter refuses a wait that would outlast the deadline before
		// ctx itself is done.
		if _, ok := ctx.Deadline(); ok && !stderrs.Is(err, context.Canceled) {
			return apperrors.Wrap(fmt.Errorf("%w: %v", context.DeadlineExceeded, err), apperrors.CodeTimeout,
				"rate limiter wait would exceed the context deadline")
		}
		return h.errorHandler.Handle(ctx, "Limiter", "Wait", err)
	}
	return nil
}

// ListActiveStacks returns every stack that has not been deleted, in the
// order CloudFormation returns them.
func (h *Handler) ListActiveStacks(ctx context.Context) ([]domain.Stack, error) {
	input := &cloudformation.ListStacksInput{StackStatusFilter: activeStatusFilter()}
	paginator := h.paginatorFactory(h.client, input)

	var stacks []domain.Stack
	pageNum := 0
	for paginator.HasMorePages() {
		if err := h.wait(ctx); err != nil {
			return nil, err
		}

		pageNum++
		h.logger.Debugf(ctx, "Fetching CloudFormation stacks page %d", pageNum)
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, h.errorHandler.Handle(ctx, serviceName, "ListStacks", err)
		}

		for _, summary := range output.StackSummaries {
			stack, mapErr := mapStackSummary(summary, h.region)
			if mapErr != nil {
				return nil, apperrors.Rewrap(mapErr, apperrors.CodePlatformAPIError,
					fmt.Sprintf("malformed stack summary %q on ListStacks page %d", aws.ToString(summary.StackId), pageNum))
			}
			stacks = append(stacks, stack)
		}
	}

	h.logger.Debugf(ctx, "Listed %d active stacks across %d pages", len(stacks), pageNum)
	return stacks, nil
}

func (h *Handler) DetectStackDrift(ctx context.Context, stackName string) (string, error) {
	if err := h.wait(ctx); err != nil {
		return "", err
	}

	out, err := h.client.DetectStackDrift(ctx, &cloudformation.DetectStackDriftInput{
		StackName: aws.String(stackName),
	})
	if err != nil {
		return "", h.errorHandler.Handle(ctx, serviceName, "DetectStackDrift", err)
	}

	jobID := aws.ToString(out.StackDriftDetectionId)
	if jobID == "" {
		return "", apperrors.New(apperrors.CodePlatformAPIError,
			fmt.Sprintf("DetectStackDrift for %s returned no detection ID", stackName))
	}
	return jobID, nil
}

func (h *Handler) DescribeDetection(ctx context.Context, jobID string) (domain.Detection, error) {
	if err := h.wait(ctx); err != nil {
		return domain.Detection{}, err
	}

	out, err := h.client.DescribeStackDriftDetectionStatus(ctx, &cloudformation.DescribeStackDriftDetectionStatusInput{
		StackDriftDetectionId: aws.String(jobID),
	})
	if err != nil {
		return domain.Detection{}, h.errorHandler.Handle(ctx, serviceName, "DescribeStackDriftDetectionStatus", err)
	}
	return mapDetectionStatus(jobID, out)
}
