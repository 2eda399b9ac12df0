package sns

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/arn"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	aws_errors "github.com/olusolaa/stack-drift-notifier/internal/adapters/platform/aws/errors"
	"github.com/olusolaa/stack-drift-notifier/internal/adapters/platform/aws/shared"
	apperrors "github.com/olusolaa/stack-drift-notifier/internal/errors"
)

//go:generate mockery --name SNSClientInterface --output ./mocks --outpkg mocks --case underscore

const (
	serviceName = "SNS"
	// SNS rejects subjects longer than 100 characters.
	maxSubjectLen = 100
	// SNS message payload limit in bytes.
	maxMessageLen = 256 * 1024
)

type SNSClientInterface interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Publisher sends messages to a single SNS topic. It implements ports.Notifier.
type Publisher struct {
	topicARN     string
	region       string
	client       SNSClientInterface
	errorHandler shared.ErrorHandler
}

type PublisherOption func(*Publisher)

func WithSNSClient(client SNSClientInterface) PublisherOption {
	return func(p *Publisher) {
		if client != nil {
			p.client = client
		}
	}
}

func WithErrorHandler(handler shared.ErrorHandler) PublisherOption {
	return func(p *Publisher) {
		if handler != nil {
			p.errorHandler = handler
		}
	}
}

// TopicRegion extracts the region from an SNS topic ARN.
func TopicRegion(topicARN string) (string, error) {
	parsed, err := arn.Parse(topicARN)
	if err != nil {
		return "", apperrors.WrapUserFacing(err, apperrors.CodeConfigValidation,
			fmt.Sprintf("invalid SNS topic ARN %q", topicARN),
			"Use a topic ARN such as arn:aws:sns:us-east-1:123456789012:drift-alerts.")
	}
	if parsed.Service != "sns" || parsed.Region == "" {
		return "", apperrors.NewUserFacing(apperrors.CodeConfigValidation,
			fmt.Sprintf("ARN %q is not a regional SNS topic", topicARN),
			"Use a topic ARN such as arn:aws:sns:us-east-1:123456789012:drift-alerts.")
	}
	return parsed.Region, nil
}

// NewPublisher builds a publisher whose client targets the topic's own region.
func NewPublisher(cfg aws.Config, topicARN string, opts ...PublisherOption) (*Publisher, error) {
	region, err := TopicRegion(topicARN)
	if err != nil {
		return nil, err
	}

	p := &Publisher{
		topicARN:     topicARN,
		region:       region,
		errorHandler: &aws_errors.DefaultErrorHandler{},
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.client == nil {
		regional := cfg.Copy()
		regional.Region = region
		p.client = sns.NewFromConfig(regional)
	}
	return p, nil
}

func (p *Publisher) TopicARN() string {
	return p.topicARN
}

func (p *Publisher) Region() string {
	return p.region
}

func (p *Publisher) Publish(ctx context.Context, subject, message string) error {
	_, err := p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Subject:  aws.String(truncate(subject, maxSubjectLen)),
		Message:  aws.String(truncate(message, maxMessageLen)),
	})
	if err != nil {
		return apperrors.Rewrap(p.errorHandler.Handle(ctx, serviceName, "Publish", err),
			apperrors.CodeNotificationError, fmt.Sprintf("failed to publish to %s", p.topicARN))
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
