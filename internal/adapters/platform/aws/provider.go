package aws

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/olusolaa/stack-drift-notifier/internal/adapters/platform/aws/cloudformation"
	aws_errors "github.com/olusolaa/stack-drift-notifier/internal/adapters/platform/aws/errors"
	"github.com/olusolaa/stack-drift-notifier/internal/adapters/platform/aws/limiter"
	"github.com/olusolaa/stack-drift-notifier/internal/adapters/platform/aws/shared"
	"github.com/olusolaa/stack-drift-notifier/internal/adapters/platform/aws/sns"
	"github.com/olusolaa/stack-drift-notifier/internal/config"
	"github.com/olusolaa/stack-drift-notifier/internal/core/ports"
	"github.com/olusolaa/stack-drift-notifier/internal/errors"
)

// fallbackRegion is used for global calls (STS) when neither the profile nor
// the environment sets a region.
const fallbackRegion = "us-east-1"

// Provider owns the shared AWS session of a run and hands out region scoped
// CloudFormation handlers. It implements ports.ProviderFactory.
type Provider struct {
	awsConfig      aws.Config
	limiter        shared.RateLimiter
	errorHandler   shared.ErrorHandler
	stsClient      shared.STSClientInterface
	logger         ports.Logger
	handlerFactory func(cfg aws.Config, logger ports.Logger) ports.RegionProvider

	accMu     sync.Mutex
	accountID string
}

type ProviderOption func(*Provider)

func WithSTSClient(client shared.STSClientInterface) ProviderOption {
	return func(p *Provider) {
		if client != nil {
			p.stsClient = client
		}
	}
}

func WithRateLimiter(l shared.RateLimiter) ProviderOption {
	return func(p *Provider) {
		if l != nil {
			p.limiter = l
		}
	}
}

func WithHandlerFactory(f func(cfg aws.Config, logger ports.Logger) ports.RegionProvider) ProviderOption {
	return func(p *Provider) {
		if f != nil {
			p.handlerFactory = f
		}
	}
}

// NewProvider loads the default credential chain, optionally pinned to a
// shared config profile, with the run's retry policy.
func NewProvider(ctx context.Context, cfg config.AWSConfig, logger ports.Logger, opts ...ProviderOption) (*Provider, error) {
	if logger == nil {
		return nil, errors.New(errors.CodeConfigValidation, "logger cannot be nil for AWS Provider")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRetryer(func() aws.Retryer { return NewRetryer(cfg.MaxAttempts) }),
	}
	if cfg.Profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errors.WrapUserFacing(err, errors.CodePlatformAuthError, "failed to load AWS configuration",
			"Check the AWS profile name and that credentials are available.")
	}

	rl := limiter.New(cfg.RateLimitRPS, logger)
	logger.Debugf(ctx, "AWS API calls limited to %d requests per second", rl.RPS())
	opts = append([]ProviderOption{WithRateLimiter(rl)}, opts...)
	return NewProviderFromConfig(awsCfg, logger, opts...), nil
}

func NewProviderFromConfig(awsCfg aws.Config, logger ports.Logger, opts ...ProviderOption) *Provider {
	if awsCfg.Region == "" {
		awsCfg.Region = fallbackRegion
	}
	p := &Provider{
		awsConfig:    awsCfg,
		errorHandler: &aws_errors.DefaultErrorHandler{},
		logger:       logger,
	}
	p.handlerFactory = func(cfg aws.Config, l ports.Logger) ports.RegionProvider {
		return cloudformation.NewHandler(cfg, l,
			cloudformation.WithRateLimiter(p.limiter),
			cloudformation.WithErrorHandler(p.errorHandler),
		)
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.stsClient == nil {
		p.stsClient = sts.NewFromConfig(awsCfg)
	}
	return p
}

func (p *Provider) Type() string {
	return shared.ProviderTypeAWS
}

func (p *Provider) Config() aws.Config {
	return p.awsConfig.Copy()
}

// ForRegion returns a CloudFormation handler bound to region.
func (p *Provider) ForRegion(_ context.Context, region string) (ports.RegionProvider, error) {
	if region == "" {
		return nil, errors.New(errors.CodeConfigValidation, "region cannot be empty")
	}
	regional := p.awsConfig.Copy()
	regional.Region = region
	return p.handlerFactory(regional, p.logger.WithFields(map[string]any{"region": region})), nil
}

// AccountID resolves the caller's account once per provider.
func (p *Provider) AccountID(ctx context.Context) (string, error) {
	p.accMu.Lock()
	defer p.accMu.Unlock()
	if p.accountID != "" {
		return p.accountID, nil
	}

	if p.limiter != nil {
		if err := p.limiter.Wait(ctx, p.logger); err != nil {
			return "", p.errorHandler.Handle(ctx, "Limiter", "Wait", err)
		}
	}
	out, err := p.stsClient.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", p.errorHandler.Handle(ctx, "STS", "GetCallerIdentity", err)
	}
	if out.Account == nil {
		return "", errors.New(errors.CodePlatformAPIError, "AWS caller identity response did not contain Account ID")
	}
	p.accountID = aws.ToString(out.Account)
	return p.accountID, nil
}

// NewNotifier returns an SNS publisher for topicARN sharing this provider's
// credentials.
func (p *Provider) NewNotifier(topicARN string, opts ...sns.PublisherOption) (*sns.Publisher, error) {
	opts = append([]sns.PublisherOption{sns.WithErrorHandler(p.errorHandler)}, opts...)
	pub, err := sns.NewPublisher(p.awsConfig, topicARN, opts...)
	if err != nil {
		return nil, err
	}
	p.logger.Debugf(context.Background(), "SNS notifier bound to %s in %s", topicARN, pub.Region())
	return pub, nil
}
