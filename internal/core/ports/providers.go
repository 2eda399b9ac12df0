package ports

import (
	"context"

	"github.com/olusolaa/stack-drift-notifier/internal/core/domain"
)

//go:generate mockery --name StackInventory --output ./mocks --outpkg mocks --case underscore
//go:generate mockery --name DriftService --output ./mocks --outpkg mocks --case underscore
//go:generate mockery --name RegionProvider --output ./mocks --outpkg mocks --case underscore
//go:generate mockery --name ProviderFactory --output ./mocks --outpkg mocks --case underscore

// StackInventory lists the stacks of one region.
type StackInventory interface {
	ListActiveStacks(ctx context.Context) ([]domain.Stack, error)
}

// DriftService starts and observes drift detection jobs in one region.
type DriftService interface {
	// DetectStackDrift returns the detection job ID. An equivalent detection
	// that is already running yields an error with code DETECTION_IN_PROGRESS.
	DetectStackDrift(ctx context.Context, stackName string) (string, error)
	DescribeDetection(ctx context.Context, jobID string) (domain.Detection, error)
}

type RegionProvider interface {
	StackInventory
	DriftService
	Region() string
}

type ProviderFactory interface {
	ForRegion(ctx context.Context, region string) (RegionProvider, error)
}

// IdentityResolver returns the account the run is auditing.
type IdentityResolver interface {
	AccountID(ctx context.Context) (string, error)
}
