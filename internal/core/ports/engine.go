package ports

import (
	"context"

	"github.com/olusolaa/stack-drift-notifier/internal/core/domain"
)

//go:generate mockery --name DriftAuditEngine --output ./mocks --outpkg mocks --case underscore
type DriftAuditEngine interface {
	Run(ctx context.Context) (domain.RunSummary, error)
}
