package ports

import (
	"context"

	"github.com/olusolaa/stack-drift-notifier/internal/core/domain"
)

type Reporter interface {
	Report(ctx context.Context, summary domain.RunSummary) error
}
