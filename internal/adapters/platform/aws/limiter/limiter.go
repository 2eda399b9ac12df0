package limiter

import (
	"context"

	"github.com/olusolaa/stack-drift-notifier/internal/core/ports"
	"golang.org/x/time/rate"
)

const (
	DefaultRateLimitRPS = 10
	minRateLimitRPS     = 1
	maxRateLimitRPS     = 100
)

// DefaultRateLimiter throttles AWS API calls across all regions of a run.
type DefaultRateLimiter struct {
	limiter *rate.Limiter
	rps     int
}

// New returns a limiter allowing rps calls per second with a burst of rps.
// Out of range values fall back to DefaultRateLimitRPS.
func New(rps int, logger ports.Logger) *DefaultRateLimiter {
	limitValue := DefaultRateLimitRPS
	if rps >= minRateLimitRPS && rps <= maxRateLimitRPS {
		limitValue = rps
	} else if rps != 0 && logger != nil {
		logger.Warnf(context.Background(), "Invalid AWS API RPS configured (%d), using default %d RPS. Valid range: %d-%d.", rps, DefaultRateLimitRPS, minRateLimitRPS, maxRateLimitRPS)
	}
	return &DefaultRateLimiter{
		limiter: rate.NewLimiter(rate.Limit(limitValue), limitValue),
		rps:     limitValue,
	}
}

func (l *DefaultRateLimiter) RPS() int {
	return l.rps
}

func (l *DefaultRateLimiter) Wait(ctx context.Context, logger ports.Logger) error {
	if l == nil || l.limiter == nil {
		return nil
	}
	if err := l.limiter.Wait(ctx); err != nil {
		if ctx.Err() == nil && logger != nil {
			logger.Warnf(ctx, "Error waiting for AWS API rate limiter: %v", err)
		}
		return err
	}
	return nil
}
