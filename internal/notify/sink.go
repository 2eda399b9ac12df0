package notify

import (
	"context"
	"fmt"

	"github.com/olusolaa/stack-drift-notifier/internal/core/ports"
)

// Sink splits pipeline output in two tiers. Info lines go to the local
// logger only. Critical lines go to the local logger and to the notifier.
// A nil notifier keeps critical lines local (dry run).
type Sink struct {
	logger   ports.Logger
	notifier ports.Notifier
	subject  string
	region   string
}

func NewSink(logger ports.Logger, notifier ports.Notifier, subject string) *Sink {
	return &Sink{
		logger:   logger,
		notifier: notifier,
		subject:  subject,
	}
}

func (s *Sink) Info(ctx context.Context, format string, args ...any) {
	s.logger.Infof(ctx, format, args...)
}

func (s *Sink) Critical(ctx context.Context, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	s.logger.Criticalf(ctx, "%s", msg)

	if s.notifier == nil {
		return
	}
	if s.region != "" {
		msg = fmt.Sprintf("[%s] %s", s.region, msg)
	}
	if err := s.notifier.Publish(ctx, s.subject, msg); err != nil {
		s.logger.Errorf(ctx, err, "Failed to publish critical notification")
	}
}

// ForRegion returns a sink whose log lines carry the region field and whose
// notifications are prefixed with the region.
func (s *Sink) ForRegion(region string) ports.AlertSink {
	return &Sink{
		logger:   s.logger.WithFields(map[string]any{"region": region}),
		notifier: s.notifier,
		subject:  s.subject,
		region:   region,
	}
}
