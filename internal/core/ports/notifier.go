package ports

import "context"

//go:generate mockery --name Notifier --output ./mocks --outpkg mocks --case underscore
//go:generate mockery --name AlertSink --output ./mocks --outpkg mocks --case underscore

// Notifier publishes a message to an external channel.
type Notifier interface {
	Publish(ctx context.Context, subject, message string) error
}

// AlertSink is the two-tier output of the drift pipeline: Info stays local,
// Critical is recorded locally and also pushed through the Notifier.
type AlertSink interface {
	Info(ctx context.Context, format string, args ...any)
	Critical(ctx context.Context, format string, args ...any)
	ForRegion(region string) AlertSink
}
