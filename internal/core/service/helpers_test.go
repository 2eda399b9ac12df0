package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/olusolaa/stack-drift-notifier/internal/core/domain"
	"github.com/olusolaa/stack-drift-notifier/internal/core/ports"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

type alert struct {
	Severity domain.Severity
	Region   string
	Message  string
}

// recordingSink captures every alert; sinks derived through ForRegion share
// the same record.
type recordingSink struct {
	mu     *sync.Mutex
	alerts *[]alert
	region string
}

func newRecordingSink() *recordingSink {
	return &recordingSink{mu: &sync.Mutex{}, alerts: &[]alert{}}
}

func (r *recordingSink) add(sev domain.Severity, format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	*r.alerts = append(*r.alerts, alert{Severity: sev, Region: r.region, Message: fmt.Sprintf(format, args...)})
}

func (r *recordingSink) Info(_ context.Context, format string, args ...any) {
	r.add(domain.SeverityInfo, format, args...)
}

func (r *recordingSink) Critical(_ context.Context, format string, args ...any) {
	r.add(domain.SeverityCritical, format, args...)
}

func (r *recordingSink) ForRegion(region string) ports.AlertSink {
	return &recordingSink{mu: r.mu, alerts: r.alerts, region: region}
}

func (r *recordingSink) all() []alert {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]alert(nil), *r.alerts...)
}

func (r *recordingSink) critical() []alert {
	var out []alert
	for _, a := range r.all() {
		if a.Severity == domain.SeverityCritical {
			out = append(out, a)
		}
	}
	return out
}

func (r *recordingSink) mentioning(s string) []alert {
	var out []alert
	for _, a := range r.all() {
		if strings.Contains(a.Message, s) {
			out = append(out, a)
		}
	}
	return out
}

// fakeSleeper records requested waits without blocking.
type fakeSleeper struct {
	mu     sync.Mutex
	waits  []time.Duration
	result error
}

func (f *fakeSleeper) Sleep(ctx context.Context, d time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.waits = append(f.waits, d)
	if f.result != nil {
		return f.result
	}
	return ctx.Err()
}

func (f *fakeSleeper) Waits() []time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]time.Duration(nil), f.waits...)
}

func stack(name string, drift domain.DriftStatus, lastChecked *time.Time) domain.Stack {
	return domain.Stack{
		Name:   name,
		ID:     "arn:aws:cloudformation:us-east-1:111122223333:stack/" + name + "/id",
		Region: "us-east-1",
		Status: domain.StackCreateComplete,
		Drift:  domain.DriftInfo{Status: drift, LastChecked: lastChecked},
	}
}

func ago(d time.Duration) *time.Time {
	t := testNow.Add(-d)
	return &t
}
