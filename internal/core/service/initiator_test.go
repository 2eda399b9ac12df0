package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/olusolaa/stack-drift-notifier/internal/core/domain"
	portsmocks "github.com/olusolaa/stack-drift-notifier/internal/core/ports/mocks"
	apperrors "github.com/olusolaa/stack-drift-notifier/internal/errors"
)

func TestNeedsDetection(t *testing.T) {
	threshold := 60 * time.Second
	tests := []struct {
		name  string
		stack domain.Stack
		want  bool
	}{
		{name: "never checked", stack: stack("a", domain.DriftNotChecked, nil), want: true},
		{name: "not checked with stale timestamp", stack: stack("a", domain.DriftNotChecked, ago(time.Second)), want: true},
		{name: "in sync without timestamp", stack: stack("a", domain.DriftInSync, nil), want: true},
		{name: "checked recently", stack: stack("a", domain.DriftInSync, ago(10*time.Second)), want: false},
		{name: "drifted and checked recently", stack: stack("a", domain.DriftDrifted, ago(59*time.Second)), want: false},
		{name: "exactly at threshold", stack: stack("a", domain.DriftInSync, ago(60*time.Second)), want: false},
		{name: "stale", stack: stack("a", domain.DriftInSync, ago(61*time.Second)), want: true},
		{name: "unknown and stale", stack: stack("a", domain.DriftUnknown, ago(time.Hour)), want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NeedsDetection(tt.stack, threshold, testNow))
		})
	}
}

func newTestInitiator(t *testing.T) (*Initiator, *portsmocks.RegionProvider, *recordingSink) {
	drift := portsmocks.NewRegionProvider(t)
	sink := newRecordingSink()
	i := NewInitiator("us-east-1", drift, sink, portsmocks.NewQuietLogger(t), nil)
	i.now = fixedClock
	return i, drift, sink
}

func TestInitiate_SkipsRecentlyChecked(t *testing.T) {
	i, drift, sink := newTestInitiator(t)
	stacks := []domain.Stack{
		stack("fresh", domain.DriftInSync, ago(5*time.Second)),
		stack("never", domain.DriftNotChecked, nil),
		stack("stale", domain.DriftDrifted, ago(2*time.Hour)),
	}
	drift.On("DetectStackDrift", mock.Anything, "never").Return("job-never", nil).Once()
	drift.On("DetectStackDrift", mock.Anything, "stale").Return("job-stale", nil).Once()

	res, err := i.Initiate(context.Background(), stacks, time.Minute)

	require.NoError(t, err)
	assert.Equal(t, 3, res.Evaluated)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 0, res.Conflicts)
	assert.Equal(t, []domain.DetectionJob{
		{ID: "job-never", StackName: "never", StackID: stacks[1].ID},
		{ID: "job-stale", StackName: "stale", StackID: stacks[2].ID},
	}, res.Jobs)
	assert.Empty(t, sink.all())
	drift.AssertNotCalled(t, "DetectStackDrift", mock.Anything, "fresh")
}

func TestInitiate_ConflictDoesNotAbort(t *testing.T) {
	i, drift, sink := newTestInitiator(t)
	stacks := []domain.Stack{
		stack("a", domain.DriftNotChecked, nil),
		stack("b", domain.DriftNotChecked, nil),
		stack("c", domain.DriftNotChecked, nil),
	}
	conflict := apperrors.Rewrap(errors.New("Drift detection is already in progress for stack b"),
		apperrors.CodeDetectionInProgress, "CloudFormation DetectStackDrift: drift detection already in progress")

	drift.On("DetectStackDrift", mock.Anything, "a").Return("job-a", nil).Once()
	drift.On("DetectStackDrift", mock.Anything, "b").Return("", conflict).Once()
	drift.On("DetectStackDrift", mock.Anything, "c").Return("job-c", nil).Once()

	res, err := i.Initiate(context.Background(), stacks, time.Minute)

	require.NoError(t, err)
	assert.Equal(t, 1, res.Conflicts)
	require.Len(t, res.Jobs, 2)
	assert.Equal(t, "job-a", res.Jobs[0].ID)
	assert.Equal(t, "job-c", res.Jobs[1].ID)

	critical := sink.critical()
	require.Len(t, critical, 1)
	assert.Contains(t, critical[0].Message, "already in progress")
	assert.Contains(t, critical[0].Message, "b")
}

func TestInitiate_OtherErrorAborts(t *testing.T) {
	i, drift, _ := newTestInitiator(t)
	stacks := []domain.Stack{
		stack("a", domain.DriftNotChecked, nil),
		stack("b", domain.DriftNotChecked, nil),
		stack("c", domain.DriftNotChecked, nil),
	}
	boom := apperrors.New(apperrors.CodePlatformAuthError, "access denied")
	drift.On("DetectStackDrift", mock.Anything, "a").Return("job-a", nil).Once()
	drift.On("DetectStackDrift", mock.Anything, "b").Return("", boom).Once()

	res, err := i.Initiate(context.Background(), stacks, time.Minute)

	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodePlatformAuthError))
	assert.Len(t, res.Jobs, 1)
	drift.AssertNotCalled(t, "DetectStackDrift", mock.Anything, "c")
}
