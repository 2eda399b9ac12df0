package sns

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/olusolaa/stack-drift-notifier/internal/errors"
	"github.com/olusolaa/stack-drift-notifier/mocks"
)

const testTopic = "arn:aws:sns:eu-west-1:111122223333:drift-alerts"

func TestTopicRegion(t *testing.T) {
	tests := []struct {
		arn     string
		want    string
		wantErr bool
	}{
		{arn: testTopic, want: "eu-west-1"},
		{arn: "arn:aws-cn:sns:cn-north-1:111122223333:t", want: "cn-north-1"},
		{arn: "arn:aws:s3:::bucket", wantErr: true},
		{arn: "drift-alerts", wantErr: true},
		{arn: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.arn, func(t *testing.T) {
			got, err := TopicRegion(tt.arn)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.Is(err, apperrors.CodeConfigValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPublisher_Publish(t *testing.T) {
	client := new(mocks.MockSNSClient)
	client.On("Publish", mock.Anything, mock.MatchedBy(func(in *sns.PublishInput) bool {
		return aws.ToString(in.TopicArn) == testTopic &&
			aws.ToString(in.Subject) == "CloudFormation Drift Detection Report" &&
			aws.ToString(in.Message) == "Stack app drift status: DRIFTED"
	})).Return(&sns.PublishOutput{MessageId: aws.String("m-1")}, nil).Once()

	p, err := NewPublisher(aws.Config{Region: "us-east-1"}, testTopic, WithSNSClient(client))
	require.NoError(t, err)
	assert.Equal(t, "eu-west-1", p.Region())
	assert.Equal(t, testTopic, p.TopicARN())

	err = p.Publish(context.Background(), "CloudFormation Drift Detection Report", "Stack app drift status: DRIFTED")
	assert.NoError(t, err)
	client.AssertExpectations(t)
}

func TestPublisher_PublishTruncates(t *testing.T) {
	client := new(mocks.MockSNSClient)
	var got *sns.PublishInput
	client.On("Publish", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		got = args.Get(1).(*sns.PublishInput)
	}).Return(&sns.PublishOutput{}, nil).Once()

	p, err := NewPublisher(aws.Config{}, testTopic, WithSNSClient(client))
	require.NoError(t, err)

	require.NoError(t, p.Publish(context.Background(), strings.Repeat("s", 150), strings.Repeat("m", maxMessageLen+10)))
	require.NotNil(t, got)
	assert.Len(t, aws.ToString(got.Subject), maxSubjectLen)
	assert.True(t, strings.HasSuffix(aws.ToString(got.Subject), "..."))
	assert.Len(t, aws.ToString(got.Message), maxMessageLen)
}

func TestPublisher_PublishError(t *testing.T) {
	client := new(mocks.MockSNSClient)
	apiErr := errors.New("topic gone")
	client.On("Publish", mock.Anything, mock.Anything).Return(nil, apiErr).Once()

	p, err := NewPublisher(aws.Config{}, testTopic, WithSNSClient(client))
	require.NoError(t, err)

	err = p.Publish(context.Background(), "s", "m")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotificationError, apperrors.GetCode(err))
	assert.ErrorIs(t, err, apiErr)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab", truncate("abcdef", 2))
	assert.Equal(t, "a...", truncate("abcdef", 4))
}
