package sqs

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/iyhunko/inventory-console/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSQSClient is a mock implementation of the SQS client for testing.
type mockSQSClient struct {
	sendMessageFunc func(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

func (m *mockSQSClient) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	if m.sendMessageFunc != nil {
		return m.sendMessageFunc(ctx, params, optFns...)
	}
	return &sqs.SendMessageOutput{}, nil
}

const testQueueURL = "https://sqs.us-east-1.amazonaws.com/123456789/inventory-events"

func TestPublisher_PublishProductEvent(t *testing.T) {
	t.Run("successful message publish", func(t *testing.T) {
		// given
		var body string
		mockClient := &mockSQSClient{
			sendMessageFunc: func(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
				assert.Equal(t, testQueueURL, *params.QueueUrl)
				body = *params.MessageBody
				return &sqs.SendMessageOutput{MessageId: aws.String("test-message-id")}, nil
			},
		}
		publisher := NewPublisher(mockClient, testQueueURL)
		event := NewProductEvent(ActionCreated, model.Product{ID: 101, Name: "Mouse", Price: 19.99, Quantity: 12})

		// when
		err := publisher.PublishProductEvent(context.Background(), event)

		// then
		require.NoError(t, err)
		var decoded ProductEvent
		require.NoError(t, json.Unmarshal([]byte(body), &decoded))
		assert.Equal(t, event, decoded)
	})

	t.Run("delete events carry only the id", func(t *testing.T) {
		var body string
		mockClient := &mockSQSClient{
			sendMessageFunc: func(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
				body = *params.MessageBody
				return &sqs.SendMessageOutput{}, nil
			},
		}
		publisher := NewPublisher(mockClient, testQueueURL)

		err := publisher.PublishProductEvent(context.Background(), ProductEvent{Action: ActionDeleted, ProductID: 7})

		require.NoError(t, err)
		assert.JSONEq(t, `{"action":"deleted","product_id":7}`, body)
	})

	t.Run("error sending message", func(t *testing.T) {
		// given
		expectedErr := errors.New("failed to send message")
		mockClient := &mockSQSClient{
			sendMessageFunc: func(_ context.Context, _ *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
				return nil, expectedErr
			},
		}
		publisher := NewPublisher(mockClient, testQueueURL)

		// when
		err := publisher.PublishProductEvent(context.Background(), ProductEvent{Action: ActionCreated, ProductID: 1})

		// then
		require.Error(t, err)
		assert.ErrorIs(t, err, expectedErr)
		assert.Contains(t, err.Error(), "failed to send message to SQS")
	})
}

func TestNewPublisher(t *testing.T) {
	publisher := NewPublisher(&mockSQSClient{}, testQueueURL)

	require.NotNil(t, publisher)
	assert.Equal(t, testQueueURL, publisher.queueURL)
}
