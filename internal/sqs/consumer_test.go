package sqs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSQSConsumerClient is a mock implementation of the SQS client for consumer testing.
type mockSQSConsumerClient struct {
	receiveMessageFunc func(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	deleteMessageFunc  func(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

func (m *mockSQSConsumerClient) ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	if m.receiveMessageFunc != nil {
		return m.receiveMessageFunc(ctx, params, optFns...)
	}
	return &sqs.ReceiveMessageOutput{Messages: []types.Message{}}, nil
}

func (m *mockSQSConsumerClient) DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	if m.deleteMessageFunc != nil {
		return m.deleteMessageFunc(ctx, params, optFns...)
	}
	return &sqs.DeleteMessageOutput{}, nil
}

func collect(events *[]ProductEvent) EventHandler {
	return func(_ context.Context, event ProductEvent) error {
		*events = append(*events, event)
		return nil
	}
}

func TestConsumer_processMessage(t *testing.T) {
	t.Run("successful message processing", func(t *testing.T) {
		// given
		var events []ProductEvent
		consumer := NewConsumer(&mockSQSConsumerClient{}, testQueueURL, collect(&events))
		message := types.Message{
			Body:          aws.String(`{"action":"updated","product_id":101,"name":"Mouse","price":19.99,"quantity":3}`),
			ReceiptHandle: aws.String("test-receipt-handle"),
		}

		// when
		err := consumer.processMessage(context.Background(), message)

		// then
		require.NoError(t, err)
		assert.Equal(t, []ProductEvent{{Action: ActionUpdated, ProductID: 101, Name: "Mouse", Price: 19.99, Quantity: 3}}, events)
	})

	t.Run("nil message body", func(t *testing.T) {
		consumer := NewConsumer(&mockSQSConsumerClient{}, testQueueURL, nil)

		err := consumer.processMessage(context.Background(), types.Message{ReceiptHandle: aws.String("h")})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "message body is nil")
	})

	t.Run("invalid JSON message body", func(t *testing.T) {
		consumer := NewConsumer(&mockSQSConsumerClient{}, testQueueURL, nil)

		err := consumer.processMessage(context.Background(), types.Message{Body: aws.String(`{"invalid json`)})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to unmarshal message")
	})

	t.Run("handler error", func(t *testing.T) {
		consumer := NewConsumer(&mockSQSConsumerClient{}, testQueueURL, func(context.Context, ProductEvent) error {
			return errors.New("sink down")
		})

		err := consumer.processMessage(context.Background(), types.Message{Body: aws.String(`{"action":"deleted","product_id":7}`)})

		require.Error(t, err)
		assert.Equal(t, "failed to handle deleted event for product 7: sink down", err.Error())
	})
}

func TestConsumer_deleteMessage(t *testing.T) {
	t.Run("successful message deletion", func(t *testing.T) {
		mockClient := &mockSQSConsumerClient{
			deleteMessageFunc: func(_ context.Context, params *sqs.DeleteMessageInput, _ ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
				assert.Equal(t, testQueueURL, *params.QueueUrl)
				assert.Equal(t, "test-receipt-handle", *params.ReceiptHandle)
				return &sqs.DeleteMessageOutput{}, nil
			},
		}
		consumer := NewConsumer(mockClient, testQueueURL, nil)

		err := consumer.deleteMessage(context.Background(), types.Message{ReceiptHandle: aws.String("test-receipt-handle")})

		require.NoError(t, err)
	})

	t.Run("error deleting message", func(t *testing.T) {
		mockClient := &mockSQSConsumerClient{
			deleteMessageFunc: func(_ context.Context, _ *sqs.DeleteMessageInput, _ ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
				return nil, errors.New("failed to delete")
			},
		}
		consumer := NewConsumer(mockClient, testQueueURL, nil)

		err := consumer.deleteMessage(context.Background(), types.Message{ReceiptHandle: aws.String("h")})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to delete message")
	})
}

func TestConsumer_receiveMessages(t *testing.T) {
	t.Run("deletes only handled messages", func(t *testing.T) {
		// given
		var deleted []string
		mockClient := &mockSQSConsumerClient{
			receiveMessageFunc: func(_ context.Context, params *sqs.ReceiveMessageInput, _ ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
				assert.Equal(t, testQueueURL, *params.QueueUrl)
				assert.Equal(t, int32(10), params.MaxNumberOfMessages)
				assert.Equal(t, int32(20), params.WaitTimeSeconds)
				return &sqs.ReceiveMessageOutput{
					Messages: []types.Message{
						{Body: aws.String(`{"action":"created","product_id":1}`), ReceiptHandle: aws.String("good")},
						{Body: aws.String(`not json`), ReceiptHandle: aws.String("bad")},
					},
				}, nil
			},
			deleteMessageFunc: func(_ context.Context, params *sqs.DeleteMessageInput, _ ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
				deleted = append(deleted, *params.ReceiptHandle)
				return &sqs.DeleteMessageOutput{}, nil
			},
		}
		var events []ProductEvent
		consumer := NewConsumer(mockClient, testQueueURL, collect(&events))

		// when
		err := consumer.receiveMessages(context.Background())

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"good"}, deleted)
		assert.Len(t, events, 1)
	})

	t.Run("handles receive message error", func(t *testing.T) {
		mockClient := &mockSQSConsumerClient{
			receiveMessageFunc: func(_ context.Context, _ *sqs.ReceiveMessageInput, _ ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
				return nil, errors.New("failed to receive")
			},
		}
		consumer := NewConsumer(mockClient, testQueueURL, nil)

		err := consumer.receiveMessages(context.Background())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to receive messages")
	})
}

func TestConsumer_Start(t *testing.T) {
	t.Run("stops when context is cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		mockClient := &mockSQSConsumerClient{
			receiveMessageFunc: func(ctx context.Context, _ *sqs.ReceiveMessageInput, _ ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
				cancel()
				return &sqs.ReceiveMessageOutput{}, nil
			},
		}
		consumer := NewConsumer(mockClient, testQueueURL, nil)

		done := make(chan error, 1)
		go func() { done <- consumer.Start(ctx) }()

		select {
		case err := <-done:
			assert.ErrorIs(t, err, context.Canceled)
		case <-time.After(2 * time.Second):
			t.Fatal("consumer did not stop")
		}
	})
}
