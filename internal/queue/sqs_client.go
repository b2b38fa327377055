package queue

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

const (
	defaultRegion    = "us-east-1"
	receiveCountAttr = "ApproximateReceiveCount"
)

// ErrNoQueueURL is returned when the SQS client is built without a queue URL.
var ErrNoQueueURL = errors.New("parse queue url is required")

// SQSClient sends and receives parse job messages on AWS SQS.
type SQSClient struct {
	client   *sqs.Client
	queueURL string
	// VisibilityTimeout, in seconds, applied to received messages when positive.
	VisibilityTimeout int32
}

// NewSQSClient constructs an SQS-backed queue client.
func NewSQSClient(ctx context.Context, queueURL, region string) (*SQSClient, error) {
	queueURL = strings.TrimSpace(queueURL)
	if queueURL == "" {
		return nil, ErrNoQueueURL
	}
	if strings.TrimSpace(region) == "" {
		region = defaultRegion
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &SQSClient{
		client:   sqs.NewFromConfig(cfg),
		queueURL: queueURL,
	}, nil
}

// Send delivers a message to the configured SQS queue.
func (s *SQSClient) Send(ctx context.Context, msg Message) error {
	payload, err := EncodeMessage(msg)
	if err != nil {
		return fmt.Errorf("encode sqs message: %w", err)
	}

	_, err = s.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(s.queueURL),
		MessageBody: aws.String(string(payload)),
	})
	if err != nil {
		return fmt.Errorf("sqs send message: %w", err)
	}
	return nil
}

// Receive long-polls the queue for up to maxMessages messages, waiting at most wait seconds.
func (s *SQSClient) Receive(ctx context.Context, maxMessages int32, wait int32) ([]Delivery, error) {
	out, err := s.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(s.queueURL),
		MaxNumberOfMessages: maxMessages,
		WaitTimeSeconds:     wait,
		VisibilityTimeout:   s.VisibilityTimeout,
		AttributeNames:      []sqstypes.QueueAttributeName{sqstypes.QueueAttributeName(receiveCountAttr)},
	})
	if err != nil {
		return nil, fmt.Errorf("sqs receive message: %w", err)
	}

	deliveries := make([]Delivery, 0, len(out.Messages))
	for _, m := range out.Messages {
		count, _ := strconv.Atoi(m.Attributes[receiveCountAttr])
		deliveries = append(deliveries, Delivery{
			MessageID:     aws.ToString(m.MessageId),
			Body:          aws.ToString(m.Body),
			ReceiptHandle: aws.ToString(m.ReceiptHandle),
			ReceiveCount:  count,
		})
	}
	return deliveries, nil
}

// Delete acknowledges a processed message.
func (s *SQSClient) Delete(ctx context.Context, receiptHandle string) error {
	_, err := s.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(s.queueURL),
		ReceiptHandle: aws.String(receiptHandle),
	})
	if err != nil {
		return fmt.Errorf("sqs delete message: %w", err)
	}
	return nil
}

var (
	_ Client   = (*SQSClient)(nil)
	_ Receiver = (*SQSClient)(nil)
)
