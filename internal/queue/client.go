package queue

import "context"

// Client sends parse job messages to a queue backend.
type Client interface {
	Send(ctx context.Context, msg Message) error
}

// Receiver pulls parse job messages from a queue backend.
type Receiver interface {
	Receive(ctx context.Context, maxMessages int32, wait int32) ([]Delivery, error)
	Delete(ctx context.Context, receiptHandle string) error
}

// Delivery is a received message body with the handle used to acknowledge it.
type Delivery struct {
	MessageID     string
	Body          string
	ReceiptHandle string
	ReceiveCount  int
}
