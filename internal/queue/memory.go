package queue

import (
	"context"
	"sync"
)

// MemoryQueue is an in-process Client used by tests and single-binary setups.
type MemoryQueue struct {
	mu   sync.Mutex
	sent []Message
}

// Send records the message.
func (q *MemoryQueue) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.sent = append(q.sent, msg)
	return nil
}

// Sent returns a copy of the messages sent so far.
func (q *MemoryQueue) Sent() []Message {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]Message(nil), q.sent...)
}

var _ Client = (*MemoryQueue)(nil)
