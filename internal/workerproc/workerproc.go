package workerproc

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"resume-parser/internal/bootstrap"
	"resume-parser/internal/parses"
	"resume-parser/internal/queue"
)

// MessageMeta captures details useful for logging and diagnostics.
type MessageMeta struct {
	BodyLen int
	BodySHA string
}

// ComputeMeta returns the body length and SHA-256 hash.
func ComputeMeta(body string) MessageMeta {
	if body == "" {
		return MessageMeta{}
	}
	sum := sha256.Sum256([]byte(body))
	return MessageMeta{BodyLen: len(body), BodySHA: hex.EncodeToString(sum[:])}
}

// ErrEmptyBody indicates an empty queue payload.
type ErrEmptyBody struct {
	Meta MessageMeta
}

func (e ErrEmptyBody) Error() string { return "empty message body" }

// ErrDecode indicates a JSON decode failure.
type ErrDecode struct {
	Meta MessageMeta
	Err  error
}

func (e ErrDecode) Error() string {
	if e.Err == nil {
		return "decode message"
	}
	return "decode message: " + e.Err.Error()
}

func (e ErrDecode) Unwrap() error { return e.Err }

// ErrMissingParseID indicates a message without a parse id.
type ErrMissingParseID struct {
	Meta      MessageMeta
	RequestID string
}

func (e ErrMissingParseID) Error() string { return "missing parse id" }

// ErrProcess indicates processing failed after the message decoded cleanly.
// The job is retryable; the message should be left for redelivery.
type ErrProcess struct {
	ParseID   string
	RequestID string
	Err       error
}

func (e ErrProcess) Error() string {
	if e.Err == nil {
		return "process parse"
	}
	return "process parse: " + e.Err.Error()
}

func (e ErrProcess) Unwrap() error { return e.Err }

// Unrecoverable reports whether err means the message can never succeed and
// should be removed from the queue.
func Unrecoverable(err error) bool {
	var (
		empty   ErrEmptyBody
		decode  ErrDecode
		missing ErrMissingParseID
	)
	return errors.As(err, &empty) || errors.As(err, &decode) || errors.As(err, &missing)
}

// ParseMessage validates and decodes the queue payload.
func ParseMessage(body string) (queue.Message, MessageMeta, error) {
	meta := ComputeMeta(body)
	if strings.TrimSpace(body) == "" {
		return queue.Message{}, meta, ErrEmptyBody{Meta: meta}
	}

	msg, err := queue.DecodeMessage([]byte(body))
	if err != nil {
		return queue.Message{}, meta, ErrDecode{Meta: meta, Err: err}
	}
	if strings.TrimSpace(msg.ParseID) == "" {
		return msg, meta, ErrMissingParseID{Meta: meta, RequestID: msg.RequestID}
	}
	return msg, meta, nil
}

type parsedMessageKey struct{}

// WithParsedMessage stores a decoded message in the context for reuse.
func WithParsedMessage(ctx context.Context, msg queue.Message) context.Context {
	return context.WithValue(ctx, parsedMessageKey{}, msg)
}

func parsedMessageFromContext(ctx context.Context) (queue.Message, bool) {
	if ctx == nil {
		return queue.Message{}, false
	}
	msg, ok := ctx.Value(parsedMessageKey{}).(queue.Message)
	return msg, ok
}

// HandleMessage parses, validates, and processes a message payload with the
// app's parse processor.
func HandleMessage(ctx context.Context, app *bootstrap.App, body string) error {
	if app == nil {
		return errors.New("parse service not configured")
	}
	processor := app.ParseProcessor
	if processor == nil && app.ParsesService != nil {
		processor = app.ParsesService
	}
	return Process(ctx, processor, body)
}

// Process runs one message body through processor.
func Process(ctx context.Context, processor parses.Processor, body string) error {
	if processor == nil {
		return errors.New("parse service not configured")
	}

	msg, ok := parsedMessageFromContext(ctx)
	if !ok {
		var err error
		msg, _, err = ParseMessage(body)
		if err != nil {
			return err
		}
	}

	if strings.TrimSpace(msg.ParseID) == "" {
		return ErrMissingParseID{Meta: ComputeMeta(body), RequestID: msg.RequestID}
	}

	ctxWithRequest := parses.WithRequestID(ctx, msg.RequestID)
	if err := processor.ProcessParse(ctxWithRequest, msg.ParseID); err != nil {
		return ErrProcess{ParseID: msg.ParseID, RequestID: msg.RequestID, Err: err}
	}
	return nil
}
