package parses

import "errors"

var (
	ErrNotFound              = errors.New("not found")
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotCompleted          = errors.New("parse not completed")
	ErrInvalidTransition     = errors.New("invalid status transition")
	ErrJobQueueNotConfigured = errors.New("job queue not configured")
)

// Failure codes stored on failed parse jobs.
const (
	ErrorCodeDecode   = "DECODE_ERROR"
	ErrorCodeStorage  = "STORAGE_ERROR"
	ErrorCodeCanceled = "CANCELED"
	ErrorCodeInternal = "INTERNAL_ERROR"
)
