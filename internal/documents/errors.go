package documents

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrNotPDF       = errors.New("only PDF uploads are supported")
)
