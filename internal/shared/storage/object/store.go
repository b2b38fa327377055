package object

import (
	"context"
	"errors"
	"io"
	"net/http"
)

// ErrObjectNotFound is returned by Open when no object exists under the key.
var ErrObjectNotFound = errors.New("object not found")

// ObjectStore saves and retrieves uploaded résumé files.
type ObjectStore interface {
	Save(ctx context.Context, ownerID string, fileName string, r io.Reader) (storageKey string, sizeBytes int64, mimeType string, err error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}

// SniffLen is the number of leading bytes used to detect the content type.
const SniffLen = 512

// Sniff reads up to SniffLen bytes from r and returns them with the detected content type.
func Sniff(r io.Reader) ([]byte, string, error) {
	buf := make([]byte, SniffLen)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, "", err
	}
	return buf[:n], http.DetectContentType(buf[:n]), nil
}
