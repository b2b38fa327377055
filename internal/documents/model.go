package documents

import "time"

// Document is an uploaded résumé PDF owned by a user or guest.
type Document struct {
	ID              string
	UserID          string
	FileName        string
	MimeType        string
	SizeBytes       int64
	StorageProvider string
	StorageKey      string
	CreatedAt       time.Time
}
