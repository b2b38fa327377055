package parses

import (
	"time"

	"resume-parser/resume/model"
)

const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Parse is one parse job for an uploaded document.
type Parse struct {
	ID           string        `json:"id"`
	DocumentID   string        `json:"documentId"`
	UserID       string        `json:"userId"`
	Status       string        `json:"status"`
	Result       *model.Resume `json:"result,omitempty"`
	ErrorCode    string        `json:"errorCode,omitempty"`
	ErrorMessage string        `json:"errorMessage,omitempty"`
	Retryable    bool          `json:"retryable,omitempty"`
	SectionCount int           `json:"sectionCount"`
	LineCount    int           `json:"lineCount"`
	DurationMs   int64         `json:"durationMs"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
	CompletedAt  *time.Time    `json:"completedAt,omitempty"`
}

// Update carries a status change and whatever the new status records.
type Update struct {
	Status       string
	Result       *model.Resume
	ErrorCode    string
	ErrorMessage string
	Retryable    bool
	SectionCount int
	LineCount    int
	DurationMs   int64
	At           time.Time
}

var transitions = map[string][]string{
	StatusQueued:     {StatusProcessing, StatusFailed},
	StatusProcessing: {StatusCompleted, StatusFailed},
}

// CanTransition reports whether a job may move from one status to another.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// allowedFrom lists the statuses that may move to status.
func allowedFrom(status string) []string {
	var out []string
	for _, from := range []string{StatusQueued, StatusProcessing} {
		if CanTransition(from, status) {
			out = append(out, from)
		}
	}
	return out
}

// Terminal reports whether the job will not change again. A retryable failure
// is not terminal: the job may be picked up for processing again.
func (p Parse) Terminal() bool {
	return p.Status == StatusCompleted || (p.Status == StatusFailed && !p.Retryable)
}

func (p Parse) canMoveTo(status string) bool {
	if p.Status == StatusFailed && p.Retryable && status == StatusProcessing {
		return true
	}
	return CanTransition(p.Status, status)
}

func (p *Parse) apply(u Update) {
	p.Status = u.Status
	p.UpdatedAt = u.At
	switch u.Status {
	case StatusProcessing:
		p.ErrorCode = ""
		p.ErrorMessage = ""
		p.Retryable = false
		p.CompletedAt = nil
	case StatusCompleted:
		p.Result = u.Result
		p.SectionCount = u.SectionCount
		p.LineCount = u.LineCount
		p.DurationMs = u.DurationMs
		p.CompletedAt = &u.At
	case StatusFailed:
		p.ErrorCode = u.ErrorCode
		p.ErrorMessage = u.ErrorMessage
		p.Retryable = u.Retryable
		p.DurationMs = u.DurationMs
		p.CompletedAt = &u.At
	}
}
