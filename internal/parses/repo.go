package parses

import "context"

// Repo defines persistence operations for parse jobs.
type Repo interface {
	Create(ctx context.Context, p Parse) error
	GetByID(ctx context.Context, parseID string) (Parse, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Parse, error)
	// UpdateStatus applies u if the stored status may transition to u.Status,
	// otherwise it returns ErrInvalidTransition.
	UpdateStatus(ctx context.Context, parseID string, u Update) error
}
