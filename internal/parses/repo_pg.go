package parses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"resume-parser/resume/model"
)

// PGRepo implements Repo using Postgres. Results are stored as JSONB.
type PGRepo struct {
	DB *sql.DB
}

const parseColumns = `id, document_id, user_id, status, result, error_code, error_message, error_retryable,
       section_count, line_count, duration_ms, created_at, updated_at, completed_at`

// Create inserts a new parse job.
func (r *PGRepo) Create(ctx context.Context, p Parse) error {
	const query = `
INSERT INTO parses (id, document_id, user_id, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $5)`
	_, err := r.DB.ExecContext(ctx, query, p.ID, p.DocumentID, p.UserID, p.Status, p.CreatedAt)
	return err
}

// GetByID returns a parse job by ID.
func (r *PGRepo) GetByID(ctx context.Context, parseID string) (Parse, error) {
	query := `SELECT ` + parseColumns + `
FROM parses
WHERE id = $1
LIMIT 1`
	p, err := scanParse(r.DB.QueryRowContext(ctx, query, parseID))
	if errors.Is(err, sql.ErrNoRows) {
		return Parse{}, ErrNotFound
	}
	return p, err
}

// ListByUser lists parse jobs ordered newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Parse, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT ` + parseColumns + `
FROM parses
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, userID, min(limit, 100), max(offset, 0))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Parse{}
	for rows.Next() {
		p, err := scanParse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpdateStatus moves a job to u.Status when the stored status allows it.
func (r *PGRepo) UpdateStatus(ctx context.Context, parseID string, u Update) error {
	from := allowedFrom(u.Status)
	if len(from) == 0 {
		return ErrInvalidTransition
	}

	const query = `
UPDATE parses
SET status = $1,
    result = COALESCE($2::jsonb, result),
    error_code = NULLIF($3, ''),
    error_message = NULLIF($4, ''),
    error_retryable = $5,
    section_count = $6,
    line_count = $7,
    duration_ms = $8,
    updated_at = $9,
    completed_at = CASE WHEN $1 IN ('completed', 'failed') THEN $9 ELSE NULL END
WHERE id = $10
  AND (status IN ($11, $12) OR ($1 = 'processing' AND status = 'failed' AND error_retryable))`

	var payload any
	if u.Result != nil {
		data, err := json.Marshal(u.Result)
		if err != nil {
			return fmt.Errorf("marshal parse result: %w", err)
		}
		payload = data
	}

	res, err := r.DB.ExecContext(ctx, query,
		u.Status,
		payload,
		u.ErrorCode,
		u.ErrorMessage,
		u.Retryable,
		u.SectionCount,
		u.LineCount,
		u.DurationMs,
		u.At,
		parseID,
		from[0],
		from[len(from)-1],
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	if _, err := r.GetByID(ctx, parseID); err != nil {
		return err
	}
	return ErrInvalidTransition
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanParse(row rowScanner) (Parse, error) {
	var p Parse
	var result []byte
	var errorCode, errorMessage sql.NullString
	var completedAt sql.NullTime
	err := row.Scan(
		&p.ID,
		&p.DocumentID,
		&p.UserID,
		&p.Status,
		&result,
		&errorCode,
		&errorMessage,
		&p.Retryable,
		&p.SectionCount,
		&p.LineCount,
		&p.DurationMs,
		&p.CreatedAt,
		&p.UpdatedAt,
		&completedAt,
	)
	if err != nil {
		return Parse{}, err
	}
	if len(result) > 0 {
		var resume model.Resume
		if err := json.Unmarshal(result, &resume); err != nil {
			return Parse{}, fmt.Errorf("decode parse result %s: %w", p.ID, err)
		}
		p.Result = &resume
	}
	p.ErrorCode = errorCode.String
	p.ErrorMessage = errorMessage.String
	if completedAt.Valid {
		p.CompletedAt = &completedAt.Time
	}
	return p, nil
}

var _ Repo = (*PGRepo)(nil)
