package parses

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-parser/internal/documents"
	"resume-parser/internal/queue"
	"resume-parser/internal/shared/config"
	"resume-parser/internal/shared/metrics"
	"resume-parser/internal/shared/storage/object"
	"resume-parser/internal/shared/telemetry"
	"resume-parser/resume/contract"
	"resume-parser/resume/export"
	"resume-parser/resume/model"
	"resume-parser/resume/parser"
	"resume-parser/resume/skills"
)

// Processor runs a queued parse job. The worker binaries depend on this.
type Processor interface {
	ProcessParse(ctx context.Context, parseID string) error
}

// Service contains business logic for parse jobs.
type Service struct {
	Repo     Repo
	Docs     *documents.Service
	Parser   *parser.Parser
	JobQueue queue.Client
	// Mode is config.ParseModeSync (run in-process) or config.ParseModeQueue.
	Mode string
	Now  func() time.Time
}

// Create records a queued parse job for one of the user's documents and dispatches it.
func (s *Service) Create(ctx context.Context, userID, documentID string) (Parse, error) {
	if userID == "" || documentID == "" {
		return Parse{}, ErrInvalidInput
	}
	doc, err := s.Docs.Get(ctx, userID, documentID)
	if err != nil {
		return Parse{}, err
	}

	now := s.now()
	job := Parse{
		ID:         uuid.NewString(),
		DocumentID: doc.ID,
		UserID:     userID,
		Status:     StatusQueued,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Repo.Create(ctx, job); err != nil {
		return Parse{}, fmt.Errorf("create parse: %w", err)
	}
	s.logStatus(ctx, job, "", StatusQueued, 0)

	if err := s.dispatch(ctx, job); err != nil {
		s.fail(ctx, job, time.Time{}, err)
		return Parse{}, err
	}
	return job, nil
}

func (s *Service) dispatch(ctx context.Context, job Parse) error {
	if s.Mode != config.ParseModeQueue {
		go func() {
			_ = s.ProcessParse(detached(ctx), job.ID)
		}()
		return nil
	}
	if s.JobQueue == nil {
		return ErrJobQueueNotConfigured
	}
	msg := queue.NewMessage(job.ID, requestIDFromContext(ctx), s.now())
	if err := s.JobQueue.Send(ctx, msg); err != nil {
		return fmt.Errorf("enqueue parse %s: %w", job.ID, err)
	}
	return nil
}

// ProcessParse runs the pipeline for a queued job and stores the outcome. It
// returns an error only when the failure is retryable; the job then stays
// eligible for another ProcessParse call.
func (s *Service) ProcessParse(ctx context.Context, parseID string) (err error) {
	job, err := s.Repo.GetByID(ctx, parseID)
	if err != nil {
		return fmt.Errorf("parse lookup %s: %w", parseID, err)
	}
	if job.Terminal() {
		telemetry.Warn("parse.skip_terminal", map[string]any{"parse_id": job.ID, "status": job.Status})
		return nil
	}

	startedAt := s.now()
	if err := s.Repo.UpdateStatus(ctx, job.ID, Update{Status: StatusProcessing, At: startedAt}); err != nil {
		if errors.Is(err, ErrInvalidTransition) {
			return nil
		}
		return fmt.Errorf("set processing %s: %w", job.ID, err)
	}
	metrics.IncParseStarted()
	s.logStatus(ctx, job, job.Status, StatusProcessing, 0)

	defer func() {
		if r := recover(); r != nil {
			err = s.fail(ctx, job, startedAt, fmt.Errorf("panic: %v", r))
		}
	}()

	doc, err := s.Docs.Get(ctx, job.UserID, job.DocumentID)
	if err != nil {
		return s.fail(ctx, job, startedAt, &storageError{fmt.Errorf("document lookup %s: %w", job.DocumentID, err)})
	}
	data, err := s.Docs.ReadAll(ctx, doc)
	if err != nil {
		return s.fail(ctx, job, startedAt, &storageError{err})
	}

	analysis, err := s.Parser.Inspect(ctx, data)
	if err != nil {
		return s.fail(ctx, job, startedAt, err)
	}
	if err := contract.Validate(analysis.Resume); err != nil {
		return s.fail(ctx, job, startedAt, fmt.Errorf("result failed schema: %w", err))
	}

	completedAt := s.now()
	duration := completedAt.Sub(startedAt)
	update := Update{
		Status:       StatusCompleted,
		Result:       &analysis.Resume,
		SectionCount: len(analysis.Sections),
		LineCount:    len(analysis.Lines),
		DurationMs:   duration.Milliseconds(),
		At:           completedAt,
	}
	if err := s.Repo.UpdateStatus(ctx, job.ID, update); err != nil {
		return s.fail(ctx, job, startedAt, &storageError{fmt.Errorf("store result: %w", err)})
	}
	metrics.IncParseCompleted()
	metrics.ObserveParseDurationMs(float64(duration.Microseconds()) / 1000.0)
	s.logStatus(ctx, job, StatusProcessing, StatusCompleted, duration)
	return nil
}

// fail marks the job failed and returns err when it is retryable.
func (s *Service) fail(ctx context.Context, job Parse, startedAt time.Time, cause error) error {
	code, retryable := classifyFailure(cause)
	at := s.now()
	var duration time.Duration
	if !startedAt.IsZero() {
		duration = at.Sub(startedAt)
	}
	update := Update{
		Status:       StatusFailed,
		ErrorCode:    code,
		ErrorMessage: sanitizeError(cause),
		Retryable:    retryable,
		DurationMs:   duration.Milliseconds(),
		At:           at,
	}
	// Recorded even when ctx is already canceled.
	if err := s.Repo.UpdateStatus(detached(ctx), job.ID, update); err != nil {
		telemetry.Error("parse.fail_update", map[string]any{"parse_id": job.ID, "error": err.Error(), "cause": cause.Error()})
	}

	metrics.IncParseFailed()
	if code == ErrorCodeDecode {
		metrics.IncDecodeFailed()
	}
	from := StatusProcessing
	if startedAt.IsZero() {
		from = StatusQueued
	}
	s.logStatus(ctx, job, from, StatusFailed, duration, "error_code", code, "error", update.ErrorMessage)

	if retryable {
		return cause
	}
	return nil
}

// Get returns one of the user's parse jobs.
func (s *Service) Get(ctx context.Context, userID, parseID string) (Parse, error) {
	if userID == "" || parseID == "" {
		return Parse{}, ErrInvalidInput
	}
	job, err := s.Repo.GetByID(ctx, parseID)
	if err != nil {
		return Parse{}, err
	}
	if job.UserID != userID {
		return Parse{}, ErrNotFound
	}
	return job, nil
}

// List returns the user's parse jobs newest first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Parse, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// Export renders a completed parse as an XLSX workbook.
func (s *Service) Export(ctx context.Context, userID, parseID string) ([]byte, error) {
	job, err := s.Get(ctx, userID, parseID)
	if err != nil {
		return nil, err
	}
	if job.Status != StatusCompleted || job.Result == nil {
		return nil, ErrNotCompleted
	}
	return export.WorkbookXLSX(*job.Result)
}

// ParseNow parses document bytes without persisting anything. Curated featured
// skills replace the (always empty) extracted ones when given.
func (s *Service) ParseNow(ctx context.Context, data []byte, featured []model.FeaturedSkill) (model.Resume, error) {
	start := time.Now()
	metrics.IncParseStarted()
	resume, err := s.Parser.Parse(ctx, data)
	if err != nil {
		metrics.IncParseFailed()
		if parser.IsDecodeError(err) {
			metrics.IncDecodeFailed()
		}
		return model.Resume{}, err
	}
	if len(featured) > 0 {
		skills.ApplyFeatured(&resume, featured, skills.DefaultMaxFeatured)
	}
	metrics.IncParseCompleted()
	metrics.ObserveParseDurationMs(metrics.SinceMillis(start))
	return resume, nil
}

func (s *Service) logStatus(ctx context.Context, job Parse, from, to string, duration time.Duration, extra ...any) {
	fields := map[string]any{
		"request_id":  requestIDFromContext(ctx),
		"user_id":     job.UserID,
		"document_id": job.DocumentID,
		"parse_id":    job.ID,
		"status":      to,
		"duration_ms": float64(duration.Microseconds()) / 1000.0,
	}
	if from != "" {
		fields["status_transition"] = from + "->" + to
	}
	for i := 0; i+1 < len(extra); i += 2 {
		if key, ok := extra[i].(string); ok {
			fields[key] = extra[i+1]
		}
	}
	if to == StatusFailed {
		telemetry.Warn("parse.status", fields)
		return
	}
	telemetry.Info("parse.status", fields)
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// storageError marks failures reading the document or writing the result.
type storageError struct {
	err error
}

func (e *storageError) Error() string { return e.err.Error() }
func (e *storageError) Unwrap() error { return e.err }

func classifyFailure(err error) (string, bool) {
	var se *storageError
	switch {
	case err == nil:
		return ErrorCodeInternal, false
	case parser.IsDecodeError(err):
		return ErrorCodeDecode, false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrorCodeCanceled, true
	case errors.Is(err, documents.ErrNotFound), errors.Is(err, object.ErrObjectNotFound):
		return ErrorCodeStorage, false
	case errors.As(err, &se):
		return ErrorCodeStorage, true
	default:
		return ErrorCodeInternal, false
	}
}

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.Join(strings.Fields(err.Error()), " ")
	const maxLen = 500
	if runes := []rune(msg); len(runes) > maxLen {
		msg = string(runes[:maxLen])
	}
	return msg
}

var _ Processor = (*Service)(nil)
