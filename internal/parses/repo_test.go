package parses

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var parseRowColumns = []string{
	"id", "document_id", "user_id", "status", "result", "error_code", "error_message", "error_retryable",
	"section_count", "line_count", "duration_ms", "created_at", "updated_at", "completed_at",
}

func TestMemoryRepoRejectsInvalidTransitions(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	now := time.Now().UTC()
	if err := repo.Create(ctx, Parse{ID: "p1", UserID: "u", Status: StatusQueued, CreatedAt: now}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.UpdateStatus(ctx, "p1", Update{Status: StatusCompleted, At: now}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("queued->completed: expected ErrInvalidTransition, got %v", err)
	}
	if err := repo.UpdateStatus(ctx, "p1", Update{Status: StatusProcessing, At: now}); err != nil {
		t.Fatalf("queued->processing: %v", err)
	}
	if err := repo.UpdateStatus(ctx, "p1", Update{Status: StatusFailed, ErrorCode: ErrorCodeDecode, At: now}); err != nil {
		t.Fatalf("processing->failed: %v", err)
	}
	if err := repo.UpdateStatus(ctx, "p1", Update{Status: StatusProcessing, At: now}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("permanent failure must not restart, got %v", err)
	}
	if err := repo.UpdateStatus(ctx, "missing", Update{Status: StatusProcessing, At: now}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryRepoListNewestFirst(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		if err := repo.Create(ctx, Parse{ID: id, UserID: "u", Status: StatusQueued}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	_ = repo.Create(ctx, Parse{ID: "x", UserID: "other", Status: StatusQueued})

	jobs, err := repo.ListByUser(ctx, "u", 2, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(jobs) != 2 || jobs[0].ID != "c" || jobs[1].ID != "b" {
		t.Fatalf("unexpected page: %+v", jobs)
	}
}

func TestPGRepoGetByIDDecodesResult(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	rows := sqlmock.NewRows(parseRowColumns).
		AddRow("p1", "d1", "u", StatusCompleted, []byte(`{"profile":{"name":"Jane Doe"}}`), nil, nil, false, 3, 10, int64(12), now, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM parses")).WithArgs("p1").WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	got, err := repo.GetByID(context.Background(), "p1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Result == nil || got.Result.Profile.Name != "Jane Doe" {
		t.Fatalf("unexpected result: %+v", got.Result)
	}
	if got.SectionCount != 3 || got.LineCount != 10 || got.CompletedAt == nil {
		t.Fatalf("unexpected job: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGRepoUpdateStatusConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE parses")).
		WithArgs(StatusCompleted, sqlmock.AnyArg(), "", "", false, 3, 10, int64(5), now, "p1", StatusProcessing, StatusProcessing).
		WillReturnResult(sqlmock.NewResult(0, 0))
	rows := sqlmock.NewRows(parseRowColumns).
		AddRow("p1", "d1", "u", StatusCompleted, nil, nil, nil, false, 0, 0, int64(0), now, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM parses")).WithArgs("p1").WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	err = repo.UpdateStatus(context.Background(), "p1", Update{Status: StatusCompleted, SectionCount: 3, LineCount: 10, DurationMs: 5, At: now})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGRepoUpdateStatusRejectsUnknownTarget(t *testing.T) {
	repo := &PGRepo{}
	if err := repo.UpdateStatus(context.Background(), "p1", Update{Status: StatusQueued}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}
