package parses

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"testing"
	"unicode/utf8"

	"resume-parser/internal/documents"
	"resume-parser/internal/queue"
	"resume-parser/internal/shared/config"
	"resume-parser/internal/shared/storage/object"
	localstore "resume-parser/internal/shared/storage/object/local"
	"resume-parser/internal/testpdf"
	"resume-parser/resume/model"
	"resume-parser/resume/parser"
)

type flakyStore struct {
	object.ObjectStore
	failures atomic.Int32
}

func (s *flakyStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if s.failures.Add(-1) >= 0 {
		return nil, errors.New("store unavailable")
	}
	return s.ObjectStore.Open(ctx, key)
}

type fixture struct {
	svc   *Service
	repo  *MemoryRepo
	queue *queue.MemoryQueue
	store *flakyStore
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	p, err := parser.New(parser.DefaultConfig())
	if err != nil {
		t.Fatalf("parser.New: %v", err)
	}
	store := &flakyStore{ObjectStore: localstore.New(t.TempDir())}
	repo := NewMemoryRepo()
	q := &queue.MemoryQueue{}
	svc := &Service{
		Repo:     repo,
		Docs:     &documents.Service{Store: store, Repo: documents.NewMemoryRepo()},
		Parser:   p,
		JobQueue: q,
		Mode:     config.ParseModeQueue,
	}
	return fixture{svc: svc, repo: repo, queue: q, store: store}
}

func (f fixture) upload(t *testing.T, userID string, data []byte) documents.Document {
	t.Helper()
	doc, err := f.svc.Docs.Upload(context.Background(), userID, "cv.pdf", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	return doc
}

func TestCreateEnqueuesMessage(t *testing.T) {
	f := newFixture(t)
	doc := f.upload(t, "guest:g1", testpdf.Resume())

	ctx := WithRequestID(context.Background(), "req-1")
	job, err := f.svc.Create(ctx, "guest:g1", doc.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if job.Status != StatusQueued {
		t.Fatalf("expected queued, got %s", job.Status)
	}
	sent := f.queue.Sent()
	if len(sent) != 1 || sent[0].ParseID != job.ID || sent[0].RequestID != "req-1" {
		t.Fatalf("unexpected messages: %+v", sent)
	}
}

func TestCreateUnknownDocument(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.Create(context.Background(), "guest:g1", "missing"); !errors.Is(err, documents.ErrNotFound) {
		t.Fatalf("expected documents.ErrNotFound, got %v", err)
	}
}

func TestCreateWithoutQueueFailsJob(t *testing.T) {
	f := newFixture(t)
	f.svc.JobQueue = nil
	doc := f.upload(t, "u", testpdf.Resume())

	if _, err := f.svc.Create(context.Background(), "u", doc.ID); !errors.Is(err, ErrJobQueueNotConfigured) {
		t.Fatalf("expected ErrJobQueueNotConfigured, got %v", err)
	}
	jobs, _ := f.repo.ListByUser(context.Background(), "u", 10, 0)
	if len(jobs) != 1 || jobs[0].Status != StatusFailed {
		t.Fatalf("expected one failed job, got %+v", jobs)
	}
}

func TestProcessParseCompletes(t *testing.T) {
	f := newFixture(t)
	doc := f.upload(t, "u", testpdf.Resume())
	job, err := f.svc.Create(context.Background(), "u", doc.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := f.svc.ProcessParse(context.Background(), job.ID); err != nil {
		t.Fatalf("ProcessParse: %v", err)
	}

	got, err := f.svc.Get(context.Background(), "u", job.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != StatusCompleted || got.Result == nil {
		t.Fatalf("expected completed with result, got %+v", got)
	}
	if got.Result.Profile.Name != "Jane Doe" || got.Result.Profile.Email != "jane@example.com" {
		t.Fatalf("unexpected profile: %+v", got.Result.Profile)
	}
	if got.SectionCount != 3 || got.LineCount != 10 {
		t.Fatalf("unexpected stats: sections=%d lines=%d", got.SectionCount, got.LineCount)
	}
	if got.CompletedAt == nil {
		t.Fatalf("expected completedAt")
	}

	// A second delivery of the same message is a no-op.
	if err := f.svc.ProcessParse(context.Background(), job.ID); err != nil {
		t.Fatalf("second ProcessParse: %v", err)
	}
}

func TestProcessParseDecodeErrorIsPermanent(t *testing.T) {
	f := newFixture(t)
	doc := f.upload(t, "u", []byte("%PDF-1.4\nthis is not really a pdf"))
	job, err := f.svc.Create(context.Background(), "u", doc.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := f.svc.ProcessParse(context.Background(), job.ID); err != nil {
		t.Fatalf("expected nil for permanent failure, got %v", err)
	}
	got, _ := f.svc.Get(context.Background(), "u", job.ID)
	if got.Status != StatusFailed || got.ErrorCode != ErrorCodeDecode || got.Retryable {
		t.Fatalf("unexpected job: %+v", got)
	}
}

func TestProcessParseRetriesStorageFailure(t *testing.T) {
	f := newFixture(t)
	doc := f.upload(t, "u", testpdf.Resume())
	job, err := f.svc.Create(context.Background(), "u", doc.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	f.store.failures.Store(1)

	if err := f.svc.ProcessParse(context.Background(), job.ID); err == nil {
		t.Fatalf("expected retryable error")
	}
	got, _ := f.svc.Get(context.Background(), "u", job.ID)
	if got.Status != StatusFailed || got.ErrorCode != ErrorCodeStorage || !got.Retryable {
		t.Fatalf("unexpected job after first attempt: %+v", got)
	}

	if err := f.svc.ProcessParse(context.Background(), job.ID); err != nil {
		t.Fatalf("retry: %v", err)
	}
	got, _ = f.svc.Get(context.Background(), "u", job.ID)
	if got.Status != StatusCompleted || got.ErrorCode != "" {
		t.Fatalf("expected completed after retry, got %+v", got)
	}
}

func TestGetHidesOtherUsersJobs(t *testing.T) {
	f := newFixture(t)
	doc := f.upload(t, "u", testpdf.Resume())
	job, err := f.svc.Create(context.Background(), "u", doc.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := f.svc.Get(context.Background(), "someone-else", job.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestExport(t *testing.T) {
	f := newFixture(t)
	doc := f.upload(t, "u", testpdf.Resume())
	job, err := f.svc.Create(context.Background(), "u", doc.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := f.svc.Export(context.Background(), "u", job.ID); !errors.Is(err, ErrNotCompleted) {
		t.Fatalf("expected ErrNotCompleted, got %v", err)
	}
	if err := f.svc.ProcessParse(context.Background(), job.ID); err != nil {
		t.Fatalf("ProcessParse: %v", err)
	}
	data, err := f.svc.Export(context.Background(), "u", job.ID)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("PK")) {
		t.Fatalf("expected zip container")
	}
}

func TestParseNowAppliesFeaturedSkills(t *testing.T) {
	f := newFixture(t)
	featured := []model.FeaturedSkill{{Skill: "Go", Rating: 9}, {Skill: "go", Rating: 1}}

	resume, err := f.svc.ParseNow(context.Background(), testpdf.Resume(), featured)
	if err != nil {
		t.Fatalf("ParseNow: %v", err)
	}
	if len(resume.Skills.FeaturedSkills) != 1 || resume.Skills.FeaturedSkills[0].Rating != model.MaxSkillRating {
		t.Fatalf("unexpected featured skills: %+v", resume.Skills.FeaturedSkills)
	}

	if _, err := f.svc.ParseNow(context.Background(), []byte("nope"), nil); !parser.IsDecodeError(err) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{StatusQueued, StatusProcessing, true},
		{StatusQueued, StatusFailed, true},
		{StatusQueued, StatusCompleted, false},
		{StatusProcessing, StatusCompleted, true},
		{StatusProcessing, StatusFailed, true},
		{StatusCompleted, StatusProcessing, false},
		{StatusFailed, StatusProcessing, false},
	}
	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Fatalf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestClassifyFailure(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		code      string
		retryable bool
	}{
		{"decode", &parser.DecodeError{Err: errors.New("bad xref")}, ErrorCodeDecode, false},
		{"canceled", context.Canceled, ErrorCodeCanceled, true},
		{"missing document", &storageError{documents.ErrNotFound}, ErrorCodeStorage, false},
		{"missing object", &storageError{fmt.Errorf("open: %w", object.ErrObjectNotFound)}, ErrorCodeStorage, false},
		{"storage", &storageError{errors.New("timeout")}, ErrorCodeStorage, true},
		{"other", errors.New("boom"), ErrorCodeInternal, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, retryable := classifyFailure(tt.err)
			if code != tt.code || retryable != tt.retryable {
				t.Fatalf("classifyFailure = %s/%v, want %s/%v", code, retryable, tt.code, tt.retryable)
			}
		})
	}
}

func TestSanitizeErrorTruncatesOnRuneBoundary(t *testing.T) {
	// 499 ASCII bytes put the 500th rune on a two-byte "é".
	msg := strings.Repeat("a", 499) + strings.Repeat("é", 10)
	got := sanitizeError(errors.New(msg))
	if !utf8.ValidString(got) {
		t.Fatalf("truncated message is not valid UTF-8")
	}
	if n := utf8.RuneCountInString(got); n != 500 {
		t.Fatalf("expected 500 runes, got %d", n)
	}
	if !strings.HasSuffix(got, "aé") {
		t.Fatalf("unexpected tail %q", got[len(got)-4:])
	}

	if got := sanitizeError(errors.New("  storage \n timeout  ")); got != "storage timeout" {
		t.Fatalf("expected collapsed whitespace, got %q", got)
	}
	if got := sanitizeError(nil); got != "" {
		t.Fatalf("expected empty message for nil, got %q", got)
	}
}
