package documents

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-parser/internal/shared/storage/object"
	"resume-parser/internal/shared/util"
)

const pdfMimeType = "application/pdf"

// Service contains business logic for documents.
type Service struct {
	Store    object.ObjectStore
	Repo     DocumentsRepo
	Provider string
	Now      func() time.Time
}

// Upload saves a PDF to object storage and records the document.
func (s *Service) Upload(ctx context.Context, userID, fileName string, r io.Reader) (Document, error) {
	fileName = strings.TrimSpace(fileName)
	if userID == "" || fileName == "" {
		return Document{}, ErrInvalidInput
	}
	if !util.HasExtension(fileName, ".pdf") {
		return Document{}, ErrNotPDF
	}

	head, mimeType, err := object.Sniff(r)
	if err != nil {
		return Document{}, fmt.Errorf("read upload: %w", err)
	}
	if mimeType != pdfMimeType {
		return Document{}, ErrNotPDF
	}

	storageKey, size, mimeType, err := s.Store.Save(ctx, userID, fileName, io.MultiReader(bytes.NewReader(head), r))
	if err != nil {
		return Document{}, fmt.Errorf("save object: %w", err)
	}

	doc := Document{
		ID:              uuid.NewString(),
		UserID:          userID,
		FileName:        fileName,
		MimeType:        mimeType,
		SizeBytes:       size,
		StorageProvider: s.Provider,
		StorageKey:      storageKey,
		CreatedAt:       s.now(),
	}
	if err := s.Repo.Create(ctx, doc); err != nil {
		return Document{}, fmt.Errorf("record document: %w", err)
	}
	return doc, nil
}

// Current returns the most recent document for a user.
func (s *Service) Current(ctx context.Context, userID string) (Document, error) {
	if userID == "" {
		return Document{}, ErrInvalidInput
	}
	return s.Repo.GetCurrentByUser(ctx, userID)
}

// Get returns one of the user's documents.
func (s *Service) Get(ctx context.Context, userID, documentID string) (Document, error) {
	if userID == "" || documentID == "" {
		return Document{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, userID, documentID)
}

// List returns the user's documents, newest first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Document, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// Open streams the stored PDF of a document.
func (s *Service) Open(ctx context.Context, doc Document) (io.ReadCloser, error) {
	rc, err := s.Store.Open(ctx, doc.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("open object %s: %w", doc.StorageKey, err)
	}
	return rc, nil
}

// ReadAll loads the stored bytes of a document.
func (s *Service) ReadAll(ctx context.Context, doc Document) ([]byte, error) {
	rc, err := s.Open(ctx, doc)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", doc.StorageKey, err)
	}
	return data, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
