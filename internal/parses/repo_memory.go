package parses

import (
	"context"
	"slices"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu    sync.RWMutex
	byID  map[string]Parse
	order []string
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Parse)}
}

func (r *MemoryRepo) Create(ctx context.Context, p Parse) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[p.ID] = p
	r.order = append(r.order, p.ID)
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, parseID string) (Parse, error) {
	if err := ctx.Err(); err != nil {
		return Parse{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[parseID]
	if !ok {
		return Parse{}, ErrNotFound
	}
	return p, nil
}

// ListByUser returns the user's jobs newest first.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Parse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	var out []Parse
	for _, id := range slices.Backward(r.order) {
		if p := r.byID[id]; p.UserID == userID {
			out = append(out, p)
		}
	}
	r.mu.RUnlock()

	offset = max(offset, 0)
	if offset >= len(out) {
		return []Parse{}, nil
	}
	end := len(out)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return out[offset:end], nil
}

func (r *MemoryRepo) UpdateStatus(ctx context.Context, parseID string, u Update) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[parseID]
	if !ok {
		return ErrNotFound
	}
	if !p.canMoveTo(u.Status) {
		return ErrInvalidTransition
	}
	p.apply(u)
	r.byID[parseID] = p
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
