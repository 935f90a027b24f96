package memory

import (
	"context"
	"sync"

	"huellitas/internal/apperr"
	"huellitas/internal/domain/profiles"
)

type profileRepo struct {
	mu     sync.RWMutex
	byUser map[string]profiles.Profile
}

func NewProfileRepo() profiles.Repository {
	return &profileRepo{
		byUser: make(map[string]profiles.Profile),
	}
}

func (r *profileRepo) Get(ctx context.Context, userID string) (profiles.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byUser[userID]
	if !ok {
		return profiles.Profile{}, apperr.New(apperr.KindNotFound, "profile not found")
	}
	return p, nil
}

func (r *profileRepo) Upsert(ctx context.Context, p profiles.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.byUser[p.UserID]; ok && !prev.CreatedAt.IsZero() {
		p.CreatedAt = prev.CreatedAt
	}
	r.byUser[p.UserID] = p
	return nil
}
