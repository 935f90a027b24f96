package memory

import (
	"context"
	"sync"
	"time"

	"huellitas/internal/apperr"
	"huellitas/internal/domain/pets"
)

// petRepo indexa por id y por dueño; ListByOwner devuelve el orden de alta.
type petRepo struct {
	mu      sync.RWMutex
	byID    map[string]pets.Pet
	byOwner map[string][]string
}

func NewPetRepo() pets.Repository {
	return &petRepo{
		byID:    make(map[string]pets.Pet),
		byOwner: make(map[string][]string),
	}
}

func (r *petRepo) Create(_ context.Context, p pets.Pet) error {
	if p.ID == "" {
		return apperr.New(apperr.KindInvalidInput, "pet id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.byID[p.ID]; dup {
		return apperr.Newf(apperr.KindPersistence, "pet %s already stored", p.ID)
	}
	r.byID[p.ID] = clonePet(p)
	r.byOwner[p.OwnerUserID] = append(r.byOwner[p.OwnerUserID], p.ID)
	return nil
}

// Update no permite cambiar de dueño.
func (r *petRepo) Update(_ context.Context, p pets.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[p.ID]
	if !ok {
		return apperr.New(apperr.KindNotFound, "pet not found")
	}
	p.OwnerUserID = cur.OwnerUserID
	r.byID[p.ID] = clonePet(p)
	return nil
}

func (r *petRepo) GetByID(_ context.Context, id string) (pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return pets.Pet{}, apperr.New(apperr.KindNotFound, "pet not found")
	}
	return clonePet(p), nil
}

func (r *petRepo) ListByOwner(_ context.Context, ownerUserID string) ([]pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byOwner[ownerUserID]
	out := make([]pets.Pet, 0, len(ids))
	for _, id := range ids {
		out = append(out, clonePet(r.byID[id]))
	}
	return out, nil
}

// clonePet copia los punteros para que nadie modifique el estado guardado.
func clonePet(p pets.Pet) pets.Pet {
	p.BirthDate = cloneTime(p.BirthDate)
	p.ArchivedAt = cloneTime(p.ArchivedAt)
	if p.Active != nil {
		v := *p.Active
		p.Active = &v
	}
	return p
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
