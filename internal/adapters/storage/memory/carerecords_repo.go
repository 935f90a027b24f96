package memory

import (
	"context"
	"errors"
	"sync"

	"huellitas/internal/apperr"
	"huellitas/internal/domain/carerecords"
)

type careRecordRepo struct {
	mu   sync.RWMutex
	byID map[string]carerecords.Record
}

func NewCareRecordRepo() carerecords.Repository {
	return &careRecordRepo{
		byID: make(map[string]carerecords.Record),
	}
}

func (r *careRecordRepo) Create(ctx context.Context, rec carerecords.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec.ID == "" {
		return errors.New("record id required")
	}
	if _, exists := r.byID[rec.ID]; exists {
		return errors.New("record already exists")
	}
	r.byID[rec.ID] = rec
	return nil
}

func (r *careRecordRepo) Update(ctx context.Context, rec carerecords.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[rec.ID]; !exists {
		return apperr.New(apperr.KindNotFound, "record not found")
	}
	r.byID[rec.ID] = rec
	return nil
}

func (r *careRecordRepo) GetByID(ctx context.Context, id string) (carerecords.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.byID[id]
	if !ok {
		return carerecords.Record{}, apperr.New(apperr.KindNotFound, "record not found")
	}
	return rec, nil
}

func (r *careRecordRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return apperr.New(apperr.KindNotFound, "record not found")
	}
	delete(r.byID, id)
	return nil
}

// ListByPet no ordena: el servicio ordena por applied_at.
func (r *careRecordRepo) ListByPet(ctx context.Context, petID string, category carerecords.Category) ([]carerecords.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]carerecords.Record, 0)
	for _, rec := range r.byID {
		if rec.PetID == petID && rec.Category == category {
			out = append(out, rec)
		}
	}
	return out, nil
}
