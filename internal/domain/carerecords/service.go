package carerecords

import (
	"context"
	"sort"
	"strings"
	"time"

	"huellitas/internal/apperr"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name         string
	AppliedAt    *time.Time
	NextDueAt    *time.Time
	Veterinarian string
	Notes        string
}

// Create valida el campo obligatorio de cada categoría:
// vacuna/producto para vaccination y deworming, fecha para annual_exam.
func (s *Service) Create(ctx context.Context, petID string, category Category, in CreateInput) (Record, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return Record{}, apperr.New(apperr.KindInvalidInput, "pet id is required")
	}
	if _, ok := ParseCategory(string(category)); !ok {
		return Record{}, apperr.Newf(apperr.KindInvalidInput, "unknown category %q", category)
	}

	name := strings.TrimSpace(in.Name)
	switch category {
	case CategoryVaccination:
		if name == "" {
			return Record{}, apperr.New(apperr.KindInvalidInput, "vaccine is required")
		}
	case CategoryDeworming:
		if name == "" {
			return Record{}, apperr.New(apperr.KindInvalidInput, "product is required")
		}
	case CategoryAnnualExam:
		if in.AppliedAt == nil {
			return Record{}, apperr.New(apperr.KindInvalidInput, "exam date is required")
		}
	}
	if err := checkDates(in.AppliedAt, in.NextDueAt); err != nil {
		return Record{}, err
	}

	now := s.now()
	rec := Record{
		ID:           uuid.NewString(),
		PetID:        petID,
		Category:     category,
		Name:         name,
		AppliedAt:    in.AppliedAt,
		NextDueAt:    in.NextDueAt,
		Veterinarian: strings.TrimSpace(in.Veterinarian),
		Notes:        strings.TrimSpace(in.Notes),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return Record{}, apperr.Normalize(err)
	}
	return rec, nil
}

// List devuelve los registros de la categoría por applied_at desc (sin fecha al final).
func (s *Service) List(ctx context.Context, petID string, category Category) ([]Record, error) {
	items, err := s.repo.ListByPet(ctx, strings.TrimSpace(petID), category)
	if err != nil {
		return nil, apperr.Normalize(err)
	}
	sortByAppliedDesc(items)
	return items, nil
}

type UpdateInput struct {
	// nil = no tocar
	Name         *string
	AppliedAt    *time.Time
	NextDueAt    *time.Time
	Veterinarian *string
	Notes        *string
}

func (s *Service) Update(ctx context.Context, petID string, category Category, id string, in UpdateInput) (Record, error) {
	rec, err := s.get(ctx, petID, category, id)
	if err != nil {
		return Record{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" && category != CategoryAnnualExam {
			return Record{}, apperr.New(apperr.KindInvalidInput, "name cannot be empty")
		}
		rec.Name = name
	}
	if in.AppliedAt != nil {
		rec.AppliedAt = in.AppliedAt
	}
	if in.NextDueAt != nil {
		rec.NextDueAt = in.NextDueAt
	}
	if in.Veterinarian != nil {
		rec.Veterinarian = strings.TrimSpace(*in.Veterinarian)
	}
	if in.Notes != nil {
		rec.Notes = strings.TrimSpace(*in.Notes)
	}
	if err := checkDates(rec.AppliedAt, rec.NextDueAt); err != nil {
		return Record{}, err
	}

	rec.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, rec); err != nil {
		return Record{}, apperr.Normalize(err)
	}
	return rec, nil
}

func (s *Service) Delete(ctx context.Context, petID string, category Category, id string) error {
	if _, err := s.get(ctx, petID, category, id); err != nil {
		return err
	}
	return apperr.Normalize(s.repo.Delete(ctx, id))
}

// Stats devuelve el total y el registro más reciente de la categoría.
func (s *Service) Stats(ctx context.Context, petID string, category Category) (Stats, error) {
	items, err := s.List(ctx, petID, category)
	if err != nil {
		return Stats{}, err
	}
	st := Stats{Total: len(items)}
	if len(items) > 0 {
		last := items[0]
		st.Last = &last
	}
	return st, nil
}

// get carga el registro y verifica que pertenezca a la mascota y categoría de la ruta.
func (s *Service) get(ctx context.Context, petID string, category Category, id string) (Record, error) {
	rec, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Record{}, apperr.Normalize(err)
	}
	if rec.PetID != petID || rec.Category != category {
		return Record{}, apperr.New(apperr.KindNotFound, "record not found")
	}
	return rec, nil
}

func checkDates(applied, next *time.Time) error {
	if applied != nil && next != nil && next.Before(*applied) {
		return apperr.New(apperr.KindInvalidInput, "next due date must be after the applied date")
	}
	return nil
}

func sortByAppliedDesc(items []Record) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].AppliedAt, items[j].AppliedAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
}
