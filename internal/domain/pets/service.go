package pets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"huellitas/internal/apperr"
	"huellitas/internal/ports/storage"

	"github.com/google/uuid"
)

type Service struct {
	repo    Repository
	objects storage.ObjectStore
	now     func() time.Time

	// sufijo monotónico para las keys de imágenes
	mu         sync.Mutex
	lastSuffix int64
}

func NewService(repo Repository, objects storage.ObjectStore) *Service {
	return &Service{
		repo:    repo,
		objects: objects,
		now:     time.Now,
	}
}

type CreateInput struct {
	Name      string
	Species   string
	Breed     string
	Sex       string
	BirthDate *time.Time
	Notes     string
	ImageURL  string
}

func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (Pet, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return Pet{}, apperr.ErrNotAuthenticated
	}
	if strings.TrimSpace(in.Name) == "" {
		return Pet{}, apperr.New(apperr.KindInvalidInput, "name is required")
	}
	species, ok := ParseSpecies(in.Species)
	if !ok {
		return Pet{}, apperr.Newf(apperr.KindInvalidInput, "unsupported species %q", in.Species)
	}
	sex, ok := ParseSex(in.Sex)
	if !ok {
		return Pet{}, apperr.Newf(apperr.KindInvalidInput, "unsupported sex %q", in.Sex)
	}

	now := s.now()
	p := Pet{
		ID:          uuid.NewString(),
		OwnerUserID: ownerUserID,
		Name:        strings.TrimSpace(in.Name),
		Species:     species,
		Breed:       strings.TrimSpace(in.Breed),
		Sex:         sex,
		BirthDate:   in.BirthDate,
		Notes:       strings.TrimSpace(in.Notes),
		ImageURL:    strings.TrimSpace(in.ImageURL),
		Active:      boolPtr(true),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, apperr.Normalize(err)
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Pet{}, apperr.New(apperr.KindInvalidInput, "pet id is required")
	}
	p, err := s.repo.GetByID(ctx, id)
	return p, apperr.Normalize(err)
}

// ListByOwner filtra por status (vacío = active).
func (s *Service) ListByOwner(ctx context.Context, ownerUserID string, status Status) ([]Pet, error) {
	switch status {
	case "", StatusActive:
		return s.ListActive(ctx, ownerUserID)
	case StatusArchived:
		return s.ListArchived(ctx, ownerUserID)
	case StatusAll:
		items, err := s.repo.ListByOwner(ctx, ownerUserID)
		return items, apperr.Normalize(err)
	default:
		return nil, apperr.Newf(apperr.KindInvalidInput, "unknown status %q", status)
	}
}

// ListActive devuelve las mascotas cuyo flag no es false (sin flag = activa), en el orden del repo.
func (s *Service) ListActive(ctx context.Context, ownerUserID string) ([]Pet, error) {
	items, err := s.repo.ListByOwner(ctx, ownerUserID)
	if err != nil {
		return nil, apperr.Normalize(err)
	}
	out := make([]Pet, 0, len(items))
	for _, p := range items {
		if p.IsActive() {
			out = append(out, p)
		}
	}
	return out, nil
}

// ListArchived devuelve las mascotas archivadas ordenadas por archived_at desc.
// Las que no tienen archived_at van al final.
func (s *Service) ListArchived(ctx context.Context, ownerUserID string) ([]Pet, error) {
	items, err := s.repo.ListByOwner(ctx, ownerUserID)
	if err != nil {
		return nil, apperr.Normalize(err)
	}
	out := make([]Pet, 0)
	for _, p := range items {
		if !p.IsActive() {
			out = append(out, p)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].ArchivedAt, out[j].ArchivedAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
	return out, nil
}

// Archive pasa la mascota al memorial: active=false, archived_at=now.
// La verificación de dueño es responsabilidad del handler.
func (s *Service) Archive(ctx context.Context, id string) (Pet, error) {
	return s.mutate(ctx, id, func(p *Pet, now time.Time) {
		p.Active = boolPtr(false)
		p.ArchivedAt = &now
	})
}

// Restore revierte Archive: active=true, archived_at=nil.
func (s *Service) Restore(ctx context.Context, id string) (Pet, error) {
	return s.mutate(ctx, id, func(p *Pet, _ time.Time) {
		p.Active = boolPtr(true)
		p.ArchivedAt = nil
	})
}

// UploadImage sube la imagen a pets/{id}/profile_{suffix}.jpg y recién después actualiza image_url.
// Si la subida falla no se toca el registro.
func (s *Service) UploadImage(ctx context.Context, id string, content io.Reader, contentType string) (Pet, error) {
	if s.objects == nil {
		return Pet{}, apperr.New(apperr.KindUploadFailure, "object storage not configured")
	}
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}

	key := fmt.Sprintf("pets/%s/profile_%d.jpg", p.ID, s.nextSuffix())
	obj, err := s.objects.Upload(ctx, key, content, contentType)
	if err != nil {
		return Pet{}, apperr.Wrap(apperr.KindUploadFailure, err, "upload pet image")
	}

	return s.mutate(ctx, p.ID, func(p *Pet, _ time.Time) {
		p.ImageURL = obj.URL
		p.ImageKey = obj.Key
	})
}

// DeleteImage borra la imagen del bucket y limpia image_url. Sin imagen es un no-op.
func (s *Service) DeleteImage(ctx context.Context, id string) (Pet, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}
	if p.ImageURL == "" && p.ImageKey == "" {
		return p, nil
	}

	if p.ImageKey != "" {
		if s.objects == nil {
			return Pet{}, apperr.New(apperr.KindUploadFailure, "object storage not configured")
		}
		// si el objeto ya no está igual se limpia la ficha
		if err := s.objects.Delete(ctx, p.ImageKey); err != nil && !errors.Is(err, apperr.ErrNotFound) {
			return Pet{}, apperr.Wrap(apperr.KindUploadFailure, err, "delete pet image")
		}
	}

	return s.mutate(ctx, p.ID, func(p *Pet, _ time.Time) {
		p.ImageURL = ""
		p.ImageKey = ""
	})
}

func (s *Service) mutate(ctx context.Context, id string, fn func(p *Pet, now time.Time)) (Pet, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}

	now := s.now()
	fn(&p, now)
	p.UpdatedAt = now

	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, apperr.Normalize(err)
	}
	return p, nil
}

// nextSuffix devuelve un timestamp en ms estrictamente creciente.
func (s *Service) nextSuffix() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := s.now().UnixMilli()
	if v <= s.lastSuffix {
		v = s.lastSuffix + 1
	}
	s.lastSuffix = v
	return v
}
