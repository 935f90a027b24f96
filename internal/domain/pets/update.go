package pets

import (
	"context"
	"strings"
	"time"

	"huellitas/internal/apperr"
)

// PatchBirthDate distingue "no enviado" de "enviado como null" (limpiar).
type PatchBirthDate struct {
	Present bool
	Value   *time.Time
}

type UpdateProfileInput struct {
	// Punteros para PATCH real: nil = no tocar.
	Name      *string
	Species   *string
	Breed     *string
	Sex       *string
	BirthDate PatchBirthDate
	Notes     *string
}

// UpdateProfile edita los datos de ficha. El estado (activo/archivado) y la imagen
// tienen sus propias operaciones.
func (s *Service) UpdateProfile(ctx context.Context, id string, in UpdateProfileInput) (Pet, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return Pet{}, apperr.New(apperr.KindInvalidInput, "name cannot be empty")
	}

	var species Species
	if in.Species != nil {
		sp, ok := ParseSpecies(*in.Species)
		if !ok {
			return Pet{}, apperr.Newf(apperr.KindInvalidInput, "unsupported species %q", *in.Species)
		}
		species = sp
	}
	var sex Sex
	if in.Sex != nil {
		sx, ok := ParseSex(*in.Sex)
		if !ok {
			return Pet{}, apperr.Newf(apperr.KindInvalidInput, "unsupported sex %q", *in.Sex)
		}
		sex = sx
	}

	return s.mutate(ctx, id, func(p *Pet, _ time.Time) {
		if in.Name != nil {
			p.Name = strings.TrimSpace(*in.Name)
		}
		if in.Species != nil {
			p.Species = species
		}
		if in.Breed != nil {
			p.Breed = strings.TrimSpace(*in.Breed)
		}
		if in.Sex != nil {
			p.Sex = sex
		}
		if in.BirthDate.Present {
			p.BirthDate = in.BirthDate.Value
		}
		if in.Notes != nil {
			p.Notes = strings.TrimSpace(*in.Notes)
		}
	})
}
