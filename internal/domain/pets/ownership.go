package pets

import (
	"context"

	"huellitas/internal/apperr"
)

// OwnerOf expone el ownerUserID de una mascota.
// Se usa para evitar ciclos de imports entre módulos (carerecords, memorials -> pets).
func (s *Service) OwnerOf(ctx context.Context, petID string) (string, error) {
	p, err := s.GetByID(ctx, petID)
	if err != nil {
		return "", err
	}
	return p.OwnerUserID, nil
}

// GetOwned devuelve la mascota solo si pertenece a userID (PermissionDenied si no).
func (s *Service) GetOwned(ctx context.Context, petID, userID string) (Pet, error) {
	p, err := s.GetByID(ctx, petID)
	if err != nil {
		return Pet{}, err
	}
	if p.OwnerUserID != userID {
		return Pet{}, apperr.New(apperr.KindPermissionDenied, "pet belongs to another user")
	}
	return p, nil
}
