package pets

import "context"

// Repository persiste mascotas. GetByID/Update devuelven apperr.ErrNotFound si no existe.
type Repository interface {
	Create(ctx context.Context, p Pet) error
	Update(ctx context.Context, p Pet) error
	GetByID(ctx context.Context, id string) (Pet, error)
	// ListByOwner no filtra por estado; el orden es el del backend.
	ListByOwner(ctx context.Context, ownerUserID string) ([]Pet, error)
}
