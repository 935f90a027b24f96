package profiles

import "context"

type Repository interface {
	// Get devuelve apperr.ErrNotFound si el usuario no tiene perfil.
	Get(ctx context.Context, userID string) (Profile, error)
	// Upsert crea o reemplaza el documento completo.
	Upsert(ctx context.Context, p Profile) error
}

// IdentityUpdater refleja nombre/foto en el servicio de identidad (cuentas locales).
type IdentityUpdater interface {
	UpdateIdentity(ctx context.Context, userID string, displayName, photoURL *string) error
}
