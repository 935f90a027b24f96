package accounts

import (
	"context"
	"time"

	"huellitas/internal/ports/auth"
)

// Repository persiste cuentas. Create devuelve apperr.ErrDuplicateAccount si el email ya existe
// y GetBy* devuelve apperr.ErrNotFound si no hay cuenta.
type Repository interface {
	Create(ctx context.Context, a Account) error
	Update(ctx context.Context, a Account) error
	GetByID(ctx context.Context, id string) (Account, error)
	GetByEmail(ctx context.Context, email string) (Account, error)
	Delete(ctx context.Context, id string) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare devuelve error si password no corresponde al hash.
	Compare(hash, password string) error
}

type TokenIssuer interface {
	Issue(claims auth.Claims) (token string, expiresAt time.Time, err error)
}

// AttemptLimiter cuenta intentos fallidos de login por clave (email).
type AttemptLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Fail(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

// ProfileCreator crea el Profile Document por defecto al registrar.
type ProfileCreator interface {
	CreateDefault(ctx context.Context, userID, email, displayName string) error
}
