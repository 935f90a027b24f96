package accounts

import "time"

// MinPasswordLength es la política mínima de contraseña.
const MinPasswordLength = 6

// MaxPasswordBytes es el límite de bcrypt; más largo no se puede hashear.
const MaxPasswordBytes = 72

// Account es la identidad local (email + contraseña).
// El perfil visible (foto, preferencias, idioma) vive en profiles.
type Account struct {
	ID           string
	Email        string // normalizado a minúsculas
	DisplayName  string
	PhotoURL     string
	PasswordHash string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Session es lo que devuelve register/login: token firmado + cuenta.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Account   Account
}
