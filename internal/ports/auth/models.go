package auth

// Claims representa la información extraída del token.
type Claims struct {
	UserID string
	Email  string
	Name   string

	// Provider indica quién emitió el token ("local", "firebase", "debug").
	Provider string
}
