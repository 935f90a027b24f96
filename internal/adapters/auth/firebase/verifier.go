// Package firebase verifica ID tokens del proveedor de identidad hospedado.
package firebase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	fb "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"huellitas/internal/ports/auth"
)

var (
	ErrTokenEmpty    = errors.New("token is empty")
	ErrNotConfigured = errors.New("firebase verifier not configured")
)

type idTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// Verifier implementa auth.AuthVerifier sobre Firebase Auth.
type Verifier struct {
	client idTokenVerifier
}

func NewVerifier(ctx context.Context, credentialsPath string) (*Verifier, error) {
	app, err := fb.NewApp(ctx, nil, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get auth client: %w", err)
	}
	return &Verifier{client: client}, nil
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || v.client == nil {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	t, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("firebase verify failed: %w", err)
	}
	if strings.TrimSpace(t.UID) == "" {
		return auth.Claims{}, errors.New("firebase token missing uid")
	}

	return auth.Claims{
		UserID:   t.UID,
		Email:    stringClaim(t.Claims, "email"),
		Name:     stringClaim(t.Claims, "name"),
		Provider: "firebase",
	}, nil
}

func stringClaim(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}
