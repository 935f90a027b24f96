// Package chain prueba varios verificadores en orden (tokens propios y luego Firebase).
package chain

import (
	"context"
	"errors"

	"huellitas/internal/ports/auth"
)

var ErrNoVerifier = errors.New("no auth verifier configured")

type Verifier struct {
	verifiers []auth.AuthVerifier
}

// New descarta los nil para que main pueda pasar adapters opcionales.
func New(vs ...auth.AuthVerifier) *Verifier {
	out := make([]auth.AuthVerifier, 0, len(vs))
	for _, v := range vs {
		if v != nil {
			out = append(out, v)
		}
	}
	return &Verifier{verifiers: out}
}

func (c *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if len(c.verifiers) == 0 {
		return auth.Claims{}, ErrNoVerifier
	}
	var errs []error
	for _, v := range c.verifiers {
		claims, err := v.Verify(ctx, token)
		if err == nil {
			return claims, nil
		}
		errs = append(errs, err)
	}
	return auth.Claims{}, errors.Join(errs...)
}
