package memorials

import (
	"context"
	"errors"
	"testing"

	"huellitas/internal/ports/auth"

	"github.com/stretchr/testify/assert"
)

type nameFunc func(ctx context.Context, userID string) (string, error)

func (f nameFunc) DisplayName(ctx context.Context, userID string) (string, error) {
	return f(ctx, userID)
}

func TestAuthorOf_PrefersCurrentProfileName(t *testing.T) {
	claims := auth.Claims{UserID: "u1", Name: "Ana"}
	ctx := context.Background()

	cases := []struct {
		name  string
		names NameLookup
		want  string
	}{
		{"renamed", nameFunc(func(context.Context, string) (string, error) { return "Ana Maria", nil }), "Ana Maria"},
		{"no lookup", nil, "Ana"},
		{"no profile", nameFunc(func(context.Context, string) (string, error) { return "", nil }), "Ana"},
		{"lookup error", nameFunc(func(context.Context, string) (string, error) { return "", errors.New("db down") }), "Ana"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := authorOf(ctx, claims, tc.names)
			assert.Equal(t, "u1", a.UserID)
			assert.Equal(t, tc.want, a.Name)
		})
	}
}
