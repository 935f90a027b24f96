package chain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"huellitas/internal/ports/auth"
)

type fixed struct {
	claims auth.Claims
	err    error
}

func (f fixed) Verify(ctx context.Context, token string) (auth.Claims, error) {
	return f.claims, f.err
}

func TestFirstSuccessWins(t *testing.T) {
	errLocal := errors.New("local: invalid")
	c := New(fixed{err: errLocal}, nil, fixed{claims: auth.Claims{UserID: "fb-1", Provider: "firebase"}})

	got, err := c.Verify(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "fb-1", got.UserID)
}

func TestAllFailJoinsErrors(t *testing.T) {
	e1, e2 := errors.New("uno"), errors.New("dos")
	_, err := New(fixed{err: e1}, fixed{err: e2}).Verify(context.Background(), "tok")
	assert.ErrorIs(t, err, e1)
	assert.ErrorIs(t, err, e2)
}

func TestEmptyChain(t *testing.T) {
	_, err := New(nil).Verify(context.Background(), "tok")
	assert.ErrorIs(t, err, ErrNoVerifier)
}
