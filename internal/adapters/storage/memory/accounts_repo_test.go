package memory

import (
	"context"
	"testing"

	"huellitas/internal/apperr"
	"huellitas/internal/domain/accounts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountRepo_DuplicateEmailIsCaseInsensitive(t *testing.T) {
	repo := NewAccountRepo()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, accounts.Account{ID: "a1", Email: "ana@x.com"}))
	err := repo.Create(ctx, accounts.Account{ID: "a2", Email: "ANA@x.com"})
	assert.ErrorIs(t, err, apperr.ErrDuplicateAccount)

	got, err := repo.GetByEmail(ctx, "Ana@X.com")
	require.NoError(t, err)
	assert.Equal(t, "a1", got.ID)
}

func TestAccountRepo_UpdateMovesEmailIndex(t *testing.T) {
	repo := NewAccountRepo()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, accounts.Account{ID: "a1", Email: "old@x.com"}))
	require.NoError(t, repo.Update(ctx, accounts.Account{ID: "a1", Email: "new@x.com"}))

	_, err := repo.GetByEmail(ctx, "old@x.com")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = repo.GetByEmail(ctx, "new@x.com")
	assert.NoError(t, err)
}
