package profiles

import (
	"context"
	"testing"
	"time"

	"huellitas/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRepo struct {
	byUser map[string]Profile
}

func newTestRepo() *testRepo {
	return &testRepo{byUser: map[string]Profile{}}
}

func (r *testRepo) Get(_ context.Context, userID string) (Profile, error) {
	p, ok := r.byUser[userID]
	if !ok {
		return Profile{}, apperr.New(apperr.KindNotFound, "profile not found")
	}
	return p, nil
}

func (r *testRepo) Upsert(_ context.Context, p Profile) error {
	r.byUser[p.UserID] = p
	return nil
}

type identityRecorder struct {
	calls int
	name  string
}

func (i *identityRecorder) UpdateIdentity(_ context.Context, _ string, displayName, _ *string) error {
	i.calls++
	if displayName != nil {
		i.name = *displayName
	}
	return nil
}

func newTestService() (*Service, *testRepo) {
	repo := newTestRepo()
	svc := NewService(repo)
	now := time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	return svc, repo
}

func TestService_CreateDefault(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.CreateDefault(ctx, "u1", "a@x.com", "Ana"))

	p, err := svc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", p.DisplayName)
	assert.Equal(t, DefaultNotifications(), p.Notifications)
	assert.Empty(t, p.Language)
	assert.True(t, p.Active)
}

func TestService_Get_NotFound(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Get(context.Background(), "ghost")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestService_DisplayName(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	name, err := svc.DisplayName(ctx, "ghost")
	require.NoError(t, err)
	assert.Empty(t, name)

	require.NoError(t, svc.CreateDefault(ctx, "u1", "a@x.com", "Ana"))
	renamed := "Ana Maria"
	_, err = svc.UpdateInfo(ctx, "u1", UpdateInfoInput{DisplayName: &renamed})
	require.NoError(t, err)

	name, err = svc.DisplayName(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", name)
}

func TestService_UpdateInfo_SyncsIdentityAndUpserts(t *testing.T) {
	svc, repo := newTestService()
	id := &identityRecorder{}
	svc.SetIdentity(id)

	name := "Ana María"
	p, err := svc.UpdateInfo(context.Background(), "u1", UpdateInfoInput{DisplayName: &name})
	require.NoError(t, err)

	assert.Equal(t, 1, id.calls)
	assert.Equal(t, "Ana María", id.name)
	assert.Equal(t, "Ana María", p.DisplayName)
	// upsert: el perfil no existía y se crea con defaults
	assert.Equal(t, DefaultNotifications(), repo.byUser["u1"].Notifications)
}

func TestService_UpdateInfo_Validation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	bad := "not a url"
	_, err := svc.UpdateInfo(ctx, "u1", UpdateInfoInput{PhotoURL: &bad})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	empty := "  "
	_, err = svc.UpdateInfo(ctx, "u1", UpdateInfoInput{DisplayName: &empty})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	badEmail := "nope"
	_, err = svc.UpdateInfo(ctx, "u1", UpdateInfoInput{Email: &badEmail})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestService_UpdateNotifications_KeepsOtherFields(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	require.NoError(t, svc.CreateDefault(ctx, "u1", "a@x.com", "Ana"))

	p, err := svc.UpdateNotifications(ctx, "u1", Notifications{Enabled: true, Vaccines: false})
	require.NoError(t, err)
	assert.False(t, p.Notifications.Vaccines)
	assert.False(t, p.Notifications.Deworming)
	assert.Equal(t, "Ana", p.DisplayName)
}

func TestService_SetLanguage(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	p, err := svc.SetLanguage(ctx, "u1", "en-US")
	require.NoError(t, err)
	assert.Equal(t, "en", p.Language)

	_, err = svc.SetLanguage(ctx, "u1", "!!")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}
