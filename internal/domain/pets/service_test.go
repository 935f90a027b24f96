package pets

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"huellitas/internal/apperr"
	"huellitas/internal/ports/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------------------------
// Fakes
// -------------------------

type testRepo struct {
	byID  map[string]Pet
	order []string
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Pet{}}
}

func (r *testRepo) Create(_ context.Context, p Pet) error {
	if _, ok := r.byID[p.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[p.ID] = p
	r.order = append(r.order, p.ID)
	return nil
}

func (r *testRepo) Update(_ context.Context, p Pet) error {
	if _, ok := r.byID[p.ID]; !ok {
		return apperr.New(apperr.KindNotFound, "pet not found")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) GetByID(_ context.Context, id string) (Pet, error) {
	p, ok := r.byID[id]
	if !ok {
		return Pet{}, apperr.New(apperr.KindNotFound, "pet not found")
	}
	return p, nil
}

func (r *testRepo) ListByOwner(_ context.Context, owner string) ([]Pet, error) {
	out := make([]Pet, 0)
	for _, id := range r.order {
		if p := r.byID[id]; p.OwnerUserID == owner {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeObjects struct {
	keys      []string
	deleted   []string
	err       error
	deleteErr error
}

func (f *fakeObjects) Upload(_ context.Context, key string, r io.Reader, _ string) (storage.Object, error) {
	if f.err != nil {
		return storage.Object{}, f.err
	}
	_, _ = io.ReadAll(r)
	f.keys = append(f.keys, key)
	return storage.Object{URL: "https://cdn.test/" + key, Key: key}, nil
}

func (f *fakeObjects) Delete(_ context.Context, key string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, key)
	return nil
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestService() (*Service, *testRepo, *fakeObjects, *clock) {
	repo := newTestRepo()
	objs := &fakeObjects{}
	svc := NewService(repo, objs)
	c := &clock{t: time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)}
	svc.now = c.now
	return svc, repo, objs, c
}

func mustCreate(t *testing.T, svc *Service, owner, name string) Pet {
	t.Helper()
	p, err := svc.Create(context.Background(), owner, CreateInput{Name: name, Species: "dog"})
	require.NoError(t, err)
	return p
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_ActiveAndNormalized(t *testing.T) {
	svc, _, _, _ := newTestService()

	p, err := svc.Create(context.Background(), "u1", CreateInput{
		Name:    "  Luna ",
		Species: "Perro",
		Breed:   "Poodle",
	})
	require.NoError(t, err)

	assert.Equal(t, "Luna", p.Name)
	assert.Equal(t, SpeciesDog, p.Species)
	assert.Equal(t, SexUnknown, p.Sex)
	require.NotNil(t, p.Active)
	assert.True(t, *p.Active)
	assert.Nil(t, p.ArchivedAt)
}

func TestService_Create_Validation(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, "", CreateInput{Name: "Luna", Species: "dog"})
	assert.ErrorIs(t, err, apperr.ErrNotAuthenticated)

	_, err = svc.Create(ctx, "u1", CreateInput{Name: " ", Species: "dog"})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = svc.Create(ctx, "u1", CreateInput{Name: "Luna", Species: "iguana"})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestService_ArchiveRestore_RoundTrip(t *testing.T) {
	svc, _, _, c := newTestService()
	ctx := context.Background()
	p := mustCreate(t, svc, "u1", "Luna")

	c.t = c.t.Add(time.Hour)
	archived, err := svc.Archive(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, archived.IsActive())
	require.NotNil(t, archived.ArchivedAt)
	assert.Equal(t, c.t, *archived.ArchivedAt)

	active, err := svc.ListActive(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, active)

	restored, err := svc.Restore(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, restored.IsActive())
	assert.Nil(t, restored.ArchivedAt)

	active, err = svc.ListActive(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, p.ID, active[0].ID)
}

func TestService_ListActive_TreatsMissingFlagAsActive(t *testing.T) {
	svc, repo, _, _ := newTestService()
	legacy := Pet{ID: "legacy", OwnerUserID: "u1", Name: "Viejo", Species: SpeciesCat}
	require.NoError(t, repo.Create(context.Background(), legacy))

	active, err := svc.ListActive(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "legacy", active[0].ID)

	archived, err := svc.ListArchived(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, archived)
}

func TestService_ListArchived_SortedDescMissingLast(t *testing.T) {
	svc, repo, _, c := newTestService()
	ctx := context.Background()

	a := mustCreate(t, svc, "u1", "A")
	b := mustCreate(t, svc, "u1", "B")
	mustCreate(t, svc, "u1", "Activa")
	mustCreate(t, svc, "u2", "Ajena")

	// archivada sin archived_at (registro viejo)
	require.NoError(t, repo.Create(ctx, Pet{ID: "no-date", OwnerUserID: "u1", Active: boolPtr(false)}))

	c.t = c.t.Add(time.Hour)
	_, err := svc.Archive(ctx, a.ID)
	require.NoError(t, err)
	c.t = c.t.Add(time.Hour)
	_, err = svc.Archive(ctx, b.ID)
	require.NoError(t, err)

	got, err := svc.ListArchived(ctx, "u1")
	require.NoError(t, err)

	ids := make([]string, 0, len(got))
	for _, p := range got {
		assert.False(t, p.IsActive())
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{b.ID, a.ID, "no-date"}, ids)
}

func TestService_ListByOwner_Status(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	p := mustCreate(t, svc, "u1", "A")
	mustCreate(t, svc, "u1", "B")
	_, err := svc.Archive(ctx, p.ID)
	require.NoError(t, err)

	all, err := svc.ListByOwner(ctx, "u1", StatusAll)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	def, err := svc.ListByOwner(ctx, "u1", "")
	require.NoError(t, err)
	assert.Len(t, def, 1)

	_, err = svc.ListByOwner(ctx, "u1", "deleted")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestService_UploadImage_KeyAndURL(t *testing.T) {
	svc, _, objs, _ := newTestService()
	ctx := context.Background()
	p := mustCreate(t, svc, "u1", "Luna")

	// mismo reloj: el sufijo igual debe crecer
	first, err := svc.UploadImage(ctx, p.ID, strings.NewReader("img"), "image/jpeg")
	require.NoError(t, err)
	second, err := svc.UploadImage(ctx, p.ID, strings.NewReader("img"), "image/jpeg")
	require.NoError(t, err)

	require.Len(t, objs.keys, 2)
	assert.True(t, strings.HasPrefix(objs.keys[0], "pets/"+p.ID+"/profile_"))
	assert.True(t, strings.HasSuffix(objs.keys[0], ".jpg"))
	assert.NotEqual(t, objs.keys[0], objs.keys[1])
	assert.Equal(t, "https://cdn.test/"+objs.keys[0], first.ImageURL)
	assert.Equal(t, "https://cdn.test/"+objs.keys[1], second.ImageURL)
}

func TestService_UploadImage_FailureLeavesRecordUntouched(t *testing.T) {
	svc, repo, objs, _ := newTestService()
	ctx := context.Background()
	p := mustCreate(t, svc, "u1", "Luna")
	objs.err = errors.New("network down")

	_, err := svc.UploadImage(ctx, p.ID, strings.NewReader("img"), "image/jpeg")
	assert.ErrorIs(t, err, apperr.ErrUploadFailure)
	assert.Empty(t, repo.byID[p.ID].ImageURL)
	assert.Equal(t, p.UpdatedAt, repo.byID[p.ID].UpdatedAt)
}

func TestService_DeleteImage_RemovesObjectAndClearsURL(t *testing.T) {
	svc, repo, objs, _ := newTestService()
	ctx := context.Background()
	p := mustCreate(t, svc, "u1", "Luna")

	uploaded, err := svc.UploadImage(ctx, p.ID, strings.NewReader("img"), "image/jpeg")
	require.NoError(t, err)
	require.Len(t, objs.keys, 1)
	assert.Equal(t, objs.keys[0], uploaded.ImageKey)

	cleared, err := svc.DeleteImage(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, objs.keys, objs.deleted)
	assert.Empty(t, cleared.ImageURL)
	assert.Empty(t, cleared.ImageKey)
	assert.Empty(t, repo.byID[p.ID].ImageURL)

	// segunda vez: nada que borrar
	_, err = svc.DeleteImage(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, objs.deleted, 1)
}

func TestService_DeleteImage_ExternalURLOnlyClearsField(t *testing.T) {
	svc, _, objs, _ := newTestService()
	ctx := context.Background()
	p, err := svc.Create(ctx, "u1", CreateInput{Name: "Luna", Species: "dog", ImageURL: "https://example.com/luna.jpg"})
	require.NoError(t, err)

	cleared, err := svc.DeleteImage(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, cleared.ImageURL)
	assert.Empty(t, objs.deleted)
}

func TestService_DeleteImage_MissingObjectStillClears(t *testing.T) {
	svc, _, objs, _ := newTestService()
	ctx := context.Background()
	p := mustCreate(t, svc, "u1", "Luna")
	_, err := svc.UploadImage(ctx, p.ID, strings.NewReader("img"), "image/jpeg")
	require.NoError(t, err)

	objs.deleteErr = apperr.New(apperr.KindNotFound, "object not found")
	cleared, err := svc.DeleteImage(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, cleared.ImageURL)
}

func TestService_DeleteImage_StorageFailureKeepsRecord(t *testing.T) {
	svc, repo, objs, _ := newTestService()
	ctx := context.Background()
	p := mustCreate(t, svc, "u1", "Luna")
	uploaded, err := svc.UploadImage(ctx, p.ID, strings.NewReader("img"), "image/jpeg")
	require.NoError(t, err)

	objs.deleteErr = errors.New("network down")
	_, err = svc.DeleteImage(ctx, p.ID)
	assert.ErrorIs(t, err, apperr.ErrUploadFailure)
	assert.Equal(t, uploaded.ImageURL, repo.byID[p.ID].ImageURL)
	assert.Equal(t, uploaded.ImageKey, repo.byID[p.ID].ImageKey)
}

func TestService_UpdateProfile_ClearsBirthDate(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	bd := time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC)
	p, err := svc.Create(ctx, "u1", CreateInput{Name: "Luna", Species: "cat", BirthDate: &bd})
	require.NoError(t, err)

	name := "Luna II"
	updated, err := svc.UpdateProfile(ctx, p.ID, UpdateProfileInput{
		Name:      &name,
		BirthDate: PatchBirthDate{Present: true, Value: nil},
	})
	require.NoError(t, err)
	assert.Equal(t, "Luna II", updated.Name)
	assert.Nil(t, updated.BirthDate)
	assert.Equal(t, SpeciesCat, updated.Species)
}

func TestService_GetOwned(t *testing.T) {
	svc, _, _, _ := newTestService()
	p := mustCreate(t, svc, "u1", "Luna")

	_, err := svc.GetOwned(context.Background(), p.ID, "u2")
	assert.ErrorIs(t, err, apperr.ErrPermissionDenied)

	_, err = svc.GetOwned(context.Background(), "missing", "u1")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
