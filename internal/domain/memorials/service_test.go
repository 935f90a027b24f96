package memorials

import (
	"context"
	"sort"
	"testing"
	"time"

	"huellitas/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRepo guarda copias para que el servicio no comparta slices con el repo.
type testRepo struct {
	byID map[string]Post
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Post{}}
}

func clonePost(p Post) Post {
	p.LikedBy = append([]string{}, p.LikedBy...)
	p.Comments = append([]Comment{}, p.Comments...)
	return p
}

func (r *testRepo) Create(_ context.Context, p Post) error {
	r.byID[p.ID] = clonePost(p)
	return nil
}

func (r *testRepo) GetByID(_ context.Context, id string) (Post, error) {
	p, ok := r.byID[id]
	if !ok {
		return Post{}, apperr.New(apperr.KindNotFound, "post not found")
	}
	return clonePost(p), nil
}

func (r *testRepo) list(keep func(Post) bool) []Post {
	out := make([]Post, 0)
	for _, p := range r.byID {
		if keep(p) {
			out = append(out, clonePost(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *testRepo) ListPublic(_ context.Context, limit int) ([]Post, error) {
	out := r.list(func(p Post) bool { return p.IsPublic })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *testRepo) ListByUser(_ context.Context, userID string) ([]Post, error) {
	return r.list(func(p Post) bool { return p.UserID == userID }), nil
}

func (r *testRepo) ToggleLike(_ context.Context, postID, userID string, at time.Time) (Post, bool, error) {
	p, ok := r.byID[postID]
	if !ok {
		return Post{}, false, apperr.New(apperr.KindNotFound, "post not found")
	}
	liked := !p.LikedByUser(userID)
	if liked {
		p.LikedBy = append(p.LikedBy, userID)
	} else {
		kept := p.LikedBy[:0]
		for _, id := range p.LikedBy {
			if id != userID {
				kept = append(kept, id)
			}
		}
		p.LikedBy = kept
	}
	p.Likes = len(p.LikedBy)
	p.UpdatedAt = at
	r.byID[postID] = p
	return clonePost(p), liked, nil
}

func (r *testRepo) AppendComment(_ context.Context, postID string, c Comment, at time.Time) (Post, error) {
	p, ok := r.byID[postID]
	if !ok {
		return Post{}, apperr.New(apperr.KindNotFound, "post not found")
	}
	p.Comments = append(p.Comments, c)
	p.UpdatedAt = at
	r.byID[postID] = p
	return clonePost(p), nil
}

func (r *testRepo) Delete(_ context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func newTestService() (*Service, *testRepo) {
	repo := newTestRepo()
	svc := NewService(repo)
	c := &clock{t: time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)}
	svc.now = c.now
	return svc, repo
}

var luna = PetSnapshot{ID: "pet-1", Name: "Luna", Species: "dog", Breed: "Poodle", ImageURL: "https://cdn.test/luna.jpg"}

func TestService_Share_Denormalizes(t *testing.T) {
	svc, _ := newTestService()

	p, err := svc.Share(context.Background(), Author{UserID: "u1"}, luna, " in memory ", true)
	require.NoError(t, err)

	assert.Equal(t, "Luna", p.PetName)
	assert.Equal(t, "https://cdn.test/luna.jpg", p.ImageURL)
	assert.Equal(t, "in memory", p.Message)
	assert.Equal(t, "Usuario", p.UserName)
	assert.Zero(t, p.Likes)
	assert.Empty(t, p.LikedBy)
	assert.Empty(t, p.Comments)
}

func TestService_ListPublic_FiltersAndLimits(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	first, err := svc.Share(ctx, Author{UserID: "u1"}, luna, "a", true)
	require.NoError(t, err)
	_, err = svc.Share(ctx, Author{UserID: "u1"}, luna, "privado", false)
	require.NoError(t, err)
	last, err := svc.Share(ctx, Author{UserID: "u2"}, luna, "b", true)
	require.NoError(t, err)

	got, err := svc.ListPublic(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, last.ID, got[0].ID)
	assert.Equal(t, first.ID, got[1].ID)

	got, err = svc.ListPublic(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	mine, err := svc.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestService_ToggleLike_TwiceIsIdentity(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	p, err := svc.Share(ctx, Author{UserID: "u1"}, luna, "x", true)
	require.NoError(t, err)
	_, _, err = svc.ToggleLike(ctx, p.ID, "u2")
	require.NoError(t, err)

	before, err := svc.GetByID(ctx, p.ID)
	require.NoError(t, err)

	after1, liked, err := svc.ToggleLike(ctx, p.ID, "u3")
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, 2, after1.Likes)

	after2, liked, err := svc.ToggleLike(ctx, p.ID, "u3")
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, before.Likes, after2.Likes)
	assert.ElementsMatch(t, before.LikedBy, after2.LikedBy)
	assert.Equal(t, len(after2.LikedBy), after2.Likes)
}

func TestService_AddComment_AppendOnly(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	p, err := svc.Share(ctx, Author{UserID: "u1"}, luna, "x", true)
	require.NoError(t, err)

	texts := []string{"uno", "dos", "tres"}
	for _, txt := range texts {
		c, err := svc.AddComment(ctx, p.ID, Author{UserID: "u2", Name: "Beto"}, txt)
		require.NoError(t, err)
		assert.NotEmpty(t, c.ID)
		assert.Equal(t, "Beto", c.UserName)
	}

	got, err := svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, got.Comments, len(texts))
	for i, txt := range texts {
		assert.Equal(t, txt, got.Comments[i].Text)
	}

	_, err = svc.AddComment(ctx, p.ID, Author{UserID: "u2"}, "   ")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	_, err = svc.AddComment(ctx, "missing", Author{UserID: "u2"}, "hola")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestService_Delete_OnlyAuthor(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	p, err := svc.Share(ctx, Author{UserID: "u1"}, luna, "x", true)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, p.ID, "u2"), apperr.ErrPermissionDenied)
	assert.Contains(t, repo.byID, p.ID)

	require.NoError(t, svc.Delete(ctx, p.ID, "u1"))
	assert.ErrorIs(t, svc.Delete(ctx, p.ID, "u1"), apperr.ErrNotFound)
}
