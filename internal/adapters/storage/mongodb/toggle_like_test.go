package mongodb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"huellitas/internal/apperr"
	"huellitas/internal/domain/memorials"
)

// fakeColl responde los updates condicionados de ToggleLike sin servidor.
type fakeColl struct {
	collection

	onPull  func() *mongo.SingleResult
	onAdd   func() *mongo.SingleResult
	count   int64
	updates int
	counts  int
}

func (f *fakeColl) FindOneAndUpdate(_ context.Context, _ interface{}, update interface{}, _ ...*options.FindOneAndUpdateOptions) *mongo.SingleResult {
	f.updates++
	if _, pull := update.(bson.M)["$pull"]; pull {
		return f.onPull()
	}
	return f.onAdd()
}

func (f *fakeColl) CountDocuments(_ context.Context, _ interface{}, _ ...*options.CountOptions) (int64, error) {
	f.counts++
	return f.count, nil
}

func noDocs() *mongo.SingleResult {
	return mongo.NewSingleResultFromDocument(bson.D{}, mongo.ErrNoDocuments, nil)
}

func withDoc(p memorials.Post) func() *mongo.SingleResult {
	return func() *mongo.SingleResult {
		return mongo.NewSingleResultFromDocument(fromPost(p), nil, nil)
	}
}

func TestToggleLike_AddsWhenUserHasNotLiked(t *testing.T) {
	coll := &fakeColl{onPull: noDocs, onAdd: withDoc(memorials.Post{ID: "p1", Likes: 1, LikedBy: []string{"u1"}})}
	repo := &MemorialsRepo{coll: coll}

	p, liked, err := repo.ToggleLike(context.Background(), "p1", "u1", time.Now())
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, 1, p.Likes)
	assert.Equal(t, 2, coll.updates)
	assert.Zero(t, coll.counts)
}

func TestToggleLike_RemovesExistingLike(t *testing.T) {
	coll := &fakeColl{onPull: withDoc(memorials.Post{ID: "p1"}), onAdd: noDocs}
	repo := &MemorialsRepo{coll: coll}

	p, liked, err := repo.ToggleLike(context.Background(), "p1", "u1", time.Now())
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Zero(t, p.Likes)
	assert.Equal(t, 1, coll.updates)
}

func TestToggleLike_MissingPost(t *testing.T) {
	coll := &fakeColl{onPull: noDocs, onAdd: noDocs, count: 0}
	repo := &MemorialsRepo{coll: coll}

	_, _, err := repo.ToggleLike(context.Background(), "p1", "u1", time.Now())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Equal(t, 1, coll.counts)
}

func TestToggleLike_GivesUpAfterRetries(t *testing.T) {
	// el post existe pero ningún filtro aplica: otro toggle gana siempre la carrera
	coll := &fakeColl{onPull: noDocs, onAdd: noDocs, count: 1}
	repo := &MemorialsRepo{coll: coll}

	_, _, err := repo.ToggleLike(context.Background(), "p1", "u1", time.Now())
	assert.ErrorIs(t, err, apperr.ErrPersistence)
	assert.Equal(t, 2*toggleRetries, coll.updates)
	assert.Equal(t, toggleRetries, coll.counts)
}

func TestToggleLike_DriverErrorIsWrapped(t *testing.T) {
	boom := errors.New("connection reset")
	coll := &fakeColl{onPull: func() *mongo.SingleResult {
		return mongo.NewSingleResultFromDocument(bson.D{}, boom, nil)
	}}
	repo := &MemorialsRepo{coll: coll}

	_, _, err := repo.ToggleLike(context.Background(), "p1", "u1", time.Now())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "error removing like")
}
