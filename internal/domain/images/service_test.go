package images

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"huellitas/internal/apperr"
	"huellitas/internal/ports/storage"
)

type fakeHost struct {
	keys []string
	err  error
}

func (h *fakeHost) Upload(ctx context.Context, key string, r io.Reader, contentType string) (storage.Object, error) {
	if h.err != nil {
		return storage.Object{}, h.err
	}
	_, _ = io.ReadAll(r)
	h.keys = append(h.keys, key)
	return storage.Object{URL: "https://cdn.test/" + key, Key: key, Width: 10, Height: 20}, nil
}

func (h *fakeHost) Delete(ctx context.Context, key string) error { return nil }

type thumbHost struct{ fakeHost }

func (h *thumbHost) ThumbnailURL(url string) string { return url + "?thumb" }

func fixedService(host storage.ObjectStore) *Service {
	s := NewService(host)
	at := time.UnixMilli(1_700_000_000_000)
	s.now = func() time.Time { return at }
	return s
}

func TestUploadBuildsIncreasingKeys(t *testing.T) {
	host := &fakeHost{}
	s := fixedService(host)

	img1, err := s.Upload(context.Background(), "", strings.NewReader("a"), "image/jpeg")
	require.NoError(t, err)
	_, err = s.Upload(context.Background(), "Memorials/", strings.NewReader("b"), "image/png")
	require.NoError(t, err)

	require.Len(t, host.keys, 2)
	assert.Equal(t, "pets/pet_1700000000000.jpg", host.keys[0])
	assert.Equal(t, "memorials/pet_1700000000001.png", host.keys[1])
	assert.Equal(t, "pets/pet_1700000000000.jpg", img1.PublicID)
	assert.Equal(t, img1.URL, img1.ThumbnailURL)
	assert.Equal(t, 10, img1.Width)
}

func TestUploadUsesHostThumbnails(t *testing.T) {
	s := fixedService(&thumbHost{})
	img, err := s.Upload(context.Background(), "pets", strings.NewReader("a"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, img.URL+"?thumb", img.ThumbnailURL)
}

func TestUploadRejectsBadFolder(t *testing.T) {
	s := fixedService(&fakeHost{})
	_, err := s.Upload(context.Background(), "../etc", strings.NewReader("a"), "image/jpeg")
	assert.True(t, errors.Is(err, apperr.ErrInvalidInput))
}

func TestUploadFailureIsClassified(t *testing.T) {
	s := fixedService(&fakeHost{err: errors.New("boom")})
	_, err := s.Upload(context.Background(), "pets", strings.NewReader("a"), "image/jpeg")
	assert.True(t, errors.Is(err, apperr.ErrUploadFailure))

	_, err = NewService(nil).Upload(context.Background(), "pets", strings.NewReader("a"), "image/jpeg")
	assert.True(t, errors.Is(err, apperr.ErrUploadFailure))
}
