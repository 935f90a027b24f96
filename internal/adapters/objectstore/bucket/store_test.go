package bucket

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"huellitas/internal/apperr"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func openMem(t *testing.T, base string) *Store {
	t.Helper()
	s, err := Open(context.Background(), "mem://", base)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestUploadReturnsPublicURLAndDimensions(t *testing.T) {
	ctx := context.Background()
	s := openMem(t, "https://cdn.example.com/")

	obj, err := s.Upload(ctx, "/pets/p1/profile_1.jpg", bytes.NewReader(pngBytes(t, 4, 3)), "image/png")
	require.NoError(t, err)

	assert.Equal(t, "pets/p1/profile_1.jpg", obj.Key)
	assert.Equal(t, "https://cdn.example.com/pets/p1/profile_1.jpg", obj.URL)
	assert.Equal(t, 4, obj.Width)
	assert.Equal(t, 3, obj.Height)

	rc, ct, err := s.Open(ctx, obj.Key)
	require.NoError(t, err)
	defer rc.Close()
	assert.Equal(t, "image/png", ct)
}

func TestUploadDefaultsToLocalPath(t *testing.T) {
	s := openMem(t, "")
	obj, err := s.Upload(context.Background(), "a.bin", strings.NewReader("hola"), "")
	require.NoError(t, err)
	assert.Equal(t, DefaultPublicPath+"/a.bin", obj.URL)
	assert.Zero(t, obj.Width)
}

func TestUploadRequiresKey(t *testing.T) {
	s := openMem(t, "")
	_, err := s.Upload(context.Background(), "  ", strings.NewReader("x"), "")
	assert.True(t, errors.Is(err, apperr.ErrInvalidInput))
}

func TestDeleteMissingIsNotFound(t *testing.T) {
	s := openMem(t, "")
	err := s.Delete(context.Background(), "nope")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestFileServerServesUploadedObject(t *testing.T) {
	s := openMem(t, "")
	_, err := s.Upload(context.Background(), "pets/p1/x.txt", strings.NewReader("contenido"), "text/plain")
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Get(DefaultPublicPath+"/*", FileServer(s))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/files/pets/p1/x.txt", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Equal(t, "contenido", string(body))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/files/none", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
