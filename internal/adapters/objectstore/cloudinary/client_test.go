package cloudinary

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"huellitas/internal/apperr"
)

func TestUploadSendsPresetAndFolder(t *testing.T) {
	var gotPath string
	var gotFields map[string]string
	var gotFile string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotFields = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			gotFields[k] = v[0]
		}
		f, _, err := r.FormFile("file")
		require.NoError(t, err)
		b, _ := io.ReadAll(f)
		gotFile = string(b)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"secure_url": "https://res.cloudinary.com/demo/image/upload/v1/huellitas/pets/p1/profile_1.jpg",
			"public_id":  "huellitas/pets/p1/profile_1",
			"width":      800,
			"height":     600,
		})
	}))
	defer srv.Close()

	c, err := New(Config{CloudName: "demo", UploadPreset: "unsigned", Folder: "huellitas", APIBase: srv.URL})
	require.NoError(t, err)

	obj, err := c.Upload(context.Background(), "pets/p1/profile_1.jpg", strings.NewReader("jpegdata"), "image/jpeg")
	require.NoError(t, err)

	assert.Equal(t, "/demo/image/upload", gotPath)
	assert.Equal(t, "unsigned", gotFields["upload_preset"])
	assert.Equal(t, "huellitas/pets/p1", gotFields["folder"])
	assert.Equal(t, "profile_1", gotFields["public_id"])
	assert.Equal(t, "jpegdata", gotFile)

	assert.Equal(t, "huellitas/pets/p1/profile_1", obj.Key)
	assert.Equal(t, 800, obj.Width)
	assert.Equal(t, 600, obj.Height)
	assert.True(t, strings.HasPrefix(obj.URL, "https://res.cloudinary.com/"))
}

func TestUploadErrorIsUploadFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Upload preset not found"}}`))
	}))
	defer srv.Close()

	c, err := New(Config{CloudName: "demo", UploadPreset: "x", APIBase: srv.URL})
	require.NoError(t, err)

	_, err = c.Upload(context.Background(), "a.jpg", strings.NewReader("x"), "")
	assert.True(t, errors.Is(err, apperr.ErrUploadFailure))
}

func TestNewRequiresCredentials(t *testing.T) {
	_, err := New(Config{CloudName: "demo"})
	assert.Error(t, err)
}

func TestOptimizedURL(t *testing.T) {
	u := "https://res.cloudinary.com/demo/image/upload/v1/a.jpg"
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/w_200,h_200,c_fill,q_auto/v1/a.jpg", ThumbnailURL(u))
	assert.Equal(t, "https://cdn.example.com/upload/a.jpg", OptimizedURL("https://cdn.example.com/upload/a.jpg", 10, 10))
	assert.Equal(t, "", ThumbnailURL(""))
}
