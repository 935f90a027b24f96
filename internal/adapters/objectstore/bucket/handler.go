package bucket

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"huellitas/internal/platform/respond"
)

// FileServer sirve GET {DefaultPublicPath}/* desde el bucket.
func FileServer(s *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "*")
		rc, contentType, err := s.Open(r.Context(), key)
		if err != nil {
			respond.Error(w, err)
			return
		}
		defer rc.Close()

		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.Header().Set("Cache-Control", "public, max-age=86400")
		w.WriteHeader(http.StatusOK)
		_, _ = io.Copy(w, rc)
	}
}
