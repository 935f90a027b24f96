package images

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"huellitas/internal/apperr"
	"huellitas/internal/middleware"
	"huellitas/internal/platform/respond"
)

func RegisterRoutes(r chi.Router, svc *Service, maxUploadBytes int64) {
	r.Post("/images", uploadImageHandler(svc, maxUploadBytes))
}

type imageResponse struct {
	URL          string `json:"url"`
	PublicID     string `json:"public_id"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// uploadImageHandler godoc
// @Summary Subir imagen
// @Description multipart/form-data con el archivo en "image" y una carpeta opcional en "folder" (default pets).
// @Tags images
// @Accept mpfd
// @Produce json
// @Param Authorization header string false "Bearer token en producción"
// @Param image formData file true "Imagen"
// @Param folder formData string false "Carpeta destino"
// @Success 201 {object} imageResponse
// @Failure 400 {object} map[string]string "invalid_input"
// @Failure 401 {object} map[string]string "not_authenticated"
// @Failure 502 {object} map[string]string "upload_failure"
// @Router /images [post]
func uploadImageHandler(svc *Service, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.RequireUser(w, r); !ok {
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		f, hdr, err := r.FormFile("image")
		if err != nil {
			respond.Fail(w, apperr.KindInvalidInput, "multipart field \"image\" is required")
			return
		}
		defer f.Close()

		ct := hdr.Header.Get("Content-Type")
		if !strings.HasPrefix(ct, "image/") {
			respond.Fail(w, apperr.KindInvalidInput, "file must be an image")
			return
		}

		img, err := svc.Upload(r.Context(), r.FormValue("folder"), f, ct)
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusCreated, imageResponse{
			URL:          img.URL,
			PublicID:     img.PublicID,
			Width:        img.Width,
			Height:       img.Height,
			ThumbnailURL: img.ThumbnailURL,
		})
	}
}
