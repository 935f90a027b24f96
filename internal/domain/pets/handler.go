package pets

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"huellitas/internal/apperr"
	"huellitas/internal/middleware"
	"huellitas/internal/platform/respond"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, maxUploadBytes int64) {
	r.Route("/pets", func(pr chi.Router) {
		pr.Post("/", createPetHandler(svc))
		pr.Get("/", listPetsHandler(svc))

		// Todas las rutas por mascota exigen ser el dueño.
		pr.Get("/{petID}", getPetHandler(svc))
		pr.Patch("/{petID}", updatePetHandler(svc))
		pr.Post("/{petID}/archive", archivePetHandler(svc))
		pr.Post("/{petID}/restore", restorePetHandler(svc))
		pr.Post("/{petID}/image", uploadPetImageHandler(svc, maxUploadBytes))
		pr.Delete("/{petID}/image", deletePetImageHandler(svc))
	})
}

type createPetRequest struct {
	Name      string `json:"name"`
	Species   string `json:"species"`
	Breed     string `json:"breed"`
	Sex       string `json:"sex"`
	BirthDate string `json:"birth_date"` // YYYY-MM-DD opcional
	Notes     string `json:"notes"`
	ImageURL  string `json:"image_url"`
}

type petResponse struct {
	ID          string     `json:"id"`
	OwnerUserID string     `json:"owner_user_id"`
	Name        string     `json:"name"`
	Species     Species    `json:"species"`
	Breed       string     `json:"breed"`
	Sex         Sex        `json:"sex"`
	BirthDate   *time.Time `json:"birth_date,omitempty"`
	Notes       string     `json:"notes"`
	ImageURL    string     `json:"image_url"`
	Active      *bool      `json:"active,omitempty"`
	ArchivedAt  *time.Time `json:"archived_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type updatePetRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Name    *string `json:"name"`
	Species *string `json:"species"`
	Breed   *string `json:"breed"`
	Sex     *string `json:"sex"`
	Notes   *string `json:"notes"`
	// birth_date se lee aparte para distinguir null de ausente
}

// createPetHandler godoc
// @Summary Registrar mascota
// @Description Crea una mascota activa del usuario autenticado. species acepta dog/cat (o Perro/Gato).
// @Tags pets
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body createPetRequest true "Datos de la mascota; birth_date en formato YYYY-MM-DD"
// @Success 201 {object} petResponse
// @Failure 400 {object} map[string]string "invalid_input"
// @Failure 401 {object} map[string]string "not_authenticated"
// @Router /pets [post]
func createPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireUser(w, r)
		if !ok {
			return
		}

		var req createPetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Fail(w, apperr.KindInvalidInput, "invalid json")
			return
		}

		var bd *time.Time
		if strings.TrimSpace(req.BirthDate) != "" {
			t, err := time.Parse("2006-01-02", req.BirthDate)
			if err != nil {
				respond.Fail(w, apperr.KindInvalidInput, "birth_date must be YYYY-MM-DD")
				return
			}
			bd = &t
		}

		p, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Name:      req.Name,
			Species:   req.Species,
			Breed:     req.Breed,
			Sex:       req.Sex,
			BirthDate: bd,
			Notes:     req.Notes,
			ImageURL:  req.ImageURL,
		})
		if err != nil {
			respond.Error(w, err)
			return
		}

		respond.JSON(w, http.StatusCreated, toPetResponse(p))
	}
}

// listPetsHandler godoc
// @Summary Listar mis mascotas
// @Description status=active (default) devuelve las activas; archived las del memorial ordenadas por archived_at desc; all todas.
// @Tags pets
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param status query string false "active | archived | all"
// @Success 200 {array} petResponse
// @Failure 400 {object} map[string]string "invalid_input"
// @Failure 401 {object} map[string]string "not_authenticated"
// @Router /pets [get]
func listPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireUser(w, r)
		if !ok {
			return
		}

		status := Status(strings.ToLower(strings.TrimSpace(r.URL.Query().Get("status"))))
		items, err := svc.ListByOwner(r.Context(), claims.UserID, status)
		if err != nil {
			respond.Error(w, err)
			return
		}

		out := make([]petResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPetResponse(p))
		}
		respond.JSON(w, http.StatusOK, out)
	}
}

// getPetHandler godoc
// @Summary Perfil de mascota
// @Tags pets
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} petResponse
// @Failure 401 {object} map[string]string "not_authenticated"
// @Failure 403 {object} map[string]string "permission_denied"
// @Failure 404 {object} map[string]string "not_found"
// @Router /pets/{petID} [get]
func getPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireUser(w, r)
		if !ok {
			return
		}

		p, err := svc.GetOwned(r.Context(), chi.URLParam(r, "petID"), claims.UserID)
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, toPetResponse(p))
	}
}

// updatePetHandler godoc
// @Summary Editar ficha de mascota
// @Description PATCH parcial; enviar "birth_date": null limpia la fecha.
// @Tags pets
// @Accept json
// @Produce json
// @Param Authorization header string false "Bearer token en producción"
// @Param petID path string true "ID de la mascota"
// @Param payload body updatePetRequest true "Campos a actualizar"
// @Success 200 {object} petResponse
// @Failure 400 {object} map[string]string "invalid_input"
// @Failure 403 {object} map[string]string "permission_denied"
// @Failure 404 {object} map[string]string "not_found"
// @Router /pets/{petID} [patch]
func updatePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireUser(w, r)
		if !ok {
			return
		}

		petID := chi.URLParam(r, "petID")
		if _, err := svc.GetOwned(r.Context(), petID, claims.UserID); err != nil {
			respond.Error(w, err)
			return
		}

		// Para soportar birth_date: null, decodificamos a map primero y vemos si el campo estuvo presente.
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			respond.Fail(w, apperr.KindInvalidInput, "invalid json")
			return
		}

		var req updatePetRequest
		{
			b, _ := json.Marshal(raw)
			if err := json.Unmarshal(b, &req); err != nil {
				respond.Fail(w, apperr.KindInvalidInput, "invalid json")
				return
			}
		}

		bd := PatchBirthDate{}
		if v, exists := raw["birth_date"]; exists {
			bd.Present = true
			if string(v) != "null" {
				var s string
				if err := json.Unmarshal(v, &s); err != nil {
					respond.Fail(w, apperr.KindInvalidInput, "birth_date must be YYYY-MM-DD or null")
					return
				}
				t, err := time.Parse("2006-01-02", s)
				if err != nil {
					respond.Fail(w, apperr.KindInvalidInput, "birth_date must be YYYY-MM-DD or null")
					return
				}
				bd.Value = &t
			}
		}

		updated, err := svc.UpdateProfile(r.Context(), petID, UpdateProfileInput{
			Name:      req.Name,
			Species:   req.Species,
			Breed:     req.Breed,
			Sex:       req.Sex,
			BirthDate: bd,
			Notes:     req.Notes,
		})
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, toPetResponse(updated))
	}
}

// archivePetHandler godoc
// @Summary Archivar mascota
// @Description Mueve la mascota al memorial (active=false, archived_at=now).
// @Tags pets
// @Produce json
// @Param Authorization header string false "Bearer token en producción"
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} petResponse
// @Failure 403 {object} map[string]string "permission_denied"
// @Failure 404 {object} map[string]string "not_found"
// @Router /pets/{petID}/archive [post]
func archivePetHandler(svc *Service) http.HandlerFunc {
	return ownedAction(svc, svc.Archive)
}

// restorePetHandler godoc
// @Summary Restaurar mascota
// @Description Devuelve la mascota a la lista activa (active=true, archived_at=null).
// @Tags pets
// @Produce json
// @Param Authorization header string false "Bearer token en producción"
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} petResponse
// @Failure 403 {object} map[string]string "permission_denied"
// @Failure 404 {object} map[string]string "not_found"
// @Router /pets/{petID}/restore [post]
func restorePetHandler(svc *Service) http.HandlerFunc {
	return ownedAction(svc, svc.Restore)
}

// uploadPetImageHandler godoc
// @Summary Subir foto de mascota
// @Description multipart/form-data con el archivo en el campo "image". Si la subida falla, la ficha no cambia.
// @Tags pets
// @Accept mpfd
// @Produce json
// @Param Authorization header string false "Bearer token en producción"
// @Param petID path string true "ID de la mascota"
// @Param image formData file true "Imagen"
// @Success 200 {object} petResponse
// @Failure 400 {object} map[string]string "invalid_input"
// @Failure 403 {object} map[string]string "permission_denied"
// @Failure 502 {object} map[string]string "upload_failure"
// @Router /pets/{petID}/image [post]
func uploadPetImageHandler(svc *Service, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireUser(w, r)
		if !ok {
			return
		}

		petID := chi.URLParam(r, "petID")
		if _, err := svc.GetOwned(r.Context(), petID, claims.UserID); err != nil {
			respond.Error(w, err)
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

		p, err := svc.UploadImage(r.Context(), petID, f, ct)
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, toPetResponse(p))
	}
}

// deletePetImageHandler godoc
// @Summary Quitar imagen de mascota
// @Description Borra la imagen subida del bucket y deja image_url vacío. Sin imagen no hace nada.
// @Tags pets
// @Produce json
// @Param Authorization header string false "Bearer token en producción"
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} petResponse
// @Failure 403 {object} map[string]string "permission_denied"
// @Failure 404 {object} map[string]string "not_found"
// @Failure 502 {object} map[string]string "upload_failure"
// @Router /pets/{petID}/image [delete]
func deletePetImageHandler(svc *Service) http.HandlerFunc {
	return ownedAction(svc, svc.DeleteImage)
}

// ownedAction resuelve auth + dueño y aplica una transición de estado.
func ownedAction(svc *Service, action func(ctx context.Context, id string) (Pet, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireUser(w, r)
		if !ok {
			return
		}

		petID := chi.URLParam(r, "petID")
		if _, err := svc.GetOwned(r.Context(), petID, claims.UserID); err != nil {
			respond.Error(w, err)
			return
		}

		p, err := action(r.Context(), petID)
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, toPetResponse(p))
	}
}

func toPetResponse(p Pet) petResponse {
	return petResponse{
		ID:          p.ID,
		OwnerUserID: p.OwnerUserID,
		Name:        p.Name,
		Species:     p.Species,
		Breed:       p.Breed,
		Sex:         p.Sex,
		BirthDate:   p.BirthDate,
		Notes:       p.Notes,
		ImageURL:    p.ImageURL,
		Active:      p.Active,
		ArchivedAt:  p.ArchivedAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
