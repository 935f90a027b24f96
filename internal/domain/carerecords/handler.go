package carerecords

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"huellitas/internal/apperr"
	"huellitas/internal/middleware"
	"huellitas/internal/platform/respond"

	"github.com/go-chi/chi/v5"
)

// PetOwner resuelve el dueño de una mascota (lo implementa pets.Service).
type PetOwner interface {
	OwnerOf(ctx context.Context, petID string) (string, error)
}

func RegisterRoutes(r chi.Router, svc *Service, owners PetOwner) {
	r.Route("/pets/{petID}/records/{category}", func(rr chi.Router) {
		rr.Post("/", createRecordHandler(svc, owners))
		rr.Get("/", listRecordsHandler(svc, owners))
		rr.Get("/stats", statsHandler(svc, owners))
		rr.Patch("/{recordID}", updateRecordHandler(svc, owners))
		rr.Delete("/{recordID}", deleteRecordHandler(svc, owners))
	})

	r.Get("/catalog/vaccines", vaccineCatalogHandler())
}

type createRecordRequest struct {
	Name         string `json:"name"`       // vacuna o producto
	AppliedAt    string `json:"applied_at"` // YYYY-MM-DD o RFC3339
	NextDueAt    string `json:"next_due_at"`
	Veterinarian string `json:"veterinarian"`
	Notes        string `json:"notes"`
}

type updateRecordRequest struct {
	Name         *string `json:"name"`
	AppliedAt    *string `json:"applied_at"`
	NextDueAt    *string `json:"next_due_at"`
	Veterinarian *string `json:"veterinarian"`
	Notes        *string `json:"notes"`
}

type recordResponse struct {
	ID           string     `json:"id"`
	PetID        string     `json:"pet_id"`
	Category     Category   `json:"category"`
	Name         string     `json:"name"`
	AppliedAt    *time.Time `json:"applied_at,omitempty"`
	NextDueAt    *time.Time `json:"next_due_at,omitempty"`
	Veterinarian string     `json:"veterinarian"`
	Notes        string     `json:"notes"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type statsResponse struct {
	Total int             `json:"total"`
	Last  *recordResponse `json:"last"`
}

// createRecordHandler godoc
// @Summary Crear registro de cuidado
// @Description Crea una vacunación, desparasitación o examen anual. vaccination/deworming exigen name; annual_exam exige applied_at.
// @Tags records
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param petID path string true "ID de la mascota"
// @Param category path string true "vaccination | deworming | annual_exam"
// @Param payload body createRecordRequest true "Datos del registro"
// @Success 201 {object} recordResponse
// @Failure 400 {object} map[string]string "invalid_input"
// @Failure 403 {object} map[string]string "permission_denied"
// @Failure 404 {object} map[string]string "not_found"
// @Router /pets/{petID}/records/{category} [post]
func createRecordHandler(svc *Service, owners PetOwner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		petID, category, ok := authorize(w, r, owners)
		if !ok {
			return
		}

		var req createRecordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Fail(w, apperr.KindInvalidInput, "invalid json")
			return
		}

		applied, err := parseOptionalDate(req.AppliedAt)
		if err != nil {
			respond.Error(w, err)
			return
		}
		next, err := parseOptionalDate(req.NextDueAt)
		if err != nil {
			respond.Error(w, err)
			return
		}

		rec, err := svc.Create(r.Context(), petID, category, CreateInput{
			Name:         req.Name,
			AppliedAt:    applied,
			NextDueAt:    next,
			Veterinarian: req.Veterinarian,
			Notes:        req.Notes,
		})
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusCreated, toRecordResponse(rec))
	}
}

// listRecordsHandler godoc
// @Summary Listar registros de una categoría
// @Description Ordenados por applied_at desc.
// @Tags records
// @Produce json
// @Param Authorization header string false "Bearer token en producción"
// @Param petID path string true "ID de la mascota"
// @Param category path string true "vaccination | deworming | annual_exam"
// @Success 200 {array} recordResponse
// @Failure 403 {object} map[string]string "permission_denied"
// @Failure 404 {object} map[string]string "not_found"
// @Router /pets/{petID}/records/{category} [get]
func listRecordsHandler(svc *Service, owners PetOwner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		petID, category, ok := authorize(w, r, owners)
		if !ok {
			return
		}

		items, err := svc.List(r.Context(), petID, category)
		if err != nil {
			respond.Error(w, err)
			return
		}

		out := make([]recordResponse, 0, len(items))
		for _, rec := range items {
			out = append(out, toRecordResponse(rec))
		}
		respond.JSON(w, http.StatusOK, out)
	}
}

// statsHandler godoc
// @Summary Estadísticas de una categoría
// @Tags records
// @Produce json
// @Param Authorization header string false "Bearer token en producción"
// @Param petID path string true "ID de la mascota"
// @Param category path string true "vaccination | deworming | annual_exam"
// @Success 200 {object} statsResponse
// @Router /pets/{petID}/records/{category}/stats [get]
func statsHandler(svc *Service, owners PetOwner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		petID, category, ok := authorize(w, r, owners)
		if !ok {
			return
		}

		st, err := svc.Stats(r.Context(), petID, category)
		if err != nil {
			respond.Error(w, err)
			return
		}

		out := statsResponse{Total: st.Total}
		if st.Last != nil {
			last := toRecordResponse(*st.Last)
			out.Last = &last
		}
		respond.JSON(w, http.StatusOK, out)
	}
}

// updateRecordHandler godoc
// @Summary Editar registro de cuidado
// @Tags records
// @Accept json
// @Produce json
// @Param Authorization header string false "Bearer token en producción"
// @Param petID path string true "ID de la mascota"
// @Param category path string true "vaccination | deworming | annual_exam"
// @Param recordID path string true "ID del registro"
// @Param payload body updateRecordRequest true "Campos a actualizar"
// @Success 200 {object} recordResponse
// @Failure 400 {object} map[string]string "invalid_input"
// @Failure 404 {object} map[string]string "not_found"
// @Router /pets/{petID}/records/{category}/{recordID} [patch]
func updateRecordHandler(svc *Service, owners PetOwner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		petID, category, ok := authorize(w, r, owners)
		if !ok {
			return
		}

		var req updateRecordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Fail(w, apperr.KindInvalidInput, "invalid json")
			return
		}

		in := UpdateInput{
			Name:         req.Name,
			Veterinarian: req.Veterinarian,
			Notes:        req.Notes,
		}
		if req.AppliedAt != nil {
			t, err := parseOptionalDate(*req.AppliedAt)
			if err != nil {
				respond.Error(w, err)
				return
			}
			in.AppliedAt = t
		}
		if req.NextDueAt != nil {
			t, err := parseOptionalDate(*req.NextDueAt)
			if err != nil {
				respond.Error(w, err)
				return
			}
			in.NextDueAt = t
		}

		rec, err := svc.Update(r.Context(), petID, category, chi.URLParam(r, "recordID"), in)
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, toRecordResponse(rec))
	}
}

// deleteRecordHandler godoc
// @Summary Eliminar registro de cuidado
// @Tags records
// @Param Authorization header string false "Bearer token en producción"
// @Param petID path string true "ID de la mascota"
// @Param category path string true "vaccination | deworming | annual_exam"
// @Param recordID path string true "ID del registro"
// @Success 204
// @Failure 404 {object} map[string]string "not_found"
// @Router /pets/{petID}/records/{category}/{recordID} [delete]
func deleteRecordHandler(svc *Service, owners PetOwner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		petID, category, ok := authorize(w, r, owners)
		if !ok {
			return
		}

		if err := svc.Delete(r.Context(), petID, category, chi.URLParam(r, "recordID")); err != nil {
			respond.Error(w, err)
			return
		}
		respond.NoContent(w)
	}
}

// vaccineCatalogHandler godoc
// @Summary Catálogo de vacunas
// @Description Vacunas sugeridas por especie. Sin species (o desconocida) devuelve todas.
// @Tags catalog
// @Produce json
// @Param species query string false "dog | cat"
// @Param mandatory query bool false "Filtra obligatorias (true) u opcionales (false)"
// @Success 200 {array} Vaccine
// @Failure 400 {object} map[string]string "invalid_input"
// @Router /catalog/vaccines [get]
func vaccineCatalogHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var mandatory *bool
		if raw := strings.TrimSpace(r.URL.Query().Get("mandatory")); raw != "" {
			b, err := strconv.ParseBool(raw)
			if err != nil {
				respond.Fail(w, apperr.KindInvalidInput, "mandatory must be true or false")
				return
			}
			mandatory = &b
		}

		list := FilterMandatory(VaccinesBySpecies(r.URL.Query().Get("species")), mandatory)
		respond.JSON(w, http.StatusOK, list)
	}
}

// authorize exige sesión, categoría válida y que el usuario sea dueño de la mascota.
func authorize(w http.ResponseWriter, r *http.Request, owners PetOwner) (string, Category, bool) {
	claims, ok := middleware.RequireUser(w, r)
	if !ok {
		return "", "", false
	}

	category, ok := ParseCategory(chi.URLParam(r, "category"))
	if !ok {
		respond.Fail(w, apperr.KindInvalidInput, "category must be vaccination, deworming or annual_exam")
		return "", "", false
	}

	petID := chi.URLParam(r, "petID")
	owner, err := owners.OwnerOf(r.Context(), petID)
	if err != nil {
		respond.Error(w, err)
		return "", "", false
	}
	if owner != claims.UserID {
		respond.Fail(w, apperr.KindPermissionDenied, "forbidden")
		return "", "", false
	}
	return petID, category, true
}

func parseOptionalDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, apperr.Newf(apperr.KindInvalidInput, "invalid date %q (use YYYY-MM-DD or RFC3339)", s)
	}
	return &t, nil
}

func toRecordResponse(rec Record) recordResponse {
	return recordResponse{
		ID:           rec.ID,
		PetID:        rec.PetID,
		Category:     rec.Category,
		Name:         rec.Name,
		AppliedAt:    rec.AppliedAt,
		NextDueAt:    rec.NextDueAt,
		Veterinarian: rec.Veterinarian,
		Notes:        rec.Notes,
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
	}
}
