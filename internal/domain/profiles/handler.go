package profiles

import (
	"encoding/json"
	"net/http"
	"time"

	"huellitas/internal/apperr"
	"huellitas/internal/middleware"
	"huellitas/internal/platform/respond"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/me", func(mr chi.Router) {
		mr.Get("/profile", getProfileHandler(svc))
		mr.Patch("/profile", updateProfileHandler(svc))
		mr.Put("/notifications", updateNotificationsHandler(svc))
		mr.Put("/language", setLanguageHandler(svc))
	})
}

type profileResponse struct {
	UserID        string        `json:"user_id"`
	DisplayName   string        `json:"display_name"`
	Email         string        `json:"email"`
	PhotoURL      string        `json:"photo_url"`
	Notifications Notifications `json:"notifications"`
	Language      string        `json:"language,omitempty"`
	Active        bool          `json:"active"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

type updateProfileRequest struct {
	DisplayName *string `json:"display_name"`
	PhotoURL    *string `json:"photo_url"`
	Email       *string `json:"email"`
}

type languageRequest struct {
	Language string `json:"language"`
}

// getProfileHandler godoc
// @Summary Obtener mi perfil
// @Tags profiles
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {object} profileResponse
// @Failure 401 {object} map[string]string "not_authenticated"
// @Failure 404 {object} map[string]string "not_found"
// @Router /me/profile [get]
func getProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireUser(w, r)
		if !ok {
			return
		}

		p, err := svc.Get(r.Context(), claims.UserID)
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, toProfileResponse(p))
	}
}

// updateProfileHandler godoc
// @Summary Actualizar mi perfil
// @Description Actualiza nombre, foto y email. Los campos ausentes no se tocan. Crea el perfil si no existía.
// @Tags profiles
// @Accept json
// @Produce json
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body updateProfileRequest true "Campos a actualizar"
// @Success 200 {object} profileResponse
// @Failure 400 {object} map[string]string "invalid_input"
// @Failure 401 {object} map[string]string "not_authenticated"
// @Router /me/profile [patch]
func updateProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireUser(w, r)
		if !ok {
			return
		}

		var req updateProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Fail(w, apperr.KindInvalidInput, "invalid json")
			return
		}

		p, err := svc.UpdateInfo(r.Context(), claims.UserID, UpdateInfoInput{
			DisplayName: req.DisplayName,
			PhotoURL:    req.PhotoURL,
			Email:       req.Email,
		})
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, toProfileResponse(p))
	}
}

// updateNotificationsHandler godoc
// @Summary Reemplazar preferencias de notificación
// @Tags profiles
// @Accept json
// @Produce json
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body Notifications true "Flags por categoría"
// @Success 200 {object} profileResponse
// @Failure 401 {object} map[string]string "not_authenticated"
// @Router /me/notifications [put]
func updateNotificationsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireUser(w, r)
		if !ok {
			return
		}

		var req Notifications
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Fail(w, apperr.KindInvalidInput, "invalid json")
			return
		}

		p, err := svc.UpdateNotifications(r.Context(), claims.UserID, req)
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, toProfileResponse(p))
	}
}

// setLanguageHandler godoc
// @Summary Guardar idioma preferido
// @Tags profiles
// @Accept json
// @Produce json
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body languageRequest true "Código de idioma (es, en)"
// @Success 200 {object} profileResponse
// @Failure 400 {object} map[string]string "invalid_input"
// @Failure 401 {object} map[string]string "not_authenticated"
// @Router /me/language [put]
func setLanguageHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireUser(w, r)
		if !ok {
			return
		}

		var req languageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Fail(w, apperr.KindInvalidInput, "invalid json")
			return
		}

		p, err := svc.SetLanguage(r.Context(), claims.UserID, req.Language)
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, toProfileResponse(p))
	}
}

func toProfileResponse(p Profile) profileResponse {
	return profileResponse{
		UserID:        p.UserID,
		DisplayName:   p.DisplayName,
		Email:         p.Email,
		PhotoURL:      p.PhotoURL,
		Notifications: p.Notifications,
		Language:      p.Language,
		Active:        p.Active,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
