package accounts

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
	r.Route("/auth", func(ar chi.Router) {
		ar.Post("/register", registerHandler(svc))
		ar.Post("/login", loginHandler(svc))
		ar.Post("/logout", logoutHandler())
		ar.Post("/password", changePasswordHandler(svc))
	})
}

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type accountResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	PhotoURL    string    `json:"photo_url"`
	CreatedAt   time.Time `json:"created_at"`
}

type sessionResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Account   accountResponse `json:"account"`
}

// registerHandler godoc
// @Summary Registrar cuenta
// @Description Crea una cuenta con email y contraseña, su perfil por defecto y devuelve un token Bearer.
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body registerRequest true "Email, contraseña (mín. 6) y nombre visible"
// @Success 201 {object} sessionResponse
// @Failure 400 {object} map[string]string "invalid_input / weak_credential"
// @Failure 409 {object} map[string]string "duplicate_account"
// @Router /auth/register [post]
func registerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Fail(w, apperr.KindInvalidInput, "invalid json")
			return
		}

		sess, err := svc.Register(r.Context(), RegisterInput{
			Email:       req.Email,
			Password:    req.Password,
			DisplayName: req.DisplayName,
		})
		if err != nil {
			respond.Error(w, err)
			return
		}

		respond.JSON(w, http.StatusCreated, toSessionResponse(sess))
	}
}

// loginHandler godoc
// @Summary Iniciar sesión
// @Description Intercambia email y contraseña por un token Bearer. Los intentos fallidos se limitan por email.
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body loginRequest true "Credenciales"
// @Success 200 {object} sessionResponse
// @Failure 401 {object} map[string]string "bad_credential"
// @Failure 404 {object} map[string]string "not_found"
// @Failure 429 {object} map[string]string "rate_limited"
// @Router /auth/login [post]
func loginHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Fail(w, apperr.KindInvalidInput, "invalid json")
			return
		}

		sess, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			respond.Error(w, err)
			return
		}

		respond.JSON(w, http.StatusOK, toSessionResponse(sess))
	}
}

// logoutHandler godoc
// @Summary Cerrar sesión
// @Description Los tokens son stateless: el cliente descarta el suyo. Idempotente.
// @Tags auth
// @Success 204
// @Router /auth/logout [post]
func logoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		respond.NoContent(w)
	}
}

// changePasswordHandler godoc
// @Summary Cambiar contraseña
// @Description Requiere la contraseña actual. La nueva debe ser distinta y cumplir la política.
// @Tags auth
// @Accept json
// @Param Authorization header string false "Bearer token"
// @Param payload body changePasswordRequest true "Contraseña actual y nueva"
// @Success 204
// @Failure 400 {object} map[string]string "invalid_input / weak_credential"
// @Failure 401 {object} map[string]string "not_authenticated / bad_credential"
// @Router /auth/password [post]
func changePasswordHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireUser(w, r)
		if !ok {
			return
		}

		var req changePasswordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Fail(w, apperr.KindInvalidInput, "invalid json")
			return
		}

		if err := svc.ChangePassword(r.Context(), claims.UserID, req.CurrentPassword, req.NewPassword); err != nil {
			respond.Error(w, err)
			return
		}
		respond.NoContent(w)
	}
}

func toSessionResponse(s Session) sessionResponse {
	return sessionResponse{
		Token:     s.Token,
		ExpiresAt: s.ExpiresAt,
		Account: accountResponse{
			ID:          s.Account.ID,
			Email:       s.Account.Email,
			DisplayName: s.Account.DisplayName,
			PhotoURL:    s.Account.PhotoURL,
			CreatedAt:   s.Account.CreatedAt,
		},
	}
}
