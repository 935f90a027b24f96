package memorials

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"huellitas/internal/apperr"
	"huellitas/internal/domain/pets"
	"huellitas/internal/middleware"
	"huellitas/internal/ports/auth"
	"huellitas/internal/platform/respond"

	"github.com/go-chi/chi/v5"
)

// PetLookup devuelve la mascota si pertenece al usuario (lo implementa pets.Service).
type PetLookup interface {
	GetOwned(ctx context.Context, petID, userID string) (pets.Pet, error)
}

// NameLookup resuelve el nombre visible vigente del autor (lo implementa profiles.Service).
type NameLookup interface {
	DisplayName(ctx context.Context, userID string) (string, error)
}

// names puede ser nil: el autor firma con el nombre del token.
func RegisterRoutes(r chi.Router, svc *Service, petsLookup PetLookup, names NameLookup) {
	r.Route("/memorials", func(mr chi.Router) {
		mr.Post("/", shareHandler(svc, petsLookup, names))
		mr.Get("/", listPublicHandler(svc))
		mr.Post("/{postID}/like", toggleLikeHandler(svc))
		mr.Post("/{postID}/comments", addCommentHandler(svc, names))
		mr.Delete("/{postID}", deleteHandler(svc))
	})

	r.Get("/me/memorials", listMineHandler(svc))
}

type shareRequest struct {
	PetID    string `json:"pet_id"`
	Message  string `json:"message"`
	IsPublic *bool  `json:"is_public"` // default true
}

type commentRequest struct {
	Text string `json:"text"`
}

type commentResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type postResponse struct {
	ID         string            `json:"id"`
	UserID     string            `json:"user_id"`
	UserName   string            `json:"user_name"`
	PetID      string            `json:"pet_id"`
	PetName    string            `json:"pet_name"`
	PetSpecies string            `json:"pet_species"`
	PetBreed   string            `json:"pet_breed"`
	ImageURL   string            `json:"image_url"`
	Message    string            `json:"message"`
	IsPublic   bool              `json:"is_public"`
	Likes      int               `json:"likes"`
	LikedBy    []string          `json:"liked_by"`
	Comments   []commentResponse `json:"comments"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

type likeResponse struct {
	Liked bool         `json:"liked"`
	Post  postResponse `json:"post"`
}

// shareHandler godoc
// @Summary Compartir memorial
// @Description Publica un memorial de una mascota propia. La mascota debe tener imagen.
// @Tags memorials
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body shareRequest true "Mascota, mensaje y visibilidad"
// @Success 201 {object} postResponse
// @Failure 400 {object} map[string]string "invalid_input (mascota sin imagen)"
// @Failure 403 {object} map[string]string "permission_denied"
// @Failure 404 {object} map[string]string "not_found"
// @Router /memorials [post]
func shareHandler(svc *Service, petsLookup PetLookup, names NameLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireUser(w, r)
		if !ok {
			return
		}

		var req shareRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Fail(w, apperr.KindInvalidInput, "invalid json")
			return
		}

		pet, err := petsLookup.GetOwned(r.Context(), req.PetID, claims.UserID)
		if err != nil {
			respond.Error(w, err)
			return
		}
		if strings.TrimSpace(pet.ImageURL) == "" {
			respond.Fail(w, apperr.KindInvalidInput, "pet needs an image before sharing")
			return
		}

		isPublic := true
		if req.IsPublic != nil {
			isPublic = *req.IsPublic
		}

		p, err := svc.Share(r.Context(), authorOf(r.Context(), claims, names), PetSnapshot{
			ID:       pet.ID,
			Name:     pet.Name,
			Species:  string(pet.Species),
			Breed:    pet.Breed,
			ImageURL: pet.ImageURL,
		}, req.Message, isPublic)
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusCreated, toPostResponse(p))
	}
}

// listPublicHandler godoc
// @Summary Feed de la comunidad
// @Description Posts públicos por fecha de creación desc. No requiere autenticación.
// @Tags memorials
// @Produce json
// @Param limit query int false "Máximo de posts (1-100). Por defecto 20"
// @Success 200 {array} postResponse
// @Failure 400 {object} map[string]string "invalid_input"
// @Router /memorials [get]
func listPublicHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				respond.Fail(w, apperr.KindInvalidInput, "limit must be a positive integer")
				return
			}
			limit = n
		}

		items, err := svc.ListPublic(r.Context(), limit)
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, toPostResponses(items))
	}
}

// listMineHandler godoc
// @Summary Mis memoriales
// @Tags memorials
// @Produce json
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {array} postResponse
// @Failure 401 {object} map[string]string "not_authenticated"
// @Router /me/memorials [get]
func listMineHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireUser(w, r)
		if !ok {
			return
		}

		items, err := svc.ListByUser(r.Context(), claims.UserID)
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, toPostResponses(items))
	}
}

// toggleLikeHandler godoc
// @Summary Like / unlike
// @Description Alterna el like del usuario sobre el post.
// @Tags memorials
// @Produce json
// @Param Authorization header string false "Bearer token en producción"
// @Param postID path string true "ID del post"
// @Success 200 {object} likeResponse
// @Failure 404 {object} map[string]string "not_found"
// @Router /memorials/{postID}/like [post]
func toggleLikeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireUser(w, r)
		if !ok {
			return
		}

		p, liked, err := svc.ToggleLike(r.Context(), chi.URLParam(r, "postID"), claims.UserID)
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, likeResponse{Liked: liked, Post: toPostResponse(p)})
	}
}

// addCommentHandler godoc
// @Summary Comentar post
// @Tags memorials
// @Accept json
// @Produce json
// @Param Authorization header string false "Bearer token en producción"
// @Param postID path string true "ID del post"
// @Param payload body commentRequest true "Texto"
// @Success 201 {object} commentResponse
// @Failure 400 {object} map[string]string "invalid_input"
// @Failure 404 {object} map[string]string "not_found"
// @Router /memorials/{postID}/comments [post]
func addCommentHandler(svc *Service, names NameLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireUser(w, r)
		if !ok {
			return
		}

		var req commentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Fail(w, apperr.KindInvalidInput, "invalid json")
			return
		}

		c, err := svc.AddComment(r.Context(), chi.URLParam(r, "postID"), authorOf(r.Context(), claims, names), req.Text)
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusCreated, toCommentResponse(c))
	}
}

// deleteHandler godoc
// @Summary Eliminar post
// @Description Solo el autor puede eliminarlo.
// @Tags memorials
// @Param Authorization header string false "Bearer token en producción"
// @Param postID path string true "ID del post"
// @Success 204
// @Failure 403 {object} map[string]string "permission_denied"
// @Failure 404 {object} map[string]string "not_found"
// @Router /memorials/{postID} [delete]
func deleteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireUser(w, r)
		if !ok {
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "postID"), claims.UserID); err != nil {
			respond.Error(w, err)
			return
		}
		respond.NoContent(w)
	}
}

func toPostResponses(items []Post) []postResponse {
	out := make([]postResponse, 0, len(items))
	for _, p := range items {
		out = append(out, toPostResponse(p))
	}
	return out
}

func toPostResponse(p Post) postResponse {
	likedBy := p.LikedBy
	if likedBy == nil {
		likedBy = []string{}
	}
	comments := make([]commentResponse, 0, len(p.Comments))
	for _, c := range p.Comments {
		comments = append(comments, toCommentResponse(c))
	}
	return postResponse{
		ID:         p.ID,
		UserID:     p.UserID,
		UserName:   p.UserName,
		PetID:      p.PetID,
		PetName:    p.PetName,
		PetSpecies: p.PetSpecies,
		PetBreed:   p.PetBreed,
		ImageURL:   p.ImageURL,
		Message:    p.Message,
		IsPublic:   p.IsPublic,
		Likes:      p.Likes,
		LikedBy:    likedBy,
		Comments:   comments,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func toCommentResponse(c Comment) commentResponse {
	return commentResponse{
		ID:        c.ID,
		UserID:    c.UserID,
		UserName:  c.UserName,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
	}
}

// authorOf prefiere el nombre del perfil: el del token queda viejo tras un cambio de nombre.
func authorOf(ctx context.Context, claims auth.Claims, names NameLookup) Author {
	a := Author{UserID: claims.UserID, Name: claims.Name}
	if names == nil {
		return a
	}
	if name, err := names.DisplayName(ctx, claims.UserID); err == nil && strings.TrimSpace(name) != "" {
		a.Name = name
	}
	return a
}
