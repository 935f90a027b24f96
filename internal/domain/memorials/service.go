package memorials

import (
	"context"
	"strings"
	"time"

	"huellitas/internal/apperr"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// Share publica un memorial con los datos actuales de la mascota.
// Que la mascota tenga imagen lo valida quien llama (handler).
func (s *Service) Share(ctx context.Context, author Author, pet PetSnapshot, message string, isPublic bool) (Post, error) {
	if strings.TrimSpace(author.UserID) == "" {
		return Post{}, apperr.ErrNotAuthenticated
	}
	if strings.TrimSpace(pet.ID) == "" {
		return Post{}, apperr.New(apperr.KindInvalidInput, "pet is required")
	}

	now := s.now()
	p := Post{
		ID:         uuid.NewString(),
		UserID:     author.UserID,
		UserName:   displayName(author.Name),
		PetID:      pet.ID,
		PetName:    pet.Name,
		PetSpecies: pet.Species,
		PetBreed:   pet.Breed,
		ImageURL:   pet.ImageURL,
		Message:    strings.TrimSpace(message),
		IsPublic:   isPublic,
		Likes:      0,
		LikedBy:    []string{},
		Comments:   []Comment{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return Post{}, apperr.Normalize(err)
	}
	return p, nil
}

// ListPublic: limit <= 0 usa DefaultListLimit; se recorta a MaxListLimit.
func (s *Service) ListPublic(ctx context.Context, limit int) ([]Post, error) {
	switch {
	case limit <= 0:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}
	items, err := s.repo.ListPublic(ctx, limit)
	return items, apperr.Normalize(err)
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]Post, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apperr.ErrNotAuthenticated
	}
	items, err := s.repo.ListByUser(ctx, userID)
	return items, apperr.Normalize(err)
}

// ToggleLike alterna el like del usuario. Dos llamadas seguidas dejan el post como estaba.
func (s *Service) ToggleLike(ctx context.Context, postID, userID string) (Post, bool, error) {
	if strings.TrimSpace(userID) == "" {
		return Post{}, false, apperr.ErrNotAuthenticated
	}
	p, liked, err := s.repo.ToggleLike(ctx, strings.TrimSpace(postID), userID, s.now())
	if err != nil {
		return Post{}, false, apperr.Normalize(err)
	}
	return p, liked, nil
}

// AddComment agrega un comentario al final de la lista del post.
func (s *Service) AddComment(ctx context.Context, postID string, author Author, text string) (Comment, error) {
	if strings.TrimSpace(author.UserID) == "" {
		return Comment{}, apperr.ErrNotAuthenticated
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Comment{}, apperr.New(apperr.KindInvalidInput, "comment text is required")
	}

	now := s.now()
	c := Comment{
		ID:        uuid.NewString(),
		UserID:    author.UserID,
		UserName:  displayName(author.Name),
		Text:      text,
		CreatedAt: now,
	}
	if _, err := s.repo.AppendComment(ctx, strings.TrimSpace(postID), c, now); err != nil {
		return Comment{}, apperr.Normalize(err)
	}
	return c, nil
}

// Delete borra el post solo si userID es el autor.
func (s *Service) Delete(ctx context.Context, postID, userID string) error {
	p, err := s.repo.GetByID(ctx, strings.TrimSpace(postID))
	if err != nil {
		return apperr.Normalize(err)
	}
	if p.UserID != userID {
		return apperr.New(apperr.KindPermissionDenied, "only the author can delete this post")
	}
	return apperr.Normalize(s.repo.Delete(ctx, p.ID))
}

func (s *Service) GetByID(ctx context.Context, id string) (Post, error) {
	p, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	return p, apperr.Normalize(err)
}

func displayName(name string) string {
	if n := strings.TrimSpace(name); n != "" {
		return n
	}
	return defaultUserName
}
