package memorials

import (
	"context"
	"time"
)

// Repository persiste posts. ToggleLike y AppendComment deben ser atómicos por documento:
// dos llamadas concurrentes no pueden perder una actualización.
type Repository interface {
	Create(ctx context.Context, p Post) error
	GetByID(ctx context.Context, id string) (Post, error)
	// ListPublic devuelve posts públicos por created_at desc, máximo limit.
	ListPublic(ctx context.Context, limit int) ([]Post, error)
	ListByUser(ctx context.Context, userID string) ([]Post, error)
	// ToggleLike agrega o quita userID de LikedBy ajustando Likes; liked indica el estado final.
	ToggleLike(ctx context.Context, postID, userID string, at time.Time) (post Post, liked bool, err error)
	AppendComment(ctx context.Context, postID string, c Comment, at time.Time) (Post, error)
	Delete(ctx context.Context, id string) error
}
