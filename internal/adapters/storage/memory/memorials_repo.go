package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"huellitas/internal/apperr"
	"huellitas/internal/domain/memorials"
)

// memorialRepo serializa toggle/comment bajo el mismo lock: la lectura y la escritura
// del post ocurren en una sola sección crítica.
type memorialRepo struct {
	mu   sync.RWMutex
	byID map[string]memorials.Post
}

func NewMemorialRepo() memorials.Repository {
	return &memorialRepo{
		byID: make(map[string]memorials.Post),
	}
}

func (r *memorialRepo) Create(ctx context.Context, p memorials.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == "" {
		return errors.New("post id required")
	}
	if _, exists := r.byID[p.ID]; exists {
		return errors.New("post already exists")
	}
	r.byID[p.ID] = clonePost(p)
	return nil
}

func (r *memorialRepo) GetByID(ctx context.Context, id string) (memorials.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return memorials.Post{}, errPostNotFound()
	}
	return clonePost(p), nil
}

func (r *memorialRepo) ListPublic(ctx context.Context, limit int) ([]memorials.Post, error) {
	out := r.list(func(p memorials.Post) bool { return p.IsPublic })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memorialRepo) ListByUser(ctx context.Context, userID string) ([]memorials.Post, error) {
	return r.list(func(p memorials.Post) bool { return p.UserID == userID }), nil
}

func (r *memorialRepo) ToggleLike(ctx context.Context, postID, userID string, at time.Time) (memorials.Post, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[postID]
	if !ok {
		return memorials.Post{}, false, errPostNotFound()
	}

	liked := !p.LikedByUser(userID)
	likedBy := make([]string, 0, len(p.LikedBy)+1)
	for _, id := range p.LikedBy {
		if id != userID {
			likedBy = append(likedBy, id)
		}
	}
	if liked {
		likedBy = append(likedBy, userID)
	}

	p.LikedBy = likedBy
	p.Likes = len(likedBy)
	p.UpdatedAt = at
	r.byID[postID] = p
	return clonePost(p), liked, nil
}

func (r *memorialRepo) AppendComment(ctx context.Context, postID string, c memorials.Comment, at time.Time) (memorials.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[postID]
	if !ok {
		return memorials.Post{}, errPostNotFound()
	}

	comments := make([]memorials.Comment, 0, len(p.Comments)+1)
	comments = append(comments, p.Comments...)
	p.Comments = append(comments, c)
	p.UpdatedAt = at
	r.byID[postID] = p
	return clonePost(p), nil
}

func (r *memorialRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return errPostNotFound()
	}
	delete(r.byID, id)
	return nil
}

func (r *memorialRepo) list(keep func(memorials.Post) bool) []memorials.Post {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]memorials.Post, 0)
	for _, p := range r.byID {
		if keep(p) {
			out = append(out, clonePost(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func clonePost(p memorials.Post) memorials.Post {
	p.LikedBy = append([]string{}, p.LikedBy...)
	p.Comments = append([]memorials.Comment{}, p.Comments...)
	return p
}

func errPostNotFound() error {
	return apperr.New(apperr.KindNotFound, "post not found")
}
