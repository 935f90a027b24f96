package memorials

import "time"

const (
	DefaultListLimit = 20
	MaxListLimit     = 100

	defaultUserName = "Usuario"
)

// Post es una publicación del memorial. Los datos de la mascota se copian al crear
// (no hay join con pets). Invariante: Likes == len(LikedBy).
type Post struct {
	ID       string
	UserID   string
	UserName string

	PetID      string
	PetName    string
	PetSpecies string
	PetBreed   string
	ImageURL   string

	Message  string
	IsPublic bool

	Likes    int
	LikedBy  []string
	Comments []Comment

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Comment va embebido en el post; solo se agregan (append-only).
type Comment struct {
	ID        string
	UserID    string
	UserName  string
	Text      string
	CreatedAt time.Time
}

// Author es quien publica o comenta.
type Author struct {
	UserID string
	Name   string
}

// PetSnapshot son los datos de la mascota que se desnormalizan en el post.
type PetSnapshot struct {
	ID       string
	Name     string
	Species  string
	Breed    string
	ImageURL string
}

func (p Post) LikedByUser(userID string) bool {
	for _, id := range p.LikedBy {
		if id == userID {
			return true
		}
	}
	return false
}
