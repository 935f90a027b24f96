package client

import "time"

type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	PhotoURL    string    `json:"photo_url"`
	CreatedAt   time.Time `json:"created_at"`
}

type sessionDTO struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Account   User      `json:"account"`
}

type Notifications struct {
	Enabled    bool `json:"enabled"`
	Vaccines   bool `json:"vaccines"`
	Deworming  bool `json:"deworming"`
	AnnualExam bool `json:"annual_exam"`
}

type Profile struct {
	UserID        string        `json:"user_id"`
	DisplayName   string        `json:"display_name"`
	Email         string        `json:"email"`
	PhotoURL      string        `json:"photo_url"`
	Notifications Notifications `json:"notifications"`
	Language      string        `json:"language"`
	Active        bool          `json:"active"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

type PetInput struct {
	Name      string
	Species   string // dog/cat o Perro/Gato
	Breed     string
	Sex       string
	BirthDate *time.Time
	Notes     string
}

type Pet struct {
	ID          string     `json:"id"`
	OwnerUserID string     `json:"owner_user_id"`
	Name        string     `json:"name"`
	Species     string     `json:"species"`
	Breed       string     `json:"breed"`
	Sex         string     `json:"sex"`
	BirthDate   *time.Time `json:"birth_date,omitempty"`
	Notes       string     `json:"notes"`
	ImageURL    string     `json:"image_url"`
	Active      *bool      `json:"active,omitempty"`
	ArchivedAt  *time.Time `json:"archived_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IsActive trata el flag ausente como activo (registros anteriores al flag).
func (p Pet) IsActive() bool {
	return p.Active == nil || *p.Active
}

type Comment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type Post struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	UserName   string    `json:"user_name"`
	PetID      string    `json:"pet_id"`
	PetName    string    `json:"pet_name"`
	PetSpecies string    `json:"pet_species"`
	PetBreed   string    `json:"pet_breed"`
	ImageURL   string    `json:"image_url"`
	Message    string    `json:"message"`
	IsPublic   bool      `json:"is_public"`
	Likes      int       `json:"likes"`
	LikedBy    []string  `json:"liked_by"`
	Comments   []Comment `json:"comments"`
	CreatedAt  time.Time `json:"created_at"`
}
