package profiles

import "time"

// Notifications son las preferencias de recordatorio por categoría.
type Notifications struct {
	Enabled    bool `json:"enabled"`
	Vaccines   bool `json:"vaccines"`
	Deworming  bool `json:"deworming"`
	AnnualExam bool `json:"annual_exam"`
}

// DefaultNotifications: todo habilitado.
func DefaultNotifications() Notifications {
	return Notifications{Enabled: true, Vaccines: true, Deworming: true, AnnualExam: true}
}

// Profile es el documento por usuario (1:1 con la identidad), keyed por UserID.
type Profile struct {
	UserID      string
	DisplayName string
	Email       string
	PhotoURL    string

	Notifications Notifications
	Language      string // vacío = sin preferencia guardada

	Active bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
