package carerecords

import "time"

// Category discrimina el tipo de registro sanitario de la mascota.
// @Enum vaccination, deworming, annual_exam
type Category string

const (
	CategoryVaccination Category = "vaccination"
	CategoryDeworming   Category = "deworming"
	CategoryAnnualExam  Category = "annual_exam"
)

func ParseCategory(s string) (Category, bool) {
	switch c := Category(s); c {
	case CategoryVaccination, CategoryDeworming, CategoryAnnualExam:
		return c, true
	}
	return "", false
}

// Record es un registro de cuidado de una mascota (sub-colección lógica del pet).
// Name es la vacuna (vaccination) o el producto (deworming); AppliedAt es la fecha
// de aplicación o del examen.
type Record struct {
	ID       string
	PetID    string
	Category Category

	Name         string
	AppliedAt    *time.Time
	NextDueAt    *time.Time
	Veterinarian string
	Notes        string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Stats resume una categoría: total y el registro más reciente.
type Stats struct {
	Total int
	Last  *Record
}
