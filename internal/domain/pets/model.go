package pets

import (
	"strings"
	"time"
)

// Species define las especies soportadas.
// @Enum dog, cat
type Species string

const (
	SpeciesDog Species = "dog"
	SpeciesCat Species = "cat"
)

// ParseSpecies acepta el código ("dog") o el nombre en español que usa la app ("Perro").
func ParseSpecies(s string) (Species, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dog", "perro":
		return SpeciesDog, true
	case "cat", "gato":
		return SpeciesCat, true
	}
	return "", false
}

// Sex define el sexo de la mascota.
// @Enum male, female, unknown
type Sex string

const (
	SexMale    Sex = "male"
	SexFemale  Sex = "female"
	SexUnknown Sex = "unknown"
)

func ParseSex(s string) (Sex, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return SexUnknown, true
	case "male", "macho":
		return SexMale, true
	case "female", "hembra":
		return SexFemale, true
	case "unknown":
		return SexUnknown, true
	}
	return "", false
}

// Status filtra el listado de mascotas por ciclo de vida.
type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
	StatusAll      Status = "all"
)

// Pet representa el perfil básico de una mascota registrada en el sistema.
type Pet struct {
	ID          string
	OwnerUserID string

	Name    string
	Species Species // dog, cat
	Breed   string
	Sex     Sex // male, female, unknown

	BirthDate *time.Time
	Notes     string
	ImageURL  string
	// ImageKey es la clave en object storage de la imagen subida; "" si ImageURL vino de afuera.
	ImageKey string

	// Active es nil en registros creados antes de que existiera el flag: cuentan como activos.
	Active     *bool
	ArchivedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive: activo salvo que el flag sea explícitamente false.
func (p Pet) IsActive() bool {
	return p.Active == nil || *p.Active
}

func boolPtr(b bool) *bool { return &b }
