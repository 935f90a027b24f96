package carerecords

import "strings"

// Vaccine es una entrada del catálogo de vacunas sugeridas por especie.
type Vaccine struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Mandatory bool   `json:"mandatory"`
}

var dogVaccines = []Vaccine{
	{ID: 1, Name: "Parvovirus", Mandatory: true},
	{ID: 2, Name: "Moquillo (Distemper)", Mandatory: true},
	{ID: 3, Name: "Hepatitis Infecciosa Canina", Mandatory: true},
	{ID: 4, Name: "Rabia", Mandatory: true},
	{ID: 5, Name: "Leptospirosis", Mandatory: true},
	{ID: 6, Name: "Parainfluenza", Mandatory: false},
	{ID: 7, Name: "Coronavirus Canino", Mandatory: false},
	{ID: 8, Name: "Bordetella (Tos de las Perreras)", Mandatory: false},
	{ID: 9, Name: "Vacuna Séxtuple (DHPPL)", Mandatory: true},
	{ID: 10, Name: "Vacuna Óctuple (DHPPL + Coronavirus + Leptospira)", Mandatory: true},
	{ID: 11, Name: "Giardia", Mandatory: false},
	{ID: 12, Name: "Enfermedad de Lyme", Mandatory: false},
}

var catVaccines = []Vaccine{
	{ID: 13, Name: "Panleucopenia Felina (Moquillo Felino)", Mandatory: true},
	{ID: 14, Name: "Rinotraqueitis Viral Felina", Mandatory: true},
	{ID: 15, Name: "Calicivirus Felino", Mandatory: true},
	{ID: 16, Name: "Rabia", Mandatory: true},
	{ID: 17, Name: "Leucemia Felina (FeLV)", Mandatory: false},
	{ID: 18, Name: "Vacuna Triple Felina (FVRCP)", Mandatory: true},
	{ID: 19, Name: "Vacuna Cuádruple Felina", Mandatory: true},
	{ID: 20, Name: "Clamidia Felina", Mandatory: false},
	{ID: 21, Name: "Peritonitis Infecciosa Felina (PIF)", Mandatory: false},
	{ID: 22, Name: "Bordetella (para gatos)", Mandatory: false},
}

// VaccinesBySpecies devuelve el catálogo de la especie (dog/perro, cat/gato).
// Especie vacía o desconocida: el catálogo completo.
func VaccinesBySpecies(species string) []Vaccine {
	var src []Vaccine
	switch strings.ToLower(strings.TrimSpace(species)) {
	case "dog", "perro":
		src = dogVaccines
	case "cat", "gato":
		src = catVaccines
	default:
		src = append(append([]Vaccine{}, dogVaccines...), catVaccines...)
	}
	out := make([]Vaccine, len(src))
	copy(out, src)
	return out
}

// FilterMandatory filtra por obligatoriedad. mandatory=nil no filtra.
func FilterMandatory(in []Vaccine, mandatory *bool) []Vaccine {
	if mandatory == nil {
		return in
	}
	out := make([]Vaccine, 0, len(in))
	for _, v := range in {
		if v.Mandatory == *mandatory {
			out = append(out, v)
		}
	}
	return out
}
