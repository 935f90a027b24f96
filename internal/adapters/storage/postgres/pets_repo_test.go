package postgres

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"huellitas/internal/domain/pets"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRow copia valores de columna a los destinos como lo haría database/sql.
type fakeRow []any

func (r fakeRow) Scan(dest ...any) error {
	if len(dest) != len(r) {
		return fmt.Errorf("expected %d destinations, got %d", len(r), len(dest))
	}
	for i, d := range dest {
		switch d := d.(type) {
		case sql.Scanner:
			if err := d.Scan(r[i]); err != nil {
				return err
			}
		case *string:
			*d = r[i].(string)
		case *time.Time:
			*d = r[i].(time.Time)
		default:
			return fmt.Errorf("unsupported destination %T", d)
		}
	}
	return nil
}

func petRow(active any, archived any) fakeRow {
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	return fakeRow{
		"p1", "u1",
		"Luna", "cat", "", "female",
		nil, "", "https://cdn.test/pets/p1/profile_1.jpg", "pets/p1/profile_1.jpg",
		active, archived,
		created, created,
	}
}

func TestScanPet_NullActiveIsLegacyActive(t *testing.T) {
	p, err := scanPet(petRow(nil, nil))
	require.NoError(t, err)

	assert.Nil(t, p.Active)
	assert.True(t, p.IsActive())
	assert.Nil(t, p.BirthDate)
	assert.Nil(t, p.ArchivedAt)
	assert.Equal(t, pets.SpeciesCat, p.Species)
	assert.Equal(t, "pets/p1/profile_1.jpg", p.ImageKey)
}

func TestScanPet_ArchivedKeepsFalseFlag(t *testing.T) {
	archived := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	p, err := scanPet(petRow(false, archived))
	require.NoError(t, err)

	require.NotNil(t, p.Active)
	assert.False(t, *p.Active)
	assert.False(t, p.IsActive())
	require.NotNil(t, p.ArchivedAt)
	assert.True(t, archived.Equal(*p.ArchivedAt))
}

func TestToNullBool(t *testing.T) {
	assert.False(t, toNullBool(nil).Valid)

	f := false
	nb := toNullBool(&f)
	assert.True(t, nb.Valid)
	assert.False(t, nb.Bool)
}
