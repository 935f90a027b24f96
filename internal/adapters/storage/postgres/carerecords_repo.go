package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"huellitas/internal/domain/carerecords"
)

type CareRecordsRepo struct {
	db *sql.DB
}

func NewCareRecordsRepo(db *sql.DB) *CareRecordsRepo {
	return &CareRecordsRepo{db: db}
}

const careRecordColumns = `
	id, pet_id, category,
	name, applied_at, next_due_at,
	veterinarian, notes,
	created_at, updated_at`

func (r *CareRecordsRepo) Create(ctx context.Context, rec carerecords.Record) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO care_records (`+careRecordColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		rec.ID, rec.PetID, string(rec.Category),
		rec.Name, toNullTime(rec.AppliedAt), toNullTime(rec.NextDueAt),
		rec.Veterinarian, rec.Notes,
		rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert care record: %w", err)
	}
	return nil
}

func (r *CareRecordsRepo) Update(ctx context.Context, rec carerecords.Record) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE care_records
		SET name = $2, applied_at = $3, next_due_at = $4, veterinarian = $5, notes = $6, updated_at = $7
		WHERE id = $1
	`,
		rec.ID, rec.Name, toNullTime(rec.AppliedAt), toNullTime(rec.NextDueAt),
		rec.Veterinarian, rec.Notes, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update care record: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return notFound("record")
	}
	return nil
}

func (r *CareRecordsRepo) GetByID(ctx context.Context, id string) (carerecords.Record, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+careRecordColumns+` FROM care_records WHERE id = $1`, id)
	rec, err := scanCareRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return carerecords.Record{}, notFound("record")
		}
		return carerecords.Record{}, fmt.Errorf("get care record: %w", err)
	}
	return rec, nil
}

func (r *CareRecordsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM care_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete care record: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return notFound("record")
	}
	return nil
}

func (r *CareRecordsRepo) ListByPet(ctx context.Context, petID string, category carerecords.Category) ([]carerecords.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+careRecordColumns+`
		FROM care_records
		WHERE pet_id = $1 AND category = $2
		ORDER BY applied_at DESC NULLS LAST, created_at DESC
	`, petID, string(category))
	if err != nil {
		return nil, fmt.Errorf("list care records: %w", err)
	}
	defer rows.Close()

	out := make([]carerecords.Record, 0)
	for rows.Next() {
		rec, err := scanCareRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan care record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanCareRecord(s rowScanner) (carerecords.Record, error) {
	var (
		rec           carerecords.Record
		category      string
		applied, next sql.NullTime
	)
	if err := s.Scan(
		&rec.ID, &rec.PetID, &category,
		&rec.Name, &applied, &next,
		&rec.Veterinarian, &rec.Notes,
		&rec.CreatedAt, &rec.UpdatedAt,
	); err != nil {
		return carerecords.Record{}, err
	}
	rec.Category = carerecords.Category(category)
	rec.AppliedAt = fromNullTime(applied)
	rec.NextDueAt = fromNullTime(next)
	return rec, nil
}
