package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"huellitas/internal/domain/profiles"
)

type ProfilesRepo struct {
	db *sql.DB
}

func NewProfilesRepo(db *sql.DB) *ProfilesRepo {
	return &ProfilesRepo{db: db}
}

func (r *ProfilesRepo) Get(ctx context.Context, userID string) (profiles.Profile, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT
			user_id, display_name, email, photo_url,
			notify_enabled, notify_vaccines, notify_deworming, notify_annual_exam,
			language, active, created_at, updated_at
		FROM profiles
		WHERE user_id = $1
	`, userID)

	var p profiles.Profile
	if err := row.Scan(
		&p.UserID, &p.DisplayName, &p.Email, &p.PhotoURL,
		&p.Notifications.Enabled, &p.Notifications.Vaccines, &p.Notifications.Deworming, &p.Notifications.AnnualExam,
		&p.Language, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return profiles.Profile{}, notFound("profile")
		}
		return profiles.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// Upsert conserva created_at de la fila existente.
func (r *ProfilesRepo) Upsert(ctx context.Context, p profiles.Profile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (
			user_id, display_name, email, photo_url,
			notify_enabled, notify_vaccines, notify_deworming, notify_annual_exam,
			language, active, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		ON CONFLICT (user_id) DO UPDATE SET
			display_name       = EXCLUDED.display_name,
			email              = EXCLUDED.email,
			photo_url          = EXCLUDED.photo_url,
			notify_enabled     = EXCLUDED.notify_enabled,
			notify_vaccines    = EXCLUDED.notify_vaccines,
			notify_deworming   = EXCLUDED.notify_deworming,
			notify_annual_exam = EXCLUDED.notify_annual_exam,
			language           = EXCLUDED.language,
			active             = EXCLUDED.active,
			updated_at         = EXCLUDED.updated_at
	`,
		p.UserID, p.DisplayName, p.Email, p.PhotoURL,
		p.Notifications.Enabled, p.Notifications.Vaccines, p.Notifications.Deworming, p.Notifications.AnnualExam,
		p.Language, p.Active, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}
