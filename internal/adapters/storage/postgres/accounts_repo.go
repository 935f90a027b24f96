package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"huellitas/internal/apperr"
	"huellitas/internal/domain/accounts"
)

type AccountsRepo struct {
	db *sql.DB
}

func NewAccountsRepo(db *sql.DB) *AccountsRepo {
	return &AccountsRepo{db: db}
}

func (r *AccountsRepo) Create(ctx context.Context, a accounts.Account) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (id, email, display_name, photo_url, password_hash, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, a.ID, strings.ToLower(a.Email), a.DisplayName, a.PhotoURL, a.PasswordHash, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.New(apperr.KindDuplicateAccount, "email already registered")
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (r *AccountsRepo) Update(ctx context.Context, a accounts.Account) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE accounts
		SET email = $2, display_name = $3, photo_url = $4, password_hash = $5, updated_at = $6
		WHERE id = $1
	`, a.ID, strings.ToLower(a.Email), a.DisplayName, a.PhotoURL, a.PasswordHash, a.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.New(apperr.KindDuplicateAccount, "email already registered")
		}
		return fmt.Errorf("update account: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return notFound("account")
	}
	return nil
}

func (r *AccountsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return notFound("account")
	}
	return nil
}

func (r *AccountsRepo) GetByID(ctx context.Context, id string) (accounts.Account, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

func (r *AccountsRepo) GetByEmail(ctx context.Context, email string) (accounts.Account, error) {
	return r.getOne(ctx, `WHERE email = $1`, strings.ToLower(strings.TrimSpace(email)))
}

func (r *AccountsRepo) getOne(ctx context.Context, where string, arg string) (accounts.Account, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, display_name, photo_url, password_hash, created_at, updated_at
		FROM accounts `+where, arg)

	var a accounts.Account
	if err := row.Scan(&a.ID, &a.Email, &a.DisplayName, &a.PhotoURL, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return accounts.Account{}, notFound("account")
		}
		return accounts.Account{}, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}
