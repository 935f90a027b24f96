package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"huellitas/internal/apperr"
	"huellitas/internal/domain/accounts"
)

type accountRepo struct {
	mu      sync.RWMutex
	byID    map[string]accounts.Account
	byEmail map[string]string // email -> id
}

func NewAccountRepo() accounts.Repository {
	return &accountRepo{
		byID:    make(map[string]accounts.Account),
		byEmail: make(map[string]string),
	}
}

func (r *accountRepo) Create(ctx context.Context, a accounts.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(a.ID) == "" {
		return errors.New("account id required")
	}
	email := strings.ToLower(a.Email)
	if _, taken := r.byEmail[email]; taken {
		return apperr.New(apperr.KindDuplicateAccount, "email already registered")
	}
	r.byID[a.ID] = a
	r.byEmail[email] = a.ID
	return nil
}

func (r *accountRepo) Update(ctx context.Context, a accounts.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, ok := r.byID[a.ID]
	if !ok {
		return apperr.New(apperr.KindNotFound, "account not found")
	}
	if prevEmail, email := strings.ToLower(prev.Email), strings.ToLower(a.Email); prevEmail != email {
		if _, taken := r.byEmail[email]; taken {
			return apperr.New(apperr.KindDuplicateAccount, "email already registered")
		}
		delete(r.byEmail, prevEmail)
		r.byEmail[email] = a.ID
	}
	r.byID[a.ID] = a
	return nil
}

func (r *accountRepo) GetByID(ctx context.Context, id string) (accounts.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return accounts.Account{}, apperr.New(apperr.KindNotFound, "account not found")
	}
	return a, nil
}

func (r *accountRepo) GetByEmail(ctx context.Context, email string) (accounts.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return accounts.Account{}, apperr.New(apperr.KindNotFound, "account not found")
	}
	return r.byID[id], nil
}

func (r *accountRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return apperr.New(apperr.KindNotFound, "account not found")
	}
	delete(r.byEmail, strings.ToLower(a.Email))
	delete(r.byID, id)
	return nil
}
