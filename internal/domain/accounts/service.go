package accounts

import (
	"context"
	"errors"
	"strings"
	"time"

	"huellitas/internal/apperr"
	"huellitas/internal/ports/auth"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Service struct {
	repo     Repository
	hasher   PasswordHasher
	tokens   TokenIssuer
	limiter  AttemptLimiter // opcional
	profiles ProfileCreator // opcional
	validate *validator.Validate
	now      func() time.Time
}

type Deps struct {
	Repo     Repository
	Hasher   PasswordHasher
	Tokens   TokenIssuer
	Limiter  AttemptLimiter
	Profiles ProfileCreator
}

func NewService(d Deps) *Service {
	return &Service{
		repo:     d.Repo,
		hasher:   d.Hasher,
		tokens:   d.Tokens,
		limiter:  d.Limiter,
		profiles: d.Profiles,
		validate: validator.New(),
		now:      time.Now,
	}
}

type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
}

// Register crea la cuenta, su Profile Document por defecto y devuelve una sesión.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Session, error) {
	email, err := s.normalizeEmail(in.Email)
	if err != nil {
		return Session{}, err
	}
	name := strings.TrimSpace(in.DisplayName)
	if name == "" {
		return Session{}, apperr.New(apperr.KindInvalidInput, "display name is required")
	}
	if err := checkPasswordPolicy(in.Password); err != nil {
		return Session{}, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return Session{}, apperr.Wrap(apperr.KindAuthFailure, err, "hash password")
	}

	now := s.now()
	a := Account{
		ID:           uuid.NewString(),
		Email:        email,
		DisplayName:  name,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return Session{}, apperr.Normalize(err)
	}

	if s.profiles != nil {
		if err := s.profiles.CreateDefault(ctx, a.ID, a.Email, a.DisplayName); err != nil {
			// sin perfil la cuenta queda a medias; se borra para que el registro se pueda reintentar
			if derr := s.repo.Delete(ctx, a.ID); derr != nil {
				err = errors.Join(err, derr)
			}
			return Session{}, apperr.Wrap(apperr.KindPersistence, err, "create profile")
		}
	}

	return s.issue(a)
}

// Login intercambia credenciales por una sesión. Los fallos cuentan para el rate limit
// por email; un login exitoso resetea el contador.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	email, err := s.normalizeEmail(email)
	if err != nil {
		return Session{}, err
	}
	if password == "" {
		return Session{}, apperr.New(apperr.KindInvalidInput, "password is required")
	}

	if s.limiter != nil {
		ok, err := s.limiter.Allow(ctx, email)
		if err != nil {
			return Session{}, apperr.Wrap(apperr.KindPersistence, err, "rate limiter")
		}
		if !ok {
			return Session{}, apperr.New(apperr.KindRateLimited, "too many login attempts, try again later")
		}
	}

	a, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			s.fail(ctx, email)
			return Session{}, apperr.New(apperr.KindNotFound, "account not found")
		}
		return Session{}, apperr.Normalize(err)
	}
	if err := s.hasher.Compare(a.PasswordHash, password); err != nil {
		s.fail(ctx, email)
		return Session{}, apperr.New(apperr.KindBadCredential, "wrong password")
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, email); err != nil {
			return Session{}, apperr.Wrap(apperr.KindPersistence, err, "rate limiter")
		}
	}
	return s.issue(a)
}

// ChangePassword exige la contraseña actual (re-autenticación) y una nueva distinta.
func (s *Service) ChangePassword(ctx context.Context, userID, current, next string) error {
	a, err := s.repo.GetByID(ctx, strings.TrimSpace(userID))
	if err != nil {
		return apperr.Normalize(err)
	}
	if err := s.hasher.Compare(a.PasswordHash, current); err != nil {
		return apperr.New(apperr.KindBadCredential, "current password is wrong")
	}
	if current == next {
		return apperr.New(apperr.KindInvalidInput, "new password must differ from the current one")
	}
	if err := checkPasswordPolicy(next); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return apperr.Wrap(apperr.KindAuthFailure, err, "hash password")
	}
	a.PasswordHash = hash
	a.UpdatedAt = s.now()
	return apperr.Normalize(s.repo.Update(ctx, a))
}

// UpdateIdentity refleja nombre/foto en la cuenta local. nil = no tocar.
// Usuarios sin cuenta local (firebase, debug) se ignoran.
func (s *Service) UpdateIdentity(ctx context.Context, userID string, displayName, photoURL *string) error {
	a, err := s.repo.GetByID(ctx, strings.TrimSpace(userID))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil
		}
		return apperr.Normalize(err)
	}

	if displayName != nil {
		a.DisplayName = strings.TrimSpace(*displayName)
	}
	if photoURL != nil {
		a.PhotoURL = strings.TrimSpace(*photoURL)
	}
	a.UpdatedAt = s.now()
	return apperr.Normalize(s.repo.Update(ctx, a))
}

func (s *Service) GetByID(ctx context.Context, id string) (Account, error) {
	a, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	return a, apperr.Normalize(err)
}

func (s *Service) issue(a Account) (Session, error) {
	token, exp, err := s.tokens.Issue(auth.Claims{
		UserID:   a.ID,
		Email:    a.Email,
		Name:     a.DisplayName,
		Provider: "local",
	})
	if err != nil {
		return Session{}, apperr.Wrap(apperr.KindAuthFailure, err, "issue token")
	}
	return Session{Token: token, ExpiresAt: exp, Account: a}, nil
}

func (s *Service) fail(ctx context.Context, email string) {
	if s.limiter == nil {
		return
	}
	// el error original (not found / bad credential) tiene prioridad
	_ = s.limiter.Fail(ctx, email)
}

func (s *Service) normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if err := s.validate.Var(email, "required,email"); err != nil {
		return "", apperr.New(apperr.KindInvalidInput, "invalid email")
	}
	return email, nil
}

func checkPasswordPolicy(pw string) error {
	if len([]rune(pw)) < MinPasswordLength {
		return apperr.Newf(apperr.KindWeakCredential, "password must have at least %d characters", MinPasswordLength)
	}
	if len(pw) > MaxPasswordBytes {
		return apperr.Newf(apperr.KindWeakCredential, "password must have at most %d bytes", MaxPasswordBytes)
	}
	return nil
}
