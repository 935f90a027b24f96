package profiles

import (
	"context"
	"errors"
	"strings"
	"time"

	"huellitas/internal/apperr"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/language"
)

type Service struct {
	repo     Repository
	identity IdentityUpdater
	validate *validator.Validate
	now      func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:     repo,
		validate: validator.New(),
		now:      time.Now,
	}
}

// SetIdentity conecta el servicio de cuentas. Se setea después de construir ambos
// porque accounts también depende de profiles (CreateDefault).
func (s *Service) SetIdentity(id IdentityUpdater) {
	s.identity = id
}

// CreateDefault crea el perfil inicial (notificaciones habilitadas, sin idioma).
func (s *Service) CreateDefault(ctx context.Context, userID, email, displayName string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return apperr.New(apperr.KindInvalidInput, "user id is required")
	}
	p := s.defaults(userID)
	p.Email = strings.TrimSpace(email)
	p.DisplayName = strings.TrimSpace(displayName)
	return apperr.Normalize(s.repo.Upsert(ctx, p))
}

func (s *Service) Get(ctx context.Context, userID string) (Profile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Profile{}, apperr.New(apperr.KindInvalidInput, "user id is required")
	}
	p, err := s.repo.Get(ctx, userID)
	return p, apperr.Normalize(err)
}

// DisplayName devuelve el nombre visible actual. "" si el usuario no tiene perfil.
func (s *Service) DisplayName(ctx context.Context, userID string) (string, error) {
	p, err := s.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return p.DisplayName, nil
}

type UpdateInfoInput struct {
	// nil = no tocar
	DisplayName *string
	PhotoURL    *string
	Email       *string
}

// UpdateInfo actualiza primero la identidad y después el documento (upsert).
func (s *Service) UpdateInfo(ctx context.Context, userID string, in UpdateInfoInput) (Profile, error) {
	if in.DisplayName != nil && strings.TrimSpace(*in.DisplayName) == "" {
		return Profile{}, apperr.New(apperr.KindInvalidInput, "display name cannot be empty")
	}
	if in.PhotoURL != nil && strings.TrimSpace(*in.PhotoURL) != "" {
		if err := s.validate.Var(strings.TrimSpace(*in.PhotoURL), "url"); err != nil {
			return Profile{}, apperr.New(apperr.KindInvalidInput, "photo url is not a valid url")
		}
	}
	if in.Email != nil {
		if err := s.validate.Var(strings.TrimSpace(*in.Email), "required,email"); err != nil {
			return Profile{}, apperr.New(apperr.KindInvalidInput, "invalid email")
		}
	}

	if s.identity != nil && (in.DisplayName != nil || in.PhotoURL != nil) {
		if err := s.identity.UpdateIdentity(ctx, userID, in.DisplayName, in.PhotoURL); err != nil {
			return Profile{}, apperr.Normalize(err)
		}
	}

	return s.mutate(ctx, userID, func(p *Profile) {
		if in.DisplayName != nil {
			p.DisplayName = strings.TrimSpace(*in.DisplayName)
		}
		if in.PhotoURL != nil {
			p.PhotoURL = strings.TrimSpace(*in.PhotoURL)
		}
		if in.Email != nil {
			p.Email = strings.ToLower(strings.TrimSpace(*in.Email))
		}
	})
}

func (s *Service) UpdateNotifications(ctx context.Context, userID string, n Notifications) (Profile, error) {
	return s.mutate(ctx, userID, func(p *Profile) {
		p.Notifications = n
	})
}

// SetLanguage guarda la preferencia de idioma como código base ("es", "en").
func (s *Service) SetLanguage(ctx context.Context, userID, code string) (Profile, error) {
	tag, err := language.Parse(strings.TrimSpace(code))
	if err != nil {
		return Profile{}, apperr.Newf(apperr.KindInvalidInput, "invalid language code %q", code)
	}
	base, _ := tag.Base()

	return s.mutate(ctx, userID, func(p *Profile) {
		p.Language = base.String()
	})
}

// mutate carga el perfil (o los defaults si no existe), aplica fn y hace upsert.
func (s *Service) mutate(ctx context.Context, userID string, fn func(p *Profile)) (Profile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Profile{}, apperr.New(apperr.KindInvalidInput, "user id is required")
	}

	p, err := s.repo.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			return Profile{}, apperr.Normalize(err)
		}
		p = s.defaults(userID)
	}

	fn(&p)
	p.UpdatedAt = s.now()

	if err := s.repo.Upsert(ctx, p); err != nil {
		return Profile{}, apperr.Normalize(err)
	}
	return p, nil
}

func (s *Service) defaults(userID string) Profile {
	now := s.now()
	return Profile{
		UserID:        userID,
		Notifications: DefaultNotifications(),
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
