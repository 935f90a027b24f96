// Package i18n guarda el idioma activo y sus textos; la preferencia se sincroniza con el perfil del usuario.
package i18n

import (
	"context"
	"embed"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/language"

	"huellitas/internal/apperr"
	"huellitas/internal/client"
	"huellitas/internal/platform/logger"
)

const DefaultLanguage = "es"

//go:embed locales/*.toml
var locales embed.FS

var supported = []string{"es", "en"}

// Profile persiste la preferencia (lo implementa *client.Client).
type Profile interface {
	HasSession() bool
	LoadLanguage(ctx context.Context) (string, error)
	SaveLanguage(ctx context.Context, code string) error
}

type AuthNotifier interface {
	OnAuthStateChanged(fn client.AuthListener) func()
}

type Store struct {
	profile Profile
	log     logger.Logger
	tables  map[string]map[string]any

	mu    sync.RWMutex
	lang  string
	table map[string]any

	pending sync.WaitGroup
}

// New arranca en DefaultLanguage. profile puede ser nil (sin persistencia).
func New(profile Profile, log logger.Logger) (*Store, error) {
	if log == nil {
		log = logger.Nop()
	}
	tables, err := loadTables()
	if err != nil {
		return nil, err
	}
	return &Store{
		profile: profile,
		log:     log,
		tables:  tables,
		lang:    DefaultLanguage,
		table:   tables[DefaultLanguage],
	}, nil
}

func loadTables() (map[string]map[string]any, error) {
	out := make(map[string]map[string]any, len(supported))
	for _, code := range supported {
		raw, err := locales.ReadFile("locales/" + code + ".toml")
		if err != nil {
			return nil, apperr.Wrap(apperr.KindPersistence, err, "read locale "+code)
		}
		var t map[string]any
		if _, err := toml.Decode(string(raw), &t); err != nil {
			return nil, apperr.Wrap(apperr.KindPersistence, err, "decode locale "+code)
		}
		out[code] = t
	}
	return out, nil
}

func (s *Store) Language() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lang
}

// Lookup recorre la clave con puntos. false si falta algún segmento o si termina en una tabla.
func (s *Store) Lookup(key string) (string, bool) {
	s.mu.RLock()
	table := s.table
	s.mu.RUnlock()

	var cur any = table
	for _, seg := range strings.Split(key, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return "", false
		}
		if cur, ok = m[seg]; !ok {
			return "", false
		}
	}
	v, ok := cur.(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// T devuelve la clave tal cual si no hay traducción.
func (s *Store) T(key string) string {
	if v, ok := s.Lookup(key); ok {
		return v
	}
	return key
}

// ChangeLanguage aplica el idioma ya mismo. Con sesión activa lo guarda en segundo plano;
// si falla se loguea y el idioma aplicado se mantiene.
func (s *Store) ChangeLanguage(ctx context.Context, code string) error {
	lang, err := Normalize(code)
	if err != nil {
		return err
	}
	s.apply(lang)

	if s.profile == nil || !s.profile.HasSession() {
		return nil
	}

	saveCtx := context.WithoutCancel(ctx)
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.profile.SaveLanguage(saveCtx, lang); err != nil {
			s.log.Warn("save language failed", map[string]any{"language": lang, "err": err})
		}
	}()
	return nil
}

// Wait bloquea hasta que terminen los guardados en curso.
func (s *Store) Wait() {
	s.pending.Wait()
}

// LoadSaved aplica la preferencia guardada, si hay sesión y preferencia válida.
func (s *Store) LoadSaved(ctx context.Context) error {
	if s.profile == nil || !s.profile.HasSession() {
		return nil
	}
	code, err := s.profile.LoadLanguage(ctx)
	if err != nil {
		return err
	}
	if strings.TrimSpace(code) == "" {
		return nil
	}
	lang, err := Normalize(code)
	if err != nil {
		s.log.Warn("ignoring saved language", map[string]any{"language": code, "err": err})
		return nil
	}
	s.apply(lang)
	return nil
}

// Watch carga la preferencia en cada inicio de sesión. Devuelve la función para dejar de escuchar.
func (s *Store) Watch(n AuthNotifier) func() {
	return n.OnAuthStateChanged(func(ctx context.Context, u *client.User) {
		if u == nil {
			return
		}
		if err := s.LoadSaved(ctx); err != nil {
			s.log.Warn("load saved language failed", map[string]any{"user_id": u.ID, "err": err})
		}
	})
}

func (s *Store) apply(lang string) {
	s.mu.Lock()
	s.lang = lang
	s.table = s.tables[lang]
	s.mu.Unlock()
}

// Normalize reduce un código BCP 47 ("es-AR", "EN") a uno de los idiomas con tabla.
func Normalize(code string) (string, error) {
	tag, err := language.Parse(strings.TrimSpace(code))
	if err != nil {
		return "", apperr.Newf(apperr.KindInvalidInput, "invalid language code %q", code)
	}
	base, _ := tag.Base()
	for _, l := range supported {
		if base.String() == l {
			return l, nil
		}
	}
	return "", apperr.Newf(apperr.KindInvalidInput, "unsupported language %q", code)
}
