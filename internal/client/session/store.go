// Package session mantiene la identidad actual, su perfil y las mascotas activas en sincronía con el API.
package session

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"

	"huellitas/internal/apperr"
	"huellitas/internal/client"
	"huellitas/internal/platform/logger"
)

// Backend es la parte del SDK que usa el store (la implementa *client.Client).
type Backend interface {
	OnAuthStateChanged(fn client.AuthListener) func()
	Register(ctx context.Context, email, password, displayName string) (client.User, error)
	Login(ctx context.Context, email, password string) (client.User, error)
	Logout(ctx context.Context) error
	GetProfile(ctx context.Context) (client.Profile, error)
	CreatePet(ctx context.Context, in client.PetInput) (client.Pet, error)
	ListPets(ctx context.Context, status string) ([]client.Pet, error)
}

// State es una foto inmutable para los lectores.
type State struct {
	User    *client.User
	Profile *client.Profile
	Pets    []client.Pet
}

func (s State) SignedIn() bool { return s.User != nil }

type Store struct {
	backend Backend
	log     logger.Logger

	mu     sync.Mutex
	state  State
	subs   map[int]func(State)
	nextID int

	unsubscribeAuth func()
}

// New se suscribe una sola vez a los cambios de identidad del backend.
func New(backend Backend, log logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	s := &Store{
		backend: backend,
		log:     log,
		subs:    make(map[int]func(State)),
	}
	s.unsubscribeAuth = backend.OnAuthStateChanged(s.onAuthChanged)
	return s
}

func (s *Store) Close() {
	if s.unsubscribeAuth != nil {
		s.unsubscribeAuth()
		s.unsubscribeAuth = nil
	}
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe recibe el estado en cada cambio. Devuelve la función para desuscribirse.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Register crea la cuenta; el refresh de perfil y mascotas lo dispara la notificación de identidad.
func (s *Store) Register(ctx context.Context, email, password, displayName string) (client.User, error) {
	return s.backend.Register(ctx, email, password, displayName)
}

func (s *Store) Login(ctx context.Context, email, password string) (client.User, error) {
	return s.backend.Login(ctx, email, password)
}

func (s *Store) Logout(ctx context.Context) error {
	return s.backend.Logout(ctx)
}

func (s *Store) AddPet(ctx context.Context, in client.PetInput) (client.Pet, error) {
	if !s.State().SignedIn() {
		return client.Pet{}, apperr.New(apperr.KindNotAuthenticated, "login required")
	}
	p, err := s.backend.CreatePet(ctx, in)
	if err != nil {
		return client.Pet{}, err
	}
	if err := s.RefreshPets(ctx); err != nil {
		return p, err
	}
	return p, nil
}

// RefreshPets reemplaza la lista cacheada por las mascotas activas (flag ausente cuenta como activa).
func (s *Store) RefreshPets(ctx context.Context) error {
	if !s.State().SignedIn() {
		return apperr.New(apperr.KindNotAuthenticated, "login required")
	}
	pets, err := s.fetchActivePets(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.state.Pets = pets
	s.mu.Unlock()

	s.publish()
	return nil
}

func (s *Store) onAuthChanged(ctx context.Context, u *client.User) {
	if u == nil {
		s.mu.Lock()
		s.state = State{}
		s.mu.Unlock()
		s.publish()
		return
	}

	s.mu.Lock()
	s.state = State{User: u}
	s.mu.Unlock()

	var (
		profile *client.Profile
		pets    []client.Pet
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.backend.GetProfile(gctx)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				return nil
			}
			return err
		}
		profile = &p
		return nil
	})
	g.Go(func() error {
		var err error
		pets, err = s.fetchActivePets(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Warn("session refresh failed", map[string]any{"user_id": u.ID, "err": err})
	}

	s.mu.Lock()
	// otro cambio de identidad pudo llegar mientras se refrescaba
	if s.state.User != nil && s.state.User.ID == u.ID {
		s.state.Profile = profile
		s.state.Pets = pets
	}
	s.mu.Unlock()

	s.publish()
}

func (s *Store) fetchActivePets(ctx context.Context) ([]client.Pet, error) {
	items, err := s.backend.ListPets(ctx, "active")
	if err != nil {
		return nil, err
	}
	out := make([]client.Pet, 0, len(items))
	for _, p := range items {
		if p.IsActive() {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Store) publish() {
	s.mu.Lock()
	st := s.snapshotLocked()
	fns := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}

func (s *Store) snapshotLocked() State {
	st := State{Pets: append([]client.Pet(nil), s.state.Pets...)}
	if s.state.User != nil {
		u := *s.state.User
		st.User = &u
	}
	if s.state.Profile != nil {
		p := *s.state.Profile
		st.Profile = &p
	}
	return st
}
