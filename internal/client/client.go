// Package client es el SDK HTTP del API: identidad, perfil, mascotas y memoriales.
// Los errores vuelven clasificados con los mismos kinds de apperr que usa el servidor.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"huellitas/internal/apperr"
	"huellitas/internal/platform/httpclient"
)

const dateLayout = "2006-01-02"

// AuthListener recibe el usuario actual (nil al cerrar sesión).
type AuthListener func(ctx context.Context, u *User)

type Client struct {
	http *httpclient.Client

	mu        sync.RWMutex
	token     string
	user      *User
	listeners map[int]AuthListener
	nextID    int
}

func New(baseURL string, timeout time.Duration) (*Client, error) {
	hc, err := httpclient.NewWithBaseURL(baseURL, timeout)
	if err != nil {
		return nil, err
	}
	if hc.BaseURL == "" {
		return nil, apperr.New(apperr.KindInvalidInput, "base url is required")
	}
	return &Client{http: hc, listeners: make(map[int]AuthListener)}, nil
}

// OnAuthStateChanged registra fn para cada cambio de identidad. Devuelve la función para desuscribirse.
func (c *Client) OnAuthStateChanged(fn AuthListener) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

func (c *Client) CurrentUser() *User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil {
		return nil
	}
	u := *c.user
	return &u
}

func (c *Client) HasSession() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token != ""
}

func (c *Client) Register(ctx context.Context, email, password, displayName string) (User, error) {
	var out sessionDTO
	err := c.call(ctx, http.MethodPost, "/auth/register", map[string]string{
		"email":        email,
		"password":     password,
		"display_name": displayName,
	}, &out)
	if err != nil {
		return User{}, err
	}
	return c.startSession(ctx, out), nil
}

func (c *Client) Login(ctx context.Context, email, password string) (User, error) {
	var out sessionDTO
	err := c.call(ctx, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return User{}, err
	}
	return c.startSession(ctx, out), nil
}

// Logout es idempotente: sin sesión no llama al API pero igual notifica.
func (c *Client) Logout(ctx context.Context) error {
	var err error
	if c.HasSession() {
		err = c.call(ctx, http.MethodPost, "/auth/logout", nil, nil)
	}

	c.mu.Lock()
	c.token = ""
	c.user = nil
	c.mu.Unlock()

	c.notify(ctx, nil)
	return err
}

func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	return c.call(ctx, http.MethodPost, "/auth/password", map[string]string{
		"current_password": current,
		"new_password":     next,
	}, nil)
}

func (c *Client) GetProfile(ctx context.Context) (Profile, error) {
	var out Profile
	err := c.call(ctx, http.MethodGet, "/me/profile", nil, &out)
	return out, err
}

func (c *Client) UpdateNotifications(ctx context.Context, n Notifications) (Profile, error) {
	var out Profile
	err := c.call(ctx, http.MethodPut, "/me/notifications", n, &out)
	return out, err
}

// LoadLanguage devuelve el idioma guardado en el perfil ("" si no hay perfil o preferencia).
func (c *Client) LoadLanguage(ctx context.Context) (string, error) {
	p, err := c.GetProfile(ctx)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return p.Language, nil
}

func (c *Client) SaveLanguage(ctx context.Context, code string) error {
	return c.call(ctx, http.MethodPut, "/me/language", map[string]string{"language": code}, nil)
}

func (c *Client) CreatePet(ctx context.Context, in PetInput) (Pet, error) {
	body := map[string]string{
		"name":    in.Name,
		"species": in.Species,
		"breed":   in.Breed,
		"sex":     in.Sex,
		"notes":   in.Notes,
	}
	if in.BirthDate != nil {
		body["birth_date"] = in.BirthDate.Format(dateLayout)
	}

	var out Pet
	err := c.call(ctx, http.MethodPost, "/pets", body, &out)
	return out, err
}

// ListPets acepta "active", "archived" o "all".
func (c *Client) ListPets(ctx context.Context, status string) ([]Pet, error) {
	var out []Pet
	err := c.call(ctx, http.MethodGet, "/pets?status="+url.QueryEscape(status), nil, &out)
	return out, err
}

func (c *Client) ArchivePet(ctx context.Context, petID string) (Pet, error) {
	var out Pet
	err := c.call(ctx, http.MethodPost, "/pets/"+url.PathEscape(petID)+"/archive", nil, &out)
	return out, err
}

func (c *Client) RestorePet(ctx context.Context, petID string) (Pet, error) {
	var out Pet
	err := c.call(ctx, http.MethodPost, "/pets/"+url.PathEscape(petID)+"/restore", nil, &out)
	return out, err
}

func (c *Client) UploadPetImage(ctx context.Context, petID, fileName, contentType string, content io.Reader) (Pet, error) {
	var out Pet
	err := c.multipart(ctx, "/pets/"+url.PathEscape(petID)+"/image", nil, httpclient.FilePart{
		Field:       "image",
		FileName:    fileName,
		ContentType: contentType,
		Content:     content,
	}, &out)
	return out, err
}

func (c *Client) DeletePetImage(ctx context.Context, petID string) (Pet, error) {
	var out Pet
	err := c.call(ctx, http.MethodDelete, "/pets/"+url.PathEscape(petID)+"/image", nil, &out)
	return out, err
}

func (c *Client) SharePost(ctx context.Context, petID, message string, isPublic bool) (Post, error) {
	var out Post
	err := c.call(ctx, http.MethodPost, "/memorials", map[string]any{
		"pet_id":    petID,
		"message":   message,
		"is_public": isPublic,
	}, &out)
	return out, err
}

func (c *Client) CommunityPosts(ctx context.Context, limit int) ([]Post, error) {
	var out []Post
	err := c.call(ctx, http.MethodGet, fmt.Sprintf("/memorials?limit=%d", limit), nil, &out)
	return out, err
}

func (c *Client) MyPosts(ctx context.Context) ([]Post, error) {
	var out []Post
	err := c.call(ctx, http.MethodGet, "/me/memorials", nil, &out)
	return out, err
}

func (c *Client) LikePost(ctx context.Context, postID string) (Post, bool, error) {
	var out struct {
		Liked bool `json:"liked"`
		Post  Post `json:"post"`
	}
	err := c.call(ctx, http.MethodPost, "/memorials/"+url.PathEscape(postID)+"/like", nil, &out)
	return out.Post, out.Liked, err
}

func (c *Client) AddComment(ctx context.Context, postID, text string) (Comment, error) {
	var out Comment
	err := c.call(ctx, http.MethodPost, "/memorials/"+url.PathEscape(postID)+"/comments", map[string]string{"text": text}, &out)
	return out, err
}

func (c *Client) DeletePost(ctx context.Context, postID string) error {
	return c.call(ctx, http.MethodDelete, "/memorials/"+url.PathEscape(postID), nil, nil)
}

func (c *Client) startSession(ctx context.Context, s sessionDTO) User {
	u := s.Account
	c.mu.Lock()
	c.token = s.Token
	c.user = &u
	c.mu.Unlock()

	c.notify(ctx, &u)
	return u
}

// notify llama a los listeners fuera del lock, en el goroutine del que cambió la sesión.
func (c *Client) notify(ctx context.Context, u *User) {
	c.mu.RLock()
	fns := make([]AuthListener, 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.RUnlock()

	for _, fn := range fns {
		if u == nil {
			fn(ctx, nil)
			continue
		}
		cp := *u
		fn(ctx, &cp)
	}
}

func (c *Client) authHeaders() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.token == "" {
		return nil
	}
	return map[string]string{"Authorization": "Bearer " + c.token}
}

func (c *Client) call(ctx context.Context, method, path string, in, out any) error {
	return classify(c.http.DoJSON(ctx, method, path, c.authHeaders(), in, out))
}

func (c *Client) multipart(ctx context.Context, path string, fields map[string]string, file httpclient.FilePart, out any) error {
	return classify(c.http.DoMultipart(ctx, path, c.authHeaders(), fields, file, out))
}

// classify traduce la respuesta de error del API a apperr; fallas de red quedan como PersistenceError.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var he *httpclient.HTTPError
	if errors.As(err, &he) {
		var body struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		_ = json.Unmarshal([]byte(he.Body), &body)
		msg := body.Message
		if msg == "" && !strings.HasPrefix(he.Body, "{") {
			msg = he.Body
		}
		return apperr.FromHTTP(he.StatusCode, body.Error, msg)
	}
	return apperr.Wrap(apperr.KindPersistence, err, "request failed")
}
