// Package cloudinary sube imágenes al image host con un preset unsigned.
package cloudinary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"huellitas/internal/apperr"
	"huellitas/internal/platform/httpclient"
	"huellitas/internal/ports/storage"
)

const apiBase = "https://api.cloudinary.com/v1_1"

type Config struct {
	CloudName    string
	UploadPreset string
	// Folder raíz; la carpeta de la key se agrega debajo.
	Folder string
	// APIBase permite apuntar a un servidor de pruebas.
	APIBase string
	Timeout time.Duration
}

type Client struct {
	cfg  Config
	http *httpclient.Client
	now  func() time.Time
}

func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.CloudName) == "" || strings.TrimSpace(cfg.UploadPreset) == "" {
		return nil, errors.New("cloudinary: cloud name and upload preset are required")
	}
	if cfg.APIBase == "" {
		cfg.APIBase = apiBase
	}
	cfg.APIBase = strings.TrimRight(cfg.APIBase, "/")
	return &Client{
		cfg:  cfg,
		http: httpclient.New(cfg.Timeout),
		now:  time.Now,
	}, nil
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
	Format    string `json:"format"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// Upload usa el directorio de key como carpeta y el nombre (sin extensión) como public id.
func (c *Client) Upload(ctx context.Context, key string, r io.Reader, contentType string) (storage.Object, error) {
	key = strings.Trim(strings.TrimSpace(key), "/")
	if key == "" {
		return storage.Object{}, apperr.New(apperr.KindInvalidInput, "object key required")
	}
	if contentType == "" {
		contentType = "image/jpeg"
	}

	dir, file := path.Split(key)
	folder := strings.Trim(path.Join(c.cfg.Folder, dir), "/")
	publicID := strings.TrimSuffix(file, path.Ext(file))

	fields := map[string]string{
		"upload_preset": c.cfg.UploadPreset,
		"public_id":     publicID,
		"timestamp":     fmt.Sprintf("%d", c.now().Unix()),
	}
	if folder != "" {
		fields["folder"] = folder
	}

	var out uploadResponse
	err := c.http.DoMultipart(ctx, c.uploadURL(), nil, fields, httpclient.FilePart{
		Field:       "file",
		FileName:    file,
		ContentType: contentType,
		Content:     r,
	}, &out)
	if err != nil {
		return storage.Object{}, apperr.Wrap(apperr.KindUploadFailure, err, "image host upload")
	}
	if out.SecureURL == "" {
		return storage.Object{}, apperr.New(apperr.KindUploadFailure, "image host returned no url")
	}

	return storage.Object{
		URL:    out.SecureURL,
		Key:    out.PublicID,
		Width:  out.Width,
		Height: out.Height,
	}, nil
}

// Delete no está disponible con preset unsigned: requiere firma del API.
func (c *Client) Delete(ctx context.Context, key string) error {
	return apperr.New(apperr.KindPermissionDenied, "unsigned image host does not support deletion")
}

func (c *Client) uploadURL() string {
	return fmt.Sprintf("%s/%s/image/upload", c.cfg.APIBase, c.cfg.CloudName)
}

// OptimizedURL inserta una transformación de tamaño en URLs del image host; otras URLs no cambian.
func OptimizedURL(url string, width, height int) string {
	if url == "" || !strings.Contains(url, "cloudinary.com") {
		return url
	}
	return strings.Replace(url, "/upload/", fmt.Sprintf("/upload/w_%d,h_%d,c_fill,q_auto/", width, height), 1)
}

func ThumbnailURL(url string) string {
	return OptimizedURL(url, 200, 200)
}

func (c *Client) ThumbnailURL(url string) string {
	return ThumbnailURL(url)
}
