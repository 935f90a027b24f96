package images

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"sync"
	"time"

	"huellitas/internal/apperr"
	"huellitas/internal/ports/storage"
)

const DefaultFolder = "pets"

var folderPattern = regexp.MustCompile(`^[a-z0-9_\-]+(/[a-z0-9_\-]+)*$`)

// Image es el resultado de una subida genérica (sin ficha asociada).
type Image struct {
	URL          string
	PublicID     string
	Width        int
	Height       int
	ThumbnailURL string
}

// thumbnailer lo implementan los hosts que saben generar variantes por URL.
type thumbnailer interface {
	ThumbnailURL(url string) string
}

type Service struct {
	host storage.ObjectStore
	now  func() time.Time

	mu         sync.Mutex
	lastSuffix int64
}

func NewService(host storage.ObjectStore) *Service {
	return &Service{host: host, now: time.Now}
}

// Upload guarda la imagen en {folder}/pet_{millis}{ext}.
func (s *Service) Upload(ctx context.Context, folder string, content io.Reader, contentType string) (Image, error) {
	if s.host == nil {
		return Image{}, apperr.New(apperr.KindUploadFailure, "image host not configured")
	}
	folder = strings.ToLower(strings.Trim(strings.TrimSpace(folder), "/"))
	if folder == "" {
		folder = DefaultFolder
	}
	if !folderPattern.MatchString(folder) {
		return Image{}, apperr.New(apperr.KindInvalidInput, "invalid folder")
	}

	key := fmt.Sprintf("%s/pet_%d%s", folder, s.nextSuffix(), extension(contentType))
	obj, err := s.host.Upload(ctx, key, content, contentType)
	if err != nil {
		return Image{}, apperr.Wrap(apperr.KindUploadFailure, err, "upload image")
	}

	img := Image{
		URL:          obj.URL,
		PublicID:     obj.Key,
		Width:        obj.Width,
		Height:       obj.Height,
		ThumbnailURL: obj.URL,
	}
	if t, ok := s.host.(thumbnailer); ok {
		img.ThumbnailURL = t.ThumbnailURL(obj.URL)
	}
	return img, nil
}

// nextSuffix es estrictamente creciente aunque dos subidas caigan en el mismo milisegundo.
func (s *Service) nextSuffix() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.now().UnixMilli()
	if n <= s.lastSuffix {
		n = s.lastSuffix + 1
	}
	s.lastSuffix = n
	return n
}

func extension(contentType string) string {
	switch strings.ToLower(contentType) {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
