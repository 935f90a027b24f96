// Package bucket guarda imágenes en un bucket de gocloud (mem://, file://, gs://, s3://).
package bucket

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"strings"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
	"gocloud.dev/gcerrors"

	"huellitas/internal/apperr"
	"huellitas/internal/ports/storage"
)

// DefaultPublicPath es donde el router sirve los objetos cuando no hay CDN delante.
const DefaultPublicPath = "/files"

type Store struct {
	b          *blob.Bucket
	publicBase string
}

// Open abre el bucket por URL. publicBase vacío => las URLs apuntan a DefaultPublicPath.
func Open(ctx context.Context, bucketURL, publicBase string) (*Store, error) {
	b, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, fmt.Errorf("open bucket %q: %w", bucketURL, err)
	}
	return New(b, publicBase), nil
}

func New(b *blob.Bucket, publicBase string) *Store {
	publicBase = strings.TrimRight(strings.TrimSpace(publicBase), "/")
	if publicBase == "" {
		publicBase = DefaultPublicPath
	}
	return &Store{b: b, publicBase: publicBase}
}

func (s *Store) Upload(ctx context.Context, key string, r io.Reader, contentType string) (storage.Object, error) {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if key == "" {
		return storage.Object{}, apperr.New(apperr.KindInvalidInput, "object key required")
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return storage.Object{}, apperr.Wrap(apperr.KindUploadFailure, err, "read upload")
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	if err := s.b.WriteAll(ctx, key, data, &blob.WriterOptions{ContentType: contentType}); err != nil {
		return storage.Object{}, apperr.Wrap(apperr.KindUploadFailure, err, "write object")
	}

	obj := storage.Object{URL: s.publicBase + "/" + key, Key: key}
	// dimensiones best-effort; formatos no registrados quedan en 0
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		obj.Width, obj.Height = cfg.Width, cfg.Height
	}
	return obj, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	err := s.b.Delete(ctx, strings.TrimLeft(key, "/"))
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return apperr.New(apperr.KindNotFound, "object not found")
		}
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

// Open devuelve el contenido de key y su content type.
func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	rd, err := s.b.NewReader(ctx, strings.TrimLeft(key, "/"), nil)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, "", apperr.New(apperr.KindNotFound, "object not found")
		}
		return nil, "", fmt.Errorf("open object: %w", err)
	}
	return rd, rd.ContentType(), nil
}

func (s *Store) Close() error {
	return s.b.Close()
}
