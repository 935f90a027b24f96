package storage

import (
	"context"
	"io"
)

// Object es el resultado de una subida: URL pública resoluble y la key/public id del proveedor.
// Width/Height solo los informa el image host (0 si no aplica).
type Object struct {
	URL    string
	Key    string
	Width  int
	Height int
}

// ObjectStore abstrae el almacenamiento binario (bucket propio o image host).
type ObjectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (Object, error)
	Delete(ctx context.Context, key string) error
}
