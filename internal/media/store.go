package media

import (
	"context"
	"io"
)

// Asset identifies a stored binary in the external media service.
type Asset struct {
	URL      string
	PublicID string
}

// Store is the external media service the room inventory stores images in.
// It is an interface so tests can substitute an in-memory fake.
type Store interface {
	Upload(ctx context.Context, r io.Reader, folder string) (*Asset, error)
	Delete(ctx context.Context, publicID string) error
}
