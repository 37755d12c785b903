package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/pageza/recipebox/backend/config"
)

// ErrInvalidKey is returned for keys that would resolve outside the store
var ErrInvalidKey = errors.New("invalid storage key")

// ImageStore persists uploaded images under keys produced by ImagePath.
// Save must never leave a partially written object visible under key.
type ImageStore interface {
	Save(ctx context.Context, key string, data []byte, contentType string) error
	// Delete removes key. A missing object is not an error.
	Delete(ctx context.Context, key string) error
	// URL is the public address of key
	URL(key string) string
}

// New builds the store selected by cfg.Backend
func New(ctx context.Context, cfg config.StorageConfig) (ImageStore, error) {
	switch cfg.Backend {
	case "", "local":
		return NewLocalStore(cfg.Root, cfg.MediaURL)
	case "s3":
		s3cfg, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to configure S3: %w", err)
		}
		return NewS3StoreFromConfig(s3cfg), nil
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.Backend)
	}
}
