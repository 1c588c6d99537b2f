package storage

import (
	"context"
	"fmt"

	sc "github.com/dmitrijs2005/staffkeeper/internal/server/config"
)

// New builds the backend selected by cfg.StorageBackend.
func New(ctx context.Context, cfg *sc.Config) (FileStorage, error) {
	switch cfg.StorageBackend {
	case sc.StorageLocal, "":
		return NewLocalStorage(cfg.UploadDir)
	case sc.StorageS3:
		return NewS3Storage(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
