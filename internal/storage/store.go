// Package storage persists uploaded files and maps them to public URLs.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Alikh-collab/TAZA-back/internal/config"
)

const (
	FolderAvatars    = "avatars"
	FolderComplaints = "complaints"
)

// ErrForeignURL is returned by Delete for URLs the store did not issue.
var ErrForeignURL = errors.New("storage: url not owned by this store")

type Object struct {
	Folder      string
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// FileStore saves objects and returns the URL clients fetch them from.
type FileStore interface {
	Save(ctx context.Context, obj Object) (string, error)
	Delete(ctx context.Context, url string) error
}

// New builds the store selected by cfg.Driver and prepares its folders or
// bucket.
func New(ctx context.Context, cfg config.StorageConfig) (FileStore, error) {
	switch cfg.Driver {
	case config.StorageDriverMinio:
		store, err := NewObjectStore(cfg)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return store, nil
	case config.StorageDriverLocal, "":
		store := NewLocalStore(cfg.LocalRoot, cfg.PublicPrefix)
		if err := store.EnsureFolders(); err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func objectKey(folder, name string) string {
	return folder + "/" + name
}
