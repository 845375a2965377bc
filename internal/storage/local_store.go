package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalStore writes files under Root and serves them below Prefix.
type LocalStore struct {
	root   string
	prefix string
}

func NewLocalStore(root, prefix string) *LocalStore {
	prefix = "/" + strings.Trim(prefix, "/")
	return &LocalStore{root: root, prefix: prefix}
}

func (s *LocalStore) Root() string {
	return s.root
}

func (s *LocalStore) Prefix() string {
	return s.prefix
}

func (s *LocalStore) EnsureFolders() error {
	for _, folder := range []string{FolderAvatars, FolderComplaints} {
		if err := os.MkdirAll(filepath.Join(s.root, folder), 0o755); err != nil {
			return fmt.Errorf("create folder %s: %w", folder, err)
		}
	}
	return nil
}

func (s *LocalStore) Save(ctx context.Context, obj Object) (string, error) {
	if strings.ContainsAny(obj.Folder+obj.Name, `/\`) || strings.Contains(obj.Name, "..") {
		return "", fmt.Errorf("invalid object name %q", obj.Name)
	}

	dir := filepath.Join(s.root, obj.Folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create folder: %w", err)
	}

	target := filepath.Join(dir, obj.Name)
	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}

	if _, err := io.Copy(f, obj.Body); err != nil {
		f.Close()
		_ = os.Remove(target)
		return "", fmt.Errorf("write file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(target)
		return "", fmt.Errorf("close file: %w", err)
	}

	return path.Join(s.prefix, objectKey(obj.Folder, obj.Name)), nil
}

// Delete removes the file behind url. A file that is already gone is not
// an error.
func (s *LocalStore) Delete(ctx context.Context, url string) error {
	rel, ok := strings.CutPrefix(url, s.prefix+"/")
	if !ok || rel == "" {
		return ErrForeignURL
	}
	clean := path.Clean(rel)
	if strings.HasPrefix(clean, "..") || path.IsAbs(clean) {
		return ErrForeignURL
	}

	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(clean)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}
