package draft

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileBackend stores each key as <dir>/<key>.json.
type FileBackend struct {
	dir  string
	perm os.FileMode
}

// NewFileBackend returns a backend rooted at dir. The directory is created on
// first write.
func NewFileBackend(dir string) *FileBackend {
	return &FileBackend{dir: dir, perm: 0o600}
}

// Dir returns the directory drafts are written to.
func (b *FileBackend) Dir() string {
	return b.dir
}

func (b *FileBackend) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := b.path(key)
	if err != nil {
		return nil, err
	}
	payload, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoDraft
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func (b *FileBackend) Put(ctx context.Context, key string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := b.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return err
	}
	return writeFileAtomic(path, payload, b.perm)
}

func (b *FileBackend) path(key string) (string, error) {
	if b.dir == "" {
		return "", errors.New("draft: file backend directory is empty")
	}
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("draft: invalid key %q", key)
	}
	return filepath.Join(b.dir, key+".json"), nil
}

// writeFileAtomic replaces path with data through a synced temp file in the
// same directory, so readers see the old draft or the new one.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(filepath.Dir(path), ".draft-*")
	if err != nil {
		return err
	}
	tmpPath := f.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Chmod(perm); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}
