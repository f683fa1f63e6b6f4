// ABOUTME: Filesystem store, the directory-as-database layout
// ABOUTME: Writes go to a temp file in the same directory and are renamed into place
package store

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/oklog/ulid/v2"
)

const (
	dirPerm  = 0755
	filePerm = 0644
)

// FileStore keeps every path as a file below base.
type FileStore struct {
	base string
}

// NewFileStore resolves paths against base; an empty base means the working
// directory.
func NewFileStore(base string) *FileStore {
	return &FileStore{base: base}
}

func (s *FileStore) resolve(p string) string {
	p = filepath.FromSlash(clean(p))
	if filepath.IsAbs(p) || s.base == "" {
		return p
	}
	return filepath.Join(s.base, p)
}

// Read returns the file contents.
func (s *FileStore) Read(ctx context.Context, p string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.resolve(p))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotExist
	}
	return data, err
}

// Write replaces the file atomically: a crash leaves either the old or the
// new contents, never a partial file.
func (s *FileStore) Write(ctx context.Context, p string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target := s.resolve(p)
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return err
	}

	tmp := filepath.Join(dir, "."+filepath.Base(target)+"."+ulid.Make().String()+".tmp")
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
	if err != nil {
		return err
	}

	_, err = f.Write(data)
	if err == nil {
		err = f.Sync()
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Rename(tmp, target)
	}
	if err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// Exists reports whether a file or directory is present.
func (s *FileStore) Exists(ctx context.Context, p string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, err := os.Stat(s.resolve(p))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

// List returns regular, non-hidden files in dir in lexical order.
func (s *FileStore) List(ctx context.Context, dir string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.resolve(dir))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotExist
	}
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// EnsureDir creates dir and its parents.
func (s *FileStore) EnsureDir(ctx context.Context, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.MkdirAll(s.resolve(dir), dirPerm)
}

// Close is a no-op.
func (s *FileStore) Close() error {
	return nil
}
