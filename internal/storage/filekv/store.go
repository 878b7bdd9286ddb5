// Package filekv stores each record as a JSON file, replaced atomically on write.
package filekv

import (
	"context"
	"os"
	"path/filepath"
	"regexp"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/capman/internal/storage"
)

const (
	defaultStateDir = "./data"
	dirPermissions  = 0o755
	filePermissions = 0o644
)

// Store file-per-key store rooted at a directory.
type Store struct {
	dir string
}

// NewStore creates the state directory if needed.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		dir = defaultStateDir
	}
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return nil, errors.Wrap(err, "create state dir")
	}
	return &Store{dir: dir}, nil
}

// Get reads the file backing key.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, storage.ErrNotFound
		}
		return nil, errors.Wrapf(err, "read %s", path)
	}

	return payload, nil
}

// Put writes value via temp file and rename so readers never see a partial record.
func (s *Store) Put(_ context.Context, key string, value []byte) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, filePermissions)
	if err != nil {
		return errors.Wrap(err, "open temp file")
	}
	if _, err := f.Write(value); err != nil {
		f.Close()
		return errors.Wrap(err, "write temp file")
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return errors.Wrap(err, "sync temp file")
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "close temp file")
	}

	if err := os.Rename(tmp, path); err != nil {
		return errors.Wrap(err, "persist record")
	}

	return nil
}

// Delete removes the file backing key.
func (s *Store) Delete(_ context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Wrapf(err, "remove %s", path)
	}
	return nil
}

// Close is a no-op; files are closed after every write.
func (s *Store) Close() error {
	return nil
}

var validKey = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// path maps key to its file; keys are plain names so they cannot leave the directory.
func (s *Store) path(key string) (string, error) {
	if !validKey.MatchString(key) {
		return "", errors.Errorf("invalid key %q", key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}
