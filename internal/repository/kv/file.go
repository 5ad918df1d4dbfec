package kv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"

	"github.com/oshokin/alarm-clock/internal/config"
)

// fileExtension is appended to the key to build the file name.
const fileExtension = ".json"

// FileStore persists each key as a separate file inside a directory.
// Writes go to a temporary file first and are renamed into place so a
// crash never leaves a half-written value behind.
type FileStore struct {
	// fs is the filesystem the files live on.
	fs afero.Fs
	// dir is the directory holding one file per key.
	dir string
	// mu serializes access to the files.
	mu sync.Mutex
}

// NewFileStore creates a store keeping its files in dir on fs.
// The directory is created on the first write.
func NewFileStore(fs afero.Fs, dir string) *FileStore {
	return &FileStore{
		fs:  fs,
		dir: filepath.Clean(dir),
	}
}

// NewOSFileStore creates a FileStore on the operating system filesystem.
func NewOSFileStore(dir string) *FileStore {
	return NewFileStore(afero.NewOsFs(), dir)
}

// Get reads the file stored for key.
func (s *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	contents, err := afero.ReadFile(s.fs, s.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read %s: %w", key, err)
	}

	return contents, nil
}

// Set atomically replaces the file stored for key.
func (s *FileStore) Set(_ context.Context, key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fs.MkdirAll(s.dir, config.DefaultDirPermissions); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}

	var (
		target    = s.path(key)
		temporary = target + ".tmp"
	)

	if err := afero.WriteFile(s.fs, temporary, value, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}

	if err := s.fs.Rename(temporary, target); err != nil {
		_ = s.fs.Remove(temporary)

		return fmt.Errorf("replace %s: %w", key, err)
	}

	return nil
}

// Close is a no-op; files are not held open between calls.
func (s *FileStore) Close() error {
	return nil
}

// path returns the file location for key.
func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+fileExtension)
}
