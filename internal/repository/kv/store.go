package kv

import (
	"context"
	"errors"
	"fmt"
)

// Store is a durable key-value store holding opaque values.
type Store interface {
	// Get returns the value stored under key or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set replaces the value stored under key.
	Set(ctx context.Context, key string, value []byte) error
	// Close releases resources held by the store.
	Close() error
}

var (
	// ErrNotFound is returned when no value is stored under the key.
	ErrNotFound = errors.New("key not found")
	// ErrInvalidKey is returned for empty keys or keys unsafe as file names.
	ErrInvalidKey = errors.New("invalid key")
)

// validateKey accepts keys made of ASCII letters, digits, '-', '_' and '.'
// that do not start with a dot.
func validateKey(key string) error {
	if key == "" || key[0] == '.' {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.':
		default:
			return fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
	}

	return nil
}
