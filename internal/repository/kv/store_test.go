package kv

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// storeFactories builds every Store implementation against fresh storage.
func storeFactories(t *testing.T) map[string]func() Store {
	t.Helper()

	return map[string]func() Store{
		"memory": func() Store { return NewMemoryStore() },
		"file": func() Store {
			return NewFileStore(afero.NewMemMapFs(), "/var/lib/alarm-clock")
		},
		"sqlite": func() Store {
			s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "alarms.db"))
			require.NoError(t, err)

			return s
		},
	}
}

// TestStores_GetSet exercises the shared contract of all Store implementations.
func TestStores_GetSet(t *testing.T) {
	t.Parallel()

	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			store := factory()

			defer func() {
				require.NoError(t, store.Close())
			}()

			// Missing key.
			_, err := store.Get(ctx, "alarms")
			require.ErrorIs(t, err, ErrNotFound)

			// Write and read back.
			require.NoError(t, store.Set(ctx, "alarms", []byte(`{"version":1}`)))

			got, err := store.Get(ctx, "alarms")
			require.NoError(t, err)
			require.JSONEq(t, `{"version":1}`, string(got))

			// Overwrite.
			require.NoError(t, store.Set(ctx, "alarms", []byte(`{"version":2}`)))

			got, err = store.Get(ctx, "alarms")
			require.NoError(t, err)
			require.JSONEq(t, `{"version":2}`, string(got))

			// Keys are independent.
			_, err = store.Get(ctx, "other")
			require.ErrorIs(t, err, ErrNotFound)

			// Unsafe keys are rejected.
			require.ErrorIs(t, store.Set(ctx, "../escape", nil), ErrInvalidKey)

			_, err = store.Get(ctx, "")
			require.ErrorIs(t, err, ErrInvalidKey)
		})
	}
}

// TestMemoryStore_CopiesValues ensures callers cannot mutate stored bytes.
func TestMemoryStore_CopiesValues(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()
	value := []byte("abc")

	require.NoError(t, store.Set(ctx, "alarms", value))

	value[0] = 'x'

	got, err := store.Get(ctx, "alarms")
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), got)
}

// TestFileStore_Layout checks the on-disk file name and that no temp file remains.
func TestFileStore_Layout(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	store := NewFileStore(fs, "/data")

	require.NoError(t, store.Set(context.Background(), "alarms", []byte("[]")))

	exists, err := afero.Exists(fs, "/data/alarms.json")
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = afero.Exists(fs, "/data/alarms.json.tmp")
	require.NoError(t, err)
	require.False(t, exists)
}

// TestFileStore_ReadOnly verifies write failures are reported.
func TestFileStore_ReadOnly(t *testing.T) {
	t.Parallel()

	store := NewFileStore(afero.NewReadOnlyFs(afero.NewMemMapFs()), "/data")

	require.Error(t, store.Set(context.Background(), "alarms", []byte("[]")))
}

// TestSQLiteStore_Reopen ensures values survive closing and reopening the database.
func TestSQLiteStore_Reopen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "alarms.db")

	store, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "alarms", []byte("persisted")))
	require.NoError(t, store.Close())

	store, err = OpenSQLite(ctx, path)
	require.NoError(t, err)

	defer func() {
		_ = store.Close()
	}()

	got, err := store.Get(ctx, "alarms")
	require.NoError(t, err)
	require.Equal(t, []byte("persisted"), got)
}
