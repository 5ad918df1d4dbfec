package server

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	ps "github.com/mitchellh/go-ps"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/alarm-clock/internal/config"
	"github.com/oshokin/alarm-clock/internal/notify"
	"github.com/oshokin/alarm-clock/internal/repository/kv"
)

// TestResolveListenAddress covers override, configured address and errors.
func TestResolveListenAddress(t *testing.T) {
	t.Parallel()

	addr, err := resolveListenAddress("127.0.0.1:50551", "")
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:50551", addr)

	addr, err = resolveListenAddress("127.0.0.1:50551", "127.0.0.1:9090")
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9090", addr)

	_, err = resolveListenAddress("", "")
	require.ErrorIs(t, err, ErrNoServerAddress)

	_, err = resolveListenAddress("no-port", "")
	require.Error(t, err)
}

// TestLoadSettings_Overrides checks that storage flags replace configured values.
func TestLoadSettings_Overrides(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  driver: file\n  path: /var/lib/alarms\n"), 0o600))

	settings, err := loadSettings(&Options{ConfigPath: path})
	require.NoError(t, err)
	require.Equal(t, config.DriverFile, settings.Storage.Driver)
	require.Equal(t, "/var/lib/alarms", settings.Storage.Path)

	// Switching driver drops the file path in favour of the driver default.
	settings, err = loadSettings(&Options{ConfigPath: path, StorageDriver: config.DriverSQLite})
	require.NoError(t, err)
	require.Equal(t, config.DriverSQLite, settings.Storage.Driver)
	require.Equal(t, config.DefaultSQLitePath, settings.Storage.Path)

	settings, err = loadSettings(&Options{ConfigPath: path, StoragePath: "/tmp/alarms"})
	require.NoError(t, err)
	require.Equal(t, "/tmp/alarms", settings.Storage.Path)

	_, err = loadSettings(&Options{ConfigPath: path, StorageDriver: "redis"})
	require.Error(t, err)

	_, err = loadSettings(&Options{ConfigPath: filepath.Join(t.TempDir(), "missing.yaml")})
	require.Error(t, err)
}

// TestOpenStore opens every driver and stores a value through it.
func TestOpenStore(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	tests := []struct {
		name    string
		storage config.Storage
	}{
		{name: "file", storage: config.Storage{Driver: config.DriverFile, Path: filepath.Join(dir, "data")}},
		{name: "sqlite", storage: config.Storage{Driver: config.DriverSQLite, Path: filepath.Join(dir, "alarms.db")}},
		{name: "memory", storage: config.Storage{Driver: config.DriverMemory}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()

			store, err := openStore(ctx, &tt.storage)
			require.NoError(t, err)

			t.Cleanup(func() {
				require.NoError(t, store.Close())
			})

			require.NoError(t, store.Set(ctx, "alarms", []byte("[]")))

			value, err := store.Get(ctx, "alarms")
			require.NoError(t, err)
			require.Equal(t, "[]", string(value))
		})
	}

	_, err := openStore(context.Background(), &config.Storage{Driver: "redis"})
	require.ErrorIs(t, err, errUnknownDriver)
}

// TestOpenStore_FileLayout checks the file driver writes below the configured path.
func TestOpenStore_FileLayout(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "data")

	store, err := openStore(context.Background(), &config.Storage{Driver: config.DriverFile, Path: dir})
	require.NoError(t, err)
	require.IsType(t, new(kv.FileStore), store)

	require.NoError(t, store.Set(context.Background(), "alarms", []byte("[]")))
	require.FileExists(t, filepath.Join(dir, "alarms.json"))
}

// TestBuildNotifier covers every combination of enabled notifiers.
func TestBuildNotifier(t *testing.T) {
	t.Parallel()

	var (
		off = false
		out bytes.Buffer
	)

	n, err := buildNotifier(&config.Notifier{Terminal: &off}, &out)
	require.NoError(t, err)
	require.Nil(t, n)

	n, err = buildNotifier(new(config.Notifier), &out)
	require.NoError(t, err)
	require.IsType(t, new(notify.Terminal), n)

	n, err = buildNotifier(&config.Notifier{Terminal: &off, SoundCommand: []string{"paplay", "buzzer.wav"}}, &out)
	require.NoError(t, err)
	require.IsType(t, new(notify.Command), n)

	n, err = buildNotifier(&config.Notifier{SoundCommand: []string{"paplay", "buzzer.wav"}}, &out)
	require.NoError(t, err)

	multi, ok := n.(notify.Multi)
	require.True(t, ok)
	require.Len(t, multi, 2)

	_, err = buildNotifier(&config.Notifier{SoundCommand: []string{""}}, &out)
	require.ErrorIs(t, err, notify.ErrEmptyCommand)
}

// fakeProcess implements ps.Process for tests.
type fakeProcess struct {
	// pid is the process id.
	pid int
	// executable is the process name.
	executable string
}

// Pid returns the process id.
func (p fakeProcess) Pid() int { return p.pid }

// PPid returns zero.
func (fakeProcess) PPid() int { return 0 }

// Executable returns the process name.
func (p fakeProcess) Executable() string { return p.executable }

// TestFindOtherInstance ignores the current process and unrelated executables.
func TestFindOtherInstance(t *testing.T) {
	t.Parallel()

	processList := []ps.Process{
		fakeProcess{pid: 1, executable: "init"},
		fakeProcess{pid: 10, executable: "alarm-server"},
	}

	_, found := findOtherInstance(processList, 10, "alarm-server")
	require.False(t, found)

	processList = append(processList, fakeProcess{pid: 42, executable: "alarm-server"})

	pid, found := findOtherInstance(processList, 10, "alarm-server")
	require.True(t, found)
	require.Equal(t, 42, pid)
}
