package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/alarm-clock/internal/logger"
)

// Config holds the settings shared by alarm-server and alarm-ctl.
type Config struct {
	// ServerAddress is the gRPC address the daemon listens on and the CLI dials.
	ServerAddress string `yaml:"server_addr"`
	// Timeout is the per-call deadline of CLI requests.
	Timeout time.Duration `yaml:"timeout"`
	// LogLevel is the minimum level of log messages (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`
	// Storage selects where the alarm list is persisted.
	Storage Storage `yaml:"storage"`
	// Notifier configures how fired alarms are announced.
	Notifier Notifier `yaml:"notifier"`
}

// Storage selects the persistence backend of the alarm list.
type Storage struct {
	// Driver is one of DriverFile, DriverSQLite or DriverMemory.
	Driver string `yaml:"driver"`
	// Path is the data directory for DriverFile or the database file for DriverSQLite.
	Path string `yaml:"path"`
}

// Notifier configures the notification collaborators.
type Notifier struct {
	// Terminal enables the banner and bell on the daemon's stdout.
	Terminal *bool `yaml:"terminal,omitempty"`
	// SoundCommand is an optional program with arguments playing the alarm sound.
	SoundCommand []string `yaml:"sound_command,omitempty"`
	// RingInterval is the pause between two rings.
	RingInterval time.Duration `yaml:"ring_interval"`
	// RingTimeout silences an undismissed alarm.
	RingTimeout time.Duration `yaml:"ring_timeout"`
}

// TerminalEnabled reports whether the terminal notifier is on; it defaults to true.
func (n *Notifier) TerminalEnabled() bool {
	return n.Terminal == nil || *n.Terminal
}

const (
	// DefaultConfigFilename is the default filename for settings.
	DefaultConfigFilename = "alarm-clock-settings.yaml"

	// DefaultServerAddress is the loopback address of the daemon.
	DefaultServerAddress = "127.0.0.1:50551"

	// DefaultDataPath is the default data directory of the file driver.
	DefaultDataPath = "alarm-clock-data"

	// DefaultSQLitePath is the default database file of the sqlite driver.
	DefaultSQLitePath = "alarm-clock.db"

	// DefaultTimeout is the default duration for RPC calls.
	DefaultTimeout = 5 * time.Second

	// DefaultLogLevel is used when no level is configured.
	DefaultLogLevel = "info"

	// DefaultRingInterval is the default pause between two rings.
	DefaultRingInterval = 2 * time.Second

	// DefaultRingTimeout is the default duration of an undismissed alarm.
	DefaultRingTimeout = 5 * time.Minute

	// DefaultFilePermissions is the permission for settings and data files.
	DefaultFilePermissions = 0o600

	// DefaultDirPermissions is the permission for data directories.
	DefaultDirPermissions = 0o700
)

// Storage drivers.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errUnknownDriver is returned for unsupported storage drivers.
	errUnknownDriver = errors.New("unknown storage driver")
	// errUnknownLogLevel is returned for unparsable log levels.
	errUnknownLogLevel = errors.New("unknown log level")
	// errNegativeDuration is returned for durations below zero.
	errNegativeDuration = errors.New("duration must not be negative")
)

// Default returns a validated configuration with every default applied.
func Default() *Config {
	cfg := new(Config)

	// Defaults always validate.
	_ = Validate(cfg)

	return cfg
}

// Load reads configuration from the provided path and validates it.
// A missing file at the default path yields Default().
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && path == DefaultConfigFilename {
			return Default(), nil
		}

		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings and fills defaults for empty fields.
func Validate(settings *Config) error {
	if settings == nil {
		return errConfigIsNotSet
	}

	if settings.ServerAddress == "" {
		settings.ServerAddress = DefaultServerAddress
	}

	if _, err := net.ResolveTCPAddr("tcp", settings.ServerAddress); err != nil {
		return fmt.Errorf("invalid server address: %w", err)
	}

	// Set default timeout if not specified
	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeout
	}

	if settings.LogLevel == "" {
		settings.LogLevel = DefaultLogLevel
	}

	if _, ok := logger.ParseLogLevel(settings.LogLevel); !ok {
		return fmt.Errorf("%w: %q", errUnknownLogLevel, settings.LogLevel)
	}

	if err := validateStorage(&settings.Storage); err != nil {
		return err
	}

	return validateNotifier(&settings.Notifier)
}

// validateStorage checks the driver and fills its default path.
func validateStorage(storage *Storage) error {
	storage.Driver = strings.ToLower(strings.TrimSpace(storage.Driver))
	if storage.Driver == "" {
		storage.Driver = DriverFile
	}

	switch storage.Driver {
	case DriverFile:
		if storage.Path == "" {
			storage.Path = DefaultDataPath
		}
	case DriverSQLite:
		if storage.Path == "" {
			storage.Path = DefaultSQLitePath
		}
	case DriverMemory:
	default:
		return fmt.Errorf("%w: %q", errUnknownDriver, storage.Driver)
	}

	return nil
}

// validateNotifier checks ring timing and fills defaults.
func validateNotifier(notifier *Notifier) error {
	if notifier.RingInterval < 0 || notifier.RingTimeout < 0 {
		return fmt.Errorf("notifier: %w", errNegativeDuration)
	}

	if notifier.RingInterval == 0 {
		notifier.RingInterval = DefaultRingInterval
	}

	if notifier.RingTimeout == 0 {
		notifier.RingTimeout = DefaultRingTimeout
	}

	return nil
}
