package server

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/oshokin/alarm-clock/internal/config"
	"github.com/oshokin/alarm-clock/internal/notify"
	"github.com/oshokin/alarm-clock/internal/repository/kv"
)

// errUnknownDriver is returned for a storage driver openStore cannot open.
var errUnknownDriver = errors.New("unknown storage driver")

// openStore opens the key-value store selected by the storage settings.
//
//nolint:ireturn // The daemon depends only on the Store contract.
func openStore(ctx context.Context, storage *config.Storage) (kv.Store, error) {
	switch storage.Driver {
	case config.DriverFile:
		return kv.NewOSFileStore(storage.Path), nil
	case config.DriverSQLite:
		return kv.OpenSQLite(ctx, storage.Path)
	case config.DriverMemory:
		return kv.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownDriver, storage.Driver)
	}
}

// buildNotifier combines the enabled notifiers. It returns nil when none is enabled.
//
//nolint:ireturn // The scheduler depends only on the Notifier contract.
func buildNotifier(settings *config.Notifier, out io.Writer) (notify.Notifier, error) {
	opts := []notify.Option{
		notify.WithRingInterval(settings.RingInterval),
		notify.WithRingTimeout(settings.RingTimeout),
	}

	var notifiers notify.Multi

	if settings.TerminalEnabled() {
		notifiers = append(notifiers, notify.NewTerminal(out, opts...))
	}

	if len(settings.SoundCommand) > 0 {
		command, err := notify.NewCommand(settings.SoundCommand, opts...)
		if err != nil {
			return nil, err
		}

		notifiers = append(notifiers, command)
	}

	switch len(notifiers) {
	case 0:
		return nil, nil //nolint:nilnil // No notifier is a valid configuration.
	case 1:
		return notifiers[0], nil
	default:
		return notifiers, nil
	}
}
