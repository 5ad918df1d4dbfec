package notify

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/logger"
)

// ErrEmptyCommand indicates a sound command without a program name.
var ErrEmptyCommand = errors.New("sound command is empty")

// Command plays the alarm sound by running an external program, for example
// `paplay buzzer.wav` on Linux or `afplay buzzer.wav` on macOS.
// The program is started again every ring interval after it exits, and is
// killed when the notification stops.
type Command struct {
	// name is the program to run.
	name string
	// args are passed to the program.
	args []string
	// options holds ring timing.
	options ringOptions
}

// NewCommand creates a notifier running argv. argv[0] is the program.
func NewCommand(argv []string, opts ...Option) (*Command, error) {
	if len(argv) == 0 || argv[0] == "" {
		return nil, ErrEmptyCommand
	}

	return &Command{
		name:    argv[0],
		args:    append([]string(nil), argv[1:]...),
		options: newRingOptions(opts),
	}, nil
}

// Notify resolves the program and starts playing it.
//
//nolint:ireturn // Callers only need the Stop capability.
func (c *Command) Notify(ctx context.Context, alarm domain.Alarm) (Ringing, error) {
	path, err := exec.LookPath(c.name)
	if err != nil {
		return nil, fmt.Errorf("resolve sound command %q: %w", c.name, err)
	}

	ctx = logger.WithKV(ctx, "sound_command", c.name)

	return startRinging(ctx, c.options, func(ringCtx context.Context) {
		// CommandContext kills the player as soon as the notification stops.
		//nolint:gosec // The command comes from the operator's own configuration.
		cmd := exec.CommandContext(ringCtx, path, c.args...)
		if err := cmd.Run(); err != nil && ringCtx.Err() == nil {
			logger.WarnKV(ringCtx, "Sound command failed", "alarm_time", alarm.Time, "error", err)
		}
	}), nil
}
