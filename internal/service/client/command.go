package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/fatih/color"

	api "github.com/oshokin/alarm-clock/internal/api/grpc/alarm"
	"github.com/oshokin/alarm-clock/internal/config"
	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/logger"
	"github.com/oshokin/alarm-clock/internal/service/common"
)

// Options configures how alarm-ctl reaches the daemon.
type Options struct {
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string
	// ServerAddress overrides server address from config when specified.
	ServerAddress string
	// Out receives the command output, os.Stdout when nil.
	Out io.Writer
	// Now returns the reference time for relative input, time.Now when nil.
	Now func() time.Time
}

// ErrInvalidTime is returned after the daemon rejected an alarm time.
// The user-facing message has already been printed.
var ErrInvalidTime = errors.New("alarm time rejected")

// listHeader precedes the alarm list.
const listHeader = "Scheduled alarms"

// Schedule parses when and asks the daemon to ring at that moment.
func Schedule(ctx context.Context, opts *Options, when string) error {
	ctx = logger.WithName(ctx, "alarm-ctl")

	at, err := ParseWhen(when, opts.now())
	if err != nil {
		return err
	}

	return withClient(ctx, opts, func(client *common.Client) error {
		scheduled, entries, err := client.ScheduleAlarm(ctx, at)
		if err != nil {
			if description, ok := api.InvalidTimeDescription(err); ok {
				printError(opts.out(), description)

				return ErrInvalidTime
			}

			return err
		}

		logger.InfoKV(ctx, "Alarm scheduled", "index", scheduled.Index, "time", scheduled.Time)

		out := opts.out()
		_, _ = color.New(color.FgGreen).Fprintf(out, "Alarm set for %s\n", scheduled.Time.Local().Format(domain.DisplayLayout))
		printList(out, entries)

		return nil
	})
}

// List prints the daemon's alarm list.
func List(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "alarm-ctl")

	return withClient(ctx, opts, func(client *common.Client) error {
		entries, err := client.ListAlarms(ctx)
		if err != nil {
			return err
		}

		printList(opts.out(), entries)

		return nil
	})
}

// Delete removes the alarm at index.
func Delete(ctx context.Context, opts *Options, index int) error {
	ctx = logger.WithName(ctx, "alarm-ctl")

	return withClient(ctx, opts, func(client *common.Client) error {
		removed, entries, err := client.DeleteAlarm(ctx, index)
		if err != nil {
			return err
		}

		out := opts.out()
		_, _ = color.New(color.FgYellow).Fprintf(out, "Alarm removed: %s\n", removed.Time.Local().Format(domain.DisplayLayout))
		printList(out, entries)

		return nil
	})
}

// Stop dismisses every ringing alarm.
func Stop(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "alarm-ctl")

	return withClient(ctx, opts, func(client *common.Client) error {
		dismissed, err := client.DismissAlarms(ctx)
		if err != nil {
			return err
		}

		if dismissed == 0 {
			_, _ = fmt.Fprintln(opts.out(), "No alarm is ringing")

			return nil
		}

		_, _ = color.New(color.FgGreen).Fprintf(opts.out(), "Stopped %d alarm(s)\n", dismissed)

		return nil
	})
}

// Ping checks that the daemon is serving.
func Ping(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "alarm-ctl")

	return withClient(ctx, opts, func(client *common.Client) error {
		if err := client.Ping(ctx); err != nil {
			return err
		}

		_, _ = fmt.Fprintln(opts.out(), "alarm-server is serving")

		return nil
	})
}

// withClient loads settings, dials the daemon and runs call.
func withClient(ctx context.Context, opts *Options, call func(client *common.Client) error) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	// Use server address from options if provided, otherwise use config.
	serverAddress := cfg.ServerAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	logger.DebugKV(ctx, "Connecting to alarm server", "server_address", serverAddress)

	client, err := common.Dial(ctx, serverAddress, common.WithCallTimeout(cfg.Timeout))
	if err != nil {
		return err
	}

	// Close connection on function exit.
	defer func() {
		_ = client.Close()
	}()

	return call(client)
}

// printList writes the header and the formatted list.
func printList(out io.Writer, entries []domain.Entry) {
	_, _ = color.New(color.Bold).Fprintln(out, listHeader)
	_, _ = fmt.Fprintln(out, domain.FormatList(entries, time.Local))
}

// printError renders a rejected time the way the error dialog shows it.
func printError(out io.Writer, description string) {
	_, _ = color.New(color.FgRed, color.Bold).Fprintf(out, "Error: %s\n", capitalize(description))
}

// capitalize upper-cases the first letter of s.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}

	return string(unicode.ToUpper(r)) + s[size:]
}

// out returns the configured writer.
func (o *Options) out() io.Writer {
	if o.Out == nil {
		return os.Stdout
	}

	return o.Out
}

// now returns the reference time.
func (o *Options) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}

	return o.Now()
}

// ParseIndex parses a list index argument.
func ParseIndex(arg string) (int, error) {
	index, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, fmt.Errorf("invalid alarm index %q: %w", arg, err)
	}

	return index, nil
}
