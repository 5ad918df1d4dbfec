package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/alarm-clock/internal/config"
	"github.com/oshokin/alarm-clock/internal/logger"
	client "github.com/oshokin/alarm-clock/internal/service/client"
	"github.com/oshokin/alarm-clock/internal/version"
)

var (
	// cfgPath stores the configuration file path.
	cfgPath string
	// serverAddress overrides the configured daemon address.
	serverAddress string
	// logLevel is the minimum level of diagnostics written to stderr.
	logLevel string

	// rootCmd represents the base command for controlling the daemon.
	rootCmd = &cobra.Command{
		Use:   "alarm-ctl",
		Short: "Control the alarm clock daemon.",
		Long: `Schedules, lists and deletes alarms of a running alarm-server and
dismisses alarms that are ringing.

Server address can be provided with --addr or loaded from configuration file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			level, ok := logger.ParseLogLevel(logLevel)
			if !ok {
				return fmt.Errorf("unknown log level %q", logLevel)
			}

			// Diagnostics go to stderr so that command output stays clean.
			logger.SetLogger(logger.NewTo(os.Stderr, logger.AtomicLevel()))
			logger.SetLevel(level)

			return nil
		},
	}

	// setCmd schedules a new alarm.
	setCmd = &cobra.Command{
		Use:   "set <when>",
		Short: "Schedule an alarm.",
		Long: `Schedules an alarm at the given moment.

Accepted forms:
  2026-10-14T10:05:00+03:00   RFC 3339
  2026-10-14 10:05[:00]       local date and time
  10:05[:00]                  today, local time
  +10m, in 1h30m              relative to now`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return withSignals(func(ctx context.Context) error {
				return client.Schedule(ctx, options(), strings.Join(args, " "))
			})
		},
	}

	// listCmd prints the alarm list.
	listCmd = &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List scheduled alarms.",
		Args:    cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return withSignals(func(ctx context.Context) error {
				return client.List(ctx, options())
			})
		},
	}

	// deleteCmd removes an alarm by index.
	deleteCmd = &cobra.Command{
		Use:     "delete <index>",
		Aliases: []string{"rm"},
		Short:   "Delete the alarm at the index shown by list.",
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			index, err := client.ParseIndex(args[0])
			if err != nil {
				return err
			}

			return withSignals(func(ctx context.Context) error {
				return client.Delete(ctx, options(), index)
			})
		},
	}

	// stopCmd dismisses ringing alarms.
	stopCmd = &cobra.Command{
		Use:   "stop",
		Short: "Stop ringing alarms.",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return withSignals(func(ctx context.Context) error {
				return client.Stop(ctx, options())
			})
		},
	}

	// pingCmd checks the daemon health.
	pingCmd = &cobra.Command{
		Use:   "ping",
		Short: "Check that alarm-server is running.",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return withSignals(func(ctx context.Context) error {
				return client.Ping(ctx, options())
			})
		},
	}
)

// options builds client options from flags.
func options() *client.Options {
	return &client.Options{
		ConfigPath:    cfgPath,
		ServerAddress: serverAddress,
	}
}

// withSignals runs fn with a context cancelled on SIGINT or SIGTERM.
func withSignals(fn func(ctx context.Context) error) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	return fn(ctx)
}

// Execute runs the alarm-ctl CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.PersistentFlags().
		StringVarP(&cfgPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().
		StringVarP(&serverAddress, "addr", "a", "", "alarm-server address override")
	rootCmd.PersistentFlags().
		StringVar(&logLevel, "log-level", "warn", "diagnostics level (debug, info, warn, error)")

	rootCmd.AddCommand(setCmd, listCmd, deleteCmd, stopCmd, pingCmd)
}
