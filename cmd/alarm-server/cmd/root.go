package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/alarm-clock/internal/config"
	"github.com/oshokin/alarm-clock/internal/service/server"
	"github.com/oshokin/alarm-clock/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// storageDriver overrides the configured storage driver.
	storageDriver string
	// storagePath overrides the configured storage location.
	storagePath string
	// allowMultiple disables the single-instance guard.
	allowMultiple bool

	// rootCmd represents the base command for running the alarm daemon.
	rootCmd = &cobra.Command{
		Use:   "alarm-server [listen-address]",
		Short: "Run the alarm clock daemon.",
		Long: `Starts the alarm clock daemon that stores alarms and rings them on time.

On startup alarms that are already in the past are discarded and a timer is
armed for every remaining one. alarm-ctl talks to the daemon over a loopback
gRPC API. The listen address defaults to server_addr from the configuration
file and can be overridden with an argument (e.g., 127.0.0.1:9090).
Alarms are persisted with the configured storage driver (file, sqlite or memory).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			// Use listen address argument if provided, otherwise rely on config.
			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			options := &server.Options{
				ConfigPath:    configPath,
				ListenAddress: listenAddress,
				StorageDriver: storageDriver,
				StoragePath:   storagePath,
				AllowMultiple: allowMultiple,
			}

			return server.Run(ctx, options)
		},
	}
)

// Execute runs the alarm-server CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().
		StringVar(&storageDriver, "storage-driver", "", "storage driver override (file, sqlite, memory)")
	rootCmd.Flags().
		StringVarP(&storagePath, "storage-path", "s", "", "data directory or database file override")
	rootCmd.Flags().
		BoolVar(&allowMultiple, "allow-multiple", false, "skip the single-instance check")
}
