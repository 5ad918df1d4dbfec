package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	api "github.com/oshokin/alarm-clock/internal/api/grpc/alarm"
	"github.com/oshokin/alarm-clock/internal/clock"
	"github.com/oshokin/alarm-clock/internal/config"
	"github.com/oshokin/alarm-clock/internal/logger"
	"github.com/oshokin/alarm-clock/internal/repository/alarms"
	"github.com/oshokin/alarm-clock/internal/scheduler"
	"github.com/oshokin/alarm-clock/internal/version"
)

// Options controls the alarm-server process and configuration.
type Options struct {
	// ConfigPath specifies the path to settings YAML file.
	ConfigPath string
	// ListenAddress provides an optional listen address override for the gRPC server.
	ListenAddress string
	// StorageDriver overrides the configured storage driver.
	StorageDriver string
	// StoragePath overrides the configured storage path.
	StoragePath string
	// AllowMultiple disables the single-instance guard.
	AllowMultiple bool
	// Output receives terminal notifications, os.Stdout when nil.
	Output io.Writer
	// Ready, when set, receives the bound listen address once the server accepts connections.
	Ready chan<- string
}

// ErrNoServerAddress indicates missing server configuration.
var ErrNoServerAddress = errors.New("no server address configured")

// Run starts the gRPC server and blocks until context is canceled or server stops.
// Loads configuration first, then determines listen address from config or override.
//
//nolint:funlen // Sequential wiring reads best in one place.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "alarm-server")

	settings, err := loadSettings(opts)
	if err != nil {
		return err
	}

	if level, ok := logger.ParseLogLevel(settings.LogLevel); ok {
		logger.SetLevel(level)
	}

	if !opts.AllowMultiple {
		if err = ensureSingleInstance(); err != nil {
			return err
		}
	}

	// Determine listen address: CLI argument overrides config.
	listenAddress, err := resolveListenAddress(settings.ServerAddress, opts.ListenAddress)
	if err != nil {
		return fmt.Errorf("resolve listen address: %w", err)
	}

	store, err := openStore(ctx, &settings.Storage)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}

	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			logger.ErrorKV(ctx, "Failed to close storage", "error", closeErr)
		}
	}()

	output := opts.Output
	if output == nil {
		output = os.Stdout
	}

	notifier, err := buildNotifier(&settings.Notifier, output)
	if err != nil {
		return fmt.Errorf("build notifier: %w", err)
	}

	sched := scheduler.New(alarms.NewStoreRepository(store), clock.System{}, notifier)
	defer sched.Close()

	if err = sched.Initialize(ctx); err != nil {
		return fmt.Errorf("initialise scheduler: %w", err)
	}

	// Setup TCP listener for gRPC server.
	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", listenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddress, err)
	}

	// Create and configure gRPC server with alarm and health services.
	grpcServer := grpc.NewServer()
	api.RegisterAlarmServiceServer(grpcServer, api.NewServer(sched))

	healthServer := health.NewServer()
	healthServer.SetServingStatus(api.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	logger.InfoKV(
		ctx,
		"Alarm server listening",
		"listen_address", lis.Addr().String(),
		"storage_driver", settings.Storage.Driver,
		"storage_path", settings.Storage.Path,
		"version", version.Short(),
	)

	if opts.Ready != nil {
		opts.Ready <- lis.Addr().String()
	}

	// Done channel is closed after GracefulStop finishes to ensure we block
	// until the server fully stops before returning.
	done := make(chan struct{})

	go func() {
		<-ctx.Done()
		logger.Info(ctx, "Shutting down gRPC server")
		healthServer.Shutdown()
		grpcServer.GracefulStop()
		close(done)
	}()

	if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}

	<-done
	logger.Info(ctx, "GRPC server stopped")

	return nil
}

// loadSettings reads the configuration and applies command line overrides.
func loadSettings(opts *Options) (*config.Config, error) {
	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	if opts.StorageDriver == "" && opts.StoragePath == "" {
		return settings, nil
	}

	// A new driver invalidates the configured path of the old one.
	if opts.StorageDriver != "" && opts.StorageDriver != settings.Storage.Driver {
		settings.Storage.Driver = opts.StorageDriver
		settings.Storage.Path = ""
	}

	if opts.StoragePath != "" {
		settings.Storage.Path = opts.StoragePath
	}

	if err = config.Validate(settings); err != nil {
		return nil, fmt.Errorf("apply overrides: %w", err)
	}

	return settings, nil
}

// resolveListenAddress determines the listen address for the gRPC server.
// If override is provided, uses it directly. Otherwise the configured address is used.
func resolveListenAddress(configAddr, override string) (string, error) {
	// Use override address if provided (e.g., "127.0.0.1:9090").
	if override != "" {
		return override, nil
	}

	if configAddr == "" {
		return "", ErrNoServerAddress
	}

	if _, _, err := net.SplitHostPort(configAddr); err != nil {
		return "", fmt.Errorf("invalid server address format %q: %w", configAddr, err)
	}

	return configAddr, nil
}
