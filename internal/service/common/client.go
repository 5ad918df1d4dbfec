//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	api "github.com/oshokin/alarm-clock/internal/api/grpc/alarm"
	"github.com/oshokin/alarm-clock/internal/config"
	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
)

// Client wraps the AlarmService gRPC client with convenience helpers.
type Client struct {
	// conn is the underlying gRPC connection to the alarm daemon.
	conn *grpc.ClientConn
	// api is the AlarmService client.
	api *api.AlarmServiceClient
	// health is the standard health client.
	health healthpb.HealthClient

	// callTimeout is the default timeout for individual RPC calls.
	callTimeout time.Duration
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for service calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

var (
	// errAddressRequired is returned when a required address value is missing.
	errAddressRequired = errors.New("address must be provided")
	// errTimeRequired is returned when no alarm time is provided.
	errTimeRequired = errors.New("alarm time must be provided")
	// ErrNotServing is returned by Ping when the daemon reports a non-serving status.
	ErrNotServing = errors.New("alarm server is not serving")
)

// Dial creates a gRPC client for the alarm daemon.
// The daemon listens on loopback, so the transport is insecure.
func Dial(_ context.Context, address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	// Use the non-context NewClient API recommended by grpc-go
	// (DialContext is deprecated as of grpc-go v1.60+).
	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial alarm server: %w", err)
	}

	client := &Client{
		conn:        conn,
		api:         api.NewAlarmServiceClient(conn),
		health:      healthpb.NewHealthClient(conn),
		callTimeout: config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// ScheduleAlarm asks the daemon to ring at the given time.
// It returns the stored alarm and the updated list.
func (c *Client) ScheduleAlarm(ctx context.Context, at time.Time) (domain.Entry, []domain.Entry, error) {
	if at.IsZero() {
		return domain.Entry{}, nil, errTimeRequired
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.ScheduleAlarm(callCtx, &api.ScheduleAlarmRequest{Time: at})
	if err != nil {
		return domain.Entry{}, nil, fmt.Errorf("schedule alarm: %w", err)
	}

	return api.ToEntries([]api.Alarm{resp.Alarm})[0], api.ToEntries(resp.Alarms), nil
}

// ListAlarms returns the daemon's alarm list.
func (c *Client) ListAlarms(ctx context.Context) ([]domain.Entry, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.ListAlarms(callCtx, new(api.ListAlarmsRequest))
	if err != nil {
		return nil, fmt.Errorf("list alarms: %w", err)
	}

	return api.ToEntries(resp.Alarms), nil
}

// DeleteAlarm removes the alarm at index and returns it with the updated list.
func (c *Client) DeleteAlarm(ctx context.Context, index int) (domain.Entry, []domain.Entry, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.DeleteAlarm(callCtx, &api.DeleteAlarmRequest{Index: index})
	if err != nil {
		return domain.Entry{}, nil, fmt.Errorf("delete alarm: %w", err)
	}

	return api.ToEntries([]api.Alarm{resp.Removed})[0], api.ToEntries(resp.Alarms), nil
}

// DismissAlarms stops ringing alarms and returns how many were stopped.
func (c *Client) DismissAlarms(ctx context.Context) (int, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.DismissAlarms(callCtx, new(api.DismissAlarmsRequest))
	if err != nil {
		return 0, fmt.Errorf("dismiss alarms: %w", err)
	}

	return resp.Dismissed, nil
}

// Ping checks that the daemon reports SERVING for the AlarmService.
func (c *Client) Ping(ctx context.Context) error {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.health.Check(callCtx, &healthpb.HealthCheckRequest{Service: api.ServiceName})
	if err != nil {
		return fmt.Errorf("health check: %w", err)
	}

	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("%w: %s", ErrNotServing, resp.GetStatus())
	}

	return nil
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}
