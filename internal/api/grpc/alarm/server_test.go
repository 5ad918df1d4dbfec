package alarm

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
)

var errTestDisk = errors.New("disk full")

// fakeService implements the Service interface for unit testing the transport.
type fakeService struct {
	// now is the reference time for rejecting alarms.
	now time.Time
	// entries is the alarm list.
	entries []domain.Entry
	// failWith is returned by Schedule and Delete when set.
	failWith error
	// dismissed counts Dismiss calls.
	dismissed int
}

// Schedule appends an alarm or rejects past times like the scheduler does.
func (f *fakeService) Schedule(_ context.Context, a domain.Alarm) (domain.Entry, error) {
	if f.failWith != nil {
		return domain.Entry{}, f.failWith
	}

	if a.IsDue(f.now) {
		return domain.Entry{}, &domain.InvalidTimeError{Time: a.Time, Now: f.now}
	}

	e := domain.Entry{Index: len(f.entries), Time: a.Time, State: domain.StatePending}
	f.entries = append(f.entries, e)

	return e, nil
}

// Delete removes an entry by index.
func (f *fakeService) Delete(_ context.Context, index int) (domain.Entry, error) {
	if f.failWith != nil {
		return domain.Entry{}, f.failWith
	}

	if index < 0 || index >= len(f.entries) {
		return domain.Entry{}, &domain.IndexOutOfRangeError{Index: index, Len: len(f.entries)}
	}

	removed := f.entries[index]
	f.entries = append(f.entries[:index], f.entries[index+1:]...)

	for i := range f.entries {
		f.entries[i].Index = i
	}

	removed.State = domain.StateRemoved

	return removed, nil
}

// List returns the entries.
func (f *fakeService) List() []domain.Entry { return append([]domain.Entry(nil), f.entries...) }

// Dismiss counts calls and reports one stopped notification.
func (f *fakeService) Dismiss(context.Context) int {
	f.dismissed++

	return 1
}

// TestServer_Validation ensures invalid requests return InvalidArgument errors.
func TestServer_Validation(t *testing.T) {
	t.Parallel()

	s := NewServer(new(fakeService))

	_, err := s.ScheduleAlarm(context.Background(), nil)
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = s.ScheduleAlarm(context.Background(), new(ScheduleAlarmRequest))
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = s.DeleteAlarm(context.Background(), nil)
	require.Equal(t, codes.InvalidArgument, status.Code(err))
}

// TestServer_ErrorMapping checks domain errors become the documented status codes.
func TestServer_ErrorMapping(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)
	svc := &fakeService{now: now}
	s := NewServer(svc)

	// Past time carries a BadRequest with the user-facing message.
	_, err := s.ScheduleAlarm(context.Background(), &ScheduleAlarmRequest{Time: now.Add(-time.Minute)})
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	description, ok := InvalidTimeDescription(err)
	require.True(t, ok)
	require.Contains(t, description, "in the past")
	require.Contains(t, description, "09:59:00")

	_, err = s.DeleteAlarm(context.Background(), &DeleteAlarmRequest{Index: 3})
	require.Equal(t, codes.OutOfRange, status.Code(err))

	_, ok = InvalidTimeDescription(err)
	require.False(t, ok)

	svc.failWith = &domain.PersistenceError{Op: "save", Err: errTestDisk}
	_, err = s.ScheduleAlarm(context.Background(), &ScheduleAlarmRequest{Time: now.Add(time.Minute)})
	require.Equal(t, codes.Unavailable, status.Code(err))

	svc.failWith = errTestDisk
	_, err = s.DeleteAlarm(context.Background(), &DeleteAlarmRequest{Index: 0})
	require.Equal(t, codes.Internal, status.Code(err))
}

// dialBufconn serves the AlarmService in memory and returns a connected client.
func dialBufconn(t *testing.T, svc Service) *AlarmServiceClient {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	RegisterAlarmServiceServer(srv, NewServer(svc))

	go func() {
		_ = srv.Serve(lis)
	}()

	conn, err := grpc.NewClient(
		"passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		srv.Stop()
	})

	return NewAlarmServiceClient(conn)
}

// TestServer_Roundtrip exercises every method over a real gRPC connection with the JSON codec.
func TestServer_Roundtrip(t *testing.T) {
	t.Parallel()

	var (
		ctx    = context.Background()
		now    = time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)
		svc    = &fakeService{now: now}
		client = dialBufconn(t, svc)
	)

	scheduled, err := client.ScheduleAlarm(ctx, &ScheduleAlarmRequest{Time: now.Add(5 * time.Minute)})
	require.NoError(t, err)
	require.Equal(t, 0, scheduled.Alarm.Index)
	require.Equal(t, "pending", scheduled.Alarm.State)
	require.True(t, scheduled.Alarm.Time.Equal(now.Add(5*time.Minute)))
	require.Len(t, scheduled.Alarms, 1)

	_, err = client.ScheduleAlarm(ctx, &ScheduleAlarmRequest{Time: now.Add(time.Hour)})
	require.NoError(t, err)

	// Rejected time keeps its details across the wire.
	_, err = client.ScheduleAlarm(ctx, &ScheduleAlarmRequest{Time: now.Add(-time.Minute)})
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	description, ok := InvalidTimeDescription(err)
	require.True(t, ok)
	require.Contains(t, description, "in the past")

	listed, err := client.ListAlarms(ctx, new(ListAlarmsRequest))
	require.NoError(t, err)

	entries := ToEntries(listed.Alarms)
	require.Len(t, entries, 2)
	require.Equal(t, domain.StatePending, entries[1].State)
	require.True(t, entries[1].Time.Equal(now.Add(time.Hour)))

	deleted, err := client.DeleteAlarm(ctx, &DeleteAlarmRequest{Index: 0})
	require.NoError(t, err)
	require.Equal(t, "removed", deleted.Removed.State)
	require.Len(t, deleted.Alarms, 1)

	_, err = client.DeleteAlarm(ctx, &DeleteAlarmRequest{Index: 7})
	require.Equal(t, codes.OutOfRange, status.Code(err))

	dismissed, err := client.DismissAlarms(ctx, new(DismissAlarmsRequest))
	require.NoError(t, err)
	require.Equal(t, 1, dismissed.Dismissed)
	require.Equal(t, 1, svc.dismissed)
}

// TestCodec checks the JSON codec registration and encoding.
func TestCodec(t *testing.T) {
	t.Parallel()

	c := codec{}
	require.Equal(t, CodecName, c.Name())

	data, err := c.Marshal(&DeleteAlarmRequest{Index: 2})
	require.NoError(t, err)
	require.JSONEq(t, `{"index":2}`, string(data))

	var req DeleteAlarmRequest
	require.NoError(t, c.Unmarshal(data, &req))
	require.Equal(t, 2, req.Index)

	require.Error(t, c.Unmarshal([]byte("{"), &req))
}
