package alarm

import (
	"context"
	"errors"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/logger"
)

// Service abstracts the scheduler operations the transport layer depends on.
type Service interface {
	Schedule(ctx context.Context, alarm domain.Alarm) (domain.Entry, error)
	Delete(ctx context.Context, index int) (domain.Entry, error)
	List() []domain.Entry
	Dismiss(ctx context.Context) int
}

// Server implements the AlarmService gRPC API.
type Server struct {
	// service provides the scheduling logic.
	service Service
}

// NewServer wires the provided service implementation into a gRPC handler.
func NewServer(service Service) *Server {
	return &Server{
		service: service,
	}
}

// timeField is the request field reported in BadRequest violations.
const timeField = "time"

// ScheduleAlarm validates and schedules a new alarm.
func (s *Server) ScheduleAlarm(ctx context.Context, req *ScheduleAlarmRequest) (*ScheduleAlarmResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	if req.Time.IsZero() {
		return nil, status.Error(codes.InvalidArgument, "time is required")
	}

	entry, err := s.service.Schedule(ctx, domain.Alarm{Time: req.Time})
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	return &ScheduleAlarmResponse{
		Alarm:  toWireAlarm(entry),
		Alarms: toWireAlarms(s.service.List()),
	}, nil
}

// ListAlarms returns the ascending alarm list.
func (s *Server) ListAlarms(context.Context, *ListAlarmsRequest) (*ListAlarmsResponse, error) {
	return &ListAlarmsResponse{
		Alarms: toWireAlarms(s.service.List()),
	}, nil
}

// DeleteAlarm removes the alarm at the requested index.
func (s *Server) DeleteAlarm(ctx context.Context, req *DeleteAlarmRequest) (*DeleteAlarmResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	removed, err := s.service.Delete(ctx, req.Index)
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	return &DeleteAlarmResponse{
		Removed: toWireAlarm(removed),
		Alarms:  toWireAlarms(s.service.List()),
	}, nil
}

// DismissAlarms stops every ringing alarm.
func (s *Server) DismissAlarms(ctx context.Context, _ *DismissAlarmsRequest) (*DismissAlarmsResponse, error) {
	return &DismissAlarmsResponse{
		Dismissed: s.service.Dismiss(ctx),
	}, nil
}

// toStatus maps domain errors to gRPC status errors.
func toStatus(ctx context.Context, err error) error {
	var (
		invalidTime *domain.InvalidTimeError
		outOfRange  *domain.IndexOutOfRangeError
		persistence *domain.PersistenceError
	)

	switch {
	case errors.As(err, &invalidTime):
		st := status.New(codes.InvalidArgument, invalidTime.Error())

		detailed, detailsErr := st.WithDetails(&errdetails.BadRequest{
			FieldViolations: []*errdetails.BadRequest_FieldViolation{
				{
					Field:       timeField,
					Description: invalidTime.Error(),
				},
			},
		})
		if detailsErr != nil {
			return st.Err()
		}

		return detailed.Err()
	case errors.As(err, &outOfRange):
		return status.Error(codes.OutOfRange, outOfRange.Error())
	case errors.As(err, &persistence):
		logger.ErrorKV(ctx, "Alarm list persistence failed", "error", err)

		return status.Error(codes.Unavailable, "unable to persist alarms")
	default:
		logger.ErrorKV(ctx, "Alarm request failed", "error", err)

		return status.Error(codes.Internal, "internal error")
	}
}

// InvalidTimeDescription extracts the user-facing message of a rejected
// alarm time from a status error returned by ScheduleAlarm.
func InvalidTimeDescription(err error) (string, bool) {
	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.InvalidArgument {
		return "", false
	}

	for _, detail := range st.Details() {
		badRequest, isBadRequest := detail.(*errdetails.BadRequest)
		if !isBadRequest {
			continue
		}

		for _, violation := range badRequest.GetFieldViolations() {
			if violation.GetField() == timeField {
				return violation.GetDescription(), true
			}
		}
	}

	return "", false
}

// toWireAlarm converts a domain entry to its wire form.
func toWireAlarm(entry domain.Entry) Alarm {
	return Alarm{
		Index: entry.Index,
		Time:  entry.Time,
		State: entry.State.String(),
	}
}

// toWireAlarms converts a listed alarm sequence to its wire form.
func toWireAlarms(entries []domain.Entry) []Alarm {
	result := make([]Alarm, 0, len(entries))
	for _, e := range entries {
		result = append(result, toWireAlarm(e))
	}

	return result
}

// ToEntries converts wire alarms back into domain entries.
func ToEntries(alarms []Alarm) []domain.Entry {
	result := make([]domain.Entry, 0, len(alarms))

	for _, a := range alarms {
		state, _ := domain.ParseState(a.State)
		result = append(result, domain.Entry{
			Index: a.Index,
			Time:  a.Time,
			State: state,
		})
	}

	return result
}
