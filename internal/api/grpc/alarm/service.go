package alarm

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "alarmclock.v1.AlarmService"

// Full method names.
const (
	ScheduleAlarmMethod = "/" + ServiceName + "/ScheduleAlarm"
	ListAlarmsMethod    = "/" + ServiceName + "/ListAlarms"
	DeleteAlarmMethod   = "/" + ServiceName + "/DeleteAlarm"
	DismissAlarmsMethod = "/" + ServiceName + "/DismissAlarms"
)

// AlarmServiceServer is the server API of the AlarmService.
type AlarmServiceServer interface {
	ScheduleAlarm(ctx context.Context, req *ScheduleAlarmRequest) (*ScheduleAlarmResponse, error)
	ListAlarms(ctx context.Context, req *ListAlarmsRequest) (*ListAlarmsResponse, error)
	DeleteAlarm(ctx context.Context, req *DeleteAlarmRequest) (*DeleteAlarmResponse, error)
	DismissAlarms(ctx context.Context, req *DismissAlarmsRequest) (*DismissAlarmsResponse, error)
}

// AlarmServiceDesc describes the AlarmService for grpc.Server.RegisterService.
//
//nolint:gochecknoglobals // Service descriptors are static by nature.
var AlarmServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AlarmServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ScheduleAlarm",
			Handler:    unaryHandler(ScheduleAlarmMethod, AlarmServiceServer.ScheduleAlarm),
		},
		{
			MethodName: "ListAlarms",
			Handler:    unaryHandler(ListAlarmsMethod, AlarmServiceServer.ListAlarms),
		},
		{
			MethodName: "DeleteAlarm",
			Handler:    unaryHandler(DeleteAlarmMethod, AlarmServiceServer.DeleteAlarm),
		},
		{
			MethodName: "DismissAlarms",
			Handler:    unaryHandler(DismissAlarmsMethod, AlarmServiceServer.DismissAlarms),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "alarmclock/v1/alarm",
}

// RegisterAlarmServiceServer registers srv on s.
func RegisterAlarmServiceServer(s grpc.ServiceRegistrar, srv AlarmServiceServer) {
	s.RegisterService(&AlarmServiceDesc, srv)
}

// unaryHandler adapts a typed server method to grpc.MethodHandler.
func unaryHandler[Req, Resp any](
	fullMethod string,
	call func(AlarmServiceServer, context.Context, *Req) (*Resp, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}

		server, _ := srv.(AlarmServiceServer)

		if interceptor == nil {
			return call(server, ctx, in)
		}

		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}

		handler := func(ctx context.Context, req any) (any, error) {
			typed, _ := req.(*Req)

			return call(server, ctx, typed)
		}

		return interceptor(ctx, in, info, handler)
	}
}

// AlarmServiceClient calls the AlarmService with JSON payloads.
type AlarmServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewAlarmServiceClient creates a client on top of cc.
func NewAlarmServiceClient(cc grpc.ClientConnInterface) *AlarmServiceClient {
	return &AlarmServiceClient{
		cc: cc,
	}
}

// ScheduleAlarm asks the daemon for a new alarm.
func (c *AlarmServiceClient) ScheduleAlarm(
	ctx context.Context,
	in *ScheduleAlarmRequest,
	opts ...grpc.CallOption,
) (*ScheduleAlarmResponse, error) {
	out := new(ScheduleAlarmResponse)
	if err := c.cc.Invoke(ctx, ScheduleAlarmMethod, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}

	return out, nil
}

// ListAlarms fetches the alarm list.
func (c *AlarmServiceClient) ListAlarms(
	ctx context.Context,
	in *ListAlarmsRequest,
	opts ...grpc.CallOption,
) (*ListAlarmsResponse, error) {
	out := new(ListAlarmsResponse)
	if err := c.cc.Invoke(ctx, ListAlarmsMethod, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}

	return out, nil
}

// DeleteAlarm removes an alarm by index.
func (c *AlarmServiceClient) DeleteAlarm(
	ctx context.Context,
	in *DeleteAlarmRequest,
	opts ...grpc.CallOption,
) (*DeleteAlarmResponse, error) {
	out := new(DeleteAlarmResponse)
	if err := c.cc.Invoke(ctx, DeleteAlarmMethod, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}

	return out, nil
}

// DismissAlarms stops ringing alarms.
func (c *AlarmServiceClient) DismissAlarms(
	ctx context.Context,
	in *DismissAlarmsRequest,
	opts ...grpc.CallOption,
) (*DismissAlarmsResponse, error) {
	out := new(DismissAlarmsResponse)
	if err := c.cc.Invoke(ctx, DismissAlarmsMethod, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}

	return out, nil
}

// withCodec prepends the JSON content-subtype to opts.
func withCodec(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
}
