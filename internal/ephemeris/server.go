package ephemeris

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// #region service-desc
type ephemerisServer interface {
	longitude(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	sunrise(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*ephemerisServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Longitude", Handler: longitudeHandler},
		{MethodName: "Sunrise", Handler: sunriseHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "vedaos/ephemeris/v1/ephemeris.proto",
}

// RegisterServer exposes eph on s under the vedaos.ephemeris.v1.Ephemeris service.
func RegisterServer(s *grpc.Server, eph Ephemeris) {
	s.RegisterService(&serviceDesc, &server{eph: eph})
}

// #endregion service-desc

// #region server
type server struct {
	eph Ephemeris
}

func (s *server) longitude(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()
	body, ok := ParseBody(fields["body"].GetStringValue())
	if !ok {
		return nil, unsupportedBody(fmt.Sprintf("unknown body %q", fields["body"].GetStringValue()))
	}
	t, err := time.Parse(time.RFC3339Nano, fields["instant"].GetStringValue())
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "instant: %v", err)
	}
	lon, err := s.eph.Longitude(ctx, body, t)
	if err != nil {
		return nil, toStatus(err)
	}
	return structpb.NewStruct(map[string]any{"longitude": lon})
}

func (s *server) sunrise(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()
	day, err := time.Parse(time.RFC3339, fields["day"].GetStringValue())
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "day: %v", err)
	}
	rise, err := s.eph.Sunrise(ctx, fields["lat"].GetNumberValue(), fields["lon"].GetNumberValue(), day)
	if err != nil {
		return nil, toStatus(err)
	}
	return structpb.NewStruct(map[string]any{"sunrise": rise.UTC().Format(time.RFC3339Nano)})
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, ErrOutOfRange):
		return status.Error(codes.OutOfRange, err.Error())
	case errors.Is(err, ErrNoSunrise):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, ErrUnsupportedBody):
		return unsupportedBody(err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

// unsupportedBody tags the InvalidArgument status so clients can tell it
// apart from malformed requests.
func unsupportedBody(msg string) error {
	st, err := status.New(codes.InvalidArgument, msg).WithDetails(&errdetails.ErrorInfo{
		Reason: reasonUnsupportedBody,
		Domain: serviceName,
	})
	if err != nil {
		return status.Error(codes.InvalidArgument, msg)
	}
	return st.Err()
}

// #endregion server

// #region handlers
func longitudeHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ephemerisServer).longitude(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: longitudeMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ephemerisServer).longitude(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func sunriseHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ephemerisServer).sunrise(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: sunriseMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ephemerisServer).sunrise(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// #endregion handlers
