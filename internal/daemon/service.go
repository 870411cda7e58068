package daemon

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"scrcpyctl/internal/store"
)

const (
	serviceName = "scrcpyctl.store.v1.Store"

	methodPing = "/" + serviceName + "/Ping"
	methodGet  = "/" + serviceName + "/Get"
	methodSet  = "/" + serviceName + "/Set"

	fieldKey   = "key"
	fieldValue = "value"

	pong = "pong"
)

// StoreServer is the daemon's RPC surface. Messages are protobuf well-known
// types: Get takes the key as a StringValue and Set takes a Struct with
// string fields "key" and "value".
type StoreServer interface {
	Ping(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error)
	Get(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
	Set(context.Context, *structpb.Struct) (*emptypb.Empty, error)
}

// RegisterStoreServer registers srv on s.
func RegisterStoreServer(s grpc.ServiceRegistrar, srv StoreServer) {
	s.RegisterService(&storeServiceDesc, srv)
}

var storeServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*StoreServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Ping", Handler: pingHandler},
		{MethodName: "Get", Handler: getHandler},
		{MethodName: "Set", Handler: setHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "scrcpyctl/store/v1/store.proto",
}

func pingHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StoreServer).Ping(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodPing}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(StoreServer).Ping(ctx, req.(*emptypb.Empty))
	})
}

func getHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StoreServer).Get(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodGet}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(StoreServer).Get(ctx, req.(*wrapperspb.StringValue))
	})
}

func setHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StoreServer).Set(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodSet}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(StoreServer).Set(ctx, req.(*structpb.Struct))
	})
}

// service implements StoreServer over any store.Store.
type service struct {
	backend store.Store
}

func newService(backend store.Store) *service {
	return &service{backend: backend}
}

func (s *service) Ping(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error) {
	return wrapperspb.String(pong), nil
}

func (s *service) Get(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	key := strings.TrimSpace(req.GetValue())
	if key == "" {
		return nil, status.Error(codes.InvalidArgument, "key is required")
	}
	value, err := s.backend.Get(ctx, key)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "get %s: %v", key, err)
	}
	return wrapperspb.String(value), nil
}

func (s *service) Set(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	fields := req.GetFields()
	key := strings.TrimSpace(fields[fieldKey].GetStringValue())
	if key == "" {
		return nil, status.Error(codes.InvalidArgument, "key is required")
	}
	value, ok := fields[fieldValue].GetKind().(*structpb.Value_StringValue)
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "value must be a string")
	}
	if err := s.backend.Set(ctx, key, value.StringValue); err != nil {
		return nil, status.Errorf(codes.Internal, "set %s: %v", key, err)
	}
	return &emptypb.Empty{}, nil
}

func setRequest(key, value string) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldKey:   structpb.NewStringValue(key),
		fieldValue: structpb.NewStringValue(value),
	}}
}
