package hook

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	// ServiceName is the fully qualified gRPC service name.
	ServiceName = "ldocs.hook.v1.HookService"
	// InvokeFullMethod is the full name of the Invoke RPC.
	InvokeFullMethod = "/" + ServiceName + "/" + invokeMethod

	invokeMethod = "Invoke"

	fieldHook      = "hook"
	fieldContext   = "context"
	fieldCompleted = "completed"
)

// HookServiceServer is the server API of the hook service.
type HookServiceServer interface {
	Invoke(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// ServiceDesc describes the hook service for grpc.Server registration.
//
//nolint:gochecknoglobals // Mirrors what protoc-gen-go-grpc emits.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*HookServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: invokeMethod,
			Handler:    invokeHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "ldocs/hook/v1/hook.proto",
}

// RegisterHookServiceServer registers srv on s.
func RegisterHookServiceServer(s grpc.ServiceRegistrar, srv HookServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

//nolint:revive // Signature is fixed by grpc.MethodDesc.
func invokeHandler(
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(HookServiceServer).Invoke(ctx, in)
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: InvokeFullMethod,
	}

	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(HookServiceServer).Invoke(ctx, req.(*structpb.Struct))
	}

	return interceptor(ctx, in, info, handler)
}
