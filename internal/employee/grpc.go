package employee

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// The directory speaks gRPC with well-known protobuf types as messages, so
// no generated stubs are needed:
//
//	GetEmployee(StringValue{id}) -> Struct{id, name, created_at}
//	VerifyPIN(Struct{id, pin})   -> Struct{ok, id, name}
const (
	ServiceName       = "comandas.employee.v1.Directory"
	methodGetEmployee = "/" + ServiceName + "/GetEmployee"
	methodVerifyPIN   = "/" + ServiceName + "/VerifyPIN"
)

type DirectoryServer interface {
	GetEmployee(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	VerifyPIN(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

func RegisterDirectoryServer(s grpc.ServiceRegistrar, srv DirectoryServer) {
	s.RegisterService(&directoryServiceDesc, srv)
}

func getEmployeeHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DirectoryServer).GetEmployee(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodGetEmployee}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DirectoryServer).GetEmployee(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func verifyPINHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DirectoryServer).VerifyPIN(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodVerifyPIN}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DirectoryServer).VerifyPIN(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

var directoryServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DirectoryServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetEmployee", Handler: getEmployeeHandler},
		{MethodName: "VerifyPIN", Handler: verifyPINHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "employee/grpc.go",
}
