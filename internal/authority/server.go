package authority

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// Handler decides a wager on the authority side.
type Handler interface {
	Resolve(ctx context.Context, req Request) (Response, error)
}

// structService is the wire-level contract behind serviceDesc.
type structService interface {
	Resolve(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
}

type server struct {
	h Handler
}

func (s server) Resolve(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := requestFromStruct(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	resp, err := s.h.Resolve(ctx, req)
	if err != nil {
		if _, ok := status.FromError(err); ok {
			return nil, err
		}
		return nil, status.Error(codes.Internal, err.Error())
	}
	return resp.toStruct()
}

func resolveHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(structService).Resolve(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodResolve}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(structService).Resolve(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*structService)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Resolve", Handler: resolveHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "underworld/authority/v1/authority.proto",
}

// Register mounts h on s.
func Register(s grpc.ServiceRegistrar, h Handler) {
	s.RegisterService(&serviceDesc, server{h: h})
}
