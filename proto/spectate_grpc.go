// Package proto declares the spectator feed service. Its messages are
// protobuf well-known types, so the stubs are written by hand in the shape
// protoc-gen-go-grpc would produce for:
//
//	service Spectate {
//	  rpc Open(google.protobuf.StringValue) returns (google.protobuf.StringValue);
//	  rpc Publish(stream google.protobuf.Struct) returns (google.protobuf.Empty);
//	  rpc List(google.protobuf.Empty) returns (google.protobuf.ListValue);
//	  rpc Watch(google.protobuf.StringValue) returns (stream google.protobuf.Struct);
//	}
package proto

import (
	context "context"

	grpc "google.golang.org/grpc"
	codes "google.golang.org/grpc/codes"
	status "google.golang.org/grpc/status"
	emptypb "google.golang.org/protobuf/types/known/emptypb"
	structpb "google.golang.org/protobuf/types/known/structpb"
	wrapperspb "google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	Spectate_Open_FullMethodName    = "/tetris.v1.Spectate/Open"
	Spectate_Publish_FullMethodName = "/tetris.v1.Spectate/Publish"
	Spectate_List_FullMethodName    = "/tetris.v1.Spectate/List"
	Spectate_Watch_FullMethodName   = "/tetris.v1.Spectate/Watch"
)

// SpectateClient is the client API for Spectate service.
type SpectateClient interface {
	// Open registers a player session and returns its id.
	Open(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	// Publish streams the frames of an open session.
	Publish(ctx context.Context, opts ...grpc.CallOption) (grpc.ClientStreamingClient[structpb.Struct, emptypb.Empty], error)
	// List returns the open sessions.
	List(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error)
	// Watch streams the frames of a session, latest first.
	Watch(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (grpc.ServerStreamingClient[structpb.Struct], error)
}

type spectateClient struct {
	cc grpc.ClientConnInterface
}

func NewSpectateClient(cc grpc.ClientConnInterface) SpectateClient {
	return &spectateClient{cc}
}

func (c *spectateClient) Open(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	cOpts := append([]grpc.CallOption{grpc.StaticMethod()}, opts...)
	out := new(wrapperspb.StringValue)
	err := c.cc.Invoke(ctx, Spectate_Open_FullMethodName, in, out, cOpts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *spectateClient) Publish(ctx context.Context, opts ...grpc.CallOption) (grpc.ClientStreamingClient[structpb.Struct, emptypb.Empty], error) {
	cOpts := append([]grpc.CallOption{grpc.StaticMethod()}, opts...)
	stream, err := c.cc.NewStream(ctx, &Spectate_ServiceDesc.Streams[0], Spectate_Publish_FullMethodName, cOpts...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[structpb.Struct, emptypb.Empty]{ClientStream: stream}
	return x, nil
}

// This type alias is provided for backwards compatibility with existing code that references the prior non-generic stream type by name.
type Spectate_PublishClient = grpc.ClientStreamingClient[structpb.Struct, emptypb.Empty]

func (c *spectateClient) List(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	cOpts := append([]grpc.CallOption{grpc.StaticMethod()}, opts...)
	out := new(structpb.ListValue)
	err := c.cc.Invoke(ctx, Spectate_List_FullMethodName, in, out, cOpts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *spectateClient) Watch(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (grpc.ServerStreamingClient[structpb.Struct], error) {
	cOpts := append([]grpc.CallOption{grpc.StaticMethod()}, opts...)
	stream, err := c.cc.NewStream(ctx, &Spectate_ServiceDesc.Streams[1], Spectate_Watch_FullMethodName, cOpts...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[wrapperspb.StringValue, structpb.Struct]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

// This type alias is provided for backwards compatibility with existing code that references the prior non-generic stream type by name.
type Spectate_WatchClient = grpc.ServerStreamingClient[structpb.Struct]

// SpectateServer is the server API for Spectate service.
// All implementations must embed UnimplementedSpectateServer
// for forward compatibility.
type SpectateServer interface {
	Open(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
	Publish(grpc.ClientStreamingServer[structpb.Struct, emptypb.Empty]) error
	List(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	Watch(*wrapperspb.StringValue, grpc.ServerStreamingServer[structpb.Struct]) error
	mustEmbedUnimplementedSpectateServer()
}

// UnimplementedSpectateServer must be embedded to have
// forward compatible implementations.
//
// NOTE: this should be embedded by value instead of pointer to avoid a nil
// pointer dereference when methods are called.
type UnimplementedSpectateServer struct{}

func (UnimplementedSpectateServer) Open(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Open not implemented")
}
func (UnimplementedSpectateServer) Publish(grpc.ClientStreamingServer[structpb.Struct, emptypb.Empty]) error {
	return status.Errorf(codes.Unimplemented, "method Publish not implemented")
}
func (UnimplementedSpectateServer) List(context.Context, *emptypb.Empty) (*structpb.ListValue, error) {
	return nil, status.Errorf(codes.Unimplemented, "method List not implemented")
}
func (UnimplementedSpectateServer) Watch(*wrapperspb.StringValue, grpc.ServerStreamingServer[structpb.Struct]) error {
	return status.Errorf(codes.Unimplemented, "method Watch not implemented")
}
func (UnimplementedSpectateServer) mustEmbedUnimplementedSpectateServer() {}
func (UnimplementedSpectateServer) testEmbeddedByValue()                  {}

func RegisterSpectateServer(s grpc.ServiceRegistrar, srv SpectateServer) {
	// If the following call panics, it indicates UnimplementedSpectateServer was
	// embedded by pointer and is nil. This will cause panics if an
	// unimplemented method is ever invoked, so we test this at initialization
	// time to prevent it from happening at runtime later due to I/O.
	if t, ok := srv.(interface{ testEmbeddedByValue() }); ok {
		t.testEmbeddedByValue()
	}
	s.RegisterService(&Spectate_ServiceDesc, srv)
}

func _Spectate_Open_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SpectateServer).Open(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Spectate_Open_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SpectateServer).Open(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _Spectate_Publish_Handler(srv interface{}, stream grpc.ServerStream) error {
	return srv.(SpectateServer).Publish(&grpc.GenericServerStream[structpb.Struct, emptypb.Empty]{ServerStream: stream})
}

// This type alias is provided for backwards compatibility with existing code that references the prior non-generic stream type by name.
type Spectate_PublishServer = grpc.ClientStreamingServer[structpb.Struct, emptypb.Empty]

func _Spectate_List_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SpectateServer).List(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Spectate_List_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SpectateServer).List(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _Spectate_Watch_Handler(srv interface{}, stream grpc.ServerStream) error {
	m := new(wrapperspb.StringValue)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(SpectateServer).Watch(m, &grpc.GenericServerStream[wrapperspb.StringValue, structpb.Struct]{ServerStream: stream})
}

// This type alias is provided for backwards compatibility with existing code that references the prior non-generic stream type by name.
type Spectate_WatchServer = grpc.ServerStreamingServer[structpb.Struct]

// Spectate_ServiceDesc is the grpc.ServiceDesc for Spectate service.
// It's only intended for direct use with grpc.RegisterService,
// and not to be introspected or modified (even as a copy)
var Spectate_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "tetris.v1.Spectate",
	HandlerType: (*SpectateServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Open",
			Handler:    _Spectate_Open_Handler,
		},
		{
			MethodName: "List",
			Handler:    _Spectate_List_Handler,
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Publish",
			Handler:       _Spectate_Publish_Handler,
			ClientStreams: true,
		},
		{
			StreamName:    "Watch",
			Handler:       _Spectate_Watch_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "tetris/v1/spectate.proto",
}
