package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	MessageService_SendMessage_FullMethodName      = "/dm.v1.MessageService/SendMessage"
	MessageService_GetMessages_FullMethodName      = "/dm.v1.MessageService/GetMessages"
	MessageService_GetMessageThread_FullMethodName = "/dm.v1.MessageService/GetMessageThread"
	MessageService_SearchMessages_FullMethodName   = "/dm.v1.MessageService/SearchMessages"
	MessageService_Connect_FullMethodName          = "/dm.v1.MessageService/Connect"
	AuthService_Register_FullMethodName           = "/dm.v1.AuthService/Register"
	AuthService_Login_FullMethodName              = "/dm.v1.AuthService/Login"
)

// PublicMethods need no bearer token.
var PublicMethods = []string{AuthService_Register_FullMethodName, AuthService_Login_FullMethodName}

type MessageServiceServer interface {
	SendMessage(context.Context, *SendMessageRequest) (*SendMessageResponse, error)
	GetMessages(context.Context, *GetMessagesRequest) (*GetMessagesResponse, error)
	GetMessageThread(context.Context, *GetMessageThreadRequest) (*GetMessageThreadResponse, error)
	SearchMessages(context.Context, *SearchMessagesRequest) (*SearchMessagesResponse, error)
	Connect(*ConnectRequest, grpc.ServerStreamingServer[ServerEvent]) error
}

type AuthServiceServer interface {
	Register(context.Context, *RegisterRequest) (*AuthResponse, error)
	Login(context.Context, *LoginRequest) (*AuthResponse, error)
}

// UnimplementedMessageServiceServer answers Unimplemented to every call.
type UnimplementedMessageServiceServer struct{}

func (UnimplementedMessageServiceServer) SendMessage(context.Context, *SendMessageRequest) (*SendMessageResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SendMessage not implemented")
}
func (UnimplementedMessageServiceServer) GetMessages(context.Context, *GetMessagesRequest) (*GetMessagesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetMessages not implemented")
}
func (UnimplementedMessageServiceServer) GetMessageThread(context.Context, *GetMessageThreadRequest) (*GetMessageThreadResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetMessageThread not implemented")
}
func (UnimplementedMessageServiceServer) SearchMessages(context.Context, *SearchMessagesRequest) (*SearchMessagesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SearchMessages not implemented")
}
func (UnimplementedMessageServiceServer) Connect(*ConnectRequest, grpc.ServerStreamingServer[ServerEvent]) error {
	return status.Error(codes.Unimplemented, "method Connect not implemented")
}

type UnimplementedAuthServiceServer struct{}

func (UnimplementedAuthServiceServer) Register(context.Context, *RegisterRequest) (*AuthResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Register not implemented")
}
func (UnimplementedAuthServiceServer) Login(context.Context, *LoginRequest) (*AuthResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Login not implemented")
}

func RegisterMessageServiceServer(s grpc.ServiceRegistrar, srv MessageServiceServer) {
	s.RegisterService(&MessageService_ServiceDesc, srv)
}

func RegisterAuthServiceServer(s grpc.ServiceRegistrar, srv AuthServiceServer) {
	s.RegisterService(&AuthService_ServiceDesc, srv)
}

var MessageService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "dm.v1.MessageService",
	HandlerType: (*MessageServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SendMessage", Handler: unary(MessageService_SendMessage_FullMethodName, MessageServiceServer.SendMessage)},
		{MethodName: "GetMessages", Handler: unary(MessageService_GetMessages_FullMethodName, MessageServiceServer.GetMessages)},
		{MethodName: "GetMessageThread", Handler: unary(MessageService_GetMessageThread_FullMethodName, MessageServiceServer.GetMessageThread)},
		{MethodName: "SearchMessages", Handler: unary(MessageService_SearchMessages_FullMethodName, MessageServiceServer.SearchMessages)},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Connect",
			Handler:       connectHandler,
			ServerStreams: true,
		},
	},
	Metadata: "dm/v1/dm.proto",
}

var AuthService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "dm.v1.AuthService",
	HandlerType: (*AuthServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Register", Handler: unary(AuthService_Register_FullMethodName, AuthServiceServer.Register)},
		{MethodName: "Login", Handler: unary(AuthService_Login_FullMethodName, AuthServiceServer.Login)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "dm/v1/dm.proto",
}

// unary adapts a typed server method to a grpc.MethodHandler, running the interceptor chain.
func unary[S any, Req any, Res any](fullMethod string, call func(S, context.Context, *Req) (*Res, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(S), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(S), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func connectHandler(srv any, stream grpc.ServerStream) error {
	in := new(ConnectRequest)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(MessageServiceServer).Connect(in, &grpc.GenericServerStream[ConnectRequest, ServerEvent]{ServerStream: stream})
}
