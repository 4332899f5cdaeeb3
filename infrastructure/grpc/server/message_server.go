package server

import (
	"context"
	"dm-lab/auth"
	"dm-lab/domain"
	"dm-lab/domain/event"
	"dm-lab/dto"
	"dm-lab/errors"
	"dm-lab/infrastructure/grpc/api"
	"dm-lab/services"
	"encoding/json"
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type MessageServer struct {
	api.UnimplementedMessageServiceServer
	log         *slog.Logger
	messages    services.IMessageService
	connections services.IConnectionService
}

func NewMessageServer(log *slog.Logger, messages services.IMessageService,
	connections services.IConnectionService) *MessageServer {
	return &MessageServer{log: log, messages: messages, connections: connections}
}

func (s *MessageServer) SendMessage(ctx context.Context, req *api.SendMessageRequest) (*api.SendMessageResponse, error) {
	identity, err := callerOf(ctx)
	if err != nil {
		return nil, err
	}
	message, err := s.messages.SendMessage(ctx, identity.Username, req.RecipientUsername, req.Content)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &api.SendMessageResponse{Message: dto.FromMessage(message)}, nil
}

func (s *MessageServer) GetMessages(ctx context.Context, req *api.GetMessagesRequest) (*api.GetMessagesResponse, error) {
	identity, err := callerOf(ctx)
	if err != nil {
		return nil, err
	}
	page, err := s.messages.GetMessagesForUser(ctx, domain.MessageParams{
		Username:   identity.Username,
		PageNumber: int(req.Page),
		PageSize:   int(req.PageSize),
		Container:  domain.ParseContainer(req.Container),
	})
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &api.GetMessagesResponse{
		Messages:   dto.FromMessages(page.Items),
		Pagination: dto.FromPagedList(page),
	}, nil
}

func (s *MessageServer) GetMessageThread(ctx context.Context, req *api.GetMessageThreadRequest) (*api.GetMessageThreadResponse, error) {
	identity, err := callerOf(ctx)
	if err != nil {
		return nil, err
	}
	thread, err := s.messages.GetMessageThread(ctx, identity.Username, req.Username)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &api.GetMessageThreadResponse{Messages: dto.FromMessages(thread)}, nil
}

func (s *MessageServer) SearchMessages(ctx context.Context, req *api.SearchMessagesRequest) (*api.SearchMessagesResponse, error) {
	identity, err := callerOf(ctx)
	if err != nil {
		return nil, err
	}
	messages, total, err := s.messages.SearchMessages(ctx, identity.Username, req.Query, int(req.Limit))
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &api.SearchMessagesResponse{Messages: dto.FromMessages(messages), TotalCount: total}, nil
}

// Connect streams the conversation with req.Username: the thread first, then
// every event of the conversation group. It blocks until the client goes away.
func (s *MessageServer) Connect(req *api.ConnectRequest, stream grpc.ServerStreamingServer[api.ServerEvent]) error {
	ctx := stream.Context()
	identity, err := callerOf(ctx)
	if err != nil {
		return err
	}
	session, err := s.connections.Open(ctx, identity.Username, req.Username)
	if err != nil {
		return errors.MapToGRPCError(err)
	}
	defer s.connections.Close(ctx, session)

	if err = send(stream, event.ReceiveMessageThread, dto.FromMessages(session.Thread)); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			s.log.Debug("Client disconnected", "connection_id", session.ID, "group", session.Group)
			return nil
		case evt := <-session.Sink.Events:
			if session.IsReplay(evt) {
				continue
			}
			if err = send(stream, evt.Name, evt.Payload); err != nil {
				s.log.Error("Failed to push event to stream",
					"connection_id", session.ID,
					"group", session.Group,
					"event", evt.Name,
					"error", err)
				return err
			}
		}
	}
}

func send(stream grpc.ServerStreamingServer[api.ServerEvent], name event.Name, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return status.Errorf(codes.Internal, "encoding %s: %v", name, err)
	}
	return stream.Send(&api.ServerEvent{Event: string(name), Data: data})
}

// callerOf fails when the interceptor did not run for the method.
func callerOf(ctx context.Context) (auth.Identity, error) {
	identity, ok := auth.IdentityFrom(ctx)
	if !ok {
		return auth.Identity{}, status.Error(codes.Unauthenticated, errors.ErrUnauthenticated.Error())
	}
	return identity, nil
}
