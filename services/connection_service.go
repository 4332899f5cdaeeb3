//go:generate go run go.uber.org/mock/mockgen -source=connection_service.go -destination=../mocks/mock_connection_service.go -package=mocks
package services

import (
	"context"
	"dm-lab/contract"
	"dm-lab/domain"
	"dm-lab/domain/event"
	"dm-lab/dto"
	"dm-lab/errors"
	"dm-lab/repositories"
	"dm-lab/sink"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is one live connection of Username looking at the conversation with Other.
type Session struct {
	ID       string
	Username string
	Other    string
	Group    string
	Sink     *sink.ConnectionSink
	Thread   []domain.Message

	snapshot  map[string]struct{}
	keepAlive func()
}

// IsReplay reports whether e announces a message already part of Thread.
// The group is joined before the thread is loaded, so a message sent in
// between reaches the session twice.
func (s *Session) IsReplay(e event.GroupEvent) bool {
	if e.Name != event.NewMessage {
		return false
	}
	message, ok := e.Payload.(dto.MessageDto)
	if !ok {
		return false
	}
	_, seen := s.snapshot[message.ID]
	return seen
}

type IConnectionService interface {
	Open(ctx context.Context, username, other string) (*Session, error)
	Close(ctx context.Context, session *Session)
	OnlineUsers(ctx context.Context) ([]string, error)
}

// ConnectionService manages live connections for every transport.
type ConnectionService struct {
	log             *slog.Logger
	users           repositories.IUserRepository
	presence        contract.PresenceTracker
	hub             contract.GroupHub
	messages        IMessageService
	bufferSize      int
	refreshInterval time.Duration
}

// NewConnectionService refreshes the presence of open sessions every
// refreshInterval, a non positive interval disables the refresh.
func NewConnectionService(log *slog.Logger, users repositories.IUserRepository,
	presence contract.PresenceTracker, hub contract.GroupHub,
	messages IMessageService, bufferSize int, refreshInterval time.Duration) *ConnectionService {
	return &ConnectionService{
		log:             log,
		users:           users,
		presence:        presence,
		hub:             hub,
		messages:        messages,
		bufferSize:      bufferSize,
		refreshInterval: refreshInterval,
	}
}

// Open subscribes a new connection to the conversation group, marks the user
// online, acknowledges the messages waiting for them and loads the thread.
// Transports skip the events for which Session.IsReplay is true.
// The caller must Close the returned session.
func (s *ConnectionService) Open(ctx context.Context, username, other string) (*Session, error) {
	username = domain.NormalizeUsername(username)
	other = domain.NormalizeUsername(other)
	if username == other {
		return nil, errors.ErrSelfMessage
	}
	if _, err := s.users.GetUserByUsername(other); err != nil {
		return nil, err
	}

	session := &Session{
		ID:       uuid.NewString(),
		Username: username,
		Other:    other,
		Group:    domain.GroupName(username, other),
	}
	session.Sink = sink.NewConnectionSink(session.ID, s.bufferSize)
	s.hub.JoinGroup(session.ID, session.Group, session.Sink)

	first, err := s.presence.UserConnected(ctx, username, session.ID)
	if err != nil {
		s.log.Warn("Presence not recorded", "username", username, "error", err)
	} else if first {
		s.log.Info("User online", "username", username)
	}
	s.startKeepAlive(ctx, session)

	if _, err = s.messages.MarkThreadRead(ctx, username, other); err != nil {
		s.log.Warn("Thread not marked as read", "group", session.Group, "error", err)
	}

	thread, err := s.messages.GetMessageThread(ctx, username, other)
	if err != nil {
		s.Close(ctx, session)
		return nil, err
	}
	session.Thread = thread
	session.snapshot = make(map[string]struct{}, len(thread))
	for _, message := range thread {
		session.snapshot[message.ID.String()] = struct{}{}
	}

	s.log.Debug("Connection opened", "connection_id", session.ID, "group", session.Group)
	return session, nil
}

// Close may run after the transport context ended, it does not depend on ctx being alive.
func (s *ConnectionService) Close(ctx context.Context, session *Session) {
	if session.keepAlive != nil {
		session.keepAlive()
	}
	s.hub.LeaveGroup(session.ID, session.Group)

	last, err := s.presence.UserDisconnected(context.WithoutCancel(ctx), session.Username, session.ID)
	if err != nil {
		s.log.Warn("Presence not cleared", "username", session.Username, "error", err)
	} else if last {
		s.log.Info("User offline", "username", session.Username)
	}
	s.log.Debug("Connection closed", "connection_id", session.ID, "group", session.Group)
}

// startKeepAlive refreshes the session presence until Close.
// The stop function waits for the last refresh so it cannot land after UserDisconnected.
func (s *ConnectionService) startKeepAlive(ctx context.Context, session *Session) {
	if s.refreshInterval <= 0 {
		return
	}
	refreshCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(s.refreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-refreshCtx.Done():
				return
			case <-ticker.C:
				if err := s.presence.Refresh(refreshCtx, session.Username, session.ID); err != nil {
					s.log.Warn("Presence not refreshed", "username", session.Username, "error", err)
				}
			}
		}
	}()
	session.keepAlive = func() {
		cancel()
		wg.Wait()
	}
}

func (s *ConnectionService) OnlineUsers(ctx context.Context) ([]string, error) {
	return s.presence.OnlineUsers(ctx)
}
