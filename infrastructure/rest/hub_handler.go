package rest

import (
	"context"
	"dm-lab/auth"
	"dm-lab/domain/event"
	"dm-lab/dto"
	"dm-lab/errors"
	"dm-lab/services"
	"encoding/json"
	"sync"

	"github.com/gofiber/websocket/v2"
)

// Frame is the envelope of every websocket message sent to clients.
type Frame struct {
	Event event.Name `json:"event"`
	Data  any        `json:"data"`
}

// messageHub serves one live conversation: ?user= names the other participant.
// The thread is sent first, then every event of the conversation group.
// Incoming frames are CreateMessageDto and are sent on behalf of the caller.
func (s *Server) messageHub(c *websocket.Conn) {
	identity, _ := c.Locals(identityLocal).(auth.Identity)
	ctx, cancel := context.WithCancel(auth.WithIdentity(context.Background(), identity))
	defer cancel()

	session, err := s.connections.Open(ctx, identity.Username, c.Query("user"))
	if err != nil {
		_, message := errors.MapToHTTPStatus(err)
		_ = c.WriteJSON(Frame{Event: event.Error, Data: event.ErrorPayload{Message: message}})
		_ = c.Close()
		return
	}
	defer s.connections.Close(ctx, session)

	if err = c.WriteJSON(Frame{Event: event.ReceiveMessageThread, Data: dto.FromMessages(session.Thread)}); err != nil {
		s.log.Warn("Thread not delivered", "connection_id", session.ID, "error", err)
		return
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.writeEvents(ctx, c, session)
	}()

	s.readMessages(ctx, c, session)
	cancel()
	wg.Wait()
}

// writeEvents is the only writer of c once the thread has been sent.
func (s *Server) writeEvents(ctx context.Context, c *websocket.Conn, session *services.Session) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-session.Sink.Events:
			if session.IsReplay(evt) {
				continue
			}
			if err := c.WriteJSON(Frame{Event: evt.Name, Data: evt.Payload}); err != nil {
				s.log.Warn("Event not written to websocket",
					"connection_id", session.ID,
					"event", evt.Name,
					"error", err)
				_ = c.Close()
				return
			}
		}
	}
}

// readMessages returns when the client goes away.
func (s *Server) readMessages(ctx context.Context, c *websocket.Conn, session *services.Session) {
	for {
		_, data, err := c.ReadMessage()
		if err != nil {
			s.log.Debug("Websocket closed", "connection_id", session.ID, "error", err)
			return
		}
		var body dto.CreateMessageDto
		if err = json.Unmarshal(data, &body); err != nil {
			s.pushError(ctx, session, errors.ErrInvalidRequest)
			continue
		}
		if body.RecipientUsername == "" {
			body.RecipientUsername = session.Other
		}
		if _, err = s.messages.SendMessage(ctx, session.Username, body.RecipientUsername, body.Content); err != nil {
			s.pushError(ctx, session, err)
		}
	}
}

func (s *Server) pushError(ctx context.Context, session *services.Session, err error) {
	_, message := errors.MapToHTTPStatus(err)
	if pushErr := session.Sink.Push(ctx, event.Error, event.ErrorPayload{Message: message}); pushErr != nil {
		s.log.Warn("Error frame dropped", "connection_id", session.ID, "error", pushErr)
	}
}
