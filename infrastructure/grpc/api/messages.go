// Package api declares the dm.v1 gRPC services: request and response types,
// service descriptors and typed clients.
package api

import (
	"dm-lab/dto"
	"encoding/json"
)

type SendMessageRequest struct {
	RecipientUsername string `json:"recipientUsername"`
	Content           string `json:"content"`
}

type SendMessageResponse struct {
	Message dto.MessageDto `json:"message"`
}

type GetMessagesRequest struct {
	Page      int32  `json:"page"`
	PageSize  int32  `json:"pageSize"`
	Container string `json:"container"`
}

type GetMessagesResponse struct {
	Messages   []dto.MessageDto `json:"messages"`
	Pagination dto.Pagination   `json:"pagination"`
}

type GetMessageThreadRequest struct {
	Username string `json:"username"`
}

type GetMessageThreadResponse struct {
	Messages []dto.MessageDto `json:"messages"`
}

type SearchMessagesRequest struct {
	Query string `json:"query"`
	Limit int32  `json:"limit"`
}

type SearchMessagesResponse struct {
	Messages   []dto.MessageDto `json:"messages"`
	TotalCount uint64           `json:"totalCount"`
}

// ConnectRequest opens the live conversation with Username.
type ConnectRequest struct {
	Username string `json:"username"`
}

// ServerEvent is one frame of the Connect stream. Data holds the JSON
// payload matching Event (thread, message, read receipt or error).
type ServerEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	KnownAs  string `json:"knownAs"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Account dto.AccountDto `json:"account"`
}
