// Package dto holds the shapes exchanged with clients over HTTP, websocket,
// gRPC and the event stream. Field names are part of the public protocol.
package dto

import (
	"dm-lab/domain"
	"time"

	"github.com/samber/lo"
)

type MessageDto struct {
	ID                string     `json:"id"`
	SenderID          string     `json:"senderId"`
	SenderUsername    string     `json:"senderUsername"`
	RecipientID       string     `json:"recipientId"`
	RecipientUsername string     `json:"recipientUsername"`
	Content           string     `json:"content"`
	MessageSent       time.Time  `json:"messageSent"`
	DateRead          *time.Time `json:"dateRead"`
}

// Participants lists both usernames, sender first.
func (m MessageDto) Participants() []string {
	return []string{m.SenderUsername, m.RecipientUsername}
}

type CreateMessageDto struct {
	RecipientUsername string `json:"recipientUsername" validate:"required"`
	Content           string `json:"content" validate:"required"`
}

// Pagination is serialized in the Pagination response header.
type Pagination struct {
	CurrentPage int `json:"currentPage"`
	PageSize    int `json:"pageSize"`
	TotalCount  int `json:"totalCount"`
	TotalPages  int `json:"totalPages"`
}

func FromMessage(message domain.Message) MessageDto {
	return MessageDto{
		ID:                message.ID.String(),
		SenderID:          message.SenderID,
		SenderUsername:    message.SenderUsername,
		RecipientID:       message.RecipientID,
		RecipientUsername: message.RecipientUsername,
		Content:           message.Content,
		MessageSent:       message.CreatedAt,
		DateRead:          message.ReadAt,
	}
}

func FromMessages(messages []domain.Message) []MessageDto {
	return lo.Map(messages, func(item domain.Message, _ int) MessageDto {
		return FromMessage(item)
	})
}

func FromPagedList[T any](list domain.PagedList[T]) Pagination {
	return Pagination{
		CurrentPage: list.CurrentPage,
		PageSize:    list.PageSize,
		TotalCount:  list.TotalCount,
		TotalPages:  list.TotalPages,
	}
}
