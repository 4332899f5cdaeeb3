// Package domain contains core concepts of the direct-messaging system.
// This file defines Message entities and their read-state rules.
// Messages are append-only: only the read timestamp may change after creation.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message represents one directed message between two users.
type Message struct {
	ID                uuid.UUID // unique identifier
	SenderID          string
	SenderUsername    string
	RecipientID       string
	RecipientUsername string
	Content           string
	CreatedAt         time.Time
	ReadAt            *time.Time // nil until read
}

// NewMessage builds an unread message from two resolved users.
func NewMessage(sender, recipient User, content string, at time.Time) Message {
	return Message{
		ID:                uuid.New(),
		SenderID:          sender.ID,
		SenderUsername:    sender.Username,
		RecipientID:       recipient.ID,
		RecipientUsername: recipient.Username,
		Content:           content,
		CreatedAt:         at,
	}
}

// IsRead reports whether the recipient has seen the message.
func (m Message) IsRead() bool {
	return m.ReadAt != nil
}

// MarkRead moves the message to the Read state.
// The transition is one-way: an already read message keeps its first timestamp,
// and the timestamp never precedes the creation time.
func (m *Message) MarkRead(at time.Time) bool {
	if m.ReadAt != nil {
		return false
	}
	if at.Before(m.CreatedAt) {
		at = m.CreatedAt
	}
	m.ReadAt = &at
	return true
}

// Group returns the conversation group the message belongs to.
func (m Message) Group() string {
	return GroupName(m.SenderUsername, m.RecipientUsername)
}

// Involves reports whether username is the sender or the recipient.
func (m Message) Involves(username string) bool {
	return m.SenderUsername == username || m.RecipientUsername == username
}
