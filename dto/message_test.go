package dto

import (
	"dm-lab/domain"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFromMessage_Json_Shape(t *testing.T) {
	req := require.New(t)
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	message := domain.NewMessage(
		domain.User{ID: "1", Username: "alice"},
		domain.User{ID: "2", Username: "bob"},
		"hi", at)

	// Given an unread message
	raw, err := json.Marshal(FromMessage(message))
	req.NoError(err)

	// Then dateRead is explicitly null
	var fields map[string]any
	req.NoError(json.Unmarshal(raw, &fields))
	req.Equal(message.ID.String(), fields["id"])
	req.Equal("alice", fields["senderUsername"])
	req.Equal("bob", fields["recipientUsername"])
	req.Equal("2025-03-01T10:00:00Z", fields["messageSent"])
	req.Contains(fields, "dateRead")
	req.Nil(fields["dateRead"])
}

func TestFromMessages_Empty(t *testing.T) {
	req := require.New(t)
	dtos := FromMessages([]domain.Message{})
	req.NotNil(dtos)
	req.Empty(dtos)
}

func TestFromPagedList(t *testing.T) {
	req := require.New(t)
	list := domain.NewPagedList([]int{1, 2}, 12, 2, 5)
	req.Equal(Pagination{CurrentPage: 2, PageSize: 5, TotalCount: 12, TotalPages: 3}, FromPagedList(list))
}
