package main

import (
	"dm-lab/repositories"
	"fmt"
	"strings"

	"github.com/mama165/sdk-go/database"
)

// RecordMapper renders the primary records in the debug inspector.
// Index keys carry no value and keep the default rendering.
func RecordMapper(key string, val []byte) database.InspectRow {
	row := database.DefaultMapper(key, val)

	switch {
	case strings.HasPrefix(key, repositories.MessagePrefix):
		message, err := repositories.DecodeMessage(val)
		if err != nil {
			row.Detail = "Error: decode failed"
			return row
		}
		row.Type = "MESSAGE"
		state := "unread"
		if message.IsRead() {
			state = "read " + message.ReadAt.Format("15:04:05")
		}
		row.Detail = fmt.Sprintf("%s -> %s (%s): %s",
			message.SenderUsername, message.RecipientUsername, state, message.Content)
	case strings.HasPrefix(key, repositories.UserPrefix):
		user, err := repositories.DecodeUser(val)
		if err != nil {
			row.Detail = "Error: decode failed"
			return row
		}
		row.Type = "USER"
		row.Detail = fmt.Sprintf("%s (%s) %v", user.Username, user.KnownAs, user.Roles)
	}
	return row
}
