// Package domain contains core concepts of the direct-messaging system.
// This file defines User entities, the participants of a conversation.
// No runtime, network, or UI logic should be added here.
package domain

import "time"

const RoleMember = "member"

type User struct {
	ID           string
	Username     string
	KnownAs      string
	PasswordHash string
	Roles        []string
	CreatedAt    time.Time
}
