package domain

import "strings"

// GroupSeparator joins the two participants of a conversation group.
// Usernames are restricted to alphanumeric characters, so it never appears inside one.
const GroupSeparator = "-"

// GroupName returns the conversation group shared by two users.
// The ordinally smaller username comes first, so the result does not depend on
// which participant initiated the conversation.
func GroupName(userA, userB string) string {
	if strings.Compare(userA, userB) < 0 {
		return userA + GroupSeparator + userB
	}
	return userB + GroupSeparator + userA
}

// NormalizeUsername is the canonical form usernames are stored and compared in.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
