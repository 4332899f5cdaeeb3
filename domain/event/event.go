// Package event defines what travels through the fan-out pipeline.
package event

import "time"

// Name identifies an event for subscribers. Values are part of the public
// protocol spoken to websocket and gRPC clients.
type Name string

const (
	NewMessage           Name = "NewMessage"
	MessagesRead         Name = "MessagesRead"
	ReceiveMessageThread Name = "ReceiveMessageThread"
	Error                Name = "Error"
)

// GroupEvent is published once and delivered to every connection subscribed
// to Group, plus the permanent sinks.
type GroupEvent struct {
	Group   string
	Name    Name
	Payload any
	At      time.Time
}

// MessagesReadPayload tells the sender side that reader caught up.
type MessagesReadPayload struct {
	Username string `json:"username"`
	Count    int    `json:"count"`
}

// ErrorPayload is pushed to a single connection when one of its requests fails.
type ErrorPayload struct {
	Message string `json:"message"`
}
