package errors

import "fmt"

var (
	ErrWorkerPanic = fmt.Errorf("worker panic")
	ErrEmptyWords  = fmt.Errorf("no words have been found")

	// Message delivery
	ErrSelfMessage       = fmt.Errorf("you cannot send messages to yourself")
	ErrEmptyContent      = fmt.Errorf("message content cannot be empty")
	ErrContentTooLong    = fmt.Errorf("message content is too long")
	ErrRecipientNotFound = fmt.Errorf("recipient not found")
	ErrSenderNotFound    = fmt.Errorf("sender not found")
	ErrPersistenceFailed = fmt.Errorf("failed to send message")
	ErrMessageNotFound   = fmt.Errorf("message not found")

	// Fan-out
	ErrFanoutSaturated = fmt.Errorf("fan-out channel is full")
	ErrInvalidPayload  = fmt.Errorf("invalid event payload")

	// Accounts
	ErrUserNotFound       = fmt.Errorf("user not found")
	ErrUserAlreadyExists  = fmt.Errorf("username is taken")
	ErrInvalidUsername    = fmt.Errorf("invalid username")
	ErrInvalidPassword    = fmt.Errorf("password does not meet complexity requirements")
	ErrInvalidCredentials = fmt.Errorf("invalid username or password")
	ErrTokenGeneration    = fmt.Errorf("failed to generate token")
	ErrUnauthenticated    = fmt.Errorf("unauthenticated")

	ErrInvalidRequest    = fmt.Errorf("invalid request")
	ErrSearchUnavailable = fmt.Errorf("search is unavailable")
)
