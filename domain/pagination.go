package domain

import (
	"math"
	"strings"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 50
)

// Container selects which side of the mailbox a query looks at.
type Container string

const (
	ContainerAll    Container = "All"
	ContainerInbox  Container = "Inbox"
	ContainerOutbox Container = "Outbox"
	ContainerUnread Container = "Unread"
)

// ParseContainer is case-insensitive and falls back to ContainerAll.
func ParseContainer(s string) Container {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "inbox":
		return ContainerInbox
	case "outbox":
		return ContainerOutbox
	case "unread":
		return ContainerUnread
	default:
		return ContainerAll
	}
}

// Matches reports whether message belongs to the container of username.
func (c Container) Matches(username string, message Message) bool {
	switch c {
	case ContainerInbox:
		return message.RecipientUsername == username
	case ContainerOutbox:
		return message.SenderUsername == username
	case ContainerUnread:
		return message.RecipientUsername == username && !message.IsRead()
	default:
		return message.Involves(username)
	}
}

type MessageParams struct {
	Username   string
	PageNumber int
	PageSize   int
	Container  Container
}

// Normalize clamps the page parameters into their valid range.
// The page number is capped so that Skip never overflows.
func (p MessageParams) Normalize() MessageParams {
	if p.PageNumber < 1 {
		p.PageNumber = 1
	}
	switch {
	case p.PageSize < 1:
		p.PageSize = DefaultPageSize
	case p.PageSize > MaxPageSize:
		p.PageSize = MaxPageSize
	}
	if lastPage := math.MaxInt / p.PageSize; p.PageNumber > lastPage {
		p.PageNumber = lastPage
	}
	if p.Container == "" {
		p.Container = ContainerAll
	}
	return p
}

// Skip is the number of items preceding the requested page.
// Pages too far to be counted skip everything.
func (p MessageParams) Skip() int {
	if p.PageNumber < 1 || p.PageSize < 1 {
		return 0
	}
	if p.PageNumber-1 > math.MaxInt/p.PageSize {
		return math.MaxInt
	}
	return (p.PageNumber - 1) * p.PageSize
}

// PagedList is one page of a larger ordered result.
type PagedList[T any] struct {
	Items       []T
	CurrentPage int
	PageSize    int
	TotalCount  int
	TotalPages  int
}

func NewPagedList[T any](items []T, totalCount, pageNumber, pageSize int) PagedList[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if pageSize > 0 {
		totalPages = (totalCount + pageSize - 1) / pageSize
	}
	return PagedList[T]{
		Items:       items,
		CurrentPage: pageNumber,
		PageSize:    pageSize,
		TotalCount:  totalCount,
		TotalPages:  totalPages,
	}
}
