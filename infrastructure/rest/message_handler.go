package rest

import (
	"dm-lab/domain"
	"dm-lab/dto"
	"dm-lab/errors"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

func (s *Server) sendMessage(c *fiber.Ctx) error {
	var body dto.CreateMessageDto
	if err := c.BodyParser(&body); err != nil {
		return fmt.Errorf("%w: %w", errors.ErrInvalidRequest, err)
	}
	if err := s.validate.Struct(body); err != nil {
		return fmt.Errorf("%w: %w", errors.ErrInvalidRequest, err)
	}
	message, err := s.messages.SendMessage(c.UserContext(), identityOf(c).Username,
		body.RecipientUsername, body.Content)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromMessage(message))
}

// getMessages answers one mailbox page; the page metadata travels in the Pagination header.
func (s *Server) getMessages(c *fiber.Ctx) error {
	page, err := s.messages.GetMessagesForUser(c.UserContext(), domain.MessageParams{
		Username:   identityOf(c).Username,
		PageNumber: c.QueryInt("page", 1),
		PageSize:   c.QueryInt("pageSize", domain.DefaultPageSize),
		Container:  domain.ParseContainer(c.Query("container")),
	})
	if err != nil {
		return err
	}
	header, err := json.Marshal(dto.FromPagedList(page))
	if err != nil {
		return err
	}
	c.Set(PaginationHeader, string(header))
	return c.JSON(dto.FromMessages(page.Items))
}

func (s *Server) getMessageThread(c *fiber.Ctx) error {
	other := c.Params("username")
	if other == "" {
		return fmt.Errorf("%w: username is required", errors.ErrInvalidRequest)
	}
	thread, err := s.messages.GetMessageThread(c.UserContext(), identityOf(c).Username, other)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromMessages(thread))
}

func (s *Server) searchMessages(c *fiber.Ctx) error {
	messages, total, err := s.messages.SearchMessages(c.UserContext(), identityOf(c).Username,
		c.Query("q"), c.QueryInt("limit", domain.DefaultPageSize))
	if err != nil {
		return err
	}
	c.Set(TotalCountHeader, strconv.FormatUint(total, 10))
	return c.JSON(dto.FromMessages(messages))
}

func (s *Server) onlineUsers(c *fiber.Ctx) error {
	users, err := s.connections.OnlineUsers(c.UserContext())
	if err != nil {
		return err
	}
	if users == nil {
		users = []string{}
	}
	return c.JSON(users)
}
