package rest

import (
	"dm-lab/dto"
	"dm-lab/errors"
	"dm-lab/services"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

func (s *Server) register(c *fiber.Ctx) error {
	var body dto.RegisterDto
	if err := c.BodyParser(&body); err != nil {
		return fmt.Errorf("%w: %w", errors.ErrInvalidRequest, err)
	}
	account, err := s.accounts.Register(body.Username, body.KnownAs, body.Password)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toAccountDto(account))
}

func (s *Server) login(c *fiber.Ctx) error {
	var body dto.LoginDto
	if err := c.BodyParser(&body); err != nil {
		return fmt.Errorf("%w: %w", errors.ErrInvalidRequest, err)
	}
	account, err := s.accounts.Login(body.Username, body.Password)
	if err != nil {
		return err
	}
	return c.JSON(toAccountDto(account))
}

func toAccountDto(account services.Account) dto.AccountDto {
	return dto.AccountDto{
		Username: account.User.Username,
		KnownAs:  account.User.KnownAs,
		Token:    account.Token,
	}
}
