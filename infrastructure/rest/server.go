// Package rest exposes the messaging services over HTTP and websocket with fiber.
package rest

import (
	"dm-lab/auth"
	"dm-lab/errors"
	"dm-lab/services"
	"log/slog"

	goerrors "errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

const (
	PaginationHeader = "Pagination"
	TotalCountHeader = "X-Total-Count"
)

type Server struct {
	log         *slog.Logger
	tokens      *auth.TokenManager
	messages    services.IMessageService
	connections services.IConnectionService
	accounts    services.IAuthService
	validate    *validator.Validate
}

func NewServer(log *slog.Logger, tokens *auth.TokenManager, messages services.IMessageService,
	connections services.IConnectionService, accounts services.IAuthService) *Server {
	return &Server{
		log:         log,
		tokens:      tokens,
		messages:    messages,
		connections: connections,
		accounts:    accounts,
		validate:    validator.New(),
	}
}

// App builds the fiber application with every route mounted.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "dm-lab",
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	account := app.Group("/api/account")
	account.Post("/register", s.register)
	account.Post("/login", s.login)

	api := app.Group("/api", JWTAuth(s.tokens))
	api.Post("/messages", s.sendMessage)
	api.Get("/messages", s.getMessages)
	api.Get("/messages/search", s.searchMessages)
	api.Get("/messages/thread/:username", s.getMessageThread)
	api.Get("/presence", s.onlineUsers)

	hubs := app.Group("/hubs", JWTAuth(s.tokens))
	hubs.Get("/message", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	hubs.Get("/message", websocket.New(s.messageHub))

	return app
}

// handleError turns domain errors into the HTTP error envelope.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if goerrors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
	}
	code, message := errors.MapToHTTPStatus(err)
	if code >= fiber.StatusInternalServerError {
		s.log.Error("Request failed", "method", c.Method(), "path", c.Path(), "error", err)
	}
	return c.Status(code).JSON(fiber.Map{"error": message})
}
