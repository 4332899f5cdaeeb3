package rest

import (
	"dm-lab/auth"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	identityLocal    = "identity"
	accessTokenQuery = "access_token"
)

// JWTAuth rejects requests without a valid bearer token and stores the caller
// identity in the request locals. Browsers cannot set headers on a websocket
// handshake, so the token is also accepted in the access_token query parameter.
func JWTAuth(tokens *auth.TokenManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := strings.TrimSpace(strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer "))
		if token == "" {
			token = c.Query(accessTokenQuery)
		}
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing token")
		}
		claims, err := tokens.ValidateToken(token)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}
		c.Locals(identityLocal, claims.Identity())
		return c.Next()
	}
}

// identityOf is only called behind JWTAuth.
func identityOf(c *fiber.Ctx) auth.Identity {
	identity, _ := c.Locals(identityLocal).(auth.Identity)
	return identity
}
