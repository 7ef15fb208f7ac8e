package user

import (
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v2"
)

// NewAuthMiddleware returns the jwt guard installed in front of every
// protected route. A missing, malformed or badly signed token is answered
// with 401 and the same JSON error shape the handlers use, not the
// middleware's default plain-text 400.
func NewAuthMiddleware(secret string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: []byte(secret),
		ErrorHandler: func(c *fiber.Ctx, _ error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
		},
	})
}
