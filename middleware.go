package session

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Protected returns a middleware that resolves the caller's identity from a
// bearer token. Decoded claims are stored in the request locals under the
// configured context key; any decode failure or lapsed expiry yields a 401
// with a generic message.
func Protected(cfg Config, tokens TokenService) fiber.Handler {
	return ProtectedWithClock(cfg, tokens, time.Now)
}

// ProtectedWithClock is Protected with an injectable clock for tests.
func ProtectedWithClock(cfg Config, tokens TokenService, now func() time.Time) fiber.Handler {
	scheme := cfg.GetAuthScheme()
	contextKey := cfg.GetContextKey()

	return func(c *fiber.Ctx) error {
		raw := tokenFromHeader(c.Get(fiber.HeaderAuthorization), scheme)
		if raw == "" {
			return unauthorized(c)
		}

		claims, err := tokens.Decode(raw)
		if err != nil {
			return unauthorized(c)
		}

		if claims.ExpiredAt(now()) {
			return unauthorized(c)
		}

		c.Locals(contextKey, Claims(claims))
		return c.Next()
	}
}

func tokenFromHeader(header, scheme string) string {
	if header == "" {
		return ""
	}

	if scheme == "" {
		return header
	}

	prefix := scheme + " "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}

	return strings.TrimSpace(header[len(prefix):])
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"message": "not authorized",
	})
}
