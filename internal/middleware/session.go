package middleware

import (
	"context"
	"errors"
	"strings"

	"mannadome_backend/internal/auth"

	"github.com/gofiber/fiber/v2"
)

const sessionLocalKey = "session"

// SessionResolver turns a bearer token into a validated session.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*auth.Session, error)
}

// RequireSession rejects requests without a valid admin token. The token is
// taken from the Authorization header or the session cookie.
func RequireSession(resolver SessionResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, err := resolver.Resolve(c.UserContext(), TokenFromRequest(c))
		if err != nil {
			if isAuthError(err) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Authentication required",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not verify session",
			})
		}

		c.Locals(sessionLocalKey, session)
		return c.Next()
	}
}

// AdminGuard gates back-office pages. Visitors without a session are sent to
// loginPath; the login page itself is always reachable.
func AdminGuard(resolver SessionResolver, loginPath string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if strings.TrimSuffix(c.Path(), "/") == strings.TrimSuffix(loginPath, "/") {
			return c.Next()
		}

		session, err := resolver.Resolve(c.UserContext(), TokenFromRequest(c))
		if err != nil {
			return c.Redirect(loginPath, fiber.StatusFound)
		}

		c.Locals(sessionLocalKey, session)
		return c.Next()
	}
}

// CurrentSession returns the session placed on the request by RequireSession
// or AdminGuard.
func CurrentSession(c *fiber.Ctx) *auth.Session {
	session, _ := c.Locals(sessionLocalKey).(*auth.Session)
	return session
}

func TokenFromRequest(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return c.Cookies(auth.SessionKey)
}

func isAuthError(err error) bool {
	return errors.Is(err, auth.ErrAuthRequired) ||
		errors.Is(err, auth.ErrInvalidToken) ||
		errors.Is(err, auth.ErrInactiveAccount)
}
