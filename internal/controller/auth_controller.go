package controller

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"mannadome_backend/internal/auth"
	"mannadome_backend/internal/identity"
	"mannadome_backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AuthController struct {
	manager      *auth.Manager
	allowSignup  bool
	secureCookie bool
	log          *slog.Logger
}

func NewAuthController(manager *auth.Manager, allowSignup, secureCookie bool, log *slog.Logger) *AuthController {
	return &AuthController{
		manager:      manager,
		allowSignup:  allowSignup,
		secureCookie: secureCookie,
		log:          log,
	}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (ac *AuthController) Login(c *fiber.Ctx) error {
	var input credentials
	if err := parseBody(c, &input); err != nil {
		return invalidInput(c)
	}
	if strings.TrimSpace(input.Email) == "" || input.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Email and password are required",
		})
	}

	session, err := ac.manager.Authenticate(c.UserContext(), input.Email, input.Password)
	switch {
	// the cause is only told apart in the server log
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInactiveAccount):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	case err != nil:
		ac.log.Error("login", "email", input.Email, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Authentication failed",
		})
	}

	ac.setCookie(c, session.Token, session.Expires)
	ac.log.Info("admin signed in", "email", session.User.Email)
	return c.JSON(session)
}

// Signup registers a new admin. 202 means the address has to be confirmed
// before the first login.
func (ac *AuthController) Signup(c *fiber.Ctx) error {
	if !ac.allowSignup {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Sign up is disabled",
		})
	}

	var input credentials
	if err := parseBody(c, &input); err != nil {
		return invalidInput(c)
	}
	if strings.TrimSpace(input.Email) == "" || input.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Email and password are required",
		})
	}

	session, err := ac.manager.Register(c.UserContext(), input.Email, input.Password)
	switch {
	case errors.Is(err, identity.ErrEmailTaken):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Email already registered",
		})
	case errors.Is(err, identity.ErrInvalidCredentials):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "A valid email is required",
		})
	case errors.Is(err, identity.ErrWeakPassword):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	case err != nil:
		ac.log.Error("signup", "email", input.Email, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Sign up failed",
		})
	case session == nil:
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"message": "Check your email to confirm your account",
		})
	}

	ac.setCookie(c, session.Token, session.Expires)
	return c.Status(fiber.StatusCreated).JSON(session)
}

func (ac *AuthController) Me(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)
	if session == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}
	return c.JSON(fiber.Map{
		"user":    session.User.GetPublicProfile(),
		"expires": session.Expires,
	})
}

// Logout revokes the token and clears the cookie even when revocation fails.
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	if session := middleware.CurrentSession(c); session != nil {
		ac.manager.Revoke(c.UserContext(), session.Token)
	}
	ac.setCookie(c, "", time.Unix(0, 0))
	return c.JSON(fiber.Map{
		"message": "Logged out",
	})
}

func (ac *AuthController) setCookie(c *fiber.Ctx, token string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     auth.SessionKey,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   ac.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
