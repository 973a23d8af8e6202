package controller

import (
	"errors"
	"log/slog"

	"mannadome_backend/internal/middleware"
	"mannadome_backend/internal/repository"

	"github.com/gofiber/fiber/v2"
)

// respondError maps data access errors to HTTP responses. Driver messages
// are only included when detail is set (admin routes).
func respondError(c *fiber.Ctx, log *slog.Logger, err error, detail bool, notFound, failure string) error {
	var verr *repository.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": verr.Message,
			"field": verr.Field,
		})
	case errors.Is(err, repository.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": notFound,
		})
	}

	log.Error(failure, "path", c.Path(), "error", err)
	body := fiber.Map{"error": failure}
	if detail {
		body["message"] = err.Error()
	}
	return c.Status(fiber.StatusInternalServerError).JSON(body)
}

func invalidInput(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Invalid input",
	})
}

// parseBody decodes a JSON body. An empty body decodes as {}.
func parseBody(c *fiber.Ctx, out interface{}) error {
	if len(c.Body()) == 0 {
		return nil
	}
	return c.BodyParser(out)
}

// actor names the signed-in admin for audit log lines.
func actor(c *fiber.Ctx) string {
	if session := middleware.CurrentSession(c); session != nil {
		return session.User.Email
	}
	return ""
}
