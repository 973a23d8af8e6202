package middleware

import (
	"net/http/httptest"
	"testing"

	"mannadome_backend/pkg/config"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitPassThroughWithoutRedis(t *testing.T) {
	app := fiber.New()
	app.Post("/api/inquiries", RateLimit(config.RateLimitConfig{Enabled: true, Capacity: 1}, nil, nil), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})

	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/api/inquiries", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	}
}

func TestRateKey(t *testing.T) {
	assert.Equal(t, "rl:ip:1.2.3.4:route:POST /api/inquiries", rateKey("rl", "1.2.3.4", "POST", "/api/inquiries"))
	assert.Equal(t, "rl:ip:unknown:route:GET /", rateKey("rl", "", "GET", "/"))
}
