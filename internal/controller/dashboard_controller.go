package controller

import (
	"context"
	"log/slog"
	"time"

	"mannadome_backend/internal/repository"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type DashboardController struct {
	stats *repository.StatsRepo
	log   *slog.Logger
	now   func() time.Time
}

func NewDashboardController(stats *repository.StatsRepo, log *slog.Logger) *DashboardController {
	return &DashboardController{stats: stats, log: log, now: time.Now}
}

func (dc *DashboardController) GetStats(c *fiber.Ctx) error {
	stats, err := dc.stats.Dashboard(c.UserContext(), dc.now())
	if err != nil {
		return respondError(c, dc.log, err, true, "", "Failed to fetch dashboard stats")
	}
	return c.JSON(stats)
}

// Health pings the database.
func Health(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sqlDB, err := db.DB()
		if err == nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "unavailable",
			})
		}
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	}
}
