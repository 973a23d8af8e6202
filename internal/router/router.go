// Package router assembles the fiber application and its routes.
package router

import (
	"log/slog"
	"strings"

	"mannadome_backend/internal/auth"
	"mannadome_backend/internal/controller"
	"mannadome_backend/internal/middleware"
	"mannadome_backend/internal/repository"
	"mannadome_backend/pkg/cache"
	"mannadome_backend/pkg/config"
	"mannadome_backend/pkg/events"
	"mannadome_backend/pkg/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const adminLoginPath = "/admin/login"

// Deps are the shared services the handlers run on. Redis, Cache, Mailer and
// Publisher may be nil.
type Deps struct {
	Config    *config.Config
	DB        *gorm.DB
	Log       *slog.Logger
	Sessions  *auth.Manager
	Blob      storage.BlobStore
	Redis     *redis.Client
	Cache     *cache.Cache
	Mailer    controller.InquiryMailer
	Publisher events.Publisher

	// UploadsDir is served under /uploads when images are kept on disk.
	UploadsDir string
}

func NewApp(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   "mannadome-api",
		BodyLimit: 12 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowCredentials: cfg.Server.CORSOrigins != "*",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
	}))

	return app
}

func Setup(app *fiber.App, d Deps) {
	cfg := d.Config

	properties := repository.NewPropertyRepo(d.DB)
	propertyController := controller.NewPropertyController(properties, d.Cache, d.Log)
	inquiryController := controller.NewInquiryController(
		repository.NewInquiryRepo(d.DB), properties, d.Mailer, cfg.Email.NotifyTo, d.Publisher, d.Log)
	testimonialController := controller.NewTestimonialController(repository.NewTestimonialRepo(d.DB), d.Cache, d.Log)
	authController := controller.NewAuthController(d.Sessions, cfg.Auth.AllowSignup, cfg.Server.SecureCookies, d.Log)
	uploadController := controller.NewUploadController(d.Blob, d.Log)
	dashboardController := controller.NewDashboardController(repository.NewStatsRepo(d.DB), d.Log)

	limit := middleware.RateLimit(cfg.RateLimit, d.Redis, d.Log)
	requireSession := middleware.RequireSession(d.Sessions)

	app.Get("/healthz", controller.Health(d.DB))

	api := app.Group("/api")

	// Auth Routes
	authGroup := api.Group("/auth")
	authGroup.Post("/login", limit, authController.Login)
	authGroup.Post("/signup", limit, authController.Signup)
	authGroup.Get("/me", requireSession, authController.Me)
	authGroup.Post("/logout", requireSession, authController.Logout)

	// Properties
	api.Get("/properties", propertyController.ListProperties)
	api.Get("/properties/:id", propertyController.GetProperty)
	api.Post("/properties", requireSession, propertyController.CreateProperty)
	api.Put("/properties/:id", requireSession, propertyController.UpdateProperty)
	api.Delete("/properties/:id", requireSession, propertyController.DeleteProperty)

	// Inquiries: public submission, admin workflow
	api.Post("/inquiries", limit, inquiryController.CreateInquiry)
	api.Get("/inquiries", requireSession, inquiryController.ListInquiries)
	api.Get("/inquiries/:id", requireSession, inquiryController.GetInquiry)
	api.Put("/inquiries/:id", requireSession, inquiryController.UpdateInquiry)
	api.Delete("/inquiries/:id", requireSession, inquiryController.DeleteInquiry)

	// Testimonials
	api.Get("/testimonials", testimonialController.ListTestimonials)
	api.Get("/testimonials/:id", testimonialController.GetTestimonial)
	api.Post("/testimonials", requireSession, testimonialController.CreateTestimonial)
	api.Put("/testimonials/:id", requireSession, testimonialController.UpdateTestimonial)
	api.Delete("/testimonials/:id", requireSession, testimonialController.DeleteTestimonial)

	api.Post("/upload", requireSession, uploadController.UploadImage)
	api.Delete("/upload", requireSession, uploadController.DeleteImage)

	api.Get("/dashboard/stats", requireSession, dashboardController.GetStats)

	if d.UploadsDir != "" {
		app.Static("/uploads", d.UploadsDir)
	}

	if dir := strings.TrimSpace(cfg.Server.AdminAssetsDir); dir != "" {
		app.Use("/admin", middleware.AdminGuard(d.Sessions, adminLoginPath))
		app.Static("/admin", dir, fiber.Static{Index: "index.html"})
		app.Get(adminLoginPath, func(c *fiber.Ctx) error {
			return c.SendFile(dir + "/login.html")
		})
	}
}
