package controller

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"

	"mannadome_backend/internal/repository"
	"mannadome_backend/pkg/cache"

	"github.com/gofiber/fiber/v2"
)

type TestimonialController struct {
	repo  *repository.TestimonialRepo
	cache *cache.Cache
	log   *slog.Logger
}

func NewTestimonialController(repo *repository.TestimonialRepo, c *cache.Cache, log *slog.Logger) *TestimonialController {
	return &TestimonialController{repo: repo, cache: c, log: log}
}

// testimonialBody is the wire form. Older admin screens send client_name;
// it is folded into name here and nowhere else.
type testimonialBody struct {
	Name       *string              `json:"name"`
	ClientName *string              `json:"client_name"`
	Content    *string              `json:"content"`
	Rating     *repository.FlexInt  `json:"rating"`
	Featured   *repository.FlexBool `json:"featured"`
}

func (b testimonialBody) name() *string {
	if b.Name != nil && strings.TrimSpace(*b.Name) != "" {
		return b.Name
	}
	if b.ClientName != nil {
		return b.ClientName
	}
	return b.Name
}

func (b testimonialBody) rating() *int {
	if b.Rating == nil {
		return nil
	}
	v := int(*b.Rating)
	return &v
}

func (b testimonialBody) featured() *bool {
	if b.Featured == nil {
		return nil
	}
	v := bool(*b.Featured)
	return &v
}

func (tc *TestimonialController) ListTestimonials(c *fiber.Ctx) error {
	var featured *bool
	if raw := c.Query("featured"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "featured must be true or false",
			})
		}
		featured = &v
	}

	key := "testimonials?" + string(c.Request().URI().QueryString())
	if body, ok := tc.cache.Get(key); ok {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(body)
	}

	gen := tc.cache.Generation()
	testimonials, err := tc.repo.List(c.UserContext(), featured)
	if err != nil {
		return respondError(c, tc.log, err, false, "", "Failed to fetch testimonials")
	}

	body, err := json.Marshal(testimonials)
	if err != nil {
		return err
	}
	tc.cache.Set(gen, key, body)

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}

func (tc *TestimonialController) GetTestimonial(c *fiber.Ctx) error {
	testimonial, err := tc.repo.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, tc.log, err, false, "Testimonial not found", "Failed to fetch testimonial")
	}
	return c.JSON(testimonial)
}

func (tc *TestimonialController) CreateTestimonial(c *fiber.Ctx) error {
	var body testimonialBody
	if err := parseBody(c, &body); err != nil {
		return invalidInput(c)
	}

	input := repository.TestimonialInput{
		Rating:   body.rating(),
		Featured: body.featured(),
	}
	if name := body.name(); name != nil {
		input.Name = *name
	}
	if body.Content != nil {
		input.Content = *body.Content
	}
	if strings.TrimSpace(input.Name) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Name is required"})
	}
	if strings.TrimSpace(input.Content) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Content is required"})
	}

	testimonial, err := tc.repo.Create(c.UserContext(), input)
	if err != nil {
		return respondError(c, tc.log, err, true, "", "Failed to create testimonial")
	}
	tc.cache.Purge()

	return c.Status(fiber.StatusCreated).JSON(testimonial)
}

func (tc *TestimonialController) UpdateTestimonial(c *fiber.Ctx) error {
	var body testimonialBody
	if err := parseBody(c, &body); err != nil {
		return invalidInput(c)
	}

	testimonial, err := tc.repo.Update(c.UserContext(), c.Params("id"), repository.TestimonialPatch{
		Name:     body.name(),
		Content:  body.Content,
		Rating:   body.rating(),
		Featured: body.featured(),
	})
	if err != nil {
		return respondError(c, tc.log, err, true, "Testimonial not found", "Failed to update testimonial")
	}
	tc.cache.Purge()

	return c.JSON(testimonial)
}

func (tc *TestimonialController) DeleteTestimonial(c *fiber.Ctx) error {
	if err := tc.repo.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, tc.log, err, true, "Testimonial not found", "Failed to delete testimonial")
	}
	tc.cache.Purge()

	return c.JSON(fiber.Map{
		"message": "Testimonial deleted successfully",
	})
}
