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

// DefaultNewPropertyTitle replaces a blank title on admin creation.
const DefaultNewPropertyTitle = "New Property"

type PropertyController struct {
	repo  *repository.PropertyRepo
	cache *cache.Cache
	log   *slog.Logger
}

func NewPropertyController(repo *repository.PropertyRepo, c *cache.Cache, log *slog.Logger) *PropertyController {
	return &PropertyController{repo: repo, cache: c, log: log}
}

// ListProperties serves the public listing grid. Responses are cached per query string.
func (pc *PropertyController) ListProperties(c *fiber.Ctx) error {
	key := "properties?" + string(c.Request().URI().QueryString())
	if body, ok := pc.cache.Get(key); ok {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(body)
	}

	gen := pc.cache.Generation()
	properties, err := pc.repo.List(c.UserContext(), propertyFilterFromQuery(c))
	if err != nil {
		return respondError(c, pc.log, err, false, "", "Failed to fetch properties")
	}

	body, err := json.Marshal(properties)
	if err != nil {
		return err
	}
	pc.cache.Set(gen, key, body)

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}

func (pc *PropertyController) GetProperty(c *fiber.Ctx) error {
	property, err := pc.repo.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, pc.log, err, false, "Property not found", "Failed to fetch property")
	}
	return c.JSON(property)
}

// CreateProperty never rejects missing fields; defaults fill them in.
func (pc *PropertyController) CreateProperty(c *fiber.Ctx) error {
	var input repository.PropertyInput
	if err := parseBody(c, &input); err != nil {
		return invalidInput(c)
	}

	if strings.TrimSpace(string(input.Title)) == "" {
		input.Title = DefaultNewPropertyTitle
	}

	property, err := pc.repo.Create(c.UserContext(), input)
	if err != nil {
		return respondError(c, pc.log, err, true, "", "Failed to create property")
	}
	pc.cache.Purge()

	pc.log.Info("property created", "id", property.ID, "by", actor(c))
	return c.Status(fiber.StatusCreated).JSON(property)
}

func (pc *PropertyController) UpdateProperty(c *fiber.Ctx) error {
	var patch repository.PropertyPatch
	if err := parseBody(c, &patch); err != nil {
		return invalidInput(c)
	}

	property, err := pc.repo.Update(c.UserContext(), c.Params("id"), patch)
	if err != nil {
		return respondError(c, pc.log, err, true, "Property not found", "Failed to update property")
	}
	pc.cache.Purge()

	return c.JSON(property)
}

func (pc *PropertyController) DeleteProperty(c *fiber.Ctx) error {
	if err := pc.repo.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, pc.log, err, true, "Property not found", "Failed to delete property")
	}
	pc.cache.Purge()

	return c.JSON(fiber.Map{
		"message": "Property deleted successfully",
	})
}

// propertyFilterFromQuery reads the list filters. Numeric filters that do
// not parse are ignored.
func propertyFilterFromQuery(c *fiber.Ctx) repository.PropertyFilter {
	f := repository.PropertyFilter{
		Type:     c.Query("type"),
		Location: c.Query("location"),
		Status:   c.Query("status"),
	}
	if v, err := strconv.ParseFloat(c.Query("minPrice"), 64); err == nil {
		f.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(c.Query("maxPrice"), 64); err == nil {
		f.MaxPrice = &v
	}
	if v, err := strconv.Atoi(c.Query("bedrooms")); err == nil {
		f.Bedrooms = &v
	}
	return f
}
