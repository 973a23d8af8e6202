package controller

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"mannadome_backend/internal/model"
	"mannadome_backend/internal/repository"
	"mannadome_backend/pkg/email"
	"mannadome_backend/pkg/events"

	"github.com/gofiber/fiber/v2"
)

const notifyTimeout = 15 * time.Second

// InquiryMailer sends the office notification for a new inquiry.
type InquiryMailer interface {
	SendInquiryNotification(ctx context.Context, to string, data email.InquiryNotificationData) error
}

type InquiryController struct {
	repo       *repository.InquiryRepo
	properties *repository.PropertyRepo
	mailer     InquiryMailer
	notifyTo   string
	publisher  events.Publisher
	log        *slog.Logger

	// dispatch runs notification work off the request path.
	dispatch func(func())
}

func NewInquiryController(repo *repository.InquiryRepo, properties *repository.PropertyRepo, mailer InquiryMailer, notifyTo string, publisher events.Publisher, log *slog.Logger) *InquiryController {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &InquiryController{
		repo:       repo,
		properties: properties,
		mailer:     mailer,
		notifyTo:   notifyTo,
		publisher:  publisher,
		log:        log,
		dispatch:   func(f func()) { go f() },
	}
}

// CreateInquiry accepts the public contact form.
func (ic *InquiryController) CreateInquiry(c *fiber.Ctx) error {
	var input repository.InquiryInput
	if err := parseBody(c, &input); err != nil {
		return invalidInput(c)
	}

	for _, field := range []struct{ name, value string }{
		{"full_name", input.FullName},
		{"email", input.Email},
		{"message", input.Message},
	} {
		if strings.TrimSpace(field.value) == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Missing required field: " + field.name,
			})
		}
	}

	inquiry, err := ic.repo.Create(c.UserContext(), input)
	if err != nil {
		ic.log.Error("create inquiry", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create inquiry",
		})
	}

	ic.notify(inquiry)

	return c.Status(fiber.StatusCreated).JSON(inquiry)
}

func (ic *InquiryController) ListInquiries(c *fiber.Ctx) error {
	inquiries, err := ic.repo.List(c.UserContext())
	if err != nil {
		return respondError(c, ic.log, err, true, "", "Failed to fetch inquiries")
	}
	return c.JSON(inquiries)
}

func (ic *InquiryController) GetInquiry(c *fiber.Ctx) error {
	inquiry, err := ic.repo.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, ic.log, err, true, "Inquiry not found", "Failed to fetch inquiry")
	}
	return c.JSON(inquiry)
}

// UpdateInquiry changes the workflow status only.
func (ic *InquiryController) UpdateInquiry(c *fiber.Ctx) error {
	var input struct {
		Status string `json:"status"`
	}
	if err := parseBody(c, &input); err != nil {
		return invalidInput(c)
	}
	if strings.TrimSpace(input.Status) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing required field: status",
		})
	}

	inquiry, err := ic.repo.UpdateStatus(c.UserContext(), c.Params("id"), model.InquiryStatus(strings.TrimSpace(input.Status)))
	if err != nil {
		return respondError(c, ic.log, err, true, "Inquiry not found", "Failed to update inquiry")
	}

	ic.log.Info("inquiry status changed", "id", inquiry.ID, "status", inquiry.Status, "by", actor(c))
	return c.JSON(inquiry)
}

func (ic *InquiryController) DeleteInquiry(c *fiber.Ctx) error {
	if err := ic.repo.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, ic.log, err, true, "Inquiry not found", "Failed to delete inquiry")
	}
	return c.JSON(fiber.Map{
		"message": "Inquiry deleted successfully",
	})
}

// notify mails the office and publishes inquiry.created. Both are best
// effort: the inquiry is already stored.
func (ic *InquiryController) notify(inquiry *model.Inquiry) {
	data := email.InquiryNotificationData{
		FullName:    inquiry.FullName,
		Email:       inquiry.Email,
		Phone:       inquiry.Phone,
		Message:     inquiry.Message,
		InquiryType: inquiry.InquiryType,
		ReceivedAt:  inquiry.CreatedAt,
	}
	event := events.NewInquiryCreated(inquiry)

	ic.dispatch(func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if ic.mailer != nil && ic.notifyTo != "" {
			if inquiry.PropertyID != nil {
				property, err := ic.properties.Get(ctx, *inquiry.PropertyID)
				switch {
				case err == nil:
					data.PropertyTitle = property.Title
					data.PropertyLocation = property.Location
				case !errors.Is(err, repository.ErrNotFound):
					ic.log.Warn("load property for inquiry email", "inquiry_id", inquiry.ID, "error", err)
				}
			}
			if err := ic.mailer.SendInquiryNotification(ctx, ic.notifyTo, data); err != nil {
				ic.log.Error("send inquiry notification", "inquiry_id", inquiry.ID, "error", err)
			}
		}

		if err := ic.publisher.PublishInquiryCreated(ctx, event); err != nil {
			ic.log.Error("publish inquiry event", "inquiry_id", inquiry.ID, "error", err)
		}
	})
}
