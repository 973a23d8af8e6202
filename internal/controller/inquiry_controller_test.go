package controller

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"mannadome_backend/internal/model"
	"mannadome_backend/internal/repository"
	"mannadome_backend/internal/testutil"
	"mannadome_backend/pkg/email"
	"mannadome_backend/pkg/events"
	"mannadome_backend/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	mu   sync.Mutex
	to   []string
	sent []email.InquiryNotificationData
	err  error
}

func (m *fakeMailer) SendInquiryNotification(_ context.Context, to string, data email.InquiryNotificationData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.to = append(m.to, to)
	m.sent = append(m.sent, data)
	return m.err
}

type fakePublisher struct {
	events []events.InquiryCreated
	err    error
}

func (p *fakePublisher) PublishInquiryCreated(_ context.Context, e events.InquiryCreated) error {
	p.events = append(p.events, e)
	return p.err
}

func newInquiryApp(t *testing.T, mailer InquiryMailer, pub events.Publisher) (*fiber.App, *repository.PropertyRepo) {
	db := testutil.NewDB(t, model.Models()...)
	properties := repository.NewPropertyRepo(db)
	ic := NewInquiryController(repository.NewInquiryRepo(db), properties, mailer, "office@mannadome.com", pub, logger.Discard())
	ic.dispatch = func(f func()) { f() }

	app := fiber.New()
	app.Post("/inquiries", ic.CreateInquiry)
	return app, properties
}

func postInquiry(t *testing.T, app *fiber.App, body string) int {
	req := httptest.NewRequest(http.MethodPost, "/inquiries", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestCreateInquiryNotifies(t *testing.T) {
	mailer := &fakeMailer{}
	pub := &fakePublisher{}
	app, properties := newInquiryApp(t, mailer, pub)

	property, err := properties.Create(context.Background(), repository.PropertyInput{
		Title:    "Villa in Cantonments",
		Location: "Accra",
	})
	require.NoError(t, err)

	status := postInquiry(t, app, `{"full_name":"Esi","email":"esi@example.com","message":"Viewing?","inquiry_type":"Viewing","property_id":"`+property.ID+`"}`)
	require.Equal(t, http.StatusCreated, status)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "office@mannadome.com", mailer.to[0])
	assert.Equal(t, "Villa in Cantonments", mailer.sent[0].PropertyTitle)
	assert.Equal(t, "Accra", mailer.sent[0].PropertyLocation)
	assert.Equal(t, "viewing", mailer.sent[0].InquiryType)

	require.Len(t, pub.events, 1)
	assert.Equal(t, property.ID, *pub.events[0].PropertyID)
}

func TestCreateInquirySurvivesNotificationFailures(t *testing.T) {
	mailer := &fakeMailer{err: errors.New("resend down")}
	pub := &fakePublisher{err: errors.New("broker down")}
	app, _ := newInquiryApp(t, mailer, pub)

	status := postInquiry(t, app, `{"full_name":"Esi","email":"esi@example.com","message":"Hello","property_id":"gone"}`)
	assert.Equal(t, http.StatusCreated, status)

	require.Len(t, mailer.sent, 1)
	assert.Empty(t, mailer.sent[0].PropertyTitle)
	assert.Len(t, pub.events, 1)
}

func TestCreateInquiryWithoutMailer(t *testing.T) {
	pub := &fakePublisher{}
	app, _ := newInquiryApp(t, nil, pub)

	assert.Equal(t, http.StatusCreated, postInquiry(t, app, `{"full_name":"A","email":"a@b.com","message":"m"}`))
	assert.Len(t, pub.events, 1)

	assert.Equal(t, http.StatusBadRequest, postInquiry(t, app, `{"full_name":`))
	assert.Len(t, pub.events, 1)
}
