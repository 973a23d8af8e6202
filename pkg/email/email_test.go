package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mannadome_backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendInquiryNotification(t *testing.T) {
	var got EmailData
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"id":"email-1"}`))
	}))
	defer srv.Close()

	svc, err := NewEmailService("re_test", "Mannadome <noreply@mannadome.com>", logger.Discard())
	require.NoError(t, err)
	svc.WithEndpoint(srv.URL)

	err = svc.SendInquiryNotification(context.Background(), "agent@mannadome.com", InquiryNotificationData{
		FullName:      "John Doe",
		Email:         "john@x.com",
		Message:       "<b>Hi</b>",
		InquiryType:   "viewing",
		PropertyTitle: "Seaside Villa",
		ReceivedAt:    time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer re_test", auth)
	assert.Equal(t, "agent@mannadome.com", got.To)
	assert.Equal(t, "New inquiry about Seaside Villa", got.Subject)
	assert.Contains(t, got.Html, "John Doe")
	assert.Contains(t, got.Html, "&lt;b&gt;Hi&lt;/b&gt;")
}

func TestSendInquiryDigestAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"invalid from"}`))
	}))
	defer srv.Close()

	svc, err := NewEmailService("re_test", "bad", logger.Discard())
	require.NoError(t, err)
	svc.WithEndpoint(srv.URL)

	err = svc.SendInquiryDigest(context.Background(), "agent@mannadome.com", InquiryDigestData{
		Date:      time.Now(),
		Count:     1,
		Inquiries: []InquiryDigestItem{{FullName: "A", Email: "a@x.com", ReceivedAt: time.Now()}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid from")
}

func TestNewEmailServiceRequiresKey(t *testing.T) {
	_, err := NewEmailService("", "x", logger.Discard())
	assert.Error(t, err)
}
