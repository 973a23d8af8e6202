// pkg/email/email.go
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const DefaultEndpoint = "https://api.resend.com/emails"

type EmailService struct {
	apiKey    string
	from      string
	endpoint  string
	client    *http.Client
	templates *template.Template
	log       *slog.Logger
}

type EmailData struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Html    string `json:"html"`
}

// Template data structures
type InquiryNotificationData struct {
	FullName         string
	Email            string
	Phone            string
	Message          string
	InquiryType      string
	PropertyTitle    string
	PropertyLocation string
	ReceivedAt       time.Time
}

type InquiryDigestItem struct {
	FullName    string
	Email       string
	InquiryType string
	Message     string
	ReceivedAt  time.Time
}

type InquiryDigestData struct {
	Date      time.Time
	Count     int
	Inquiries []InquiryDigestItem
}

func NewEmailService(apiKey, from string, log *slog.Logger) (*EmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend API key is required")
	}

	templates, err := loadTemplates()
	if err != nil {
		return nil, fmt.Errorf("error loading email templates: %w", err)
	}

	return &EmailService{
		apiKey:    apiKey,
		from:      from,
		endpoint:  DefaultEndpoint,
		client:    &http.Client{Timeout: 10 * time.Second},
		templates: templates,
		log:       log,
	}, nil
}

// WithEndpoint points the service at another Resend compatible API.
func (s *EmailService) WithEndpoint(endpoint string) *EmailService {
	s.endpoint = endpoint
	return s
}

func (s *EmailService) sendTemplateEmail(ctx context.Context, to, subject, templateName string, data interface{}) error {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, templateName, data); err != nil {
		return fmt.Errorf("template execution error: %w", err)
	}

	jsonData, err := json.Marshal(EmailData{
		From:    s.from,
		To:      to,
		Subject: subject,
		Html:    body.String(),
	})
	if err != nil {
		return fmt.Errorf("error marshaling email data: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("error sending email: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("resend API error: status %d: %s", resp.StatusCode, string(respBody))
	}

	s.log.Info("email sent", "to", to, "template", templateName)
	return nil
}

func (s *EmailService) SendInquiryNotification(ctx context.Context, to string, data InquiryNotificationData) error {
	subject := fmt.Sprintf("New inquiry from %s", data.FullName)
	if data.PropertyTitle != "" {
		subject = fmt.Sprintf("New inquiry about %s", data.PropertyTitle)
	}
	return s.sendTemplateEmail(ctx, to, subject, "inquiry_notification.html", data)
}

func (s *EmailService) SendInquiryDigest(ctx context.Context, to string, data InquiryDigestData) error {
	subject := fmt.Sprintf("%d new inquiries on %s", data.Count, data.Date.Format("2 Jan 2006"))
	return s.sendTemplateEmail(ctx, to, subject, "inquiry_digest.html", data)
}
