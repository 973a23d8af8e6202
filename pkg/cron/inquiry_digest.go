package cron

import (
	"context"
	"log/slog"
	"time"

	"mannadome_backend/internal/model"
	"mannadome_backend/pkg/email"
)

type InquirySource interface {
	ListSince(ctx context.Context, since time.Time) ([]model.Inquiry, error)
}

type DigestSender interface {
	SendInquiryDigest(ctx context.Context, to string, data email.InquiryDigestData) error
}

// InquiryDigestJob mails the inquiries of the last 24 hours to the office
// inbox. Nothing is sent on a quiet day.
func InquiryDigestJob(schedule, to string, source InquirySource, sender DigestSender, log *slog.Logger) Job {
	return Job{
		Name:     "inquiry-digest",
		Schedule: schedule,
		Run: func(ctx context.Context) error {
			return sendInquiryDigest(ctx, time.Now(), to, source, sender, log)
		},
	}
}

func sendInquiryDigest(ctx context.Context, now time.Time, to string, source InquirySource, sender DigestSender, log *slog.Logger) error {
	since := now.Add(-24 * time.Hour)
	inquiries, err := source.ListSince(ctx, since)
	if err != nil {
		return err
	}
	if len(inquiries) == 0 {
		log.Debug("no inquiries for digest", "since", since)
		return nil
	}

	items := make([]email.InquiryDigestItem, 0, len(inquiries))
	for _, inq := range inquiries {
		items = append(items, email.InquiryDigestItem{
			FullName:    inq.FullName,
			Email:       inq.Email,
			InquiryType: inq.InquiryType,
			Message:     inq.Message,
			ReceivedAt:  inq.CreatedAt,
		})
	}

	return sender.SendInquiryDigest(ctx, to, email.InquiryDigestData{
		Date:      since,
		Count:     len(items),
		Inquiries: items,
	})
}
