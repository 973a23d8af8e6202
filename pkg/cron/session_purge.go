package cron

import (
	"context"
	"log/slog"
	"time"
)

type SessionPurger interface {
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// SessionPurgeJob removes expired and revoked identity sessions.
func SessionPurgeJob(schedule string, purger SessionPurger, log *slog.Logger) Job {
	return Job{
		Name:     "session-purge",
		Schedule: schedule,
		Run: func(ctx context.Context) error {
			n, err := purger.PurgeExpired(ctx, time.Now())
			if err != nil {
				return err
			}
			if n > 0 {
				log.Info("purged identity sessions", "count", n)
			}
			return nil
		},
	}
}
