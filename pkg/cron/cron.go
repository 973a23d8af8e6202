package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const jobTimeout = 2 * time.Minute

// Job is one scheduled task.
type Job struct {
	Name     string
	Schedule string
	Run      func(ctx context.Context) error
}

// Start registers jobs on a new scheduler and starts it. The caller stops it
// with Stop.
func Start(log *slog.Logger, jobs ...Job) (*cron.Cron, error) {
	c := cron.New()

	for _, job := range jobs {
		job := job
		_, err := c.AddFunc(job.Schedule, func() {
			ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()

			started := time.Now()
			if err := job.Run(ctx); err != nil {
				log.Error("cron job failed", "job", job.Name, "error", err)
				return
			}
			log.Info("cron job finished", "job", job.Name, "took", time.Since(started).String())
		})
		if err != nil {
			return nil, fmt.Errorf("could not schedule %s: %w", job.Name, err)
		}
	}

	c.Start()
	return c, nil
}
