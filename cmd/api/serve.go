package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"mannadome_backend/internal/auth"
	"mannadome_backend/internal/repository"
	"mannadome_backend/internal/router"
	"mannadome_backend/pkg/cache"
	"mannadome_backend/pkg/config"
	"mannadome_backend/pkg/cron"
	"mannadome_backend/pkg/database"
	"mannadome_backend/pkg/email"
	"mannadome_backend/pkg/events"
	"mannadome_backend/pkg/storage"

	"github.com/spf13/cobra"
)

const listCacheBytes = 32 << 20

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			migrate, _ := cmd.Flags().GetBool("migrate")

			rt, err := bootstrap()
			if err != nil {
				return err
			}
			defer rt.close()

			if migrate {
				if err := database.Migrate(rt.db, rt.log, allModels()...); err != nil {
					return err
				}
			}
			return serve(cmd.Context(), rt)
		},
	}
	cmd.Flags().Bool("migrate", true, "migrate the schema before serving")
	return cmd
}

func serve(ctx context.Context, rt *services) error {
	cfg, log := rt.cfg, rt.log

	deps := router.Deps{
		Config:   cfg,
		DB:       rt.db,
		Log:      log,
		Sessions: auth.NewManager(rt.db, rt.ids, nil, log),
		Redis:    config.NewRedisClient(cfg.Redis),
	}
	if deps.Redis == nil {
		log.Warn("redis unavailable, rate limiting disabled")
	} else {
		defer deps.Redis.Close()
	}

	if cfg.Cache.Enabled {
		c, err := cache.New(listCacheBytes, cfg.Cache.TTL)
		if err != nil {
			return fmt.Errorf("create cache: %w", err)
		}
		defer c.Close()
		deps.Cache = c
	}

	if cfg.Storage.Endpoint != "" || cfg.Storage.AccessKey != "" {
		s3Store, err := storage.NewS3Store(ctx, cfg.Storage)
		if err != nil {
			return err
		}
		deps.Blob = s3Store
	} else {
		log.Warn("no object storage configured, keeping uploads on disk", "dir", cfg.Storage.LocalDir)
		deps.Blob = storage.NewLocalStore(cfg.Storage.LocalDir, "/uploads")
		deps.UploadsDir = cfg.Storage.LocalDir
	}

	var mailer *email.EmailService
	if cfg.Email.ResendAPIKey != "" {
		svc, err := email.NewEmailService(cfg.Email.ResendAPIKey, cfg.Email.From, log)
		if err != nil {
			return fmt.Errorf("could not initialize email service: %w", err)
		}
		mailer = svc
		deps.Mailer = svc
	}

	if cfg.AMQP.URL != "" {
		publisher := events.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Queue, log)
		defer publisher.Close()
		deps.Publisher = publisher
	}

	jobs := []cron.Job{cron.SessionPurgeJob(cfg.Cron.PurgeSchedule, rt.ids, log)}
	if mailer != nil && cfg.Email.NotifyTo != "" {
		jobs = append(jobs, cron.InquiryDigestJob(cfg.Cron.DigestSchedule, cfg.Email.NotifyTo, repository.NewInquiryRepo(rt.db), mailer, log))
	}
	scheduler, err := cron.Start(log, jobs...)
	if err != nil {
		return err
	}
	defer scheduler.Stop()

	app := router.NewApp(cfg)
	router.Setup(app, deps)

	errCh := make(chan error, 1)
	go func() {
		log.Info("server is running", "port", cfg.Server.Port)
		errCh <- app.Listen(":" + cfg.Server.Port)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info("shutting down", "signal", sig.String())
	}

	if err := app.ShutdownWithTimeout(cfg.Server.ShutdownTimeout); err != nil {
		log.Error("shutdown", "error", err)
		return err
	}
	return nil
}
