package main

import (
	"fmt"
	"log/slog"

	"mannadome_backend/internal/identity"
	"mannadome_backend/pkg/config"
	"mannadome_backend/pkg/database"
	"mannadome_backend/pkg/logger"

	"gorm.io/gorm"
)

// services is what every database-backed command starts from.
type services struct {
	cfg *config.Config
	log *slog.Logger
	db  *gorm.DB
	ids *identity.Service
}

func bootstrap() (*services, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	log := logger.New(cfg.Logging)

	db, err := database.Open(cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	ids := identity.New(db, identity.Config{
		Secret:              []byte(cfg.Auth.JWTSecret),
		TTL:                 cfg.Auth.SessionTTL,
		BcryptCost:          cfg.Auth.BcryptCost,
		RequireConfirmation: cfg.Auth.RequireEmailConfirmation,
	})

	return &services{cfg: cfg, log: log, db: db, ids: ids}, nil
}

func (r *services) close() {
	if err := database.Close(r.db); err != nil {
		r.log.Warn("close database", "error", err)
	}
}
