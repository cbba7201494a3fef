// Package daemon wires the database, session storage and web service together.
package daemon

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/fabricstock/fabricstock/internal/config"
	"github.com/fabricstock/fabricstock/internal/db"
	"github.com/fabricstock/fabricstock/internal/web"
	"github.com/fabricstock/fabricstock/internal/web/session"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	db         *gorm.DB
	storage    fiber.Storage
	webService *web.Service
	cancel     context.CancelFunc
}

// Start runs the web service until SIGINT or SIGTERM.
func (d *Daemon) Start() error {
	defer d.close()

	errs := make(chan error, 1)

	go func() {
		errs <- d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
	}()

	go d.webService.WaitShutdown()

	return <-errs
}

func (d *Daemon) close() {
	d.cancel()

	if err := d.storage.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close session storage")
	}

	if sqlDB, err := d.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// New opens the database, seeds the Admin account and builds the web service.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, config.ErrNil
	}

	gdb, err := db.Open(cfg)
	if err != nil {
		return nil, err
	}

	if err = seed(cfg, gdb); err != nil {
		return nil, fmt.Errorf("failed to seed admin account: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	storage := newSessionStorage(ctx, cfg, gdb)
	sessions := session.New(storage, cfg.Webserver.Session)

	webService, err := web.New(cfg, gdb, sessions, web.Options{FastShutDown: cfg.DevMode})
	if err != nil {
		cancel()
		return nil, err
	}

	log.Info().Str("engine", cfg.DB.Engine).Int("port", cfg.Webserver.Port).Msg("daemon ready")

	return &Daemon{
		cfg:        cfg,
		db:         gdb,
		storage:    storage,
		webService: webService,
		cancel:     cancel,
	}, nil
}
