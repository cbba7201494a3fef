// Package qrcode provides the admin endpoints for the QR code settings.
package qrcode

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/fabricstock/fabricstock/internal/auth"
	"github.com/fabricstock/fabricstock/internal/config"
	"github.com/fabricstock/fabricstock/internal/db/controller/qrsettings"
	"github.com/fabricstock/fabricstock/internal/web/handler"
)

// Path is the settings endpoint.
const Path = handler.APIPath + "/settings/qrcode"

// Service handles the QR code settings.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the exported instance.
var Handler = Service{}

type settingsRequest struct {
	BaseURL string `json:"baseUrl" validate:"omitempty,url"`
	Size    int    `json:"size" validate:"required"`
	Margin  int    `json:"margin"`
}

// view is the stored settings plus the base url actually used.
type view struct {
	qrsettings.Settings
	EffectiveBaseURL string `json:"effectiveBaseUrl"`
}

// Init registers routes.
func (s *Service) Init(app fiber.Router, cfg *config.Config, db *gorm.DB, guard *auth.Guard) error {
	if app == nil || cfg == nil || db == nil || guard == nil {
		return handler.ErrNilDependency
	}

	s.cfg = cfg
	s.db = db

	app.Route(Path, func(router fiber.Router) {
		router.Use(guard.RequireAdmin())
		router.Get(handler.RootPath, s.Get)
		router.Put(handler.RootPath, s.Put)
	})

	return nil
}

func (s *Service) view(settings qrsettings.Settings) view {
	return view{Settings: settings, EffectiveBaseURL: settings.ResolveBaseURL(s.cfg.Webserver.URL)}
}

// Get returns the current settings.
func (s *Service) Get(c *fiber.Ctx) error {
	settings, err := qrsettings.Load(s.db.WithContext(c.UserContext()))
	if err != nil {
		log.Error().Err(err).Msg("load qr code settings failed")
		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to load QR code settings")
	}

	return handler.JSONData(c, fiber.StatusOK, s.view(settings), "")
}

// Put replaces the settings.
func (s *Service) Put(c *fiber.Ctx) error {
	var in settingsRequest
	if ok, err := handler.Bind(c, &in); !ok {
		return err
	}

	settings := qrsettings.Settings{BaseURL: in.BaseURL, Size: in.Size, Margin: in.Margin}

	err := qrsettings.Save(s.db.WithContext(c.UserContext()), settings)
	if errors.Is(err, qrsettings.ErrInvalidSize) || errors.Is(err, qrsettings.ErrInvalidMargin) {
		return handler.JSONError(c, fiber.StatusBadRequest, err.Error())
	}

	if err != nil {
		log.Error().Err(err).Msg("save qr code settings failed")
		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to save QR code settings")
	}

	if caller, ok := auth.CallerFromContext(c); ok {
		log.Info().Uint64("account_id", caller.ID).Int("size", settings.Size).Int("margin", settings.Margin).
			Msg("qr code settings updated")
	}

	return handler.JSONData(c, fiber.StatusOK, s.view(settings), "QR code settings saved successfully")
}
