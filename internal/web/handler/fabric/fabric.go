// Package fabric provides the fabric inventory endpoints, including the public
// product page data and QR code a printed label points to.
package fabric

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/fabricstock/fabricstock/internal/auth"
	"github.com/fabricstock/fabricstock/internal/config"
	store "github.com/fabricstock/fabricstock/internal/db/controller/fabric"
	"github.com/fabricstock/fabricstock/internal/db/controller/qrsettings"
	"github.com/fabricstock/fabricstock/internal/qrcode"
	"github.com/fabricstock/fabricstock/internal/web/handler"
)

const (
	// Path is the route group of the fabric inventory.
	Path = handler.APIPath + "/fabrics"

	// QRCodeCacheControl lets clients and proxies keep rendered QR codes for a day.
	QRCodeCacheControl = "public, max-age=86400"

	msgNotFound  = "Fabric not found"
	msgNoQRCode  = "Fabric or QR code not found"
	msgInvalidID = "Invalid fabric id"
)

// Service provides the fabric endpoints.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the exported instance.
var Handler = Service{}

type createRequest struct {
	Date             string  `json:"date" validate:"required"`
	FabricTypeID     uint64  `json:"fabricTypeId" validate:"required"`
	FabricStrengthID uint64  `json:"fabricStrengthId" validate:"required"`
	FabricWidthID    uint64  `json:"fabricWidthId" validate:"required"`
	FabricLength     float64 `json:"fabricLength" validate:"gte=0"`
	NameOfVendor     string  `json:"nameOfVendor" validate:"required,max=255"`
	GSMObserved      float64 `json:"gsmObserved" validate:"gte=0"`
	NetWeight        float64 `json:"netWeight" validate:"gte=0"`
	GSMCalculated    float64 `json:"gsmCalculated" validate:"gte=0"`
}

// Init registers routes.
func (s *Service) Init(app fiber.Router, cfg *config.Config, db *gorm.DB, guard *auth.Guard) error {
	if app == nil || cfg == nil || db == nil || guard == nil {
		return handler.ErrNilDependency
	}

	s.cfg = cfg
	s.db = db

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RootPath, guard.Require(auth.CapFabricView), s.List)
		router.Post(handler.RootPath, guard.Require(auth.CapFabricCreate), s.Create)
		router.Delete(handler.IDPath, guard.RequireParams(s.Delete, auth.CapFabricDelete))

		// scanned QR codes open these without signing in
		router.Get(handler.IDPath, s.Get)
		router.Get(handler.IDPath+"/qrcode", s.QRCode)
	})

	return nil
}

// List returns the inventory, newest first.
func (s *Service) List(c *fiber.Ctx) error {
	fabrics, err := store.List(s.db.WithContext(c.UserContext()))
	if err != nil {
		log.Error().Err(err).Msg("list fabrics failed")
		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to fetch fabrics")
	}

	return handler.JSONData(c, fiber.StatusOK, fabrics, "")
}

// Create records a fabric roll and derives its code and product URL.
func (s *Service) Create(c *fiber.Ctx) error {
	var in createRequest
	if ok, err := handler.Bind(c, &in); !ok {
		return err
	}

	date, err := store.ParseDate(in.Date)
	if err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, "Invalid date")
	}

	db := s.db.WithContext(c.UserContext())

	settings, err := qrsettings.Load(db)
	if err != nil {
		log.Error().Err(err).Msg("load qr code settings failed")
		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to create fabric")
	}

	f, err := store.Create(db, store.Input{
		Date:             date,
		FabricTypeID:     in.FabricTypeID,
		FabricStrengthID: in.FabricStrengthID,
		FabricWidthID:    in.FabricWidthID,
		FabricLength:     in.FabricLength,
		NameOfVendor:     in.NameOfVendor,
		GSMObserved:      in.GSMObserved,
		NetWeight:        in.NetWeight,
		GSMCalculated:    in.GSMCalculated,
	}, settings.ResolveBaseURL(s.cfg.Webserver.URL))
	if errors.Is(err, store.ErrInvalidReference) {
		return handler.JSONError(c, fiber.StatusBadRequest, "Invalid fabric type, strength, or width")
	}

	if err != nil {
		log.Error().Err(err).Msg("create fabric failed")
		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to create fabric")
	}

	if caller, ok := auth.CallerFromContext(c); ok {
		log.Info().Uint64("account_id", caller.ID).Uint64("fabric_id", f.ID).Str("code", f.FabricCode).Msg("fabric created")
	}

	return handler.JSONData(c, fiber.StatusCreated, f, "Fabric created successfully")
}

// Get returns one fabric. It is public.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := handler.ParseID(c.AllParams())
	if err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, msgInvalidID)
	}

	f, err := store.Get(s.db.WithContext(c.UserContext()), id)
	if errors.Is(err, store.ErrFabricNotFound) {
		return handler.JSONError(c, fiber.StatusNotFound, msgNotFound)
	}

	if err != nil {
		log.Error().Err(err).Uint64("fabric_id", id).Msg("load fabric failed")
		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to fetch fabric")
	}

	return handler.JSONData(c, fiber.StatusOK, f, "")
}

// QRCode renders the PNG QR code pointing to the fabric's product URL. It is public.
func (s *Service) QRCode(c *fiber.Ctx) error {
	id, err := handler.ParseID(c.AllParams())
	if err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, msgInvalidID)
	}

	db := s.db.WithContext(c.UserContext())

	f, err := store.Get(db, id)
	if errors.Is(err, store.ErrFabricNotFound) || (err == nil && f.QRCode == "") {
		return handler.JSONError(c, fiber.StatusNotFound, msgNoQRCode)
	}

	if err != nil {
		log.Error().Err(err).Uint64("fabric_id", id).Msg("load fabric failed")
		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to generate QR code")
	}

	settings, err := qrsettings.Load(db)
	if err != nil {
		log.Error().Err(err).Msg("load qr code settings failed")
		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to generate QR code")
	}

	img, err := qrcode.PNG(f.QRCode, settings.Size, settings.Margin)
	if err != nil {
		log.Error().Err(err).Uint64("fabric_id", id).Msg("render qr code failed")
		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to generate QR code")
	}

	c.Set(fiber.HeaderContentType, "image/png")
	c.Set(fiber.HeaderCacheControl, QRCodeCacheControl)

	return c.Status(fiber.StatusOK).Send(img)
}

// Delete removes a fabric record.
func (s *Service) Delete(c *fiber.Ctx, params map[string]string) error {
	id, err := handler.ParseID(params)
	if err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, msgInvalidID)
	}

	err = store.Delete(s.db.WithContext(c.UserContext()), id)
	if errors.Is(err, store.ErrFabricNotFound) {
		return handler.JSONError(c, fiber.StatusNotFound, msgNotFound)
	}

	if err != nil {
		log.Error().Err(err).Uint64("fabric_id", id).Msg("delete fabric failed")
		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to delete fabric")
	}

	return handler.JSONData(c, fiber.StatusOK, nil, "Fabric deleted successfully")
}
