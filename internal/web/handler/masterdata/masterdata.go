// Package masterdata provides the CRUD endpoints of the fabric master data:
// types, strengths and widths.
package masterdata

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/fabricstock/fabricstock/internal/auth"
	"github.com/fabricstock/fabricstock/internal/config"
	store "github.com/fabricstock/fabricstock/internal/db/controller/masterdata"
	"github.com/fabricstock/fabricstock/internal/db/models"
	"github.com/fabricstock/fabricstock/internal/web/handler"
)

const (
	// TypesPath is the route group of fabric types.
	TypesPath = handler.APIPath + "/fabric-types"
	// StrengthsPath is the route group of fabric strengths.
	StrengthsPath = handler.APIPath + "/fabric-strengths"
	// WidthsPath is the route group of fabric widths.
	WidthsPath = handler.APIPath + "/fabric-widths"
)

// Service registers the three master data resources.
type Service struct {
	handler.Service
}

// Handler is the exported instance.
var Handler = Service{}

type nameRequest struct {
	Name string `json:"name" validate:"required,max=50"`
}

type valueRequest struct {
	Value float64 `json:"value" validate:"gt=0"`
}

func bindName(c *fiber.Ctx) (any, bool, error) {
	var in nameRequest
	if ok, err := handler.Bind(c, &in); !ok {
		return nil, false, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, false, handler.JSONError(c, fiber.StatusBadRequest, "name is required")
	}

	return name, true, nil
}

func bindValue(c *fiber.Ctx) (any, bool, error) {
	var in valueRequest
	if ok, err := handler.Bind(c, &in); !ok {
		return nil, false, err
	}

	return in.Value, true, nil
}

// resource is the HTTP surface of one master data table.
type resource[T any] struct {
	db    *gorm.DB
	store store.Store[T]
	// label is the lower case display name, e.g. "fabric type".
	label string
	// key names the unique field in conflict messages.
	key string

	bind    func(c *fiber.Ctx) (any, bool, error)
	newItem func(key any) *T

	view, create, update, remove auth.Capability
}

func (r *resource[T]) register(router fiber.Router, guard *auth.Guard) {
	router.Get(handler.RootPath, guard.Require(r.view), r.list)
	router.Post(handler.RootPath, guard.Require(r.create), r.add)
	router.Get(handler.IDPath, guard.RequireParams(r.get, r.view))
	router.Patch(handler.IDPath, guard.RequireParams(r.edit, r.update))
	router.Delete(handler.IDPath, guard.RequireParams(r.delete, r.remove))
}

func (r *resource[T]) title() string {
	return strings.ToUpper(r.label[:1]) + r.label[1:]
}

func (r *resource[T]) conflictMessage() string {
	return "A " + r.label + " with this " + r.key + " already exists"
}

func (r *resource[T]) notFoundMessage() string {
	return r.title() + " not found"
}

func (r *resource[T]) fail(c *fiber.Ctx, err error, action string) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return handler.JSONError(c, fiber.StatusNotFound, r.notFoundMessage())
	case errors.Is(err, store.ErrExists):
		return handler.JSONError(c, fiber.StatusConflict, r.conflictMessage())
	case errors.Is(err, store.ErrInUse):
		return handler.JSONError(c, fiber.StatusConflict, "Cannot delete "+r.label+" that is used by fabrics")
	}

	log.Error().Err(err).Str("resource", r.label).Msg(action + " failed")

	return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to "+action+" "+r.label)
}

func (r *resource[T]) list(c *fiber.Ctx) error {
	items, err := r.store.List(r.db.WithContext(c.UserContext()))
	if err != nil {
		return r.fail(c, err, "fetch")
	}

	return handler.JSONData(c, fiber.StatusOK, items, "")
}

func (r *resource[T]) add(c *fiber.Ctx) error {
	key, ok, err := r.bind(c)
	if !ok {
		return err
	}

	item := r.newItem(key)
	if err = r.store.Create(r.db.WithContext(c.UserContext()), item, key); err != nil {
		return r.fail(c, err, "create")
	}

	return handler.JSONData(c, fiber.StatusCreated, item, r.title()+" created successfully")
}

func (r *resource[T]) get(c *fiber.Ctx, params map[string]string) error {
	id, err := handler.ParseID(params)
	if err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, "Invalid "+r.label+" id")
	}

	item, err := r.store.Get(r.db.WithContext(c.UserContext()), id)
	if err != nil {
		return r.fail(c, err, "fetch")
	}

	return handler.JSONData(c, fiber.StatusOK, item, "")
}

func (r *resource[T]) edit(c *fiber.Ctx, params map[string]string) error {
	id, err := handler.ParseID(params)
	if err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, "Invalid "+r.label+" id")
	}

	key, ok, err := r.bind(c)
	if !ok {
		return err
	}

	item, err := r.store.Update(r.db.WithContext(c.UserContext()), id, key)
	if err != nil {
		return r.fail(c, err, "update")
	}

	return handler.JSONData(c, fiber.StatusOK, item, r.title()+" updated successfully")
}

func (r *resource[T]) delete(c *fiber.Ctx, params map[string]string) error {
	id, err := handler.ParseID(params)
	if err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, "Invalid "+r.label+" id")
	}

	if err = r.store.Delete(r.db.WithContext(c.UserContext()), id); err != nil {
		return r.fail(c, err, "delete")
	}

	return handler.JSONData(c, fiber.StatusOK, nil, r.title()+" deleted successfully")
}

// Init registers the routes of all three tables.
func (s *Service) Init(app fiber.Router, cfg *config.Config, db *gorm.DB, guard *auth.Guard) error {
	if app == nil || cfg == nil || db == nil || guard == nil {
		return handler.ErrNilDependency
	}

	types := &resource[models.FabricType]{
		db: db, store: store.Types, label: "fabric type", key: "name",
		bind: bindName,
		newItem: func(key any) *models.FabricType {
			return &models.FabricType{Name: key.(string)} //nolint:forcetypeassert
		},
		view: auth.CapFabricTypeView, create: auth.CapFabricTypeCreate,
		update: auth.CapFabricTypeUpdate, remove: auth.CapFabricTypeDelete,
	}

	strengths := &resource[models.FabricStrength]{
		db: db, store: store.Strengths, label: "fabric strength", key: "name",
		bind: bindName,
		newItem: func(key any) *models.FabricStrength {
			return &models.FabricStrength{Name: key.(string)} //nolint:forcetypeassert
		},
		view: auth.CapFabricStrengthView, create: auth.CapFabricStrengthCreate,
		update: auth.CapFabricStrengthUpdate, remove: auth.CapFabricStrengthDelete,
	}

	widths := &resource[models.FabricWidth]{
		db: db, store: store.Widths, label: "fabric width", key: "value",
		bind: bindValue,
		newItem: func(key any) *models.FabricWidth {
			return &models.FabricWidth{Value: key.(float64)} //nolint:forcetypeassert
		},
		view: auth.CapFabricWidthView, create: auth.CapFabricWidthCreate,
		update: auth.CapFabricWidthUpdate, remove: auth.CapFabricWidthDelete,
	}

	app.Route(TypesPath, func(router fiber.Router) { types.register(router, guard) })
	app.Route(StrengthsPath, func(router fiber.Router) { strengths.register(router, guard) })
	app.Route(WidthsPath, func(router fiber.Router) { widths.register(router, guard) })

	return nil
}
