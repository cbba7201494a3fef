// Package navigation serves the sidebar menu of the signed-in caller.
package navigation

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/fabricstock/fabricstock/internal/auth"
	"github.com/fabricstock/fabricstock/internal/config"
	"github.com/fabricstock/fabricstock/internal/web/handler"
	"github.com/fabricstock/fabricstock/internal/web/navigation"
)

// Path is the menu endpoint.
const Path = handler.APIPath + "/navigation"

// Service serves the menu.
type Service struct {
	handler.Service
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers the route.
func (s *Service) Init(app fiber.Router, cfg *config.Config, db *gorm.DB, guard *auth.Guard) error {
	if app == nil || cfg == nil || db == nil || guard == nil {
		return handler.ErrNilDependency
	}

	app.Get(Path, guard.RequireAuth(), s.Get)

	return nil
}

// Get returns the menu filtered for the caller.
func (s *Service) Get(c *fiber.Ctx) error {
	caller, _ := auth.CallerFromContext(c)

	return handler.JSONData(c, fiber.StatusOK, navigation.For(caller), "")
}
