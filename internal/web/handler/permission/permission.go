// Package permission serves the capability catalog for the account screens.
package permission

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/fabricstock/fabricstock/internal/auth"
	"github.com/fabricstock/fabricstock/internal/config"
	"github.com/fabricstock/fabricstock/internal/web/handler"
)

// Path is the catalog endpoint.
const Path = handler.APIPath + "/permissions"

// Service serves the catalog.
type Service struct {
	handler.Service
}

// Handler is the exported instance.
var Handler = Service{}

// Group is one capability group of the catalog.
type Group struct {
	Name        auth.GroupName    `json:"name"`
	Permissions []auth.Capability `json:"permissions"`
}

// RoleDefaults lists what a new account of a role is granted.
type RoleDefaults struct {
	Role        auth.Role         `json:"role"`
	Permissions []auth.Capability `json:"permissions"`
}

// Catalog is the response body.
type Catalog struct {
	Permissions []auth.Capability `json:"permissions"`
	Groups      []Group           `json:"groups"`
	Roles       []RoleDefaults    `json:"roles"`
	// CanAssign is true when the caller may both edit accounts and change their grants.
	CanAssign bool `json:"canAssign"`
}

// BuildCatalog assembles the catalog in listing order.
func BuildCatalog() Catalog {
	out := Catalog{Permissions: auth.AllCapabilities()}

	for _, name := range auth.Groups() {
		out.Groups = append(out.Groups, Group{Name: name, Permissions: auth.Group(name)})
	}

	for _, r := range auth.Roles() {
		out.Roles = append(out.Roles, RoleDefaults{Role: r, Permissions: auth.DefaultCapabilities(r)})
	}

	return out
}

// Init registers the route.
func (s *Service) Init(app fiber.Router, cfg *config.Config, db *gorm.DB, guard *auth.Guard) error {
	if app == nil || cfg == nil || db == nil || guard == nil {
		return handler.ErrNilDependency
	}

	app.Get(Path, guard.Require(auth.CapUserView, auth.CapUserManagePermissions), s.List)

	return nil
}

// assignCapabilities are needed together to change another account's grants.
var assignCapabilities = []auth.Capability{auth.CapUserUpdate, auth.CapUserManagePermissions}

// List returns the catalog.
func (s *Service) List(c *fiber.Ctx) error {
	out := BuildCatalog()

	if caller, ok := auth.CallerFromContext(c); ok {
		out.CanAssign = auth.SatisfiesAll(caller.Role, caller.Granted, assignCapabilities)
	}

	return handler.JSONData(c, fiber.StatusOK, out, "")
}
