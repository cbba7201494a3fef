// Package user provides the account administration endpoints.
package user

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/fabricstock/fabricstock/internal/auth"
	"github.com/fabricstock/fabricstock/internal/config"
	"github.com/fabricstock/fabricstock/internal/db/controller/account"
	"github.com/fabricstock/fabricstock/internal/db/models"
	"github.com/fabricstock/fabricstock/internal/web/handler"
)

const (
	// Path is the base path for account management.
	Path = handler.APIPath + "/users"

	msgNotFound      = "User not found"
	msgMobileCreate  = "User with this mobile number already exists"
	msgMobileUpdate  = "Another user has this mobile number"
	msgInvalidUserID = "Invalid user id"
)

// Service provides CRUD operations for accounts.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the exported instance.
var Handler = Service{}

type createRequest struct {
	Name         string    `json:"name" validate:"required,max=100"`
	MobileNumber string    `json:"mobileNumber" validate:"required,mobile"`
	Password     string    `json:"password" validate:"required,min=6"`
	Role         string    `json:"role" validate:"omitempty,oneof=Admin Manager Supervisor Worker"`
	Permissions  *[]string `json:"permissions"`
	IsActive     *bool     `json:"isActive"`
}

type updateRequest struct {
	Name         *string   `json:"name" validate:"omitempty,min=1,max=100"`
	MobileNumber *string   `json:"mobileNumber" validate:"omitempty,mobile"`
	Password     *string   `json:"password" validate:"omitempty,min=6"`
	Role         *string   `json:"role" validate:"omitempty,oneof=Admin Manager Supervisor Worker"`
	Permissions  *[]string `json:"permissions"`
	IsActive     *bool     `json:"isActive"`
}

// Init registers routes.
func (s *Service) Init(app fiber.Router, cfg *config.Config, db *gorm.DB, guard *auth.Guard) error {
	if app == nil || cfg == nil || db == nil || guard == nil {
		return handler.ErrNilDependency
	}

	s.db = db
	s.cfg = cfg

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RootPath, guard.Require(auth.CapUserView), s.List)
		router.Post(handler.RootPath, guard.Require(auth.CapUserCreate), s.Create)
		router.Get(handler.IDPath, guard.RequireParams(s.Get, auth.CapUserView))
		router.Patch(handler.IDPath, guard.RequireParams(s.Update, auth.CapUserUpdate))
		router.Delete(handler.IDPath, guard.RequireParams(s.Delete, auth.CapUserDelete))
	})

	return nil
}

// parsePermissions checks the capability strings against the catalog.
func parsePermissions(values []string) ([]string, error) {
	caps, err := auth.ParseCapabilities(values)
	if err != nil {
		return nil, err
	}

	return auth.Strings(caps), nil
}

// List returns all accounts.
func (s *Service) List(c *fiber.Ctx) error {
	accounts, err := account.List(s.db.WithContext(c.UserContext()))
	if err != nil {
		log.Error().Err(err).Msg("list accounts failed")
		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to fetch users")
	}

	return handler.JSONData(c, fiber.StatusOK, accounts, "")
}

// Create adds an account. Role defaults to Worker and permissions to the role defaults.
func (s *Service) Create(c *fiber.Ctx) error {
	var in createRequest
	if ok, err := handler.Bind(c, &in); !ok {
		return err
	}

	role := auth.RoleWorker
	if in.Role != "" {
		role = auth.Role(in.Role)
	}

	permissions := auth.Strings(auth.ProvisionCapabilities(role))

	if in.Permissions != nil {
		parsed, err := parsePermissions(*in.Permissions)
		if err != nil {
			return handler.JSONError(c, fiber.StatusBadRequest, err.Error())
		}

		permissions = parsed
	}

	a := &models.Account{
		Name:         in.Name,
		MobileNumber: in.MobileNumber,
		Role:         string(role),
		Permissions:  permissions,
		Active:       in.IsActive == nil || *in.IsActive,
	}

	err := account.Create(s.db.WithContext(c.UserContext()), a, in.Password)
	if errors.Is(err, account.ErrMobileNumberExists) {
		return handler.JSONError(c, fiber.StatusConflict, msgMobileCreate)
	}

	if err != nil {
		log.Error().Err(err).Msg("create account failed")
		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to create user")
	}

	log.Info().Uint64("account_id", a.ID).Str("role", a.Role).Msg("account created")

	return handler.JSONData(c, fiber.StatusCreated, a, "User created successfully")
}

// Get returns one account.
func (s *Service) Get(c *fiber.Ctx, params map[string]string) error {
	id, err := handler.ParseID(params)
	if err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, msgInvalidUserID)
	}

	a, err := account.GetByID(s.db.WithContext(c.UserContext()), id)
	if errors.Is(err, account.ErrAccountNotFound) {
		return handler.JSONError(c, fiber.StatusNotFound, msgNotFound)
	}

	if err != nil {
		log.Error().Err(err).Uint64("account_id", id).Msg("load account failed")
		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to fetch user")
	}

	return handler.JSONData(c, fiber.StatusOK, a, "")
}

// Update applies a partial update. Changing permissions requires user:manage_permissions.
func (s *Service) Update(c *fiber.Ctx, params map[string]string) error {
	id, err := handler.ParseID(params)
	if err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, msgInvalidUserID)
	}

	caller, _ := auth.CallerFromContext(c)

	var in updateRequest
	if ok, err := handler.Bind(c, &in); !ok {
		return err
	}

	u := account.Update{
		Name:         in.Name,
		MobileNumber: in.MobileNumber,
		Password:     in.Password,
		Role:         in.Role,
		Active:       in.IsActive,
	}

	if in.Permissions != nil {
		if err = auth.CheckEscalation(caller); err != nil {
			log.Warn().Uint64("account_id", caller.ID).Uint64("target_id", id).
				Strs("permissions", *in.Permissions).Msg("permission change refused")

			return handler.JSONError(c, auth.StatusCode(err), auth.Message(err))
		}

		parsed, err := parsePermissions(*in.Permissions)
		if err != nil {
			return handler.JSONError(c, fiber.StatusBadRequest, err.Error())
		}

		u.Permissions = &parsed
	}

	a, err := account.Apply(s.db.WithContext(c.UserContext()), id, u)

	switch {
	case errors.Is(err, account.ErrAccountNotFound):
		return handler.JSONError(c, fiber.StatusNotFound, msgNotFound)
	case errors.Is(err, account.ErrMobileNumberExists):
		return handler.JSONError(c, fiber.StatusConflict, msgMobileUpdate)
	case err != nil:
		log.Error().Err(err).Uint64("account_id", id).Msg("update account failed")
		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to update user")
	}

	return handler.JSONData(c, fiber.StatusOK, a, "User updated successfully")
}

// Delete removes an account other than the caller's own.
func (s *Service) Delete(c *fiber.Ctx, params map[string]string) error {
	id, err := handler.ParseID(params)
	if err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, msgInvalidUserID)
	}

	caller, _ := auth.CallerFromContext(c)

	if err = auth.CheckSelfAction(caller, id); err != nil {
		return handler.JSONError(c, auth.StatusCode(err), auth.Message(err))
	}

	err = account.Delete(s.db.WithContext(c.UserContext()), id)
	if errors.Is(err, account.ErrAccountNotFound) {
		return handler.JSONError(c, fiber.StatusNotFound, msgNotFound)
	}

	if err != nil {
		log.Error().Err(err).Uint64("account_id", id).Msg("delete account failed")
		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to delete user")
	}

	log.Info().Uint64("account_id", caller.ID).Uint64("target_id", id).Msg("account deleted")

	return handler.JSONData(c, fiber.StatusOK, nil, "User deleted successfully")
}
