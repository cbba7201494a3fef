// Package login provides the sign-in and session endpoints.
package login

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
	"github.com/fabricstock/fabricstock/internal/web/session"
)

const (
	// Path is the route group of the auth endpoints.
	Path = handler.APIPath + "/auth"
)

// Service is the login handler service.
type Service struct {
	handler.Service
	cfg      *config.Config
	db       *gorm.DB
	provider *auth.LocalProvider
	sessions *session.Store
}

// Handler is the login handler.
var Handler = Service{}

// signInRequest is the sign-in form.
type signInRequest struct {
	MobileNumber string `json:"mobileNumber" validate:"required,mobile"`
	Password     string `json:"password" validate:"required"`
}

// Profile is the signed-in account with its effective capabilities.
type Profile struct {
	ID           uint64            `json:"id"`
	Name         string            `json:"name"`
	MobileNumber string            `json:"mobileNumber"`
	Role         auth.Role         `json:"role"`
	IsActive     bool              `json:"isActive"`
	Permissions  []auth.Capability `json:"permissions"`
}

func profileOf(a *models.Account) (*Profile, error) {
	caller, err := auth.CallerFromAccount(a)
	if err != nil {
		return nil, err
	}

	return &Profile{
		ID:           a.ID,
		Name:         a.Name,
		MobileNumber: a.MobileNumber,
		Role:         caller.Role,
		IsActive:     a.Active,
		Permissions:  caller.Effective(),
	}, nil
}

// Init initializes the login handler.
func (s *Service) Init(app fiber.Router, cfg *config.Config, db *gorm.DB, guard *auth.Guard, sessions *session.Store) error {
	if app == nil || cfg == nil || db == nil || guard == nil || sessions == nil {
		return handler.ErrNilDependency
	}

	s.db = db
	s.cfg = cfg
	s.sessions = sessions
	s.provider = auth.NewLocalProvider(db)

	// register routes
	app.Route(Path, func(router fiber.Router) {
		router.Post("/sign-in", s.SignIn)
		router.Get("/session", guard.RequireAuth(), s.Session)
	})

	return nil
}

// SignIn checks the credentials and starts a session.
func (s *Service) SignIn(c *fiber.Ctx) error {
	var in signInRequest
	if ok, err := handler.Bind(c, &in); !ok {
		return err
	}

	a, err := s.provider.Authenticate(c.UserContext(), in.MobileNumber, in.Password)
	if err != nil {
		if auth.StatusCode(err) == fiber.StatusInternalServerError {
			log.Error().Err(err).Msg("sign-in failed")
			return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to sign in")
		}

		log.Info().Err(err).Str("mobile_number", in.MobileNumber).Msg("sign-in refused")

		return handler.JSONError(c, auth.StatusCode(err), auth.Message(err))
	}

	profile, err := profileOf(a)
	if err != nil {
		log.Error().Err(err).Uint64("account_id", a.ID).Msg("account has an invalid role")
		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to sign in")
	}

	if err = s.sessions.Start(c, a.ID); err != nil {
		log.Error().Err(err).Uint64("account_id", a.ID).Msg("failed to start session")
		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to sign in")
	}

	log.Info().Uint64("account_id", a.ID).Str("role", a.Role).Msg("signed in")

	return handler.JSONData(c, fiber.StatusOK, profile, "Signed in successfully")
}

// Session returns the profile of the signed-in caller.
func (s *Service) Session(c *fiber.Ctx) error {
	caller, _ := auth.CallerFromContext(c)

	a, err := account.GetByID(s.db.WithContext(c.UserContext()), caller.ID)
	if errors.Is(err, account.ErrAccountNotFound) {
		return handler.JSONError(c, fiber.StatusUnauthorized, auth.Message(auth.ErrAuthenticationRequired))
	}

	if err != nil {
		log.Error().Err(err).Uint64("account_id", caller.ID).Msg("failed to load session account")
		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to load session")
	}

	profile, err := profileOf(a)
	if err != nil {
		log.Error().Err(err).Uint64("account_id", a.ID).Msg("account has an invalid role")
		return handler.JSONError(c, fiber.StatusInternalServerError, "Failed to load session")
	}

	return handler.JSONData(c, fiber.StatusOK, profile, "")
}
