package logout

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/fabricstock/fabricstock/internal/config"
	"github.com/fabricstock/fabricstock/internal/web/handler"
	"github.com/fabricstock/fabricstock/internal/web/handler/login"
	"github.com/fabricstock/fabricstock/internal/web/session"
)

// Service is the logout handler service.
type Service struct {
	handler.Service
	cfg      *config.Config
	sessions *session.Store
}

// Handler is the logout handler.
var Handler = Service{}

// Init initializes the logout handler.
func (s *Service) Init(app fiber.Router, cfg *config.Config, sessions *session.Store) error {
	if app == nil || cfg == nil || sessions == nil {
		return handler.ErrNilDependency
	}

	s.cfg = cfg
	s.sessions = sessions

	// sign-out works without a valid session
	app.Post(login.Path+"/sign-out", s.SignOut)

	return nil
}

// SignOut deletes the session and clears the session cookie.
func (s *Service) SignOut(c *fiber.Ctx) error {
	if err := s.sessions.Destroy(c); err != nil {
		log.Error().Err(err).Msg("failed to delete session")
	}

	return handler.JSONData(c, fiber.StatusOK, nil, "Signed out successfully")
}
