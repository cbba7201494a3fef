package handler

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/fabricstock/fabricstock/internal/auth"
	"github.com/fabricstock/fabricstock/internal/config"
)

// Service is the interface for a web handler service.
type Service interface {
	Init(app fiber.Router, cfg *config.Config, db *gorm.DB, guard *auth.Guard) error
}
