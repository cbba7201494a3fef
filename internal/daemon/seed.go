package daemon

import (
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/fabricstock/fabricstock/internal/auth"
	"github.com/fabricstock/fabricstock/internal/config"
	"github.com/fabricstock/fabricstock/internal/db/controller/account"
	"github.com/fabricstock/fabricstock/internal/db/models"
)

const minAdminPasswordLength = 6

var (
	// ErrAdminNotConfigured is returned when the Admin block has no mobile number.
	ErrAdminNotConfigured = errors.New("admin mobile number is not configured")
	// ErrAdminPasswordTooShort is returned when the configured Admin password is too short.
	ErrAdminPasswordTooShort = errors.New("admin password must be at least 6 characters")
)

// SeedAdmin creates the configured Admin account when no Admin exists yet.
// It reports whether an account was created.
func SeedAdmin(cfg *config.Config, db *gorm.DB) (bool, error) {
	if cfg.Admin.MobileNumber == "" {
		return false, ErrAdminNotConfigured
	}

	count, err := account.CountByRole(db, string(auth.RoleAdmin))
	if err != nil {
		return false, err
	}

	if count > 0 {
		return false, nil
	}

	if len(cfg.Admin.Password) < minAdminPasswordLength {
		return false, ErrAdminPasswordTooShort
	}

	name := cfg.Admin.Name
	if name == "" {
		name = "Administrator"
	}

	a := &models.Account{
		Name:         name,
		MobileNumber: cfg.Admin.MobileNumber,
		Role:         string(auth.RoleAdmin),
		Permissions:  auth.Strings(auth.ProvisionCapabilities(auth.RoleAdmin)),
		Active:       true,
	}

	if err = account.Create(db, a, cfg.Admin.Password); err != nil {
		return false, err
	}

	log.Info().Uint64("account_id", a.ID).Str("mobile_number", a.MobileNumber).Msg("seeded admin account")

	return true, nil
}

// seed runs SeedAdmin on start. A missing Admin block is not an error there.
func seed(cfg *config.Config, db *gorm.DB) error {
	if _, err := SeedAdmin(cfg, db); err != nil && !errors.Is(err, ErrAdminNotConfigured) {
		return err
	}

	return nil
}
