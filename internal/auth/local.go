package auth

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/fabricstock/fabricstock/internal/db/controller/account"
	"github.com/fabricstock/fabricstock/internal/db/models"
)

// LocalProvider authenticates accounts against the local database.
type LocalProvider struct {
	db *gorm.DB
}

// NewLocalProvider creates a new local authentication provider.
func NewLocalProvider(db *gorm.DB) *LocalProvider {
	return &LocalProvider{
		db: db,
	}
}

// Authenticate checks the mobile number and password of an account.
// Deactivated accounts are refused before the password is verified.
func (p *LocalProvider) Authenticate(ctx context.Context, mobileNumber, password string) (*models.Account, error) {
	a, err := account.GetByMobileNumber(p.db.WithContext(ctx), mobileNumber)
	if errors.Is(err, account.ErrAccountNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query account: %w", err)
	}

	if !a.Active {
		return nil, ErrUserAccountDisabled
	}

	if !a.VerifyPassword(password) {
		return nil, ErrInvalidPassword
	}

	return a, nil
}
