// Package account provides persistence for sign-in accounts.
package account

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/fabricstock/fabricstock/internal/db/models"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrAccountNotFound is returned when no account matches.
	ErrAccountNotFound = errors.New("account not found")
	// ErrMobileNumberExists is returned when another account already uses the mobile number.
	ErrMobileNumberExists = errors.New("mobile number already in use")
)

// Update holds the fields of a partial account update. Nil fields are left unchanged.
type Update struct {
	Name         *string
	MobileNumber *string
	Password     *string // plaintext, hashed before storing
	Role         *string
	Permissions  *[]string
	Active       *bool
}

func find(db *gorm.DB, query any, args ...any) (*models.Account, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var a models.Account

	if err := db.Where(query, args...).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}

		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	return &a, nil
}

// GetByID loads an account by id.
func GetByID(db *gorm.DB, id uint64) (*models.Account, error) {
	return find(db, "id = ?", id)
}

// GetByMobileNumber loads an account by its sign-in mobile number.
func GetByMobileNumber(db *gorm.DB, mobileNumber string) (*models.Account, error) {
	return find(db, "mobile_number = ?", mobileNumber)
}

// List returns all accounts, newest first.
func List(db *gorm.DB) ([]models.Account, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var accounts []models.Account

	if err := db.Order("created_at DESC, id DESC").Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	return accounts, nil
}

func mobileNumberTaken(db *gorm.DB, mobileNumber string, exceptID uint64) (bool, error) {
	var count int64

	q := db.Model(&models.Account{}).Where("mobile_number = ?", mobileNumber)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}

	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check mobile number: %w", err)
	}

	return count > 0, nil
}

// Create hashes password and inserts the account.
func Create(db *gorm.DB, a *models.Account, password string) error {
	if db == nil {
		return ErrDBNil
	}

	taken, err := mobileNumberTaken(db, a.MobileNumber, 0)
	if err != nil {
		return err
	}

	if taken {
		return ErrMobileNumberExists
	}

	if a.Permissions == nil {
		a.Permissions = []string{}
	}

	a.Password = models.HashPassword(password)

	return insert(db, a)
}

// insert relies on the unique index when a concurrent create wins the race past the check.
func insert(db *gorm.DB, a *models.Account) error {
	err := db.Create(a).Error

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrMobileNumberExists
	case err != nil:
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// Apply updates the account with the non-nil fields of u.
func Apply(db *gorm.DB, id uint64, u Update) (*models.Account, error) {
	a, err := GetByID(db, id)
	if err != nil {
		return nil, err
	}

	if u.MobileNumber != nil && *u.MobileNumber != a.MobileNumber {
		taken, err := mobileNumberTaken(db, *u.MobileNumber, id)
		if err != nil {
			return nil, err
		}

		if taken {
			return nil, ErrMobileNumberExists
		}

		a.MobileNumber = *u.MobileNumber
	}

	if u.Name != nil {
		a.Name = *u.Name
	}

	if u.Password != nil {
		a.Password = models.HashPassword(*u.Password)
	}

	if u.Role != nil {
		a.Role = *u.Role
	}

	if u.Permissions != nil {
		a.Permissions = *u.Permissions
		if a.Permissions == nil {
			a.Permissions = []string{}
		}
	}

	if u.Active != nil {
		a.Active = *u.Active
	}

	err = db.Save(a).Error

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return nil, ErrMobileNumberExists
	case err != nil:
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	return a, nil
}

// Delete removes an account.
func Delete(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Delete(&models.Account{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete account: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrAccountNotFound
	}

	return nil
}

// CountByRole counts accounts holding the role.
func CountByRole(db *gorm.DB, role string) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	var count int64

	if err := db.Model(&models.Account{}).Where("role = ?", role).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count accounts: %w", err)
	}

	return count, nil
}
