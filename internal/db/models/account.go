package models

import (
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog/log"
)

// Account represents a person who can sign in to the system.
// Accounts are identified by their mobile number and hold exactly one role.
type Account struct {
	// ID is the unique identifier for the account.
	ID uint64 `gorm:"primaryKey" json:"id"`
	// Name is the display name.
	Name string `gorm:"size:100;not null" json:"name"`
	// MobileNumber is the unique sign-in identifier.
	MobileNumber string `gorm:"uniqueIndex;size:20;not null" json:"mobileNumber"`
	// Password is the Argon2id hashed password. It is never serialized.
	Password string `gorm:"size:255;not null" json:"-"`
	// Role is one of Admin, Manager, Supervisor or Worker.
	Role string `gorm:"size:20;not null;default:'Worker'" json:"role"`
	// Permissions holds the explicitly granted capabilities.
	// It is not consulted for Admin accounts.
	Permissions []string `gorm:"serializer:json;type:text" json:"permissions"`
	// Active is false for deactivated accounts, which can neither sign in nor pass a guard.
	Active bool `gorm:"not null" json:"isActive"`
	// CreatedAt is the timestamp when the account was created (managed by GORM).
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is the timestamp when the account was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the database table name for the Account model.
func (Account) TableName() string {
	return "accounts"
}

// HashPassword hashes a plaintext password using the Argon2id algorithm.
func HashPassword(password string) string {
	hashedPassword, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		log.Fatal().Msgf("failed to hash password: %v", err)
	}

	return hashedPassword
}

// VerifyPassword verifies a plaintext password against the account's stored hash
// using a constant-time comparison.
func (a *Account) VerifyPassword(password string) bool {
	match, err := argon2id.ComparePasswordAndHash(password, a.Password)
	if err != nil {
		log.Error().Msgf("failed to verify password: %v", err)
		return false
	}

	return match
}
