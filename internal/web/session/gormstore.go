package session

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fabricstock/fabricstock/internal/db/models"
)

// GormStorage is a fiber.Storage on the sessions table, for engines without a
// dedicated storage driver.
type GormStorage struct {
	db *gorm.DB
}

var _ fiber.Storage = (*GormStorage)(nil)

// NewGormStorage returns a storage on db. The sessions table must be migrated.
func NewGormStorage(db *gorm.DB) *GormStorage {
	return &GormStorage{db: db}
}

// Get returns the value, or nil when the key is missing or expired.
func (s *GormStorage) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}

	var row models.Session

	err := s.db.Where(&models.Session{Key: key}).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	if row.ExpiresAt != nil && !row.ExpiresAt.After(time.Now()) {
		return nil, nil
	}

	return row.Value, nil
}

// Set stores val under key. A zero exp never expires.
func (s *GormStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}

	row := models.Session{Key: key, Value: val}

	if exp > 0 {
		t := time.Now().UTC().Add(exp)
		row.ExpiresAt = &t
	}

	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at"}),
	}).Create(&row).Error
}

// Delete removes key.
func (s *GormStorage) Delete(key string) error {
	if key == "" {
		return nil
	}

	return s.db.Where(&models.Session{Key: key}).Delete(&models.Session{}).Error
}

// Reset removes all sessions.
func (s *GormStorage) Reset() error {
	return s.db.Where("1 = 1").Delete(&models.Session{}).Error
}

// Close is a no-op; the connection belongs to the caller.
func (s *GormStorage) Close() error {
	return nil
}

// DeleteExpired removes expired sessions and returns how many were removed.
func (s *GormStorage) DeleteExpired() (int64, error) {
	result := s.db.Where("expires_at IS NOT NULL AND expires_at <= ?", time.Now().UTC()).Delete(&models.Session{})

	return result.RowsAffected, result.Error
}

// RunGC deletes expired sessions every interval until ctx is done.
func (s *GormStorage) RunGC(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.DeleteExpired()
			if err != nil {
				log.Error().Err(err).Msg("failed to delete expired sessions")
				continue
			}

			if n > 0 {
				log.Debug().Int64("sessions", n).Msg("deleted expired sessions")
			}
		}
	}
}
