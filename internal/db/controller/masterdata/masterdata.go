// Package masterdata provides persistence for the fabric master data tables:
// types, strengths and widths. Each table has one unique key column.
package masterdata

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/fabricstock/fabricstock/internal/db/models"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrNotFound is returned when no row matches the id.
	ErrNotFound = errors.New("master data not found")
	// ErrExists is returned when another row already has the key.
	ErrExists = errors.New("master data already exists")
	// ErrInUse is returned when fabrics still reference the row.
	ErrInUse = errors.New("master data is referenced by fabrics")
)

// Store is the persistence for one master data table.
type Store[T any] struct {
	// KeyColumn is the unique column ("name" or "value").
	KeyColumn string
	// FabricColumn is the foreign key column in the fabrics table.
	FabricColumn string
}

var (
	// Types stores fabric types, keyed by name.
	Types = Store[models.FabricType]{KeyColumn: "name", FabricColumn: "fabric_type_id"}
	// Strengths stores fabric strengths, keyed by name.
	Strengths = Store[models.FabricStrength]{KeyColumn: "name", FabricColumn: "fabric_strength_id"}
	// Widths stores fabric widths, keyed by value.
	Widths = Store[models.FabricWidth]{KeyColumn: "value", FabricColumn: "fabric_width_id"}
)

// List returns all rows ordered by key.
func (s Store[T]) List(db *gorm.DB) ([]T, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var out []T

	if err := db.Order(s.KeyColumn).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list master data: %w", err)
	}

	return out, nil
}

// Get loads one row by id.
func (s Store[T]) Get(db *gorm.DB, id uint64) (*T, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var item T

	if err := db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("failed to load master data: %w", err)
	}

	return &item, nil
}

func (s Store[T]) keyTaken(db *gorm.DB, key any, exceptID uint64) (bool, error) {
	var count int64

	q := db.Model(new(T)).Where(s.KeyColumn+" = ?", key)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}

	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check master data key: %w", err)
	}

	return count > 0, nil
}

// Create inserts item; key is the value of its key column.
func (s Store[T]) Create(db *gorm.DB, item *T, key any) error {
	if db == nil {
		return ErrDBNil
	}

	taken, err := s.keyTaken(db, key, 0)
	if err != nil {
		return err
	}

	if taken {
		return ErrExists
	}

	return insert(db, item)
}

// insert maps a unique index violation to ErrExists for creates that race past keyTaken.
func insert[T any](db *gorm.DB, item *T) error {
	err := db.Create(item).Error

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrExists
	case err != nil:
		return fmt.Errorf("failed to create master data: %w", err)
	}

	return nil
}

// Update sets the key column of row id.
func (s Store[T]) Update(db *gorm.DB, id uint64, key any) (*T, error) {
	item, err := s.Get(db, id)
	if err != nil {
		return nil, err
	}

	taken, err := s.keyTaken(db, key, id)
	if err != nil {
		return nil, err
	}

	if taken {
		return nil, ErrExists
	}

	err = db.Model(item).Update(s.KeyColumn, key).Error

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return nil, ErrExists
	case err != nil:
		return nil, fmt.Errorf("failed to update master data: %w", err)
	}

	return s.Get(db, id)
}

// Delete removes row id unless fabrics reference it.
func (s Store[T]) Delete(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	var refs int64

	if err := db.Model(&models.Fabric{}).Where(s.FabricColumn+" = ?", id).Count(&refs).Error; err != nil {
		return fmt.Errorf("failed to check master data references: %w", err)
	}

	if refs > 0 {
		return ErrInUse
	}

	result := db.Delete(new(T), id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete master data: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
