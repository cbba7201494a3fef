// Package fabric provides persistence for fabric inventory records.
package fabric

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/fabricstock/fabricstock/internal/db/models"
)

// DateLayout is the layout of Fabric.FabricDate and of the date part of fabric codes.
const DateLayout = "2006-01-02"

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrFabricNotFound is returned when no fabric matches the id.
	ErrFabricNotFound = errors.New("fabric not found")
	// ErrInvalidReference is returned when the type, strength or width does not exist.
	ErrInvalidReference = errors.New("invalid fabric type, strength, or width")
	// ErrInvalidDate is returned when a date string cannot be parsed.
	ErrInvalidDate = errors.New("invalid date")
)

// Input is a new fabric record.
type Input struct {
	Date             time.Time
	FabricTypeID     uint64
	FabricStrengthID uint64
	FabricWidthID    uint64
	FabricLength     float64
	NameOfVendor     string
	GSMObserved      float64
	NetWeight        float64
	GSMCalculated    float64
}

// ParseDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, DateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Code builds the fabric code: type-strength-width-vendor-netWeight-date.
func Code(typeName, strengthName string, width float64, vendor string, netWeight float64, date time.Time) string {
	return strings.Join([]string{
		typeName,
		strengthName,
		formatNumber(width),
		vendor,
		formatNumber(netWeight),
		date.UTC().Format(DateLayout),
	}, "-")
}

// ProductURL is the public page a fabric's QR code points to.
func ProductURL(baseURL string, id uint64) string {
	return strings.TrimRight(baseURL, "/") + "/fabrics/" + strconv.FormatUint(id, 10)
}

func preload(db *gorm.DB) *gorm.DB {
	return db.Preload("FabricType").Preload("FabricStrength").Preload("FabricWidth")
}

// Create resolves the master data, stores the fabric with its code and product URL,
// and returns it with associations loaded.
func Create(db *gorm.DB, in Input, baseURL string) (*models.Fabric, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var id uint64

	err := db.Transaction(func(tx *gorm.DB) error {
		var (
			ft models.FabricType
			fs models.FabricStrength
			fw models.FabricWidth
		)

		for _, lookup := range []struct {
			dest any
			id   uint64
		}{{&ft, in.FabricTypeID}, {&fs, in.FabricStrengthID}, {&fw, in.FabricWidthID}} {
			if err := tx.First(lookup.dest, lookup.id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrInvalidReference
				}

				return err
			}
		}

		f := models.Fabric{
			Date:             in.Date,
			FabricDate:       in.Date.UTC().Format(DateLayout),
			FabricCode:       Code(ft.Name, fs.Name, fw.Value, in.NameOfVendor, in.NetWeight, in.Date),
			FabricTypeID:     ft.ID,
			FabricStrengthID: fs.ID,
			FabricWidthID:    fw.ID,
			FabricLength:     in.FabricLength,
			NameOfVendor:     in.NameOfVendor,
			GSMObserved:      in.GSMObserved,
			NetWeight:        in.NetWeight,
			GSMCalculated:    in.GSMCalculated,
		}

		if err := tx.Omit("FabricType", "FabricStrength", "FabricWidth").Create(&f).Error; err != nil {
			return err
		}

		id = f.ID

		return tx.Model(&f).Update("qr_code", ProductURL(baseURL, f.ID)).Error
	})
	if err != nil {
		if errors.Is(err, ErrInvalidReference) {
			return nil, err
		}

		return nil, fmt.Errorf("failed to create fabric: %w", err)
	}

	return Get(db, id)
}

// Get loads a fabric with its associations.
func Get(db *gorm.DB, id uint64) (*models.Fabric, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var f models.Fabric

	if err := preload(db).First(&f, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFabricNotFound
		}

		return nil, fmt.Errorf("failed to load fabric: %w", err)
	}

	return &f, nil
}

// List returns all fabrics, newest first.
func List(db *gorm.DB) ([]models.Fabric, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var out []models.Fabric

	if err := preload(db).Order("id DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list fabrics: %w", err)
	}

	return out, nil
}

// Delete removes a fabric.
func Delete(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Delete(&models.Fabric{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete fabric: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrFabricNotFound
	}

	return nil
}
