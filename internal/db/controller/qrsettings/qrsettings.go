// Package qrsettings loads and stores how fabric QR codes are rendered and where they point to.
package qrsettings

import (
	"errors"

	"gorm.io/gorm"

	"github.com/fabricstock/fabricstock/internal/db/controller/setting"
)

// SettingName is the settings row holding the QR code configuration.
const SettingName = "qrcode"

const (
	// DefaultSize is the rendered PNG edge length in pixels.
	DefaultSize = 256
	// DefaultMargin is the quiet zone in modules around the code.
	DefaultMargin = 2

	minSize   = 64
	maxSize   = 2048
	maxMargin = 16
)

var (
	// ErrInvalidSize is returned when Size is outside 64..2048.
	ErrInvalidSize = errors.New("qr code size must be between 64 and 2048 pixels")
	// ErrInvalidMargin is returned when Margin is outside 0..16.
	ErrInvalidMargin = errors.New("qr code margin must be between 0 and 16")
)

// Settings configures QR code rendering.
// An empty BaseURL means the webserver URL is used for product links.
type Settings struct {
	BaseURL string `json:"baseUrl"`
	Size    int    `json:"size"`
	Margin  int    `json:"margin"`
}

// Defaults returns the settings used when nothing has been stored.
func Defaults() Settings {
	return Settings{Size: DefaultSize, Margin: DefaultMargin}
}

// Validate checks the value ranges.
func (s Settings) Validate() error {
	if s.Size < minSize || s.Size > maxSize {
		return ErrInvalidSize
	}

	if s.Margin < 0 || s.Margin > maxMargin {
		return ErrInvalidMargin
	}

	return nil
}

// ResolveBaseURL returns BaseURL, or fallback when BaseURL is empty.
func (s Settings) ResolveBaseURL(fallback string) string {
	if s.BaseURL != "" {
		return s.BaseURL
	}

	return fallback
}

// Load returns the stored settings, or Defaults when none are stored.
func Load(db *gorm.DB) (Settings, error) {
	s := Defaults()

	err := setting.GetJSON(db, SettingName, &s)
	if errors.Is(err, setting.ErrSettingNotFound) {
		return Defaults(), nil
	}

	if err != nil {
		return Defaults(), err
	}

	return s, nil
}

// Save validates and stores the settings.
func Save(db *gorm.DB, s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}

	return setting.SetJSON(db, SettingName, s)
}
