// Package session keeps server-side sessions in a fiber.Storage backend.
// The client only holds an opaque random session id in a cookie.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/fabricstock/fabricstock/internal/config"
)

// ErrNoSession is returned when the request carries no session or the session is unknown or expired.
var ErrNoSession = errors.New("no session")

// Data represents the session data structure.
type Data struct {
	AccountID uint64    `json:"accountId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store reads and writes sessions.
type Store struct {
	storage fiber.Storage
	cfg     config.Session
}

// New creates a session store on top of a storage backend.
func New(storage fiber.Storage, cfg config.Session) *Store {
	if storage == nil {
		panic("storage is nil")
	}

	if cfg.CookieName == "" {
		cfg.CookieName = "session"
	}

	if cfg.ExpiryTime <= 0 {
		cfg.ExpiryTime = config.DefaultSessionExpiry
	}

	return &Store{storage: storage, cfg: cfg}
}

// GenerateSessionID generates a new secure random session ID.
func GenerateSessionID() (string, error) {
	// 32 bytes = 256 bits
	b := make([]byte, 32) //nolint:mnd
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}

// Write stores the session data under id.
func (s *Store) Write(id string, d Data) error {
	out, err := json.Marshal(d)
	if err != nil {
		return err
	}

	return s.storage.Set(id, out, s.cfg.ExpiryTime)
}

// Read loads the session stored under id.
func (s *Store) Read(id string) (*Data, error) {
	raw, err := s.storage.Get(id)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	// storages return nil for missing and expired keys
	if len(raw) == 0 {
		return nil, ErrNoSession
	}

	var d Data
	if err = json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}

	return &d, nil
}

// Start creates a session for the account and sets the session cookie.
func (s *Store) Start(c *fiber.Ctx, accountID uint64) error {
	id, err := GenerateSessionID()
	if err != nil {
		return fmt.Errorf("failed to generate session id: %w", err)
	}

	if err = s.Write(id, Data{AccountID: accountID, CreatedAt: time.Now().UTC()}); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}

	c.Cookie(s.cookie(id, int(s.cfg.ExpiryTime.Seconds())))

	return nil
}

// Load returns the session of the request.
func (s *Store) Load(c *fiber.Ctx) (*Data, error) {
	id := c.Cookies(s.cfg.CookieName)
	if id == "" {
		return nil, ErrNoSession
	}

	return s.Read(id)
}

// Destroy deletes the session of the request, if any, and clears the cookie.
func (s *Store) Destroy(c *fiber.Ctx) error {
	var err error

	if id := c.Cookies(s.cfg.CookieName); id != "" {
		err = s.storage.Delete(id)
	}

	c.Cookie(s.cookie("", -1))

	return err
}

func (s *Store) cookie(value string, maxAge int) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     s.cfg.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   s.cfg.CookieSecure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}
