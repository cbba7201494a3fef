package config

import (
	"time"

	"github.com/fabricstock/fabricstock/internal/logger"
)

// DefaultSessionExpiry is used when Webserver.Session.ExpiryTime is not set.
const DefaultSessionExpiry = 24 * time.Hour

// Session settings.
type Session struct {
	ExpiryTime   time.Duration
	CookieName   string
	CookieSecure bool // only send the session cookie over https
}

// Admin is the account seeded on start when no Admin account exists yet.
// Seeding is skipped when MobileNumber is empty.
type Admin struct {
	Name         string
	MobileNumber string
	Password     string `json:"-" toml:"-"`
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	Admin     Admin
}

// Webserver implement webserver settings.
type Webserver struct {
	CleanPath      bool    // use clean path middleware to allow multi slash requests
	DisableRecover bool    // disable recover middleware
	Port           int     // listening port for the webserver
	ShutDownTime   int     // wait time for shutdown
	URL            string  // public base url, used for fabric product links
	Session        Session // session settings
}
