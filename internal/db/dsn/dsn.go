// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"
	"net/url"

	"github.com/fabricstock/fabricstock/internal/config"
)

// Create builds the Data Source Name for the configured engine.
func Create(cfg *config.Config) string {
	switch cfg.DB.Engine {
	case "mysql":
		return MySQL(cfg)
	case "postgres":
		return Postgres(cfg)
	default:
		return SQLite(cfg)
	}
}

// MySQL builds a go-sql-driver DSN.
func MySQL(cfg *config.Config) string {
	out := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s",
		cfg.DB.User,
		cfg.DB.Password,
		cfg.DB.Host,
		cfg.DB.Port,
		cfg.DB.Name,
	)

	if cfg.DB.Extras != "" {
		out += "?" + cfg.DB.Extras
	}

	return out
}

// Postgres builds a postgres:// connection URI accepted by pgx and the session storage.
func Postgres(cfg *config.Config) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.DB.User, cfg.DB.Password),
		Host:     fmt.Sprintf("%s:%d", cfg.DB.Host, cfg.DB.Port),
		Path:     "/" + cfg.DB.Name,
		RawQuery: cfg.DB.Extras,
	}

	return u.String()
}

// SQLite returns the database file path, or an in-memory database when no path is set.
func SQLite(cfg *config.Config) string {
	if cfg.DB.Path == "" {
		return ":memory:"
	}

	if cfg.DB.Extras != "" {
		return cfg.DB.Path + "?" + cfg.DB.Extras
	}

	return cfg.DB.Path
}
