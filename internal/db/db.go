// Package db opens and migrates the relational store behind the application.
package db

import (
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fabricstock/fabricstock/internal/config"
	"github.com/fabricstock/fabricstock/internal/logger/adapter/stdlogger"
	"github.com/fabricstock/fabricstock/internal/db/dsn"
	"github.com/fabricstock/fabricstock/internal/db/models"
)

// Supported database engines.
const (
	EngineMySQL    = "mysql"
	EnginePostgres = "postgres"
	EngineSQLite   = "sqlite"
)

const slowQueryThreshold = 200 * time.Millisecond

// ErrUnsupportedEngine is returned when the configured engine is unknown.
var ErrUnsupportedEngine = errors.New("unsupported database engine")

// Dialector returns the gorm dialector for the configured engine.
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DB.Engine {
	case EngineMySQL:
		return gormmysql.Open(dsn.Create(cfg)), nil
	case EnginePostgres:
		return postgres.Open(dsn.Create(cfg)), nil
	case EngineSQLite, "":
		return sqlite.Open(dsn.Create(cfg)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEngine, cfg.DB.Engine)
	}
}

// Open connects to the configured database and migrates the schema.
func Open(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	level, printLevel := logger.Warn, zerolog.WarnLevel
	if cfg.DevMode {
		level, printLevel = logger.Info, zerolog.DebugLevel
	}

	gormCfg := &gorm.Config{
		TranslateError: true,
		Logger: logger.New(stdlogger.NewWithLevel(printLevel), logger.Config{
			SlowThreshold:             slowQueryThreshold,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
	}

	gdb, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err = Migrate(gdb, cfg.DB.Engine); err != nil {
		return nil, err
	}

	return gdb, nil
}

// Migrate creates or updates all tables.
// The sessions table is only managed here for SQLite; the other engines use
// the session storage drivers, which own their table.
func Migrate(gdb *gorm.DB, engine string) error {
	tables := []any{
		&models.Account{},
		&models.Setting{},
		&models.FabricType{},
		&models.FabricStrength{},
		&models.FabricWidth{},
		&models.Fabric{},
	}

	if engine == EngineSQLite {
		tables = append(tables, &models.Session{})
	}

	if err := gdb.AutoMigrate(tables...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	return nil
}
