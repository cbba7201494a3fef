package daemon

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"
	"gorm.io/gorm"

	"github.com/fabricstock/fabricstock/internal/config"
	"github.com/fabricstock/fabricstock/internal/db"
	"github.com/fabricstock/fabricstock/internal/db/dsn"
	"github.com/fabricstock/fabricstock/internal/web/session"
)

const (
	sessionTable      = "sessions"
	sessionGCInterval = 10 * time.Minute
)

// newSessionStorage picks the session backend for the database engine.
// mysql and postgres use the gofiber storage drivers, sqlite keeps sessions in a gorm table.
func newSessionStorage(ctx context.Context, cfg *config.Config, gdb *gorm.DB) fiber.Storage {
	switch cfg.DB.Engine {
	case db.EngineMySQL:
		return sessionmysql.New(sessionmysql.Config{
			ConnectionURI: dsn.MySQL(cfg),
			Table:         sessionTable,
			GCInterval:    sessionGCInterval,
		})
	case db.EnginePostgres:
		return sessionpostgres.New(sessionpostgres.Config{
			ConnectionURI: dsn.Postgres(cfg),
			Table:         sessionTable,
			GCInterval:    sessionGCInterval,
		})
	}

	s := session.NewGormStorage(gdb)
	go s.RunGC(ctx, sessionGCInterval)

	return s
}
