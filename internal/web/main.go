package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/fabricstock/fabricstock/internal/auth"
	"github.com/fabricstock/fabricstock/internal/config"
	fiberlogger "github.com/fabricstock/fabricstock/internal/logger/adapter/fiber"
	"github.com/fabricstock/fabricstock/internal/web/handler"
	"github.com/fabricstock/fabricstock/internal/web/handler/fabric"
	"github.com/fabricstock/fabricstock/internal/web/handler/login"
	"github.com/fabricstock/fabricstock/internal/web/handler/logout"
	"github.com/fabricstock/fabricstock/internal/web/handler/masterdata"
	"github.com/fabricstock/fabricstock/internal/web/handler/navigation"
	"github.com/fabricstock/fabricstock/internal/web/handler/permission"
	"github.com/fabricstock/fabricstock/internal/web/handler/settings/qrcode"
	"github.com/fabricstock/fabricstock/internal/web/handler/user"
	"github.com/fabricstock/fabricstock/internal/web/session"
)

const (
	// CheckAlivePath answers load balancer health checks.
	CheckAlivePath = "/checkalive"
	// MetricsPath exposes prometheus metrics.
	MetricsPath = "/metrics"
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
	guard        *auth.Guard
}

// Options are the optional dependencies of New.
type Options struct {
	// Resolver replaces the session based caller resolver.
	Resolver auth.CallerResolver
	// Registerer receives the guard metrics. Default: prometheus.DefaultRegisterer.
	Registerer prometheus.Registerer
	// Gatherer is served on /metrics. Default: prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer
	// FastShutDown skips the load balancer grace period on shutdown.
	FastShutDown bool
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan error, 1)

	go func() {
		err := s.App.Listen(addr)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			doneFiber <- err
			return
		}

		doneFiber <- nil
	}()

	return <-doneFiber // wait for fiber to stop
}

// WaitShutdown waits for SIGINT or SIGTERM and shuts the server down gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	s.Shutdown()
}

// Shutdown fails check alive for ShutDownTime seconds, then stops the http server.
func (s *Service) Shutdown() {
	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	s.alive.Store(false)

	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	log.Info().Msg("stopping http server ...")

	if err := s.App.Shutdown(); err != nil {
		log.Error().Err(err).Msg("")
	}

	log.Info().Msg("http server was stopped ... good bye...")
}

// Alive reports whether check alive answers 200.
func (s *Service) Alive() bool {
	return s.alive.Load()
}

func (s *Service) checkAlive(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.Status(fiber.StatusServiceUnavailable).SendString("shutting down")
	}

	return c.SendString("OK")
}

// cleanPath collapses repeated slashes, so //api//users routes like /api/users.
func cleanPath(c *fiber.Ctx) error {
	p := c.Path()
	if strings.Contains(p, "//") {
		c.Path(path.Clean(p))
	}

	return c.Next()
}

// accessLogFields adds the signed-in account to access log entries.
func accessLogFields(c *fiber.Ctx, e *zerolog.Event) {
	if caller, ok := auth.CallerFromContext(c); ok {
		e.Uint64("account_id", caller.ID).Str("role", string(caller.Role))
	}
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, db *gorm.DB, sessions *session.Store, opts Options) (*Service, error) {
	if cfg == nil || db == nil || sessions == nil {
		return nil, handler.ErrNilDependency
	}

	if opts.Registerer == nil {
		opts.Registerer = prometheus.DefaultRegisterer
	}

	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}

	if opts.Resolver == nil {
		opts.Resolver = auth.NewSessionResolver(sessions, db)
	}

	title := cfg.Title
	if title == "" {
		title = "FabricStock"
	}

	// create fiber app
	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			ErrorHandler:   handler.ErrorHandler,
		},
	)

	if cfg.Webserver.CleanPath {
		app.Use(cleanPath)
	}

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New())
	}

	if cfg.Log.EnableAccessLogToConsole || cfg.Log.File.Enabled {
		app.Use(fiberlogger.New(fiberlogger.Config{
			Config:        cfg.Log,
			CheckAliveURI: CheckAlivePath,
			Fields:        accessLogFields,
		}))
	}

	guard := auth.NewGuard(opts.Resolver, auth.WithMetrics(auth.NewMetrics(opts.Registerer)))

	service := &Service{
		cfg:          cfg,
		App:          app,
		db:           db,
		guard:        guard,
		fastShutDown: opts.FastShutDown,
	}
	service.alive.Store(true)

	app.Get(CheckAlivePath, service.checkAlive)
	app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))

	// init handlers (they register their own routes with capability checks)
	if err := login.Handler.Init(app, cfg, db, guard, sessions); err != nil {
		return nil, err
	}

	if err := logout.Handler.Init(app, cfg, sessions); err != nil {
		return nil, err
	}

	for _, h := range []handler.Service{
		&navigation.Handler,
		&user.Handler,
		&permission.Handler,
		&masterdata.Handler,
		&fabric.Handler,
		&qrcode.Handler,
	} {
		if err := h.Init(app, cfg, db, guard); err != nil {
			return nil, err
		}
	}

	app.Use(func(c *fiber.Ctx) error {
		return handler.JSONError(c, fiber.StatusNotFound, "Not found")
	})

	return service, nil
}
