package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/paperloop/paperloop/internal/identity/denylist"
	httpapi "github.com/paperloop/paperloop/internal/identity/http"
	"github.com/paperloop/paperloop/internal/identity/mailer"
	"github.com/paperloop/paperloop/internal/identity/service"
	"github.com/paperloop/paperloop/internal/identity/store"
	"github.com/paperloop/paperloop/internal/identity/store/sqlite"
	"github.com/paperloop/paperloop/pkg/cryptox"
	"github.com/paperloop/paperloop/pkg/jwtx"
	"github.com/paperloop/paperloop/pkg/slogx"
)

// BuildVersion should be set at build time via ldflags.
const BuildVersion = "v0.1.0"

// Application encapsulates the identity service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db       store.Store
	signer   *jwtx.Signer
	denylist denylist.Denylist
	// stopDenylist releases whatever the active backend holds: the reaper
	// goroutine for memory, the client connection for redis.
	stopDenylist func()

	tokenService *service.TokenService
	authService  *service.AuthService
	userService  *service.UserService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "identity-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	cryptox.SetPepperPath(cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	signer, err := initSigner(cfg, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.signer = signer

	if err := app.initDenylist(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	if err := app.initServices(); err != nil {
		app.stopDenylist()
		_ = app.db.Close()
		return nil, err
	}

	app.initHTTP()
	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("identity service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully stops the server and releases resources.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down identity service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.stopDenylist()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("identity service stopped")
	return nil
}

func (app *Application) initDatabase() error {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) initDenylist() error {
	switch app.cfg.DenylistBackend {
	case "redis":
		rd, err := denylist.NewRedis(context.Background(), app.cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to connect to redis denylist: %w", err)
		}
		app.denylist = rd
		app.stopDenylist = func() { _ = rd.Close() }
		app.logger.Info("token denylist backend: redis")
	case "memory":
		mem := denylist.NewMemory(app.cfg.SweepInterval)
		app.denylist = mem
		app.stopDenylist = mem.Stop
		app.logger.Info("token denylist backend: memory")
	default:
		return fmt.Errorf("unknown denylist backend %q", app.cfg.DenylistBackend)
	}
	return nil
}

func (app *Application) initServices() error {
	tokens, err := service.NewTokenService(app.signer, app.db.Users(), app.denylist, app.cfg.TokenTTLs)
	if err != nil {
		return err
	}
	app.tokenService = tokens

	app.authService = service.NewAuthService(app.db.Users(), tokens, app.initMailer(), app.cfg.SiteURL)
	app.userService = service.NewUserService(app.db.Users(), app.authService)
	return nil
}

func (app *Application) initMailer() mailer.Sender {
	if app.cfg.SMTPAddr != "" {
		app.logger.Info("mail backend: smtp", "addr", app.cfg.SMTPAddr)
		return &mailer.SMTPSender{Addr: app.cfg.SMTPAddr, From: app.cfg.SMTPFrom}
	}
	app.logger.Info("mail backend: log")
	return &mailer.LogSender{Logger: app.logger}
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.db, app.logger)
	router.TokenService = app.tokenService
	router.AuthService = app.authService
	router.UserService = app.userService
	router.ApplyRoutes()
	app.router = router

	app.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", app.cfg.Port),
		Handler: router,
	}
}
