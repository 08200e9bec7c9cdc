package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/paperloop/paperloop/internal/docs/blob"
	httpapi "github.com/paperloop/paperloop/internal/docs/http"
	"github.com/paperloop/paperloop/internal/docs/service"
	"github.com/paperloop/paperloop/internal/docs/store"
	"github.com/paperloop/paperloop/internal/docs/store/sqlite"
	"github.com/paperloop/paperloop/pkg/jwtx"
	"github.com/paperloop/paperloop/pkg/slogx"
)

// BuildVersion should be set at build time via ldflags.
const BuildVersion = "v0.1.0"

// Application encapsulates the docs service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db       store.Store
	verifier *jwtx.Verifier
	blobs    blob.Storage

	docService *service.DocService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "docs-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	verifier, err := initVerifier(cfg)
	if err != nil {
		return nil, err
	}
	app.verifier = verifier

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initBlobs(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.docService = service.NewDocService(app.db.Docs(), app.blobs)
	app.initHTTP()

	return app, nil
}

// initVerifier loads the identity service's public key. The docs service
// never signs tokens, so a private key here would be a config smell.
func initVerifier(cfg Config) (*jwtx.Verifier, error) {
	if cfg.VerifyKeyFile == "" {
		return nil, errors.New("DOCS_VERIFY_KEY_FILE is required")
	}
	pemKey, err := os.ReadFile(cfg.VerifyKeyFile)
	if err != nil {
		return nil, fmt.Errorf("read verify key: %w", err)
	}
	verifier, err := jwtx.NewVerifier(pemKey)
	if err != nil {
		return nil, fmt.Errorf("parse verify key: %w", err)
	}
	return verifier, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("docs service starting", "port", app.cfg.Port, "version", BuildVersion)

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
	app.logger.Info("shutting down docs service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("docs service stopped")
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

func (app *Application) initBlobs() error {
	switch app.cfg.BlobBackend {
	case "s3":
		s3, err := blob.NewS3(context.Background(), blob.S3Config{
			Region:       app.cfg.S3Region,
			Bucket:       app.cfg.S3Bucket,
			AccessKey:    app.cfg.S3AccessKey,
			SecretKey:    app.cfg.S3SecretKey,
			BaseEndpoint: app.cfg.S3BaseEndpoint,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize s3 storage: %w", err)
		}
		app.blobs = s3
		app.logger.Info("blob backend: s3", "bucket", app.cfg.S3Bucket)
	case "fs":
		fs, err := blob.NewFS(app.cfg.UploadDir)
		if err != nil {
			return fmt.Errorf("failed to initialize fs storage: %w", err)
		}
		app.blobs = fs
		app.logger.Info("blob backend: fs", "dir", app.cfg.UploadDir)
	default:
		return fmt.Errorf("unknown blob backend %q", app.cfg.BlobBackend)
	}
	return nil
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(app.verifier, BuildVersion, app.db, app.logger)
	router.DocService = app.docService
	router.ApplyRoutes()
	app.router = router

	app.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", app.cfg.Port),
		Handler: router,
	}
}
