package app

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpapi "github.com/wellfora/wellfora/internal/forum/http"
	"github.com/wellfora/wellfora/internal/forum/objstore"
	"github.com/wellfora/wellfora/internal/forum/service"
	"github.com/wellfora/wellfora/internal/forum/store"
	"github.com/wellfora/wellfora/internal/forum/store/drivers/sqlite"
	"github.com/wellfora/wellfora/pkg/jwtx"
	"github.com/wellfora/wellfora/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application wires the forum service together: store, token signer,
// object store, services, HTTP router and server lifecycle.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db      store.Store
	tokens  *jwtx.HS256
	objects *objstore.FilesystemStore

	authService    *service.AuthService
	postService    *service.PostService
	voteService    *service.VoteService
	commentService *service.CommentService
	userService    *service.UserService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "wellfora",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initTokens(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	objects, err := objstore.NewFilesystemStore(cfg.UploadDir, cfg.PublicBaseURL)
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to initialize upload directory: %w", err)
	}
	app.objects = objects

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("wellfora starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
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

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down wellfora...")

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

	app.logger.Info("wellfora stopped")
	return nil
}

// initDatabase opens the sqlite store and applies migrations.
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
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

// initTokens builds the session token signer/verifier. Without a
// configured secret an ephemeral one is generated, which invalidates all
// sessions on restart.
func (app *Application) initTokens() error {
	secret := app.cfg.TokenSecret
	if secret == "" {
		var buf [32]byte
		if _, err := rand.Read(buf[:]); err != nil {
			return fmt.Errorf("failed to generate token secret: %w", err)
		}
		secret = base64.RawStdEncoding.EncodeToString(buf[:])
		app.logger.Warn("WELLFORA_TOKEN_SECRET not set; using an ephemeral secret, sessions will not survive restarts")
	}

	tokens, err := jwtx.NewHS256([]byte(secret), app.cfg.Issuer)
	if err != nil {
		return fmt.Errorf("failed to initialize token signer: %w", err)
	}
	app.tokens = tokens
	return nil
}

// initServices initializes all business logic services.
func (app *Application) initServices() {
	app.authService = &service.AuthService{
		Store:    app.db,
		Signer:   app.tokens,
		TokenTTL: app.cfg.SessionTTL,
	}
	app.postService = &service.PostService{
		Store:   app.db,
		Objects: app.objects,
	}
	app.voteService = &service.VoteService{Store: app.db}
	app.commentService = &service.CommentService{Store: app.db}
	app.userService = &service.UserService{Store: app.db}
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.tokens,
		BuildVersion,
		app.db,
		app.logger,
		app.cfg.CookieSecure,
		app.objects.Dir(),
	)
	router.AuthService = app.authService
	router.PostService = app.postService
	router.VoteService = app.voteService
	router.CommentService = app.commentService
	router.UserService = app.userService
	router.ApplyRoutes()

	app.router = router
	app.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", app.cfg.Port),
		Handler: router,
	}
}
