package app

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aussiebroadwan/spamguard/internal/spamguard/detect"
	httpapi "github.com/aussiebroadwan/spamguard/internal/spamguard/http"
	"github.com/aussiebroadwan/spamguard/internal/spamguard/mail"
	"github.com/aussiebroadwan/spamguard/internal/spamguard/model"
	"github.com/aussiebroadwan/spamguard/internal/spamguard/service"
	"github.com/aussiebroadwan/spamguard/internal/spamguard/store"
	"github.com/aussiebroadwan/spamguard/internal/spamguard/store/drivers/sqlite"
	"github.com/aussiebroadwan/spamguard/pkg/cryptox"
	"github.com/aussiebroadwan/spamguard/pkg/httpx"
	"github.com/aussiebroadwan/spamguard/pkg/slogx"
	"github.com/getsentry/sentry-go"
)

// BuildVersion is overridden at build time via -ldflags "-X ...".
var BuildVersion = "v0.1.0"

// Application encapsulates the spamguard service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db        store.Store
	keys      Keys
	detector  *detect.Detector
	predictor model.Predictor
	mailer    mail.Mailer

	// Services
	eventLog            *service.EventLog
	otpService          *service.OTPService
	sessionService      *service.SessionService
	authService         *service.AuthService
	classifyService     *service.ClassifyService
	auditService        *service.AuditService
	bootstrapService    *service.BootstrapService
	housekeepingService *service.HousekeepingService

	// Stops the detector rules watcher
	stopWatch context.CancelFunc

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	sentryEnabled, err := initSentry(cfg)
	if err != nil {
		return nil, err
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "spamguard",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
			Sentry:  sentryEnabled,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	keys, err := InitKeys(app.cfg, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to initialize keys: %w", err)
	}
	app.keys = keys

	if err := app.initServices(sentryEnabled); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// initSentry configures error reporting when a DSN is set.
func initSentry(cfg Config) (bool, error) {
	if cfg.SentryDSN == "" {
		return false, nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.SentryDSN,
		Environment: cfg.Env,
		Release:     "spamguard@" + BuildVersion,
	})
	if err != nil {
		return false, fmt.Errorf("failed to initialize sentry: %w", err)
	}
	return true, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()

	if app.cfg.DetectorConfig != "" {
		ctx, cancel := context.WithCancel(context.Background())
		app.stopWatch = cancel
		if err := detect.Watch(ctx, app.cfg.DetectorConfig, app.detector, app.logger); err != nil {
			// The rules loaded at startup stay in force
			app.logger.Error("detector rules watcher failed to start", "error", err)
		}
	}

	app.logger.Info("spamguard starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
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

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down spamguard...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if app.stopWatch != nil {
		app.stopWatch()
	}
	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	sentry.Flush(2 * time.Second)

	app.logger.Info("spamguard stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", app.cfg.DatabaseFile)
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

// initServices initializes all business logic services
func (app *Application) initServices(sentryEnabled bool) error {
	hasher, err := cryptox.NewPasswordHasher(app.keys.Pepper)
	if err != nil {
		return fmt.Errorf("failed to initialize password hasher: %w", err)
	}

	app.eventLog = &service.EventLog{
		Store:  app.db,
		Key:    app.keys.EventKey,
		Sentry: sentryEnabled,
	}

	app.detector = detect.New(nil, app.eventLog)
	if app.cfg.DetectorConfig != "" {
		if err := app.detector.Reload(app.cfg.DetectorConfig); err != nil {
			return fmt.Errorf("failed to load detector rules: %w", err)
		}
		app.logger.Info("detector rules loaded", "path", app.cfg.DetectorConfig)
	}

	app.predictor = model.NewHTTPPredictor(app.cfg.ModelURL, app.cfg.ModelTimeout)
	app.logger.Info("model predictor configured",
		"url", app.cfg.ModelURL,
		"timeout", app.cfg.ModelTimeout,
		"detector_rules", cmp.Or(app.cfg.DetectorConfig, "built-in"),
	)
	app.mailer = mail.NewSMTPMailer(mail.SMTPConfig{
		Host:       app.cfg.EmailServer,
		Port:       app.cfg.EmailPort,
		Username:   app.cfg.EmailUser,
		Password:   app.cfg.EmailPassword,
		From:       app.cfg.EmailFrom,
		RequireTLS: app.cfg.EmailTLS,
	})

	app.otpService = &service.OTPService{
		Store:  app.db,
		Events: app.eventLog,
		Key:    app.keys.OTPKey,
	}
	app.sessionService = &service.SessionService{
		Store:    app.db,
		Events:   app.eventLog,
		Signer:   app.keys.Signer,
		Verifier: app.keys.Verifier,
		Issuer:   app.cfg.Issuer,
	}
	app.authService = &service.AuthService{
		Store:    app.db,
		OTP:      app.otpService,
		Sessions: app.sessionService,
		Events:   app.eventLog,
		Mailer:   app.mailer,
		Hasher:   hasher,
		Carrier:  &service.Carrier{Sealer: app.keys.Sealer},
	}
	app.classifyService = &service.ClassifyService{
		Store:     app.db,
		Detector:  app.detector,
		Predictor: app.predictor,
		Events:    app.eventLog,
	}
	app.auditService = &service.AuditService{Store: app.db}
	app.bootstrapService = &service.BootstrapService{
		Store:  app.db,
		Events: app.eventLog,
		Hasher: hasher,
		Token:  app.cfg.BootstrapToken,
	}
	if app.cfg.BootstrapToken != "" {
		app.logger.Info("bootstrap endpoint enabled")
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.otpService,
		app.auditService,
		app.logger,
		app.cfg.HousekeepingInterval,
		app.cfg.PredictionRetention,
	)
	return nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	limiter := httpx.NewRateLimiter(app.cfg.DefaultLimit,
		httpx.WithOperationLimit(httpapi.OpClassify, app.cfg.ClassifyLimit),
		httpx.WithOperationLimit(httpapi.OpHealth, httpx.HealthLimit),
		httpx.WithLimitHook(httpapi.RateLimitHook(app.eventLog)),
	)

	router := httpapi.NewRouter(httpapi.RouterConfig{
		BuildVersion:   BuildVersion,
		AllowedOrigins: app.cfg.AllowedOrigins,
		TrustProxy:     app.cfg.TrustProxy,
		Limiter:        limiter,
		Predictor:      app.predictor,
	}, app.db, app.logger)

	// Wire services to router
	router.Events = app.eventLog
	router.EventLog = app.eventLog
	router.AuthService = app.authService
	router.SessionService = app.sessionService
	router.ClassifyService = app.classifyService
	router.AuditService = app.auditService
	router.BootstrapService = app.bootstrapService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
