// Package main initializes and starts the yoSSO broker server,
// setting up configuration, logging, the backing store, repositories,
// services, handlers and routing.
package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/yosso/internal/config"
	"github.com/atinyakov/yosso/internal/db"
	"github.com/atinyakov/yosso/internal/logger"
	"github.com/atinyakov/yosso/internal/repository"
	"github.com/atinyakov/yosso/internal/server/handler/http"
	"github.com/atinyakov/yosso/internal/service"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	printVersion, printDate := version, buildDate
	if printVersion == "" {
		printVersion = "N/A"
	}
	if printDate == "" {
		printDate = "N/A"
	}
	fmt.Printf("Build version: %s\n", printVersion)
	fmt.Printf("Build date: %s\n", printDate)

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("Info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Load the branding and shared session configuration from the data
	// directory. The setup tool provisions both; missing files fall back
	// to defaults.
	branding, err := config.LoadBranding(filepath.Join(options.DataDir, "config.json"))
	if err != nil {
		zapLogger.Fatal("cannot load branding config", zap.Error(err))
	}
	sessionCfg, err := config.LoadSession(filepath.Join(options.DataDir, "session.json"))
	if err != nil {
		zapLogger.Fatal("cannot load session config", zap.Error(err))
	}

	// Pick the backing store: PostgreSQL when a DSN is configured,
	// otherwise the file-backed bbolt store in the data directory.
	var (
		userRepo    service.UserRepository
		codeRepo    service.CodeRepository
		sessionRepo service.SessionRepository
	)

	if options.DatabaseDSN != "" {
		postgresDB, err := db.InitPostgres(options.DatabaseDSN)
		if err != nil {
			zapLogger.Fatal("cannot init database", zap.Error(err))
		}
		userRepo = repository.NewPostgresUserRepository(postgresDB)
		codeRepo = repository.NewPostgresCodeRepository(postgresDB)
		sessionRepo = repository.NewPostgresSessionRepository(postgresDB)
		zapLogger.Info("using postgres store")
	} else {
		boltPath := filepath.Join(options.DataDir, "yosso.db")
		boltDB, err := db.OpenBolt(boltPath)
		if err != nil {
			zapLogger.Fatal("cannot open store", zap.Error(err))
		}
		store, err := repository.NewBoltStore(boltDB)
		if err != nil {
			zapLogger.Fatal("cannot init store", zap.Error(err))
		}
		defer func() { _ = store.Close() }()
		userRepo, codeRepo, sessionRepo = store, store, store
		zapLogger.Info("using bolt store", zap.String("path", boltPath))
	}

	// Initialize business-logic services.
	authService := service.NewAuthService(userRepo)
	codeService := service.NewCodeService(codeRepo)
	sessionService := service.NewSessionService(sessionRepo, sessionCfg.Lifetime())

	// Purge stale sessions in the background.
	service.StartSessionCleaner(context.Background(), sessionService, time.Hour, zapLogger)

	// Create HTTP handlers for the login, password and validate endpoints.
	loginHandler := &http.LoginHandler{
		Auth:       authService,
		Codes:      codeService,
		Sessions:   sessionService,
		Branding:   branding,
		CookieName: sessionCfg.CookieName,
		CookieTTL:  sessionCfg.Lifetime(),
	}
	passwordHandler := &http.ChangePasswordHandler{Auth: authService, Branding: branding}
	validateHandler := &http.ValidateHandler{Codes: codeService}

	// Build the router with middleware and routes.
	router := http.NewRouter(loginHandler, passwordHandler, validateHandler,
		sessionService, sessionCfg.CookieName, zapLogger)

	// Create and start the HTTP server.
	server := &nethttp.Server{
		Addr:              options.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", options.Port))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
