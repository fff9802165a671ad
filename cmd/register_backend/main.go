package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/company_register_app/internal/adapters/audit"
	"github.com/SscSPs/company_register_app/internal/adapters/notification"
	"github.com/SscSPs/company_register_app/internal/adapters/postal"
	portsrepo "github.com/SscSPs/company_register_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/company_register_app/internal/core/ports/services"
	"github.com/SscSPs/company_register_app/internal/core/services"
	"github.com/SscSPs/company_register_app/internal/handlers"
	"github.com/SscSPs/company_register_app/internal/middleware"
	"github.com/SscSPs/company_register_app/internal/platform/config"
	"github.com/SscSPs/company_register_app/internal/platform/metrics"
	"github.com/SscSPs/company_register_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/company_register_app/internal/repositories/memory"
	"github.com/SscSPs/company_register_app/internal/utils"
	"github.com/SscSPs/company_register_app/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
)

// @title Company Register Address API
// @version 1.0
// @description Effective-dated company addresses and the address change approval workflow.

// @host localhost:8080
// @BasePath /api/v1
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, closeStore, err := openStorage(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, cfg.PosthogEndpoint, logger)
	defer posthogClient.Close()

	m := metrics.New()
	collab := services.Collaborators{
		Audit: audit.NewFanOut(audit.NewRepositorySink(repos.AuditRepo), audit.NewPosthogSink(posthogClient)),
	}
	if cfg.SMTPHost != "" {
		collab.Notifier = notification.NewSMTPDispatcher(notification.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
	}
	if cfg.PostalLookupEnabled {
		reference, err := postal.NewReference()
		if err != nil {
			logger.Error("Failed to load postal reference data", slog.String("error", err.Error()))
			os.Exit(1)
		}
		collab.PostalLookup = reference
	}

	svc := services.NewServiceContainer(cfg, repos, collab, services.WithMetrics(m))

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	r, err := newRouter(cfg, logger, svc, m, posthogClient)
	if err != nil {
		logger.Error("Failed to build router", slog.String("error", err.Error()))
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("storage", cfg.StorageBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", slog.String("error", err.Error()))
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	if cfg.LogFormat == "plaintext" {
		return slog.New(tint.NewHandler(os.Stdout, &tint.Options{Level: level, TimeFormat: time.Kitchen}))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

// openStorage returns the repositories for the configured backend and a func releasing them.
func openStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	if cfg.StorageBackend == config.StorageMemory {
		logger.Info("Using in-memory storage")
		return memory.NewRepositoryProvider(), func() {}, nil
	}

	logger.Info("Running database migrations...")
	if err := database.RunMigrations(cfg.DatabaseURL, logger); err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}
	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}
	logger.Info("Database connection pool established.")
	return pgsql.NewRepositoryProvider(pool), func() { database.ClosePgxPool(pool) }, nil
}

func newRouter(cfg *config.Config, logger *slog.Logger, svc *portssvc.ServiceContainer, m *metrics.Metrics, posthogClient *utils.PosthogClientWrapper) (*gin.Engine, error) {
	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowedOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", middleware.ActorHeader},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	limiter, err := middleware.NewRateLimiter(cfg.RateLimit)
	if err != nil {
		return nil, err
	}
	r.Use(middleware.RateLimit(limiter), m.Middleware(), middleware.PosthogMiddleware(posthogClient))

	if err := r.SetTrustedProxies(nil); err != nil {
		return nil, err
	}

	handlers.RegisterRoutes(r, cfg, svc, m.Handler())
	return r, nil
}
