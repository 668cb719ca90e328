package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/knova-inc/knova-engine/pkg/auth"
	"github.com/knova-inc/knova-engine/pkg/config"
	"github.com/knova-inc/knova-engine/pkg/database"
	"github.com/knova-inc/knova-engine/pkg/handlers"
	"github.com/knova-inc/knova-engine/pkg/logging"
	"github.com/knova-inc/knova-engine/pkg/middleware"
	"github.com/knova-inc/knova-engine/pkg/repositories"
	"github.com/knova-inc/knova-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := buildLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("version", cfg.Version),
		zap.String("database", logging.SanitizeConnectionString(cfg.Database.ConnectionString())),
		zap.Int("review_due_days", cfg.Governance.ReviewDueDays),
		zap.Int("expiry_days", cfg.Governance.ExpiryDays))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := migrate(cfg, logger); err != nil {
		logger.Fatal("Migrations failed", zap.String("error", logging.SanitizeError(err)))
	}

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.ConnectionString(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Database connection failed", zap.String("error", logging.SanitizeError(err)))
	}
	defer db.Close()

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	assetRepo := repositories.NewAssetRepository(db)
	tagRepo := repositories.NewTagRepository(db)
	workspaceRepo := repositories.NewWorkspaceRepository(db)
	governanceRepo := repositories.NewGovernanceRepository(db)
	auditRepo := repositories.NewAuditRepository(db)
	mentoringRepo := repositories.NewMentoringRepository(db)
	championRepo := repositories.NewChampionRepository(db)
	usageRepo := repositories.NewUsageRepository(db)
	recRepo := repositories.NewRecommendationRepository(db)

	// Services
	authService := auth.NewAuthService(userRepo, cfg.Auth, logger)
	lifecycleService := services.NewLifecycleService(db, assetRepo, tagRepo, governanceRepo, auditRepo, cfg.Governance, logger)
	assetService := services.NewAssetService(assetRepo, logger)
	governanceService := services.NewGovernanceService(assetRepo, auditRepo, governanceRepo, logger)
	catalogService := services.NewCatalogService(tagRepo, workspaceRepo)
	championService := services.NewChampionService(db, championRepo, userRepo, logger)
	mentoringService := services.NewMentoringService(mentoringRepo, userRepo, logger)
	usageService := services.NewUsageService(usageRepo, logger)
	metricsService := services.NewMetricsService(usageRepo, logger)
	recommendationService := services.NewRecommendationService(recRepo, logger)

	authMiddleware := auth.NewMiddleware(authService, logger)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewAuthHandler(authService, userRepo, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewAssetsHandler(assetService, lifecycleService, usageService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewGovernanceHandler(governanceService, lifecycleService, usageService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewCatalogHandler(catalogService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewChampionsHandler(championService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewMentoringHandler(mentoringService, usageService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewMetricsHandler(metricsService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewRecommendationsHandler(recommendationService, logger).RegisterRoutes(mux, authMiddleware)

	scheduler := services.NewSweepScheduler(lifecycleService, cfg.Governance.SweepSchedule, logger)
	if err := scheduler.Start(ctx); err != nil {
		logger.Fatal("Failed to start sweep scheduler", zap.Error(err))
	}
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              net.JoinHostPort(cfg.BindAddr, cfg.Port),
		Handler:           middleware.RequestLogger(logger)(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting knova-engine",
			zap.String("addr", server.Addr),
			zap.String("version", cfg.Version))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", zap.Error(err))
	}
}

// buildLogger returns a development logger locally and a production logger
// everywhere else.
func buildLogger(env string) (*zap.Logger, error) {
	if env == "local" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// migrate applies pending schema migrations through database/sql; the pgx
// pool used for serving traffic is opened separately afterwards.
func migrate(cfg *config.Config, logger *zap.Logger) error {
	sqlDB, err := sql.Open("pgx", cfg.Database.ConnectionString())
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()

	return database.RunMigrations(sqlDB, cfg.Database.MigrationsPath, logger)
}
