package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"whattheygot/database"
	"whattheygot/internal/config"
	"whattheygot/internal/http-api/cache"
	"whattheygot/internal/http-api/handler"
	"whattheygot/internal/http-api/middleware"
	"whattheygot/internal/http-api/repository"
	"whattheygot/internal/http-api/service"
	"whattheygot/internal/moderation"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}
	if err := database.Migrate(db, logger); err != nil {
		log.Fatalf("could not run migrations: %v", err)
	}

	// The menu cache is best-effort; the API runs without redis
	menuCache, err := cache.NewMenuCache(cfg.RedisURL, cfg.MenuCacheTTL)
	if err != nil {
		logger.Warn("redis unavailable, menu caching disabled", "error", err)
		menuCache = nil
	} else {
		defer menuCache.Close()
	}

	hasher, err := moderation.NewDeviceHasher(cfg.DeviceHashSecret)
	if err != nil {
		log.Fatalf("could not initialize device hasher: %v", err)
	}
	scorer := moderation.NewScorer(cfg.PerspectiveAPIURL, cfg.PerspectiveAPIKey, cfg.ModerationTimeout)
	verdictCache := moderation.NewVerdictCache(cfg.ModerationCacheTTL)

	// Repositories
	reviewRepo := repository.NewReviewRepository(db)
	banRepo := repository.NewBanRepository(db)
	eventRepo := repository.NewModerationEventRepository(db)
	menuRepo := repository.NewMenuItemRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	pollRepo := repository.NewPollRepository(db)

	// Services
	reviewService := service.NewReviewService(reviewRepo, banRepo, eventRepo, menuRepo, hasher, scorer, verdictCache, logger)
	moderationService := service.NewModerationService(reviewRepo, banRepo, eventRepo, logger)
	menuService := service.NewMenuService(menuRepo, menuCache)
	announcementService := service.NewAnnouncementService(announcementRepo)
	pollService := service.NewPollService(pollRepo, hasher)

	// Handlers
	reviewHandler := handler.NewReviewHandler(reviewService)
	adminHandler := handler.NewAdminHandler(moderationService)
	menuHandler := handler.NewMenuHandler(menuService)
	announcementHandler := handler.NewAnnouncementHandler(announcementService)
	pollHandler := handler.NewPollHandler(pollService)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.MetricsMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	rateLimiter := middleware.NewSubmissionRateLimiter(cfg.ReviewRatePerMin, cfg.ReviewRateBurst)

	// Public surface. Review submission and poll voting accept both
	// authenticated and anonymous callers; anonymity is accountable through
	// the device fingerprint.
	api := r.Group("/api")
	api.Use(middleware.OptionalAuth(cfg.JWTSecret))
	api.Use(middleware.DeviceFingerprint())
	api.Use(rateLimiter.Middleware())
	{
		menuHandler.RegisterPublicRoutes(api)
		reviewHandler.RegisterRoutes(api)
		announcementHandler.RegisterPublicRoutes(api)
		pollHandler.RegisterPublicRoutes(api)
	}

	// Admin surface
	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	admin.Use(middleware.RequireAdmin())
	{
		adminHandler.RegisterRoutes(admin)
		menuHandler.RegisterAdminRoutes(admin)
		announcementHandler.RegisterAdminRoutes(admin)
		pollHandler.RegisterAdminRoutes(admin)
	}

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("starting API server", "addr", addr, "env", cfg.GoEnv)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
