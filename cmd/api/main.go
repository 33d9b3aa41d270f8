package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/stocktrackza/stocktrack_api/internal/cache"
	"github.com/stocktrackza/stocktrack_api/internal/clock"
	"github.com/stocktrackza/stocktrack_api/internal/config"
	"github.com/stocktrackza/stocktrack_api/internal/database"
	"github.com/stocktrackza/stocktrack_api/internal/handler"
	"github.com/stocktrackza/stocktrack_api/internal/mailer"
	"github.com/stocktrackza/stocktrack_api/internal/middleware"
	"github.com/stocktrackza/stocktrack_api/internal/repository"
	"github.com/stocktrackza/stocktrack_api/internal/service"
	"github.com/stocktrackza/stocktrack_api/internal/worker"
)

// main is the application entrypoint for the StockTrack API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting stocktrack api")

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := runMigrations(db.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	// 4. Outbound email
	mail, err := mailer.NewSESMailer(&cfg.SES)
	if err != nil {
		log.Warn().Err(err).Msg("SES initialization failed - alert email disabled")
		mail = mailer.Nop{}
	}

	// 5. Initialize repositories
	txManager := repository.NewTxManager(db)
	routerRepo := repository.NewRouterRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	storeRepo := repository.NewStoreRepository(db)
	userRepo := repository.NewUserRepository(db)
	actionRepo := repository.NewActionRepository(db)
	logRepo := repository.NewLogRepository(db)
	monitoringRepo := repository.NewMonitoringRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// 6. Initialize services
	clk := clock.NewSystem(cfg.Monitor.Timezone)
	sweepLock := cache.NewSweepLock(redisClient, cfg.Monitor.SweepLockTTL)
	alertSvc := service.NewAlertService(categoryRepo, routerRepo, notificationRepo, userRepo, mail, clk)
	lifecycleSvc := service.NewLifecycleService(txManager, userRepo, mail, alertSvc)
	inventorySvc := service.NewInventoryService(txManager, storeRepo, alertSvc)
	monitoringSvc := service.NewMonitoringService(categoryRepo, routerRepo, monitoringRepo, storeRepo, sweepLock, alertSvc, clk)

	// 7. Initialize handlers
	handlers := &Handlers{
		Health:     handler.NewHealthHandler(db, redisClient),
		Action:     handler.NewActionHandler(lifecycleSvc, actionRepo),
		Router:     handler.NewRouterHandler(inventorySvc, routerRepo),
		Category:   handler.NewCategoryHandler(inventorySvc, categoryRepo),
		Store:      handler.NewStoreHandler(storeRepo),
		Monitoring: handler.NewMonitoringHandler(monitoringSvc, routerRepo, categoryRepo),
		Log:        handler.NewLogHandler(logRepo),
	}

	// 8. Initialize middleware
	jwtMw := middleware.NewJWTMiddleware(userRepo, storeRepo, cfg.JWTSecret)

	// 9. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, jwtMw)

	// 10. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 11. Start the daily snapshot worker
	go worker.NewSnapshotWorker(monitoringSvc, cfg.Monitor.SweepInterval).Start(ctx)

	// 12. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 13. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 14. Cancel context to stop workers
	cancel()

	// 15. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health     *handler.HealthHandler
	Action     *handler.ActionHandler
	Router     *handler.RouterHandler
	Category   *handler.CategoryHandler
	Store      *handler.StoreHandler
	Monitoring *handler.MonitoringHandler
	Log        *handler.LogHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, jwtMiddleware *middleware.JWTMiddleware) {
	router.GET("/v1/health", handlers.Health.GetHealth)

	v1 := router.Group("/v1")
	v1.Use(jwtMiddleware.Handle())

	// Store administration, not bound to a specific store
	v1.GET("/stores", handlers.Store.List)
	v1.POST("/stores", middleware.RequireStoreManager(), handlers.Store.Create)
	v1.PATCH("/stores/:id/threshold", middleware.RequireStoreManager(), handlers.Store.UpdateThreshold)
	v1.PATCH("/routers/:id/store", middleware.RequireStoreManager(), handlers.Router.SwitchStore)

	// Everything below acts on the caller's own store
	store := v1.Group("")
	store.Use(middleware.RequireStore())
	{
		store.POST("/actions", handlers.Action.Apply)
		store.GET("/actions", handlers.Action.List)
		store.PATCH("/actions/:id/shipped", handlers.Action.ToggleShipped)

		store.GET("/routers", handlers.Router.List)
		store.POST("/routers", handlers.Router.Create)
		store.POST("/routers/bulk", handlers.Router.BulkCreate)
		store.POST("/routers/import", handlers.Router.Import)
		store.GET("/routers/:id", handlers.Router.Get)
		store.PUT("/routers/:id", handlers.Router.Update)
		store.DELETE("/routers/:id", handlers.Router.Delete)
		store.PATCH("/routers/:id/shipped", handlers.Router.ToggleShipped)
		store.POST("/routers/:id/reactivate", handlers.Router.Reactivate)

		store.GET("/categories", handlers.Category.List)
		store.POST("/categories", handlers.Category.Create)
		store.PUT("/categories/:id", handlers.Category.Update)
		store.DELETE("/categories/:id", handlers.Category.Delete)

		store.GET("/monitoring/trend", handlers.Monitoring.Trend)
		store.GET("/monitoring/store-trend", handlers.Monitoring.StoreTrend)
		store.POST("/monitoring/sweep", middleware.RequireStoreManager(), handlers.Monitoring.Sweep)
		store.GET("/stock", handlers.Monitoring.Stock)

		store.GET("/logs", handlers.Log.List)
	}
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
