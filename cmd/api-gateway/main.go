package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sma-rooms-api/api/swagger"
	"github.com/noah-isme/sma-rooms-api/internal/handler"
	"github.com/noah-isme/sma-rooms-api/internal/middleware"
	"github.com/noah-isme/sma-rooms-api/internal/repository"
	"github.com/noah-isme/sma-rooms-api/internal/service"
	"github.com/noah-isme/sma-rooms-api/pkg/cache"
	"github.com/noah-isme/sma-rooms-api/pkg/config"
	"github.com/noah-isme/sma-rooms-api/pkg/database"
	"github.com/noah-isme/sma-rooms-api/pkg/export"
	"github.com/noah-isme/sma-rooms-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-rooms-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-rooms-api/pkg/middleware/requestid"
)

// @title SMA Rooms API
// @version 0.1.0
// @description Deterministic room allocation engine for weekly class schedules
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	// Postgres holds the durable run audit trail; the API stays up without it.
	var runs *repository.RunRepository
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Warn("postgres unavailable, run persistence disabled", zap.Error(err))
	} else {
		defer db.Close() //nolint:errcheck
		runs = repository.NewRunRepository(db)
	}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, priority groups limited to per-run overrides", zap.Error(err))
		redisClient = nil
	} else {
		defer redisClient.Close() //nolint:errcheck
	}

	validate := validator.New()
	metricsService := service.NewMetricsService()
	tokenService := service.NewTokenService(cfg.Auth)
	ingestService := service.NewIngestService(logr)
	preferenceService := service.NewPreferenceService(redisClient, logr)

	var persister service.RunPersister
	if runs != nil {
		persister = runs
	}
	allocationService := service.NewAllocationService(
		ingestService,
		preferenceService,
		persister,
		metricsService,
		validate,
		logr,
		service.AllocationConfig{
			OptimizerIterations: cfg.Allocator.OptimizerIterations,
			PerDayFallback:      cfg.Allocator.PerDayFallback,
			RoomCapacity:        cfg.Inventory.RoomCapacity,
			PersistRuns:         cfg.Allocator.PersistRuns,
			RunTTL:              cfg.Allocator.RunTTL,
		},
	)
	reportService := service.NewReportService(allocationService, export.NewCSVExporter(), export.NewPDFExporter(), logr)

	allocationHandler := handler.NewAllocationHandler(ingestService, allocationService, reportService)
	priorityHandler := handler.NewPriorityHandler(preferenceService, validate)
	metricsHandler := handler.NewMetricsHandler(metricsService)

	r := gin.New()
	r.MaxMultipartMemory = 16 << 20
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	if cfg.Auth.Enabled {
		api.Use(middleware.JWT(tokenService))
	}

	api.POST("/allocations/ingest", allocationHandler.Ingest)
	api.POST("/allocations/run", allocationHandler.Run)
	api.GET("/allocations/report", allocationHandler.Report)
	api.GET("/allocations/rooms", allocationHandler.Rooms)
	api.GET("/allocations/export.csv", allocationHandler.ExportCSV)
	api.GET("/allocations/export.pdf", allocationHandler.ExportPDF)

	api.GET("/priority-groups", priorityHandler.Get)
	api.PUT("/priority-groups", priorityHandler.Put)
	api.DELETE("/priority-groups", priorityHandler.Delete)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
