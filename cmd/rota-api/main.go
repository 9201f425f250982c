package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/rotaworks/rota-api/api/swagger"
	"github.com/rotaworks/rota-api/internal/handler"
	"github.com/rotaworks/rota-api/internal/middleware"
	"github.com/rotaworks/rota-api/internal/repository"
	"github.com/rotaworks/rota-api/internal/service"
	"github.com/rotaworks/rota-api/internal/sheet"
	"github.com/rotaworks/rota-api/pkg/cache"
	"github.com/rotaworks/rota-api/pkg/config"
	"github.com/rotaworks/rota-api/pkg/database"
	"github.com/rotaworks/rota-api/pkg/export"
	"github.com/rotaworks/rota-api/pkg/logger"
	corsmiddleware "github.com/rotaworks/rota-api/pkg/middleware/cors"
	reqidmiddleware "github.com/rotaworks/rota-api/pkg/middleware/requestid"
	"github.com/rotaworks/rota-api/pkg/storage"
)

// @title Rota API
// @version 1.0.0
// @description Staff availability ingestion and roster management
// @BasePath /api/v1
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, worker cache disabled", "error", err)
		redisClient = nil
	}

	templateStore, err := storage.NewLocalStorage(cfg.Templates.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare template storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Templates.SignedURLSecret, cfg.Templates.SignedURLTTL)

	validate := validator.New()

	workerRepo := repository.NewWorkerRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(cfg.Auth, validate, logr)
	workerSvc := service.NewWorkerService(workerRepo, cacheRepo, cfg.Workers.CacheTTL, validate, logr)
	exportSvc := service.NewExportService(workerSvc, export.NewCSVExporter(), export.NewPDFExporter(), logr)
	templateSvc := service.NewTemplateService(templateStore, signer, cfg.Templates.MaxFileSizeBytes, logr)

	extractor := sheet.NewExtractor(sheet.Config{
		HeaderRow:    cfg.Sheet.HeaderRow,
		DataStartRow: cfg.Sheet.DataStartRow,
		NameColumn:   cfg.Sheet.NameColumn,
		TimeColumns:  cfg.Sheet.TimeColumns,
	}, logr)
	availabilitySvc, err := service.NewAvailabilityService(workerRepo, cacheRepo, extractor, cfg.Sheet.Timezone, metricsSvc, logr)
	if err != nil {
		logr.Sugar().Fatalw("failed to init availability service", "error", err)
	}

	authHandler := handler.NewAuthHandler(authSvc)
	workerHandler := handler.NewWorkerHandler(workerSvc, exportSvc)
	availabilityHandler := handler.NewAvailabilityHandler(availabilitySvc)
	templateHandler := handler.NewTemplateHandler(templateSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/templates/download", templateHandler.Download)

	protected := api.Group("", middleware.JWT(authSvc))
	protected.GET("/workers", workerHandler.List)
	protected.POST("/workers", workerHandler.Create)
	protected.PUT("/workers/:id", workerHandler.Update)
	protected.DELETE("/workers/:id", workerHandler.Delete)
	protected.GET("/workers/export", workerHandler.Export)
	protected.POST("/availability/upload", availabilityHandler.Upload)
	protected.POST("/templates", templateHandler.Upload)
	protected.GET("/templates", templateHandler.List)
	protected.GET("/templates/:name/link", templateHandler.Link)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
