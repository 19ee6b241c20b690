package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/almanar-institute/grades-api/api/swagger"
	"github.com/almanar-institute/grades-api/internal/handler"
	"github.com/almanar-institute/grades-api/internal/middleware"
	"github.com/almanar-institute/grades-api/internal/models"
	"github.com/almanar-institute/grades-api/internal/repository"
	"github.com/almanar-institute/grades-api/internal/service"
	"github.com/almanar-institute/grades-api/pkg/cache"
	"github.com/almanar-institute/grades-api/pkg/config"
	"github.com/almanar-institute/grades-api/pkg/database"
	"github.com/almanar-institute/grades-api/pkg/export"
	"github.com/almanar-institute/grades-api/pkg/logger"
	corsmiddleware "github.com/almanar-institute/grades-api/pkg/middleware/cors"
	reqidmiddleware "github.com/almanar-institute/grades-api/pkg/middleware/requestid"
)

// @title Al-Manar Institute Grades API
// @version 1.0.0
// @description Grade distribution and aggregation engine
// @BasePath /api
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
		logr.Sugar().Fatalw("failed to connect database", "error", err)
	}
	defer db.Close()

	validate := validator.New()
	metrics := service.NewMetricsService()

	// Redis is optional; without it distribution resolution just skips caching.
	var distributionCache *repository.CacheRepository
	if cfg.Distributions.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, distribution cache disabled", "error", err)
		} else {
			defer redisClient.Close()
			distributionCache = repository.NewCacheRepository(redisClient)
		}
	}

	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	distributionRepo := repository.NewDistributionRepository(db)
	gradeRepo := repository.NewGradeRepository(db)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     "grades-api",
	})
	catalogSvc := service.NewCatalogService(catalogRepo, logr)
	var distributionSvc *service.DistributionService
	if distributionCache != nil {
		distributionSvc = service.NewDistributionService(distributionRepo, distributionCache, validate, logr, cfg.Distributions.CacheTTL)
	} else {
		distributionSvc = service.NewDistributionService(distributionRepo, nil, validate, logr, cfg.Distributions.CacheTTL)
	}
	gradeSvc := service.NewGradeService(gradeRepo, distributionSvc, validate, logr)
	studentSvc := service.NewStudentService(studentRepo, gradeRepo, validate, logr)
	importSvc := service.NewImportService(studentRepo, distributionSvc, validate, logr, service.ImportConfig{
		MaxFileSizeBytes: cfg.Imports.MaxFileSizeBytes,
		SheetName:        cfg.Imports.SheetName,
	})
	exportSvc := service.NewExportService(studentSvc, catalogRepo, export.NewCSVExporter(), export.NewPDFExporter(), validate, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	studentHandler := handler.NewStudentHandler(studentSvc)
	catalogHandler := handler.NewCatalogHandler(catalogSvc)
	distributionHandler := handler.NewDistributionHandler(distributionSvc)
	gradeHandler := handler.NewGradeHandler(gradeSvc, metrics)
	importHandler := handler.NewImportHandler(importSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metrics, db)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("", middleware.JWT(authSvc))
	{
		authed.GET("/auth/me", authHandler.Me)

		authed.GET("/students", studentHandler.List)
		authed.GET("/students/filtered", studentHandler.Roster)
		authed.GET("/students/:id", studentHandler.Get)
		authed.POST("/students", middleware.RequireRoles(models.RoleAdmin), studentHandler.Create)
		authed.PUT("/students/:id", middleware.RequireRoles(models.RoleAdmin), studentHandler.Update)

		authed.GET("/subjects", catalogHandler.ListSubjects)
		authed.GET("/academic-years", catalogHandler.ListAcademicYears)
		authed.GET("/periods", catalogHandler.AvailablePeriods)

		authed.GET("/flexible-grade-distributions", distributionHandler.Resolve)
		authed.GET("/flexible-grade-distributions/overrides", distributionHandler.List)
		authed.POST("/flexible-grade-distributions", middleware.RequireRoles(models.RoleAdmin), distributionHandler.Create)
		authed.PUT("/flexible-grade-distributions", middleware.RequireRoles(models.RoleAdmin), distributionHandler.Update)

		authed.GET("/grades", gradeHandler.List)
		authed.POST("/grades", gradeHandler.SaveBatch)
		authed.POST("/grades/third-period", gradeHandler.SaveThirdPeriod)
		authed.POST("/grades/import-excel", importHandler.ImportExcel)
		authed.GET("/grades/export", exportHandler.Export)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
