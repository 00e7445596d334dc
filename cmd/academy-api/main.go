package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/unpuzzledd/academy-api/api/swagger"
	"github.com/unpuzzledd/academy-api/internal/handler"
	"github.com/unpuzzledd/academy-api/internal/middleware"
	"github.com/unpuzzledd/academy-api/internal/models"
	"github.com/unpuzzledd/academy-api/internal/repository"
	"github.com/unpuzzledd/academy-api/internal/service"
	"github.com/unpuzzledd/academy-api/pkg/cache"
	"github.com/unpuzzledd/academy-api/pkg/config"
	"github.com/unpuzzledd/academy-api/pkg/database"
	"github.com/unpuzzledd/academy-api/pkg/logger"
	corsmiddleware "github.com/unpuzzledd/academy-api/pkg/middleware/cors"
	reqidmiddleware "github.com/unpuzzledd/academy-api/pkg/middleware/requestid"
)

// @title Academy API
// @version 0.1.0
// @description Academy, batch and recurring class schedule management
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
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, schedule caching disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	academyRepo := repository.NewAcademyRepository(db)
	batchRepo := repository.NewBatchRepository(db)
	exceptionRepo := repository.NewScheduleExceptionRepository(db)
	topicRepo := repository.NewTopicRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	scoreRepo := repository.NewScoreRepository(db)

	metricsSvc := service.NewMetricsService()

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	scheduleSvc := service.NewScheduleService(batchRepo, exceptionRepo, redisClient, logr, service.ScheduleServiceConfig{
		CacheTTL:    cfg.Schedule.CacheTTL,
		HorizonDays: cfg.Schedule.HorizonDays,
	})
	scheduleSvc.SetMetrics(metricsSvc)
	academySvc := service.NewAcademyService(academyRepo, validate, logr)
	batchSvc := service.NewBatchService(batchRepo, academyRepo, scheduleSvc, validate, logr)
	exceptionSvc := service.NewExceptionService(exceptionRepo, batchRepo, scheduleSvc, validate, logr)
	topicSvc := service.NewTopicService(topicRepo, batchRepo, validate, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, batchRepo, validate, logr)
	scoreSvc := service.NewScoreService(scoreRepo, batchRepo, validate, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	academyHandler := handler.NewAcademyHandler(academySvc)
	batchHandler := handler.NewBatchHandler(batchSvc)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)
	exceptionHandler := handler.NewExceptionHandler(exceptionSvc)
	topicHandler := handler.NewTopicHandler(topicSvc)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc)
	scoreHandler := handler.NewScoreHandler(scoreSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)
	}

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))

	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher)

	academies := protected.Group("/academies")
	{
		academies.GET("", academyHandler.List)
		academies.GET("/:id", academyHandler.Get)
		academies.POST("", middleware.RequireRoles(models.RoleAdmin), academyHandler.Create)
		academies.PUT("/:id", middleware.RequireRoles(models.RoleAdmin), academyHandler.Update)
		academies.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin), academyHandler.Delete)
	}

	batches := protected.Group("/batches")
	{
		batches.GET("", batchHandler.List)
		batches.GET("/:id", batchHandler.Get)
		batches.POST("", staff, batchHandler.Create)
		batches.PUT("/:id", staff, batchHandler.Update)
		batches.DELETE("/:id", staff, batchHandler.Delete)

		batches.GET("/:id/pattern", batchHandler.GetWeeklyPattern)
		batches.PUT("/:id/pattern", staff, batchHandler.ReplaceWeeklyPattern)

		batches.GET("/:id/schedule", scheduleHandler.GetSchedule)
		batches.GET("/:id/schedule/next", scheduleHandler.Next)

		batches.GET("/:id/exceptions", exceptionHandler.ListByBatch)
		batches.POST("/:id/exceptions", staff, exceptionHandler.Create)

		batches.GET("/:id/topics", topicHandler.ListByBatch)
		batches.POST("/:id/topics", staff, topicHandler.Create)

		batches.GET("/:id/enrollments", enrollmentHandler.ListByBatch)

		batches.GET("/:id/scores", scoreHandler.List)
		batches.POST("/:id/scores", staff, scoreHandler.Record)
		batches.GET("/:id/scores/export", staff, scoreHandler.Export)
	}

	exceptions := protected.Group("/exceptions")
	{
		exceptions.PUT("/:id", staff, exceptionHandler.Update)
		exceptions.DELETE("/:id", staff, exceptionHandler.Delete)
	}

	topics := protected.Group("/topics")
	{
		topics.PUT("/:id", staff, topicHandler.Update)
		topics.POST("/:id/complete", staff, topicHandler.Complete)
		topics.DELETE("/:id", staff, topicHandler.Delete)
	}

	enrollments := protected.Group("/enrollments")
	{
		enrollments.POST("", enrollmentHandler.Enroll)
		enrollments.PUT("/:id/status", staff, enrollmentHandler.UpdateStatus)
	}

	protected.GET("/students/:id/enrollments", middleware.RBAC("ADMIN", "TEACHER", "SELF"), enrollmentHandler.ListByStudent)

	scores := protected.Group("/scores")
	{
		scores.PUT("/:id", staff, scoreHandler.Update)
		scores.DELETE("/:id", staff, scoreHandler.Delete)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
