package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/mkleiven/coursequeue-api/api/swagger"
	"github.com/mkleiven/coursequeue-api/internal/handler"
	"github.com/mkleiven/coursequeue-api/internal/middleware"
	"github.com/mkleiven/coursequeue-api/internal/repository"
	"github.com/mkleiven/coursequeue-api/internal/service"
	"github.com/mkleiven/coursequeue-api/pkg/cache"
	"github.com/mkleiven/coursequeue-api/pkg/config"
	"github.com/mkleiven/coursequeue-api/pkg/database"
	"github.com/mkleiven/coursequeue-api/pkg/jobs"
	"github.com/mkleiven/coursequeue-api/pkg/logger"
	corsmiddleware "github.com/mkleiven/coursequeue-api/pkg/middleware/cors"
	reqidmiddleware "github.com/mkleiven/coursequeue-api/pkg/middleware/requestid"
)

// @title Course Queue API
// @version 1.0.0
// @description Course administration and live help queue backend
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	validate := validator.New()

	courseRepo := repository.NewCourseRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	queueRepo := repository.NewQueueRepository(db)
	userRepo := repository.NewUserRepository(db)

	metricsSvc := service.NewMetricsService()

	var cacheRepo *repository.CacheRepository
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		} else {
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
			defer cacheRepo.Close() //nolint:errcheck
		}
	}
	var cacheSvc *service.CacheService
	if cacheRepo != nil {
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.TTL, logr, true)
	}

	courseSvc := service.NewCourseService(courseRepo, studentRepo, teacherRepo, assignmentRepo, cacheSvc, validate, logr)

	purgeQueue := jobs.NewQueue("queue-purge", func(ctx context.Context, job jobs.Job) error {
		courseID, ok := job.Payload.(string)
		if !ok {
			return fmt.Errorf("unexpected purge payload %T", job.Payload)
		}
		return queueRepo.PurgeEntries(ctx, courseID)
	}, jobs.QueueConfig{
		Workers:    cfg.Queue.PurgeWorkers,
		MaxRetries: cfg.Queue.PurgeRetries,
		RetryDelay: cfg.Queue.PurgeDelay,
		Logger:     logr,
	})
	queueSvc := service.NewQueueService(queueRepo, courseRepo, studentRepo, assignmentRepo, cacheSvc, purgeQueue, validate, logr)

	authSvc := service.NewAuthService(userRepo, teacherRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	personSvc := service.NewPersonService(studentRepo, teacherRepo, validate, logr)

	courseHandler := handler.NewCourseHandler(courseSvc)
	queueHandler := handler.NewQueueHandler(queueSvc)
	authHandler := handler.NewAuthHandler(authSvc)
	personHandler := handler.NewPersonHandler(personSvc)

	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	purgeQueue.Start(rootCtx)
	defer purgeQueue.Stop()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

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
		if err := db.PingContext(c.Request.Context()); err != nil {
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

	api.POST("/students", personHandler.CreateStudent)
	api.POST("/teachers", personHandler.CreateTeacher)

	courses := api.Group("/courses")
	{
		courses.GET("", courseHandler.List)
		courses.GET("/:courseId", courseHandler.Get)
		courses.POST("/addNew", courseHandler.Create)
		courses.POST("/newGroup", courseHandler.AddGroup)
		courses.DELETE("/:courseId", courseHandler.Delete)
		courses.POST("/archive", courseHandler.Archive)
		courses.POST("/addStudent", courseHandler.AddStudent)
		courses.POST("/addTeacher", courseHandler.AddTeacher)
		courses.POST("/addStudentAssistant", courseHandler.AddAssistant)
		courses.DELETE("/removeStudent", courseHandler.RemoveStudent)
		courses.DELETE("/students/:studentId", courseHandler.DeleteStudent)
		courses.GET("/teachers/:teacherId", courseHandler.ListByTeacher)
		courses.GET("/student/:studentId", courseHandler.ListForStudent)
		courses.GET("/students/:courseId", courseHandler.ListStudents)
		courses.GET("/studentAssistants/:studentId", courseHandler.ListForAssistant)
		courses.POST("/assignments", courseHandler.StudentAssignments)
		courses.GET("/:courseId/groups", courseHandler.ListGroups)
		courses.PUT("/:courseId/dates", courseHandler.UpdateDates)
		courses.PUT("/:courseId/thresholds", courseHandler.UpdateThresholds)
		courses.GET("/:courseId/minApproved", courseHandler.MinApproved)
		courses.GET("/:courseId/export", courseHandler.Export)
	}

	queues := api.Group("/queues")
	{
		queues.POST("/newSiq", queueHandler.Join)
		queues.POST("/deleteStudent", queueHandler.Leave)
		queues.POST("/status", queueHandler.SetStatus)
		queues.GET("/status/:courseId", queueHandler.GetStatus)
		queues.POST("/changeState", queueHandler.ChangeState)
		queues.GET("/getState/:studentId", queueHandler.GetState)
		queues.POST("/students/assignments", queueHandler.Approve)
		queues.GET("/students/:courseId", queueHandler.ListEntries)
	}

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/register", authHandler.Register)
		auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logr.Sugar().Infow("server shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("server shutdown failed", "error", err)
	}
}
