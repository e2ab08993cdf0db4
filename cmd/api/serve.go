package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"project-field-api/internal/cache"
	"project-field-api/internal/client"
	"project-field-api/internal/database"
	"project-field-api/internal/job"
	"project-field-api/internal/metrics"
	"project-field-api/internal/repository"
	"project-field-api/internal/router"
	"project-field-api/internal/service"
)

func runServe() error {
	cfg, logger, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer database.Close(db)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("Starting Project Field Service",
		zap.String("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.String("base_path", cfg.Server.BasePath),
	)

	if err := database.AutoMigrateWithRetry(db, logger, 3); err != nil {
		return err
	}
	if err := seedSystemTypes(db, logger); err != nil {
		return err
	}

	m := metrics.NewWithLogger(logger)
	if err := database.RegisterMetricsCallbacks(db, m); err != nil {
		logger.Warn("Failed to register database metrics callbacks", zap.Error(err))
	}
	stopDBStats := database.StartDBStatsCollector(db, m, 15*time.Second)
	defer close(stopDBStats)

	collector := metrics.NewBusinessMetricsCollector(db, m, logger, cfg.Jobs.MetricsInterval)
	collector.Start()
	defer collector.Stop()

	// Redis is optional; without it the field type catalogue is read from the database every time
	var typeCache *cache.FieldTypeCache
	redisClient, err := database.InitRedis(cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis unavailable, field type cache disabled", zap.Error(err))
	}
	if redisClient != nil {
		defer redisClient.Close()
		typeCache = cache.NewFieldTypeCache(redisClient, cfg.Redis.CacheTTL, logger)
	}

	var schemaStorage service.SchemaStorage
	var s3Client *client.S3Client
	if cfg.S3.Enabled() {
		s3Client, err = client.NewS3Client(&cfg.S3, m)
		if err != nil {
			logger.Warn("Failed to initialize S3 client, schema export disabled", zap.Error(err))
		} else {
			schemaStorage = s3Client
			logger.Info("S3 client initialized",
				zap.String("bucket", cfg.S3.Bucket),
				zap.String("region", cfg.S3.Region),
			)
		}
	} else {
		logger.Warn("S3 configuration incomplete, schema export disabled")
	}

	scheduler := job.NewScheduler(logger)
	var uploader job.ReportUploader
	if s3Client != nil {
		uploader = s3Client
	}
	audit := job.NewRuleAuditJob(repository.NewFieldRuleRepository(db), repository.NewFieldRepository(db), uploader, m, logger)
	if err := scheduler.Add("rule-audit", cfg.Jobs.RuleAuditSchedule, audit); err != nil {
		return err
	}
	scheduler.Start()
	defer scheduler.Stop()

	r := router.Setup(router.Config{
		DB:             db,
		Redis:          redisClient,
		Logger:         logger,
		JWTSecret:      cfg.JWT.Secret,
		BasePath:       cfg.Server.BasePath,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Metrics:        m,
		FieldTypeCache: typeCache,
		SchemaStorage:  schemaStorage,
		MaxParentDepth: cfg.Fields.MaxParentDepth,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Project Field Service started successfully", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serveErr:
		logger.Error("Failed to start server", zap.Error(err))
		return err
	}
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
	return nil
}
