// Project Field Service
//
// @title           Project Field Service API
// @version         1.0
// @description     프로젝트 필드 스키마와 조건부 규칙 엔진 API
// @BasePath        /api/fields
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"project-field-api/internal/config"
	"project-field-api/internal/database"
	"project-field-api/internal/repository"
	"project-field-api/internal/service"
)

var configPath string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "project-field-api",
		Short:        "Dynamic project field schema and conditional rule service",
		SilenceUsage: true,
		// serve is the default command
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "path to the yaml configuration file")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runServe()
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update database tables, then exit",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runMigrate()
			},
		},
		&cobra.Command{
			Use:   "seed",
			Short: "Seed the system field types, then exit",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runSeed()
			},
		},
	)
	return root
}

// bootstrap loads configuration and opens the logger and database shared by every command
func bootstrap() (*config.Config, *zap.Logger, *gorm.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := initLogger(cfg.Logger.Level)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", zap.String("driver", cfg.Database.Driver), zap.Error(err))
		return nil, nil, nil, err
	}
	logger.Info("Database connected successfully", zap.String("driver", cfg.Database.Driver))

	return cfg, logger, db, nil
}

func runMigrate() error {
	_, logger, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer database.Close(db)

	if err := database.AutoMigrateWithRetry(db, logger, 3); err != nil {
		return err
	}
	logger.Info("Database migrations completed")
	return nil
}

func runSeed() error {
	_, logger, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer database.Close(db)

	return seedSystemTypes(db, logger)
}

func seedSystemTypes(db *gorm.DB, logger *zap.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	types := service.NewFieldTypeService(repository.NewFieldTypeRepository(db), repository.NewFieldRepository(db), nil, logger)
	created, err := types.SeedSystemTypes(ctx)
	if err != nil {
		logger.Error("Failed to seed system field types", zap.Error(err))
		return err
	}
	logger.Info("System field types seeded", zap.Int("created", created))
	return nil
}

// initLogger initializes the zap logger with the specified level
func initLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	zapConfig := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      zapLevel == zapcore.DebugLevel,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return zapConfig.Build()
}
