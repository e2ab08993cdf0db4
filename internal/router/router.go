package router

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"project-field-api/internal/cache"
	"project-field-api/internal/handler"
	"project-field-api/internal/middleware"
	"project-field-api/internal/metrics"
	"project-field-api/internal/repository"
	"project-field-api/internal/service"
)

// Config holds everything Setup wires into the engine
type Config struct {
	DB             *gorm.DB
	Redis          *redis.Client
	Logger         *zap.Logger
	JWTSecret      string
	BasePath       string
	AllowedOrigins []string
	Metrics        *metrics.Metrics
	// Gatherer backs /metrics; defaults to the prometheus default registry
	Gatherer       prometheus.Gatherer
	FieldTypeCache *cache.FieldTypeCache
	// SchemaStorage is nil when S3 is not configured
	SchemaStorage  service.SchemaStorage
	MaxParentDepth int
}

// Setup builds the gin engine with all routes
func Setup(cfg Config) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r := gin.New()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.Metrics(cfg.Metrics))

	// Repositories
	fieldTypeRepo := repository.NewFieldTypeRepository(cfg.DB)
	fieldRepo := repository.NewFieldRepository(cfg.DB)
	ruleRepo := repository.NewFieldRuleRepository(cfg.DB)
	projectRepo := repository.NewProjectRepository(cfg.DB)
	tx := repository.NewTransactor(cfg.DB)

	// Services
	fieldTypeService := service.NewFieldTypeService(fieldTypeRepo, fieldRepo, cfg.FieldTypeCache, logger)
	fieldService := service.NewFieldService(fieldRepo, ruleRepo, fieldTypeService, tx, cfg.Metrics, logger, cfg.MaxParentDepth)
	ruleService := service.NewFieldRuleService(ruleRepo, fieldRepo, projectRepo, fieldTypeService, tx, cfg.Metrics, logger)
	evaluationService := service.NewEvaluationService(fieldRepo, ruleRepo, fieldTypeService, cfg.Metrics, logger)
	exportService := service.NewSchemaExportService(cfg.SchemaStorage, fieldTypeService, fieldRepo, ruleRepo, cfg.Metrics, logger)

	// Handlers
	fieldTypeHandler := handler.NewFieldTypeHandler(fieldTypeService)
	fieldHandler := handler.NewFieldHandler(fieldService)
	ruleHandler := handler.NewFieldRuleHandler(ruleService)
	evaluationHandler := handler.NewEvaluationHandler(evaluationService)
	wsHandler := handler.NewEvaluationWSHandler(evaluationService, logger)
	schemaHandler := handler.NewSchemaHandler(exportService)
	healthHandler := handler.NewHealthHandler(cfg.DB, cfg.Redis)

	metricsHandler := gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	// Health endpoints (no auth)
	r.GET("/health", healthHandler.Health)
	r.GET("/ready", healthHandler.Ready)
	r.GET("/metrics", metricsHandler)

	api := r.Group(cfg.BasePath)
	{
		if cfg.BasePath != "" && cfg.BasePath != "/" {
			api.GET("/health", healthHandler.Health)
			api.GET("/ready", healthHandler.Ready)
			api.GET("/metrics", metricsHandler)
		}

		authenticated := api.Group("")
		authenticated.Use(middleware.Auth(cfg.JWTSecret))
		{
			authenticated.GET("/field-types", fieldTypeHandler.ListFieldTypes)
			authenticated.POST("/field-types", fieldTypeHandler.CreateFieldType)
			authenticated.GET("/field-types/:typeId", fieldTypeHandler.GetFieldType)
			authenticated.PATCH("/field-types/:typeId", fieldTypeHandler.UpdateFieldType)
			authenticated.DELETE("/field-types/:typeId", fieldTypeHandler.DeleteFieldType)

			// static routes before :fieldId
			authenticated.GET("/fields", fieldHandler.ListFields)
			authenticated.POST("/fields", fieldHandler.CreateField)
			authenticated.GET("/fields/hierarchy", fieldHandler.GetHierarchy)
			authenticated.GET("/fields/by-name/:name/children", fieldHandler.GetChildren)
			authenticated.GET("/fields/:fieldId", fieldHandler.GetField)
			authenticated.PATCH("/fields/:fieldId", fieldHandler.UpdateField)
			authenticated.DELETE("/fields/:fieldId", fieldHandler.DeleteField)

			authenticated.GET("/field-rules", ruleHandler.ListFieldRules)
			authenticated.POST("/field-rules", ruleHandler.CreateFieldRule)
			authenticated.GET("/field-rules/:ruleId", ruleHandler.GetFieldRule)
			authenticated.PATCH("/field-rules/:ruleId", ruleHandler.UpdateFieldRule)
			authenticated.DELETE("/field-rules/:ruleId", ruleHandler.DeleteFieldRule)

			authenticated.POST("/evaluate", evaluationHandler.Evaluate)
			authenticated.POST("/validate", evaluationHandler.ValidateRecord)
			authenticated.GET("/evaluate/ws", wsHandler.HandleWebSocket)

			authenticated.POST("/schema/export", schemaHandler.ExportSchema)
		}
	}

	return r
}
