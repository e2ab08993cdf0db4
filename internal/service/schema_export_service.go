package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"time"

	"go.uber.org/zap"

	"project-field-api/internal/client"
	"project-field-api/internal/dto"
	"project-field-api/internal/metrics"
	"project-field-api/internal/repository"
	"project-field-api/internal/response"
)

// SchemaDownloadTTL is how long the presigned link of an export stays valid
const SchemaDownloadTTL = 15 * time.Minute

// SchemaStorage is the object store schema snapshots are written to
type SchemaStorage interface {
	GenerateFileKey(entityType, fileExt string) (string, error)
	UploadFile(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	GeneratePresignedURL(ctx context.Context, key string, expires time.Duration) (string, error)
}

// SchemaExportService snapshots the field catalogue to object storage
type SchemaExportService interface {
	ExportSchema(ctx context.Context) (*dto.SchemaExportResponse, error)
}

// schemaSnapshot is the document written to storage
type schemaSnapshot struct {
	ExportedAt time.Time                `json:"exportedAt"`
	FieldTypes []*dto.FieldTypeResponse `json:"fieldTypes"`
	Fields     []*dto.FieldResponse     `json:"fields"`
	Rules      []*dto.FieldRuleResponse `json:"rules"`
}

// schemaExportServiceImpl is the implementation of SchemaExportService
type schemaExportServiceImpl struct {
	storage   SchemaStorage
	types     FieldTypeResolver
	fieldRepo repository.FieldRepository
	ruleRepo  repository.FieldRuleRepository
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewSchemaExportService creates a new instance of SchemaExportService.
// A nil storage disables exports.
func NewSchemaExportService(
	storage SchemaStorage,
	types FieldTypeResolver,
	fieldRepo repository.FieldRepository,
	ruleRepo repository.FieldRuleRepository,
	m *metrics.Metrics,
	logger *zap.Logger,
) SchemaExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &schemaExportServiceImpl{
		storage:   storage,
		types:     types,
		fieldRepo: fieldRepo,
		ruleRepo:  ruleRepo,
		metrics:   m,
		logger:    logger,
	}
}

// ExportSchema serialises types, non-archived fields and every rule, uploads the
// document and returns a presigned download link
func (s *schemaExportServiceImpl) ExportSchema(ctx context.Context) (*dto.SchemaExportResponse, error) {
	if s.storage == nil {
		return nil, response.NewAppError(response.ErrCodeUnavailable, "Schema export is not configured", "")
	}

	result, err := s.export(ctx)
	s.metrics.RecordSchemaExport(err)
	return result, err
}

func (s *schemaExportServiceImpl) export(ctx context.Context) (*dto.SchemaExportResponse, error) {
	types, err := s.types.AllTypes(ctx)
	if err != nil {
		return nil, response.NewInternalError("Failed to load field types", err)
	}
	fields, err := s.fieldRepo.FindNonArchived(ctx)
	if err != nil {
		return nil, response.NewInternalError("Failed to load fields", err)
	}
	ruleList, err := s.ruleRepo.List(ctx, repository.FieldRuleFilter{IncludeInactive: true})
	if err != nil {
		return nil, response.NewInternalError("Failed to load field rules", err)
	}

	snapshot := schemaSnapshot{
		ExportedAt: time.Now().UTC(),
		FieldTypes: make([]*dto.FieldTypeResponse, len(types)),
		Fields:     toFieldResponses(fields),
		Rules:      make([]*dto.FieldRuleResponse, len(ruleList)),
	}
	for i, t := range types {
		snapshot.FieldTypes[i] = toFieldTypeResponse(t)
	}
	for i, r := range ruleList {
		snapshot.Rules[i] = toFieldRuleResponse(r)
	}

	body, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, response.NewInternalError("Failed to encode schema", err)
	}

	key, err := s.storage.GenerateFileKey(client.EntitySchema, ".json")
	if err != nil {
		return nil, response.NewInternalError("Failed to generate schema key", err)
	}
	if _, err := s.storage.UploadFile(ctx, key, bytes.NewReader(body), "application/json"); err != nil {
		s.logger.Error("Failed to upload schema snapshot", zap.String("key", key), zap.Error(err))
		return nil, response.NewInternalError("Failed to upload schema", err)
	}

	url, err := s.storage.GeneratePresignedURL(ctx, key, SchemaDownloadTTL)
	if err != nil {
		return nil, response.NewInternalError("Failed to sign schema download", err)
	}

	s.logger.Info("Schema snapshot exported",
		zap.String("key", key),
		zap.Int("field_types", len(types)),
		zap.Int("fields", len(fields)),
		zap.Int("rules", len(ruleList)),
	)

	return &dto.SchemaExportResponse{
		Key:        key,
		URL:        url,
		ExpiresAt:  snapshot.ExportedAt.Add(SchemaDownloadTTL),
		FieldTypes: len(types),
		Fields:     len(fields),
		Rules:      len(ruleList),
		ExportedAt: snapshot.ExportedAt,
	}, nil
}
