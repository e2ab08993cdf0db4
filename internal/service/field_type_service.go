package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"project-field-api/internal/cache"
	"project-field-api/internal/domain"
	"project-field-api/internal/dto"
	"project-field-api/internal/repository"
	"project-field-api/internal/response"
)

// FieldTypeService defines the interface for the field type catalogue
type FieldTypeService interface {
	ListFieldTypes(ctx context.Context) ([]*dto.FieldTypeResponse, error)
	CreateFieldType(ctx context.Context, req *dto.CreateFieldTypeRequest) (*dto.FieldTypeResponse, error)
	GetFieldType(ctx context.Context, typeID uuid.UUID) (*dto.FieldTypeResponse, error)
	UpdateFieldType(ctx context.Context, typeID uuid.UUID, req *dto.UpdateFieldTypeRequest) (*dto.UpdateFieldTypeResponse, error)
	DeleteFieldType(ctx context.Context, typeID uuid.UUID) error
	SeedSystemTypes(ctx context.Context) (int, error)
}

// FieldTypeResolver resolves type names for the other registries
type FieldTypeResolver interface {
	// ResolveType returns nil when no type has the name
	ResolveType(ctx context.Context, name string) (*domain.FieldType, error)
	AllTypes(ctx context.Context) ([]*domain.FieldType, error)
}

// FieldTypeCatalog is the registry as seen by the API layer and the other registries
type FieldTypeCatalog interface {
	FieldTypeService
	FieldTypeResolver
}

// FieldUsageCounter counts fields referencing a type name
type FieldUsageCounter interface {
	CountByType(ctx context.Context, typeName string) (int64, error)
}

// fieldTypeServiceImpl is the implementation of FieldTypeService and FieldTypeResolver
type fieldTypeServiceImpl struct {
	fieldTypeRepo repository.FieldTypeRepository
	usage         FieldUsageCounter
	cache         *cache.FieldTypeCache
	logger        *zap.Logger
}

// NewFieldTypeService creates a new instance of the field type catalogue service
func NewFieldTypeService(fieldTypeRepo repository.FieldTypeRepository, usage FieldUsageCounter, typeCache *cache.FieldTypeCache, logger *zap.Logger) FieldTypeCatalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &fieldTypeServiceImpl{
		fieldTypeRepo: fieldTypeRepo,
		usage:         usage,
		cache:         typeCache,
		logger:        logger,
	}
}

// ListFieldTypes returns system types first, then the rest alphabetically
func (s *fieldTypeServiceImpl) ListFieldTypes(ctx context.Context) ([]*dto.FieldTypeResponse, error) {
	types, err := s.AllTypes(ctx)
	if err != nil {
		return nil, response.NewInternalError("Failed to fetch field types", err)
	}

	responses := make([]*dto.FieldTypeResponse, len(types))
	for i, t := range types {
		responses[i] = toFieldTypeResponse(t)
	}
	return responses, nil
}

// CreateFieldType creates a user-defined field type
func (s *fieldTypeServiceImpl) CreateFieldType(ctx context.Context, req *dto.CreateFieldTypeRequest) (*dto.FieldTypeResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, response.NewFieldValidationError("name", "name is required")
	}
	if err := req.ValidationSpec.Validate(); err != nil {
		return nil, response.NewFieldValidationError("validationSpec", err.Error())
	}

	existing, err := s.fieldTypeRepo.FindByName(ctx, name)
	if err != nil {
		return nil, response.NewInternalError("Failed to check field type name", err)
	}
	if existing != nil {
		return nil, response.NewConflictError(fmt.Sprintf("Field type '%s' already exists", existing.Name), "")
	}

	fieldType := &domain.FieldType{
		Name:           name,
		Description:    req.Description,
		Icon:           req.Icon,
		ValidationSpec: datatypes.NewJSONType(req.ValidationSpec),
		IsSystem:       false,
	}

	if err := s.fieldTypeRepo.Create(ctx, fieldType); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, response.NewConflictError(fmt.Sprintf("Field type '%s' already exists", name), "")
		}
		return nil, response.NewInternalError("Failed to create field type", err)
	}
	s.cache.Invalidate(ctx)

	s.logger.Info("Field type created",
		zap.String("field_type_id", fieldType.ID.String()),
		zap.String("field_type", fieldType.Name),
		zap.String("kind", string(fieldType.Kind())),
	)
	return toFieldTypeResponse(fieldType), nil
}

// GetFieldType retrieves a field type by ID
func (s *fieldTypeServiceImpl) GetFieldType(ctx context.Context, typeID uuid.UUID) (*dto.FieldTypeResponse, error) {
	fieldType, err := s.findByID(ctx, typeID)
	if err != nil {
		return nil, err
	}
	return toFieldTypeResponse(fieldType), nil
}

// UpdateFieldType patches a field type. A changed validation contract on a type in use
// is accepted and reported back as a warning.
func (s *fieldTypeServiceImpl) UpdateFieldType(ctx context.Context, typeID uuid.UUID, req *dto.UpdateFieldTypeRequest) (*dto.UpdateFieldTypeResponse, error) {
	fieldType, err := s.findByID(ctx, typeID)
	if err != nil {
		return nil, err
	}

	var inUse *int64
	countUsage := func() (int64, error) {
		if inUse == nil {
			n, err := s.usage.CountByType(ctx, fieldType.Name)
			if err != nil {
				return 0, err
			}
			inUse = &n
		}
		return *inUse, nil
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, response.NewFieldValidationError("name", "name must not be empty")
		}
		if name != fieldType.Name {
			if fieldType.IsSystem {
				return nil, response.NewFieldValidationError("name", "system field types cannot be renamed")
			}
			if !domain.SameName(name, fieldType.Name) {
				existing, err := s.fieldTypeRepo.FindByName(ctx, name)
				if err != nil {
					return nil, response.NewInternalError("Failed to check field type name", err)
				}
				if existing != nil {
					return nil, response.NewConflictError(fmt.Sprintf("Field type '%s' already exists", existing.Name), "")
				}
				count, err := countUsage()
				if err != nil {
					return nil, response.NewInternalError("Failed to count fields using type", err)
				}
				if count > 0 {
					return nil, response.NewConflictError(
						fmt.Sprintf("Field type '%s' is used by %d fields and cannot be renamed", fieldType.Name, count), "")
				}
			}
			fieldType.Name = name
		}
	}
	if req.Description != nil {
		fieldType.Description = *req.Description
	}
	if req.Icon != nil {
		fieldType.Icon = *req.Icon
	}

	var warnings []string
	if req.ValidationSpec != nil {
		next := *req.ValidationSpec
		if err := next.Validate(); err != nil {
			return nil, response.NewFieldValidationError("validationSpec", err.Error())
		}
		current := fieldType.Spec()
		if fieldType.IsSystem && next.Kind != current.Kind {
			return nil, response.NewFieldValidationError("validationSpec", "the kind of a system field type cannot change")
		}
		if !reflect.DeepEqual(current, next) {
			count, err := countUsage()
			if err != nil {
				return nil, response.NewInternalError("Failed to count fields using type", err)
			}
			if count > 0 {
				warnings = append(warnings, fmt.Sprintf("%d existing fields must be re-validated", count))
				s.logger.Warn("Validation contract changed on a field type in use",
					zap.String("field_type", fieldType.Name),
					zap.Int64("field_count", count),
					zap.String("previous_kind", string(current.Kind)),
					zap.String("kind", string(next.Kind)),
				)
			}
			fieldType.ValidationSpec = datatypes.NewJSONType(next)
		}
	}

	if err := s.fieldTypeRepo.Update(ctx, fieldType); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, response.NewConflictError(fmt.Sprintf("Field type '%s' already exists", fieldType.Name), "")
		}
		return nil, response.NewInternalError("Failed to update field type", err)
	}
	s.cache.Invalidate(ctx)

	if warnings == nil {
		warnings = []string{}
	}
	return &dto.UpdateFieldTypeResponse{
		FieldType: toFieldTypeResponse(fieldType),
		Warnings:  warnings,
	}, nil
}

// DeleteFieldType removes a user-defined type that no field references
func (s *fieldTypeServiceImpl) DeleteFieldType(ctx context.Context, typeID uuid.UUID) error {
	fieldType, err := s.findByID(ctx, typeID)
	if err != nil {
		return err
	}

	if fieldType.IsSystem {
		return response.NewValidationError("Cannot delete system field type", "")
	}

	count, err := s.usage.CountByType(ctx, fieldType.Name)
	if err != nil {
		return response.NewInternalError("Failed to count fields using type", err)
	}
	if count > 0 {
		return response.NewConflictError(
			fmt.Sprintf("Field type '%s' is used by %d fields", fieldType.Name, count), "")
	}

	if err := s.fieldTypeRepo.Delete(ctx, typeID); err != nil {
		return response.NewInternalError("Failed to delete field type", err)
	}
	s.cache.Invalidate(ctx)

	s.logger.Info("Field type deleted", zap.String("field_type", fieldType.Name))
	return nil
}

// SeedSystemTypes creates missing built-in types and returns how many were created
func (s *fieldTypeServiceImpl) SeedSystemTypes(ctx context.Context) (int, error) {
	created := 0
	for _, st := range getSystemFieldTypes() {
		existing, err := s.fieldTypeRepo.FindByName(ctx, st.Name)
		if err != nil {
			return created, fmt.Errorf("failed to look up field type %s: %w", st.Name, err)
		}
		if existing != nil {
			if !existing.IsSystem {
				s.logger.Warn("User-defined field type shadows a system type name",
					zap.String("field_type", existing.Name),
				)
			}
			continue
		}

		fieldType := &domain.FieldType{
			Name:           st.Name,
			Description:    st.Description,
			Icon:           st.Icon,
			ValidationSpec: datatypes.NewJSONType(st.Spec),
			IsSystem:       true,
		}
		if err := s.fieldTypeRepo.Create(ctx, fieldType); err != nil {
			return created, fmt.Errorf("failed to seed field type %s: %w", st.Name, err)
		}
		created++
	}

	if created > 0 {
		s.cache.Invalidate(ctx)
		s.logger.Info("System field types seeded", zap.Int("created", created))
	}
	return created, nil
}

// ResolveType looks a type up by name, ignoring case
func (s *fieldTypeServiceImpl) ResolveType(ctx context.Context, name string) (*domain.FieldType, error) {
	return s.fieldTypeRepo.FindByName(ctx, name)
}

// AllTypes returns the ordered catalogue, served from cache when possible
func (s *fieldTypeServiceImpl) AllTypes(ctx context.Context) ([]*domain.FieldType, error) {
	if types, ok := s.cache.Get(ctx); ok {
		return types, nil
	}

	types, err := s.fieldTypeRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, types)
	return types, nil
}

func (s *fieldTypeServiceImpl) findByID(ctx context.Context, typeID uuid.UUID) (*domain.FieldType, error) {
	fieldType, err := s.fieldTypeRepo.FindByID(ctx, typeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("Field type not found", "")
		}
		return nil, response.NewInternalError("Failed to fetch field type", err)
	}
	return fieldType, nil
}

// toFieldTypeResponse converts domain.FieldType to dto.FieldTypeResponse
func toFieldTypeResponse(t *domain.FieldType) *dto.FieldTypeResponse {
	return &dto.FieldTypeResponse{
		ID:             t.ID,
		Name:           t.Name,
		Description:    t.Description,
		Icon:           t.Icon,
		ValidationSpec: t.Spec(),
		IsSystem:       t.IsSystem,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}
