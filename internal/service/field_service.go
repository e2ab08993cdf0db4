package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"project-field-api/internal/domain"
	"project-field-api/internal/dto"
	"project-field-api/internal/metrics"
	"project-field-api/internal/repository"
	"project-field-api/internal/response"
	"project-field-api/internal/rules"
)

// DefaultMaxParentDepth bounds the parent chain walk when no limit is configured
const DefaultMaxParentDepth = 32

// FieldService defines the interface for the field registry
type FieldService interface {
	CreateField(ctx context.Context, req *dto.CreateFieldRequest) (*dto.FieldResponse, error)
	GetField(ctx context.Context, fieldID uuid.UUID) (*dto.FieldResponse, error)
	GetFieldByName(ctx context.Context, name string) (*dto.FieldResponse, error)
	ListFields(ctx context.Context, query *dto.FieldListQuery) (*dto.FieldListResponse, error)
	UpdateField(ctx context.Context, fieldID uuid.UUID, req *dto.UpdateFieldRequest) (*dto.FieldResponse, error)
	DeleteField(ctx context.Context, fieldID uuid.UUID) error
	GetChildren(ctx context.Context, name string) ([]*dto.FieldResponse, error)
	GetHierarchy(ctx context.Context) (dto.FieldHierarchyResponse, error)
	CountByType(ctx context.Context, typeName string) (int64, error)
}

// fieldServiceImpl is the implementation of FieldService
type fieldServiceImpl struct {
	fieldRepo repository.FieldRepository
	ruleRepo  repository.FieldRuleRepository
	types     FieldTypeResolver
	tx        repository.Transactor
	metrics   *metrics.Metrics
	logger    *zap.Logger
	maxDepth  int
}

// NewFieldService creates a new instance of FieldService
func NewFieldService(
	fieldRepo repository.FieldRepository,
	ruleRepo repository.FieldRuleRepository,
	types FieldTypeResolver,
	tx repository.Transactor,
	m *metrics.Metrics,
	logger *zap.Logger,
	maxDepth int,
) FieldService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxParentDepth
	}
	return &fieldServiceImpl{
		fieldRepo: fieldRepo,
		ruleRepo:  ruleRepo,
		types:     types,
		tx:        tx,
		metrics:   m,
		logger:    logger,
		maxDepth:  maxDepth,
	}
}

// CreateField validates and creates a field. Every check runs before the insert inside one transaction.
func (s *fieldServiceImpl) CreateField(ctx context.Context, req *dto.CreateFieldRequest) (*dto.FieldResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, response.NewFieldValidationError("name", "name is required")
	}

	status := domain.FieldStatusActive
	if req.Status != "" {
		status = domain.FieldStatus(req.Status)
		if status != domain.FieldStatusActive && status != domain.FieldStatusInactive {
			return nil, response.NewFieldValidationError("status", "status must be Active or Inactive")
		}
	}

	metadata, err := normalizeMetadata(req.Metadata)
	if err != nil {
		return nil, response.NewFieldValidationError("metadata", err.Error())
	}

	var field *domain.Field
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.fieldRepo.FindByName(ctx, name)
		if err != nil {
			return response.NewInternalError("Failed to check field name", err)
		}
		if existing != nil {
			return duplicateFieldError(existing)
		}

		fieldType, err := s.resolveType(ctx, req.Type)
		if err != nil {
			return err
		}

		values, err := normalizeValues(fieldType, req.Values)
		if err != nil {
			return response.NewFieldValidationError("values", err.Error())
		}

		parent := normalizeParent(req.Parent)
		if err := s.checkParentChain(ctx, name, "", parent); err != nil {
			return err
		}

		field = &domain.Field{
			Name:        name,
			Description: req.Description,
			Type:        fieldType.Name,
			Parent:      parent,
			Values:      values,
			Metadata:    metadata,
			Status:      status,
			IsRequired:  req.IsRequired,
			IsSystem:    false,
		}
		if err := s.fieldRepo.Create(ctx, field); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return response.NewConflictError(fmt.Sprintf("Field '%s' already exists", name), "")
			}
			return response.NewInternalError("Failed to create field", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncrementFieldCreated()
	s.logger.Info("Field created",
		zap.String("field_id", field.ID.String()),
		zap.String("field_name", field.Name),
		zap.String("field_type", field.Type),
	)
	return toFieldResponse(field), nil
}

// GetField retrieves a field by ID
func (s *fieldServiceImpl) GetField(ctx context.Context, fieldID uuid.UUID) (*dto.FieldResponse, error) {
	field, err := s.findByID(ctx, fieldID)
	if err != nil {
		return nil, err
	}
	return toFieldResponse(field), nil
}

// GetFieldByName retrieves a field by its name; archived fields stay resolvable
func (s *fieldServiceImpl) GetFieldByName(ctx context.Context, name string) (*dto.FieldResponse, error) {
	field, err := s.fieldRepo.FindByName(ctx, name)
	if err != nil {
		return nil, response.NewInternalError("Failed to fetch field", err)
	}
	if field == nil {
		return nil, response.NewNotFoundError("Field not found", name)
	}
	return toFieldResponse(field), nil
}

// ListFields returns one page of fields
func (s *fieldServiceImpl) ListFields(ctx context.Context, query *dto.FieldListQuery) (*dto.FieldListResponse, error) {
	page, limit := query.Page, query.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	filter := repository.FieldFilter{
		Type:   strings.TrimSpace(query.Type),
		Parent: strings.TrimSpace(query.Parent),
		Search: query.Search,
		Page:   page,
		Limit:  limit,
	}
	if query.Status != "" {
		status := domain.FieldStatus(query.Status)
		if !status.IsValid() {
			return nil, response.NewFieldValidationError("status", "unknown status")
		}
		filter.Status = &status
	}

	fields, total, err := s.fieldRepo.List(ctx, filter)
	if err != nil {
		return nil, response.NewInternalError("Failed to list fields", err)
	}

	return &dto.FieldListResponse{
		Fields: toFieldResponses(fields),
		Total:  total,
		Page:   page,
		Limit:  limit,
	}, nil
}

// UpdateField patches a field. The parent chain is re-walked against the existing tree
// after the patch is applied and before anything is written.
func (s *fieldServiceImpl) UpdateField(ctx context.Context, fieldID uuid.UUID, req *dto.UpdateFieldRequest) (*dto.FieldResponse, error) {
	var field *domain.Field
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		field, err = s.findByID(ctx, fieldID)
		if err != nil {
			return err
		}
		if field.IsArchived() {
			return response.NewValidationError("Archived fields cannot be updated", field.Name)
		}

		oldName := field.Name
		renamed := false
		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return response.NewFieldValidationError("name", "name must not be empty")
			}
			if name != oldName {
				if err := s.checkRename(ctx, field, name); err != nil {
					return err
				}
				field.Name = name
				renamed = true
			}
		}

		if req.Description != nil {
			field.Description = *req.Description
		}

		typeChanged := req.Type != nil && !domain.SameName(*req.Type, field.Type)
		typeName := field.Type
		if req.Type != nil {
			typeName = *req.Type
		}
		fieldType, err := s.resolveType(ctx, typeName)
		if err != nil {
			return err
		}
		if typeChanged {
			if err := s.checkConditionRules(ctx, oldName, field.Type, fieldType); err != nil {
				return err
			}
		}
		field.Type = fieldType.Name

		values := []string(field.Values)
		if req.Values != nil {
			values = *req.Values
		} else if typeChanged && !fieldType.Kind().HasOptions() {
			values = nil
		}
		normalized, err := normalizeValues(fieldType, values)
		if err != nil {
			return response.NewFieldValidationError("values", err.Error())
		}
		field.Values = normalized

		if req.Parent != nil {
			field.Parent = normalizeParent(req.Parent)
		}
		if req.Parent != nil || renamed {
			if err := s.checkParentChain(ctx, field.Name, oldName, field.Parent); err != nil {
				return err
			}
		}

		if req.Metadata != nil {
			metadata, err := normalizeMetadata(req.Metadata)
			if err != nil {
				return response.NewFieldValidationError("metadata", err.Error())
			}
			field.Metadata = metadata
		}

		if req.Status != nil {
			status := domain.FieldStatus(*req.Status)
			if status != domain.FieldStatusActive && status != domain.FieldStatusInactive {
				return response.NewFieldValidationError("status", "status must be Active or Inactive; archive a field by deleting it")
			}
			field.Status = status
		}

		if req.IsRequired != nil {
			field.IsRequired = *req.IsRequired
		}

		if err := s.fieldRepo.Update(ctx, field); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return response.NewConflictError(fmt.Sprintf("Field '%s' already exists", field.Name), "")
			}
			return response.NewInternalError("Failed to update field", err)
		}

		if renamed {
			s.logger.Info("Field renamed",
				zap.String("field_id", field.ID.String()),
				zap.String("previous_name", oldName),
				zap.String("field_name", field.Name),
			)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toFieldResponse(field), nil
}

// DeleteField archives a field. The row is never removed so rules keep resolving the name.
// Active and Inactive children block the delete; archived children do not, since an archived
// child cannot be archived again and would otherwise block its parent forever.
func (s *fieldServiceImpl) DeleteField(ctx context.Context, fieldID uuid.UUID) error {
	archived := false
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		field, err := s.findByID(ctx, fieldID)
		if err != nil {
			return err
		}
		if field.IsArchived() {
			return nil
		}
		if field.IsSystem {
			return response.NewValidationError("Cannot delete system field", field.Name)
		}

		children, err := s.fieldRepo.CountChildren(ctx, field.Name)
		if err != nil {
			return response.NewInternalError("Failed to count child fields", err)
		}
		if children > 0 {
			return response.NewConflictError(
				fmt.Sprintf("Field '%s' is the parent of %d fields", field.Name, children), "")
		}

		field.Status = domain.FieldStatusArchived
		if err := s.fieldRepo.Update(ctx, field); err != nil {
			return response.NewInternalError("Failed to archive field", err)
		}
		archived = true

		s.logger.Info("Field archived",
			zap.String("field_id", field.ID.String()),
			zap.String("field_name", field.Name),
		)
		return nil
	})
	if err != nil {
		return err
	}

	if archived {
		s.metrics.IncrementFieldArchived()
	}
	return nil
}

// GetChildren returns the non-archived direct children of a field
func (s *fieldServiceImpl) GetChildren(ctx context.Context, name string) ([]*dto.FieldResponse, error) {
	parent, err := s.fieldRepo.FindByName(ctx, name)
	if err != nil {
		return nil, response.NewInternalError("Failed to fetch field", err)
	}
	if parent == nil {
		return nil, response.NewNotFoundError("Field not found", name)
	}

	children, err := s.fieldRepo.FindChildren(ctx, parent.Name)
	if err != nil {
		return nil, response.NewInternalError("Failed to fetch child fields", err)
	}
	return toFieldResponses(children), nil
}

// GetHierarchy groups every non-archived field under its parent name in a single pass
func (s *fieldServiceImpl) GetHierarchy(ctx context.Context) (dto.FieldHierarchyResponse, error) {
	fields, err := s.fieldRepo.FindNonArchived(ctx)
	if err != nil {
		return nil, response.NewInternalError("Failed to fetch fields", err)
	}
	return groupByParent(fields), nil
}

// CountByType counts fields referencing a type name, archived fields included
func (s *fieldServiceImpl) CountByType(ctx context.Context, typeName string) (int64, error) {
	count, err := s.fieldRepo.CountByType(ctx, typeName)
	if err != nil {
		return 0, response.NewInternalError("Failed to count fields by type", err)
	}
	return count, nil
}

func (s *fieldServiceImpl) findByID(ctx context.Context, fieldID uuid.UUID) (*domain.Field, error) {
	field, err := s.fieldRepo.FindByID(ctx, fieldID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("Field not found", "")
		}
		return nil, response.NewInternalError("Failed to fetch field", err)
	}
	return field, nil
}

func (s *fieldServiceImpl) resolveType(ctx context.Context, name string) (*domain.FieldType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, response.NewFieldValidationError("type", "type is required")
	}
	fieldType, err := s.types.ResolveType(ctx, name)
	if err != nil {
		return nil, response.NewInternalError("Failed to resolve field type", err)
	}
	if fieldType == nil {
		return nil, response.NewFieldValidationError("type", fmt.Sprintf("field type '%s' does not exist", name))
	}
	return fieldType, nil
}

// checkRename enforces that referenced and system fields keep their name
func (s *fieldServiceImpl) checkRename(ctx context.Context, field *domain.Field, name string) error {
	if field.IsSystem {
		return response.NewFieldValidationError("name", "system fields cannot be renamed")
	}

	existing, err := s.fieldRepo.FindByName(ctx, name)
	if err != nil {
		return response.NewInternalError("Failed to check field name", err)
	}
	if existing != nil {
		return duplicateFieldError(existing)
	}

	children, err := s.fieldRepo.CountParentReferences(ctx, field.Name)
	if err != nil {
		return response.NewInternalError("Failed to count child fields", err)
	}
	ruleRefs, err := s.ruleRepo.CountReferencing(ctx, field.Name)
	if err != nil {
		return response.NewInternalError("Failed to count rules", err)
	}
	if children > 0 || ruleRefs > 0 {
		return response.NewConflictError(
			fmt.Sprintf("Field '%s' is referenced by %d fields and %d rules and cannot be renamed", field.Name, children, ruleRefs), "")
	}
	return nil
}

// checkConditionRules rejects a kind change that would leave a rule with an incompatible operator
func (s *fieldServiceImpl) checkConditionRules(ctx context.Context, fieldName, previousType string, next *domain.FieldType) error {
	previous, err := s.types.ResolveType(ctx, previousType)
	if err != nil {
		return response.NewInternalError("Failed to resolve field type", err)
	}
	if previous != nil && previous.Kind() == next.Kind() {
		return nil
	}

	ruleList, err := s.ruleRepo.List(ctx, repository.FieldRuleFilter{IncludeInactive: true})
	if err != nil {
		return response.NewInternalError("Failed to fetch rules", err)
	}
	for _, r := range ruleList {
		if r.ConditionField != fieldName {
			continue
		}
		if err := rules.CheckOperator(next.Kind(), r.Operator, r.Value); err != nil {
			return response.NewFieldValidationError("type",
				fmt.Sprintf("rule %s (%s %s) is incompatible with kind %s: %v", r.ID, r.Operator, r.Value, next.Kind(), err))
		}
	}
	return nil
}

// checkParentChain walks the prospective ancestors of name. The direct parent must exist and
// not be archived; reaching name (or its previous name) again is a cycle.
func (s *fieldServiceImpl) checkParentChain(ctx context.Context, name, previousName string, parent *string) error {
	if parent == nil {
		return nil
	}
	if *parent == name || (previousName != "" && *parent == previousName) {
		return response.NewFieldValidationError("parent", "a field cannot be its own parent")
	}

	seen := map[string]bool{name: true}
	if previousName != "" {
		seen[previousName] = true
	}

	current := *parent
	for depth := 1; ; depth++ {
		if depth > s.maxDepth {
			return response.NewFieldValidationError("parent",
				fmt.Sprintf("parent chain exceeds the maximum depth of %d", s.maxDepth))
		}

		ancestor, err := s.fieldRepo.FindByName(ctx, current)
		if err != nil {
			return response.NewInternalError("Failed to walk parent chain", err)
		}
		if ancestor == nil {
			if depth == 1 {
				return response.NewFieldValidationError("parent", fmt.Sprintf("parent field '%s' does not exist", current))
			}
			return response.NewFieldValidationError("parent", fmt.Sprintf("parent chain references missing field '%s'", current))
		}
		if depth == 1 && ancestor.IsArchived() {
			return response.NewFieldValidationError("parent", fmt.Sprintf("parent field '%s' is archived", current))
		}

		if ancestor.Parent == nil {
			return nil
		}
		seen[current] = true
		current = *ancestor.Parent
		if seen[current] {
			return response.NewFieldValidationError("parent", "parent change would create a cycle")
		}
	}
}

func duplicateFieldError(existing *domain.Field) error {
	if existing.IsArchived() {
		return response.NewConflictError(
			fmt.Sprintf("Field '%s' already exists (archived); archived names cannot be reused", existing.Name), "")
	}
	return response.NewConflictError(fmt.Sprintf("Field '%s' already exists", existing.Name), "")
}

func normalizeParent(parent *string) *string {
	if parent == nil {
		return nil
	}
	p := strings.TrimSpace(*parent)
	if p == "" {
		return nil
	}
	return &p
}

// normalizeValues trims option values and enforces the type's option contract
func normalizeValues(fieldType *domain.FieldType, raw []string) (datatypes.JSONSlice[string], error) {
	spec := fieldType.Spec()
	if !spec.Kind.HasOptions() {
		if len(raw) > 0 {
			return nil, fmt.Errorf("values are only allowed for select types, not %s", fieldType.Name)
		}
		return nil, nil
	}

	seen := make(map[string]struct{}, len(raw))
	values := make([]string, 0, len(raw))
	for _, v := range raw {
		v = strings.TrimSpace(v)
		if v == "" {
			return nil, errors.New("values must not contain empty entries")
		}
		if _, dup := seen[v]; dup {
			return nil, fmt.Errorf("duplicate value '%s'", v)
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}

	if spec.Required && len(values) == 0 {
		return nil, fmt.Errorf("values must not be empty for type %s", fieldType.Name)
	}
	return datatypes.JSONSlice[string](values), nil
}

// normalizeMetadata accepts a JSON object or null
func normalizeMetadata(raw json.RawMessage) (datatypes.JSON, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	var obj map[string]any
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, errors.New("metadata must be a JSON object")
	}
	return datatypes.JSON(trimmed), nil
}

// groupByParent buckets fields by parent name, top-level fields under the root sentinel
func groupByParent(fields []*domain.Field) dto.FieldHierarchyResponse {
	hierarchy := make(dto.FieldHierarchyResponse)
	for _, f := range fields {
		key := domain.HierarchyRoot
		if f.Parent != nil {
			key = *f.Parent
		}
		hierarchy[key] = append(hierarchy[key], toFieldResponse(f))
	}
	return hierarchy
}

// toFieldResponse converts domain.Field to dto.FieldResponse
func toFieldResponse(f *domain.Field) *dto.FieldResponse {
	values := []string(f.Values)
	if values == nil {
		values = []string{}
	}
	var metadata json.RawMessage
	if len(f.Metadata) > 0 {
		metadata = json.RawMessage(f.Metadata)
	}
	return &dto.FieldResponse{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		Type:        f.Type,
		Parent:      f.Parent,
		Values:      values,
		Metadata:    metadata,
		Status:      string(f.Status),
		IsRequired:  f.IsRequired,
		IsSystem:    f.IsSystem,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

func toFieldResponses(fields []*domain.Field) []*dto.FieldResponse {
	responses := make([]*dto.FieldResponse, len(fields))
	for i, f := range fields {
		responses[i] = toFieldResponse(f)
	}
	return responses
}
