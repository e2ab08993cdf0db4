package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"project-field-api/internal/domain"
	"project-field-api/internal/dto"
	"project-field-api/internal/metrics"
	"project-field-api/internal/repository"
	"project-field-api/internal/response"
	"project-field-api/internal/rules"
)

// FieldRuleService defines the interface for the rule store
type FieldRuleService interface {
	CreateFieldRule(ctx context.Context, req *dto.CreateFieldRuleRequest) (*dto.FieldRuleResponse, error)
	GetFieldRule(ctx context.Context, ruleID uuid.UUID) (*dto.FieldRuleResponse, error)
	ListFieldRules(ctx context.Context, query *dto.FieldRuleListQuery) ([]*dto.FieldRuleResponse, error)
	UpdateFieldRule(ctx context.Context, ruleID uuid.UUID, req *dto.UpdateFieldRuleRequest) (*dto.FieldRuleResponse, error)
	DeleteFieldRule(ctx context.Context, ruleID uuid.UUID) error
}

// fieldRuleServiceImpl is the implementation of FieldRuleService
type fieldRuleServiceImpl struct {
	ruleRepo    repository.FieldRuleRepository
	fieldRepo   repository.FieldRepository
	projectRepo repository.ProjectRepository
	types       FieldTypeResolver
	tx          repository.Transactor
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewFieldRuleService creates a new instance of FieldRuleService
func NewFieldRuleService(
	ruleRepo repository.FieldRuleRepository,
	fieldRepo repository.FieldRepository,
	projectRepo repository.ProjectRepository,
	types FieldTypeResolver,
	tx repository.Transactor,
	m *metrics.Metrics,
	logger *zap.Logger,
) FieldRuleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &fieldRuleServiceImpl{
		ruleRepo:    ruleRepo,
		fieldRepo:   fieldRepo,
		projectRepo: projectRepo,
		types:       types,
		tx:          tx,
		metrics:     m,
		logger:      logger,
	}
}

// CreateFieldRule validates and stores a rule. Priority defaults to 0 and isActive to true.
func (s *fieldRuleServiceImpl) CreateFieldRule(ctx context.Context, req *dto.CreateFieldRuleRequest) (*dto.FieldRuleResponse, error) {
	rule := &domain.FieldRule{
		Name:           strings.TrimSpace(req.Name),
		Description:    req.Description,
		ConditionField: strings.TrimSpace(req.ConditionField),
		Operator:       domain.RuleOperator(req.Operator),
		Value:          req.Value,
		Action:         domain.RuleAction(req.Action),
		TargetField:    strings.TrimSpace(req.TargetField),
		ActionValue:    req.ActionValue,
		Priority:       domain.MinRulePriority,
		IsActive:       true,
		ProjectID:      req.ProjectID,
	}
	if req.Priority != nil {
		rule.Priority = *req.Priority
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}
	if err := checkPriority(rule.Priority); err != nil {
		return nil, err
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.validateReferences(ctx, rule); err != nil {
			return err
		}
		if err := s.validateProject(ctx, rule.ProjectID); err != nil {
			return err
		}
		if err := s.ruleRepo.Create(ctx, rule); err != nil {
			return response.NewInternalError("Failed to create field rule", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncrementFieldRuleCreated()
	s.logger.Info("Field rule created",
		zap.String("rule_id", rule.ID.String()),
		zap.String("condition_field", rule.ConditionField),
		zap.String("operator", string(rule.Operator)),
		zap.String("action", string(rule.Action)),
		zap.String("target_field", rule.TargetField),
		zap.Int("priority", rule.Priority),
	)
	return toFieldRuleResponse(rule), nil
}

// GetFieldRule retrieves a rule by ID
func (s *fieldRuleServiceImpl) GetFieldRule(ctx context.Context, ruleID uuid.UUID) (*dto.FieldRuleResponse, error) {
	rule, err := s.findByID(ctx, ruleID)
	if err != nil {
		return nil, err
	}
	return toFieldRuleResponse(rule), nil
}

// ListFieldRules returns rules in evaluation order
func (s *fieldRuleServiceImpl) ListFieldRules(ctx context.Context, query *dto.FieldRuleListQuery) ([]*dto.FieldRuleResponse, error) {
	filter := repository.FieldRuleFilter{IncludeInactive: query.IncludeInactive}
	if query.ProjectID != "" {
		projectID, err := uuid.Parse(query.ProjectID)
		if err != nil {
			return nil, response.NewFieldValidationError("projectId", "projectId must be a UUID")
		}
		filter.ProjectID = &projectID
	}

	ruleList, err := s.ruleRepo.List(ctx, filter)
	if err != nil {
		return nil, response.NewInternalError("Failed to list field rules", err)
	}

	responses := make([]*dto.FieldRuleResponse, len(ruleList))
	for i, r := range ruleList {
		responses[i] = toFieldRuleResponse(r)
	}
	return responses, nil
}

// UpdateFieldRule patches a rule, re-validating references only when they are touched
func (s *fieldRuleServiceImpl) UpdateFieldRule(ctx context.Context, ruleID uuid.UUID, req *dto.UpdateFieldRuleRequest) (*dto.FieldRuleResponse, error) {
	var rule *domain.FieldRule
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		rule, err = s.findByID(ctx, ruleID)
		if err != nil {
			return err
		}

		referencesChanged := false
		if req.ConditionField != nil {
			rule.ConditionField = strings.TrimSpace(*req.ConditionField)
			referencesChanged = true
		}
		if req.Operator != nil {
			rule.Operator = domain.RuleOperator(*req.Operator)
			referencesChanged = true
		}
		if req.Value != nil {
			rule.Value = *req.Value
			referencesChanged = true
		}
		if req.Action != nil {
			rule.Action = domain.RuleAction(*req.Action)
			referencesChanged = true
		}
		if req.TargetField != nil {
			rule.TargetField = strings.TrimSpace(*req.TargetField)
			referencesChanged = true
		}
		if req.ActionValue != nil {
			rule.ActionValue = req.ActionValue
			referencesChanged = true
		}
		if req.Name != nil {
			rule.Name = strings.TrimSpace(*req.Name)
		}
		if req.Description != nil {
			rule.Description = *req.Description
		}
		if req.Priority != nil {
			if err := checkPriority(*req.Priority); err != nil {
				return err
			}
			rule.Priority = *req.Priority
		}
		if req.IsActive != nil {
			rule.IsActive = *req.IsActive
		}

		if referencesChanged {
			if err := s.validateReferences(ctx, rule); err != nil {
				return err
			}
		}
		if req.ClearProjectID {
			if req.ProjectID != nil {
				return response.NewFieldValidationError("projectId", "projectId and clearProjectId are mutually exclusive")
			}
			rule.ProjectID = nil
		}
		if req.ProjectID != nil && (rule.ProjectID == nil || *rule.ProjectID != *req.ProjectID) {
			if err := s.validateProject(ctx, req.ProjectID); err != nil {
				return err
			}
			rule.ProjectID = req.ProjectID
		}

		if err := s.ruleRepo.Update(ctx, rule); err != nil {
			return response.NewInternalError("Failed to update field rule", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toFieldRuleResponse(rule), nil
}

// DeleteFieldRule permanently removes a rule; nothing depends on a rule's existence
func (s *fieldRuleServiceImpl) DeleteFieldRule(ctx context.Context, ruleID uuid.UUID) error {
	rule, err := s.findByID(ctx, ruleID)
	if err != nil {
		return err
	}

	if err := s.ruleRepo.Delete(ctx, rule.ID); err != nil {
		return response.NewInternalError("Failed to delete field rule", err)
	}

	s.metrics.IncrementFieldRuleDeleted()
	s.logger.Info("Field rule deleted", zap.String("rule_id", rule.ID.String()))
	return nil
}

func (s *fieldRuleServiceImpl) findByID(ctx context.Context, ruleID uuid.UUID) (*domain.FieldRule, error) {
	rule, err := s.ruleRepo.FindByID(ctx, ruleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("Field rule not found", "")
		}
		return nil, response.NewInternalError("Failed to fetch field rule", err)
	}
	return rule, nil
}

// validateReferences checks both field references, the operator against the condition kind
// and the action value against the target type
func (s *fieldRuleServiceImpl) validateReferences(ctx context.Context, rule *domain.FieldRule) error {
	if !rule.Operator.IsValid() {
		return response.NewFieldValidationError("operator", fmt.Sprintf("unknown operator '%s'", rule.Operator))
	}
	if !rule.Action.IsValid() {
		return response.NewFieldValidationError("action", fmt.Sprintf("unknown action '%s'", rule.Action))
	}

	condition, conditionType, err := s.resolveField(ctx, "conditionField", rule.ConditionField)
	if err != nil {
		return err
	}
	target, targetType, err := s.resolveField(ctx, "targetField", rule.TargetField)
	if err != nil {
		return err
	}

	if condition.Name == target.Name && !rule.Action.AllowsSelfReference() {
		return response.NewFieldValidationError("targetField",
			fmt.Sprintf("%s rules cannot target their own condition field", rule.Action))
	}

	if err := rules.CheckOperator(conditionType.Kind(), rule.Operator, rule.Value); err != nil {
		if errors.Is(err, rules.ErrIncompatibleOperator) {
			return response.NewFieldValidationError("operator", err.Error())
		}
		return response.NewFieldValidationError("value", err.Error())
	}

	if rule.Action == domain.ActionModify {
		if rule.ActionValue == nil {
			return response.NewFieldValidationError("actionValue", "Modify rules require an actionValue")
		}
		if err := ValidateValue(targetType.Spec(), target.Values, *rule.ActionValue); err != nil {
			return response.NewFieldValidationError("actionValue", err.Error())
		}
	} else {
		rule.ActionValue = nil
	}
	return nil
}

func (s *fieldRuleServiceImpl) resolveField(ctx context.Context, attr, name string) (*domain.Field, *domain.FieldType, error) {
	if name == "" {
		return nil, nil, response.NewFieldValidationError(attr, attr+" is required")
	}

	field, err := s.fieldRepo.FindByName(ctx, name)
	if err != nil {
		return nil, nil, response.NewInternalError("Failed to resolve field", err)
	}
	if field == nil {
		return nil, nil, response.NewFieldValidationError(attr, fmt.Sprintf("field '%s' does not exist", name))
	}
	if field.IsArchived() {
		return nil, nil, response.NewFieldValidationError(attr, fmt.Sprintf("field '%s' is archived", name))
	}

	fieldType, err := s.types.ResolveType(ctx, field.Type)
	if err != nil {
		return nil, nil, response.NewInternalError("Failed to resolve field type", err)
	}
	if fieldType == nil {
		return nil, nil, response.NewFieldValidationError(attr,
			fmt.Sprintf("type '%s' of field '%s' does not exist", field.Type, name))
	}
	return field, fieldType, nil
}

func (s *fieldRuleServiceImpl) validateProject(ctx context.Context, projectID *uuid.UUID) error {
	if projectID == nil {
		return nil
	}
	exists, err := s.projectRepo.Exists(ctx, *projectID)
	if err != nil {
		return response.NewInternalError("Failed to resolve project", err)
	}
	if !exists {
		return response.NewFieldValidationError("projectId", fmt.Sprintf("project %s does not exist", projectID))
	}
	return nil
}

func checkPriority(priority int) error {
	if priority < domain.MinRulePriority || priority > domain.MaxRulePriority {
		return response.NewFieldValidationError("priority",
			fmt.Sprintf("priority must be between %d and %d", domain.MinRulePriority, domain.MaxRulePriority))
	}
	return nil
}

// toFieldRuleResponse converts domain.FieldRule to dto.FieldRuleResponse
func toFieldRuleResponse(r *domain.FieldRule) *dto.FieldRuleResponse {
	return &dto.FieldRuleResponse{
		ID:             r.ID,
		Name:           r.Name,
		Description:    r.Description,
		ConditionField: r.ConditionField,
		Operator:       string(r.Operator),
		Value:          r.Value,
		Action:         string(r.Action),
		TargetField:    r.TargetField,
		ActionValue:    r.ActionValue,
		Priority:       r.Priority,
		IsActive:       r.IsActive,
		ProjectID:      r.ProjectID,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}
