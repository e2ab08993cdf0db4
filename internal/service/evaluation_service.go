package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"project-field-api/internal/domain"
	"project-field-api/internal/dto"
	"project-field-api/internal/metrics"
	"project-field-api/internal/repository"
	"project-field-api/internal/response"
	"project-field-api/internal/rules"
)

// Evaluation modes reported to metrics
const (
	modeEvaluate = "evaluate"
	modeValidate = "validate"
)

// EvaluationService runs the rule engine over the current field and rule sets
type EvaluationService interface {
	Evaluate(ctx context.Context, req *dto.EvaluateRequest) (*dto.EvaluateResponse, error)
	ValidateRecord(ctx context.Context, req *dto.EvaluateRequest) (*dto.ValidateRecordResponse, error)
}

// evaluationServiceImpl is the implementation of EvaluationService
type evaluationServiceImpl struct {
	fieldRepo repository.FieldRepository
	ruleRepo  repository.FieldRuleRepository
	types     FieldTypeResolver
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewEvaluationService creates a new instance of EvaluationService
func NewEvaluationService(
	fieldRepo repository.FieldRepository,
	ruleRepo repository.FieldRuleRepository,
	types FieldTypeResolver,
	m *metrics.Metrics,
	logger *zap.Logger,
) EvaluationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &evaluationServiceImpl{
		fieldRepo: fieldRepo,
		ruleRepo:  ruleRepo,
		types:     types,
		metrics:   m,
		logger:    logger,
	}
}

// evaluationInputs is the request-scoped snapshot one pass runs against
type evaluationInputs struct {
	fields []*domain.Field
	types  map[string]*domain.FieldType
	schema rules.Schema
	rules  []*domain.FieldRule
}

// loadInputs reads the active fields and rules fresh for every call
func (s *evaluationServiceImpl) loadInputs(ctx context.Context, projectID *uuid.UUID) (*evaluationInputs, error) {
	fields, err := s.fieldRepo.FindByStatus(ctx, domain.FieldStatusActive)
	if err != nil {
		return nil, response.NewInternalError("Failed to load fields", err)
	}
	types, err := s.types.AllTypes(ctx)
	if err != nil {
		return nil, response.NewInternalError("Failed to load field types", err)
	}
	ruleList, err := s.ruleRepo.List(ctx, repository.FieldRuleFilter{ProjectID: projectID})
	if err != nil {
		return nil, response.NewInternalError("Failed to load field rules", err)
	}

	byName := make(map[string]*domain.FieldType, len(types))
	for _, t := range types {
		byName[strings.ToLower(t.Name)] = t
	}

	return &evaluationInputs{
		fields: fields,
		types:  byName,
		schema: rules.NewSchema(fields, types),
		rules:  ruleList,
	}, nil
}

func (s *evaluationServiceImpl) run(mode string, in *evaluationInputs, values map[string]any) rules.Result {
	start := time.Now()
	result := rules.Evaluate(in.schema, in.rules, rules.Values(values))
	s.metrics.RecordEvaluation(mode, time.Since(start), len(result.Warnings))

	for _, w := range result.Warnings {
		s.logger.Debug("Rule skipped during evaluation",
			zap.String("rule_id", w.RuleID.String()),
			zap.String("reason", w.Reason),
		)
	}
	return result
}

// Evaluate derives the per-field UI state for the submitted values
func (s *evaluationServiceImpl) Evaluate(ctx context.Context, req *dto.EvaluateRequest) (*dto.EvaluateResponse, error) {
	in, err := s.loadInputs(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}

	result := s.run(modeEvaluate, in, req.Values)
	return toEvaluateResponse(result), nil
}

// ValidateRecord evaluates the rules, then validates what would be submitted:
// cleared fields are dropped, effective required-ness is enforced and every
// visible value is checked against its type's contract.
func (s *evaluationServiceImpl) ValidateRecord(ctx context.Context, req *dto.EvaluateRequest) (*dto.ValidateRecordResponse, error) {
	in, err := s.loadInputs(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}

	result := s.run(modeValidate, in, req.Values)

	fieldsByName := make(map[string]*domain.Field, len(in.fields))
	for _, f := range in.fields {
		fieldsByName[f.Name] = f
	}

	names := make([]string, 0, len(result.States))
	for name := range result.States {
		names = append(names, name)
	}
	sort.Strings(names)

	issues := []dto.FieldIssue{}
	submission := make(map[string]any)
	for _, name := range names {
		state := result.States[name]
		if state.Cleared {
			continue
		}

		empty := rules.IsEmpty(state.Value)
		if empty {
			if state.RequiredEffective() {
				issues = append(issues, dto.FieldIssue{Field: name, Reason: "value is required"})
			}
			continue
		}
		submission[name] = state.Value

		if !state.Visible {
			continue
		}
		field := fieldsByName[name]
		fieldType, ok := in.types[strings.ToLower(field.Type)]
		if !ok {
			continue
		}
		if err := ValidateValue(fieldType.Spec(), field.Values, state.Value); err != nil {
			issues = append(issues, dto.FieldIssue{Field: name, Reason: err.Error()})
		}
	}

	evaluated := toEvaluateResponse(result)
	return &dto.ValidateRecordResponse{
		Valid:      len(issues) == 0,
		Issues:     issues,
		Submission: submission,
		States:     evaluated.States,
		Warnings:   evaluated.Warnings,
	}, nil
}

func toEvaluateResponse(result rules.Result) *dto.EvaluateResponse {
	states := make(map[string]*dto.DerivedStateResponse, len(result.States))
	for name, st := range result.States {
		states[name] = &dto.DerivedStateResponse{
			Visible:           st.Visible,
			Enabled:           st.Enabled,
			Required:          st.Required,
			RequiredEffective: st.RequiredEffective(),
			Value:             st.Value,
			Cleared:           st.Cleared,
		}
	}

	warnings := make([]dto.RuleWarningResponse, len(result.Warnings))
	for i, w := range result.Warnings {
		warnings[i] = dto.RuleWarningResponse{RuleID: w.RuleID, RuleName: w.RuleName, Reason: w.Reason}
	}
	return &dto.EvaluateResponse{States: states, Warnings: warnings}
}
