package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"project-field-api/internal/domain"
)

// FieldRuleFilter narrows a rule listing.
// A ProjectID selects that project's rules plus global ones.
type FieldRuleFilter struct {
	ProjectID       *uuid.UUID
	IncludeInactive bool
}

// FieldRuleRepository defines the interface for field rule data access
type FieldRuleRepository interface {
	Create(ctx context.Context, rule *domain.FieldRule) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.FieldRule, error)
	List(ctx context.Context, filter FieldRuleFilter) ([]*domain.FieldRule, error)
	CountReferencing(ctx context.Context, fieldName string) (int64, error)
	Update(ctx context.Context, rule *domain.FieldRule) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type fieldRuleRepositoryImpl struct {
	db *gorm.DB
}

// NewFieldRuleRepository creates a new instance of FieldRuleRepository
func NewFieldRuleRepository(db *gorm.DB) FieldRuleRepository {
	return &fieldRuleRepositoryImpl{db: db}
}

// Create creates a new field rule
func (r *fieldRuleRepositoryImpl) Create(ctx context.Context, rule *domain.FieldRule) error {
	return conn(ctx, r.db).Create(rule).Error
}

// FindByID finds a field rule by ID
func (r *fieldRuleRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.FieldRule, error) {
	var rule domain.FieldRule
	if err := conn(ctx, r.db).
		Where("id = ?", id).
		First(&rule).Error; err != nil {
		return nil, err
	}
	return &rule, nil
}

// List returns rules in evaluation order: priority desc, then created_at asc, then id asc
func (r *fieldRuleRepositoryImpl) List(ctx context.Context, filter FieldRuleFilter) ([]*domain.FieldRule, error) {
	query := conn(ctx, r.db).Model(&domain.FieldRule{})

	if !filter.IncludeInactive {
		query = query.Where("is_active = ?", true)
	}
	if filter.ProjectID != nil {
		query = query.Where("project_id = ? OR project_id IS NULL", *filter.ProjectID)
	}

	var rules []*domain.FieldRule
	if err := query.
		Order("priority DESC").
		Order("created_at ASC").
		Order("id ASC").
		Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

// CountReferencing counts rules whose condition or target is the given field name
func (r *fieldRuleRepositoryImpl) CountReferencing(ctx context.Context, fieldName string) (int64, error) {
	var count int64
	if err := conn(ctx, r.db).
		Model(&domain.FieldRule{}).
		Where("condition_field = ? OR target_field = ?", fieldName, fieldName).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Update saves all columns of a field rule
func (r *fieldRuleRepositoryImpl) Update(ctx context.Context, rule *domain.FieldRule) error {
	return conn(ctx, r.db).Save(rule).Error
}

// Delete permanently removes a field rule
func (r *fieldRuleRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Delete(&domain.FieldRule{}, "id = ?", id).Error
}
