package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"project-field-api/internal/domain"
)

// FieldTypeRepository defines the interface for field type data access
type FieldTypeRepository interface {
	Create(ctx context.Context, fieldType *domain.FieldType) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.FieldType, error)
	FindByName(ctx context.Context, name string) (*domain.FieldType, error)
	FindAll(ctx context.Context) ([]*domain.FieldType, error)
	Update(ctx context.Context, fieldType *domain.FieldType) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type fieldTypeRepositoryImpl struct {
	db *gorm.DB
}

// NewFieldTypeRepository creates a new instance of FieldTypeRepository
func NewFieldTypeRepository(db *gorm.DB) FieldTypeRepository {
	return &fieldTypeRepositoryImpl{db: db}
}

// Create creates a new field type
func (r *fieldTypeRepositoryImpl) Create(ctx context.Context, fieldType *domain.FieldType) error {
	return conn(ctx, r.db).Create(fieldType).Error
}

// FindByID finds a field type by ID
func (r *fieldTypeRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.FieldType, error) {
	var fieldType domain.FieldType
	if err := conn(ctx, r.db).
		Where("id = ?", id).
		First(&fieldType).Error; err != nil {
		return nil, err
	}
	return &fieldType, nil
}

// FindByName finds a field type by name, ignoring case. Returns nil when absent.
func (r *fieldTypeRepositoryImpl) FindByName(ctx context.Context, name string) (*domain.FieldType, error) {
	var fieldType domain.FieldType
	if err := conn(ctx, r.db).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		First(&fieldType).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &fieldType, nil
}

// FindAll returns system types first, then the rest alphabetically
func (r *fieldTypeRepositoryImpl) FindAll(ctx context.Context) ([]*domain.FieldType, error) {
	var fieldTypes []*domain.FieldType
	if err := conn(ctx, r.db).
		Order("is_system DESC").
		Order("LOWER(name) ASC").
		Find(&fieldTypes).Error; err != nil {
		return nil, err
	}
	return fieldTypes, nil
}

// Update saves all columns of a field type
func (r *fieldTypeRepositoryImpl) Update(ctx context.Context, fieldType *domain.FieldType) error {
	return conn(ctx, r.db).Save(fieldType).Error
}

// Delete removes a field type
func (r *fieldTypeRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Delete(&domain.FieldType{}, "id = ?", id).Error
}
