package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"project-field-api/internal/domain"
	"project-field-api/internal/repository"
)

// MockFieldTypeRepository is a mock implementation of FieldTypeRepository
type MockFieldTypeRepository struct {
	CreateFunc     func(ctx context.Context, fieldType *domain.FieldType) error
	FindByIDFunc   func(ctx context.Context, id uuid.UUID) (*domain.FieldType, error)
	FindByNameFunc func(ctx context.Context, name string) (*domain.FieldType, error)
	FindAllFunc    func(ctx context.Context) ([]*domain.FieldType, error)
	UpdateFunc     func(ctx context.Context, fieldType *domain.FieldType) error
	DeleteFunc     func(ctx context.Context, id uuid.UUID) error
}

func (m *MockFieldTypeRepository) Create(ctx context.Context, fieldType *domain.FieldType) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, fieldType)
	}
	return nil
}

func (m *MockFieldTypeRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.FieldType, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockFieldTypeRepository) FindByName(ctx context.Context, name string) (*domain.FieldType, error) {
	if m.FindByNameFunc != nil {
		return m.FindByNameFunc(ctx, name)
	}
	return nil, nil
}

func (m *MockFieldTypeRepository) FindAll(ctx context.Context) ([]*domain.FieldType, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx)
	}
	return nil, nil
}

func (m *MockFieldTypeRepository) Update(ctx context.Context, fieldType *domain.FieldType) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, fieldType)
	}
	return nil
}

func (m *MockFieldTypeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockFieldUsageCounter is a mock implementation of FieldUsageCounter
type MockFieldUsageCounter struct {
	CountByTypeFunc func(ctx context.Context, typeName string) (int64, error)
}

func (m *MockFieldUsageCounter) CountByType(ctx context.Context, typeName string) (int64, error) {
	if m.CountByTypeFunc != nil {
		return m.CountByTypeFunc(ctx, typeName)
	}
	return 0, nil
}

// MockFieldRepository is a mock implementation of FieldRepository
type MockFieldRepository struct {
	CreateFunc                func(ctx context.Context, field *domain.Field) error
	FindByIDFunc              func(ctx context.Context, id uuid.UUID) (*domain.Field, error)
	FindByNameFunc            func(ctx context.Context, name string) (*domain.Field, error)
	FindByNamesFunc           func(ctx context.Context, names []string) ([]*domain.Field, error)
	ListFunc                  func(ctx context.Context, filter repository.FieldFilter) ([]*domain.Field, int64, error)
	FindNonArchivedFunc       func(ctx context.Context) ([]*domain.Field, error)
	FindByStatusFunc          func(ctx context.Context, status domain.FieldStatus) ([]*domain.Field, error)
	FindChildrenFunc          func(ctx context.Context, parent string) ([]*domain.Field, error)
	CountChildrenFunc         func(ctx context.Context, parent string) (int64, error)
	CountParentReferencesFunc func(ctx context.Context, parent string) (int64, error)
	CountByTypeFunc           func(ctx context.Context, typeName string) (int64, error)
	UpdateFunc                func(ctx context.Context, field *domain.Field) error
}

func (m *MockFieldRepository) Create(ctx context.Context, field *domain.Field) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, field)
	}
	return nil
}

func (m *MockFieldRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Field, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockFieldRepository) FindByName(ctx context.Context, name string) (*domain.Field, error) {
	if m.FindByNameFunc != nil {
		return m.FindByNameFunc(ctx, name)
	}
	return nil, nil
}

func (m *MockFieldRepository) FindByNames(ctx context.Context, names []string) ([]*domain.Field, error) {
	if m.FindByNamesFunc != nil {
		return m.FindByNamesFunc(ctx, names)
	}
	return nil, nil
}

func (m *MockFieldRepository) List(ctx context.Context, filter repository.FieldFilter) ([]*domain.Field, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, 0, nil
}

func (m *MockFieldRepository) FindNonArchived(ctx context.Context) ([]*domain.Field, error) {
	if m.FindNonArchivedFunc != nil {
		return m.FindNonArchivedFunc(ctx)
	}
	return nil, nil
}

func (m *MockFieldRepository) FindByStatus(ctx context.Context, status domain.FieldStatus) ([]*domain.Field, error) {
	if m.FindByStatusFunc != nil {
		return m.FindByStatusFunc(ctx, status)
	}
	return nil, nil
}

func (m *MockFieldRepository) FindChildren(ctx context.Context, parent string) ([]*domain.Field, error) {
	if m.FindChildrenFunc != nil {
		return m.FindChildrenFunc(ctx, parent)
	}
	return nil, nil
}

func (m *MockFieldRepository) CountChildren(ctx context.Context, parent string) (int64, error) {
	if m.CountChildrenFunc != nil {
		return m.CountChildrenFunc(ctx, parent)
	}
	return 0, nil
}

func (m *MockFieldRepository) CountParentReferences(ctx context.Context, parent string) (int64, error) {
	if m.CountParentReferencesFunc != nil {
		return m.CountParentReferencesFunc(ctx, parent)
	}
	return 0, nil
}

func (m *MockFieldRepository) CountByType(ctx context.Context, typeName string) (int64, error) {
	if m.CountByTypeFunc != nil {
		return m.CountByTypeFunc(ctx, typeName)
	}
	return 0, nil
}

func (m *MockFieldRepository) Update(ctx context.Context, field *domain.Field) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, field)
	}
	return nil
}

// MockFieldRuleRepository is a mock implementation of FieldRuleRepository
type MockFieldRuleRepository struct {
	CreateFunc           func(ctx context.Context, rule *domain.FieldRule) error
	FindByIDFunc         func(ctx context.Context, id uuid.UUID) (*domain.FieldRule, error)
	ListFunc             func(ctx context.Context, filter repository.FieldRuleFilter) ([]*domain.FieldRule, error)
	CountReferencingFunc func(ctx context.Context, fieldName string) (int64, error)
	UpdateFunc           func(ctx context.Context, rule *domain.FieldRule) error
	DeleteFunc           func(ctx context.Context, id uuid.UUID) error
}

func (m *MockFieldRuleRepository) Create(ctx context.Context, rule *domain.FieldRule) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, rule)
	}
	return nil
}

func (m *MockFieldRuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.FieldRule, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockFieldRuleRepository) List(ctx context.Context, filter repository.FieldRuleFilter) ([]*domain.FieldRule, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, nil
}

func (m *MockFieldRuleRepository) CountReferencing(ctx context.Context, fieldName string) (int64, error) {
	if m.CountReferencingFunc != nil {
		return m.CountReferencingFunc(ctx, fieldName)
	}
	return 0, nil
}

func (m *MockFieldRuleRepository) Update(ctx context.Context, rule *domain.FieldRule) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, rule)
	}
	return nil
}

func (m *MockFieldRuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockFieldTypeResolver is a mock implementation of FieldTypeResolver
type MockFieldTypeResolver struct {
	ResolveTypeFunc func(ctx context.Context, name string) (*domain.FieldType, error)
	AllTypesFunc    func(ctx context.Context) ([]*domain.FieldType, error)
}

func (m *MockFieldTypeResolver) ResolveType(ctx context.Context, name string) (*domain.FieldType, error) {
	if m.ResolveTypeFunc != nil {
		return m.ResolveTypeFunc(ctx, name)
	}
	return nil, nil
}

func (m *MockFieldTypeResolver) AllTypes(ctx context.Context) ([]*domain.FieldType, error) {
	if m.AllTypesFunc != nil {
		return m.AllTypesFunc(ctx)
	}
	return nil, nil
}

// passthroughTransactor runs fn without a database transaction
type passthroughTransactor struct{}

func (passthroughTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
