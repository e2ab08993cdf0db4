package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"project-field-api/internal/domain"
)

// FieldFilter narrows a paginated field listing
type FieldFilter struct {
	Status *domain.FieldStatus
	Type   string
	Parent string
	Search string
	Page   int
	Limit  int
}

// FieldRepository defines the interface for field data access
type FieldRepository interface {
	Create(ctx context.Context, field *domain.Field) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Field, error)
	FindByName(ctx context.Context, name string) (*domain.Field, error)
	FindByNames(ctx context.Context, names []string) ([]*domain.Field, error)
	List(ctx context.Context, filter FieldFilter) ([]*domain.Field, int64, error)
	FindNonArchived(ctx context.Context) ([]*domain.Field, error)
	FindByStatus(ctx context.Context, status domain.FieldStatus) ([]*domain.Field, error)
	FindChildren(ctx context.Context, parent string) ([]*domain.Field, error)
	CountChildren(ctx context.Context, parent string) (int64, error)
	CountParentReferences(ctx context.Context, parent string) (int64, error)
	CountByType(ctx context.Context, typeName string) (int64, error)
	Update(ctx context.Context, field *domain.Field) error
}

type fieldRepositoryImpl struct {
	db *gorm.DB
}

// NewFieldRepository creates a new instance of FieldRepository
func NewFieldRepository(db *gorm.DB) FieldRepository {
	return &fieldRepositoryImpl{db: db}
}

// Create creates a new field
func (r *fieldRepositoryImpl) Create(ctx context.Context, field *domain.Field) error {
	return conn(ctx, r.db).Create(field).Error
}

// FindByID finds a field by ID
func (r *fieldRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Field, error) {
	var field domain.Field
	if err := conn(ctx, r.db).
		Where("id = ?", id).
		First(&field).Error; err != nil {
		return nil, err
	}
	return &field, nil
}

// FindByName finds a field by its exact name, archived rows included. Returns nil when absent.
func (r *fieldRepositoryImpl) FindByName(ctx context.Context, name string) (*domain.Field, error) {
	var field domain.Field
	if err := conn(ctx, r.db).
		Where("name = ?", name).
		First(&field).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &field, nil
}

// FindByNames finds multiple fields by name in a single query
func (r *fieldRepositoryImpl) FindByNames(ctx context.Context, names []string) ([]*domain.Field, error) {
	if len(names) == 0 {
		return []*domain.Field{}, nil
	}

	var fields []*domain.Field
	if err := conn(ctx, r.db).
		Where("name IN ?", names).
		Find(&fields).Error; err != nil {
		return nil, err
	}
	return fields, nil
}

// List returns one page of fields matching filter plus the total match count
func (r *fieldRepositoryImpl) List(ctx context.Context, filter FieldFilter) ([]*domain.Field, int64, error) {
	query := conn(ctx, r.db).Model(&domain.Field{})

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Parent != "" {
		if filter.Parent == domain.HierarchyRoot {
			query = query.Where("parent IS NULL")
		} else {
			query = query.Where("parent = ?", filter.Parent)
		}
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	var fields []*domain.Field
	if err := query.
		Order("name ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&fields).Error; err != nil {
		return nil, 0, err
	}
	return fields, total, nil
}

// FindNonArchived returns every Active or Inactive field ordered by name
func (r *fieldRepositoryImpl) FindNonArchived(ctx context.Context) ([]*domain.Field, error) {
	var fields []*domain.Field
	if err := conn(ctx, r.db).
		Where("status <> ?", domain.FieldStatusArchived).
		Order("name ASC").
		Find(&fields).Error; err != nil {
		return nil, err
	}
	return fields, nil
}

// FindByStatus returns the fields in one lifecycle status ordered by name
func (r *fieldRepositoryImpl) FindByStatus(ctx context.Context, status domain.FieldStatus) ([]*domain.Field, error) {
	var fields []*domain.Field
	if err := conn(ctx, r.db).
		Where("status = ?", status).
		Order("name ASC").
		Find(&fields).Error; err != nil {
		return nil, err
	}
	return fields, nil
}

// FindChildren returns the non-archived fields whose parent is the given name
func (r *fieldRepositoryImpl) FindChildren(ctx context.Context, parent string) ([]*domain.Field, error) {
	var fields []*domain.Field
	if err := conn(ctx, r.db).
		Where("parent = ? AND status <> ?", parent, domain.FieldStatusArchived).
		Order("name ASC").
		Find(&fields).Error; err != nil {
		return nil, err
	}
	return fields, nil
}

// CountChildren counts the non-archived fields whose parent is the given name
func (r *fieldRepositoryImpl) CountChildren(ctx context.Context, parent string) (int64, error) {
	var count int64
	if err := conn(ctx, r.db).
		Model(&domain.Field{}).
		Where("parent = ? AND status <> ?", parent, domain.FieldStatusArchived).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountParentReferences counts every field, archived included, whose parent is the given name
func (r *fieldRepositoryImpl) CountParentReferences(ctx context.Context, parent string) (int64, error) {
	var count int64
	if err := conn(ctx, r.db).
		Model(&domain.Field{}).
		Where("parent = ?", parent).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByType counts every field (archived included) that references the type name
func (r *fieldRepositoryImpl) CountByType(ctx context.Context, typeName string) (int64, error) {
	var count int64
	if err := conn(ctx, r.db).
		Model(&domain.Field{}).
		Where("LOWER(type) = ?", strings.ToLower(typeName)).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Update saves all columns of a field
func (r *fieldRepositoryImpl) Update(ctx context.Context, field *domain.Field) error {
	return conn(ctx, r.db).Save(field).Error
}
