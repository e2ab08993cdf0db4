package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"project-field-api/internal/domain"
)

// ProjectRepository resolves project references held by field rules
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type projectRepositoryImpl struct {
	db *gorm.DB
}

// NewProjectRepository creates a new instance of ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepositoryImpl{db: db}
}

// Create creates a new project
func (r *projectRepositoryImpl) Create(ctx context.Context, project *domain.Project) error {
	return conn(ctx, r.db).Create(project).Error
}

// Exists reports whether a project with the given ID exists
func (r *projectRepositoryImpl) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := conn(ctx, r.db).
		Model(&domain.Project{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
