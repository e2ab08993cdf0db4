package domain

import (
	"github.com/google/uuid"
)

// Project represents a tracked power-generation project.
// Project CRUD lives in another service; rows here exist so FieldRule.ProjectID can be resolved.
type Project struct {
	BaseModel
	WorkspaceID uuid.UUID `gorm:"type:uuid;index:idx_projects_workspace_id" json:"workspaceId"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
}

// TableName specifies the table name for Project
func (Project) TableName() string {
	return "projects"
}
