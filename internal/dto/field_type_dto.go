package dto

import (
	"time"

	"github.com/google/uuid"

	"project-field-api/internal/domain"
)

// FieldTypeResponse represents the field type response
type FieldTypeResponse struct {
	ID             uuid.UUID             `json:"id"`
	Name           string                `json:"name"`
	Description    string                `json:"description"`
	Icon           string                `json:"icon"`
	ValidationSpec domain.ValidationSpec `json:"validationSpec"`
	IsSystem       bool                  `json:"isSystem"`
	CreatedAt      time.Time             `json:"createdAt"`
	UpdatedAt      time.Time             `json:"updatedAt"`
}

// CreateFieldTypeRequest represents the request to create a user-defined field type
type CreateFieldTypeRequest struct {
	Name           string                `json:"name" binding:"required,max=100" example:"Interconnection Voltage"`
	Description    string                `json:"description" binding:"max=500"`
	Icon           string                `json:"icon" binding:"max=100" example:"bolt"`
	ValidationSpec domain.ValidationSpec `json:"validationSpec"`
}

// UpdateFieldTypeRequest represents the request to patch a field type
type UpdateFieldTypeRequest struct {
	Name           *string                `json:"name" binding:"omitempty,min=1,max=100"`
	Description    *string                `json:"description" binding:"omitempty,max=500"`
	Icon           *string                `json:"icon" binding:"omitempty,max=100"`
	ValidationSpec *domain.ValidationSpec `json:"validationSpec"`
}

// UpdateFieldTypeResponse carries the updated type and any follow-up warnings
type UpdateFieldTypeResponse struct {
	FieldType *FieldTypeResponse `json:"fieldType"`
	Warnings  []string           `json:"warnings"`
}
