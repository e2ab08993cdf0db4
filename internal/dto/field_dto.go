package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// FieldResponse represents the field response
type FieldResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Type        string          `json:"type"`
	Parent      *string         `json:"parent"`
	Values      []string        `json:"values"`
	Metadata    json.RawMessage `json:"metadata,omitempty" swaggertype:"object"`
	Status      string          `json:"status"`
	IsRequired  bool            `json:"isRequired"`
	IsSystem    bool            `json:"isSystem"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// CreateFieldRequest represents the request to create a field
// @Description values is only accepted for Select and Multi-Select types
type CreateFieldRequest struct {
	Name        string          `json:"name" binding:"required,max=255" example:"Nameplate Capacity (MW)"`
	Description string          `json:"description" binding:"max=1000"`
	Type        string          `json:"type" binding:"required,max=100" example:"Number"`
	Parent      *string         `json:"parent,omitempty" binding:"omitempty,max=255"`
	Values      []string        `json:"values,omitempty"`
	Metadata    json.RawMessage `json:"metadata,omitempty" swaggertype:"object"`
	Status      string          `json:"status,omitempty" binding:"omitempty,oneof=Active Inactive"`
	IsRequired  bool            `json:"isRequired"`
}

// UpdateFieldRequest represents the request to patch a field.
// An empty parent moves the field to the top level.
type UpdateFieldRequest struct {
	Name        *string         `json:"name" binding:"omitempty,min=1,max=255"`
	Description *string         `json:"description" binding:"omitempty,max=1000"`
	Type        *string         `json:"type" binding:"omitempty,min=1,max=100"`
	Parent      *string         `json:"parent" binding:"omitempty,max=255"`
	Values      *[]string       `json:"values"`
	Metadata    json.RawMessage `json:"metadata,omitempty" swaggertype:"object"`
	Status      *string         `json:"status" binding:"omitempty,oneof=Active Inactive"`
	IsRequired  *bool           `json:"isRequired"`
}

// FieldListQuery represents the query parameters of the field listing
type FieldListQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=Active Inactive Archived"`
	Type   string `form:"type"`
	Parent string `form:"parent"`
	Search string `form:"search"`
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=200"`
}

// FieldListResponse represents one page of fields
type FieldListResponse struct {
	Fields []*FieldResponse `json:"fields"`
	Total  int64            `json:"total"`
	Page   int              `json:"page"`
	Limit  int              `json:"limit"`
}

// FieldHierarchyResponse groups non-archived fields by parent name; top-level fields are under "root"
type FieldHierarchyResponse map[string][]*FieldResponse
