package dto

import (
	"time"

	"github.com/google/uuid"
)

// FieldRuleResponse represents the field rule response
type FieldRuleResponse struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	ConditionField string     `json:"conditionField"`
	Operator       string     `json:"operator"`
	Value          string     `json:"value"`
	Action         string     `json:"action"`
	TargetField    string     `json:"targetField"`
	ActionValue    *string    `json:"actionValue"`
	Priority       int        `json:"priority"`
	IsActive       bool       `json:"isActive"`
	ProjectID      *uuid.UUID `json:"projectId"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// CreateFieldRuleRequest represents the request to create a field rule
type CreateFieldRuleRequest struct {
	Name           string     `json:"name" binding:"max=255"`
	Description    string     `json:"description" binding:"max=1000"`
	ConditionField string     `json:"conditionField" binding:"required,max=255" example:"Technology Type"`
	Operator       string     `json:"operator" binding:"required,oneof== != > < >= <= contains not_contains in not_in" example:"="`
	Value          string     `json:"value" binding:"max=1000" example:"Hybrid Solar+Storage"`
	Action         string     `json:"action" binding:"required,oneof=Clear Hide Disable Enable Modify Require Optional" example:"Enable"`
	TargetField    string     `json:"targetField" binding:"required,max=255" example:"Energy Storage Capacity (MWh)"`
	ActionValue    *string    `json:"actionValue,omitempty" binding:"omitempty,max=1000"`
	Priority       *int       `json:"priority,omitempty" binding:"omitempty,min=0,max=1000"`
	IsActive       *bool      `json:"isActive,omitempty"`
	ProjectID      *uuid.UUID `json:"projectId,omitempty"`
}

// UpdateFieldRuleRequest represents the request to patch a field rule
type UpdateFieldRuleRequest struct {
	Name           *string    `json:"name" binding:"omitempty,max=255"`
	Description    *string    `json:"description" binding:"omitempty,max=1000"`
	ConditionField *string    `json:"conditionField" binding:"omitempty,min=1,max=255"`
	Operator       *string    `json:"operator" binding:"omitempty,oneof== != > < >= <= contains not_contains in not_in"`
	Value          *string    `json:"value" binding:"omitempty,max=1000"`
	Action         *string    `json:"action" binding:"omitempty,oneof=Clear Hide Disable Enable Modify Require Optional"`
	TargetField    *string    `json:"targetField" binding:"omitempty,min=1,max=255"`
	ActionValue    *string    `json:"actionValue" binding:"omitempty,max=1000"`
	Priority       *int       `json:"priority" binding:"omitempty,min=0,max=1000"`
	IsActive       *bool      `json:"isActive"`
	ProjectID      *uuid.UUID `json:"projectId"`
	// ClearProjectID makes a project-scoped rule global again
	ClearProjectID bool       `json:"clearProjectId"`
}

// FieldRuleListQuery represents the query parameters of the rule listing
type FieldRuleListQuery struct {
	ProjectID       string `form:"projectId" binding:"omitempty,uuid"`
	IncludeInactive bool   `form:"includeInactive"`
}
