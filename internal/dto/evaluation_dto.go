package dto

import (
	"time"

	"github.com/google/uuid"
)

// EvaluateRequest carries the current form values keyed by field name
type EvaluateRequest struct {
	ProjectID *uuid.UUID     `json:"projectId,omitempty"`
	Values    map[string]any `json:"values"`
}

// DerivedStateResponse is the per-field UI state after an evaluation pass
type DerivedStateResponse struct {
	Visible           bool `json:"visible"`
	Enabled           bool `json:"enabled"`
	Required          bool `json:"required"`
	RequiredEffective bool `json:"requiredEffective"`
	Value             any  `json:"value"`
	Cleared           bool `json:"cleared"`
}

// RuleWarningResponse describes a rule skipped during evaluation
type RuleWarningResponse struct {
	RuleID   uuid.UUID `json:"ruleId"`
	RuleName string    `json:"ruleName,omitempty"`
	Reason   string    `json:"reason"`
}

// EvaluateResponse is the outcome of an evaluation pass
type EvaluateResponse struct {
	States   map[string]*DerivedStateResponse `json:"states"`
	Warnings []RuleWarningResponse            `json:"warnings"`
}

// FieldIssue is one validation failure of a submitted record
type FieldIssue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidateRecordResponse reports whether a record passes rule-adjusted validation
type ValidateRecordResponse struct {
	Valid      bool                             `json:"valid"`
	Issues     []FieldIssue                     `json:"issues"`
	Submission map[string]any                   `json:"submission"`
	States     map[string]*DerivedStateResponse `json:"states"`
	Warnings   []RuleWarningResponse            `json:"warnings"`
}

// SchemaExportResponse describes an uploaded schema snapshot
type SchemaExportResponse struct {
	Key        string    `json:"key"`
	URL        string    `json:"url"`
	ExpiresAt  time.Time `json:"expiresAt"`
	FieldTypes int       `json:"fieldTypes"`
	Fields     int       `json:"fields"`
	Rules      int       `json:"rules"`
	ExportedAt time.Time `json:"exportedAt"`
}
