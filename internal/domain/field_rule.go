package domain

import (
	"github.com/google/uuid"
)

// RuleOperator is the comparison applied to a rule's condition field
type RuleOperator string

// RuleOperator constants
const (
	OpEqual       RuleOperator = "="
	OpNotEqual    RuleOperator = "!="
	OpGreater     RuleOperator = ">"
	OpLess        RuleOperator = "<"
	OpGreaterEq   RuleOperator = ">="
	OpLessEq      RuleOperator = "<="
	OpContains    RuleOperator = "contains"
	OpNotContains RuleOperator = "not_contains"
	OpIn          RuleOperator = "in"
	OpNotIn       RuleOperator = "not_in"
)

// IsValid reports whether the operator is known
func (o RuleOperator) IsValid() bool {
	switch o {
	case OpEqual, OpNotEqual, OpGreater, OpLess, OpGreaterEq, OpLessEq,
		OpContains, OpNotContains, OpIn, OpNotIn:
		return true
	default:
		return false
	}
}

// IsOrdering reports whether the operator compares by order
func (o RuleOperator) IsOrdering() bool {
	return o == OpGreater || o == OpLess || o == OpGreaterEq || o == OpLessEq
}

// IsSetMembership reports whether the operator splits its value into a set
func (o RuleOperator) IsSetMembership() bool {
	return o == OpIn || o == OpNotIn
}

// RuleAction is the effect applied to a rule's target field
type RuleAction string

// RuleAction constants
const (
	ActionClear    RuleAction = "Clear"
	ActionHide     RuleAction = "Hide"
	ActionDisable  RuleAction = "Disable"
	ActionEnable   RuleAction = "Enable"
	ActionModify   RuleAction = "Modify"
	ActionRequire  RuleAction = "Require"
	ActionOptional RuleAction = "Optional"
)

// IsValid reports whether the action is known
func (a RuleAction) IsValid() bool {
	switch a {
	case ActionClear, ActionHide, ActionDisable, ActionEnable, ActionModify, ActionRequire, ActionOptional:
		return true
	default:
		return false
	}
}

// AllowsSelfReference reports whether the condition and target may be the same field
func (a RuleAction) AllowsSelfReference() bool {
	return a == ActionClear || a == ActionModify
}

// Priority bounds
const (
	MinRulePriority = 0
	MaxRulePriority = 1000
)

// FieldRule is a declarative "IF condition THEN action" statement relating two fields
type FieldRule struct {
	BaseModel
	Name           string       `gorm:"type:varchar(255)" json:"name"`
	Description    string       `gorm:"type:text" json:"description"`
	ConditionField string       `gorm:"type:varchar(255);not null;index:idx_field_rules_condition_field" json:"conditionField"`
	Operator       RuleOperator `gorm:"type:varchar(20);not null" json:"operator"`
	Value          string       `gorm:"type:text;not null" json:"value"`
	Action         RuleAction   `gorm:"type:varchar(20);not null" json:"action"`
	TargetField    string       `gorm:"type:varchar(255);not null;index:idx_field_rules_target_field" json:"targetField"`
	ActionValue    *string      `gorm:"type:text" json:"actionValue"`
	Priority       int          `gorm:"not null;index:idx_field_rules_priority" json:"priority"`
	IsActive       bool         `gorm:"not null;index:idx_field_rules_is_active" json:"isActive"`
	ProjectID      *uuid.UUID   `gorm:"type:uuid;index:idx_field_rules_project_id" json:"projectId"`
}

// TableName specifies the table name for FieldRule
func (FieldRule) TableName() string {
	return "field_rules"
}

// References reports whether the rule points at the named field
func (r *FieldRule) References(name string) bool {
	return r.ConditionField == name || r.TargetField == name
}
