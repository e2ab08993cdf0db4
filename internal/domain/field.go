package domain

import (
	"gorm.io/datatypes"
)

// FieldStatus represents the lifecycle status of a Field
type FieldStatus string

// FieldStatus constants
const (
	FieldStatusActive   FieldStatus = "Active"
	FieldStatusInactive FieldStatus = "Inactive"
	FieldStatusArchived FieldStatus = "Archived"
)

// IsValid reports whether the status is a known lifecycle status
func (s FieldStatus) IsValid() bool {
	return s == FieldStatusActive || s == FieldStatusInactive || s == FieldStatusArchived
}

// HierarchyRoot groups top-level fields in hierarchy views
const HierarchyRoot = "root"

// Field is a user-definable data attribute.
// Name is the stable key that Field.Parent and FieldRule references point at.
type Field struct {
	BaseModel
	Name        string                      `gorm:"type:varchar(255);not null;uniqueIndex:uq_fields_name" json:"name"`
	Description string                      `gorm:"type:text" json:"description"`
	Type        string                      `gorm:"type:varchar(100);not null;index:idx_fields_type" json:"type"`
	Parent      *string                     `gorm:"type:varchar(255);index:idx_fields_parent" json:"parent"`
	Values      datatypes.JSONSlice[string] `json:"values"`
	Metadata    datatypes.JSON              `json:"metadata,omitempty"`
	Status      FieldStatus                 `gorm:"type:varchar(20);not null;index:idx_fields_status" json:"status"`
	IsRequired  bool                        `gorm:"not null;default:false" json:"isRequired"`
	IsSystem    bool                        `gorm:"not null;default:false" json:"isSystem"`
}

// TableName specifies the table name for Field
func (Field) TableName() string {
	return "fields"
}

// IsArchived reports whether the field has been soft deleted
func (f *Field) IsArchived() bool {
	return f.Status == FieldStatusArchived
}

// ParentName returns the parent name or an empty string for top-level fields
func (f *Field) ParentName() string {
	if f.Parent == nil {
		return ""
	}
	return *f.Parent
}
