package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// FieldKind is the primitive kind a FieldType validates against
type FieldKind string

// FieldKind constants
const (
	KindText        FieldKind = "text"
	KindNumber      FieldKind = "number"
	KindDate        FieldKind = "date"
	KindBoolean     FieldKind = "boolean"
	KindSelect      FieldKind = "select"
	KindMultiSelect FieldKind = "multi_select"
	KindCurrency    FieldKind = "currency"
	KindPercentage  FieldKind = "percentage"
	KindEmail       FieldKind = "email"
	KindURL         FieldKind = "url"
)

// DateLayout is the calendar date format accepted by date kinds
const DateLayout = "2006-01-02"

// IsValid reports whether the kind is one of the known kinds
func (k FieldKind) IsValid() bool {
	switch k {
	case KindText, KindNumber, KindDate, KindBoolean, KindSelect, KindMultiSelect,
		KindCurrency, KindPercentage, KindEmail, KindURL:
		return true
	default:
		return false
	}
}

// IsNumeric reports whether values of this kind compare as numbers
func (k FieldKind) IsNumeric() bool {
	return k == KindNumber || k == KindCurrency || k == KindPercentage
}

// IsOrdered reports whether >, <, >= and <= are meaningful for this kind
func (k FieldKind) IsOrdered() bool {
	return k.IsNumeric() || k == KindDate
}

// HasOptions reports whether fields of this kind carry a list of permissible values
func (k FieldKind) HasOptions() bool {
	return k == KindSelect || k == KindMultiSelect
}

// ValidationSpec is the validation contract of a FieldType, discriminated by Kind.
// Only the parameters that belong to Kind may be set.
type ValidationSpec struct {
	Kind      FieldKind `json:"kind"`
	Min       *float64  `json:"min,omitempty"`
	Max       *float64  `json:"max,omitempty"`
	MinLength *int      `json:"minLength,omitempty"`
	MaxLength *int      `json:"maxLength,omitempty"`
	Pattern   string    `json:"pattern,omitempty"`
	MinDate   string    `json:"minDate,omitempty"`
	MaxDate   string    `json:"maxDate,omitempty"`
	Required  bool      `json:"required,omitempty"`
}

// Validate checks that only parameters understood by the kind are set
// and that those parameters are internally consistent.
func (s ValidationSpec) Validate() error {
	if !s.Kind.IsValid() {
		return fmt.Errorf("unknown kind %q", s.Kind)
	}

	var errs []error
	if (s.Min != nil || s.Max != nil) && !s.Kind.IsNumeric() {
		errs = append(errs, fmt.Errorf("min/max are only valid for numeric kinds"))
	}
	if s.Min != nil && s.Max != nil && *s.Min > *s.Max {
		errs = append(errs, fmt.Errorf("min must not exceed max"))
	}
	if (s.MinLength != nil || s.MaxLength != nil || s.Pattern != "") && s.Kind != KindText {
		errs = append(errs, fmt.Errorf("minLength/maxLength/pattern are only valid for text"))
	}
	if s.MinLength != nil && *s.MinLength < 0 {
		errs = append(errs, fmt.Errorf("minLength must not be negative"))
	}
	if s.MaxLength != nil && *s.MaxLength < 0 {
		errs = append(errs, fmt.Errorf("maxLength must not be negative"))
	}
	if s.MinLength != nil && s.MaxLength != nil && *s.MinLength > *s.MaxLength {
		errs = append(errs, fmt.Errorf("minLength must not exceed maxLength"))
	}
	if s.Pattern != "" {
		if _, err := regexp.Compile(s.Pattern); err != nil {
			errs = append(errs, fmt.Errorf("pattern does not compile: %w", err))
		}
	}
	if (s.MinDate != "" || s.MaxDate != "") && s.Kind != KindDate {
		errs = append(errs, fmt.Errorf("minDate/maxDate are only valid for date"))
	}
	for _, d := range []string{s.MinDate, s.MaxDate} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(DateLayout, d); err != nil {
			errs = append(errs, fmt.Errorf("date bound %q is not YYYY-MM-DD", d))
		}
	}
	if s.Required && !s.Kind.HasOptions() {
		errs = append(errs, fmt.Errorf("required is only valid for select kinds"))
	}

	return errors.Join(errs...)
}

// FieldType is a catalogue entry describing a field kind and its validation contract
type FieldType struct {
	BaseModel
	Name           string                              `gorm:"type:varchar(100);not null;uniqueIndex:uq_field_types_name" json:"name"`
	Description    string                              `gorm:"type:text" json:"description"`
	Icon           string                              `gorm:"type:varchar(100)" json:"icon"`
	ValidationSpec datatypes.JSONType[ValidationSpec] `json:"validationSpec"`
	IsSystem       bool                                `gorm:"not null;default:false;index:idx_field_types_is_system" json:"isSystem"`
}

// TableName specifies the table name for FieldType
func (FieldType) TableName() string {
	return "field_types"
}

// Spec returns the decoded validation contract
func (t *FieldType) Spec() ValidationSpec {
	return t.ValidationSpec.Data()
}

// Kind returns the primitive kind of this type
func (t *FieldType) Kind() FieldKind {
	return t.ValidationSpec.Data().Kind
}

// SameName compares type names the way the registry enforces uniqueness
func SameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
