package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"project-field-api/internal/domain"
)

// FieldSpec is the slice of a Field the engine needs
type FieldSpec struct {
	Name     string           `json:"name"`
	Kind     domain.FieldKind `json:"kind"`
	Required bool             `json:"required"`
}

// Schema indexes field specs by field name
type Schema map[string]FieldSpec

// Values maps field names to the current form values
type Values map[string]any

// NewSchema builds a schema from fields and the type catalogue.
// A field whose type cannot be resolved is treated as text.
func NewSchema(fields []*domain.Field, types []*domain.FieldType) Schema {
	kinds := make(map[string]domain.FieldKind, len(types))
	for _, t := range types {
		kinds[strings.ToLower(t.Name)] = t.Kind()
	}

	schema := make(Schema, len(fields))
	for _, f := range fields {
		kind, ok := kinds[strings.ToLower(f.Type)]
		if !ok {
			kind = domain.KindText
		}
		schema[f.Name] = FieldSpec{Name: f.Name, Kind: kind, Required: f.IsRequired}
	}
	return schema
}

// DerivedState is the UI/validation state of one field after an evaluation pass
type DerivedState struct {
	Visible  bool `json:"visible"`
	Enabled  bool `json:"enabled"`
	Required bool `json:"required"`
	Value    any  `json:"value"`
	// Cleared fields must not be submitted
	Cleared bool `json:"cleared"`
}

// RequiredEffective is the required flag downstream validation enforces; hidden fields are never required
func (s DerivedState) RequiredEffective() bool {
	return s.Visible && s.Required
}

// Warning records a rule skipped during evaluation
type Warning struct {
	RuleID   uuid.UUID `json:"ruleId"`
	RuleName string    `json:"ruleName,omitempty"`
	Reason   string    `json:"reason"`
}

// Result is the outcome of one evaluation pass
type Result struct {
	States   map[string]*DerivedState `json:"states"`
	Warnings []Warning                `json:"warnings"`
}

// SortRules orders rules the way they must be applied: priority desc, createdAt asc, id asc
func SortRules(rules []*domain.FieldRule) {
	sort.SliceStable(rules, func(i, j int) bool {
		a, b := rules[i], rules[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID.String() < b.ID.String()
	})
}

// Evaluate applies rules to values in one deterministic pass.
//
// Every schema field starts visible, enabled, with its declared required flag and
// its submitted value. Rules run in SortRules order against the live working copy,
// so a value changed by an earlier rule is what later conditions see. A satisfied
// rule overwrites the target attribute; an unsatisfied rule changes nothing.
// Rules that cannot be applied are skipped and reported in Result.Warnings.
// Inactive rules are ignored. Neither rules nor values are modified.
func Evaluate(schema Schema, rules []*domain.FieldRule, values Values) Result {
	states := make(map[string]*DerivedState, len(schema))
	for name, spec := range schema {
		states[name] = &DerivedState{
			Visible:  true,
			Enabled:  true,
			Required: spec.Required,
			Value:    values[name],
		}
	}

	ordered := make([]*domain.FieldRule, 0, len(rules))
	for _, r := range rules {
		if r != nil && r.IsActive {
			ordered = append(ordered, r)
		}
	}
	SortRules(ordered)

	result := Result{States: states, Warnings: []Warning{}}
	skip := func(r *domain.FieldRule, format string, args ...any) {
		result.Warnings = append(result.Warnings, Warning{
			RuleID:   r.ID,
			RuleName: r.Name,
			Reason:   fmt.Sprintf(format, args...),
		})
	}

	for _, r := range ordered {
		cond, ok := schema[r.ConditionField]
		if !ok {
			skip(r, "condition field %q is not in the field set", r.ConditionField)
			continue
		}
		target, ok := states[r.TargetField]
		if !ok {
			skip(r, "target field %q is not in the field set", r.TargetField)
			continue
		}
		if !r.Action.IsValid() {
			skip(r, "unknown action %q", r.Action)
			continue
		}
		if r.Action == domain.ActionModify && r.ActionValue == nil {
			skip(r, "Modify rule has no action value")
			continue
		}

		held, err := Matches(cond.Kind, r.Operator, states[r.ConditionField].Value, r.Value)
		if err != nil {
			skip(r, "%v", err)
			continue
		}
		if held {
			apply(target, r)
		}
	}

	return result
}

func apply(state *DerivedState, r *domain.FieldRule) {
	switch r.Action {
	case domain.ActionHide:
		state.Visible = false
	case domain.ActionDisable:
		state.Enabled = false
	case domain.ActionEnable:
		state.Enabled = true
	case domain.ActionRequire:
		state.Required = true
	case domain.ActionOptional:
		state.Required = false
	case domain.ActionClear:
		state.Value = nil
		state.Cleared = true
	case domain.ActionModify:
		state.Value = *r.ActionValue
		state.Cleared = false
	}
}
