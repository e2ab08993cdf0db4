package rules

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"project-field-api/internal/domain"
)

// CheckOperator verifies that op is defined for kind and that ruleValue has the shape op needs.
// The Rule Store calls it before persisting; the engine calls it again before comparing.
func CheckOperator(kind domain.FieldKind, op domain.RuleOperator, ruleValue string) error {
	if !op.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownOperator, op)
	}
	if !kind.IsValid() {
		return fmt.Errorf("%w: unknown kind %q", ErrIncompatibleOperator, kind)
	}

	switch {
	case op.IsOrdering():
		if !kind.IsOrdered() {
			return fmt.Errorf("%w: %s on %s", ErrIncompatibleOperator, op, kind)
		}
		if IsEmpty(ruleValue) {
			return fmt.Errorf("%w: %s needs a value", ErrMalformedRuleValue, op)
		}
		if _, err := Coerce(ruleValue, kind); err != nil {
			return fmt.Errorf("%w: %q is not a %s", ErrMalformedRuleValue, ruleValue, kind)
		}
	case op == domain.OpContains || op == domain.OpNotContains:
		if !supportsContains(kind) {
			return fmt.Errorf("%w: %s on %s", ErrIncompatibleOperator, op, kind)
		}
		if IsEmpty(ruleValue) {
			return fmt.Errorf("%w: %s needs a non-empty value", ErrMalformedRuleValue, op)
		}
	case op.IsSetMembership():
		items := SplitList(ruleValue)
		if len(items) == 0 {
			return fmt.Errorf("%w: %s needs at least one comma separated item", ErrMalformedRuleValue, op)
		}
		for _, item := range items {
			if _, err := Coerce(item, kind); err != nil {
				return fmt.Errorf("%w: item %q is not a %s", ErrMalformedRuleValue, item, kind)
			}
		}
	default:
		// an empty value means "is empty"
		if _, err := Coerce(ruleValue, kind); err != nil {
			return fmt.Errorf("%w: %q is not a %s", ErrMalformedRuleValue, ruleValue, kind)
		}
	}
	return nil
}

func supportsContains(kind domain.FieldKind) bool {
	switch kind {
	case domain.KindText, domain.KindSelect, domain.KindMultiSelect, domain.KindEmail, domain.KindURL:
		return true
	default:
		return false
	}
}

// Matches evaluates "raw op ruleValue" for a condition field of the given kind.
// An error means the rule itself is unusable; a raw value that cannot be read
// as kind simply does not satisfy the condition.
func Matches(kind domain.FieldKind, op domain.RuleOperator, raw any, ruleValue string) (bool, error) {
	if err := CheckOperator(kind, op, ruleValue); err != nil {
		return false, err
	}

	actual, err := Coerce(raw, kind)
	if err != nil {
		return false, nil
	}
	if actual == nil {
		return matchMissing(op, ruleValue)
	}

	switch op {
	case domain.OpEqual:
		return equalValues(actual, mustCoerce(ruleValue, kind)), nil
	case domain.OpNotEqual:
		return !equalValues(actual, mustCoerce(ruleValue, kind)), nil
	case domain.OpGreater, domain.OpLess, domain.OpGreaterEq, domain.OpLessEq:
		return compareOrdered(op, actual, mustCoerce(ruleValue, kind))
	case domain.OpContains:
		return containsValue(actual, ruleValue), nil
	case domain.OpNotContains:
		return !containsValue(actual, ruleValue), nil
	case domain.OpIn:
		return inList(kind, actual, ruleValue), nil
	case domain.OpNotIn:
		return !inList(kind, actual, ruleValue), nil
	}
	return false, fmt.Errorf("%w: %q", ErrUnknownOperator, op)
}

func matchMissing(op domain.RuleOperator, ruleValue string) (bool, error) {
	switch op {
	case domain.OpEqual:
		return IsEmpty(ruleValue), nil
	case domain.OpNotEqual:
		return !IsEmpty(ruleValue), nil
	case domain.OpNotContains, domain.OpNotIn:
		return true, nil
	default:
		// contains, in and every ordering operator: a blank value satisfies none of them
		return false, nil
	}
}

// mustCoerce is only used after CheckOperator accepted the value
func mustCoerce(value string, kind domain.FieldKind) any {
	v, _ := Coerce(value, kind)
	return v
}

func equalValues(a, b any) bool {
	switch x := a.(type) {
	case float64:
		y, ok := b.(float64)
		return ok && x == y
	case time.Time:
		y, ok := b.(time.Time)
		return ok && x.Equal(y)
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	case []string:
		y, ok := b.([]string)
		return ok && slices.Equal(x, y)
	case string:
		y, ok := b.(string)
		return ok && x == y
	}
	return false
}

func compareOrdered(op domain.RuleOperator, actual, target any) (bool, error) {
	var c int
	switch x := actual.(type) {
	case float64:
		y, ok := target.(float64)
		if !ok {
			return false, ErrMalformedRuleValue
		}
		switch {
		case x < y:
			c = -1
		case x > y:
			c = 1
		}
	case time.Time:
		y, ok := target.(time.Time)
		if !ok {
			return false, ErrMalformedRuleValue
		}
		c = x.Compare(y)
	default:
		return false, ErrIncompatibleOperator
	}

	switch op {
	case domain.OpGreater:
		return c > 0, nil
	case domain.OpLess:
		return c < 0, nil
	case domain.OpGreaterEq:
		return c >= 0, nil
	default:
		return c <= 0, nil
	}
}

// containsValue is membership for option sets and a case-sensitive substring test for text
func containsValue(actual any, ruleValue string) bool {
	needle := strings.TrimSpace(ruleValue)
	switch x := actual.(type) {
	case []string:
		return slices.Contains(x, needle)
	case string:
		return strings.Contains(x, needle)
	}
	return false
}

// inList tests the actual value against the comma separated items.
// For multi-select any overlap counts.
func inList(kind domain.FieldKind, actual any, ruleValue string) bool {
	items := SplitList(ruleValue)
	if set, ok := actual.([]string); ok {
		for _, item := range items {
			if slices.Contains(set, item) {
				return true
			}
		}
		return false
	}
	for _, item := range items {
		if equalValues(actual, mustCoerce(item, kind)) {
			return true
		}
	}
	return false
}
