package service

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"project-field-api/internal/domain"
	"project-field-api/internal/rules"
)

// valueValidate checks single dynamic values; it is safe for concurrent use
var valueValidate = validator.New()

// ValidateValue checks one field value against its type's validation contract.
// Empty values always pass; required-ness is enforced by the caller.
func ValidateValue(spec domain.ValidationSpec, options []string, value any) error {
	if rules.IsEmpty(value) {
		return nil
	}

	coerced, err := rules.Coerce(value, spec.Kind)
	if err != nil {
		return fmt.Errorf("value is not a valid %s", spec.Kind)
	}

	switch spec.Kind {
	case domain.KindNumber, domain.KindCurrency, domain.KindPercentage:
		n := coerced.(float64)
		if spec.Min != nil && n < *spec.Min {
			return fmt.Errorf("value must be at least %g", *spec.Min)
		}
		if spec.Max != nil && n > *spec.Max {
			return fmt.Errorf("value must be at most %g", *spec.Max)
		}

	case domain.KindDate:
		d := coerced.(time.Time)
		if spec.MinDate != "" {
			if min, err := time.Parse(domain.DateLayout, spec.MinDate); err == nil && d.Before(min) {
				return fmt.Errorf("date must not be before %s", spec.MinDate)
			}
		}
		if spec.MaxDate != "" {
			if max, err := time.Parse(domain.DateLayout, spec.MaxDate); err == nil && d.After(max) {
				return fmt.Errorf("date must not be after %s", spec.MaxDate)
			}
		}

	case domain.KindText:
		s := coerced.(string)
		// min/max on strings count runes
		if spec.MinLength != nil && valueValidate.Var(s, fmt.Sprintf("min=%d", *spec.MinLength)) != nil {
			return fmt.Errorf("value must be at least %d characters", *spec.MinLength)
		}
		if spec.MaxLength != nil && valueValidate.Var(s, fmt.Sprintf("max=%d", *spec.MaxLength)) != nil {
			return fmt.Errorf("value must be at most %d characters", *spec.MaxLength)
		}
		if spec.Pattern != "" {
			re, err := regexp.Compile(spec.Pattern)
			if err != nil {
				return fmt.Errorf("type pattern does not compile: %w", err)
			}
			if !re.MatchString(s) {
				return fmt.Errorf("value does not match pattern %s", spec.Pattern)
			}
		}

	case domain.KindSelect:
		if s := coerced.(string); !containsOption(options, s) {
			return fmt.Errorf("'%s' is not one of the permitted values", s)
		}

	case domain.KindMultiSelect:
		for _, item := range coerced.([]string) {
			if !containsOption(options, item) {
				return fmt.Errorf("'%s' is not one of the permitted values", item)
			}
		}

	case domain.KindEmail:
		s := coerced.(string)
		if err := valueValidate.Var(s, "email"); err != nil {
			return fmt.Errorf("'%s' is not a valid email address", s)
		}

	case domain.KindURL:
		s := coerced.(string)
		if err := valueValidate.Var(s, "http_url"); err != nil {
			return fmt.Errorf("'%s' is not a valid http(s) URL", s)
		}
	}

	return nil
}

// containsOption reports membership; fields without declared options accept any value
func containsOption(options []string, value string) bool {
	if len(options) == 0 {
		return true
	}
	for _, o := range options {
		if o == strings.TrimSpace(value) {
			return true
		}
	}
	return false
}
