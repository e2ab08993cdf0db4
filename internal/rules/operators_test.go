package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"project-field-api/internal/domain"
)

func jsonSpec(kind domain.FieldKind) datatypes.JSONType[domain.ValidationSpec] {
	return datatypes.NewJSONType(domain.ValidationSpec{Kind: kind})
}

func TestMatches(t *testing.T) {
	tests := []struct {
		name  string
		kind  domain.FieldKind
		op    domain.RuleOperator
		raw   any
		value string
		want  bool
	}{
		{"number equality is numeric", domain.KindNumber, domain.OpEqual, "25.0", "25", true},
		{"number inequality", domain.KindNumber, domain.OpNotEqual, 25.0, "26", true},
		{"number greater", domain.KindNumber, domain.OpGreater, 25, "20", true},
		{"number greater equal boundary", domain.KindNumber, domain.OpGreaterEq, 20.0, "20", true},
		{"number less", domain.KindNumber, domain.OpLess, "19.5", "20", true},
		{"number less equal false", domain.KindNumber, domain.OpLessEq, 21.0, "20", false},
		{"unreadable number never matches", domain.KindNumber, domain.OpNotEqual, "abc", "5", false},
		{"percentage strips suffix", domain.KindPercentage, domain.OpGreater, "80%", "75", true},
		{"currency strips symbol and separators", domain.KindCurrency, domain.OpGreaterEq, "$1,200", "1200", true},
		{"date before", domain.KindDate, domain.OpLess, "2024-01-15", "2024-02-01", true},
		{"date accepts timestamps", domain.KindDate, domain.OpEqual, "2024-01-15T22:00:00Z", "2024-01-15", true},
		{"boolean equality", domain.KindBoolean, domain.OpEqual, true, "true", true},
		{"boolean from string", domain.KindBoolean, domain.OpNotEqual, "false", "true", true},
		{"text equality is case sensitive", domain.KindText, domain.OpEqual, "Solar", "solar", false},
		{"text equality trims", domain.KindSelect, domain.OpEqual, " Wind ", "Wind", true},
		{"text contains", domain.KindText, domain.OpContains, "Hybrid Solar+Storage", "Storage", true},
		{"text not contains", domain.KindText, domain.OpNotContains, "Wind", "Solar", true},
		{"select in", domain.KindSelect, domain.OpIn, "Wind", "Solar, Wind ,Hydro", true},
		{"select not in", domain.KindSelect, domain.OpNotIn, "Geothermal", "Solar,Wind", true},
		{"number in compares numerically", domain.KindNumber, domain.OpIn, 5.0, "1, 5.00, 9", true},
		{"multi select contains member", domain.KindMultiSelect, domain.OpContains, []any{"PV", "BESS"}, "BESS", true},
		{"multi select contains is not substring", domain.KindMultiSelect, domain.OpContains, []any{"BESS"}, "BES", false},
		{"multi select equality is set equality", domain.KindMultiSelect, domain.OpEqual, "BESS, PV, PV", "PV,BESS", true},
		{"multi select in overlaps", domain.KindMultiSelect, domain.OpIn, []string{"PV", "Wind"}, "Wind,Hydro", true},
		{"multi select not in without overlap", domain.KindMultiSelect, domain.OpNotIn, []string{"PV"}, "Wind,Hydro", true},
		{"empty equals empty", domain.KindText, domain.OpEqual, "   ", "", true},
		{"empty not equal to value", domain.KindNumber, domain.OpNotEqual, nil, "5", true},
		{"empty value never contains", domain.KindText, domain.OpContains, nil, "a", false},
		{"empty value is not in list", domain.KindSelect, domain.OpIn, nil, "a,b", false},
		{"empty value satisfies not in", domain.KindSelect, domain.OpNotIn, "", "a,b", true},
		{"value does not equal empty", domain.KindText, domain.OpEqual, "x", "", false},
		{"blank value is not greater", domain.KindNumber, domain.OpGreater, nil, "1", false},
		{"blank value is not less", domain.KindCurrency, domain.OpLess, "", "100", false},
		{"blank date is not on or before", domain.KindDate, domain.OpLessEq, "  ", "2030-01-01", false},
		{"currency negative amount", domain.KindCurrency, domain.OpGreater, "-$5", "-10", true},
		{"currency negative amount below", domain.KindCurrency, domain.OpLess, "-$5", "-$1", true},
		{"currency signed after symbol", domain.KindCurrency, domain.OpEqual, "$-5.50", "-5.5", true},
		{"currency parenthesised negative", domain.KindCurrency, domain.OpLess, "($1,200)", "0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Matches(tt.kind, tt.op, tt.raw, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatches_Errors(t *testing.T) {
	tests := []struct {
		name  string
		kind  domain.FieldKind
		op    domain.RuleOperator
		raw   any
		value string
		want  error
	}{
		{"ordering on text", domain.KindText, domain.OpGreater, "b", "a", ErrIncompatibleOperator},
		{"ordering on boolean", domain.KindBoolean, domain.OpLess, true, "false", ErrIncompatibleOperator},
		{"contains on number", domain.KindNumber, domain.OpContains, 5, "5", ErrIncompatibleOperator},
		{"malformed number", domain.KindNumber, domain.OpGreater, 5, "five", ErrMalformedRuleValue},
		{"malformed date", domain.KindDate, domain.OpLess, "2024-01-01", "01/02/2024", ErrMalformedRuleValue},
		{"malformed boolean equality", domain.KindBoolean, domain.OpEqual, true, "yes please", ErrMalformedRuleValue},
		{"empty in list", domain.KindSelect, domain.OpIn, "a", " , ,", ErrMalformedRuleValue},
		{"empty contains", domain.KindText, domain.OpContains, "a", " ", ErrMalformedRuleValue},
		{"in item not a number", domain.KindNumber, domain.OpIn, 1, "1,two", ErrMalformedRuleValue},
		{"unknown operator", domain.KindText, domain.RuleOperator("like"), "a", "a", ErrUnknownOperator},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Matches(tt.kind, tt.op, tt.raw, tt.value)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCheckOperator_AcceptsEmptyEqualityValue(t *testing.T) {
	for _, kind := range []domain.FieldKind{domain.KindNumber, domain.KindDate, domain.KindBoolean, domain.KindText} {
		assert.NoError(t, CheckOperator(kind, domain.OpEqual, ""), kind)
	}
}
