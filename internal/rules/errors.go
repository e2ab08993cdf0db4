package rules

import "errors"

var (
	// ErrCoercionFailed means a value could not be read as the field's kind
	ErrCoercionFailed = errors.New("value cannot be coerced to field kind")
	// ErrIncompatibleOperator means the operator is not defined for the field's kind
	ErrIncompatibleOperator = errors.New("operator not supported for field kind")
	// ErrMalformedRuleValue means the rule's comparison value does not fit the operator or kind
	ErrMalformedRuleValue = errors.New("rule value malformed for operator")
	// ErrUnknownOperator means the operator is outside the closed operator set
	ErrUnknownOperator = errors.New("unknown operator")
)
