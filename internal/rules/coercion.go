package rules

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"project-field-api/internal/domain"
)

// Coerce converts a raw form value into the comparable representation of kind:
// float64 for numeric kinds, time.Time for dates, bool for booleans,
// a sorted []string set for multi-select and a trimmed string otherwise.
// Empty values (nil, blank strings, empty lists) return nil with no error.
func Coerce(value any, kind domain.FieldKind) (any, error) {
	if IsEmpty(value) {
		return nil, nil
	}

	switch {
	case kind.IsNumeric():
		return coerceNumber(value, kind)
	case kind == domain.KindDate:
		return coerceDate(value)
	case kind == domain.KindBoolean:
		return coerceBoolean(value)
	case kind == domain.KindMultiSelect:
		return coerceSet(value), nil
	default:
		return strings.TrimSpace(toText(value)), nil
	}
}

// IsEmpty reports whether a form value carries no data
func IsEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []any:
		return len(v) == 0
	case []string:
		return len(v) == 0
	default:
		return false
	}
}

func coerceNumber(value any, kind domain.FieldKind) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		s := strings.TrimSpace(v)
		switch kind {
		case domain.KindPercentage:
			s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
		case domain.KindCurrency:
			return parseCurrency(s)
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, ErrCoercionFailed
		}
		return f, nil
	default:
		// booleans and structured values are not numbers
		return 0, ErrCoercionFailed
	}
}

// parseCurrency reads amounts such as "$1,200", "-$5", "$-5.50" and "($1,200)"
func parseCurrency(s string) (float64, error) {
	s = strings.ReplaceAll(s, ",", "")
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	sign := ""
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		sign, s = s[:1], s[1:]
	}
	s = sign + strings.TrimPrefix(strings.TrimSpace(s), "$")

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrCoercionFailed
	}
	if negative {
		f = -f
	}
	return f, nil
}

// ParseDate accepts a calendar date or an RFC3339 timestamp and truncates to the day in UTC
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(domain.DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, ErrCoercionFailed
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

func coerceDate(value any) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		u := v.UTC()
		return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC), nil
	case string:
		return ParseDate(v)
	default:
		return time.Time{}, ErrCoercionFailed
	}
}

func coerceBoolean(value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, ErrCoercionFailed
		}
		return b, nil
	default:
		return false, ErrCoercionFailed
	}
}

// coerceSet builds a sorted, de-duplicated option set from a list or a comma separated string
func coerceSet(value any) []string {
	var items []string
	switch v := value.(type) {
	case []string:
		items = v
	case []any:
		items = make([]string, 0, len(v))
		for _, item := range v {
			items = append(items, toText(item))
		}
	default:
		items = SplitList(toText(v))
	}

	seen := make(map[string]struct{}, len(items))
	set := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		set = append(set, item)
	}
	sort.Strings(set)
	return set
}

// SplitList splits a comma separated rule value into trimmed, non-empty items
func SplitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func toText(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
