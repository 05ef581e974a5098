package query

import (
	"fmt"
	"strings"
)

// ParseFilter parses one PostgREST-style filter such as "name=eq.alice",
// "age=gt.3", "status=in.(a,b)" or "deleted_at=is.null". A value without a
// known operator prefix is an equality test.
func ParseFilter(filter string) (Condition, error) {
	field, value, ok := strings.Cut(filter, "=")
	if !ok || field == "" {
		return Condition{}, fmt.Errorf("invalid filter %q: want field=op.value", filter)
	}
	cond := parseCondition(strings.TrimSpace(field), value)
	if err := cond.Validate(); err != nil {
		return Condition{}, err
	}
	return cond, nil
}

// ParseFilters parses every filter, stopping at the first invalid one.
func ParseFilters(filters []string) ([]Condition, error) {
	conds := make([]Condition, 0, len(filters))
	for _, f := range filters {
		c, err := ParseFilter(f)
		if err != nil {
			return nil, err
		}
		conds = append(conds, c)
	}
	return conds, nil
}

func parseCondition(field, value string) Condition {
	switch value {
	case "is.null":
		return Condition{Field: field, Operator: OpNull}
	case "not.is.null":
		return Condition{Field: field, Operator: OpNotNull}
	}

	prefix, raw, ok := strings.Cut(value, ".")
	op := Operator(prefix)
	if !ok || !op.IsValid() {
		return Condition{Field: field, Operator: OpEq, Value: value}
	}
	if strings.HasPrefix(raw, "(") && strings.HasSuffix(raw, ")") {
		return Condition{Field: field, Operator: op, Value: parseArrayValues(raw[1 : len(raw)-1])}
	}
	return Condition{Field: field, Operator: op, Value: unescapeValue(raw)}
}

func parseArrayValues(inner string) []string {
	values := []string{}
	var current strings.Builder
	escaped := false
	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			values = append(values, s)
		}
		current.Reset()
	}
	for _, ch := range inner {
		switch {
		case escaped:
			current.WriteRune(ch)
			escaped = false
		case ch == '\\':
			escaped = true
		case ch == ',':
			flush()
		default:
			current.WriteRune(ch)
		}
	}
	flush()
	return values
}

func unescapeValue(s string) string {
	var result strings.Builder
	escaped := false
	for _, ch := range s {
		if !escaped && ch == '\\' {
			escaped = true
			continue
		}
		escaped = false
		result.WriteRune(ch)
	}
	return result.String()
}
