// Package query provides typed filter conditions and pagination for GORM.
package query

import (
	"fmt"
	"reflect"
	"regexp"
)

// Operator represents a filter operator in PostgREST notation.
type Operator string

const (
	OpEq      Operator = "eq"
	OpNeq     Operator = "neq"
	OpGt      Operator = "gt"
	OpGte     Operator = "gte"
	OpLt      Operator = "lt"
	OpLte     Operator = "lte"
	OpIn      Operator = "in"
	OpNin     Operator = "nin"
	OpLike    Operator = "like"
	OpIlike   Operator = "ilike"
	OpNull    Operator = "null"
	OpNotNull Operator = "notNull"
)

// AllOperators returns all valid operators.
func AllOperators() []Operator {
	return []Operator{OpEq, OpNeq, OpGt, OpGte, OpLt, OpLte, OpIn, OpNin, OpLike, OpIlike, OpNull, OpNotNull}
}

// IsValid reports whether the operator is known.
func (o Operator) IsValid() bool {
	for _, v := range AllOperators() {
		if o == v {
			return true
		}
	}
	return false
}

// Condition is a single filter on one column.
type Condition struct {
	Field    string
	Operator Operator
	// Value is the operand. OpIn and OpNin take a slice; OpNull and
	// OpNotNull ignore it.
	Value any
}

// identifier matches plain and table-qualified column names.
var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Validate rejects unknown operators, unsafe column names and set operators
// without a slice operand.
func (c Condition) Validate() error {
	if !identifier.MatchString(c.Field) {
		return fmt.Errorf("invalid field %q", c.Field)
	}
	if !c.Operator.IsValid() {
		return fmt.Errorf("invalid operator %q for field %s", c.Operator, c.Field)
	}
	if c.Operator == OpIn || c.Operator == OpNin {
		kind := reflect.ValueOf(c.Value).Kind()
		if kind != reflect.Slice && kind != reflect.Array {
			return fmt.Errorf("operator %s on field %s needs a list, got %T", c.Operator, c.Field, c.Value)
		}
	}
	return nil
}

// String renders the condition in PostgREST form, e.g. "name=eq.alice".
func (c Condition) String() string {
	switch c.Operator {
	case OpNull:
		return c.Field + "=is.null"
	case OpNotNull:
		return c.Field + "=not.is.null"
	}
	return fmt.Sprintf("%s=%s.%v", c.Field, c.Operator, c.Value)
}

// Page selects one page of a sorted result.
type Page struct {
	Number int
	Size   int
	SortBy string
	Desc   bool
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Normalize clamps the page number and size into their valid ranges.
func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	switch {
	case p.Size <= 0:
		p.Size = DefaultPageSize
	case p.Size > MaxPageSize:
		p.Size = MaxPageSize
	}
	return p
}

// Pagination metadata returned in paginated results.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Result is a paginated response.
type Result[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}
