package repository

import (
	"strings"

	"gorm.io/gorm"

	"github.com/kbukum/iocboot/database/query"
)

// Spec is a predicate over an aggregate's table. Specs compose with And, Or
// and Not; All matches every row.
type Spec interface {
	// SQL renders the predicate as a WHERE fragment with placeholders. An
	// empty fragment matches everything.
	SQL() (string, []any, error)
}

const matchNothing = "1 = 0"

type conditionSpec struct{ cond query.Condition }

func (s conditionSpec) SQL() (string, []any, error) { return s.cond.Clause() }

// Where matches rows whose field satisfies op against value.
func Where(field string, op query.Operator, value any) Spec {
	return conditionSpec{query.Condition{Field: field, Operator: op, Value: value}}
}

// Eq matches rows whose field equals value.
func Eq(field string, value any) Spec {
	return Where(field, query.OpEq, value)
}

// In matches rows whose field is one of values, which must be a slice.
func In(field string, values any) Spec {
	return Where(field, query.OpIn, values)
}

// Matching combines parsed query conditions with AND.
func Matching(conds ...query.Condition) Spec {
	specs := make([]Spec, len(conds))
	for i, c := range conds {
		specs[i] = conditionSpec{c}
	}
	return And(specs...)
}

type allSpec struct{}

func (allSpec) SQL() (string, []any, error) { return "", nil, nil }

// All matches every row.
func All() Spec { return allSpec{} }

type andSpec []Spec

func (s andSpec) SQL() (string, []any, error) {
	var parts []string
	var args []any
	for _, child := range s {
		sql, childArgs, err := render(child)
		if err != nil {
			return "", nil, err
		}
		if sql == "" {
			continue
		}
		parts = append(parts, sql)
		args = append(args, childArgs...)
	}
	switch len(parts) {
	case 0:
		return "", nil, nil
	case 1:
		return parts[0], args, nil
	}
	return group(parts, " AND "), args, nil
}

// And matches rows that satisfy every spec. And() with no specs matches all.
func And(specs ...Spec) Spec { return andSpec(specs) }

type orSpec []Spec

func (s orSpec) SQL() (string, []any, error) {
	if len(s) == 0 {
		return matchNothing, nil, nil
	}
	parts := make([]string, 0, len(s))
	var args []any
	for _, child := range s {
		sql, childArgs, err := render(child)
		if err != nil {
			return "", nil, err
		}
		if sql == "" {
			return "", nil, nil
		}
		parts = append(parts, sql)
		args = append(args, childArgs...)
	}
	if len(parts) == 1 {
		return parts[0], args, nil
	}
	return group(parts, " OR "), args, nil
}

// Or matches rows that satisfy at least one spec. Or() with no specs matches
// nothing.
func Or(specs ...Spec) Spec { return orSpec(specs) }

type notSpec struct{ inner Spec }

func (s notSpec) SQL() (string, []any, error) {
	sql, args, err := render(s.inner)
	if err != nil {
		return "", nil, err
	}
	if sql == "" {
		return matchNothing, nil, nil
	}
	return "NOT (" + sql + ")", args, nil
}

// Not matches rows that do not satisfy spec.
func Not(spec Spec) Spec { return notSpec{spec} }

func group(parts []string, sep string) string {
	return "(" + strings.Join(parts, ")"+sep+"(") + ")"
}

// render treats a nil spec as All.
func render(s Spec) (string, []any, error) {
	if s == nil {
		return "", nil, nil
	}
	return s.SQL()
}

// Apply adds spec to db as a WHERE clause. A nil spec leaves db unchanged.
func Apply(db *gorm.DB, spec Spec) (*gorm.DB, error) {
	sql, args, err := render(spec)
	if err != nil {
		return nil, err
	}
	if sql == "" {
		return db, nil
	}
	return db.Where("("+sql+")", args...), nil
}
