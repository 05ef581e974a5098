package query

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Clause renders the condition as a SQL fragment with placeholders.
func (c Condition) Clause() (string, []any, error) {
	if err := c.Validate(); err != nil {
		return "", nil, err
	}
	field := c.Field

	switch c.Operator {
	case OpEq:
		return field + " = ?", []any{c.Value}, nil
	case OpNeq:
		return field + " <> ?", []any{c.Value}, nil
	case OpGt:
		return field + " > ?", []any{c.Value}, nil
	case OpGte:
		return field + " >= ?", []any{c.Value}, nil
	case OpLt:
		return field + " < ?", []any{c.Value}, nil
	case OpLte:
		return field + " <= ?", []any{c.Value}, nil
	case OpIn:
		return field + " IN ?", []any{c.Value}, nil
	case OpNin:
		return field + " NOT IN ?", []any{c.Value}, nil
	case OpLike:
		return field + " LIKE ?", []any{"%" + fmt.Sprint(c.Value) + "%"}, nil
	case OpIlike:
		return "LOWER(" + field + ") LIKE ?", []any{"%" + strings.ToLower(fmt.Sprint(c.Value)) + "%"}, nil
	case OpNull:
		return field + " IS NULL", nil, nil
	default:
		return field + " IS NOT NULL", nil, nil
	}
}

// ApplyConditions adds every condition to db, joined with AND.
func ApplyConditions(db *gorm.DB, conditions ...Condition) (*gorm.DB, error) {
	for _, cond := range conditions {
		sql, args, err := cond.Clause()
		if err != nil {
			return nil, err
		}
		db = db.Where(sql, args...)
	}
	return db, nil
}

// Paginate counts the rows matched by db and loads the requested page.
func Paginate[T any](db *gorm.DB, page Page) (*Result[T], error) {
	page = page.Normalize()
	q := db.Session(&gorm.Session{})
	if q.Statement.Model == nil {
		q = q.Model(new(T))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count: %w", err)
	}

	if page.SortBy != "" {
		if !identifier.MatchString(page.SortBy) {
			return nil, fmt.Errorf("invalid sort field %q", page.SortBy)
		}
		order := page.SortBy
		if page.Desc {
			order += " DESC"
		}
		q = q.Order(order)
	}

	data := make([]T, 0, page.Size)
	if err := q.Offset((page.Number - 1) * page.Size).Limit(page.Size).Find(&data).Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	totalPages := (int(total) + page.Size - 1) / page.Size
	if totalPages < 1 {
		totalPages = 1
	}
	return &Result[T]{
		Data: data,
		Pagination: Pagination{
			Page: page.Number, PageSize: page.Size,
			Total: int(total), TotalPages: totalPages,
		},
	}, nil
}
