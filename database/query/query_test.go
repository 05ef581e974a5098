package query

import (
	"reflect"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type item struct {
	ID    uint `gorm:"primaryKey"`
	Name  string
	Score int
	Note  *string
}

func openItems(t *testing.T, n int) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Discard})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(&item{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	note := "has note"
	for i := 1; i <= n; i++ {
		it := item{Name: "item-" + string(rune('a'+i-1)), Score: i}
		if i%2 == 0 {
			it.Note = &note
		}
		if err := db.Create(&it).Error; err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	return db
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		in   string
		want Condition
	}{
		{"name=eq.alice", Condition{Field: "name", Operator: OpEq, Value: "alice"}},
		{"name=alice", Condition{Field: "name", Operator: OpEq, Value: "alice"}},
		{"version=1.2", Condition{Field: "version", Operator: OpEq, Value: "1.2"}},
		{"score=gte.3", Condition{Field: "score", Operator: OpGte, Value: "3"}},
		{"status=in.(a, b,c\\,d)", Condition{Field: "status", Operator: OpIn, Value: []string{"a", "b", "c,d"}}},
		{"note=is.null", Condition{Field: "note", Operator: OpNull}},
		{"note=not.is.null", Condition{Field: "note", Operator: OpNotNull}},
		{"name=like.a\\.b", Condition{Field: "name", Operator: OpLike, Value: "a.b"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFilter(tt.in)
			if err != nil {
				t.Fatalf("ParseFilter() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseFilter() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestParseFilter_Invalid(t *testing.T) {
	for _, in := range []string{"", "noequals", "=eq.x", "name;drop=eq.x", "1name=eq.x"} {
		if _, err := ParseFilter(in); err == nil {
			t.Errorf("ParseFilter(%q) should fail", in)
		}
	}
	if _, err := ParseFilters([]string{"name=eq.a", "bad"}); err == nil {
		t.Error("ParseFilters() should stop at the invalid filter")
	}
}

func TestCondition_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cond    Condition
		wantErr string
	}{
		{"qualified field", Condition{Field: "items.name", Operator: OpEq, Value: "x"}, ""},
		{"bad operator", Condition{Field: "name", Operator: "between"}, "invalid operator"},
		{"in without list", Condition{Field: "name", Operator: OpIn, Value: "x"}, "needs a list"},
		{"injection", Condition{Field: "name = 1 OR 1", Operator: OpEq}, "invalid field"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cond.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestCondition_String(t *testing.T) {
	if got := (Condition{Field: "score", Operator: OpGt, Value: 3}).String(); got != "score=gt.3" {
		t.Errorf("String() = %q", got)
	}
	if got := (Condition{Field: "note", Operator: OpNull}).String(); got != "note=is.null" {
		t.Errorf("String() = %q", got)
	}
}

func TestApplyConditions(t *testing.T) {
	db := openItems(t, 5)

	tests := []struct {
		name  string
		conds []Condition
		want  int64
	}{
		{"none", nil, 5},
		{"eq", []Condition{{Field: "name", Operator: OpEq, Value: "item-a"}}, 1},
		{"neq", []Condition{{Field: "name", Operator: OpNeq, Value: "item-a"}}, 4},
		{"range", []Condition{{Field: "score", Operator: OpGte, Value: 2}, {Field: "score", Operator: OpLt, Value: 5}}, 3},
		{"in", []Condition{{Field: "score", Operator: OpIn, Value: []int{1, 3}}}, 2},
		{"nin", []Condition{{Field: "score", Operator: OpNin, Value: []int{1, 3}}}, 3},
		{"like", []Condition{{Field: "name", Operator: OpLike, Value: "item-"}}, 5},
		{"ilike", []Condition{{Field: "name", Operator: OpIlike, Value: "ITEM-C"}}, 1},
		{"null", []Condition{{Field: "note", Operator: OpNull}}, 3},
		{"not null", []Condition{{Field: "note", Operator: OpNotNull}}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := ApplyConditions(db.Model(&item{}), tt.conds...)
			if err != nil {
				t.Fatalf("ApplyConditions() error = %v", err)
			}
			var n int64
			if err := q.Count(&n).Error; err != nil {
				t.Fatalf("count: %v", err)
			}
			if n != tt.want {
				t.Errorf("count = %d, want %d", n, tt.want)
			}
		})
	}

	if _, err := ApplyConditions(db, Condition{Field: "bad field", Operator: OpEq}); err == nil {
		t.Error("ApplyConditions() should reject an invalid condition")
	}
}

func TestPaginate(t *testing.T) {
	db := openItems(t, 5)

	res, err := Paginate[item](db.Model(&item{}), Page{Number: 2, Size: 2, SortBy: "score", Desc: true})
	if err != nil {
		t.Fatalf("Paginate() error = %v", err)
	}
	if res.Pagination != (Pagination{Page: 2, PageSize: 2, Total: 5, TotalPages: 3}) {
		t.Errorf("Pagination = %+v", res.Pagination)
	}
	if len(res.Data) != 2 || res.Data[0].Score != 3 || res.Data[1].Score != 2 {
		t.Errorf("Data = %+v, want scores 3,2", res.Data)
	}

	if _, err := Paginate[item](db, Page{SortBy: "score; DROP TABLE items"}); err == nil {
		t.Error("Paginate() should reject an unsafe sort field")
	}
}

func TestPage_Normalize(t *testing.T) {
	tests := []struct {
		in, want Page
	}{
		{Page{}, Page{Number: 1, Size: DefaultPageSize}},
		{Page{Number: 3, Size: 500}, Page{Number: 3, Size: MaxPageSize}},
		{Page{Number: -1, Size: 10}, Page{Number: 1, Size: 10}},
	}
	for _, tt := range tests {
		if got := tt.in.Normalize(); got != tt.want {
			t.Errorf("Normalize(%+v) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}
