package validation

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/kbukum/iocboot/errors"
)

type containerConfig struct {
	Hosted      bool     `mapstructure:"hosted"`
	SkipPattern string   `mapstructure:"skip_pattern" validate:"omitempty,regexp"`
	Extra       []string `mapstructure:"extra_skip_patterns" validate:"dive,required,regexp"`
	Level       string   `mapstructure:"level" validate:"required,oneof=debug info"`
}

func TestValidateStructValid(t *testing.T) {
	cfg := containerConfig{SkipPattern: `^vendor\.`, Extra: []string{`^acme/`}, Level: "info"}
	if err := ValidateStruct(cfg); err != nil {
		t.Errorf("ValidateStruct() error = %v", err)
	}
}

func TestValidateStructInvalid(t *testing.T) {
	cfg := containerConfig{SkipPattern: "([", Extra: []string{"ok", ""}, Level: "loud"}
	err := ValidateStruct(cfg)
	if errors.CodeOf(err) != errors.ErrCodeInvalidInput {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
	msg := err.Error()
	for _, want := range []string{
		"skip_pattern: must be a valid regular expression",
		"extra_skip_patterns[1]: is required",
		"level: must be one of: debug info",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q does not mention %q", msg, want)
		}
	}
	appErr, _ := errors.AsAppError(err)
	if fields, ok := appErr.Details["fields"].([]FieldError); !ok || len(fields) != 3 {
		t.Errorf("fields detail = %v", appErr.Details["fields"])
	}
}

func TestValidateStructNonStruct(t *testing.T) {
	if err := ValidateStruct("not a struct"); errors.CodeOf(err) != errors.ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

func TestValidatorChecks(t *testing.T) {
	tests := []struct {
		name  string
		check func(v *Validator)
		fails bool
	}{
		{"required ok", func(v *Validator) { v.Required("name", "Ada") }, false},
		{"required blank", func(v *Validator) { v.Required("name", "  ") }, true},
		{"uuid ok", func(v *Validator) { v.RequiredUUID("id", uuid.NewString()) }, false},
		{"uuid empty", func(v *Validator) { v.RequiredUUID("id", "") }, true},
		{"uuid malformed", func(v *Validator) { v.RequiredUUID("id", "nope") }, true},
		{"uuid nil", func(v *Validator) { v.RequiredUUID("id", uuid.Nil.String()) }, true},
		{"max length ok", func(v *Validator) { v.MaxLength("name", "héllo", 5) }, false},
		{"max length exceeded", func(v *Validator) { v.MaxLength("name", "hello!", 5) }, true},
		{"regexp ok", func(v *Validator) { v.Regexp("pattern", `^a+$`) }, false},
		{"regexp bad", func(v *Validator) { v.Regexp("pattern", `(`) }, true},
		{"one of ok", func(v *Validator) { v.OneOf("mode", "hosted", []string{"hosted", "standalone"}) }, false},
		{"one of bad", func(v *Validator) { v.OneOf("mode", "x", []string{"hosted", "standalone"}) }, true},
		{"check", func(v *Validator) { v.Check(false, "x", "broken") }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			tt.check(v)
			if v.HasErrors() != tt.fails {
				t.Errorf("HasErrors() = %v, want %v (%v)", v.HasErrors(), tt.fails, v.Errors())
			}
		})
	}
}

func TestValidatorValidate(t *testing.T) {
	if err := New().Required("a", "x").Validate(); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	err := New().Required("a", "").Required("b", "").Validate()
	if err == nil || !strings.Contains(err.Error(), "a: is required; b: is required") {
		t.Errorf("Validate() = %v", err)
	}
}

func TestParseUUID(t *testing.T) {
	id := uuid.New()
	got, err := ParseUUID("id", id.String())
	if err != nil || got != id {
		t.Errorf("ParseUUID() = %v, %v", got, err)
	}
	if _, err := ParseUUID("id", "bad"); errors.CodeOf(err) != errors.ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

func TestToSnakeCase(t *testing.T) {
	if got := toSnakeCase("SkipPattern"); got != "skip_pattern" {
		t.Errorf("toSnakeCase() = %q", got)
	}
}
