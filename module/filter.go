package module

import (
	"regexp"
	"strings"

	"github.com/kbukum/iocboot/errors"
)

// DefaultSkipPattern matches the import paths of Go framework and vendor
// modules that never carry application registrars.
const DefaultSkipPattern = `^(vendor|golang\.org/x|google\.golang\.org|gopkg\.in|go\.opentelemetry\.io|gorm\.io|github\.com/(rs|spf13|gin-gonic|go-playground|google|joho|stretchr|mattn|glebarez|jackc|pelletier|fsnotify|sagikazarmark|subosito|bytedance|ugorji|goccy|json-iterator|modern-go))(/|$)`

// Filter drops modules whose fully qualified name matches a case-insensitive
// pattern.
type Filter struct {
	re *regexp.Regexp
}

// NewFilter compiles patterns into one case-insensitive alternation. Blank
// patterns are ignored; with no patterns the filter keeps everything.
func NewFilter(patterns ...string) (*Filter, error) {
	parts := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, err := regexp.Compile(p); err != nil {
			return nil, errors.InvalidInput("skip_pattern", err.Error()).WithCause(err)
		}
		parts = append(parts, "(?:"+p+")")
	}
	if len(parts) == 0 {
		return &Filter{}, nil
	}
	re, err := regexp.Compile("(?i)" + strings.Join(parts, "|"))
	if err != nil {
		return nil, errors.InvalidInput("skip_pattern", err.Error()).WithCause(err)
	}
	return &Filter{re: re}, nil
}

// MustFilter is NewFilter that panics on a bad pattern.
func MustFilter(patterns ...string) *Filter {
	f, err := NewFilter(patterns...)
	if err != nil {
		panic(err)
	}
	return f
}

// Skip reports whether the module called name is excluded.
func (f *Filter) Skip(name string) bool {
	return f != nil && f.re != nil && f.re.MatchString(name)
}

// Apply returns the modules that are not skipped, preserving order.
func (f *Filter) Apply(mods []Module) []Module {
	out := make([]Module, 0, len(mods))
	for _, m := range mods {
		if !f.Skip(m.Name) {
			out = append(out, m)
		}
	}
	return out
}

// String returns the compiled expression.
func (f *Filter) String() string {
	if f == nil || f.re == nil {
		return ""
	}
	return f.re.String()
}

// Discover enumerates src and removes the modules f skips. Any enumeration
// failure is returned as ENUMERATION_FAILED and no modules are returned.
func Discover(src Source, f *Filter) ([]Module, error) {
	if src == nil {
		return nil, errors.EnumerationFailed(nil).WithMessage("No module source configured.")
	}
	mods, err := src.Enumerate()
	if err != nil {
		if errors.CodeOf(err) == errors.ErrCodeEnumerationFailed {
			return nil, err
		}
		return nil, errors.EnumerationFailed(err)
	}
	return f.Apply(mods), nil
}
