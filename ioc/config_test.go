package ioc

import (
	"testing"

	"github.com/kbukum/iocboot/errors"
	"github.com/kbukum/iocboot/module"
)

func TestConfigDefaults(t *testing.T) {
	cfg := Config{ExtraSkipPatterns: []string{`^acme/legacy`}}
	cfg.ApplyDefaults()
	if cfg.SkipPattern != module.DefaultSkipPattern {
		t.Errorf("SkipPattern = %q", cfg.SkipPattern)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	if p := cfg.Patterns(); len(p) != 2 || p[1] != `^acme/legacy` {
		t.Errorf("Patterns() = %v", p)
	}
}

func TestConfigValidateRejectsBadPatterns(t *testing.T) {
	cfg := Config{SkipPattern: "([", ExtraSkipPatterns: []string{"ok", "*bad"}}
	if err := cfg.Validate(); errors.CodeOf(err) != errors.ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

func TestConfigOptions(t *testing.T) {
	resetFixtures()
	cfg := Config{ExtraSkipPatterns: []string{`^vendor\.`}}
	b := New(append(cfg.Options(), WithCatalog(greeterCatalog()))...)
	mustInitialize(t, b)
	if calls.vendor.Load() != 0 {
		t.Error("extra skip pattern was not applied")
	}
}
