package ioc

import (
	"github.com/kbukum/iocboot/module"
	"github.com/kbukum/iocboot/validation"
)

// Config configures module discovery.
type Config struct {
	// Hosted limits discovery to modules linked into the running application.
	Hosted bool `yaml:"hosted" mapstructure:"hosted"`
	// SkipPattern replaces module.DefaultSkipPattern when set.
	SkipPattern string `yaml:"skip_pattern" mapstructure:"skip_pattern" validate:"omitempty,regexp"`
	// ExtraSkipPatterns are added to the skip pattern.
	ExtraSkipPatterns []string `yaml:"extra_skip_patterns" mapstructure:"extra_skip_patterns" validate:"dive,required,regexp"`
}

// ApplyDefaults sets the default skip pattern.
func (c *Config) ApplyDefaults() {
	if c.SkipPattern == "" {
		c.SkipPattern = module.DefaultSkipPattern
	}
}

// Validate checks that every pattern compiles.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c)
}

// Patterns returns the skip pattern followed by the extra patterns.
func (c *Config) Patterns() []string {
	return append([]string{c.SkipPattern}, c.ExtraSkipPatterns...)
}

// Options converts the configuration into Bootstrapper options.
func (c Config) Options() []Option {
	c.ApplyDefaults()
	return []Option{WithSkipPattern(c.Patterns()...)}
}
