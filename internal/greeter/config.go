package greeter

import (
	"fmt"

	"github.com/kbukum/iocboot/config"
	"github.com/kbukum/iocboot/database"
	"github.com/kbukum/iocboot/diagnostics"
)

// Config is the configuration of the greeter application.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Database    database.Config    `yaml:"database" mapstructure:"database"`
	Diagnostics diagnostics.Config `yaml:"diagnostics" mapstructure:"diagnostics"`
}

// ApplyDefaults fills unset fields. The greeter cannot run without its
// database, which defaults to a local sqlite file with auto-migration.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "greeter"
	}
	c.ServiceConfig.ApplyDefaults()
	c.Database.Enabled = true
	if c.Database.DSN == "" {
		c.Database.DSN = "file:greeter.db?_busy_timeout=5000"
		c.Database.AutoMigrate = true
	}
	c.Database.ApplyDefaults()
	c.Diagnostics.ApplyDefaults()
}

// Validate checks the service config and every section.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Database.Validate(); err != nil {
		return fmt.Errorf("config.database: %w", err)
	}
	if err := c.Diagnostics.Validate(); err != nil {
		return fmt.Errorf("config.diagnostics: %w", err)
	}
	return nil
}
