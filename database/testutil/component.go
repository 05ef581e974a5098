package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/kbukum/iocboot/component"
	"github.com/kbukum/iocboot/database"
	"github.com/kbukum/iocboot/logger"
	basetest "github.com/kbukum/iocboot/testutil"
)

// Component is an in-memory sqlite database for tests. It wraps
// database.Component, so it behaves like the production component.
type Component struct {
	*database.Component
}

var _ basetest.TestComponent = (*Component)(nil)

// NewComponent creates a test database that auto-migrates models on Start.
func NewComponent(models ...any) *Component {
	cfg := database.Config{
		Enabled:     true,
		DSN:         ":memory:",
		AutoMigrate: true,
		LogLevel:    "silent",
	}
	return &Component{Component: database.NewComponent(cfg, logger.Nop()).WithAutoMigrate(models...)}
}

// Name returns the component name.
func (c *Component) Name() string { return "database-test" }

// Health reports the wrapped component's health under the test name.
func (c *Component) Health(ctx context.Context) component.Health {
	h := c.Component.Health(ctx)
	h.Name = c.Name()
	return h
}

// Reset deletes every row from every table while keeping the schema.
func (c *Component) Reset(ctx context.Context) error {
	db := c.DB()
	if db == nil {
		return fmt.Errorf("component not started")
	}
	return TruncateAllTables(db.WithContext(ctx))
}

// Open starts a test database for t and closes it when the test ends.
func Open(t testing.TB, models ...any) *database.DB {
	t.Helper()
	c := NewComponent(models...)
	basetest.T(t).Setup(c)
	return c.DB()
}
