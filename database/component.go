package database

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kbukum/iocboot/component"
	apperrors "github.com/kbukum/iocboot/errors"
	"github.com/kbukum/iocboot/logger"
)

// Driver builds a GORM dialector from a DSN.
type Driver func(dsn string) gorm.Dialector

// Component wraps DB and implements component.Component for lifecycle management.
type Component struct {
	cfg    Config
	log    *logger.Logger
	driver Driver
	models []any

	mu sync.RWMutex
	db *DB
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates a database component using the sqlite driver.
func NewComponent(cfg Config, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.Nop()
	}
	return &Component{
		cfg:    cfg,
		log:    log.WithComponent("database"),
		driver: sqlite.Open,
	}
}

// WithDriver replaces the sqlite default, e.g. WithDriver(postgres.Open).
func (c *Component) WithDriver(driver Driver) *Component {
	c.driver = driver
	return c
}

// WithAutoMigrate registers models for auto-migration on Start.
func (c *Component) WithAutoMigrate(models ...any) *Component {
	c.models = append(c.models, models...)
	return c
}

// DB returns the connection, or nil before Start and when disabled.
func (c *Component) DB() *DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}

// Open returns the connection, failing when the component is disabled or
// not started. It is the usual constructor registrars bind for *DB.
func (c *Component) Open() (*DB, error) {
	if db := c.DB(); db != nil {
		return db, nil
	}
	if !c.cfg.Enabled {
		return nil, apperrors.ServiceUnavailable("database").WithDetail("reason", "disabled")
	}
	return nil, apperrors.ServiceUnavailable("database").WithDetail("reason", "not started")
}

// Name returns the component name.
func (c *Component) Name() string { return "database" }

// Start connects to the database and optionally runs auto-migration.
func (c *Component) Start(ctx context.Context) error {
	if !c.cfg.Enabled {
		c.log.Info("database disabled, skipping connection")
		return nil
	}
	if err := c.cfg.Validate(); err != nil {
		return fmt.Errorf("database config: %w", err)
	}

	db, err := New(ctx, c.driver(c.cfg.DSN), c.cfg, c.log)
	if err != nil {
		return fmt.Errorf("database start: %w", err)
	}

	if c.cfg.AutoMigrate && len(c.models) > 0 {
		if err := db.AutoMigrate(c.models...); err != nil {
			_ = db.Close()
			return fmt.Errorf("database auto-migrate: %w", err)
		}
	}

	c.mu.Lock()
	c.db = db
	c.mu.Unlock()
	return nil
}

// Stop closes the connection pool.
func (c *Component) Stop(_ context.Context) error {
	c.mu.Lock()
	db := c.db
	c.db = nil
	c.mu.Unlock()

	if db == nil {
		return nil
	}
	return db.Close()
}

// Health pings the database and reports pool statistics.
func (c *Component) Health(ctx context.Context) component.Health {
	if !c.cfg.Enabled {
		return component.Health{Name: c.Name(), Status: component.StatusHealthy, Message: "disabled"}
	}
	db := c.DB()
	if db == nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "database not initialized"}
	}

	status := db.CheckHealth(ctx)
	if !status.Connected {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: "ping failed: " + status.Error,
		}
	}
	return component.Health{
		Name:   c.Name(),
		Status: component.StatusHealthy,
		Details: map[string]string{
			"open":    strconv.Itoa(status.OpenConns),
			"in_use":  strconv.Itoa(status.InUseConns),
			"idle":    strconv.Itoa(status.IdleConns),
			"latency": status.Latency.String(),
		},
	}
}

// Describe returns infrastructure summary info for the startup summary.
func (c *Component) Describe() component.Description {
	if !c.cfg.Enabled {
		return component.Description{Name: "Database", Type: "database", Details: "disabled"}
	}
	details := fmt.Sprintf("pool=%d/%d", c.cfg.MaxOpenConns, c.cfg.MaxIdleConns)
	if db := c.DB(); db != nil {
		details = db.Dialect() + " " + details
	}
	if c.cfg.AutoMigrate {
		details += fmt.Sprintf(" auto-migrate=%d", len(c.models))
	}
	return component.Description{
		Name:    "Database",
		Type:    "database",
		Details: details,
	}
}
