// Package database provides a GORM-based database component with connection
// pooling, health checks, transactions and auto-migration.
//
// The component defaults to the sqlite driver. Other drivers are supplied
// with WithDriver:
//
//	comp := database.NewComponent(cfg.Database, log).
//	    WithDriver(postgres.Open).
//	    WithAutoMigrate(&greeter.Greeting{})
//	app.RegisterComponent(comp)
//
// Registered with a bootstrap.App, the component is seeded into the
// container by its concrete type, so a registrar can derive the connection:
//
//	di.Bind(b, func(c *database.Component) (*database.DB, error) { return c.Open() })
//
// A Session is the persistence context repositories work against: either
// the root DB or an open transaction (see DB.WithTransaction and NewSession).
//
// When Config.Enabled is false, Start returns immediately and Health reports
// the component as disabled.
package database
