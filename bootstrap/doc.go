// Package bootstrap runs a service around the process container.
//
// App wires configuration, logging and telemetry, starts infrastructure
// components, initializes the ioc container over the discovered modules and
// stops everything in reverse order on shutdown:
//
//	app, err := bootstrap.NewApp(&cfg)
//	if err != nil {
//	    return err
//	}
//	app.RegisterComponent(database.NewComponent(cfg.Database, app.Logger))
//	return app.Run(ctx)
//
// Started components are bound into the container before any Registrar runs,
// so registrars can depend on them by their concrete type.
package bootstrap
