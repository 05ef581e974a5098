// Package diagnostics serves read-only introspection of a running service
// over HTTP with Gin.
//
// Endpoints, relative to Config.BasePath:
//
//	GET /container   bindings of the built container
//	GET /modules     candidate modules of the last discovery
//	GET /health      aggregated component health
//	GET /version     build information
//
// Container and module endpoints answer 503 with a NOT_INITIALIZED error body
// until the container is built.
package diagnostics
