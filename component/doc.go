// Package component defines lifecycle-managed infrastructure such as the
// database connection or the diagnostics server.
//
// Components are started in registration order before the container is
// built, and stopped in reverse order after it is closed. A Registry also
// aggregates component health into a Report for the diagnostics endpoint.
package component
