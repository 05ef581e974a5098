// Package observability wires OpenTelemetry tracing and metrics into iocboot.
//
// Setup installs OTLP/HTTP tracer and meter providers as the otel globals:
//
//	shutdown, err := observability.Setup(ctx, cfg)
//	defer shutdown(ctx)
//
// The bootstrap phases are traced through Phase, and resolutions are counted by
// ContainerMetrics. Both fall back to the otel no-op providers when Setup was
// never called.
package observability
