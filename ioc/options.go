package ioc

import (
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/iocboot/di"
	"github.com/kbukum/iocboot/logger"
	"github.com/kbukum/iocboot/module"
	"github.com/kbukum/iocboot/observability"
)

// Option configures a Bootstrapper.
type Option func(*Bootstrapper)

// WithCatalog sets the module catalog used by the standalone and hosted
// sources. Defaults to module.Default().
func WithCatalog(c *module.Catalog) Option {
	return func(b *Bootstrapper) { b.catalog = c }
}

// WithSource overrides module enumeration entirely; the hosted flag passed to
// Initialize is then ignored.
func WithSource(src module.Source) Option {
	return func(b *Bootstrapper) { b.source = src }
}

// WithHostedRefs sets how hosted mode lists the application's modules.
// Defaults to the binary's build info.
func WithHostedRefs(refs module.RefsFunc) Option {
	return func(b *Bootstrapper) { b.refs = refs }
}

// WithSkipPattern replaces the skip patterns. Patterns are OR-ed and matched
// case-insensitively against module names.
func WithSkipPattern(patterns ...string) Option {
	return func(b *Bootstrapper) { b.skip = patterns }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(b *Bootstrapper) { b.log = l }
}

// WithTracer sets the tracer for the bootstrap phase spans.
func WithTracer(t trace.Tracer) Option {
	return func(b *Bootstrapper) { b.tracer = t }
}

// WithMetrics sets the resolution and phase instruments.
func WithMetrics(m *observability.ContainerMetrics) Option {
	return func(b *Bootstrapper) { b.metrics = m }
}

// WithBindings adds functions that seed the builder before any Registrar
// runs. Hosts use it to expose infrastructure they own, such as a database
// handle; Registrars may still override the seeded contracts.
func WithBindings(seed ...func(*di.Builder) error) Option {
	return func(b *Bootstrapper) { b.seeds = append(b.seeds, seed...) }
}
