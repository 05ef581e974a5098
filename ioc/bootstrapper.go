package ioc

import (
	"context"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/iocboot/di"
	"github.com/kbukum/iocboot/errors"
	"github.com/kbukum/iocboot/logger"
	"github.com/kbukum/iocboot/module"
	"github.com/kbukum/iocboot/observability"
	"github.com/kbukum/iocboot/scan"
)

// Bootstrapper owns one container and the state machine that produces it.
type Bootstrapper struct {
	catalog *module.Catalog
	source  module.Source
	refs    module.RefsFunc
	skip    []string
	seeds   []func(*di.Builder) error
	log     *logger.Logger
	tracer  trace.Tracer
	metrics *observability.ContainerMetrics

	initMu    sync.Mutex
	state     atomic.Int32
	container atomic.Pointer[di.Container]
	modules   []module.Module
}

// New creates an uninitialized Bootstrapper.
func New(opts ...Option) *Bootstrapper {
	b := &Bootstrapper{
		skip: []string{module.DefaultSkipPattern},
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.catalog == nil {
		b.catalog = module.Default()
	}
	if b.log == nil {
		b.log = logger.WithComponent("ioc")
	}
	if b.tracer == nil {
		b.tracer = observability.Tracer()
	}
	if b.metrics == nil {
		if m, err := observability.NewContainerMetrics(observability.Meter()); err == nil {
			b.metrics = m
		}
	}
	return b
}

// State returns the current lifecycle state.
func (b *Bootstrapper) State() State {
	return State(b.state.Load())
}

// Initialize discovers modules, runs every Registrar, builds the container and
// hands it to every ResolverSetter. Only the first call proceeds; concurrent
// and re-entrant calls fail with ErrAlreadyInitialized. On failure nothing is
// published and the Bootstrapper returns to StateUninitialized.
func (b *Bootstrapper) Initialize(ctx context.Context, hosted bool) (err error) {
	if !b.state.CompareAndSwap(int32(StateUninitialized), int32(StateRegistering)) {
		return errors.AlreadyInitialized().WithDetail("state", b.State().String())
	}
	b.initMu.Lock()
	defer b.initMu.Unlock()

	ctx, phase := observability.StartPhase(ctx, b.tracer, b.metrics, observability.SpanInitialize,
		attribute.Bool(observability.AttrHosted, hosted))
	log := b.log.WithContext(ctx)
	log.Info("initializing container", logger.Fields(logger.FieldState, StateRegistering.String(), "hosted", hosted))

	defer func() {
		if err != nil {
			b.state.Store(int32(StateUninitialized))
			log.Error("container initialization failed", logger.ErrorFields("initialize", err))
		}
		phase.End(ctx, err)
	}()

	mods, err := b.discover(ctx, hosted)
	if err != nil {
		return err
	}
	builder, err := b.register(ctx, mods)
	if err != nil {
		return err
	}
	c, err := b.build(ctx, builder)
	if err != nil {
		return err
	}
	setters, err := scan.Instances[ResolverSetter](mods)
	if err != nil {
		_ = c.Close()
		return err
	}

	b.modules = mods
	b.container.Store(c)
	b.state.Store(int32(StateBuilt))

	b.inject(ctx, c, setters)

	log.Info("container initialized", logger.Fields(
		logger.FieldState, StateBuilt.String(),
		logger.FieldModules, len(mods),
		"bindings", c.Len(),
		logger.FieldDuration, phase.Duration().Milliseconds(),
	))
	return nil
}

func (b *Bootstrapper) discover(ctx context.Context, hosted bool) (mods []module.Module, err error) {
	ctx, phase := observability.StartPhase(ctx, b.tracer, b.metrics, observability.SpanDiscover)
	defer func() { phase.End(ctx, err) }()

	filter, err := module.NewFilter(b.skip...)
	if err != nil {
		return nil, errors.EnumerationFailed(err)
	}

	src := b.source
	switch {
	case src != nil:
	case hosted:
		src = module.Hosted(b.catalog, b.refs)
	default:
		src = module.Standalone(b.catalog)
	}

	mods, err = module.Discover(src, filter)
	if err != nil {
		return nil, err
	}
	phase.SetAttributes(attribute.Int(observability.AttrModules, len(mods)))
	b.log.Debug("modules discovered", logger.Fields(logger.FieldModules, moduleNames(mods)))
	return mods, nil
}

func (b *Bootstrapper) register(ctx context.Context, mods []module.Module) (builder *di.Builder, err error) {
	ctx, phase := observability.StartPhase(ctx, b.tracer, b.metrics, observability.SpanRegister)
	defer func() { phase.End(ctx, err) }()

	registrars, err := scan.Instances[Registrar](mods)
	if err != nil {
		return nil, err
	}

	builder = di.NewBuilder(b.log)
	for _, seed := range b.seeds {
		if err := seed(builder); err != nil {
			return nil, errors.RegistrationFailed("seed", err)
		}
	}
	for _, r := range registrars {
		name := scan.Name(r)
		b.log.Debug("running registrar", logger.Fields(logger.FieldRegistrar, name))
		if err := r.Register(mods, builder); err != nil {
			return nil, errors.RegistrationFailed(name, err)
		}
	}
	phase.SetAttributes(
		attribute.Int(observability.AttrRegistrar, len(registrars)),
		attribute.Int(observability.AttrBindings, builder.Len()),
	)
	return builder, nil
}

func (b *Bootstrapper) build(ctx context.Context, builder *di.Builder) (c *di.Container, err error) {
	ctx, phase := observability.StartPhase(ctx, b.tracer, b.metrics, observability.SpanBuild)
	defer func() { phase.End(ctx, err) }()

	c, err = builder.Build()
	if err != nil {
		return nil, err
	}
	phase.SetAttributes(attribute.Int(observability.AttrBindings, c.Len()))
	return c, nil
}

func (b *Bootstrapper) inject(ctx context.Context, c *di.Container, setters []ResolverSetter) {
	ctx, phase := observability.StartPhase(ctx, b.tracer, b.metrics, observability.SpanInject,
		attribute.Int(observability.AttrSetter, len(setters)))
	defer phase.End(ctx, nil)

	for _, s := range setters {
		b.log.Debug("injecting resolver", logger.Fields(logger.FieldSetter, scan.Name(s)))
		s.SetResolver(c)
	}
}

// Create resolves contract from the built container.
func (b *Bootstrapper) Create(contract reflect.Type) (any, error) {
	c, err := b.Container()
	if err != nil {
		return nil, err
	}
	v, err := c.Resolve(contract)
	b.record(contract, err)
	return v, err
}

// IsRegistered reports whether contract has a binding in the built container.
func (b *Bootstrapper) IsRegistered(contract reflect.Type) (bool, error) {
	c, err := b.Container()
	if err != nil {
		return false, err
	}
	return c.IsRegistered(contract), nil
}

// Container returns the built container.
func (b *Bootstrapper) Container() (*di.Container, error) {
	if b.State() != StateBuilt {
		return nil, errors.NotInitialized().WithDetail("state", b.State().String())
	}
	return b.container.Load(), nil
}

// Modules returns the candidate modules of the last successful Initialize.
func (b *Bootstrapper) Modules() []module.Module {
	if b.State() != StateBuilt {
		return nil
	}
	return b.modules
}

// Close closes the container's singletons. The Bootstrapper stays built.
func (b *Bootstrapper) Close() error {
	c := b.container.Load()
	if c == nil {
		return nil
	}
	start := time.Now()
	err := c.Close()
	b.log.Info("container closed", logger.DurationFields("close", time.Since(start)))
	return err
}

func (b *Bootstrapper) record(contract reflect.Type, err error) {
	name := "<nil>"
	if contract != nil {
		name = contract.String()
	}
	code := ""
	if err != nil {
		code = string(errors.CodeOf(err))
	}
	b.metrics.RecordResolve(context.Background(), name, code)
}

func moduleNames(mods []module.Module) []string {
	names := make([]string, len(mods))
	for i, m := range mods {
		names[i] = m.Name
	}
	return names
}
