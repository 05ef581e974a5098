package ioc

import (
	stderrors "errors"
	"sync"
	"sync/atomic"

	"github.com/kbukum/iocboot/di"
	"github.com/kbukum/iocboot/logger"
	"github.com/kbukum/iocboot/module"
)

// IGreeter is the contract bound by the App.Domain fixture.
type IGreeter interface{ Greet(name string) string }

type greeter struct{ greeting string }

func (g *greeter) Greet(name string) string { return g.greeting + ", " + name }

// IFoo is bound by both override registrars.
type IFoo interface{ Which() string }

type fooOne struct{}

func (*fooOne) Which() string { return "R1" }

type fooTwo struct{}

func (*fooTwo) Which() string { return "R2" }

type unbound interface{ Never() }

var calls struct {
	vendor   atomic.Int32
	greeter  atomic.Int32
	failNext atomic.Bool
}

type injection struct {
	built      bool
	registered bool
	// state and published are only filled in while owner is set.
	state     State
	published bool
}

var (
	injectMu   sync.Mutex
	injections []injection
	// owner is the Bootstrapper recordingSetter reports on.
	owner atomic.Pointer[Bootstrapper]
)

func resetFixtures() {
	calls.vendor.Store(0)
	calls.greeter.Store(0)
	calls.failNext.Store(false)
	injectMu.Lock()
	injections = nil
	injectMu.Unlock()
	owner.Store(nil)
}

func recordedInjections() []injection {
	injectMu.Lock()
	defer injectMu.Unlock()
	return append([]injection(nil), injections...)
}

// vendorRegistrar lives in a skipped module and must never run.
type vendorRegistrar struct{}

func (vendorRegistrar) Register([]module.Module, *di.Builder) error {
	calls.vendor.Add(1)
	return nil
}

type vendorSetter struct{}

func (vendorSetter) SetResolver(di.Resolver) { calls.vendor.Add(1) }

type greeterRegistrar struct{}

func (greeterRegistrar) Register(_ []module.Module, b *di.Builder) error {
	calls.greeter.Add(1)
	return di.Bind[IGreeter](b, func() IGreeter { return &greeter{greeting: "Hello"} }, di.AsSingleton())
}

type recordingSetter struct{}

func (recordingSetter) SetResolver(r di.Resolver) {
	in := injection{
		built:      r.Built(),
		registered: r.IsRegistered(di.TypeOf[IGreeter]()),
	}
	if b := owner.Load(); b != nil {
		in.state = b.State()
		c, err := b.Container()
		in.published = err == nil && di.Resolver(c) == r
	}
	injectMu.Lock()
	defer injectMu.Unlock()
	injections = append(injections, in)
}

type r1 struct{}

func (r1) Register(_ []module.Module, b *di.Builder) error {
	return di.BindType[IFoo, fooOne](b)
}

type r2 struct{}

func (r2) Register(_ []module.Module, b *di.Builder) error {
	return di.BindType[IFoo, fooTwo](b)
}

type flakyRegistrar struct{}

func (flakyRegistrar) Register([]module.Module, *di.Builder) error {
	if calls.failNext.Load() {
		return stderrors.New("database unreachable")
	}
	return nil
}

type missingDependencyRegistrar struct{}

func (missingDependencyRegistrar) Register(_ []module.Module, b *di.Builder) error {
	return di.Bind[IFoo](b, func(unbound) IFoo { return &fooOne{} })
}

// moduleCounter inspects the candidate set it is given.
type moduleCounter struct{}

var seenModules atomic.Int32

func (moduleCounter) Register(mods []module.Module, _ *di.Builder) error {
	seenModules.Store(int32(len(mods)))
	return nil
}

// gate holds blockingRegistrar inside Register until release is closed.
var gate struct {
	entered chan struct{}
	release chan struct{}
}

type blockingRegistrar struct{}

func (blockingRegistrar) Register([]module.Module, *di.Builder) error {
	close(gate.entered)
	<-gate.release
	return nil
}

func greeterCatalog() *module.Catalog {
	c := module.NewCatalog()
	c.Declare("Vendor.Lib", (*vendorRegistrar)(nil), (*vendorSetter)(nil))
	c.Declare("App.Domain", (*greeterRegistrar)(nil), (*recordingSetter)(nil))
	return c
}

func newTestBootstrapper(c *module.Catalog, opts ...Option) *Bootstrapper {
	base := []Option{
		WithCatalog(c),
		WithSkipPattern(module.DefaultSkipPattern, `^vendor\.`),
		WithLogger(logger.Nop()),
	}
	return New(append(base, opts...)...)
}
