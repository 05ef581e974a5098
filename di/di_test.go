package di

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/kbukum/iocboot/errors"
	"github.com/kbukum/iocboot/logger"
)

type Greeter interface{ Greet(name string) string }

type english struct{ prefix string }

func (e *english) Greet(name string) string { return e.prefix + name }

type french struct{}

func (*french) Greet(name string) string { return "Bonjour " + name }

type Config struct{ Prefix string }

type Service struct {
	Greeter Greeter
	Config  *Config
}

type closer struct {
	name string
	log  *[]string
	err  error
}

func (c *closer) Close() error {
	*c.log = append(*c.log, c.name)
	return c.err
}

type A struct{}
type B struct{}

func newBuilder() *Builder { return NewBuilder(logger.Nop()) }

func mustBuild(t *testing.T, b *Builder) *Container {
	t.Helper()
	c, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return c
}

func TestBindAndResolve(t *testing.T) {
	b := newBuilder()
	if err := BindInstance(b, &Config{Prefix: "Hello "}); err != nil {
		t.Fatal(err)
	}
	if err := Bind[Greeter](b, func(cfg *Config) *english { return &english{prefix: cfg.Prefix} }); err != nil {
		t.Fatal(err)
	}
	if err := Bind[*Service](b, func(g Greeter, cfg *Config) (*Service, error) {
		return &Service{Greeter: g, Config: cfg}, nil
	}); err != nil {
		t.Fatal(err)
	}
	c := mustBuild(t, b)

	svc, err := Resolve[*Service](c)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got := svc.Greeter.Greet("Ada"); got != "Hello Ada" {
		t.Errorf("Greet() = %q", got)
	}
	if !c.IsRegistered(TypeOf[Greeter]()) {
		t.Error("expected Greeter to be registered")
	}
	if c.IsRegistered(TypeOf[*french]()) {
		t.Error("did not expect *french to be registered")
	}
	if !c.Built() {
		t.Error("expected Built() to be true")
	}
}

func TestResolveUnregistered(t *testing.T) {
	c := mustBuild(t, newBuilder())
	v, err := c.Resolve(TypeOf[Greeter]())
	if v != nil {
		t.Errorf("expected nil instance, got %v", v)
	}
	if !stderrors.Is(err, ErrProviderNotFound) {
		t.Fatalf("expected ErrProviderNotFound, got %v", err)
	}
	if errors.CodeOf(err) != errors.ErrCodeNotRegistered {
		t.Errorf("code = %s", errors.CodeOf(err))
	}
	appErr, _ := errors.AsAppError(err)
	if appErr.Details["contract"] != "di.Greeter" {
		t.Errorf("contract detail = %v", appErr.Details["contract"])
	}
}

func TestLastBindingWins(t *testing.T) {
	b := newBuilder()
	_ = BindType[Greeter, english](b)
	_ = BindType[Greeter, french](b)
	c := mustBuild(t, b)

	g := MustResolve[Greeter](c)
	if _, ok := g.(*french); !ok {
		t.Fatalf("expected *french, got %T", g)
	}
	regs := c.Registrations()
	if len(regs) != 1 || regs[0].Overrides != 1 || regs[0].Kind != "type" {
		t.Errorf("Registrations() = %+v", regs)
	}
}

func TestLifetimes(t *testing.T) {
	var calls atomic.Int32
	ctor := func() *english { calls.Add(1); return &english{} }

	t.Run("transient", func(t *testing.T) {
		calls.Store(0)
		b := newBuilder()
		_ = Bind[Greeter](b, ctor)
		c := mustBuild(t, b)
		first, second := MustResolve[Greeter](c), MustResolve[Greeter](c)
		if first == second {
			t.Error("transient should produce distinct instances")
		}
		if calls.Load() != 2 {
			t.Errorf("calls = %d", calls.Load())
		}
	})

	t.Run("singleton is lazy", func(t *testing.T) {
		calls.Store(0)
		b := newBuilder()
		_ = Bind[Greeter](b, ctor, AsSingleton())
		c := mustBuild(t, b)
		if calls.Load() != 0 {
			t.Fatalf("singleton constructed during build")
		}
		first, second := MustResolve[Greeter](c), MustResolve[Greeter](c)
		if first != second {
			t.Error("singleton should return the same instance")
		}
		if calls.Load() != 1 {
			t.Errorf("calls = %d", calls.Load())
		}
	})

	t.Run("eager", func(t *testing.T) {
		calls.Store(0)
		b := newBuilder()
		_ = Bind[Greeter](b, ctor, WithEager())
		c := mustBuild(t, b)
		if calls.Load() != 1 {
			t.Fatalf("eager singleton not constructed during build, calls = %d", calls.Load())
		}
		regs := c.Registrations()
		if !regs[0].Initialized || !regs[0].Eager || regs[0].Lifetime != Singleton {
			t.Errorf("Registrations() = %+v", regs)
		}
	})
}

func TestSingletonConcurrentResolve(t *testing.T) {
	var calls atomic.Int32
	b := newBuilder()
	_ = Bind[Greeter](b, func() *english { calls.Add(1); return &english{} }, AsSingleton())
	c := mustBuild(t, b)

	var wg sync.WaitGroup
	results := make([]Greeter, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = MustResolve[Greeter](c)
		}(i)
	}
	wg.Wait()

	if calls.Load() != 1 {
		t.Errorf("constructor called %d times", calls.Load())
	}
	for _, r := range results {
		if r != results[0] {
			t.Fatal("goroutines observed different singleton instances")
		}
	}
}

func TestBuildMissingDependency(t *testing.T) {
	b := newBuilder()
	_ = Bind[*Service](b, func(g Greeter) *Service { return &Service{Greeter: g} })
	_, err := b.Build()
	if !stderrors.Is(err, ErrProviderNotFound) {
		t.Fatalf("expected ErrProviderNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "required by *di.Service") {
		t.Errorf("error should name the dependent: %v", err)
	}
}

func TestBuildCircularDependency(t *testing.T) {
	b := newBuilder()
	_ = Bind[*A](b, func(*B) *A { return &A{} })
	_ = Bind[*B](b, func(*A) *B { return &B{} })
	_, err := b.Build()
	if !stderrors.Is(err, ErrCircularDependency) {
		t.Fatalf("expected ErrCircularDependency, got %v", err)
	}
	appErr, _ := errors.AsAppError(err)
	if appErr.Details["chain"] != "*di.A -> *di.B -> *di.A" {
		t.Errorf("chain = %v", appErr.Details["chain"])
	}
}

func TestBuildOnce(t *testing.T) {
	b := newBuilder()
	mustBuild(t, b)
	if _, err := b.Build(); !stderrors.Is(err, ErrAlreadyBuilt) {
		t.Errorf("second Build() error = %v", err)
	}
	if err := BindInstance(b, &Config{}); !stderrors.Is(err, ErrAlreadyBuilt) {
		t.Errorf("Bind after Build error = %v", err)
	}
}

func TestContainerIsSnapshot(t *testing.T) {
	b := newBuilder()
	_ = BindInstance(b, &Config{Prefix: "x"})
	c := mustBuild(t, b)
	if c.Len() != 1 {
		t.Fatalf("Len() = %d", c.Len())
	}
	if c.IsRegistered(TypeOf[Greeter]()) {
		t.Error("unexpected binding")
	}
}

func TestInvalidBindings(t *testing.T) {
	tests := []struct {
		name string
		bind func(b *Builder) error
	}{
		{"nil constructor", func(b *Builder) error { return Bind[Greeter](b, nil) }},
		{"not a function", func(b *Builder) error { return Bind[Greeter](b, "nope") }},
		{"nil function", func(b *Builder) error { return Bind[Greeter](b, (func() Greeter)(nil)) }},
		{"no results", func(b *Builder) error { return Bind[Greeter](b, func() {}) }},
		{"variadic", func(b *Builder) error { return Bind[Greeter](b, func(...int) Greeter { return nil }) }},
		{"second result not error", func(b *Builder) error { return Bind[Greeter](b, func() (Greeter, int) { return nil, 0 }) }},
		{"wrong result type", func(b *Builder) error { return Bind[Greeter](b, func() *Config { return nil }) }},
		{"nil contract", func(b *Builder) error { return b.Bind(nil, func() int { return 1 }) }},
		{"resolver contract", func(b *Builder) error { return Bind[Resolver](b, func() Resolver { return nil }) }},
		{"nil instance", func(b *Builder) error { return BindInstance[Greeter](b, nil) }},
		{"instance wrong type", func(b *Builder) error { return b.BindValue(TypeOf[Greeter](), &Config{}) }},
		{"interface impl", func(b *Builder) error { return BindType[Greeter, Greeter](b) }},
		{"impl does not implement", func(b *Builder) error { return BindType[Greeter, Config](b) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.bind(newBuilder())
			if !stderrors.Is(err, ErrInvalidBinding) {
				t.Errorf("expected ErrInvalidBinding, got %v", err)
			}
		})
	}
}

func TestConstructionFailure(t *testing.T) {
	boom := stderrors.New("boom")
	b := newBuilder()
	_ = Bind[Greeter](b, func() (Greeter, error) { return nil, boom })
	_ = Bind[*Service](b, func(g Greeter) *Service { return &Service{Greeter: g} })
	c := mustBuild(t, b)

	_, err := Resolve[*Service](c)
	if !stderrors.Is(err, ErrConstructionFailed) {
		t.Fatalf("expected ErrConstructionFailed, got %v", err)
	}
	if !stderrors.Is(err, boom) {
		t.Error("expected cause to be preserved")
	}
}

func TestEagerConstructionFailureAbortsBuild(t *testing.T) {
	b := newBuilder()
	_ = Bind[Greeter](b, func() (Greeter, error) { return nil, stderrors.New("boom") }, WithEager())
	c, err := b.Build()
	if c != nil || !stderrors.Is(err, ErrConstructionFailed) {
		t.Fatalf("Build() = %v, %v", c, err)
	}
}

func TestResolverIsSelfRegistered(t *testing.T) {
	b := newBuilder()
	_ = Bind[*Service](b, func(r Resolver) *Service {
		return &Service{Greeter: MustResolve[Greeter](r)}
	})
	_ = BindType[Greeter, french](b)
	c := mustBuild(t, b)

	if !c.IsRegistered(TypeOf[Resolver]()) {
		t.Error("Resolver should always be registered")
	}
	r := MustResolve[Resolver](c)
	if r != Resolver(c) {
		t.Error("expected the container itself")
	}
	svc := MustResolve[*Service](c)
	if svc.Greeter.Greet("Ada") != "Bonjour Ada" {
		t.Error("resolver dependency did not resolve")
	}
}

func TestBindTypeVariants(t *testing.T) {
	b := newBuilder()
	_ = BindType[Greeter, *english](b)
	_ = BindType[fmt.Stringer, Lifetime](b)
	c := mustBuild(t, b)

	if _, ok := MustResolve[Greeter](c).(*english); !ok {
		t.Error("expected *english")
	}
	if s := MustResolve[fmt.Stringer](c); s.String() != "transient" {
		t.Errorf("zero Lifetime = %q", s.String())
	}
}

func TestNilInterfaceResult(t *testing.T) {
	b := newBuilder()
	_ = Bind[Greeter](b, func() Greeter { return nil })
	c := mustBuild(t, b)
	g, err := Resolve[Greeter](c)
	if err != nil || g != nil {
		t.Errorf("Resolve() = %v, %v", g, err)
	}
}

func TestTryResolve(t *testing.T) {
	b := newBuilder()
	_ = BindInstance(b, &Config{Prefix: "p"})
	c := mustBuild(t, b)

	if cfg, ok := TryResolve[*Config](c); !ok || cfg.Prefix != "p" {
		t.Errorf("TryResolve[*Config] = %v, %v", cfg, ok)
	}
	if _, ok := TryResolve[Greeter](c); ok {
		t.Error("TryResolve should report missing contracts")
	}
}

func TestMustResolvePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	MustResolve[Greeter](mustBuild(t, newBuilder()))
}

func TestCloseReverseOrder(t *testing.T) {
	var log []string
	b := newBuilder()
	_ = Bind[*closer](b, func() *closer { return &closer{name: "first", log: &log} }, AsSingleton())
	_ = Bind[io2](b, func(*closer) *closer { return &closer{name: "second", log: &log} }, AsSingleton())
	_ = BindInstance(b, &Config{})
	c := mustBuild(t, b)

	_ = MustResolve[io2](c)
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !reflect.DeepEqual(log, []string{"second", "first"}) {
		t.Errorf("close order = %v", log)
	}
	if err := c.Close(); err != nil || len(log) != 2 {
		t.Error("Close should be idempotent")
	}
}

// io2 is a second closer contract so two closers can be bound.
type io2 interface{ Close() error }

func TestCloseReportsErrors(t *testing.T) {
	var log []string
	b := newBuilder()
	_ = Bind[*closer](b, func() *closer {
		return &closer{name: "bad", log: &log, err: stderrors.New("close failed")}
	}, WithEager())
	c := mustBuild(t, b)
	if err := c.Close(); err == nil {
		t.Error("expected close error")
	}
}

func TestCloseSkipsTypedNilSingletons(t *testing.T) {
	var log []string
	b := newBuilder()
	_ = Bind[*closer](b, func() *closer { return nil }, AsSingleton())
	_ = Bind[io2](b, func() io2 { return (*closer)(nil) }, AsSingleton())
	c := mustBuild(t, b)

	if v := MustResolve[*closer](c); v != nil {
		t.Fatalf("Resolve[*closer] = %v, want nil", v)
	}
	_ = MustResolve[io2](c)
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if len(log) != 0 {
		t.Errorf("closed %v, want nothing", log)
	}
}

func TestBuilderIntrospection(t *testing.T) {
	b := newBuilder()
	_ = BindInstance(b, &Config{})
	_ = Bind[Greeter](b, func() Greeter { return &french{} }, AsSingleton())
	if !b.Has(TypeOf[Greeter]()) || b.Has(TypeOf[*Service]()) {
		t.Error("Has() mismatch")
	}
	if b.Len() != 2 {
		t.Errorf("Len() = %d", b.Len())
	}
	regs := b.Bindings()
	if regs[0].Contract != "*di.Config" || regs[0].Kind != "instance" || !regs[0].Initialized {
		t.Errorf("regs[0] = %+v", regs[0])
	}
	if regs[1].Contract != "di.Greeter" || regs[1].Lifetime != Singleton || regs[1].Initialized {
		t.Errorf("regs[1] = %+v", regs[1])
	}
}

func TestLifetimeString(t *testing.T) {
	if Transient.String() != "transient" || Singleton.String() != "singleton" || Lifetime(9).String() != "unknown" {
		t.Error("unexpected lifetime names")
	}
	text, _ := Singleton.MarshalText()
	if string(text) != "singleton" {
		t.Errorf("MarshalText() = %s", text)
	}
}

func TestLifetimeUnmarshalText(t *testing.T) {
	var l Lifetime
	if err := l.UnmarshalText([]byte("singleton")); err != nil || l != Singleton {
		t.Errorf("UnmarshalText(singleton) = %s, %v", l, err)
	}
	if err := l.UnmarshalText([]byte("scoped")); err == nil {
		t.Error("expected an error for an unknown lifetime")
	}
}
