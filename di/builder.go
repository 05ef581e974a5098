package di

import (
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/kbukum/iocboot/errors"
	"github.com/kbukum/iocboot/logger"
)

var (
	errorType    = reflect.TypeFor[error]()
	resolverType = reflect.TypeFor[Resolver]()
)

// binding is one contract's construction rule.
type binding struct {
	contract  reflect.Type
	kind      string
	lifetime  Lifetime
	eager     bool
	deps      []reflect.Type
	construct func(args []reflect.Value) (reflect.Value, error)
	value     reflect.Value
	overrides int
}

// Builder accumulates bindings before the container is built. It is safe for
// concurrent use, but registrars are normally invoked one at a time.
type Builder struct {
	mu       sync.Mutex
	bindings map[reflect.Type]*binding
	order    []reflect.Type
	built    bool
	log      *logger.Logger
}

// NewBuilder returns an empty builder. A nil log uses the global logger.
func NewBuilder(log *logger.Logger) *Builder {
	if log == nil {
		log = logger.WithComponent("di")
	}
	return &Builder{
		bindings: make(map[reflect.Type]*binding),
		log:      log,
	}
}

// Bind registers constructor for contract. The constructor must be a
// non-variadic func(deps...) T or func(deps...) (T, error) with T assignable
// to contract.
func (b *Builder) Bind(contract reflect.Type, constructor any, opts ...Option) error {
	if err := checkContract(contract); err != nil {
		return err
	}
	name := contract.String()
	if constructor == nil {
		return invalid(name, "Constructor for %s is nil.", name)
	}
	fn := reflect.ValueOf(constructor)
	ft := fn.Type()
	switch {
	case ft.Kind() != reflect.Func:
		return invalid(name, "Constructor for %s must be a function, got %s.", name, ft)
	case fn.IsNil():
		return invalid(name, "Constructor for %s is a nil function.", name)
	case ft.IsVariadic():
		return invalid(name, "Constructor for %s must not be variadic.", name)
	case ft.NumOut() == 0 || ft.NumOut() > 2:
		return invalid(name, "Constructor for %s must return (T) or (T, error).", name)
	case ft.NumOut() == 2 && ft.Out(1) != errorType:
		return invalid(name, "Second result of the constructor for %s must be error.", name)
	case !ft.Out(0).AssignableTo(contract):
		return invalid(name, "Constructor result %s is not assignable to %s.", ft.Out(0), name)
	}

	deps := make([]reflect.Type, ft.NumIn())
	for i := range deps {
		deps[i] = ft.In(i)
	}
	return b.add(&binding{
		contract: contract,
		kind:     "constructor",
		deps:     deps,
		construct: func(args []reflect.Value) (reflect.Value, error) {
			out := fn.Call(args)
			if len(out) == 2 && !out[1].IsNil() {
				return reflect.Value{}, out[1].Interface().(error)
			}
			return out[0], nil
		},
	}, opts)
}

// BindValue registers an existing instance for contract. The instance is
// owned by the caller and is not closed by the container.
func (b *Builder) BindValue(contract reflect.Type, value any) error {
	if err := checkContract(contract); err != nil {
		return err
	}
	name := contract.String()
	if value == nil {
		return invalid(name, "Instance for %s is nil.", name)
	}
	v := reflect.ValueOf(value)
	if !v.Type().AssignableTo(contract) {
		return invalid(name, "Instance of %s is not assignable to %s.", v.Type(), name)
	}
	return b.add(&binding{
		contract: contract,
		kind:     "instance",
		lifetime: Singleton,
		value:    v,
	}, nil)
}

// BindType registers impl as the implementation of contract. Struct types are
// instantiated as zero-valued pointers; other types as their zero value.
func (b *Builder) BindType(contract, impl reflect.Type, opts ...Option) error {
	if err := checkContract(contract); err != nil {
		return err
	}
	name := contract.String()
	if impl == nil || impl.Kind() == reflect.Interface {
		return invalid(name, "Implementation for %s must be a concrete type.", name)
	}

	var construct func() reflect.Value
	switch {
	case impl.Kind() == reflect.Pointer && impl.AssignableTo(contract):
		elem := impl.Elem()
		construct = func() reflect.Value { return reflect.New(elem) }
	case impl.Kind() == reflect.Struct && reflect.PointerTo(impl).AssignableTo(contract):
		construct = func() reflect.Value { return reflect.New(impl) }
	case impl.AssignableTo(contract):
		construct = func() reflect.Value { return reflect.Zero(impl) }
	default:
		return invalid(name, "%s does not implement %s.", impl, name)
	}
	return b.add(&binding{
		contract: contract,
		kind:     "type",
		construct: func([]reflect.Value) (reflect.Value, error) {
			return construct(), nil
		},
	}, opts)
}

// Has reports whether contract is bound so far.
func (b *Builder) Has(contract reflect.Type) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.bindings[contract]
	return ok
}

// Len returns the number of bound contracts.
func (b *Builder) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.order)
}

// Bindings describes the current bindings in first-registration order.
func (b *Builder) Bindings() []RegistrationInfo {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]RegistrationInfo, 0, len(b.order))
	for _, t := range b.order {
		out = append(out, describe(b.bindings[t], false))
	}
	return out
}

func (b *Builder) add(bnd *binding, opts []Option) error {
	for _, opt := range opts {
		opt(bnd)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.built {
		return errors.AlreadyBuilt().WithDetail("contract", bnd.contract.String())
	}

	if prev, ok := b.bindings[bnd.contract]; ok {
		bnd.overrides = prev.overrides + 1
		b.log.Debug("binding overridden", logger.Fields(
			logger.FieldContract, bnd.contract.String(),
			"previous", prev.kind,
			"current", bnd.kind,
		))
	} else {
		b.order = append(b.order, bnd.contract)
	}
	b.bindings[bnd.contract] = bnd
	return nil
}

// Build validates the binding graph, freezes the builder, constructs eager
// singletons and returns the container. It can be called once; a failed Build
// still freezes the builder.
func (b *Builder) Build() (*Container, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.built {
		return nil, errors.AlreadyBuilt()
	}
	b.built = true
	start := time.Now()

	states := make(map[reflect.Type]visitState, len(b.bindings))
	for _, t := range b.order {
		if err := b.validate(t, states, nil); err != nil {
			return nil, err
		}
	}

	c := newContainer(b.bindings, b.order, b.log)
	eager := 0
	for _, t := range b.order {
		if !c.entries[t].eager {
			continue
		}
		if _, err := c.value(t); err != nil {
			_ = c.Close()
			return nil, err
		}
		eager++
	}

	b.log.Debug("container built", logger.Fields(
		"bindings", len(b.order),
		"eager", eager,
		logger.FieldDuration, time.Since(start).Milliseconds(),
	))
	return c, nil
}

type visitState int

const (
	unvisited visitState = iota
	visiting
	visited
)

// validate walks the dependency graph depth-first, reporting missing
// providers and cycles with the full chain.
func (b *Builder) validate(t reflect.Type, states map[reflect.Type]visitState, stack []reflect.Type) error {
	if t == resolverType {
		return nil
	}
	switch states[t] {
	case visiting:
		return cycleError(t, stack)
	case visited:
		return nil
	}

	bnd, ok := b.bindings[t]
	if !ok {
		err := errors.NotRegistered(t.String())
		if len(stack) > 0 {
			err = err.WithMessage("No binding is registered for %s, required by %s.", t, stack[len(stack)-1]).
				WithDetail("required_by", stack[len(stack)-1].String())
		}
		return err
	}

	states[t] = visiting
	stack = append(stack, t)
	for _, dep := range bnd.deps {
		if err := b.validate(dep, states, stack); err != nil {
			return err
		}
	}
	states[t] = visited
	return nil
}

func cycleError(t reflect.Type, stack []reflect.Type) error {
	start := 0
	for i, s := range stack {
		if s == t {
			start = i
			break
		}
	}
	parts := make([]string, 0, len(stack)-start+1)
	for _, s := range stack[start:] {
		parts = append(parts, s.String())
	}
	parts = append(parts, t.String())
	return errors.CircularDependency(strings.Join(parts, " -> "))
}

func checkContract(contract reflect.Type) error {
	if contract == nil {
		return invalid("", "Contract type is nil.")
	}
	if contract == resolverType {
		return invalid(contract.String(), "%s is provided by the container and cannot be bound.", contract)
	}
	return nil
}
