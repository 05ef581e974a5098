package di

import (
	stderrors "errors"
	"io"
	"reflect"
	"sync"

	"github.com/kbukum/iocboot/errors"
	"github.com/kbukum/iocboot/logger"
)

// Resolver is the read side of a built container. ResolverSetters receive one.
type Resolver interface {
	// Resolve returns an instance for contract according to its lifetime.
	Resolve(contract reflect.Type) (any, error)
	// IsRegistered reports whether contract has a binding.
	IsRegistered(contract reflect.Type) bool
	// Built reports whether the resolver is backed by a finished container.
	Built() bool
}

// RegistrationInfo describes a binding for introspection.
type RegistrationInfo struct {
	Contract    string   `json:"contract"`
	Kind        string   `json:"kind"`
	Lifetime    Lifetime `json:"lifetime"`
	Eager       bool     `json:"eager"`
	Overrides   int      `json:"overrides"`
	Initialized bool     `json:"initialized"`
}

type entry struct {
	*binding

	mu       sync.RWMutex
	done     bool
	instance reflect.Value
}

// Container is an immutable set of bindings produced by Builder.Build.
// It is safe for concurrent use.
type Container struct {
	entries map[reflect.Type]*entry
	order   []reflect.Type
	log     *logger.Logger

	mu      sync.Mutex
	closers []io.Closer
	closed  bool
}

var _ Resolver = (*Container)(nil)

func newContainer(bindings map[reflect.Type]*binding, order []reflect.Type, log *logger.Logger) *Container {
	c := &Container{
		entries: make(map[reflect.Type]*entry, len(bindings)),
		order:   append([]reflect.Type(nil), order...),
		log:     log,
	}
	for t, b := range bindings {
		cp := *b
		c.entries[t] = &entry{binding: &cp}
	}
	return c
}

// Resolve returns an instance for contract. An unknown contract yields an
// error matching ErrProviderNotFound, never a nil instance.
func (c *Container) Resolve(contract reflect.Type) (any, error) {
	if contract == nil {
		return nil, invalid("", "Contract type is nil.")
	}
	v, err := c.value(contract)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

// IsRegistered reports whether contract has a binding. The Resolver contract
// is always registered.
func (c *Container) IsRegistered(contract reflect.Type) bool {
	if contract == resolverType {
		return true
	}
	_, ok := c.entries[contract]
	return ok
}

// Built is always true; a Container only exists after a successful Build.
func (c *Container) Built() bool { return c != nil }

// Len returns the number of bindings.
func (c *Container) Len() int { return len(c.order) }

// Registrations describes every binding in first-registration order.
func (c *Container) Registrations() []RegistrationInfo {
	out := make([]RegistrationInfo, 0, len(c.order))
	for _, t := range c.order {
		e := c.entries[t]
		e.mu.RLock()
		done := e.done
		e.mu.RUnlock()
		out = append(out, describe(e.binding, done))
	}
	return out
}

// Close closes every singleton the container constructed that implements
// io.Closer, in reverse construction order. Instances bound with BindValue
// belong to the caller and are left alone. Close is idempotent.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true

	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	if len(errs) > 0 {
		c.log.Warn("closing singletons failed", logger.Fields(logger.FieldCount, len(errs)))
		return errors.Internal(stderrors.Join(errs...))
	}
	return nil
}

func (c *Container) value(t reflect.Type) (reflect.Value, error) {
	if t == resolverType {
		return reflect.ValueOf(c), nil
	}
	e, ok := c.entries[t]
	if !ok {
		return reflect.Value{}, notRegistered(t.String())
	}
	if e.value.IsValid() {
		return e.value, nil
	}
	if e.lifetime == Transient {
		return c.construct(e)
	}

	e.mu.RLock()
	if e.done {
		v := e.instance
		e.mu.RUnlock()
		return v, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.done {
		return e.instance, nil
	}
	v, err := c.construct(e)
	if err != nil {
		return reflect.Value{}, err
	}
	e.instance = v
	e.done = true
	c.track(v)
	return v, nil
}

func (c *Container) construct(e *entry) (reflect.Value, error) {
	args := make([]reflect.Value, len(e.deps))
	for i, dep := range e.deps {
		v, err := c.value(dep)
		if err != nil {
			return reflect.Value{}, err
		}
		args[i] = v
	}
	v, err := e.construct(args)
	if err != nil {
		return reflect.Value{}, errors.ConstructionFailed(e.contract.String(), err)
	}
	return v, nil
}

func (c *Container) track(v reflect.Value) {
	for v.IsValid() && v.Kind() == reflect.Interface {
		v = v.Elem()
	}
	if !v.IsValid() || !v.CanInterface() || isNil(v) {
		return
	}
	closer, ok := v.Interface().(io.Closer)
	if !ok || closer == nil {
		return
	}
	c.mu.Lock()
	c.closers = append(c.closers, closer)
	c.mu.Unlock()
}

// isNil reports whether v is a nil pointer, map, slice, func or chan. A typed
// nil satisfies io.Closer but must not be closed.
func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}

func describe(b *binding, initialized bool) RegistrationInfo {
	return RegistrationInfo{
		Contract:    b.contract.String(),
		Kind:        b.kind,
		Lifetime:    b.lifetime,
		Eager:       b.eager,
		Overrides:   b.overrides,
		Initialized: initialized || b.value.IsValid(),
	}
}
