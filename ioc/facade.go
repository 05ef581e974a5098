package ioc

import (
	"context"
	"fmt"
	"reflect"
	"sync/atomic"

	"github.com/kbukum/iocboot/di"
	"github.com/kbukum/iocboot/errors"
)

var defaultBootstrapper atomic.Pointer[Bootstrapper]

// Default returns the process-wide Bootstrapper used by the package-level
// functions, creating it on first use.
func Default() *Bootstrapper {
	if b := defaultBootstrapper.Load(); b != nil {
		return b
	}
	defaultBootstrapper.CompareAndSwap(nil, New())
	return defaultBootstrapper.Load()
}

// SetDefault replaces the process-wide Bootstrapper. It fails once the current
// default has started initializing, so holders of the published container never
// see it swapped. The current default is held in StateRegistering during the
// swap, which makes a racing Initialize on it fail instead of proceeding on a
// Bootstrapper that is no longer the default.
func SetDefault(b *Bootstrapper) error {
	if b == nil {
		return errors.InvalidInput("bootstrapper", "must not be nil")
	}
	for {
		cur := defaultBootstrapper.Load()
		if cur == nil {
			if defaultBootstrapper.CompareAndSwap(nil, b) {
				return nil
			}
			continue
		}
		if !cur.state.CompareAndSwap(int32(StateUninitialized), int32(StateRegistering)) {
			return errors.AlreadyInitialized().WithDetail("state", cur.State().String())
		}
		swapped := defaultBootstrapper.CompareAndSwap(cur, b)
		cur.state.Store(int32(StateUninitialized))
		if swapped {
			return nil
		}
	}
}

// Initialize initializes the default Bootstrapper. hosted limits discovery to
// the modules linked into the running application.
func Initialize(hosted bool) error {
	return Default().Initialize(context.Background(), hosted)
}

// Create resolves contract T from the default container.
func Create[T any]() (T, error) {
	return CreateFrom[T](Default())
}

// MustCreate is Create that panics on failure.
func MustCreate[T any]() T {
	v, err := Create[T]()
	if err != nil {
		panic(fmt.Sprintf("ioc: create %s: %v", di.TypeOf[T](), err))
	}
	return v
}

// CreateType resolves contract from the default container.
func CreateType(contract reflect.Type) (any, error) {
	return Default().Create(contract)
}

// IsRegistered reports whether contract T is bound in the default container.
func IsRegistered[T any]() (bool, error) {
	return Default().IsRegistered(di.TypeOf[T]())
}

// IsRegisteredType reports whether contract is bound in the default container.
func IsRegisteredType(contract reflect.Type) (bool, error) {
	return Default().IsRegistered(contract)
}

// CreateFrom resolves contract T from b.
func CreateFrom[T any](b *Bootstrapper) (T, error) {
	var zero T
	v, err := b.Create(di.TypeOf[T]())
	if err != nil || v == nil {
		return zero, err
	}
	result, ok := v.(T)
	if !ok {
		return zero, errors.InvalidBinding("resolved instance has the wrong type").
			WithDetail("contract", di.TypeOf[T]().String())
	}
	return result, nil
}
