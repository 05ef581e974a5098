package ioc

import (
	"github.com/kbukum/iocboot/di"
	"github.com/kbukum/iocboot/errors"
	"github.com/kbukum/iocboot/module"
)

// Registrar contributes bindings during the first pass. Registrars receive
// every candidate module so they can compose across modules.
type Registrar interface {
	Register(modules []module.Module, b *di.Builder) error
}

// ResolverSetter receives the finished container during the second pass.
type ResolverSetter interface {
	SetResolver(r di.Resolver)
}

// State is the lifecycle state of a Bootstrapper.
type State int32

const (
	StateUninitialized State = iota
	StateRegistering
	StateBuilt
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRegistering:
		return "registering"
	case StateBuilt:
		return "built"
	default:
		return "unknown"
	}
}

// Sentinel errors; match with errors.Is.
var (
	ErrNotInitialized     = errors.NotInitialized()
	ErrAlreadyInitialized = errors.AlreadyInitialized()
	ErrRegistration       = errors.RegistrationFailed("", nil)
)
