package di

import (
	"strconv"

	"github.com/kbukum/iocboot/errors"
)

// Lifetime controls how many instances a binding produces.
type Lifetime int

const (
	// Transient constructs a new instance on every resolution.
	Transient Lifetime = iota
	// Singleton constructs one instance per container, on first resolution
	// unless the binding is eager.
	Singleton
)

func (l Lifetime) String() string {
	switch l {
	case Transient:
		return "transient"
	case Singleton:
		return "singleton"
	default:
		return "unknown"
	}
}

// MarshalText renders the lifetime by name.
func (l Lifetime) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText parses a lifetime name.
func (l *Lifetime) UnmarshalText(text []byte) error {
	switch string(text) {
	case "transient":
		*l = Transient
	case "singleton":
		*l = Singleton
	default:
		return errors.InvalidInput("lifetime", "unknown lifetime "+strconv.Quote(string(text)))
	}
	return nil
}

// Option configures a binding.
type Option func(*binding)

// WithLifetime sets the lifetime of a binding.
func WithLifetime(l Lifetime) Option {
	return func(b *binding) { b.lifetime = l }
}

// AsSingleton is WithLifetime(Singleton).
func AsSingleton() Option { return WithLifetime(Singleton) }

// WithEager makes the binding a singleton that is constructed during Build.
func WithEager() Option {
	return func(b *binding) {
		b.lifetime = Singleton
		b.eager = true
	}
}
