package di

import (
	"fmt"
	"reflect"
)

// TypeOf returns the contract type for T.
func TypeOf[T any]() reflect.Type { return reflect.TypeFor[T]() }

// Bind registers constructor for contract T.
//
//	di.Bind[Greeter](b, func(cfg *Config) Greeter { return &english{cfg} })
func Bind[T any](b *Builder, constructor any, opts ...Option) error {
	return b.Bind(TypeOf[T](), constructor, opts...)
}

// BindInstance registers v as the singleton for contract T.
func BindInstance[T any](b *Builder, v T) error {
	return b.BindValue(TypeOf[T](), v)
}

// BindType registers Impl as the implementation of contract T.
//
//	di.BindType[Greeter, English](b, di.AsSingleton())
func BindType[T, Impl any](b *Builder, opts ...Option) error {
	return b.BindType(TypeOf[T](), TypeOf[Impl](), opts...)
}

// Resolve resolves contract T.
func Resolve[T any](r Resolver) (T, error) {
	var zero T
	v, err := r.Resolve(TypeOf[T]())
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	result, ok := v.(T)
	if !ok {
		return zero, invalid(TypeOf[T]().String(), "Resolved %T is not a %s.", v, TypeOf[T]())
	}
	return result, nil
}

// MustResolve resolves contract T and panics on failure.
func MustResolve[T any](r Resolver) T {
	v, err := Resolve[T](r)
	if err != nil {
		panic(fmt.Sprintf("di: failed to resolve %s: %v", TypeOf[T](), err))
	}
	return v
}

// TryResolve resolves contract T, reporting false instead of an error.
func TryResolve[T any](r Resolver) (T, bool) {
	v, err := Resolve[T](r)
	if err != nil {
		var zero T
		return zero, false
	}
	return v, true
}
