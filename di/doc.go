// Package di is the registration accumulator and resolution container used by
// the ioc bootstrap.
//
// Registrars write bindings into a Builder. A binding maps a contract type to a
// construction rule and a lifetime. Build validates the whole graph, freezes
// the builder and returns an immutable Container that is safe for concurrent
// use.
//
// # Registration
//
//	di.Bind[Greeter](b, NewGreeter, di.WithLifetime(di.Singleton))
//	di.BindType[Clock, SystemClock](b)
//	di.BindInstance[*Config](b, cfg)
//
// Constructors have the form func(deps...) T or func(deps...) (T, error);
// every parameter is resolved from the container by type. Binding the same
// contract twice replaces the earlier binding.
//
// # Resolution
//
//	greeter, err := di.Resolve[Greeter](container)
//	clock := di.MustResolve[Clock](container)
package di
