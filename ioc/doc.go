// Package ioc bootstraps the process-wide resolution container.
//
// Initialize runs two passes over the discovered modules. Every Registrar
// writes bindings into a di.Builder; the builder is frozen into a
// di.Container; then every ResolverSetter receives the finished container.
//
//	func init() {
//		module.Declare(module.Self(), (*Registrar)(nil))
//	}
//
//	type Registrar struct{}
//
//	func (Registrar) Register(mods []module.Module, b *di.Builder) error {
//		return di.BindType[Greeter, English](b, di.AsSingleton())
//	}
//
//	// in main
//	if err := ioc.Initialize(true); err != nil { ... }
//	greeter, err := ioc.Create[Greeter]()
//
// A Bootstrapper moves through Uninitialized, Registering and Built. Queries
// are only answered in Built; earlier calls fail with ErrNotInitialized. A
// Bootstrapper initializes once; a second Initialize fails with
// ErrAlreadyInitialized, while a failed Initialize may be retried.
package ioc
