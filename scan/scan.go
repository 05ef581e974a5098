// Package scan finds the declared types in a module set that implement a
// capability interface, and instantiates them.
//
// Scanning is read-only. Results follow module order, then declaration order
// within a module; a type declared more than once is reported once, at its
// first position.
package scan

import (
	"reflect"

	"github.com/kbukum/iocboot/errors"
	"github.com/kbukum/iocboot/module"
)

// Types returns the concrete types in mods whose pointer implements the
// capability interface T. The returned types are the element types that
// reflect.New instantiates.
func Types[T any](mods []module.Module) ([]reflect.Type, error) {
	capability := reflect.TypeFor[T]()
	if capability.Kind() != reflect.Interface {
		return nil, errors.InvalidBinding("capability must be an interface type").
			WithDetail("capability", capability.String())
	}

	seen := make(map[reflect.Type]struct{})
	var out []reflect.Type
	for _, m := range mods {
		for _, declared := range m.Types {
			base, ok := concrete(declared)
			if !ok {
				continue
			}
			if _, dup := seen[base]; dup {
				continue
			}
			if !reflect.PointerTo(base).Implements(capability) {
				continue
			}
			seen[base] = struct{}{}
			out = append(out, base)
		}
	}
	return out, nil
}

// Instances returns a fresh instance of every type Types finds, in the same order.
func Instances[T any](mods []module.Module) ([]T, error) {
	types, err := Types[T](mods)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(types))
	for _, t := range types {
		out = append(out, reflect.New(t).Interface().(T))
	}
	return out, nil
}

// Name returns a readable name for a discovered instance, used in logs and errors.
func Name(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return "<nil>"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

// concrete strips one pointer level from a declared prototype type and rejects
// interfaces and unnamed pointer chains.
func concrete(declared reflect.Type) (reflect.Type, bool) {
	if declared == nil {
		return nil, false
	}
	base := declared
	if base.Kind() == reflect.Pointer {
		base = base.Elem()
	}
	switch base.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Invalid:
		return nil, false
	}
	return base, true
}
