package module

import (
	"strings"

	"github.com/kbukum/iocboot/errors"
	"github.com/kbukum/iocboot/version"
)

// Source enumerates candidate modules in a deterministic order.
type Source interface {
	Enumerate() ([]Module, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func() ([]Module, error)

// Enumerate calls f.
func (f SourceFunc) Enumerate() ([]Module, error) { return f() }

// Standalone enumerates every module declared in the catalog.
func Standalone(c *Catalog) Source {
	return SourceFunc(c.Modules)
}

// RefsFunc lists the modules linked into the running application.
type RefsFunc func() ([]version.ModuleRef, error)

// Hosted enumerates the declared modules that belong to the running
// application: the main module and the dependencies it references. A nil refs
// reads them from the binary's build info.
func Hosted(c *Catalog, refs RefsFunc) Source {
	if refs == nil {
		refs = version.BuildModules
	}
	return SourceFunc(func() ([]Module, error) {
		linked, err := refs()
		if err != nil {
			return nil, err
		}
		all, err := c.Modules()
		if err != nil {
			return nil, err
		}
		out := make([]Module, 0, len(all))
		for _, m := range all {
			if referenced(m.Name, linked) {
				out = append(out, m)
			}
		}
		return out, nil
	})
}

// Static enumerates exactly the given modules. Intended for tests.
func Static(mods ...Module) Source {
	return SourceFunc(func() ([]Module, error) {
		for _, m := range mods {
			if m.Name == "" {
				return nil, errors.EnumerationFailed(nil).WithMessage("Module declared with an empty name.")
			}
		}
		return append([]Module(nil), mods...), nil
	})
}

// referenced reports whether the package path name lives in one of the linked modules.
func referenced(name string, linked []version.ModuleRef) bool {
	for _, ref := range linked {
		if name == ref.Path || strings.HasPrefix(name, ref.Path+"/") {
			return true
		}
	}
	return false
}
