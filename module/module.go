package module

import (
	"reflect"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/kbukum/iocboot/errors"
)

// ErrEnumeration matches every module discovery failure.
var ErrEnumeration = errors.EnumerationFailed(nil)

// Module is one unit of loaded code: a fully qualified name and the types it
// declared, in declaration order.
type Module struct {
	Name  string
	Types []reflect.Type
}

// Catalog records module declarations in the order they happen.
// Modules are ordered by their first declaration.
type Catalog struct {
	mu      sync.Mutex
	order   []string
	modules map[string]*Module
	invalid []string
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{modules: make(map[string]*Module)}
}

// Declare appends prototypes to the module called name, creating it on first use.
// Invalid declarations are remembered and reported by Modules, since Declare
// usually runs from init where there is nobody to return an error to.
func (c *Catalog) Declare(name string, prototypes ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		c.invalid = append(c.invalid, "module declared with an empty name")
		return
	}
	m, ok := c.modules[name]
	if !ok {
		m = &Module{Name: name}
		c.modules[name] = m
		c.order = append(c.order, name)
	}
	for i, p := range prototypes {
		if p == nil {
			c.invalid = append(c.invalid, name+": untyped nil prototype at position "+strconv.Itoa(i))
			continue
		}
		m.Types = append(m.Types, reflect.TypeOf(p))
	}
}

// Modules returns a snapshot of the declared modules. It fails if any
// declaration was invalid.
func (c *Catalog) Modules() ([]Module, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.invalid) > 0 {
		return nil, errors.EnumerationFailed(nil).
			WithMessage("Invalid module declaration: %s", strings.Join(c.invalid, "; "))
	}
	out := make([]Module, 0, len(c.order))
	for _, name := range c.order {
		m := c.modules[name]
		out = append(out, Module{Name: m.Name, Types: append([]reflect.Type(nil), m.Types...)})
	}
	return out, nil
}

// Len returns the number of declared modules.
func (c *Catalog) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.order)
}

var defaultCatalog = NewCatalog()

// Default returns the process-wide catalog that Declare writes to.
func Default() *Catalog { return defaultCatalog }

// Declare records prototypes for the named module in the default catalog.
func Declare(name string, prototypes ...any) {
	defaultCatalog.Declare(name, prototypes...)
}

// Self returns the import path of the package that calls it.
func Self() string {
	pc, _, _, ok := runtime.Caller(1)
	if !ok {
		return ""
	}
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return ""
	}
	return packageOf(fn.Name())
}

// packageOf strips the function part from a qualified symbol name such as
// "github.com/acme/app/greeter.init.0". Dots in the last path element are
// escaped as %2e by the linker.
func packageOf(symbol string) string {
	slash := strings.LastIndex(symbol, "/")
	if dot := strings.Index(symbol[slash+1:], "."); dot >= 0 {
		symbol = symbol[:slash+1+dot]
	}
	return strings.ReplaceAll(symbol, "%2e", ".")
}
