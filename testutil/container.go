package testutil

import (
	"context"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/kbukum/iocboot/ioc"
	"github.com/kbukum/iocboot/logger"
	"github.com/kbukum/iocboot/module"
)

// Journal is a concurrency-safe, ordered record of events. A nil *Journal
// discards everything.
type Journal struct {
	mu      sync.Mutex
	entries []string
}

// Record appends an event.
func (j *Journal) Record(event string) {
	if j == nil {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, event)
}

// Entries returns a copy of the recorded events.
func (j *Journal) Entries() []string {
	if j == nil {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.entries...)
}

// String joins the events with commas.
func (j *Journal) String() string {
	return strings.Join(j.Entries(), ",")
}

// Count returns how many times event was recorded.
func (j *Journal) Count(event string) int {
	n := 0
	for _, e := range j.Entries() {
		if e == event {
			n++
		}
	}
	return n
}

// Reset forgets every event.
func (j *Journal) Reset() {
	if j == nil {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = nil
}

// ModuleOf builds a module from prototype values, the same way
// module.Declare records them.
func ModuleOf(name string, prototypes ...any) module.Module {
	m := module.Module{Name: name}
	for _, p := range prototypes {
		m.Types = append(m.Types, reflect.TypeOf(p))
	}
	return m
}

// NewBootstrapper returns an uninitialized bootstrapper that enumerates
// exactly mods and logs nowhere. Extra options are applied last.
func NewBootstrapper(mods []module.Module, opts ...ioc.Option) *ioc.Bootstrapper {
	base := []ioc.Option{
		ioc.WithSource(module.Static(mods...)),
		ioc.WithLogger(logger.Nop()),
	}
	return ioc.New(append(base, opts...)...)
}

// Bootstrap initializes a bootstrapper over mods, failing the test on error.
// The container is closed when the test ends.
func Bootstrap(t testing.TB, mods ...module.Module) *ioc.Bootstrapper {
	t.Helper()
	b := NewBootstrapper(mods)
	if err := b.Initialize(context.Background(), false); err != nil {
		t.Fatalf("Initialize() failed: %v", err)
	}
	t.Cleanup(func() {
		if err := b.Close(); err != nil {
			t.Errorf("Close() failed: %v", err)
		}
	})
	return b
}
