package locale

import (
	"context"
	"testing"

	dbtest "github.com/kbukum/iocboot/database/testutil"
	"github.com/kbukum/iocboot/di"
	"github.com/kbukum/iocboot/internal/greeter"
	"github.com/kbukum/iocboot/ioc"
	"github.com/kbukum/iocboot/logger"
	"github.com/kbukum/iocboot/module"
	"github.com/kbukum/iocboot/testutil"
)

func TestRegistrar_OverridesPhrasebook(t *testing.T) {
	db := dbtest.Open(t, greeter.Models()...)
	mods := []module.Module{
		testutil.ModuleOf("github.com/kbukum/iocboot/internal/greeter", (*greeter.Registrar)(nil)),
		testutil.ModuleOf("github.com/kbukum/iocboot/internal/greeter/locale", (*Registrar)(nil)),
	}
	b := testutil.NewBootstrapper(mods, ioc.WithBindings(func(b *di.Builder) error {
		if err := di.BindInstance(b, logger.Nop()); err != nil {
			return err
		}
		return di.BindInstance(b, db)
	}))
	if err := b.Initialize(context.Background(), false); err != nil {
		t.Fatalf("Initialize() failed: %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })

	g, err := ioc.CreateFrom[greeter.Greeter](b)
	if err != nil {
		t.Fatalf("Create[Greeter]() failed: %v", err)
	}
	tests := map[string]string{
		"en": "Hello, Ada!",
		"fr": "Bonjour, Ada !",
		"DE": "Hallo, Ada!",
	}
	for lang, want := range tests {
		got, err := g.Greet(context.Background(), "Ada", lang)
		if err != nil {
			t.Fatalf("Greet(%s) failed: %v", lang, err)
		}
		if got != want {
			t.Errorf("Greet(%s) = %q, want %q", lang, got, want)
		}
	}

	c, _ := b.Container()
	for _, info := range c.Registrations() {
		if info.Contract == di.TypeOf[greeter.Phrasebook]().String() && info.Overrides != 1 {
			t.Errorf("Phrasebook overrides = %d, want 1", info.Overrides)
		}
	}
}

func TestRegistrar_OrderMatters(t *testing.T) {
	db := dbtest.Open(t, greeter.Models()...)
	mods := []module.Module{
		testutil.ModuleOf("github.com/kbukum/iocboot/internal/greeter/locale", (*Registrar)(nil)),
		testutil.ModuleOf("github.com/kbukum/iocboot/internal/greeter", (*greeter.Registrar)(nil)),
	}
	b := testutil.NewBootstrapper(mods, ioc.WithBindings(func(b *di.Builder) error {
		return di.BindInstance(b, db)
	}))
	if err := b.Initialize(context.Background(), false); err != nil {
		t.Fatalf("Initialize() failed: %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })

	phrases, err := ioc.CreateFrom[greeter.Phrasebook](b)
	if err != nil {
		t.Fatalf("Create[Phrasebook]() failed: %v", err)
	}
	if _, ok := phrases.Phrase("fr"); ok {
		t.Error("the greeter registrar ran last, so English should win")
	}
}
