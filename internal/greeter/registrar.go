package greeter

import (
	"sync"

	"github.com/kbukum/iocboot/database"
	"github.com/kbukum/iocboot/di"
	apperrors "github.com/kbukum/iocboot/errors"
	"github.com/kbukum/iocboot/logger"
	"github.com/kbukum/iocboot/module"
	"github.com/kbukum/iocboot/repository"
)

func init() {
	module.Declare(module.Self(), (*Registrar)(nil), (*ResolverHook)(nil), (*Greeting)(nil))
}

// Models lists the tables the greeter needs migrated.
func Models() []any {
	return []any{&Greeting{}}
}

// Registrar binds the greeter and its persistence.
type Registrar struct{}

func (*Registrar) Register(_ []module.Module, b *di.Builder) error {
	// Hosts that own the database usually seed the component; tests may seed
	// the *database.DB directly.
	if !b.Has(di.TypeOf[*database.DB]()) {
		err := di.Bind[*database.DB](b, func(c *database.Component) (*database.DB, error) {
			return c.Open()
		})
		if err != nil {
			return err
		}
	}
	if !b.Has(di.TypeOf[*logger.Logger]()) {
		if err := di.BindInstance(b, logger.GetGlobalLogger()); err != nil {
			return err
		}
	}

	if err := di.Bind[*repository.UnitOfWork](b, repository.NewUnitOfWork, di.AsSingleton()); err != nil {
		return err
	}
	err := di.Bind[Repository](b, func(db *database.DB) Repository {
		return repository.NewGuid[*Greeting](db)
	}, di.AsSingleton())
	if err != nil {
		return err
	}
	if err := di.BindInstance[Phrasebook](b, English); err != nil {
		return err
	}
	return di.Bind[Greeter](b, NewService, di.AsSingleton())
}

var (
	resolverMu sync.RWMutex
	resolver   di.Resolver
)

// ResolverHook receives the container once it is built, for code that cannot
// take the Greeter as a constructor argument.
type ResolverHook struct{}

func (*ResolverHook) SetResolver(r di.Resolver) {
	resolverMu.Lock()
	defer resolverMu.Unlock()
	resolver = r
}

// Default resolves the Greeter from the container handed to ResolverHook.
func Default() (Greeter, error) {
	resolverMu.RLock()
	r := resolver
	resolverMu.RUnlock()
	if r == nil {
		return nil, apperrors.NotInitialized()
	}
	return di.Resolve[Greeter](r)
}
