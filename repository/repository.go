package repository

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kbukum/iocboot/database"
	"github.com/kbukum/iocboot/database/query"
	apperrors "github.com/kbukum/iocboot/errors"
)

// AggregateRoot is an entity addressed by a key of type K.
type AggregateRoot[K comparable] interface {
	GetID() K
}

// Repository is the CRUD capability set over aggregates of type T keyed by K.
// T is normally a pointer to a GORM model.
type Repository[T AggregateRoot[K], K comparable] interface {
	Add(ctx context.Context, entity T) error
	// AddRange inserts entities in one batch. An empty slice is a no-op.
	AddRange(ctx context.Context, entities []T) error
	// Update writes every field of entity. A missing row is NOT_FOUND.
	Update(ctx context.Context, entity T) error
	// Remove deletes entity. A missing row is NOT_FOUND.
	Remove(ctx context.Context, entity T) error
	// RemoveRange deletes entities by key. A nil or empty slice is a no-op.
	RemoveRange(ctx context.Context, entities []T) error
	// RemoveWhere deletes every row matching spec and reports how many.
	RemoveWhere(ctx context.Context, spec Spec) (int64, error)
	// Purge is RemoveWhere without soft delete: matching rows, tombstones
	// included, are gone for good.
	Purge(ctx context.Context, spec Spec) (int64, error)
	// Single loads the aggregate with the given key, or fails with NOT_FOUND.
	Single(ctx context.Context, id K) (T, error)
	// SingleWhere loads the first aggregate matching spec, or fails with NOT_FOUND.
	SingleWhere(ctx context.Context, spec Spec) (T, error)
	// Count counts rows matching spec; a nil spec counts all rows.
	Count(ctx context.Context, spec Spec) (int64, error)
	Exists(ctx context.Context, spec Spec) (bool, error)
	// Query returns a query over T bound to the repository's session, so it
	// sees uncommitted changes of an enclosing unit of work.
	Query(ctx context.Context) *gorm.DB
	// QueryNoTracking returns a read-only query that skips model hooks.
	QueryNoTracking(ctx context.Context) *gorm.DB
}

// GuidRepository is a Repository keyed by uuid.
type GuidRepository[T AggregateRoot[uuid.UUID]] interface {
	Repository[T, uuid.UUID]
}

// GormRepository implements Repository on a database.Session.
type GormRepository[T AggregateRoot[K], K comparable] struct {
	session  database.Session
	resource string
}

var _ GuidRepository[*database.BaseModel] = (*GormRepository[*database.BaseModel, uuid.UUID])(nil)

// New returns a repository for T working against session, which is either
// the root *database.DB or a transaction.
func New[T AggregateRoot[K], K comparable](session database.Session) *GormRepository[T, K] {
	return &GormRepository[T, K]{session: session, resource: resourceName[T]()}
}

// NewGuid returns a repository for a uuid-keyed aggregate.
func NewGuid[T AggregateRoot[uuid.UUID]](session database.Session) *GormRepository[T, uuid.UUID] {
	return New[T, uuid.UUID](session)
}

// WithSession returns a copy of r bound to another session.
func (r *GormRepository[T, K]) WithSession(session database.Session) *GormRepository[T, K] {
	return &GormRepository[T, K]{session: session, resource: r.resource}
}

// Resource is the name used in NOT_FOUND and ALREADY_EXISTS errors.
func (r *GormRepository[T, K]) Resource() string { return r.resource }

func (r *GormRepository[T, K]) conn(ctx context.Context) *gorm.DB {
	return r.session.Conn(ctx)
}

func (r *GormRepository[T, K]) fail(err error) error {
	return database.FromDatabase(err, r.resource)
}

func (r *GormRepository[T, K]) Add(ctx context.Context, entity T) error {
	if err := r.conn(ctx).Create(target(&entity)).Error; err != nil {
		return r.fail(err)
	}
	return nil
}

func (r *GormRepository[T, K]) AddRange(ctx context.Context, entities []T) error {
	if len(entities) == 0 {
		return nil
	}
	if err := r.conn(ctx).Create(&entities).Error; err != nil {
		return r.fail(err)
	}
	return nil
}

func (r *GormRepository[T, K]) Update(ctx context.Context, entity T) error {
	res := r.conn(ctx).Model(target(&entity)).Select("*").Updates(target(&entity))
	if res.Error != nil {
		return r.fail(res.Error)
	}
	if res.RowsAffected == 0 {
		return r.notFound(entity.GetID())
	}
	return nil
}

func (r *GormRepository[T, K]) Remove(ctx context.Context, entity T) error {
	res := r.conn(ctx).Delete(model[T](), clause.Eq{Column: clause.PrimaryColumn, Value: entity.GetID()})
	if res.Error != nil {
		return r.fail(res.Error)
	}
	if res.RowsAffected == 0 {
		return r.notFound(entity.GetID())
	}
	return nil
}

func (r *GormRepository[T, K]) RemoveRange(ctx context.Context, entities []T) error {
	if len(entities) == 0 {
		return nil
	}
	ids := make([]any, len(entities))
	for i, e := range entities {
		ids[i] = e.GetID()
	}
	err := r.conn(ctx).Delete(model[T](), clause.IN{Column: clause.PrimaryColumn, Values: ids}).Error
	if err != nil {
		return r.fail(err)
	}
	return nil
}

func (r *GormRepository[T, K]) RemoveWhere(ctx context.Context, spec Spec) (int64, error) {
	return r.removeWhere(r.conn(ctx), spec)
}

func (r *GormRepository[T, K]) Purge(ctx context.Context, spec Spec) (int64, error) {
	return r.removeWhere(r.conn(ctx).Unscoped(), spec)
}

func (r *GormRepository[T, K]) removeWhere(db *gorm.DB, spec Spec) (int64, error) {
	if sql, _, err := render(spec); err != nil {
		return 0, apperrors.InvalidInput("spec", err.Error())
	} else if sql == "" {
		db = db.Session(&gorm.Session{AllowGlobalUpdate: true})
	}
	db, _ = Apply(db, spec)
	res := db.Delete(model[T]())
	if res.Error != nil {
		return 0, r.fail(res.Error)
	}
	return res.RowsAffected, nil
}

func (r *GormRepository[T, K]) Single(ctx context.Context, id K) (T, error) {
	entity := newEntity[T]()
	err := r.conn(ctx).Where(clause.Eq{Column: clause.PrimaryColumn, Value: id}).First(target(&entity)).Error
	if err != nil {
		var zero T
		if database.IsNotFoundError(err) {
			return zero, r.notFound(id)
		}
		return zero, r.fail(err)
	}
	return entity, nil
}

func (r *GormRepository[T, K]) SingleWhere(ctx context.Context, spec Spec) (T, error) {
	var zero T
	db, err := Apply(r.conn(ctx), spec)
	if err != nil {
		return zero, apperrors.InvalidInput("spec", err.Error())
	}
	entity := newEntity[T]()
	if err := db.First(target(&entity)).Error; err != nil {
		return zero, r.fail(err)
	}
	return entity, nil
}

func (r *GormRepository[T, K]) Count(ctx context.Context, spec Spec) (int64, error) {
	db, err := Apply(r.conn(ctx).Model(model[T]()), spec)
	if err != nil {
		return 0, apperrors.InvalidInput("spec", err.Error())
	}
	var n int64
	if err := db.Count(&n).Error; err != nil {
		return 0, r.fail(err)
	}
	return n, nil
}

func (r *GormRepository[T, K]) Exists(ctx context.Context, spec Spec) (bool, error) {
	n, err := r.Count(ctx, spec)
	return n > 0, err
}

func (r *GormRepository[T, K]) Query(ctx context.Context) *gorm.DB {
	return r.conn(ctx).Model(model[T]())
}

func (r *GormRepository[T, K]) QueryNoTracking(ctx context.Context) *gorm.DB {
	return r.conn(ctx).Session(&gorm.Session{SkipHooks: true}).Model(model[T]())
}

// Page loads one page of the aggregates matching spec.
func (r *GormRepository[T, K]) Page(ctx context.Context, spec Spec, page query.Page) (*query.Result[T], error) {
	db, err := Apply(r.Query(ctx), spec)
	if err != nil {
		return nil, apperrors.InvalidInput("spec", err.Error())
	}
	res, err := query.Paginate[T](db, page)
	if err != nil {
		return nil, r.fail(err)
	}
	return res, nil
}

func (r *GormRepository[T, K]) notFound(id K) error {
	return apperrors.NotFound(r.resource, fmt.Sprint(id))
}

// newEntity returns a usable T: a fresh allocation when T is a pointer type.
func newEntity[T any]() T {
	var zero T
	if t := reflect.TypeFor[T](); t.Kind() == reflect.Pointer {
		return reflect.New(t.Elem()).Interface().(T)
	}
	return zero
}

// model returns a pointer to a zero model for use with gorm's Model.
func model[T any]() any {
	e := newEntity[T]()
	return target(&e)
}

// target returns what gorm should write into: the pointer itself when T is
// a pointer type, otherwise the address of the value.
func target[T any](e *T) any {
	if reflect.TypeFor[T]().Kind() == reflect.Pointer {
		return *e
	}
	return e
}

func resourceName[T any]() string {
	t := reflect.TypeFor[T]()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return strings.ToLower(t.Name())
}
