package repository

import (
	"context"

	"github.com/kbukum/iocboot/database"
)

// UnitOfWork groups repository operations into one transaction.
type UnitOfWork struct {
	db *database.DB
}

// NewUnitOfWork returns a unit of work over db.
func NewUnitOfWork(db *database.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

// Do runs fn in a transaction. Repositories created from the session see
// each other's changes; everything commits when fn returns nil and rolls
// back otherwise.
func (u *UnitOfWork) Do(ctx context.Context, fn func(session database.Session) error) error {
	return u.db.WithTransaction(ctx, database.TransactionFunc(fn))
}

// Transact runs fn with a repository for T bound to a new transaction.
func Transact[T AggregateRoot[K], K comparable](ctx context.Context, u *UnitOfWork, fn func(repo Repository[T, K]) error) error {
	return u.Do(ctx, func(session database.Session) error {
		return fn(New[T, K](session))
	})
}
