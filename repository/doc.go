// Package repository provides a generic CRUD repository over GORM.
//
// Aggregates implement AggregateRoot; embedding database.BaseModel gives a
// uuid key. Predicates are explicit Spec values rather than expressions:
//
//	repo := repository.NewGuid[*Greeting](db)
//	n, err := repo.Count(ctx, repository.And(
//	    repository.Eq("language", "en"),
//	    repository.Not(repository.Where("name", query.OpLike, "test")),
//	))
//
// A repository works against a database.Session. Bound to the root DB every
// call commits on its own; bound to a transaction through UnitOfWork the
// calls commit together.
//
// Failures are AppErrors: a missing aggregate is NOT_FOUND, a duplicate key
// is ALREADY_EXISTS and an invalid Spec is INVALID_INPUT.
package repository
