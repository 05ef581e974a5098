package database

import (
	"context"

	"gorm.io/gorm"
)

// Session is a persistence context: the root connection or a transaction.
// Changes made through a transaction's session become visible to other
// sessions only after the transaction commits.
type Session interface {
	// Conn returns a GORM handle bound to ctx.
	Conn(ctx context.Context) *gorm.DB
}

// NewSession wraps an existing GORM handle, typically an open transaction.
func NewSession(db *gorm.DB) Session {
	return gormSession{db: db}
}

type gormSession struct {
	db *gorm.DB
}

func (s gormSession) Conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}
