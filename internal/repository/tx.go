package repository

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// GormTransactor implements domain.Transactor on a GORM connection pool.
// The transaction handle is injected into the context so every repository
// call inside the unit runs on the same transaction; fn returning an error
// rolls everything back.
type GormTransactor struct {
	db *gorm.DB
}

// NewGormTransactor creates a transactor bound to the given pool.
func NewGormTransactor(db *gorm.DB) *GormTransactor {
	return &GormTransactor{db: db}
}

// WithinTransaction executes fn inside a single database transaction.
func (t *GormTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// conn returns the transaction from the context when present, otherwise
// the fallback pool. Repositories call this so they work identically
// inside and outside a transactional unit.
func conn(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return fallback.WithContext(ctx)
}
