package domain

import "context"

// Transactor runs a function inside a single storage transaction. The
// transaction handle travels in the context so repositories participate
// transparently; any returned error rolls the whole unit back.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
