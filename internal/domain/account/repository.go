package account

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for account aggregates.
type Repository interface {
	// FindByID retrieves an account by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)

	// FindByEmail retrieves an account by its lower-cased email.
	FindByEmail(ctx context.Context, email string) (*Account, error)

	// ListAll retrieves all accounts ordered by id ascending.
	ListAll(ctx context.Context) ([]*Account, error)

	// Save persists a new account.
	Save(ctx context.Context, a *Account) error

	// Update persists changes to an existing account.
	Update(ctx context.Context, a *Account) error

	// Delete removes an account. Blocking-reference checks are the
	// caller's responsibility.
	Delete(ctx context.Context, id uuid.UUID) error
}
