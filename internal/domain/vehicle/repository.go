package vehicle

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for vehicle aggregates.
type Repository interface {
	// FindByID retrieves a vehicle by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Vehicle, error)

	// FindByIDForUpdate retrieves a vehicle by ID, acquiring a row lock
	// that serializes concurrent booking attempts against it. Must be
	// called inside a transaction.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Vehicle, error)

	// ListAll retrieves all vehicles ordered by id ascending.
	ListAll(ctx context.Context) ([]*Vehicle, error)

	// Save persists a new vehicle.
	Save(ctx context.Context, v *Vehicle) error

	// Update persists changes to an existing vehicle.
	Update(ctx context.Context, v *Vehicle) error

	// Delete removes a vehicle. Blocking-reference checks are the
	// caller's responsibility.
	Delete(ctx context.Context, id uuid.UUID) error
}
