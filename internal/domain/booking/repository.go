package booking

import (
	"context"

	"github.com/google/uuid"

	"github.com/rentwheels/service-rental/internal/domain/vehicle"
)

// Details is a booking joined with the display fields listings need.
// Customer fields are only populated for unrestricted (admin) scopes.
type Details struct {
	Booking            *Booking
	VehicleName        string
	RegistrationNumber string
	VehicleType        vehicle.VehicleType
	CustomerName       string
	CustomerEmail      string
}

// Repository defines the persistence contract for booking aggregates.
type Repository interface {
	// FindByIDScoped retrieves a booking by ID within the given
	// visibility scope. A booking outside the scope is reported as not
	// found; existence is deliberately not leaked to non-owners.
	FindByIDScoped(ctx context.Context, id uuid.UUID, scope VisibilityScope) (*Booking, error)

	// FindByIDScopedForUpdate is FindByIDScoped with a row lock, for use
	// inside a transaction that will mutate the booking.
	FindByIDScopedForUpdate(ctx context.Context, id uuid.UUID, scope VisibilityScope) (*Booking, error)

	// ListDetailed retrieves bookings within the scope joined with
	// vehicle and customer display fields, ordered by id ascending.
	ListDetailed(ctx context.Context, scope VisibilityScope) ([]Details, error)

	// Save persists a new booking.
	Save(ctx context.Context, b *Booking) error

	// Update persists changes to an existing booking.
	Update(ctx context.Context, b *Booking) error

	// ExistsBlockingForVehicle reports whether any booking in a
	// non-terminal status references the vehicle.
	ExistsBlockingForVehicle(ctx context.Context, vehicleID uuid.UUID) (bool, error)

	// ExistsBlockingForCustomer reports whether any booking in a
	// non-terminal status is owned by the customer.
	ExistsBlockingForCustomer(ctx context.Context, customerID uuid.UUID) (bool, error)
}
