package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/rentwheels/service-rental/internal/domain"
)

// Booking is the aggregate root linking a customer to a vehicle for a
// rental period. A vehicle carries at most one active booking at a time.
type Booking struct {
	id         uuid.UUID
	customerID uuid.UUID
	vehicleID  uuid.UUID
	rentStart  time.Time
	rentEnd    time.Time
	totalPrice int64
	status     Status
}

// NewBooking creates a new Booking with status=active.
func NewBooking(customerID, vehicleID uuid.UUID, rentStart, rentEnd time.Time, totalPrice int64) (*Booking, error) {
	if customerID == uuid.Nil {
		return nil, domain.NewValidationError("customer ID is required")
	}
	if vehicleID == uuid.Nil {
		return nil, domain.NewValidationError("vehicle ID is required")
	}
	if rentStart.IsZero() || rentEnd.IsZero() {
		return nil, domain.NewValidationError("rent start and end dates are required")
	}
	if rentEnd.Before(rentStart) {
		return nil, domain.NewValidationError("rent end date must not be before the start date")
	}
	if totalPrice <= 0 {
		return nil, domain.NewValidationError("total price must be positive")
	}

	return &Booking{
		id:         uuid.New(),
		customerID: customerID,
		vehicleID:  vehicleID,
		rentStart:  rentStart,
		rentEnd:    rentEnd,
		totalPrice: totalPrice,
		status:     StatusActive,
	}, nil
}

// Reconstruct rebuilds a Booking from persistence data (no validation).
func Reconstruct(
	id, customerID, vehicleID uuid.UUID,
	rentStart, rentEnd time.Time,
	totalPrice int64,
	status Status,
) *Booking {
	return &Booking{
		id:         id,
		customerID: customerID,
		vehicleID:  vehicleID,
		rentStart:  rentStart,
		rentEnd:    rentEnd,
		totalPrice: totalPrice,
		status:     status,
	}
}

// --- Getters ---

func (b *Booking) ID() uuid.UUID         { return b.id }
func (b *Booking) CustomerID() uuid.UUID { return b.customerID }
func (b *Booking) VehicleID() uuid.UUID  { return b.vehicleID }
func (b *Booking) RentStart() time.Time  { return b.rentStart }
func (b *Booking) RentEnd() time.Time    { return b.rentEnd }
func (b *Booking) TotalPrice() int64     { return b.totalPrice }
func (b *Booking) Status() Status        { return b.status }

// IsOwnedBy checks if the booking belongs to the given customer.
func (b *Booking) IsOwnedBy(customerID uuid.UUID) bool {
	return b.customerID == customerID
}

// --- Behavior ---

// TransitionTo moves the booking to the target status. Terminal bookings
// reject any further transition.
func (b *Booking) TransitionTo(target Status) error {
	if !target.IsValid() {
		return domain.NewValidationError("invalid booking status: " + string(target))
	}
	if !b.status.CanTransitionTo(target) {
		return domain.NewInvalidStateError(string(b.status), string(target))
	}
	b.status = target
	return nil
}

// Cancel transitions the booking from active to cancelled.
func (b *Booking) Cancel() error { return b.TransitionTo(StatusCancelled) }

// Return transitions the booking from active to returned.
func (b *Booking) Return() error { return b.TransitionTo(StatusReturned) }
