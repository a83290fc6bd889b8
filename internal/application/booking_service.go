package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rentwheels/service-rental/internal/domain"
	bookingDomain "github.com/rentwheels/service-rental/internal/domain/booking"
	vehicleDomain "github.com/rentwheels/service-rental/internal/domain/vehicle"
	"github.com/rentwheels/service-rental/internal/events"
)

// rentDateLayout is the wire format for rental dates.
const rentDateLayout = "2006-01-02"

// EventPublisher publishes booking lifecycle events. Implementations must
// be safe for concurrent use; a nil publisher disables publishing.
type EventPublisher interface {
	Publish(ctx context.Context, eventType, key string, data interface{}) error
}

// CreateBookingRequest holds the data needed to create a new booking.
type CreateBookingRequest struct {
	VehicleID     uuid.UUID `json:"vehicle_id" binding:"required"`
	RentStartDate string    `json:"rent_start_date" binding:"required"`
	RentEndDate   string    `json:"rent_end_date" binding:"required"`
}

// TransitionBookingRequest holds the data for a booking status change.
type TransitionBookingRequest struct {
	Status string `json:"status" binding:"required"`
}

// BookingVehicleDTO is the vehicle summary embedded in booking responses.
type BookingVehicleDTO struct {
	VehicleName        string `json:"vehicle_name"`
	RegistrationNumber string `json:"registration_number,omitempty"`
	Type               string `json:"type,omitempty"`
	DailyRentPrice     int64  `json:"daily_rent_price,omitempty"`
}

// BookingCustomerDTO is the customer summary admins see in listings.
type BookingCustomerDTO struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID            uuid.UUID           `json:"id"`
	CustomerID    uuid.UUID           `json:"customer_id"`
	VehicleID     uuid.UUID           `json:"vehicle_id"`
	RentStartDate string              `json:"rent_start_date"`
	RentEndDate   string              `json:"rent_end_date"`
	TotalPrice    int64               `json:"total_price"`
	Status        string              `json:"status"`
	Customer      *BookingCustomerDTO `json:"customer,omitempty"`
	Vehicle       *BookingVehicleDTO  `json:"vehicle,omitempty"`
}

// BookingService orchestrates the booking lifecycle: creation, listing and
// status transitions. Every mutation spans the booking ledger and the
// vehicle registry in one atomic transaction, so the availability flag and
// the set of active bookings never diverge.
type BookingService struct {
	bookings  bookingDomain.Repository
	vehicles  vehicleDomain.Repository
	pricing   bookingDomain.PricingStrategy
	tx        domain.Transactor
	publisher EventPublisher
	logger    *zap.Logger
}

// NewBookingService creates a new BookingService. publisher may be nil.
func NewBookingService(
	bookings bookingDomain.Repository,
	vehicles vehicleDomain.Repository,
	pricing bookingDomain.PricingStrategy,
	tx domain.Transactor,
	publisher EventPublisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookings:  bookings,
		vehicles:  vehicles,
		pricing:   pricing,
		tx:        tx,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateBooking books a vehicle for the customer. Inside one transaction
// it locks the vehicle row, rejects the request if the vehicle is already
// booked, computes the price, inserts the active booking and flips the
// vehicle to booked.
func (s *BookingService) CreateBooking(ctx context.Context, customerID uuid.UUID, req CreateBookingRequest) (*BookingDTO, error) {
	rentStart, err := parseRentDate(req.RentStartDate, "rent_start_date")
	if err != nil {
		return nil, err
	}
	rentEnd, err := parseRentDate(req.RentEndDate, "rent_end_date")
	if err != nil {
		return nil, err
	}

	var (
		bk  *bookingDomain.Booking
		dto *BookingDTO
	)
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		v, err := s.vehicles.FindByIDForUpdate(txCtx, req.VehicleID)
		if err != nil {
			return err
		}
		if !v.IsAvailable() {
			return domain.NewConflictError("vehicle is not available for booking")
		}

		totalPrice, err := s.pricing.Calculate(v.DailyRentPrice(), rentStart, rentEnd)
		if err != nil {
			return err
		}

		bk, err = bookingDomain.NewBooking(customerID, req.VehicleID, rentStart, rentEnd, totalPrice)
		if err != nil {
			return err
		}
		if err := s.bookings.Save(txCtx, bk); err != nil {
			return err
		}

		v.MarkBooked()
		if err := s.vehicles.Update(txCtx, v); err != nil {
			return err
		}

		dto = toBookingDTO(bk)
		dto.Vehicle = &BookingVehicleDTO{
			VehicleName:    v.Name(),
			DailyRentPrice: v.DailyRentPrice(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking created",
		zap.String("booking_id", bk.ID().String()),
		zap.String("vehicle_id", bk.VehicleID().String()),
		zap.Int64("total_price", bk.TotalPrice()),
	)
	s.publishBookingEvent(ctx, events.BookingCreated, bk)
	return dto, nil
}

// ListBookings returns the bookings the requester may see: every booking
// joined with customer and vehicle details for admins, the requester's own
// bookings joined with vehicle details for customers.
func (s *BookingService) ListBookings(ctx context.Context, requester bookingDomain.Requester) ([]BookingDTO, error) {
	scope := bookingDomain.ScopeFor(requester)
	rows, err := s.bookings.ListDetailed(ctx, scope)
	if err != nil {
		return nil, err
	}

	dtos := make([]BookingDTO, len(rows))
	for i, row := range rows {
		dto := toBookingDTO(row.Booking)
		if scope.Unrestricted() {
			dto.Customer = &BookingCustomerDTO{
				Name:  row.CustomerName,
				Email: row.CustomerEmail,
			}
			dto.Vehicle = &BookingVehicleDTO{
				VehicleName:        row.VehicleName,
				RegistrationNumber: row.RegistrationNumber,
			}
		} else {
			dto.Vehicle = &BookingVehicleDTO{
				VehicleName:        row.VehicleName,
				RegistrationNumber: row.RegistrationNumber,
				Type:               string(row.VehicleType),
			}
		}
		dtos[i] = *dto
	}
	return dtos, nil
}

// TransitionBooking moves a booking to cancelled or returned. The booking
// is looked up within the requester's visibility scope; a booking owned by
// someone else is reported as not found. Inside one transaction the
// booking status is updated and the vehicle is released; a failure at any
// point rolls the whole unit back.
func (s *BookingService) TransitionBooking(ctx context.Context, requester bookingDomain.Requester, bookingID uuid.UUID, req TransitionBookingRequest) (*BookingDTO, error) {
	target, err := bookingDomain.ParseStatus(req.Status)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}
	if !target.IsTerminal() {
		return nil, domain.NewValidationError("status must be cancelled or returned")
	}

	scope := bookingDomain.ScopeFor(requester)

	var (
		bk  *bookingDomain.Booking
		dto *BookingDTO
	)
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		// The scoped lookup reports someone else's booking as not found,
		// so unauthorized access is indistinguishable from a missing row.
		bk, err = s.bookings.FindByIDScopedForUpdate(txCtx, bookingID, scope)
		if err != nil {
			return err
		}

		if err := bk.TransitionTo(target); err != nil {
			return err
		}
		if err := s.bookings.Update(txCtx, bk); err != nil {
			return err
		}

		v, err := s.vehicles.FindByIDForUpdate(txCtx, bk.VehicleID())
		if err != nil {
			return err
		}
		v.MarkAvailable()
		if err := s.vehicles.Update(txCtx, v); err != nil {
			return err
		}

		dto = toBookingDTO(bk)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking transitioned",
		zap.String("booking_id", bk.ID().String()),
		zap.String("status", string(bk.Status())),
	)
	eventType := events.BookingCancelled
	if target == bookingDomain.StatusReturned {
		eventType = events.BookingReturned
	}
	s.publishBookingEvent(ctx, eventType, bk)
	return dto, nil
}

// --- Helpers ---

func (s *BookingService) publishBookingEvent(ctx context.Context, eventType string, bk *bookingDomain.Booking) {
	if s.publisher == nil {
		return
	}
	evt := events.BookingEvent{
		BookingID:  bk.ID(),
		CustomerID: bk.CustomerID(),
		VehicleID:  bk.VehicleID(),
		TotalPrice: bk.TotalPrice(),
		Status:     string(bk.Status()),
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, eventType, bk.ID().String(), evt); err != nil {
		s.logger.Error("failed to publish booking event",
			zap.String("event_type", eventType),
			zap.String("booking_id", bk.ID().String()),
			zap.Error(err),
		)
	}
}

func toBookingDTO(bk *bookingDomain.Booking) *BookingDTO {
	return &BookingDTO{
		ID:            bk.ID(),
		CustomerID:    bk.CustomerID(),
		VehicleID:     bk.VehicleID(),
		RentStartDate: bk.RentStart().Format(rentDateLayout),
		RentEndDate:   bk.RentEnd().Format(rentDateLayout),
		TotalPrice:    bk.TotalPrice(),
		Status:        string(bk.Status()),
	}
}

func parseRentDate(value, field string) (time.Time, error) {
	t, err := time.Parse(rentDateLayout, value)
	if err != nil {
		// Accept full timestamps too; listings always render date-only.
		t, err = time.Parse(time.RFC3339, value)
	}
	if err != nil {
		return time.Time{}, domain.NewValidationError(field + " must be a date in YYYY-MM-DD format")
	}
	return t, nil
}
