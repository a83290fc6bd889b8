package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rentwheels/service-rental/internal/domain"
	bookingDomain "github.com/rentwheels/service-rental/internal/domain/booking"
	vehicleDomain "github.com/rentwheels/service-rental/internal/domain/vehicle"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	CustomerID    uuid.UUID `gorm:"type:uuid;index;not null"`
	VehicleID     uuid.UUID `gorm:"type:uuid;index;not null"`
	RentStartDate time.Time `gorm:"not null"`
	RentEndDate   time.Time `gorm:"not null"`
	TotalPrice    int64     `gorm:"not null;check:total_price > 0"`
	Status        string    `gorm:"type:varchar(15);not null;index;default:'active'"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// bookingDetailsRow is the flat scan target for the joined listing query.
type bookingDetailsRow struct {
	ID                 uuid.UUID
	CustomerID         uuid.UUID
	VehicleID          uuid.UUID
	RentStartDate      time.Time
	RentEndDate        time.Time
	TotalPrice         int64
	Status             string
	VehicleName        string
	RegistrationNumber string
	VehicleType        string
	CustomerName       string
	CustomerEmail      string
}

// GormBookingRepository is the GORM-based implementation of booking.Repository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// scoped applies the visibility scope to a bookings query. This is the
// single place role-dependent filtering happens.
func scoped(q *gorm.DB, scope bookingDomain.VisibilityScope) *gorm.DB {
	if scope.Unrestricted() {
		return q
	}
	return q.Where("customer_id = ?", scope.CustomerID())
}

// FindByIDScoped retrieves a booking by ID within the visibility scope.
// A booking outside the scope is indistinguishable from a missing one.
func (r *GormBookingRepository) FindByIDScoped(ctx context.Context, id uuid.UUID, scope bookingDomain.VisibilityScope) (*bookingDomain.Booking, error) {
	var model BookingModel
	err := scoped(conn(ctx, r.db).Where("id = ?", id), scope).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByIDScopedForUpdate is FindByIDScoped with a FOR UPDATE row lock.
func (r *GormBookingRepository) FindByIDScopedForUpdate(ctx context.Context, id uuid.UUID, scope bookingDomain.VisibilityScope) (*bookingDomain.Booking, error) {
	var model BookingModel
	err := scoped(
		conn(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id),
		scope,
	).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, fmt.Errorf("failed to lock booking row: %w", err)
	}
	return toDomainBooking(&model)
}

// ListDetailed retrieves bookings within the scope joined with vehicle and
// customer display fields, ordered by booking id ascending.
func (r *GormBookingRepository) ListDetailed(ctx context.Context, scope bookingDomain.VisibilityScope) ([]bookingDomain.Details, error) {
	var rows []bookingDetailsRow
	q := conn(ctx, r.db).
		Table("bookings").
		Select(`bookings.id, bookings.customer_id, bookings.vehicle_id,
			bookings.rent_start_date, bookings.rent_end_date,
			bookings.total_price, bookings.status,
			vehicles.vehicle_name, vehicles.registration_number,
			vehicles.type AS vehicle_type,
			users.name AS customer_name, users.email AS customer_email`).
		Joins("JOIN vehicles ON vehicles.id = bookings.vehicle_id").
		Joins("JOIN users ON users.id = bookings.customer_id").
		Order("bookings.id ASC")
	if err := scoped(q, scope).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	details := make([]bookingDomain.Details, len(rows))
	for i, row := range rows {
		status, err := bookingDomain.ParseStatus(row.Status)
		if err != nil {
			return nil, err
		}
		details[i] = bookingDomain.Details{
			Booking: bookingDomain.Reconstruct(
				row.ID, row.CustomerID, row.VehicleID,
				row.RentStartDate, row.RentEndDate,
				row.TotalPrice, status,
			),
			VehicleName:        row.VehicleName,
			RegistrationNumber: row.RegistrationNumber,
			VehicleType:        vehicleDomain.VehicleType(row.VehicleType),
			CustomerName:       row.CustomerName,
			CustomerEmail:      row.CustomerEmail,
		}
	}
	return details, nil
}

// Save persists a new booking. The partial unique index on active
// bookings per vehicle rejects a concurrent second active booking.
func (r *GormBookingRepository) Save(ctx context.Context, b *bookingDomain.Booking) error {
	if err := conn(ctx, r.db).Create(toBookingModel(b)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.NewConflictError("vehicle already has an active booking")
		}
		return fmt.Errorf("failed to save booking: %w", err)
	}
	return nil
}

// Update persists the booking's status.
func (r *GormBookingRepository) Update(ctx context.Context, b *bookingDomain.Booking) error {
	result := conn(ctx, r.db).
		Model(&BookingModel{}).
		Where("id = ?", b.ID()).
		Update("status", string(b.Status()))
	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Booking", b.ID().String())
	}
	return nil
}

// ExistsBlockingForVehicle reports whether a non-terminal booking
// references the vehicle.
func (r *GormBookingRepository) ExistsBlockingForVehicle(ctx context.Context, vehicleID uuid.UUID) (bool, error) {
	return r.existsBlocking(ctx, "vehicle_id = ?", vehicleID)
}

// ExistsBlockingForCustomer reports whether a non-terminal booking is
// owned by the customer.
func (r *GormBookingRepository) ExistsBlockingForCustomer(ctx context.Context, customerID uuid.UUID) (bool, error) {
	return r.existsBlocking(ctx, "customer_id = ?", customerID)
}

func (r *GormBookingRepository) existsBlocking(ctx context.Context, cond string, id uuid.UUID) (bool, error) {
	var count int64
	err := conn(ctx, r.db).
		Model(&BookingModel{}).
		Where(cond, id).
		Where("status NOT IN ?", []string{
			string(bookingDomain.StatusCancelled),
			string(bookingDomain.StatusReturned),
		}).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check blocking bookings: %w", err)
	}
	return count > 0, nil
}

// --- Conversion Helpers ---

func toBookingModel(b *bookingDomain.Booking) *BookingModel {
	return &BookingModel{
		ID:            b.ID(),
		CustomerID:    b.CustomerID(),
		VehicleID:     b.VehicleID(),
		RentStartDate: b.RentStart(),
		RentEndDate:   b.RentEnd(),
		TotalPrice:    b.TotalPrice(),
		Status:        string(b.Status()),
	}
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	status, err := bookingDomain.ParseStatus(m.Status)
	if err != nil {
		return nil, err
	}
	return bookingDomain.Reconstruct(
		m.ID, m.CustomerID, m.VehicleID,
		m.RentStartDate, m.RentEndDate,
		m.TotalPrice, status,
	), nil
}
