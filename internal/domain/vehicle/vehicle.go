package vehicle

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/rentwheels/service-rental/internal/domain"
)

// VehicleType classifies a vehicle in the rental fleet.
type VehicleType string

const (
	TypeCar  VehicleType = "car"
	TypeBike VehicleType = "bike"
	TypeVan  VehicleType = "van"
	TypeSUV  VehicleType = "SUV"
)

// IsValid returns true if the vehicle type is recognized.
func (t VehicleType) IsValid() bool {
	switch t {
	case TypeCar, TypeBike, TypeVan, TypeSUV:
		return true
	}
	return false
}

// ParseVehicleType converts a string to a VehicleType, returning an error if invalid.
func ParseVehicleType(s string) (VehicleType, error) {
	t := VehicleType(s)
	if !t.IsValid() {
		return "", domain.NewValidationError(fmt.Sprintf("invalid vehicle type: %s", s))
	}
	return t, nil
}

// Availability is the single booked/available flag tracked per vehicle.
// There is no reservation calendar; one active booking owns the vehicle.
type Availability string

const (
	Available Availability = "available"
	Booked    Availability = "booked"
)

// IsValid returns true if the availability value is recognized.
func (a Availability) IsValid() bool {
	return a == Available || a == Booked
}

// Vehicle is the aggregate root for a rentable vehicle.
type Vehicle struct {
	id                 uuid.UUID
	name               string
	vehicleType        VehicleType
	registrationNumber string
	dailyRentPrice     int64
	availability       Availability
}

// NewVehicle creates a new available Vehicle with validated fields.
func NewVehicle(name string, vehicleType VehicleType, registrationNumber string, dailyRentPrice int64) (*Vehicle, error) {
	if strings.TrimSpace(name) == "" {
		return nil, domain.NewValidationError("vehicle name is required")
	}
	if !vehicleType.IsValid() {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid vehicle type: %s", vehicleType))
	}
	if strings.TrimSpace(registrationNumber) == "" {
		return nil, domain.NewValidationError("registration number is required")
	}
	if dailyRentPrice <= 0 {
		return nil, domain.NewValidationError("daily rent price must be positive")
	}

	return &Vehicle{
		id:                 uuid.New(),
		name:               name,
		vehicleType:        vehicleType,
		registrationNumber: registrationNumber,
		dailyRentPrice:     dailyRentPrice,
		availability:       Available,
	}, nil
}

// Reconstruct rebuilds a Vehicle from persistence data (no validation).
func Reconstruct(
	id uuid.UUID,
	name string,
	vehicleType VehicleType,
	registrationNumber string,
	dailyRentPrice int64,
	availability Availability,
) *Vehicle {
	return &Vehicle{
		id:                 id,
		name:               name,
		vehicleType:        vehicleType,
		registrationNumber: registrationNumber,
		dailyRentPrice:     dailyRentPrice,
		availability:       availability,
	}
}

// --- Getters ---

func (v *Vehicle) ID() uuid.UUID               { return v.id }
func (v *Vehicle) Name() string                { return v.name }
func (v *Vehicle) VehicleType() VehicleType    { return v.vehicleType }
func (v *Vehicle) RegistrationNumber() string  { return v.registrationNumber }
func (v *Vehicle) DailyRentPrice() int64       { return v.dailyRentPrice }
func (v *Vehicle) Availability() Availability  { return v.availability }

// IsAvailable returns true if the vehicle can accept a new booking.
func (v *Vehicle) IsAvailable() bool { return v.availability == Available }

// --- Behavior ---

// Replace applies a full update of the vehicle's mutable fields.
func (v *Vehicle) Replace(name string, vehicleType VehicleType, registrationNumber string, dailyRentPrice int64, availability Availability) error {
	if strings.TrimSpace(name) == "" {
		return domain.NewValidationError("vehicle name is required")
	}
	if !vehicleType.IsValid() {
		return domain.NewValidationError(fmt.Sprintf("invalid vehicle type: %s", vehicleType))
	}
	if strings.TrimSpace(registrationNumber) == "" {
		return domain.NewValidationError("registration number is required")
	}
	if dailyRentPrice <= 0 {
		return domain.NewValidationError("daily rent price must be positive")
	}
	if !availability.IsValid() {
		return domain.NewValidationError(fmt.Sprintf("invalid availability status: %s", availability))
	}

	v.name = name
	v.vehicleType = vehicleType
	v.registrationNumber = registrationNumber
	v.dailyRentPrice = dailyRentPrice
	v.availability = availability
	return nil
}

// MarkBooked flips the vehicle to booked when an active booking claims it.
func (v *Vehicle) MarkBooked() { v.availability = Booked }

// MarkAvailable releases the vehicle when its booking reaches a terminal status.
func (v *Vehicle) MarkAvailable() { v.availability = Available }
