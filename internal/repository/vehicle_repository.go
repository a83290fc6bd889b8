package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rentwheels/service-rental/internal/domain"
	vehicleDomain "github.com/rentwheels/service-rental/internal/domain/vehicle"
)

// VehicleModel is the GORM model for the vehicles table.
type VehicleModel struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	VehicleName        string    `gorm:"type:varchar(255);not null"`
	Type               string    `gorm:"type:varchar(10);not null"`
	RegistrationNumber string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	DailyRentPrice     int64     `gorm:"not null;check:daily_rent_price > 0"`
	AvailabilityStatus string    `gorm:"type:varchar(15);not null;default:'available'"`
}

// TableName returns the table name for the GORM model.
func (VehicleModel) TableName() string {
	return "vehicles"
}

// GormVehicleRepository is the GORM-based implementation of vehicle.Repository.
type GormVehicleRepository struct {
	db *gorm.DB
}

// NewGormVehicleRepository creates a new GormVehicleRepository.
func NewGormVehicleRepository(db *gorm.DB) *GormVehicleRepository {
	return &GormVehicleRepository{db: db}
}

// FindByID retrieves a vehicle by its unique identifier.
func (r *GormVehicleRepository) FindByID(ctx context.Context, id uuid.UUID) (*vehicleDomain.Vehicle, error) {
	var model VehicleModel
	if err := conn(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Vehicle", id.String())
		}
		return nil, fmt.Errorf("failed to find vehicle by ID: %w", err)
	}
	return toDomainVehicle(&model), nil
}

// FindByIDForUpdate retrieves a vehicle with a FOR UPDATE row lock so
// concurrent bookings against the same vehicle serialize.
func (r *GormVehicleRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*vehicleDomain.Vehicle, error) {
	var model VehicleModel
	err := conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Vehicle", id.String())
		}
		return nil, fmt.Errorf("failed to lock vehicle row: %w", err)
	}
	return toDomainVehicle(&model), nil
}

// ListAll retrieves all vehicles ordered by id ascending.
func (r *GormVehicleRepository) ListAll(ctx context.Context) ([]*vehicleDomain.Vehicle, error) {
	var models []VehicleModel
	if err := conn(ctx, r.db).Order("id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}

	vehicles := make([]*vehicleDomain.Vehicle, len(models))
	for i, m := range models {
		vehicles[i] = toDomainVehicle(&m)
	}
	return vehicles, nil
}

// Save persists a new vehicle.
func (r *GormVehicleRepository) Save(ctx context.Context, v *vehicleDomain.Vehicle) error {
	if err := conn(ctx, r.db).Create(toVehicleModel(v)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.NewConflictError("registration number already exists")
		}
		return fmt.Errorf("failed to save vehicle: %w", err)
	}
	return nil
}

// Update persists a full replacement of an existing vehicle.
func (r *GormVehicleRepository) Update(ctx context.Context, v *vehicleDomain.Vehicle) error {
	model := toVehicleModel(v)
	result := conn(ctx, r.db).
		Model(&VehicleModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"vehicle_name":        model.VehicleName,
			"type":                model.Type,
			"registration_number": model.RegistrationNumber,
			"daily_rent_price":    model.DailyRentPrice,
			"availability_status": model.AvailabilityStatus,
		})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return domain.NewConflictError("registration number already exists")
		}
		return fmt.Errorf("failed to update vehicle: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Vehicle", model.ID.String())
	}
	return nil
}

// Delete removes a vehicle row.
func (r *GormVehicleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := conn(ctx, r.db).Where("id = ?", id).Delete(&VehicleModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete vehicle: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Vehicle", id.String())
	}
	return nil
}

// --- Conversion Helpers ---

func toVehicleModel(v *vehicleDomain.Vehicle) *VehicleModel {
	return &VehicleModel{
		ID:                 v.ID(),
		VehicleName:        v.Name(),
		Type:               string(v.VehicleType()),
		RegistrationNumber: v.RegistrationNumber(),
		DailyRentPrice:     v.DailyRentPrice(),
		AvailabilityStatus: string(v.Availability()),
	}
}

func toDomainVehicle(m *VehicleModel) *vehicleDomain.Vehicle {
	return vehicleDomain.Reconstruct(
		m.ID,
		m.VehicleName,
		vehicleDomain.VehicleType(m.Type),
		m.RegistrationNumber,
		m.DailyRentPrice,
		vehicleDomain.Availability(m.AvailabilityStatus),
	)
}
