package application

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rentwheels/service-rental/internal/domain"
	bookingDomain "github.com/rentwheels/service-rental/internal/domain/booking"
	vehicleDomain "github.com/rentwheels/service-rental/internal/domain/vehicle"
)

// CreateVehicleRequest holds the data needed to register a vehicle.
type CreateVehicleRequest struct {
	VehicleName        string `json:"vehicle_name" binding:"required"`
	Type               string `json:"type" binding:"required"`
	RegistrationNumber string `json:"registration_number" binding:"required"`
	DailyRentPrice     int64  `json:"daily_rent_price" binding:"required"`
}

// UpdateVehicleRequest is a full replacement of a vehicle's fields.
type UpdateVehicleRequest struct {
	VehicleName        string `json:"vehicle_name" binding:"required"`
	Type               string `json:"type" binding:"required"`
	RegistrationNumber string `json:"registration_number" binding:"required"`
	DailyRentPrice     int64  `json:"daily_rent_price" binding:"required"`
	AvailabilityStatus string `json:"availability_status" binding:"required"`
}

// VehicleDTO is the API response representation of a vehicle.
type VehicleDTO struct {
	ID                 uuid.UUID `json:"id"`
	VehicleName        string    `json:"vehicle_name"`
	Type               string    `json:"type"`
	RegistrationNumber string    `json:"registration_number"`
	DailyRentPrice     int64     `json:"daily_rent_price"`
	AvailabilityStatus string    `json:"availability_status"`
}

// VehicleService implements vehicle registry use cases. Deletion is
// guarded: a vehicle referenced by a non-terminal booking cannot be
// removed.
type VehicleService struct {
	vehicles vehicleDomain.Repository
	bookings bookingDomain.Repository
	tx       domain.Transactor
	logger   *zap.Logger
}

// NewVehicleService creates a new VehicleService.
func NewVehicleService(
	vehicles vehicleDomain.Repository,
	bookings bookingDomain.Repository,
	tx domain.Transactor,
	logger *zap.Logger,
) *VehicleService {
	return &VehicleService{
		vehicles: vehicles,
		bookings: bookings,
		tx:       tx,
		logger:   logger,
	}
}

// CreateVehicle registers a new, available vehicle.
func (s *VehicleService) CreateVehicle(ctx context.Context, req CreateVehicleRequest) (*VehicleDTO, error) {
	vehicleType, err := vehicleDomain.ParseVehicleType(req.Type)
	if err != nil {
		return nil, err
	}

	v, err := vehicleDomain.NewVehicle(req.VehicleName, vehicleType, req.RegistrationNumber, req.DailyRentPrice)
	if err != nil {
		return nil, err
	}
	if err := s.vehicles.Save(ctx, v); err != nil {
		return nil, err
	}

	s.logger.Info("vehicle created",
		zap.String("vehicle_id", v.ID().String()),
		zap.String("registration_number", v.RegistrationNumber()),
	)
	result := toVehicleDTO(v)
	return &result, nil
}

// ListVehicles returns all vehicles ordered by id ascending.
func (s *VehicleService) ListVehicles(ctx context.Context) ([]VehicleDTO, error) {
	vehicles, err := s.vehicles.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	dtos := make([]VehicleDTO, len(vehicles))
	for i, v := range vehicles {
		dtos[i] = toVehicleDTO(v)
	}
	return dtos, nil
}

// GetVehicle returns a single vehicle by ID.
func (s *VehicleService) GetVehicle(ctx context.Context, id uuid.UUID) (*VehicleDTO, error) {
	v, err := s.vehicles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := toVehicleDTO(v)
	return &result, nil
}

// UpdateVehicle applies a full replacement of a vehicle's fields.
func (s *VehicleService) UpdateVehicle(ctx context.Context, id uuid.UUID, req UpdateVehicleRequest) (*VehicleDTO, error) {
	vehicleType, err := vehicleDomain.ParseVehicleType(req.Type)
	if err != nil {
		return nil, err
	}

	v, err := s.vehicles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := v.Replace(req.VehicleName, vehicleType, req.RegistrationNumber, req.DailyRentPrice, vehicleDomain.Availability(req.AvailabilityStatus)); err != nil {
		return nil, err
	}
	if err := s.vehicles.Update(ctx, v); err != nil {
		return nil, err
	}

	s.logger.Info("vehicle updated", zap.String("vehicle_id", id.String()))
	result := toVehicleDTO(v)
	return &result, nil
}

// DeleteVehicle removes a vehicle unless a non-terminal booking still
// references it. The check and the delete run in one transaction so a
// booking created concurrently cannot slip between them.
func (s *VehicleService) DeleteVehicle(ctx context.Context, id uuid.UUID) error {
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		blocked, err := s.bookings.ExistsBlockingForVehicle(txCtx, id)
		if err != nil {
			return err
		}
		if blocked {
			return domain.NewConflictError("vehicle cannot be deleted because it has active bookings")
		}
		return s.vehicles.Delete(txCtx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("vehicle deleted", zap.String("vehicle_id", id.String()))
	return nil
}

func toVehicleDTO(v *vehicleDomain.Vehicle) VehicleDTO {
	return VehicleDTO{
		ID:                 v.ID(),
		VehicleName:        v.Name(),
		Type:               string(v.VehicleType()),
		RegistrationNumber: v.RegistrationNumber(),
		DailyRentPrice:     v.DailyRentPrice(),
		AvailabilityStatus: string(v.Availability()),
	}
}
