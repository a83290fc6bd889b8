package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rentwheels/service-rental/internal/application"
	"github.com/rentwheels/service-rental/internal/auth"
	"github.com/rentwheels/service-rental/internal/domain/account"
	"github.com/rentwheels/service-rental/internal/middleware"
	"github.com/rentwheels/service-rental/internal/response"
)

// VehicleHandler handles HTTP requests for vehicle registry operations.
type VehicleHandler struct {
	service *application.VehicleService
}

// NewVehicleHandler creates a new VehicleHandler.
func NewVehicleHandler(service *application.VehicleService) *VehicleHandler {
	return &VehicleHandler{service: service}
}

// RegisterRoutes registers all vehicle routes on the given router group.
// Reads are public; mutations are admin-only.
func (h *VehicleHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)
	adminOnly := middleware.RequireRole(account.RoleAdmin)

	vehicles := r.Group("/api/v1/vehicles")
	{
		vehicles.GET("", h.ListVehicles)
		vehicles.GET("/:vehicleId", h.GetVehicle)
		vehicles.POST("", authMW, adminOnly, h.CreateVehicle)
		vehicles.PUT("/:vehicleId", authMW, adminOnly, h.UpdateVehicle)
		vehicles.DELETE("/:vehicleId", authMW, adminOnly, h.DeleteVehicle)
	}
}

// CreateVehicle handles POST /api/v1/vehicles.
func (h *VehicleHandler) CreateVehicle(c *gin.Context) {
	var req application.CreateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateVehicle(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Vehicle created successfully", result)
}

// ListVehicles handles GET /api/v1/vehicles.
func (h *VehicleHandler) ListVehicles(c *gin.Context) {
	result, err := h.service.ListVehicles(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "Vehicles retrieved successfully"
	if len(result) == 0 {
		message = "No vehicles found"
	}
	response.Success(c, message, result)
}

// GetVehicle handles GET /api/v1/vehicles/:vehicleId.
func (h *VehicleHandler) GetVehicle(c *gin.Context) {
	vehicleID, err := uuid.Parse(c.Param("vehicleId"))
	if err != nil {
		response.BadRequest(c, "invalid vehicle ID")
		return
	}

	result, err := h.service.GetVehicle(c.Request.Context(), vehicleID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, "Vehicle retrieved successfully", result)
}

// UpdateVehicle handles PUT /api/v1/vehicles/:vehicleId.
func (h *VehicleHandler) UpdateVehicle(c *gin.Context) {
	vehicleID, err := uuid.Parse(c.Param("vehicleId"))
	if err != nil {
		response.BadRequest(c, "invalid vehicle ID")
		return
	}

	var req application.UpdateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateVehicle(c.Request.Context(), vehicleID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, "Vehicle updated successfully", result)
}

// DeleteVehicle handles DELETE /api/v1/vehicles/:vehicleId.
func (h *VehicleHandler) DeleteVehicle(c *gin.Context) {
	vehicleID, err := uuid.Parse(c.Param("vehicleId"))
	if err != nil {
		response.BadRequest(c, "invalid vehicle ID")
		return
	}

	if err := h.service.DeleteVehicle(c.Request.Context(), vehicleID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, "Vehicle deleted successfully", nil)
}
