package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rentwheels/service-rental/internal/application"
	"github.com/rentwheels/service-rental/internal/auth"
	"github.com/rentwheels/service-rental/internal/domain/account"
	bookingDomain "github.com/rentwheels/service-rental/internal/domain/booking"
	"github.com/rentwheels/service-rental/internal/middleware"
	"github.com/rentwheels/service-rental/internal/response"
)

// BookingHandler handles HTTP requests for booking operations.
type BookingHandler struct {
	service *application.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// RegisterRoutes registers all booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	bookings := r.Group("/api/v1/bookings")
	bookings.Use(authMW, middleware.RequireRole(account.RoleAdmin, account.RoleCustomer))
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("", h.ListBookings)
		bookings.PUT("/:bookingId", h.TransitionBooking)
	}
}

// CreateBooking handles POST /api/v1/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req application.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Booking created successfully", result)
}

// ListBookings handles GET /api/v1/bookings. Admins see every booking,
// customers only their own.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	requester, ok := middleware.GetRequester(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := h.service.ListBookings(c.Request.Context(), requester)
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "Your bookings retrieved successfully"
	if requester.Role == account.RoleAdmin {
		message = "Bookings retrieved successfully"
	}
	response.Success(c, message, result)
}

// TransitionBooking handles PUT /api/v1/bookings/:bookingId.
func (h *BookingHandler) TransitionBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("bookingId"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	requester, ok := middleware.GetRequester(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req application.TransitionBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.TransitionBooking(c.Request.Context(), requester, bookingID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "Booking cancelled successfully"
	if result.Status == string(bookingDomain.StatusReturned) {
		message = "Booking marked as returned. Vehicle is now available"
	}
	response.Success(c, message, result)
}
