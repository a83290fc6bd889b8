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

// UserHandler handles HTTP requests for account registration, sign-in and
// admin account management.
type UserHandler struct {
	service *application.AccountService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *application.AccountService) *UserHandler {
	return &UserHandler{service: service}
}

// RegisterRoutes registers auth and user-management routes.
func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)
	adminOnly := middleware.RequireRole(account.RoleAdmin)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/auth/signup", h.SignUp)
		v1.POST("/auth/signin", h.SignIn)

		users := v1.Group("/users")
		users.Use(authMW, adminOnly)
		{
			users.GET("", h.ListUsers)
			users.PUT("/:id", h.UpdateUser)
			users.DELETE("/:id", h.DeleteUser)
		}
	}
}

// SignUp handles POST /api/v1/auth/signup.
func (h *UserHandler) SignUp(c *gin.Context) {
	var req application.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.SignUp(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "User registered successfully", result)
}

// SignIn handles POST /api/v1/auth/signin.
func (h *UserHandler) SignIn(c *gin.Context) {
	var req application.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.SignIn(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, "Login successful", result)
}

// ListUsers handles GET /api/v1/users.
func (h *UserHandler) ListUsers(c *gin.Context) {
	result, err := h.service.ListAccounts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, "Users retrieved successfully", result)
}

// UpdateUser handles PUT /api/v1/users/:id.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user ID")
		return
	}

	var req application.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateAccount(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, "User updated successfully", result)
}

// DeleteUser handles DELETE /api/v1/users/:id.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user ID")
		return
	}

	if err := h.service.DeleteAccount(c.Request.Context(), userID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, "User deleted successfully", nil)
}
