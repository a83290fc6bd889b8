package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rentwheels/service-rental/internal/auth"
	"github.com/rentwheels/service-rental/internal/domain/account"
	"github.com/rentwheels/service-rental/internal/domain/booking"
	"github.com/rentwheels/service-rental/internal/response"
)

const (
	ctxKeyUserID    = "auth.user_id"
	ctxKeyUserRole  = "auth.user_role"
	ctxKeyRequestID = "request_id"
)

// AuthMiddleware verifies the Bearer token and stores the requester's
// identity on the gin context.
func AuthMiddleware(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			unauthorized(c, "missing authorization header")
			return
		}
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			unauthorized(c, "malformed authorization header")
			return
		}

		userID, role, err := jwtManager.Verify(token)
		if err != nil {
			unauthorized(c, err.Error())
			return
		}

		c.Set(ctxKeyUserID, userID)
		c.Set(ctxKeyUserRole, role)
		c.Next()
	}
}

// RequireRole aborts with 403 unless the requester has one of the roles.
func RequireRole(roles ...account.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetUserRole(c)
		if !ok {
			unauthorized(c, "unauthorized")
			return
		}
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, response.Body{
			Success: false,
			Message: "insufficient permissions",
		})
	}
}

// GetUserID extracts the authenticated user ID from the gin context.
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(ctxKeyUserID)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// GetUserRole extracts the authenticated user role from the gin context.
func GetUserRole(c *gin.Context) (account.Role, bool) {
	v, exists := c.Get(ctxKeyUserRole)
	if !exists {
		return "", false
	}
	role, ok := v.(account.Role)
	return role, ok
}

// GetRequester assembles the requester the core operates as.
func GetRequester(c *gin.Context) (booking.Requester, bool) {
	id, ok := GetUserID(c)
	if !ok {
		return booking.Requester{}, false
	}
	role, ok := GetUserRole(c)
	if !ok {
		return booking.Requester{}, false
	}
	return booking.Requester{ID: id, Role: role}, true
}

// RecoveryMiddleware converts panics into 500 envelopes.
func RecoveryMiddleware(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic recovered",
					zap.Any("panic", r),
					zap.String("path", c.Request.URL.Path),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, response.Body{
					Success: false,
					Message: "internal server error",
				})
			}
		}()
		c.Next()
	}
}

// LoggerMiddleware logs each request with latency and status.
func LoggerMiddleware(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetString(ctxKeyRequestID)),
		)
	}
}

// RequestIDMiddleware assigns each request an id, honoring X-Request-ID.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ctxKeyRequestID, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// CORSMiddleware applies permissive CORS headers for browser clients.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, response.Body{
		Success: false,
		Message: message,
	})
}
