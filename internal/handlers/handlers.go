package handlers

import (
	"errors"
	"net/http"

	"tribuna/internal/cache"
	apperrors "tribuna/internal/errors"
	"tribuna/internal/logger"
	"tribuna/internal/service"

	"github.com/gin-gonic/gin"
)

// Handlers aggregates all HTTP handlers.
type Handlers struct {
	services     *service.Services
	valkeyClient *cache.ValkeyClient
}

// NewHandlers creates handlers over the services. The Valkey client is
// optional and only accelerates the public ticket listing.
func NewHandlers(services *service.Services, valkeyClient *cache.ValkeyClient) *Handlers {
	return &Handlers{
		services:     services,
		valkeyClient: valkeyClient,
	}
}

// userIDFromContext returns the authenticated user id set by the auth
// middleware. Routes behind JWTAuth always have it.
func userIDFromContext(c *gin.Context) (int64, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// handleServiceError translates service errors into HTTP responses. Missing
// bookings and bookings owned by someone else produce the same response, so
// booking ids cannot be probed.
func (h *Handlers) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found", "code": "INVALID_USER"})
	case errors.Is(err, apperrors.ErrTicketNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
	case errors.Is(err, apperrors.ErrBookingNotFound),
		errors.Is(err, apperrors.ErrNotOwner):
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
	case errors.Is(err, apperrors.ErrInsufficientTickets):
		c.JSON(http.StatusConflict, gin.H{"error": "Not enough tickets remaining"})
	case errors.Is(err, apperrors.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Temporary conflict, please retry"})
	default:
		logger.WithContext(c.Request.Context()).Error("Unhandled service error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
