package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/grandpavilion/booking-backend/internal/services"
)

// respondServiceError maps service sentinel errors to HTTP responses so
// every handler reports the same failure the same way.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotAuthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have access to this resource"})
	case errors.Is(err, services.ErrAvailabilityConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "The requested slot is no longer available"})
	case errors.Is(err, services.ErrPastDeadline):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "The cancellation deadline for this booking has passed"})
	case errors.Is(err, services.ErrInvalidTransition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
	case errors.Is(err, services.ErrAccountDisabled):
		c.JSON(http.StatusForbidden, gin.H{"error": "This account has been disabled"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
