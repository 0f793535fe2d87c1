package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/grandpavilion/booking-backend/internal/database"
	"github.com/grandpavilion/booking-backend/internal/models"
)

// RestaurantHandler exposes the restaurant profile endpoints
type RestaurantHandler struct {
	infoRepo *database.RestaurantInfoRepository
}

// NewRestaurantHandler creates a new RestaurantHandler
func NewRestaurantHandler(infoRepo *database.RestaurantInfoRepository) *RestaurantHandler {
	return &RestaurantHandler{infoRepo: infoRepo}
}

// GetInfo returns the restaurant profile
// GET /api/v1/restaurant
func (h *RestaurantHandler) GetInfo(c *gin.Context) {
	info, err := h.infoRepo.Get()
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant profile has not been set up yet"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch restaurant info"})
		return
	}

	c.JSON(http.StatusOK, info)
}

// SaveInfo creates or replaces the restaurant profile. Admin only.
// PUT /api/v1/admin/restaurant
func (h *RestaurantHandler) SaveInfo(c *gin.Context) {
	var req models.UpdateRestaurantInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	info, err := h.infoRepo.Save(&req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save restaurant info"})
		return
	}

	c.JSON(http.StatusOK, info)
}
