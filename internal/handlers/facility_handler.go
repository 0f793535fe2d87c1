package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/grandpavilion/booking-backend/internal/database"
	"github.com/grandpavilion/booking-backend/internal/models"
)

// FacilityHandler exposes facility catalog and floor plan endpoints
type FacilityHandler struct {
	facilityRepo *database.FacilityRepository
	reviewRepo   *database.ReviewRepository
}

// NewFacilityHandler creates a new FacilityHandler
func NewFacilityHandler(facilityRepo *database.FacilityRepository, reviewRepo *database.ReviewRepository) *FacilityHandler {
	return &FacilityHandler{facilityRepo: facilityRepo, reviewRepo: reviewRepo}
}

// ListFacilities returns all facilities, optionally filtered by type
// GET /api/v1/facilities?type=
func (h *FacilityHandler) ListFacilities(c *gin.Context) {
	facilities, err := h.facilityRepo.List(c.Query("type"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch facilities"})
		return
	}

	c.JSON(http.StatusOK, facilities)
}

// GetFacility returns one facility with its review summary
// GET /api/v1/facilities/:id
func (h *FacilityHandler) GetFacility(c *gin.Context) {
	facility, err := h.facilityRepo.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Facility not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch facility"})
		return
	}

	ratings, err := h.reviewRepo.GetFacilityRatings(facility.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch facility ratings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"facility": facility,
		"ratings":  ratings,
	})
}

// GetFloorPlan returns all facilities with their booked slots for one day,
// which is everything the floor plan view needs to render occupancy.
// GET /api/v1/facilities/floor-plan?date=
func (h *FacilityHandler) GetFloorPlan(c *gin.Context) {
	date := time.Now()
	if dateStr := c.Query("date"); dateStr != "" {
		var err error
		date, err = time.Parse("2006-01-02", dateStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
			return
		}
	}

	facilities, err := h.facilityRepo.List("")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch facilities"})
		return
	}

	type floorPlanEntry struct {
		Facility    *models.Facility  `json:"facility"`
		BookedSlots []models.TimeSlot `json:"booked_slots"`
	}

	entries := make([]floorPlanEntry, 0, len(facilities))
	for _, facility := range facilities {
		slots, err := h.facilityRepo.BookedSlots(facility.ID, date)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch booked slots"})
			return
		}
		entries = append(entries, floorPlanEntry{Facility: facility, BookedSlots: slots})
	}

	c.JSON(http.StatusOK, gin.H{
		"date":       date.Format("2006-01-02"),
		"facilities": entries,
	})
}

// GetBookedSlots returns the occupied slots for one facility on a day
// GET /api/v1/facilities/:id/slots?date=
func (h *FacilityHandler) GetBookedSlots(c *gin.Context) {
	dateStr := c.Query("date")
	if dateStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter is required"})
		return
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}

	if _, err := h.facilityRepo.GetByID(c.Param("id")); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Facility not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch facility"})
		return
	}

	slots, err := h.facilityRepo.BookedSlots(c.Param("id"), date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch booked slots"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"facility_id":  c.Param("id"),
		"date":         dateStr,
		"booked_slots": slots,
	})
}

// CreateFacility creates a facility. Admin only.
// POST /api/v1/admin/facilities
func (h *FacilityHandler) CreateFacility(c *gin.Context) {
	var req models.CreateFacilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	facility, err := h.facilityRepo.Create(&req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create facility"})
		return
	}

	c.JSON(http.StatusCreated, facility)
}

// UpdateFacility updates a facility. Admin only.
// PUT /api/v1/admin/facilities/:id
func (h *FacilityHandler) UpdateFacility(c *gin.Context) {
	var req models.UpdateFacilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	facility, err := h.facilityRepo.Update(c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Facility not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update facility"})
		return
	}

	c.JSON(http.StatusOK, facility)
}

// DeleteFacility removes a facility. Admin only.
// DELETE /api/v1/admin/facilities/:id
func (h *FacilityHandler) DeleteFacility(c *gin.Context) {
	if err := h.facilityRepo.Delete(c.Param("id")); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Facility not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete facility"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Facility deleted"})
}

// SetMaintenance toggles maintenance mode on a facility. Staff only.
// PUT /api/v1/staff/facilities/:id/maintenance
func (h *FacilityHandler) SetMaintenance(c *gin.Context) {
	var req struct {
		Maintenance *bool `json:"maintenance" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.facilityRepo.SetMaintenance(c.Param("id"), *req.Maintenance); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Facility not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update maintenance status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Maintenance status updated"})
}
