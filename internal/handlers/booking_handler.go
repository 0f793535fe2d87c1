package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/grandpavilion/booking-backend/internal/database"
	"github.com/grandpavilion/booking-backend/internal/middleware"
	"github.com/grandpavilion/booking-backend/internal/models"
	"github.com/grandpavilion/booking-backend/internal/services"
)

// BookingHandler exposes booking lifecycle endpoints
type BookingHandler struct {
	bookingService *services.BookingService
	userRepo       *database.UserRepository
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(bookingService *services.BookingService, userRepo *database.UserRepository) *BookingHandler {
	return &BookingHandler{bookingService: bookingService, userRepo: userRepo}
}

// currentUser loads the full user record for the authenticated caller
func (h *BookingHandler) currentUser(c *gin.Context) *models.User {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil
	}
	user, err := h.userRepo.GetByID(userCtx.UserID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return nil
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
		return nil
	}
	return user
}

// CheckAvailability probes a facility slot
// POST /api/v1/bookings/check-availability
func (h *BookingHandler) CheckAvailability(c *gin.Context) {
	var req struct {
		FacilityID string          `json:"facility_id" binding:"required"`
		Date       string          `json:"date" binding:"required"`
		TimeSlot   models.TimeSlot `json:"time_slot" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	available, err := h.bookingService.CheckAvailability(req.FacilityID, req.Date, req.TimeSlot)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"facility_id": req.FacilityID,
		"date":        req.Date,
		"time_slot":   req.TimeSlot,
		"available":   available,
	})
}

// CreateBooking creates a booking for the caller
// POST /api/v1/bookings
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	user := h.currentUser(c)
	if user == nil {
		return
	}

	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.bookingService.CreateBooking(user, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, booking)
}

// GetMyBookings returns the caller's bookings
// GET /api/v1/bookings/my
func (h *BookingHandler) GetMyBookings(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	bookings, err := h.bookingService.ListMine(userCtx.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bookings"})
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// GetBooking returns one booking
// GET /api/v1/bookings/:id
func (h *BookingHandler) GetBooking(c *gin.Context) {
	user := h.currentUser(c)
	if user == nil {
		return
	}

	booking, err := h.bookingService.GetBooking(user, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

// CancelBooking cancels a booking on behalf of its owner
// POST /api/v1/bookings/:id/cancel
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	user := h.currentUser(c)
	if user == nil {
		return
	}

	booking, err := h.bookingService.CancelBooking(user, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

// GetInvoice returns the invoice view for a booking
// GET /api/v1/bookings/:id/invoice
func (h *BookingHandler) GetInvoice(c *gin.Context) {
	user := h.currentUser(c)
	if user == nil {
		return
	}

	invoice, err := h.bookingService.Invoice(user, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, invoice)
}

// ListBookings returns bookings matching optional filters. Staff only.
// GET /api/v1/staff/bookings?status=&date=&type=
func (h *BookingHandler) ListBookings(c *gin.Context) {
	filter := database.BookingFilter{
		Status: models.BookingStatus(c.Query("status")),
		Type:   models.BookingType(c.Query("type")),
	}
	if dateStr := c.Query("date"); dateStr != "" {
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
			return
		}
		filter.Date = &date
	}

	bookings, err := h.bookingService.List(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bookings"})
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// GetDaily returns the active bookings for one day. Staff only.
// GET /api/v1/staff/bookings/daily?date=
func (h *BookingHandler) GetDaily(c *gin.Context) {
	dateStr := c.Query("date")
	date := time.Now()
	if dateStr != "" {
		var err error
		date, err = time.Parse("2006-01-02", dateStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
			return
		}
	}

	bookings, err := h.bookingService.GetDaily(date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch daily bookings"})
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// GetByNumber looks up a booking by its booking number. Staff only.
// GET /api/v1/staff/bookings/number/:number
func (h *BookingHandler) GetByNumber(c *gin.Context) {
	booking, err := h.bookingService.GetByNumber(c.Param("number"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

// UpdateStatus applies a staff status change
// PUT /api/v1/staff/bookings/:id/status
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	var req models.UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.bookingService.UpdateStatus(c.Param("id"), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}
