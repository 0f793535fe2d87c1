package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/grandpavilion/booking-backend/internal/database"
	"github.com/grandpavilion/booking-backend/internal/middleware"
	"github.com/grandpavilion/booking-backend/internal/models"
)

// ReviewHandler exposes review endpoints
type ReviewHandler struct {
	reviewRepo  *database.ReviewRepository
	bookingRepo *database.BookingRepository
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(reviewRepo *database.ReviewRepository, bookingRepo *database.BookingRepository) *ReviewHandler {
	return &ReviewHandler{reviewRepo: reviewRepo, bookingRepo: bookingRepo}
}

// CreateReview reviews a completed booking. One review per booking; the
// caller must own the booking and it must be completed.
// POST /api/v1/reviews
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.bookingRepo.GetByID(req.BookingID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch booking"})
		return
	}
	if booking.CustomerID != userCtx.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only review your own bookings"})
		return
	}
	if booking.Status != models.BookingStatusCompleted {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Only completed bookings can be reviewed"})
		return
	}
	if booking.Reviewed {
		c.JSON(http.StatusConflict, gin.H{"error": "This booking has already been reviewed"})
		return
	}

	review, err := h.reviewRepo.Create(userCtx.UserID, &req)
	if err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "This booking has already been reviewed"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create review"})
		return
	}

	if err := h.bookingRepo.SetReviewed(booking.ID, review.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to link review to booking"})
		return
	}

	c.JSON(http.StatusCreated, review)
}

// ListFacilityReviews returns reviews for one facility, newest first
// GET /api/v1/facilities/:id/reviews?limit=
func (h *ReviewHandler) ListFacilityReviews(c *gin.Context) {
	limit := 20
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 || parsed > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 100"})
			return
		}
		limit = parsed
	}

	reviews, err := h.reviewRepo.ListByFacility(c.Param("id"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
		return
	}

	c.JSON(http.StatusOK, reviews)
}

// LikeReview increments a review's like counter
// POST /api/v1/reviews/:id/like
func (h *ReviewHandler) LikeReview(c *gin.Context) {
	if err := h.reviewRepo.AddLike(c.Param("id")); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to like review"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Review liked"})
}
