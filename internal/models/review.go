package models

import (
	"errors"
	"math"
	"time"

	"github.com/lib/pq"
)

// ReviewRatings holds the four sub-ratings plus the overall score (1-5)
type ReviewRatings struct {
	Food          int `json:"food" db:"rating_food"`
	Service       int `json:"service" db:"rating_service"`
	Ambiance      int `json:"ambiance" db:"rating_ambiance"`
	ValueForMoney int `json:"value_for_money" db:"rating_value"`
	Overall       int `json:"overall" db:"rating_overall"`
}

// Review is a customer review tied one-to-one to a completed booking
type Review struct {
	ID         string         `json:"id" db:"id"`
	BookingID  string         `json:"booking_id" db:"booking_id"`
	CustomerID string         `json:"customer_id" db:"customer_id"`
	Ratings    ReviewRatings  `json:"ratings"`
	Comment    *string        `json:"comment,omitempty" db:"comment"`
	Images     pq.StringArray `json:"images" db:"images"`
	Likes      int            `json:"likes" db:"likes"`
	Verified   bool           `json:"verified" db:"verified"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at" db:"updated_at"`
}

// FacilityRatings is the aggregated review summary for one facility
type FacilityRatings struct {
	AverageFood     float64 `json:"average_food" db:"average_food"`
	AverageService  float64 `json:"average_service" db:"average_service"`
	AverageAmbiance float64 `json:"average_ambiance" db:"average_ambiance"`
	AverageValue    float64 `json:"average_value" db:"average_value"`
	AverageOverall  float64 `json:"average_overall" db:"average_overall"`
	TotalReviews    int     `json:"total_reviews" db:"total_reviews"`
}

// CreateReviewRequest is the customer payload to review a booking
type CreateReviewRequest struct {
	BookingID     string   `json:"booking_id" binding:"required"`
	Food          int      `json:"food" binding:"required,min=1,max=5"`
	Service       int      `json:"service" binding:"required,min=1,max=5"`
	Ambiance      int      `json:"ambiance" binding:"required,min=1,max=5"`
	ValueForMoney int      `json:"value_for_money" binding:"required,min=1,max=5"`
	Overall       int      `json:"overall,omitempty"`
	Comment       *string  `json:"comment,omitempty"`
	Images        []string `json:"images,omitempty"`
}

// Validate validates the review request and fills Overall with the rounded
// average of the sub-ratings when not supplied.
func (r *CreateReviewRequest) Validate() error {
	for _, v := range []int{r.Food, r.Service, r.Ambiance, r.ValueForMoney} {
		if v < 1 || v > 5 {
			return errors.New("ratings must be between 1 and 5")
		}
	}
	if r.Overall == 0 {
		r.Overall = int(math.Round(float64(r.Food+r.Service+r.Ambiance+r.ValueForMoney) / 4))
	}
	if r.Overall < 1 || r.Overall > 5 {
		return errors.New("overall rating must be between 1 and 5")
	}
	if r.Comment != nil && len(*r.Comment) > 1000 {
		return errors.New("comment cannot exceed 1000 characters")
	}
	return nil
}
