package models

import "time"

// DayHours is an open/close pair in HH:mm
type DayHours struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// MealWindow is a meal period's start/end in HH:mm
type MealWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// RestaurantSettings holds booking policy knobs stored with the restaurant
// profile. They feed request validation in the booking service.
type RestaurantSettings struct {
	MaxAdvanceBookingDays int `json:"max_advance_booking_days"`
	MinPartySize          int `json:"min_party_size"`
	MaxPartySize          int `json:"max_party_size"`
	DepositPercentage     int `json:"deposit_percentage"`
}

// RestaurantInfo is the single restaurant profile record. Exactly one row
// exists; writes go through create-or-update semantics.
type RestaurantInfo struct {
	ID           string                `json:"id" db:"id"`
	Name         string                `json:"name" db:"name"`
	Tagline      *string               `json:"tagline,omitempty" db:"tagline"`
	Phone        string                `json:"phone" db:"phone"`
	Email        string                `json:"email" db:"email"`
	Website      *string               `json:"website,omitempty" db:"website"`
	Street       string                `json:"street" db:"street"`
	City         string                `json:"city" db:"city"`
	PostalCode   *string               `json:"postal_code,omitempty" db:"postal_code"`
	About        *string               `json:"about,omitempty" db:"about"`
	OpeningHours map[string]DayHours   `json:"opening_hours"`
	MealTimings  map[string]MealWindow `json:"meal_timings"`
	Settings     RestaurantSettings    `json:"settings"`
	CreatedAt    time.Time             `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at" db:"updated_at"`
}

// DefaultRestaurantSettings returns the policy defaults used until an admin
// saves a profile.
func DefaultRestaurantSettings() RestaurantSettings {
	return RestaurantSettings{
		MaxAdvanceBookingDays: 90,
		MinPartySize:          1,
		MaxPartySize:          200,
		DepositPercentage:     30,
	}
}

// UpdateRestaurantInfoRequest is the admin payload for the profile.
// The whole document is replaced on write, matching create-or-update
// semantics on the single row.
type UpdateRestaurantInfoRequest struct {
	Name         string                `json:"name" binding:"required"`
	Tagline      *string               `json:"tagline,omitempty"`
	Phone        string                `json:"phone" binding:"required"`
	Email        string                `json:"email" binding:"required,email"`
	Website      *string               `json:"website,omitempty"`
	Street       string                `json:"street" binding:"required"`
	City         string                `json:"city" binding:"required"`
	PostalCode   *string               `json:"postal_code,omitempty"`
	About        *string               `json:"about,omitempty"`
	OpeningHours map[string]DayHours   `json:"opening_hours,omitempty"`
	MealTimings  map[string]MealWindow `json:"meal_timings,omitempty"`
	Settings     *RestaurantSettings   `json:"settings,omitempty"`
}
