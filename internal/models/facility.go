package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// FacilityType classifies a bookable space
type FacilityType string

const (
	FacilityTypeTable   FacilityType = "table"
	FacilityTypeHall    FacilityType = "hall"
	FacilityTypeRoom    FacilityType = "room"
	FacilityTypeOutdoor FacilityType = "outdoor"
)

// FacilityPosition holds floor-plan layout metadata for the SPA floor view
type FacilityPosition struct {
	X      float64 `json:"x" db:"position_x"`
	Y      float64 `json:"y" db:"position_y"`
	Width  float64 `json:"width" db:"position_width"`
	Height float64 `json:"height" db:"position_height"`
	Floor  int     `json:"floor" db:"position_floor"`
}

// Facility is a bookable table, hall, room, or outdoor space
type Facility struct {
	ID              string         `json:"id" db:"id"`
	Name            string         `json:"name" db:"name"`
	Type            FacilityType   `json:"type" db:"facility_type"`
	TableNumber     *string        `json:"table_number,omitempty" db:"table_number"`
	Capacity        int            `json:"capacity" db:"capacity"`
	HallType        *string        `json:"hall_type,omitempty" db:"hall_type"`
	Position        FacilityPosition `json:"position"`
	Features        pq.StringArray `json:"features" db:"features"`
	Amenities       pq.StringArray `json:"amenities" db:"amenities"`
	BasePrice       float64        `json:"base_price" db:"base_price"`
	PricePerPerson  float64        `json:"price_per_person" db:"price_per_person"`
	MinBookingHours int            `json:"min_booking_hours" db:"min_booking_hours"`
	IsAvailable     bool           `json:"is_available" db:"is_available"`
	IsMaintenance   bool           `json:"is_maintenance" db:"is_maintenance"`
	Images          pq.StringArray `json:"images" db:"images"`
	Description     *string        `json:"description,omitempty" db:"description"`
	CreatedAt       time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at" db:"updated_at"`
}

// Bookable reports whether the facility accepts new bookings at all.
// Slot-level availability is checked separately against existing bookings.
func (f *Facility) Bookable() bool {
	return f.IsAvailable && !f.IsMaintenance
}

// CreateFacilityRequest is the admin payload to create a facility
type CreateFacilityRequest struct {
	Name            string            `json:"name" binding:"required"`
	Type            FacilityType      `json:"type" binding:"required"`
	TableNumber     *string           `json:"table_number,omitempty"`
	Capacity        int               `json:"capacity" binding:"required,min=1"`
	HallType        *string           `json:"hall_type,omitempty"`
	Position        *FacilityPosition `json:"position,omitempty"`
	Features        []string          `json:"features,omitempty"`
	Amenities       []string          `json:"amenities,omitempty"`
	BasePrice       float64           `json:"base_price"`
	PricePerPerson  float64           `json:"price_per_person"`
	MinBookingHours int               `json:"min_booking_hours"`
	Images          []string          `json:"images,omitempty"`
	Description     *string           `json:"description,omitempty"`
}

// Validate validates the create facility request
func (r *CreateFacilityRequest) Validate() error {
	switch r.Type {
	case FacilityTypeTable, FacilityTypeHall, FacilityTypeRoom, FacilityTypeOutdoor:
	default:
		return fmt.Errorf("invalid facility type: %s", r.Type)
	}
	if r.Capacity < 1 {
		return errors.New("capacity must be at least 1")
	}
	if r.BasePrice < 0 || r.PricePerPerson < 0 {
		return errors.New("prices cannot be negative")
	}
	return nil
}

// UpdateFacilityRequest is the admin payload to update a facility.
// Nil fields are left unchanged.
type UpdateFacilityRequest struct {
	Name            *string           `json:"name,omitempty"`
	Capacity        *int              `json:"capacity,omitempty"`
	HallType        *string           `json:"hall_type,omitempty"`
	Position        *FacilityPosition `json:"position,omitempty"`
	Features        []string          `json:"features,omitempty"`
	Amenities       []string          `json:"amenities,omitempty"`
	BasePrice       *float64          `json:"base_price,omitempty"`
	PricePerPerson  *float64          `json:"price_per_person,omitempty"`
	MinBookingHours *int              `json:"min_booking_hours,omitempty"`
	IsAvailable     *bool             `json:"is_available,omitempty"`
	IsMaintenance   *bool             `json:"is_maintenance,omitempty"`
	Images          []string          `json:"images,omitempty"`
	Description     *string           `json:"description,omitempty"`
}

// FacilityAvailabilityRequest probes a facility for a specific slot
type FacilityAvailabilityRequest struct {
	Date     string   `json:"date" binding:"required"`
	TimeSlot TimeSlot `json:"time_slot" binding:"required"`
}
