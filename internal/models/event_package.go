package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// EventType classifies the occasion an event package targets
type EventType string

const (
	EventTypeWedding     EventType = "wedding"
	EventTypeBirthday    EventType = "birthday"
	EventTypeCorporate   EventType = "corporate"
	EventTypeAnniversary EventType = "anniversary"
	EventTypeEngagement  EventType = "engagement"
	EventTypeOther       EventType = "other"
)

// PackageAddon is an optional extra offered with an event package
type PackageAddon struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Category    string  `json:"category,omitempty"`
}

// EventPackage is a bundled venue + catering offering
type EventPackage struct {
	ID             string         `json:"id" db:"id"`
	Name           string         `json:"name" db:"name"`
	EventType      EventType      `json:"event_type" db:"event_type"`
	Description    string         `json:"description" db:"description"`
	Tagline        *string        `json:"tagline,omitempty" db:"tagline"`
	BasePrice      float64        `json:"base_price" db:"base_price"`
	PricePerPerson float64        `json:"price_per_person" db:"price_per_person"`
	MinGuests      int            `json:"min_guests" db:"min_guests"`
	MaxGuests      int            `json:"max_guests" db:"max_guests"`
	DurationHours  int            `json:"duration_hours" db:"duration_hours"`
	FacilityID     *string        `json:"facility_id,omitempty" db:"facility_id"`
	Addons         []PackageAddon `json:"addons"`
	Images         pq.StringArray `json:"images" db:"images"`
	Terms          pq.StringArray `json:"terms" db:"terms"`
	IsActive       bool           `json:"is_active" db:"is_active"`
	IsFeatured     bool           `json:"is_featured" db:"is_featured"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at" db:"updated_at"`
}

// AddonByName looks up an add-on in the package catalog
func (p *EventPackage) AddonByName(name string) (PackageAddon, bool) {
	for _, a := range p.Addons {
		if a.Name == name {
			return a, true
		}
	}
	return PackageAddon{}, false
}

// GuestCountInBounds reports whether n fits the package's guest limits
func (p *EventPackage) GuestCountInBounds(n int) bool {
	return n >= p.MinGuests && n <= p.MaxGuests
}

// CreatePackageRequest is the admin payload to create an event package
type CreatePackageRequest struct {
	Name           string         `json:"name" binding:"required"`
	EventType      EventType      `json:"event_type" binding:"required"`
	Description    string         `json:"description" binding:"required"`
	Tagline        *string        `json:"tagline,omitempty"`
	BasePrice      float64        `json:"base_price" binding:"min=0"`
	PricePerPerson float64        `json:"price_per_person" binding:"min=0"`
	MinGuests      int            `json:"min_guests" binding:"required,min=1"`
	MaxGuests      int            `json:"max_guests" binding:"required,min=1"`
	DurationHours  int            `json:"duration_hours" binding:"required,min=1"`
	FacilityID     *string        `json:"facility_id,omitempty"`
	Addons         []PackageAddon `json:"addons,omitempty"`
	Images         []string       `json:"images,omitempty"`
	Terms          []string       `json:"terms,omitempty"`
	IsFeatured     bool           `json:"is_featured"`
}

// Validate validates the create package request
func (r *CreatePackageRequest) Validate() error {
	switch r.EventType {
	case EventTypeWedding, EventTypeBirthday, EventTypeCorporate,
		EventTypeAnniversary, EventTypeEngagement, EventTypeOther:
	default:
		return fmt.Errorf("invalid event type: %s", r.EventType)
	}
	if r.MaxGuests < r.MinGuests {
		return errors.New("max_guests cannot be less than min_guests")
	}
	for _, a := range r.Addons {
		if a.Price < 0 {
			return errors.New("addon price cannot be negative")
		}
	}
	return nil
}

// UpdatePackageRequest updates an event package; nil fields are unchanged
type UpdatePackageRequest struct {
	Name           *string        `json:"name,omitempty"`
	Description    *string        `json:"description,omitempty"`
	Tagline        *string        `json:"tagline,omitempty"`
	BasePrice      *float64       `json:"base_price,omitempty"`
	PricePerPerson *float64       `json:"price_per_person,omitempty"`
	MinGuests      *int           `json:"min_guests,omitempty"`
	MaxGuests      *int           `json:"max_guests,omitempty"`
	DurationHours  *int           `json:"duration_hours,omitempty"`
	Addons         []PackageAddon `json:"addons,omitempty"`
	Images         []string       `json:"images,omitempty"`
	Terms          []string       `json:"terms,omitempty"`
	IsActive       *bool          `json:"is_active,omitempty"`
	IsFeatured     *bool          `json:"is_featured,omitempty"`
}
