package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// FoodType classifies a menu item's dietary category
type FoodType string

const (
	FoodTypeVeg    FoodType = "veg"
	FoodTypeNonVeg FoodType = "non_veg"
	FoodTypeVegan  FoodType = "vegan"
	FoodTypeEgg    FoodType = "egg"
)

// FoodCategory groups menu items for display ordering
type FoodCategory struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	SortOrder   int       `json:"sort_order" db:"sort_order"`
	Image       *string   `json:"image,omitempty" db:"image"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// FoodItem is a menu item with its current catalog price. Bookings copy the
// effective price at creation time; changing it here never rewrites history.
type FoodItem struct {
	ID          string         `json:"id" db:"id"`
	Name        string         `json:"name" db:"name"`
	CategoryID  string         `json:"category_id" db:"category_id"`
	Description *string        `json:"description,omitempty" db:"description"`
	Price       float64        `json:"price" db:"price"`
	OfferPrice  *float64       `json:"offer_price,omitempty" db:"offer_price"`
	IsOnOffer   bool           `json:"is_on_offer" db:"is_on_offer"`
	Type        FoodType       `json:"type" db:"food_type"`
	SpiceLevel  *string        `json:"spice_level,omitempty" db:"spice_level"`
	Ingredients pq.StringArray `json:"ingredients" db:"ingredients"`
	IsAvailable bool           `json:"is_available" db:"is_available"`
	IsPopular   bool           `json:"is_popular" db:"is_popular"`
	Images      pq.StringArray `json:"images" db:"images"`
	Tags        pq.StringArray `json:"tags" db:"tags"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}

// EffectivePrice returns the price a booking should snapshot right now
func (f *FoodItem) EffectivePrice() float64 {
	if f.IsOnOffer && f.OfferPrice != nil {
		return *f.OfferPrice
	}
	return f.Price
}

// CreateFoodCategoryRequest is the admin payload to create a category
type CreateFoodCategoryRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description,omitempty"`
	SortOrder   int     `json:"sort_order"`
	Image       *string `json:"image,omitempty"`
}

// CreateFoodItemRequest is the admin payload to create a menu item
type CreateFoodItemRequest struct {
	Name        string   `json:"name" binding:"required"`
	CategoryID  string   `json:"category_id" binding:"required"`
	Description *string  `json:"description,omitempty"`
	Price       float64  `json:"price" binding:"required"`
	OfferPrice  *float64 `json:"offer_price,omitempty"`
	IsOnOffer   bool     `json:"is_on_offer"`
	Type        FoodType `json:"type" binding:"required"`
	SpiceLevel  *string  `json:"spice_level,omitempty"`
	Ingredients []string `json:"ingredients,omitempty"`
	IsPopular   bool     `json:"is_popular"`
	Images      []string `json:"images,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// Validate validates the create food item request
func (r *CreateFoodItemRequest) Validate() error {
	switch r.Type {
	case FoodTypeVeg, FoodTypeNonVeg, FoodTypeVegan, FoodTypeEgg:
	default:
		return fmt.Errorf("invalid food type: %s", r.Type)
	}
	if r.Price < 0 {
		return errors.New("price cannot be negative")
	}
	if r.IsOnOffer && r.OfferPrice == nil {
		return errors.New("offer_price is required when is_on_offer is set")
	}
	if r.OfferPrice != nil && *r.OfferPrice < 0 {
		return errors.New("offer_price cannot be negative")
	}
	return nil
}

// UpdateFoodItemRequest updates a menu item; nil fields are unchanged
type UpdateFoodItemRequest struct {
	Name        *string  `json:"name,omitempty"`
	CategoryID  *string  `json:"category_id,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	OfferPrice  *float64 `json:"offer_price,omitempty"`
	IsOnOffer   *bool    `json:"is_on_offer,omitempty"`
	SpiceLevel  *string  `json:"spice_level,omitempty"`
	Ingredients []string `json:"ingredients,omitempty"`
	IsAvailable *bool    `json:"is_available,omitempty"`
	IsPopular   *bool    `json:"is_popular,omitempty"`
	Images      []string `json:"images,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}
