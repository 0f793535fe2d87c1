package services

import (
	"math"

	"github.com/grandpavilion/booking-backend/internal/models"
)

// RoundCurrency rounds an amount to two decimal places. All derived
// monetary values pass through here so repeated calculations over the
// same inputs always agree.
func RoundCurrency(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// PricingInput carries the resolved snapshot data a price calculation
// needs. Callers resolve catalog entities first; the calculation itself
// never touches the database.
type PricingInput struct {
	Type           models.BookingType
	Facility       *models.Facility
	Package        *models.EventPackage
	GuestCount     int
	FoodItems      []models.BookingFoodItem
	SelectedAddons []models.BookingAddon
	Discount       float64
	TaxRate        float64
	DepositRate    float64
	PayFullAmount  bool
}

// ComputePricing produces the full monetary breakdown for a booking.
//
// The facility charge depends on the booking type: table bookings are
// free to reserve, hall bookings pay the facility base price, and
// package bookings pay the package base price plus its per-person rate
// for every guest. Food and addon lines use the snapshot prices already
// resolved into the input. Tax applies to the subtotal before any
// discount; the discount comes off the taxed total, which never drops
// below zero.
//
// Table bookings and explicit full payments settle the whole total up
// front; hall and package bookings pay a deposit and owe the balance.
func ComputePricing(in PricingInput) models.Pricing {
	var facilityCharge float64
	switch in.Type {
	case models.BookingTypeHall:
		if in.Facility != nil {
			facilityCharge = in.Facility.BasePrice
		}
	case models.BookingTypePackage:
		if in.Package != nil {
			facilityCharge = in.Package.BasePrice + in.Package.PricePerPerson*float64(in.GuestCount)
		}
	}

	var foodTotal float64
	for _, item := range in.FoodItems {
		foodTotal += item.UnitPrice * float64(item.Quantity)
	}

	var addonTotal float64
	for _, addon := range in.SelectedAddons {
		addonTotal += addon.Price
	}

	subtotal := facilityCharge + foodTotal + addonTotal
	tax := RoundCurrency(subtotal * in.TaxRate)
	total := RoundCurrency(subtotal + tax - in.Discount)
	if total < 0 {
		total = 0
	}

	advance := total
	if !in.PayFullAmount && (in.Type == models.BookingTypeHall || in.Type == models.BookingTypePackage) {
		advance = RoundCurrency(total * in.DepositRate)
	}

	return models.Pricing{
		FacilityCharge: RoundCurrency(facilityCharge),
		FoodTotal:      RoundCurrency(foodTotal),
		AddonTotal:     RoundCurrency(addonTotal),
		Tax:            tax,
		Discount:       RoundCurrency(in.Discount),
		Total:          total,
		AdvancePaid:    advance,
		BalanceDue:     RoundCurrency(total - advance),
	}
}
