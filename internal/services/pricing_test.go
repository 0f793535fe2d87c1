package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/grandpavilion/booking-backend/internal/models"
)

func TestComputePricingHallBooking(t *testing.T) {
	facility := &models.Facility{Type: models.FacilityTypeHall, BasePrice: 100000}

	pricing := ComputePricing(PricingInput{
		Type:        models.BookingTypeHall,
		Facility:    facility,
		GuestCount:  120,
		TaxRate:     0.15,
		DepositRate: 0.30,
	})

	assert.Equal(t, 100000.0, pricing.FacilityCharge)
	assert.Equal(t, 15000.0, pricing.Tax)
	assert.Equal(t, 115000.0, pricing.Total)
	assert.Equal(t, 34500.0, pricing.AdvancePaid)
	assert.Equal(t, 80500.0, pricing.BalanceDue)
}

func TestComputePricingTableBooking(t *testing.T) {
	facility := &models.Facility{Type: models.FacilityTypeTable, BasePrice: 0}

	pricing := ComputePricing(PricingInput{
		Type:       models.BookingTypeTable,
		Facility:   facility,
		GuestCount: 4,
		FoodItems: []models.BookingFoodItem{
			{Name: "Seafood Platter", Quantity: 2, UnitPrice: 4500},
			{Name: "Lime Juice", Quantity: 4, UnitPrice: 350},
		},
		TaxRate:     0.15,
		DepositRate: 0.30,
	})

	assert.Equal(t, 0.0, pricing.FacilityCharge)
	assert.Equal(t, 10400.0, pricing.FoodTotal)
	assert.Equal(t, 1560.0, pricing.Tax)
	assert.Equal(t, 11960.0, pricing.Total)
	// Table bookings settle in full
	assert.Equal(t, pricing.Total, pricing.AdvancePaid)
	assert.Equal(t, 0.0, pricing.BalanceDue)
}

func TestComputePricingPackageBooking(t *testing.T) {
	pkg := &models.EventPackage{BasePrice: 250000, PricePerPerson: 1500}

	pricing := ComputePricing(PricingInput{
		Type:       models.BookingTypePackage,
		Package:    pkg,
		GuestCount: 100,
		SelectedAddons: []models.BookingAddon{
			{Name: "DJ", Price: 25000},
			{Name: "Photography", Price: 40000},
		},
		Discount:    10000,
		TaxRate:     0.15,
		DepositRate: 0.30,
	})

	// 250000 + 1500*100 = 400000 facility charge
	assert.Equal(t, 400000.0, pricing.FacilityCharge)
	assert.Equal(t, 65000.0, pricing.AddonTotal)
	// Subtotal 400000 + 65000 = 465000, tax 69750, discount off the taxed total
	assert.Equal(t, 69750.0, pricing.Tax)
	assert.Equal(t, 524750.0, pricing.Total)
	assert.Equal(t, 157425.0, pricing.AdvancePaid)
	assert.Equal(t, 367325.0, pricing.BalanceDue)
}

func TestComputePricingDiscountAfterTax(t *testing.T) {
	facility := &models.Facility{Type: models.FacilityTypeHall, BasePrice: 100000}

	pricing := ComputePricing(PricingInput{
		Type:        models.BookingTypeHall,
		Facility:    facility,
		GuestCount:  60,
		Discount:    10000,
		TaxRate:     0.15,
		DepositRate: 0.30,
	})

	// Tax is charged on the full 100000 subtotal, not the discounted one
	assert.Equal(t, 15000.0, pricing.Tax)
	assert.Equal(t, 105000.0, pricing.Total)
	assert.Equal(t, 31500.0, pricing.AdvancePaid)
	assert.Equal(t, 73500.0, pricing.BalanceDue)
}

func TestComputePricingDepositSplitInvariant(t *testing.T) {
	facility := &models.Facility{Type: models.FacilityTypeHall, BasePrice: 33333.33}

	pricing := ComputePricing(PricingInput{
		Type:        models.BookingTypeHall,
		Facility:    facility,
		GuestCount:  50,
		TaxRate:     0.15,
		DepositRate: 0.30,
	})

	assert.Equal(t, pricing.Total, RoundCurrency(pricing.AdvancePaid+pricing.BalanceDue))
}

func TestComputePricingFullPayment(t *testing.T) {
	facility := &models.Facility{Type: models.FacilityTypeHall, BasePrice: 100000}

	pricing := ComputePricing(PricingInput{
		Type:          models.BookingTypeHall,
		Facility:      facility,
		GuestCount:    80,
		TaxRate:       0.15,
		DepositRate:   0.30,
		PayFullAmount: true,
	})

	assert.Equal(t, pricing.Total, pricing.AdvancePaid)
	assert.Equal(t, 0.0, pricing.BalanceDue)
}

func TestComputePricingDiscountCannotGoNegative(t *testing.T) {
	facility := &models.Facility{Type: models.FacilityTypeHall, BasePrice: 5000}

	pricing := ComputePricing(PricingInput{
		Type:        models.BookingTypeHall,
		Facility:    facility,
		GuestCount:  10,
		Discount:    10000,
		TaxRate:     0.15,
		DepositRate: 0.30,
	})

	// Tax stays on the subtotal; only the total is floored
	assert.Equal(t, 750.0, pricing.Tax)
	assert.Equal(t, 0.0, pricing.Total)
	assert.Equal(t, 0.0, pricing.AdvancePaid)
	assert.Equal(t, 0.0, pricing.BalanceDue)
}

func TestComputePricingDeterministic(t *testing.T) {
	in := PricingInput{
		Type:       models.BookingTypePackage,
		Package:    &models.EventPackage{BasePrice: 123456.78, PricePerPerson: 987.65},
		GuestCount: 73,
		FoodItems: []models.BookingFoodItem{
			{Quantity: 3, UnitPrice: 1234.56},
		},
		Discount:    500.25,
		TaxRate:     0.15,
		DepositRate: 0.30,
	}

	first := ComputePricing(in)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, ComputePricing(in))
	}
}

func TestRoundCurrency(t *testing.T) {
	assert.Equal(t, 10.57, RoundCurrency(10.566))
	assert.Equal(t, 10.56, RoundCurrency(10.564))
	assert.Equal(t, 0.0, RoundCurrency(0))
	assert.Equal(t, -2.34, RoundCurrency(-2.336))
}
