package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/grandpavilion/booking-backend/internal/config"
	"github.com/grandpavilion/booking-backend/internal/database"
	"github.com/grandpavilion/booking-backend/internal/models"
	"github.com/grandpavilion/booking-backend/pkg/mailer"
	"github.com/grandpavilion/booking-backend/pkg/qr"
)

const confirmationCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// BookingService orchestrates the booking lifecycle: availability checks,
// price calculation, snapshot capture, and status transitions.
type BookingService struct {
	bookingRepo  *database.BookingRepository
	facilityRepo *database.FacilityRepository
	packageRepo  *database.PackageRepository
	foodRepo     *database.FoodRepository
	mailer       mailer.Mailer
	cfg          config.BookingConfig
	logger       *logrus.Logger
}

// NewBookingService creates a new BookingService
func NewBookingService(
	bookingRepo *database.BookingRepository,
	facilityRepo *database.FacilityRepository,
	packageRepo *database.PackageRepository,
	foodRepo *database.FoodRepository,
	m mailer.Mailer,
	cfg config.BookingConfig,
	logger *logrus.Logger,
) *BookingService {
	return &BookingService{
		bookingRepo:  bookingRepo,
		facilityRepo: facilityRepo,
		packageRepo:  packageRepo,
		foodRepo:     foodRepo,
		mailer:       m,
		cfg:          cfg,
		logger:       logger,
	}
}

// CheckAvailability reports whether a facility slot is free on a date
func (s *BookingService) CheckAvailability(facilityID, dateStr string, slot models.TimeSlot) (bool, error) {
	facility, err := s.facilityRepo.GetByID(facilityID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return false, ErrNotFound
		}
		return false, err
	}
	if !facility.Bookable() {
		return false, nil
	}

	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return false, fmt.Errorf("%w: invalid date: %s", ErrValidation, dateStr)
	}
	if slot.End <= slot.Start {
		return false, fmt.Errorf("%w: slot end must be after start", ErrValidation)
	}

	overlap, err := s.bookingRepo.HasOverlap(facilityID, date, slot)
	if err != nil {
		return false, err
	}
	return !overlap, nil
}

// CreateBooking validates the request, resolves catalog snapshots, prices
// the booking, and inserts it. The confirmation email goes out in the
// background; a delivery failure never fails the booking.
func (s *BookingService) CreateBooking(customer *models.User, req *models.CreateBookingRequest) (*models.Booking, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date: %s", ErrValidation, req.Date)
	}
	now := time.Now().In(s.cfg.Timezone)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if date.Before(today) {
		return nil, fmt.Errorf("%w: booking date is in the past", ErrValidation)
	}

	facility, err := s.facilityRepo.GetByID(req.FacilityID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, fmt.Errorf("%w: facility %s", ErrNotFound, req.FacilityID)
		}
		return nil, err
	}
	if !facility.Bookable() {
		return nil, fmt.Errorf("%w: facility is not accepting bookings", ErrAvailabilityConflict)
	}
	if req.GuestCount > facility.Capacity {
		return nil, fmt.Errorf("%w: guest count %d exceeds capacity %d",
			ErrValidation, req.GuestCount, facility.Capacity)
	}

	var pkg *models.EventPackage
	if req.Type == models.BookingTypePackage {
		pkg, err = s.packageRepo.GetByID(*req.PackageID)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return nil, fmt.Errorf("%w: package %s", ErrNotFound, *req.PackageID)
			}
			return nil, err
		}
		if !pkg.IsActive {
			return nil, fmt.Errorf("%w: package is no longer offered", ErrValidation)
		}
		if !pkg.GuestCountInBounds(req.GuestCount) {
			return nil, fmt.Errorf("%w: guest count %d outside package range %d-%d",
				ErrValidation, req.GuestCount, pkg.MinGuests, pkg.MaxGuests)
		}
	}

	foodItems, err := s.resolveFoodItems(req.FoodItems)
	if err != nil {
		return nil, err
	}
	addons := resolveAddons(pkg, req.SelectedAddons)

	payFull := req.Type == models.BookingTypeTable
	paymentStatus := models.PaymentStatusUnpaid
	payment := models.Payment{Status: paymentStatus}
	if req.Payment != nil {
		payment.Status = req.Payment.Status
		payment.Method = req.Payment.Method
		payment.TransactionID = req.Payment.TransactionID
		if payment.Status == models.PaymentStatusPaid {
			paidAt := now
			payment.PaidAt = &paidAt
			payFull = true
		}
	}

	pricing := ComputePricing(PricingInput{
		Type:           req.Type,
		Facility:       facility,
		Package:        pkg,
		GuestCount:     req.GuestCount,
		FoodItems:      foodItems,
		SelectedAddons: addons,
		Discount:       req.Discount,
		TaxRate:        s.cfg.TaxRate,
		DepositRate:    s.cfg.DepositPercentage,
		PayFullAmount:  payFull,
	})

	code, err := generateConfirmationCode()
	if err != nil {
		return nil, err
	}

	booking := &models.Booking{
		CustomerID:         customer.ID,
		CustomerName:       customer.Name,
		CustomerPhone:      customer.Phone,
		CustomerEmail:      customer.Email,
		Type:               req.Type,
		FacilityID:         facility.ID,
		FacilityName:       facility.Name,
		FacilityType:       string(facility.Type),
		EventName:          req.EventName,
		EventType:          req.EventType,
		Date:               date,
		MealTime:           req.MealTime,
		TimeSlot:           req.TimeSlot,
		GuestCount:         req.GuestCount,
		Adults:             req.Adults,
		Children:           req.Children,
		FoodItems:          foodItems,
		SelectedAddons:     addons,
		Pricing:            pricing,
		Payment:            payment,
		Status:             models.InitialStatus(payment.Status),
		CancellationPolicy: s.cancellationPolicy(req.Type, date),
		SpecialRequests:    req.SpecialRequests,
		ConfirmationCode:   code,
	}
	if pkg != nil {
		booking.PackageID = &pkg.ID
		booking.PackageName = &pkg.Name
	}

	if err := s.bookingRepo.Create(booking); err != nil {
		switch {
		case errors.Is(err, database.ErrSlotUnavailable):
			return nil, ErrAvailabilityConflict
		case errors.Is(err, database.ErrNotFound):
			return nil, fmt.Errorf("%w: facility %s", ErrNotFound, req.FacilityID)
		default:
			return nil, err
		}
	}

	// The QR encodes the booking number, which only exists after the insert
	if img, err := qr.DataURL(booking.BookingNumber); err == nil {
		booking.QRCode = &img
		if err := s.bookingRepo.SetQRCode(booking.ID, img); err != nil {
			s.logger.WithError(err).Warn("Failed to store booking QR code")
		}
	} else {
		s.logger.WithError(err).Warn("Failed to generate booking QR code")
	}

	s.logger.WithFields(logrus.Fields{
		"booking_number": booking.BookingNumber,
		"facility_id":    booking.FacilityID,
		"type":           booking.Type,
		"total":          booking.Pricing.Total,
	}).Info("Booking created")

	go s.sendConfirmationEmail(booking)

	return booking, nil
}

// GetBooking retrieves a booking, restricting customers to their own
func (s *BookingService) GetBooking(user *models.User, bookingID string) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(bookingID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !user.IsStaff() && booking.CustomerID != user.ID {
		return nil, ErrNotAuthorized
	}
	return booking, nil
}

// GetByNumber retrieves a booking by its booking number. Staff only; the
// handler enforces the role.
func (s *BookingService) GetByNumber(number string) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByNumber(number)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return booking, nil
}

// ListMine returns the caller's bookings, newest first
func (s *BookingService) ListMine(customerID string) ([]models.Booking, error) {
	return s.bookingRepo.GetByCustomerID(customerID)
}

// List returns bookings matching the filter. Staff view.
func (s *BookingService) List(filter database.BookingFilter) ([]models.Booking, error) {
	return s.bookingRepo.List(filter)
}

// GetDaily returns the active bookings for one day in slot order
func (s *BookingService) GetDaily(date time.Time) ([]models.Booking, error) {
	return s.bookingRepo.GetDaily(date)
}

// CancelBooking cancels a booking on behalf of its owner, enforcing the
// cancellation policy deadline for event bookings.
func (s *BookingService) CancelBooking(user *models.User, bookingID string) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(bookingID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !user.IsStaff() && booking.CustomerID != user.ID {
		return nil, ErrNotAuthorized
	}

	now := time.Now().In(s.cfg.Timezone)
	if err := booking.Cancel(now); err != nil {
		switch {
		case errors.Is(err, models.ErrPastCancellationDeadline):
			return nil, ErrPastDeadline
		case errors.Is(err, models.ErrTerminalStatus):
			return nil, fmt.Errorf("%w: booking is already %s", ErrInvalidTransition, booking.Status)
		default:
			return nil, err
		}
	}

	if err := s.bookingRepo.UpdateStatus(booking); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_number": booking.BookingNumber,
		"cancelled_by":   user.ID,
	}).Info("Booking cancelled")

	return booking, nil
}

// UpdateStatus applies a staff status change through the state machine
func (s *BookingService) UpdateStatus(bookingID string, req *models.UpdateBookingStatusRequest) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(bookingID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	now := time.Now().In(s.cfg.Timezone)
	if err := booking.Transition(req.Status, now); err != nil {
		if errors.Is(err, models.ErrTerminalStatus) {
			return nil, fmt.Errorf("%w: booking is already %s", ErrInvalidTransition, booking.Status)
		}
		if errors.Is(err, models.ErrPastCancellationDeadline) {
			return nil, ErrPastDeadline
		}
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if req.StaffNotes != nil {
		booking.StaffNotes = req.StaffNotes
	}

	if err := s.bookingRepo.UpdateStatus(booking); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_number": booking.BookingNumber,
		"status":         booking.Status,
	}).Info("Booking status updated")

	return booking, nil
}

// Invoice builds the invoice view from the booking's price snapshots
func (s *BookingService) Invoice(user *models.User, bookingID string) (*models.Invoice, error) {
	booking, err := s.GetBooking(user, bookingID)
	if err != nil {
		return nil, err
	}

	var items []models.InvoiceLineItem
	if booking.Pricing.FacilityCharge > 0 {
		desc := booking.FacilityName
		if booking.PackageName != nil {
			desc = *booking.PackageName
		}
		items = append(items, models.InvoiceLineItem{
			Description: desc,
			Quantity:    1,
			Price:       booking.Pricing.FacilityCharge,
		})
	}
	for _, f := range booking.FoodItems {
		items = append(items, models.InvoiceLineItem{
			Description: f.Name,
			Quantity:    f.Quantity,
			Price:       RoundCurrency(f.UnitPrice * float64(f.Quantity)),
		})
	}
	for _, a := range booking.SelectedAddons {
		items = append(items, models.InvoiceLineItem{
			Description: a.Name,
			Quantity:    1,
			Price:       a.Price,
		})
	}

	subtotal := RoundCurrency(booking.Pricing.FacilityCharge +
		booking.Pricing.FoodTotal + booking.Pricing.AddonTotal)

	return &models.Invoice{
		InvoiceNumber: "INV-" + booking.BookingNumber,
		BookingNumber: booking.BookingNumber,
		Date:          booking.Date,
		CustomerName:  booking.CustomerName,
		FacilityName:  booking.FacilityName,
		PackageName:   booking.PackageName,
		TimeSlot:      booking.TimeSlot,
		GuestCount:    booking.GuestCount,
		Items:         items,
		Subtotal:      subtotal,
		Tax:           booking.Pricing.Tax,
		Discount:      booking.Pricing.Discount,
		Total:         booking.Pricing.Total,
		PaymentStatus: booking.Payment.Status,
	}, nil
}

// cancellationPolicy assigns the policy for a new booking. Hall and package
// bookings are events: they carry a deadline of the booking date minus the
// configured notice period, evaluated in the configured timezone. Table
// bookings can always be cancelled.
func (s *BookingService) cancellationPolicy(bookingType models.BookingType, date time.Time) models.CancellationPolicy {
	if bookingType == models.BookingTypeTable {
		return models.CancellationPolicy{
			Type:             models.CancellationPolicyNormal,
			RefundPercentage: 100,
		}
	}

	deadline := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, s.cfg.Timezone).
		AddDate(0, 0, -s.cfg.CancellationNoticeDays)
	return models.CancellationPolicy{
		Type:             models.CancellationPolicyEvent,
		Deadline:         &deadline,
		RefundPercentage: 100,
	}
}

// resolveFoodItems snapshots the current effective price of each requested
// menu item. IDs that no longer resolve are skipped rather than failing
// the booking; they contribute nothing to the total.
func (s *BookingService) resolveFoodItems(requested []models.CreateBookingFoodItem) ([]models.BookingFoodItem, error) {
	if len(requested) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(requested))
	for _, r := range requested {
		ids = append(ids, r.FoodItemID)
	}
	catalog, err := s.foodRepo.GetItemsByIDs(ids)
	if err != nil {
		return nil, err
	}

	var items []models.BookingFoodItem
	for _, r := range requested {
		item, ok := catalog[r.FoodItemID]
		if !ok {
			s.logger.WithField("food_item_id", r.FoodItemID).Warn("Requested menu item not found, skipping")
			continue
		}
		items = append(items, models.BookingFoodItem{
			FoodItemID: item.ID,
			Name:       item.Name,
			Quantity:   r.Quantity,
			UnitPrice:  item.EffectivePrice(),
			Notes:      r.Notes,
		})
	}
	return items, nil
}

// resolveAddons snapshots selected add-ons from the package catalog.
// Unknown names are ignored.
func resolveAddons(pkg *models.EventPackage, selected []models.CreateBookingAddonItem) []models.BookingAddon {
	if pkg == nil || len(selected) == 0 {
		return nil
	}

	var addons []models.BookingAddon
	for _, sel := range selected {
		addon, ok := pkg.AddonByName(sel.Name)
		if !ok {
			continue
		}
		addons = append(addons, models.BookingAddon{
			Name:        addon.Name,
			Price:       addon.Price,
			Description: addon.Description,
		})
	}
	return addons
}

// generateConfirmationCode produces a RES- prefixed code with 9 random
// alphanumeric characters
func generateConfirmationCode() (string, error) {
	code := make([]byte, 9)
	max := big.NewInt(int64(len(confirmationCodeAlphabet)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate confirmation code: %w", err)
		}
		code[i] = confirmationCodeAlphabet[n.Int64()]
	}
	return "RES-" + string(code), nil
}

func (s *BookingService) sendConfirmationEmail(booking *models.Booking) {
	body := fmt.Sprintf(
		`<h2>Booking Confirmed</h2>
		<p>Dear %s,</p>
		<p>Your booking <strong>%s</strong> at %s on %s (%s to %s) has been received.</p>
		<p>Confirmation code: <strong>%s</strong></p>
		<p>Total: %.2f | Paid: %.2f | Balance due: %.2f</p>`,
		booking.CustomerName,
		booking.BookingNumber,
		booking.FacilityName,
		booking.Date.Format("2006-01-02"),
		booking.TimeSlot.Start,
		booking.TimeSlot.End,
		booking.ConfirmationCode,
		booking.Pricing.Total,
		booking.Pricing.AdvancePaid,
		booking.Pricing.BalanceDue,
	)

	err := s.mailer.Send(mailer.Message{
		To:      booking.CustomerEmail,
		Subject: fmt.Sprintf("Booking %s confirmed", booking.BookingNumber),
		HTML:    body,
	})
	if err != nil {
		s.logger.WithError(err).WithField("booking_number", booking.BookingNumber).
			Error("Failed to send confirmation email")
	}
}
