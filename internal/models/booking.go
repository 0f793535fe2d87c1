package models

import (
	"errors"
	"fmt"
	"time"
)

// BookingType classifies what is being reserved
type BookingType string

const (
	BookingTypeTable   BookingType = "table"
	BookingTypeHall    BookingType = "hall"
	BookingTypePackage BookingType = "package"
)

// BookingStatus represents the lifecycle status of a booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusNoShow    BookingStatus = "no_show"
)

// PaymentStatus represents the payment state of a booking
type PaymentStatus string

const (
	PaymentStatusUnpaid   PaymentStatus = "unpaid"
	PaymentStatusPartial  PaymentStatus = "partial"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// MealTime represents the meal period of a booking
type MealTime string

const (
	MealTimeBreakfast MealTime = "breakfast"
	MealTimeLunch     MealTime = "lunch"
	MealTimeDinner    MealTime = "dinner"
	MealTimeCustom    MealTime = "custom"
)

// CancellationPolicyType distinguishes table bookings from event bookings
type CancellationPolicyType string

const (
	CancellationPolicyNormal CancellationPolicyType = "normal"
	CancellationPolicyEvent  CancellationPolicyType = "event"
)

// TimeSlot is a start/end time-of-day range in HH:mm. Fixed-width strings
// compare lexicographically in chronological order, so overlap checks can
// use plain string comparison.
type TimeSlot struct {
	Start string `json:"start" db:"slot_start"`
	End   string `json:"end" db:"slot_end"`
}

// Overlaps reports whether two half-open slots [s.Start, s.End) and
// [other.Start, other.End) intersect. Touching endpoints do not overlap.
func (s TimeSlot) Overlaps(other TimeSlot) bool {
	return s.Start < other.End && s.End > other.Start
}

// BookingFoodItem is a menu line captured on the booking. Name and price are
// snapshots taken at creation time; later catalog changes never touch them.
type BookingFoodItem struct {
	FoodItemID string  `json:"food_item_id"`
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	Notes      string  `json:"notes,omitempty"`
}

// BookingAddon is a selected add-on with its price snapshot.
type BookingAddon struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
}

// Pricing is the monetary breakdown of a booking. Invariant:
// Total == FacilityCharge + FoodTotal + AddonTotal + Tax - Discount.
type Pricing struct {
	FacilityCharge float64 `json:"facility_charge"`
	FoodTotal      float64 `json:"food_total"`
	AddonTotal     float64 `json:"addon_total"`
	Tax            float64 `json:"tax"`
	Discount       float64 `json:"discount"`
	Total          float64 `json:"total"`
	AdvancePaid    float64 `json:"advance_paid"`
	BalanceDue     float64 `json:"balance_due"`
}

// Payment holds payment state recorded against a booking
type Payment struct {
	Status        PaymentStatus `json:"status"`
	Method        *string       `json:"method,omitempty"`
	TransactionID *string       `json:"transaction_id,omitempty"`
	PaidAt        *time.Time    `json:"paid_at,omitempty"`
}

// CancellationPolicy governs how late a booking may be cancelled.
// Event bookings carry a deadline; normal bookings can always be cancelled.
type CancellationPolicy struct {
	Type             CancellationPolicyType `json:"type"`
	Deadline         *time.Time             `json:"deadline,omitempty"`
	RefundPercentage int                    `json:"refund_percentage"`
}

// Booking represents a table, hall, or event-package reservation
type Booking struct {
	ID            string      `json:"id" db:"id"`
	BookingNumber string      `json:"booking_number" db:"booking_number"`
	CustomerID    string      `json:"customer_id" db:"customer_id"`
	CustomerName  string      `json:"customer_name" db:"customer_name"`
	CustomerPhone string      `json:"customer_phone" db:"customer_phone"`
	CustomerEmail string      `json:"customer_email" db:"customer_email"`
	Type          BookingType `json:"type" db:"booking_type"`

	FacilityID   string  `json:"facility_id" db:"facility_id"`
	FacilityName string  `json:"facility_name" db:"facility_name"`
	FacilityType string  `json:"facility_type" db:"facility_type"`
	PackageID    *string `json:"package_id,omitempty" db:"package_id"`
	PackageName  *string `json:"package_name,omitempty" db:"package_name"`
	EventName    *string `json:"event_name,omitempty" db:"event_name"`
	EventType    *string `json:"event_type,omitempty" db:"event_type"`

	Date       time.Time `json:"date" db:"booking_date"`
	MealTime   MealTime  `json:"meal_time" db:"meal_time"`
	TimeSlot   TimeSlot  `json:"time_slot"`
	GuestCount int       `json:"guest_count" db:"guest_count"`
	Adults     *int      `json:"adults,omitempty" db:"adults"`
	Children   *int      `json:"children,omitempty" db:"children"`

	FoodItems      []BookingFoodItem `json:"food_items"`
	SelectedAddons []BookingAddon    `json:"selected_addons"`

	Pricing Pricing `json:"pricing"`
	Payment Payment `json:"payment"`

	Status             BookingStatus      `json:"status" db:"status"`
	CancellationPolicy CancellationPolicy `json:"cancellation_policy"`

	SpecialRequests  *string    `json:"special_requests,omitempty" db:"special_requests"`
	ConfirmationCode string     `json:"confirmation_code" db:"confirmation_code"`
	QRCode           *string    `json:"qr_code,omitempty" db:"qr_code"`
	BookingConfirmed bool       `json:"booking_confirmed" db:"booking_confirmed"`
	ConfirmedAt      *time.Time `json:"confirmed_at,omitempty" db:"confirmed_at"`
	CancelledAt      *time.Time `json:"cancelled_at,omitempty" db:"cancelled_at"`
	ReminderSent     bool       `json:"reminder_sent" db:"reminder_sent"`
	Reviewed         bool       `json:"reviewed" db:"reviewed"`
	ReviewID         *string    `json:"review_id,omitempty" db:"review_id"`
	StaffNotes       *string    `json:"staff_notes,omitempty" db:"staff_notes"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ErrTerminalStatus is returned when a transition is attempted out of a
// terminal state (cancelled, completed, no_show).
var ErrTerminalStatus = errors.New("booking is in a terminal status")

// ErrPastCancellationDeadline is returned when an event booking is cancelled
// after its cancellation deadline has passed.
var ErrPastCancellationDeadline = errors.New("cancellation deadline has passed")

// IsTerminal reports whether the status admits no further transitions
func (s BookingStatus) IsTerminal() bool {
	switch s {
	case BookingStatusCancelled, BookingStatusCompleted, BookingStatusNoShow:
		return true
	}
	return false
}

// ValidBookingStatus reports whether s is a known booking status
func ValidBookingStatus(s BookingStatus) bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled,
		BookingStatusCompleted, BookingStatusNoShow:
		return true
	}
	return false
}

// InitialStatus returns the status a new booking starts in. Bookings that are
// fully paid at creation skip straight to confirmed.
func InitialStatus(paymentStatus PaymentStatus) BookingStatus {
	if paymentStatus == PaymentStatusPaid {
		return BookingStatusConfirmed
	}
	return BookingStatusPending
}

// Confirm moves the booking to confirmed and stamps the audit fields
func (b *Booking) Confirm(now time.Time) error {
	if b.Status.IsTerminal() {
		return ErrTerminalStatus
	}
	b.Status = BookingStatusConfirmed
	b.BookingConfirmed = true
	b.ConfirmedAt = &now
	b.UpdatedAt = now
	return nil
}

// Cancel cancels the booking, enforcing the cancellation policy. For event
// policies the cancellation instant must not be after the deadline; the
// deadline instant itself is still allowed.
func (b *Booking) Cancel(now time.Time) error {
	if b.Status.IsTerminal() {
		return ErrTerminalStatus
	}
	if b.CancellationPolicy.Type == CancellationPolicyEvent &&
		b.CancellationPolicy.Deadline != nil &&
		now.After(*b.CancellationPolicy.Deadline) {
		return ErrPastCancellationDeadline
	}
	b.Status = BookingStatusCancelled
	b.CancelledAt = &now
	b.UpdatedAt = now
	return nil
}

// MarkCompleted marks the booking as completed. Staff override, not guarded
// by time.
func (b *Booking) MarkCompleted(now time.Time) error {
	if b.Status.IsTerminal() {
		return ErrTerminalStatus
	}
	b.Status = BookingStatusCompleted
	b.UpdatedAt = now
	return nil
}

// MarkNoShow marks the booking as a no-show. Staff override.
func (b *Booking) MarkNoShow(now time.Time) error {
	if b.Status.IsTerminal() {
		return ErrTerminalStatus
	}
	b.Status = BookingStatusNoShow
	b.UpdatedAt = now
	return nil
}

// Transition applies a status change through the state machine, routing to
// the guarded mutators so every path stamps the same audit fields.
func (b *Booking) Transition(target BookingStatus, now time.Time) error {
	if !ValidBookingStatus(target) {
		return fmt.Errorf("unknown booking status: %s", target)
	}
	switch target {
	case BookingStatusConfirmed:
		return b.Confirm(now)
	case BookingStatusCancelled:
		return b.Cancel(now)
	case BookingStatusCompleted:
		return b.MarkCompleted(now)
	case BookingStatusNoShow:
		return b.MarkNoShow(now)
	default: // pending
		if b.Status.IsTerminal() {
			return ErrTerminalStatus
		}
		b.Status = BookingStatusPending
		b.UpdatedAt = now
		return nil
	}
}

// Blocks reports whether this booking blocks a new request for the given
// slot. Only pending and confirmed bookings hold the facility.
func (b *Booking) Blocks(slot TimeSlot) bool {
	if b.Status != BookingStatusPending && b.Status != BookingStatusConfirmed {
		return false
	}
	return b.TimeSlot.Overlaps(slot)
}

// CreateBookingRequest represents the request to create a booking
type CreateBookingRequest struct {
	Type            BookingType              `json:"type" binding:"required"`
	FacilityID      string                   `json:"facility_id" binding:"required"`
	PackageID       *string                  `json:"package_id,omitempty"`
	Date            string                   `json:"date" binding:"required"` // YYYY-MM-DD
	MealTime        MealTime                 `json:"meal_time" binding:"required"`
	TimeSlot        TimeSlot                 `json:"time_slot" binding:"required"`
	GuestCount      int                      `json:"guest_count" binding:"required,min=1"`
	Adults          *int                     `json:"adults,omitempty"`
	Children        *int                     `json:"children,omitempty"`
	FoodItems       []CreateBookingFoodItem  `json:"food_items,omitempty"`
	SelectedAddons  []CreateBookingAddonItem `json:"selected_addons,omitempty"`
	EventName       *string                  `json:"event_name,omitempty"`
	EventType       *string                  `json:"event_type,omitempty"`
	SpecialRequests *string                  `json:"special_requests,omitempty"`
	Payment         *CreateBookingPayment    `json:"payment,omitempty"`
	Discount        float64                  `json:"discount,omitempty"`
}

// CreateBookingFoodItem is a menu line on a creation request
type CreateBookingFoodItem struct {
	FoodItemID string `json:"food_item_id" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required,min=1"`
	Notes      string `json:"notes,omitempty"`
}

// CreateBookingAddonItem selects an add-on by name from the package catalog
type CreateBookingAddonItem struct {
	Name string `json:"name" binding:"required"`
}

// CreateBookingPayment records payment details supplied at creation time
type CreateBookingPayment struct {
	Status        PaymentStatus `json:"status"`
	Method        *string       `json:"method,omitempty"`
	TransactionID *string       `json:"transaction_id,omitempty"`
}

// Validate validates the create booking request beyond binding tags
func (r *CreateBookingRequest) Validate() error {
	switch r.Type {
	case BookingTypeTable, BookingTypeHall, BookingTypePackage:
	default:
		return fmt.Errorf("invalid booking type: %s", r.Type)
	}

	if r.Type == BookingTypePackage && r.PackageID == nil {
		return errors.New("package_id is required for package bookings")
	}

	if _, err := time.Parse("2006-01-02", r.Date); err != nil {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", r.Date)
	}

	if !validClock(r.TimeSlot.Start) || !validClock(r.TimeSlot.End) {
		return errors.New("time slot must use HH:mm format")
	}
	if r.TimeSlot.End <= r.TimeSlot.Start {
		return errors.New("time slot end must be after start")
	}

	if r.GuestCount < 1 {
		return errors.New("guest_count must be at least 1")
	}

	if r.Discount < 0 {
		return errors.New("discount cannot be negative")
	}

	for _, item := range r.FoodItems {
		if item.Quantity < 1 {
			return errors.New("food item quantity must be at least 1")
		}
	}

	switch r.MealTime {
	case MealTimeBreakfast, MealTimeLunch, MealTimeDinner, MealTimeCustom:
	default:
		return fmt.Errorf("invalid meal_time: %s", r.MealTime)
	}

	return nil
}

// validClock checks the fixed-width HH:mm format the overlap logic relies on
func validClock(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	hh := int(s[0]-'0')*10 + int(s[1]-'0')
	mm := int(s[3]-'0')*10 + int(s[4]-'0')
	return hh <= 23 && mm <= 59
}

// UpdateBookingStatusRequest is the staff/admin status update payload
type UpdateBookingStatusRequest struct {
	Status     BookingStatus `json:"status" binding:"required"`
	StaffNotes *string       `json:"staff_notes,omitempty"`
}

// InvoiceLineItem is one line of a generated invoice
type InvoiceLineItem struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

// Invoice is the invoice view generated from booking snapshots
type Invoice struct {
	InvoiceNumber string            `json:"invoice_number"`
	BookingNumber string            `json:"booking_number"`
	Date          time.Time         `json:"date"`
	CustomerName  string            `json:"customer_name"`
	FacilityName  string            `json:"facility_name"`
	PackageName   *string           `json:"package_name,omitempty"`
	TimeSlot      TimeSlot          `json:"time_slot"`
	GuestCount    int               `json:"guest_count"`
	Items         []InvoiceLineItem `json:"items"`
	Subtotal      float64           `json:"subtotal"`
	Tax           float64           `json:"tax"`
	Discount      float64           `json:"discount"`
	Total         float64           `json:"total"`
	PaymentStatus PaymentStatus     `json:"payment_status"`
}
