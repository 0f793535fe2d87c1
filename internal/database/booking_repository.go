package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/grandpavilion/booking-backend/internal/models"
)

// BookingRepository handles database operations for the bookings table.
// It holds the *sqlx.DB directly because booking creation needs a
// transaction spanning the availability re-check, the sequence increment,
// and the insert.
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `
	id, booking_number, customer_id, customer_name, customer_phone, customer_email,
	booking_type, facility_id, facility_name, facility_type,
	package_id, package_name, event_name, event_type,
	booking_date, meal_time, slot_start, slot_end, guest_count, adults, children,
	food_items, selected_addons,
	facility_charge, food_total, addon_total, tax, discount, total, advance_paid, balance_due,
	payment_status, payment_method, payment_transaction_id, paid_at,
	status, cancellation_policy_type, cancellation_deadline, refund_percentage,
	special_requests, confirmation_code, qr_code,
	booking_confirmed, confirmed_at, cancelled_at, reminder_sent,
	reviewed, review_id, staff_notes, created_at, updated_at`

// overlapCondition matches active bookings whose half-open slot intersects
// [$start, $end). HH:mm strings compare correctly because the format is
// fixed width.
const overlapCondition = `
	facility_id = $1
	AND booking_date = $2
	AND slot_start < $4
	AND slot_end > $3
	AND status IN ('pending', 'confirmed')`

// HasOverlap reports whether an active booking already occupies any part of
// the slot on the given calendar day.
func (r *BookingRepository) HasOverlap(facilityID string, date time.Time, slot models.TimeSlot) (bool, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE` + overlapCondition

	var count int
	err := r.db.QueryRow(query, facilityID, date.Format("2006-01-02"), slot.Start, slot.End).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check slot availability: %w", err)
	}
	return count > 0, nil
}

// nextBookingNumber reserves the next sequence value for the year and
// formats it as BK-<year>-<6 digits>. The upsert increments atomically, so
// two concurrent creations can never observe the same value.
func nextBookingNumber(tx *sqlx.Tx, year int) (string, error) {
	query := `
		INSERT INTO booking_sequences (year, last_value)
		VALUES ($1, 1)
		ON CONFLICT (year)
		DO UPDATE SET last_value = booking_sequences.last_value + 1
		RETURNING last_value
	`

	var seq int
	if err := tx.QueryRow(query, year).Scan(&seq); err != nil {
		return "", fmt.Errorf("failed to reserve booking number: %w", err)
	}

	return fmt.Sprintf("BK-%d-%06d", year, seq), nil
}

// Create inserts a booking after re-validating slot availability inside a
// transaction. The facility row is locked first so two concurrent requests
// for the same facility serialize; both cannot pass the overlap check.
// Assigns ID and BookingNumber on success. Returns ErrSlotUnavailable when
// the slot was taken between the caller's availability probe and commit.
func (r *BookingRepository) Create(booking *models.Booking) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Serialize creations per facility
	var lockedID string
	err = tx.QueryRow(`SELECT id FROM facilities WHERE id = $1 FOR UPDATE`, booking.FacilityID).Scan(&lockedID)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return fmt.Errorf("failed to lock facility: %w", err)
	}

	var count int
	err = tx.QueryRow(`SELECT COUNT(*) FROM bookings WHERE`+overlapCondition,
		booking.FacilityID, booking.Date.Format("2006-01-02"), booking.TimeSlot.Start, booking.TimeSlot.End,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to re-check slot availability: %w", err)
	}
	if count > 0 {
		return ErrSlotUnavailable
	}

	number, err := nextBookingNumber(tx, booking.Date.Year())
	if err != nil {
		return err
	}
	booking.BookingNumber = number

	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}

	foodItems, err := json.Marshal(booking.FoodItems)
	if err != nil {
		return fmt.Errorf("failed to encode food items: %w", err)
	}
	addons, err := json.Marshal(booking.SelectedAddons)
	if err != nil {
		return fmt.Errorf("failed to encode addons: %w", err)
	}

	query := `
		INSERT INTO bookings (
			id, booking_number, customer_id, customer_name, customer_phone, customer_email,
			booking_type, facility_id, facility_name, facility_type,
			package_id, package_name, event_name, event_type,
			booking_date, meal_time, slot_start, slot_end, guest_count, adults, children,
			food_items, selected_addons,
			facility_charge, food_total, addon_total, tax, discount, total, advance_paid, balance_due,
			payment_status, payment_method, payment_transaction_id, paid_at,
			status, cancellation_policy_type, cancellation_deadline, refund_percentage,
			special_requests, confirmation_code, qr_code
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21,
			$22, $23, $24, $25, $26, $27, $28, $29, $30, $31,
			$32, $33, $34, $35, $36, $37, $38, $39, $40, $41, $42
		)
		RETURNING created_at, updated_at
	`

	err = tx.QueryRow(
		query,
		booking.ID, booking.BookingNumber, booking.CustomerID, booking.CustomerName,
		booking.CustomerPhone, booking.CustomerEmail,
		booking.Type, booking.FacilityID, booking.FacilityName, booking.FacilityType,
		booking.PackageID, booking.PackageName, booking.EventName, booking.EventType,
		booking.Date.Format("2006-01-02"), booking.MealTime,
		booking.TimeSlot.Start, booking.TimeSlot.End,
		booking.GuestCount, booking.Adults, booking.Children,
		foodItems, addons,
		booking.Pricing.FacilityCharge, booking.Pricing.FoodTotal, booking.Pricing.AddonTotal,
		booking.Pricing.Tax, booking.Pricing.Discount, booking.Pricing.Total,
		booking.Pricing.AdvancePaid, booking.Pricing.BalanceDue,
		booking.Payment.Status, booking.Payment.Method, booking.Payment.TransactionID, booking.Payment.PaidAt,
		booking.Status, booking.CancellationPolicy.Type, booking.CancellationPolicy.Deadline,
		booking.CancellationPolicy.RefundPercentage,
		booking.SpecialRequests, booking.ConfirmationCode, booking.QRCode,
	).Scan(&booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit booking: %w", err)
	}

	return nil
}

// GetByID retrieves a booking by ID
func (r *BookingRepository) GetByID(bookingID string) (*models.Booking, error) {
	query := `SELECT` + bookingColumns + ` FROM bookings WHERE id = $1`
	return r.scanBooking(r.db.QueryRow(query, bookingID))
}

// GetByNumber retrieves a booking by its booking number
func (r *BookingRepository) GetByNumber(number string) (*models.Booking, error) {
	query := `SELECT` + bookingColumns + ` FROM bookings WHERE booking_number = $1`
	return r.scanBooking(r.db.QueryRow(query, number))
}

// GetByCustomerID retrieves all bookings for a customer, newest first
func (r *BookingRepository) GetByCustomerID(customerID string) ([]models.Booking, error) {
	query := `SELECT` + bookingColumns + ` FROM bookings WHERE customer_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(query, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bookings: %w", err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// BookingFilter narrows List results. Zero values mean no filtering.
type BookingFilter struct {
	Status models.BookingStatus
	Date   *time.Time
	Type   models.BookingType
}

// List retrieves bookings matching the filter, ordered by date then slot
func (r *BookingRepository) List(filter BookingFilter) ([]models.Booking, error) {
	query := `SELECT` + bookingColumns + ` FROM bookings`

	var conditions []string
	var args []interface{}

	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Date != nil {
		args = append(args, filter.Date.Format("2006-01-02"))
		conditions = append(conditions, fmt.Sprintf("booking_date = $%d", len(args)))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		conditions = append(conditions, fmt.Sprintf("booking_type = $%d", len(args)))
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY booking_date, slot_start"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bookings: %w", err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// GetDaily retrieves the active bookings for one calendar day, in slot order
func (r *BookingRepository) GetDaily(date time.Time) ([]models.Booking, error) {
	query := `SELECT` + bookingColumns + `
		FROM bookings
		WHERE booking_date = $1
		  AND status IN ('pending', 'confirmed')
		ORDER BY slot_start`

	rows, err := r.db.Query(query, date.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch daily bookings: %w", err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// UpdateStatus persists the mutable lifecycle fields after a state
// transition has been applied on the model.
func (r *BookingRepository) UpdateStatus(booking *models.Booking) error {
	query := `
		UPDATE bookings
		SET status = $2, booking_confirmed = $3, confirmed_at = $4,
			cancelled_at = $5, staff_notes = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRow(
		query,
		booking.ID, booking.Status, booking.BookingConfirmed, booking.ConfirmedAt,
		booking.CancelledAt, booking.StaffNotes,
	).Scan(&booking.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update booking status: %w", err)
	}

	return nil
}

// SetReviewed marks a booking as reviewed and links the review
// SetQRCode stores the rendered QR data URL for a booking
func (r *BookingRepository) SetQRCode(bookingID, qrCode string) error {
	query := `
		UPDATE bookings
		SET qr_code = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(query, bookingID, qrCode)
	if err != nil {
		return fmt.Errorf("failed to store booking qr code: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to store booking qr code: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *BookingRepository) SetReviewed(bookingID, reviewID string) error {
	query := `
		UPDATE bookings
		SET reviewed = TRUE, review_id = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(query, bookingID, reviewID)
	if err != nil {
		return fmt.Errorf("failed to mark booking reviewed: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// GetRemindersDue returns active bookings on the given date that have not
// been sent a reminder yet.
func (r *BookingRepository) GetRemindersDue(date time.Time) ([]models.Booking, error) {
	query := `SELECT` + bookingColumns + `
		FROM bookings
		WHERE booking_date = $1
		  AND status IN ('pending', 'confirmed')
		  AND reminder_sent = FALSE`

	rows, err := r.db.Query(query, date.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reminder bookings: %w", err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// MarkReminderSent records that the reminder email went out
func (r *BookingRepository) MarkReminderSent(bookingID string) error {
	_, err := r.db.Exec(`UPDATE bookings SET reminder_sent = TRUE, updated_at = NOW() WHERE id = $1`, bookingID)
	if err != nil {
		return fmt.Errorf("failed to mark reminder sent: %w", err)
	}
	return nil
}

// CountByYear returns how many bookings were created for dates in the year.
// Used by reporting only; number assignment goes through booking_sequences.
func (r *BookingRepository) CountByYear(year int) (int, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE EXTRACT(YEAR FROM booking_date) = $1`

	var count int
	if err := r.db.QueryRow(query, year).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

// scanBooking scans a single booking row
func (r *BookingRepository) scanBooking(row scanner) (*models.Booking, error) {
	booking, err := scanBookingRow(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return booking, err
}

// scanBookings scans all rows
func (r *BookingRepository) scanBookings(rows *sql.Rows) ([]models.Booking, error) {
	bookings := []models.Booking{}
	for rows.Next() {
		booking, err := scanBookingRow(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *booking)
	}
	return bookings, rows.Err()
}

func scanBookingRow(row scanner) (*models.Booking, error) {
	booking := &models.Booking{}
	var (
		packageID       sql.NullString
		packageName     sql.NullString
		eventName       sql.NullString
		eventType       sql.NullString
		adults          sql.NullInt64
		children        sql.NullInt64
		foodItems       []byte
		addons          []byte
		paymentMethod   sql.NullString
		transactionID   sql.NullString
		paidAt          sql.NullTime
		deadline        sql.NullTime
		specialRequests sql.NullString
		qrCode          sql.NullString
		confirmedAt     sql.NullTime
		cancelledAt     sql.NullTime
		reviewID        sql.NullString
		staffNotes      sql.NullString
	)

	err := row.Scan(
		&booking.ID, &booking.BookingNumber, &booking.CustomerID, &booking.CustomerName,
		&booking.CustomerPhone, &booking.CustomerEmail,
		&booking.Type, &booking.FacilityID, &booking.FacilityName, &booking.FacilityType,
		&packageID, &packageName, &eventName, &eventType,
		&booking.Date, &booking.MealTime, &booking.TimeSlot.Start, &booking.TimeSlot.End,
		&booking.GuestCount, &adults, &children,
		&foodItems, &addons,
		&booking.Pricing.FacilityCharge, &booking.Pricing.FoodTotal, &booking.Pricing.AddonTotal,
		&booking.Pricing.Tax, &booking.Pricing.Discount, &booking.Pricing.Total,
		&booking.Pricing.AdvancePaid, &booking.Pricing.BalanceDue,
		&booking.Payment.Status, &paymentMethod, &transactionID, &paidAt,
		&booking.Status, &booking.CancellationPolicy.Type, &deadline,
		&booking.CancellationPolicy.RefundPercentage,
		&specialRequests, &booking.ConfirmationCode, &qrCode,
		&booking.BookingConfirmed, &confirmedAt, &cancelledAt, &booking.ReminderSent,
		&booking.Reviewed, &reviewID, &staffNotes,
		&booking.CreatedAt, &booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(foodItems) > 0 {
		if err := json.Unmarshal(foodItems, &booking.FoodItems); err != nil {
			return nil, fmt.Errorf("failed to decode food items: %w", err)
		}
	}
	if len(addons) > 0 {
		if err := json.Unmarshal(addons, &booking.SelectedAddons); err != nil {
			return nil, fmt.Errorf("failed to decode addons: %w", err)
		}
	}

	if packageID.Valid {
		booking.PackageID = &packageID.String
	}
	if packageName.Valid {
		booking.PackageName = &packageName.String
	}
	if eventName.Valid {
		booking.EventName = &eventName.String
	}
	if eventType.Valid {
		booking.EventType = &eventType.String
	}
	if adults.Valid {
		v := int(adults.Int64)
		booking.Adults = &v
	}
	if children.Valid {
		v := int(children.Int64)
		booking.Children = &v
	}
	if paymentMethod.Valid {
		booking.Payment.Method = &paymentMethod.String
	}
	if transactionID.Valid {
		booking.Payment.TransactionID = &transactionID.String
	}
	if paidAt.Valid {
		booking.Payment.PaidAt = &paidAt.Time
	}
	if deadline.Valid {
		booking.CancellationPolicy.Deadline = &deadline.Time
	}
	if specialRequests.Valid {
		booking.SpecialRequests = &specialRequests.String
	}
	if qrCode.Valid {
		booking.QRCode = &qrCode.String
	}
	if confirmedAt.Valid {
		booking.ConfirmedAt = &confirmedAt.Time
	}
	if cancelledAt.Valid {
		booking.CancelledAt = &cancelledAt.Time
	}
	if reviewID.Valid {
		booking.ReviewID = &reviewID.String
	}
	if staffNotes.Valid {
		booking.StaffNotes = &staffNotes.String
	}

	return booking, nil
}
