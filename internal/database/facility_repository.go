package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/grandpavilion/booking-backend/internal/models"
)

// FacilityRepository handles database operations for facilities
type FacilityRepository struct {
	db *sqlx.DB
}

// NewFacilityRepository creates a new FacilityRepository
func NewFacilityRepository(db *sqlx.DB) *FacilityRepository {
	return &FacilityRepository{db: db}
}

const facilityColumns = `
	id, name, facility_type, table_number, capacity, hall_type,
	position_x, position_y, position_width, position_height, position_floor,
	features, amenities, base_price, price_per_person, min_booking_hours,
	is_available, is_maintenance, images, description, created_at, updated_at`

// Create inserts a new facility
func (r *FacilityRepository) Create(req *models.CreateFacilityRequest) (*models.Facility, error) {
	facility := &models.Facility{
		ID:              uuid.New().String(),
		Name:            req.Name,
		Type:            req.Type,
		TableNumber:     req.TableNumber,
		Capacity:        req.Capacity,
		HallType:        req.HallType,
		Features:        pq.StringArray(req.Features),
		Amenities:       pq.StringArray(req.Amenities),
		BasePrice:       req.BasePrice,
		PricePerPerson:  req.PricePerPerson,
		MinBookingHours: req.MinBookingHours,
		IsAvailable:     true,
		Images:          pq.StringArray(req.Images),
		Description:     req.Description,
	}
	if req.Position != nil {
		facility.Position = *req.Position
	}

	query := `
		INSERT INTO facilities (
			id, name, facility_type, table_number, capacity, hall_type,
			position_x, position_y, position_width, position_height, position_floor,
			features, amenities, base_price, price_per_person, min_booking_hours,
			is_available, is_maintenance, images, description,
			created_at, updated_at
		)
		VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
			$12, $13, $14, $15, $16, $17, $18, $19, $20, NOW(), NOW()
		)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(
		query,
		facility.ID,
		facility.Name,
		facility.Type,
		facility.TableNumber,
		facility.Capacity,
		facility.HallType,
		facility.Position.X,
		facility.Position.Y,
		facility.Position.Width,
		facility.Position.Height,
		facility.Position.Floor,
		facility.Features,
		facility.Amenities,
		facility.BasePrice,
		facility.PricePerPerson,
		facility.MinBookingHours,
		facility.IsAvailable,
		facility.IsMaintenance,
		facility.Images,
		facility.Description,
	).Scan(&facility.CreatedAt, &facility.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to create facility: %w", err)
	}

	return facility, nil
}

// GetByID retrieves a facility by ID
func (r *FacilityRepository) GetByID(id string) (*models.Facility, error) {
	query := `SELECT` + facilityColumns + ` FROM facilities WHERE id = $1`
	row := r.db.QueryRow(query, id)

	facility, err := scanFacilityRow(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get facility: %w", err)
	}
	return facility, nil
}

// List retrieves facilities, optionally filtered by type
func (r *FacilityRepository) List(facilityType string) ([]*models.Facility, error) {
	query := `SELECT` + facilityColumns + ` FROM facilities`
	args := []interface{}{}
	if facilityType != "" {
		query += ` WHERE facility_type = $1`
		args = append(args, facilityType)
	}
	query += ` ORDER BY facility_type, name`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list facilities: %w", err)
	}
	defer rows.Close()

	var facilities []*models.Facility
	for rows.Next() {
		facility, err := scanFacilityRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan facility: %w", err)
		}
		facilities = append(facilities, facility)
	}
	return facilities, rows.Err()
}

// Update applies the non-nil fields of the request to a facility
func (r *FacilityRepository) Update(id string, req *models.UpdateFacilityRequest) (*models.Facility, error) {
	facility, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		facility.Name = *req.Name
	}
	if req.Capacity != nil {
		facility.Capacity = *req.Capacity
	}
	if req.HallType != nil {
		facility.HallType = req.HallType
	}
	if req.Position != nil {
		facility.Position = *req.Position
	}
	if req.Features != nil {
		facility.Features = pq.StringArray(req.Features)
	}
	if req.Amenities != nil {
		facility.Amenities = pq.StringArray(req.Amenities)
	}
	if req.BasePrice != nil {
		facility.BasePrice = *req.BasePrice
	}
	if req.PricePerPerson != nil {
		facility.PricePerPerson = *req.PricePerPerson
	}
	if req.MinBookingHours != nil {
		facility.MinBookingHours = *req.MinBookingHours
	}
	if req.IsAvailable != nil {
		facility.IsAvailable = *req.IsAvailable
	}
	if req.IsMaintenance != nil {
		facility.IsMaintenance = *req.IsMaintenance
	}
	if req.Images != nil {
		facility.Images = pq.StringArray(req.Images)
	}
	if req.Description != nil {
		facility.Description = req.Description
	}

	query := `
		UPDATE facilities SET
			name = $2, capacity = $3, hall_type = $4,
			position_x = $5, position_y = $6, position_width = $7,
			position_height = $8, position_floor = $9,
			features = $10, amenities = $11, base_price = $12,
			price_per_person = $13, min_booking_hours = $14,
			is_available = $15, is_maintenance = $16,
			images = $17, description = $18, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err = r.db.QueryRow(
		query,
		facility.ID,
		facility.Name,
		facility.Capacity,
		facility.HallType,
		facility.Position.X,
		facility.Position.Y,
		facility.Position.Width,
		facility.Position.Height,
		facility.Position.Floor,
		facility.Features,
		facility.Amenities,
		facility.BasePrice,
		facility.PricePerPerson,
		facility.MinBookingHours,
		facility.IsAvailable,
		facility.IsMaintenance,
		facility.Images,
		facility.Description,
	).Scan(&facility.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to update facility: %w", err)
	}
	return facility, nil
}

// Delete removes a facility
func (r *FacilityRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM facilities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete facility: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete facility: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetMaintenance toggles the maintenance flag on a facility
func (r *FacilityRepository) SetMaintenance(id string, maintenance bool) error {
	result, err := r.db.Exec(
		`UPDATE facilities SET is_maintenance = $2, updated_at = NOW() WHERE id = $1`,
		id, maintenance,
	)
	if err != nil {
		return fmt.Errorf("failed to update maintenance status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update maintenance status: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// BookedSlots returns the active booking slots for a facility on a given day,
// used to render the floor plan and availability calendar.
func (r *FacilityRepository) BookedSlots(facilityID string, date time.Time) ([]models.TimeSlot, error) {
	query := `
		SELECT slot_start, slot_end FROM bookings
		WHERE facility_id = $1
		  AND booking_date = $2
		  AND status IN ('pending', 'confirmed')
		ORDER BY slot_start
	`
	rows, err := r.db.Query(query, facilityID, date.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to get booked slots: %w", err)
	}
	defer rows.Close()

	var slots []models.TimeSlot
	for rows.Next() {
		var slot models.TimeSlot
		if err := rows.Scan(&slot.Start, &slot.End); err != nil {
			return nil, fmt.Errorf("failed to scan booked slot: %w", err)
		}
		slots = append(slots, slot)
	}
	return slots, rows.Err()
}

func scanFacilityRow(row scanner) (*models.Facility, error) {
	var facility models.Facility
	var tableNumber, hallType, description sql.NullString

	err := row.Scan(
		&facility.ID,
		&facility.Name,
		&facility.Type,
		&tableNumber,
		&facility.Capacity,
		&hallType,
		&facility.Position.X,
		&facility.Position.Y,
		&facility.Position.Width,
		&facility.Position.Height,
		&facility.Position.Floor,
		&facility.Features,
		&facility.Amenities,
		&facility.BasePrice,
		&facility.PricePerPerson,
		&facility.MinBookingHours,
		&facility.IsAvailable,
		&facility.IsMaintenance,
		&facility.Images,
		&description,
		&facility.CreatedAt,
		&facility.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if tableNumber.Valid {
		facility.TableNumber = &tableNumber.String
	}
	if hallType.Valid {
		facility.HallType = &hallType.String
	}
	if description.Valid {
		facility.Description = &description.String
	}
	return &facility, nil
}
