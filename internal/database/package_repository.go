package database

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/grandpavilion/booking-backend/internal/models"
)

// PackageRepository handles database operations for event packages
type PackageRepository struct {
	db *sqlx.DB
}

// NewPackageRepository creates a new PackageRepository
func NewPackageRepository(db *sqlx.DB) *PackageRepository {
	return &PackageRepository{db: db}
}

const packageColumns = `
	id, name, event_type, description, tagline, base_price, price_per_person,
	min_guests, max_guests, duration_hours, facility_id, addons,
	images, terms, is_active, is_featured, created_at, updated_at`

// Create inserts a new event package
func (r *PackageRepository) Create(req *models.CreatePackageRequest) (*models.EventPackage, error) {
	pkg := &models.EventPackage{
		ID:             uuid.New().String(),
		Name:           req.Name,
		EventType:      req.EventType,
		Description:    req.Description,
		Tagline:        req.Tagline,
		BasePrice:      req.BasePrice,
		PricePerPerson: req.PricePerPerson,
		MinGuests:      req.MinGuests,
		MaxGuests:      req.MaxGuests,
		DurationHours:  req.DurationHours,
		FacilityID:     req.FacilityID,
		Addons:         req.Addons,
		Images:         pq.StringArray(req.Images),
		Terms:          pq.StringArray(req.Terms),
		IsActive:       true,
		IsFeatured:     req.IsFeatured,
	}

	addonsJSON, err := json.Marshal(pkg.Addons)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal addons: %w", err)
	}

	query := `
		INSERT INTO event_packages (
			id, name, event_type, description, tagline, base_price, price_per_person,
			min_guests, max_guests, duration_hours, facility_id, addons,
			images, terms, is_active, is_featured, created_at, updated_at
		)
		VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, NOW(), NOW()
		)
		RETURNING created_at, updated_at
	`

	err = r.db.QueryRow(
		query,
		pkg.ID,
		pkg.Name,
		pkg.EventType,
		pkg.Description,
		pkg.Tagline,
		pkg.BasePrice,
		pkg.PricePerPerson,
		pkg.MinGuests,
		pkg.MaxGuests,
		pkg.DurationHours,
		pkg.FacilityID,
		addonsJSON,
		pkg.Images,
		pkg.Terms,
		pkg.IsActive,
		pkg.IsFeatured,
	).Scan(&pkg.CreatedAt, &pkg.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to create package: %w", err)
	}
	return pkg, nil
}

// GetByID retrieves an event package by ID
func (r *PackageRepository) GetByID(id string) (*models.EventPackage, error) {
	query := `SELECT` + packageColumns + ` FROM event_packages WHERE id = $1`
	row := r.db.QueryRow(query, id)

	pkg, err := scanPackageRow(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get package: %w", err)
	}
	return pkg, nil
}

// List retrieves event packages. When activeOnly is set, inactive packages
// are filtered out; the admin catalog view passes false.
func (r *PackageRepository) List(eventType string, activeOnly bool) ([]*models.EventPackage, error) {
	query := `SELECT` + packageColumns + ` FROM event_packages`
	var conditions []string
	var args []interface{}

	if activeOnly {
		conditions = append(conditions, `is_active = true`)
	}
	if eventType != "" {
		args = append(args, eventType)
		conditions = append(conditions, fmt.Sprintf(`event_type = $%d`, len(args)))
	}
	for i, c := range conditions {
		if i == 0 {
			query += ` WHERE ` + c
		} else {
			query += ` AND ` + c
		}
	}
	query += ` ORDER BY is_featured DESC, base_price`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list packages: %w", err)
	}
	defer rows.Close()

	var packages []*models.EventPackage
	for rows.Next() {
		pkg, err := scanPackageRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan package: %w", err)
		}
		packages = append(packages, pkg)
	}
	return packages, rows.Err()
}

// Update applies the non-nil fields of the request to a package
func (r *PackageRepository) Update(id string, req *models.UpdatePackageRequest) (*models.EventPackage, error) {
	pkg, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		pkg.Name = *req.Name
	}
	if req.Description != nil {
		pkg.Description = *req.Description
	}
	if req.Tagline != nil {
		pkg.Tagline = req.Tagline
	}
	if req.BasePrice != nil {
		pkg.BasePrice = *req.BasePrice
	}
	if req.PricePerPerson != nil {
		pkg.PricePerPerson = *req.PricePerPerson
	}
	if req.MinGuests != nil {
		pkg.MinGuests = *req.MinGuests
	}
	if req.MaxGuests != nil {
		pkg.MaxGuests = *req.MaxGuests
	}
	if req.DurationHours != nil {
		pkg.DurationHours = *req.DurationHours
	}
	if req.Addons != nil {
		pkg.Addons = req.Addons
	}
	if req.Images != nil {
		pkg.Images = pq.StringArray(req.Images)
	}
	if req.Terms != nil {
		pkg.Terms = pq.StringArray(req.Terms)
	}
	if req.IsActive != nil {
		pkg.IsActive = *req.IsActive
	}
	if req.IsFeatured != nil {
		pkg.IsFeatured = *req.IsFeatured
	}

	addonsJSON, err := json.Marshal(pkg.Addons)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal addons: %w", err)
	}

	query := `
		UPDATE event_packages SET
			name = $2, description = $3, tagline = $4, base_price = $5,
			price_per_person = $6, min_guests = $7, max_guests = $8,
			duration_hours = $9, addons = $10, images = $11, terms = $12,
			is_active = $13, is_featured = $14, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err = r.db.QueryRow(
		query,
		pkg.ID,
		pkg.Name,
		pkg.Description,
		pkg.Tagline,
		pkg.BasePrice,
		pkg.PricePerPerson,
		pkg.MinGuests,
		pkg.MaxGuests,
		pkg.DurationHours,
		addonsJSON,
		pkg.Images,
		pkg.Terms,
		pkg.IsActive,
		pkg.IsFeatured,
	).Scan(&pkg.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to update package: %w", err)
	}
	return pkg, nil
}

// Delete deactivates a package rather than removing it, because existing
// bookings reference its snapshot by package_id.
func (r *PackageRepository) Delete(id string) error {
	result, err := r.db.Exec(
		`UPDATE event_packages SET is_active = false, updated_at = NOW() WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to deactivate package: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to deactivate package: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func scanPackageRow(row scanner) (*models.EventPackage, error) {
	var pkg models.EventPackage
	var tagline, facilityID sql.NullString
	var addonsJSON []byte

	err := row.Scan(
		&pkg.ID,
		&pkg.Name,
		&pkg.EventType,
		&pkg.Description,
		&tagline,
		&pkg.BasePrice,
		&pkg.PricePerPerson,
		&pkg.MinGuests,
		&pkg.MaxGuests,
		&pkg.DurationHours,
		&facilityID,
		&addonsJSON,
		&pkg.Images,
		&pkg.Terms,
		&pkg.IsActive,
		&pkg.IsFeatured,
		&pkg.CreatedAt,
		&pkg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if tagline.Valid {
		pkg.Tagline = &tagline.String
	}
	if facilityID.Valid {
		pkg.FacilityID = &facilityID.String
	}
	if len(addonsJSON) > 0 {
		if err := json.Unmarshal(addonsJSON, &pkg.Addons); err != nil {
			return nil, fmt.Errorf("failed to unmarshal addons: %w", err)
		}
	}
	return &pkg, nil
}
