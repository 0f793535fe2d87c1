package database

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/grandpavilion/booking-backend/internal/models"
)

// RestaurantInfoRepository handles the single restaurant profile row
type RestaurantInfoRepository struct {
	db *sqlx.DB
}

// NewRestaurantInfoRepository creates a new RestaurantInfoRepository
func NewRestaurantInfoRepository(db *sqlx.DB) *RestaurantInfoRepository {
	return &RestaurantInfoRepository{db: db}
}

const restaurantInfoColumns = `
	id, name, tagline, phone, email, website, street, city, postal_code, about,
	opening_hours, meal_timings, settings, created_at, updated_at`

// Get retrieves the restaurant profile. Returns ErrNotFound when no admin
// has saved one yet.
func (r *RestaurantInfoRepository) Get() (*models.RestaurantInfo, error) {
	query := `SELECT` + restaurantInfoColumns + ` FROM restaurant_info LIMIT 1`
	row := r.db.QueryRow(query)

	info, err := scanRestaurantInfoRow(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get restaurant info: %w", err)
	}
	return info, nil
}

// Save writes the profile with create-or-update semantics. The table keeps a
// single row keyed by a fixed singleton marker.
func (r *RestaurantInfoRepository) Save(req *models.UpdateRestaurantInfoRequest) (*models.RestaurantInfo, error) {
	info := &models.RestaurantInfo{
		Name:         req.Name,
		Tagline:      req.Tagline,
		Phone:        req.Phone,
		Email:        req.Email,
		Website:      req.Website,
		Street:       req.Street,
		City:         req.City,
		PostalCode:   req.PostalCode,
		About:        req.About,
		OpeningHours: req.OpeningHours,
		MealTimings:  req.MealTimings,
		Settings:     models.DefaultRestaurantSettings(),
	}
	if req.Settings != nil {
		info.Settings = *req.Settings
	}

	hoursJSON, err := json.Marshal(info.OpeningHours)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal opening hours: %w", err)
	}
	timingsJSON, err := json.Marshal(info.MealTimings)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal meal timings: %w", err)
	}
	settingsJSON, err := json.Marshal(info.Settings)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal settings: %w", err)
	}

	query := `
		INSERT INTO restaurant_info (
			id, singleton, name, tagline, phone, email, website,
			street, city, postal_code, about,
			opening_hours, meal_timings, settings, created_at, updated_at
		)
		VALUES ($1, true, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
		ON CONFLICT (singleton) DO UPDATE SET
			name = EXCLUDED.name,
			tagline = EXCLUDED.tagline,
			phone = EXCLUDED.phone,
			email = EXCLUDED.email,
			website = EXCLUDED.website,
			street = EXCLUDED.street,
			city = EXCLUDED.city,
			postal_code = EXCLUDED.postal_code,
			about = EXCLUDED.about,
			opening_hours = EXCLUDED.opening_hours,
			meal_timings = EXCLUDED.meal_timings,
			settings = EXCLUDED.settings,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`
	err = r.db.QueryRow(
		query,
		uuid.New().String(),
		info.Name,
		info.Tagline,
		info.Phone,
		info.Email,
		info.Website,
		info.Street,
		info.City,
		info.PostalCode,
		info.About,
		hoursJSON,
		timingsJSON,
		settingsJSON,
	).Scan(&info.ID, &info.CreatedAt, &info.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to save restaurant info: %w", err)
	}
	return info, nil
}

func scanRestaurantInfoRow(row scanner) (*models.RestaurantInfo, error) {
	var info models.RestaurantInfo
	var tagline, website, postalCode, about sql.NullString
	var hoursJSON, timingsJSON, settingsJSON []byte

	err := row.Scan(
		&info.ID,
		&info.Name,
		&tagline,
		&info.Phone,
		&info.Email,
		&website,
		&info.Street,
		&info.City,
		&postalCode,
		&about,
		&hoursJSON,
		&timingsJSON,
		&settingsJSON,
		&info.CreatedAt,
		&info.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if tagline.Valid {
		info.Tagline = &tagline.String
	}
	if website.Valid {
		info.Website = &website.String
	}
	if postalCode.Valid {
		info.PostalCode = &postalCode.String
	}
	if about.Valid {
		info.About = &about.String
	}
	if len(hoursJSON) > 0 {
		if err := json.Unmarshal(hoursJSON, &info.OpeningHours); err != nil {
			return nil, fmt.Errorf("failed to unmarshal opening hours: %w", err)
		}
	}
	if len(timingsJSON) > 0 {
		if err := json.Unmarshal(timingsJSON, &info.MealTimings); err != nil {
			return nil, fmt.Errorf("failed to unmarshal meal timings: %w", err)
		}
	}
	if len(settingsJSON) > 0 {
		if err := json.Unmarshal(settingsJSON, &info.Settings); err != nil {
			return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
		}
	}
	return &info, nil
}
