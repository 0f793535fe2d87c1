package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/grandpavilion/booking-backend/internal/models"
)

// ReviewRepository handles database operations for reviews
type ReviewRepository struct {
	db *sqlx.DB
}

// NewReviewRepository creates a new ReviewRepository
func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

const reviewColumns = `
	id, booking_id, customer_id,
	rating_food, rating_service, rating_ambiance, rating_value, rating_overall,
	comment, images, likes, verified, created_at, updated_at`

// Create inserts a review for a booking. The bookings table enforces one
// review per booking with a unique constraint on booking_id; a second
// attempt returns ErrDuplicate.
func (r *ReviewRepository) Create(customerID string, req *models.CreateReviewRequest) (*models.Review, error) {
	review := &models.Review{
		ID:         uuid.New().String(),
		BookingID:  req.BookingID,
		CustomerID: customerID,
		Ratings: models.ReviewRatings{
			Food:          req.Food,
			Service:       req.Service,
			Ambiance:      req.Ambiance,
			ValueForMoney: req.ValueForMoney,
			Overall:       req.Overall,
		},
		Comment:  req.Comment,
		Images:   pq.StringArray(req.Images),
		Verified: true,
	}

	query := `
		INSERT INTO reviews (
			id, booking_id, customer_id,
			rating_food, rating_service, rating_ambiance, rating_value, rating_overall,
			comment, images, likes, verified, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 0, $11, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(
		query,
		review.ID,
		review.BookingID,
		review.CustomerID,
		review.Ratings.Food,
		review.Ratings.Service,
		review.Ratings.Ambiance,
		review.Ratings.ValueForMoney,
		review.Ratings.Overall,
		review.Comment,
		review.Images,
		review.Verified,
	).Scan(&review.CreatedAt, &review.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return review, nil
}

// GetByID retrieves a review by ID
func (r *ReviewRepository) GetByID(id string) (*models.Review, error) {
	query := `SELECT` + reviewColumns + ` FROM reviews WHERE id = $1`
	row := r.db.QueryRow(query, id)

	review, err := scanReviewRow(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return review, nil
}

// GetByBookingID retrieves the review attached to a booking, if any
func (r *ReviewRepository) GetByBookingID(bookingID string) (*models.Review, error) {
	query := `SELECT` + reviewColumns + ` FROM reviews WHERE booking_id = $1`
	row := r.db.QueryRow(query, bookingID)

	review, err := scanReviewRow(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return review, nil
}

// ListByFacility returns the reviews for completed bookings of one facility,
// newest first.
func (r *ReviewRepository) ListByFacility(facilityID string, limit int) ([]*models.Review, error) {
	query := `
		SELECT
			r.id, r.booking_id, r.customer_id,
			r.rating_food, r.rating_service, r.rating_ambiance, r.rating_value, r.rating_overall,
			r.comment, r.images, r.likes, r.verified, r.created_at, r.updated_at
		FROM reviews r
		JOIN bookings b ON b.id = r.booking_id
		WHERE b.facility_id = $1
		ORDER BY r.created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(query, facilityID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*models.Review
	for rows.Next() {
		review, err := scanReviewRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

// GetFacilityRatings aggregates review scores for one facility
func (r *ReviewRepository) GetFacilityRatings(facilityID string) (*models.FacilityRatings, error) {
	query := `
		SELECT
			COALESCE(AVG(r.rating_food), 0),
			COALESCE(AVG(r.rating_service), 0),
			COALESCE(AVG(r.rating_ambiance), 0),
			COALESCE(AVG(r.rating_value), 0),
			COALESCE(AVG(r.rating_overall), 0),
			COUNT(*)
		FROM reviews r
		JOIN bookings b ON b.id = r.booking_id
		WHERE b.facility_id = $1
	`
	var ratings models.FacilityRatings
	err := r.db.QueryRow(query, facilityID).Scan(
		&ratings.AverageFood,
		&ratings.AverageService,
		&ratings.AverageAmbiance,
		&ratings.AverageValue,
		&ratings.AverageOverall,
		&ratings.TotalReviews,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate facility ratings: %w", err)
	}
	return &ratings, nil
}

// AddLike increments the like counter on a review
func (r *ReviewRepository) AddLike(id string) error {
	result, err := r.db.Exec(
		`UPDATE reviews SET likes = likes + 1, updated_at = NOW() WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to like review: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to like review: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func scanReviewRow(row scanner) (*models.Review, error) {
	var review models.Review
	var comment sql.NullString

	err := row.Scan(
		&review.ID,
		&review.BookingID,
		&review.CustomerID,
		&review.Ratings.Food,
		&review.Ratings.Service,
		&review.Ratings.Ambiance,
		&review.Ratings.ValueForMoney,
		&review.Ratings.Overall,
		&comment,
		&review.Images,
		&review.Likes,
		&review.Verified,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if comment.Valid {
		review.Comment = &comment.String
	}
	return &review, nil
}
