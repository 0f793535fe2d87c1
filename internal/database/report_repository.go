package database

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// DashboardStats is the admin dashboard summary
type DashboardStats struct {
	TotalBookings     int     `json:"total_bookings" db:"total_bookings"`
	PendingBookings   int     `json:"pending_bookings" db:"pending_bookings"`
	ConfirmedBookings int     `json:"confirmed_bookings" db:"confirmed_bookings"`
	CancelledBookings int     `json:"cancelled_bookings" db:"cancelled_bookings"`
	CompletedBookings int     `json:"completed_bookings" db:"completed_bookings"`
	NoShowBookings    int     `json:"no_show_bookings" db:"no_show_bookings"`
	TotalRevenue      float64 `json:"total_revenue" db:"total_revenue"`
	CollectedRevenue  float64 `json:"collected_revenue" db:"collected_revenue"`
	OutstandingAmount float64 `json:"outstanding_amount" db:"outstanding_amount"`
}

// RevenueRow is one day's revenue in a report range
type RevenueRow struct {
	Date         time.Time `json:"date" db:"report_date"`
	BookingCount int       `json:"booking_count" db:"booking_count"`
	Revenue      float64   `json:"revenue" db:"revenue"`
}

// FacilityUsageRow summarizes booking volume per facility
type FacilityUsageRow struct {
	FacilityID   string  `json:"facility_id" db:"facility_id"`
	FacilityName string  `json:"facility_name" db:"facility_name"`
	BookingCount int     `json:"booking_count" db:"booking_count"`
	Revenue      float64 `json:"revenue" db:"revenue"`
}

// PopularItemRow is one menu item's order volume in a report range
type PopularItemRow struct {
	Name          string `json:"name" db:"name"`
	TotalQuantity int    `json:"total_quantity" db:"total_quantity"`
}

// ReportRepository runs the aggregate queries behind admin reporting
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// GetDashboardStats aggregates booking counts and revenue across a date
// range. Cancelled and no-show bookings are excluded from revenue.
func (r *ReportRepository) GetDashboardStats(from, to time.Time) (*DashboardStats, error) {
	query := `
		SELECT
			COUNT(*) AS total_bookings,
			COUNT(*) FILTER (WHERE status = 'pending') AS pending_bookings,
			COUNT(*) FILTER (WHERE status = 'confirmed') AS confirmed_bookings,
			COUNT(*) FILTER (WHERE status = 'cancelled') AS cancelled_bookings,
			COUNT(*) FILTER (WHERE status = 'completed') AS completed_bookings,
			COUNT(*) FILTER (WHERE status = 'no_show') AS no_show_bookings,
			COALESCE(SUM(total) FILTER (WHERE status IN ('pending', 'confirmed', 'completed')), 0) AS total_revenue,
			COALESCE(SUM(advance_paid) FILTER (WHERE status IN ('pending', 'confirmed', 'completed')), 0) AS collected_revenue,
			COALESCE(SUM(balance_due) FILTER (WHERE status IN ('pending', 'confirmed')), 0) AS outstanding_amount
		FROM bookings
		WHERE booking_date BETWEEN $1 AND $2
	`

	var stats DashboardStats
	err := r.db.Get(&stats, query, from.Format("2006-01-02"), to.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate dashboard stats: %w", err)
	}
	return &stats, nil
}

// GetDailyRevenue returns per-day booking counts and revenue over a range
func (r *ReportRepository) GetDailyRevenue(from, to time.Time) ([]RevenueRow, error) {
	query := `
		SELECT
			booking_date AS report_date,
			COUNT(*) AS booking_count,
			COALESCE(SUM(total), 0) AS revenue
		FROM bookings
		WHERE booking_date BETWEEN $1 AND $2
		  AND status IN ('pending', 'confirmed', 'completed')
		GROUP BY booking_date
		ORDER BY booking_date
	`

	var rows []RevenueRow
	err := r.db.Select(&rows, query, from.Format("2006-01-02"), to.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate daily revenue: %w", err)
	}
	return rows, nil
}

// GetFacilityUsage returns booking volume per facility over a range
func (r *ReportRepository) GetFacilityUsage(from, to time.Time) ([]FacilityUsageRow, error) {
	query := `
		SELECT
			facility_id,
			facility_name,
			COUNT(*) AS booking_count,
			COALESCE(SUM(total), 0) AS revenue
		FROM bookings
		WHERE booking_date BETWEEN $1 AND $2
		  AND status IN ('pending', 'confirmed', 'completed')
		GROUP BY facility_id, facility_name
		ORDER BY revenue DESC
	`

	var rows []FacilityUsageRow
	err := r.db.Select(&rows, query, from.Format("2006-01-02"), to.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate facility usage: %w", err)
	}
	return rows, nil
}

// GetPopularItems returns the most ordered menu items over a range, read
// from booking snapshots so deleted catalog entries still count.
func (r *ReportRepository) GetPopularItems(from, to time.Time, limit int) ([]PopularItemRow, error) {
	query := `
		SELECT
			item->>'name' AS name,
			SUM((item->>'quantity')::int) AS total_quantity
		FROM bookings, jsonb_array_elements(food_items) AS item
		WHERE booking_date BETWEEN $1 AND $2
		  AND status IN ('pending', 'confirmed', 'completed')
		GROUP BY item->>'name'
		ORDER BY total_quantity DESC
		LIMIT $3
	`

	var rows []PopularItemRow
	err := r.db.Select(&rows, query, from.Format("2006-01-02"), to.Format("2006-01-02"), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate popular items: %w", err)
	}
	return rows, nil
}
