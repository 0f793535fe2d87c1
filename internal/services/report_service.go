package services

import (
	"fmt"
	"time"

	"github.com/grandpavilion/booking-backend/internal/database"
)

// DashboardReport bundles the admin dashboard data
type DashboardReport struct {
	From          time.Time                   `json:"from"`
	To            time.Time                   `json:"to"`
	Stats         *database.DashboardStats    `json:"stats"`
	DailyRevenue  []database.RevenueRow       `json:"daily_revenue"`
	FacilityUsage []database.FacilityUsageRow `json:"facility_usage"`
	PopularItems  []database.PopularItemRow   `json:"popular_items"`
}

// ReportService produces admin reporting views
type ReportService struct {
	reportRepo *database.ReportRepository
}

// NewReportService creates a new ReportService
func NewReportService(reportRepo *database.ReportRepository) *ReportService {
	return &ReportService{reportRepo: reportRepo}
}

// Dashboard builds the full dashboard report for a date range. An empty
// range defaults to the last 30 days.
func (s *ReportService) Dashboard(fromStr, toStr string) (*DashboardReport, error) {
	to := time.Now()
	from := to.AddDate(0, 0, -30)

	var err error
	if fromStr != "" {
		from, err = time.Parse("2006-01-02", fromStr)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid from date: %s", ErrValidation, fromStr)
		}
	}
	if toStr != "" {
		to, err = time.Parse("2006-01-02", toStr)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid to date: %s", ErrValidation, toStr)
		}
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: to date precedes from date", ErrValidation)
	}

	stats, err := s.reportRepo.GetDashboardStats(from, to)
	if err != nil {
		return nil, err
	}
	daily, err := s.reportRepo.GetDailyRevenue(from, to)
	if err != nil {
		return nil, err
	}
	usage, err := s.reportRepo.GetFacilityUsage(from, to)
	if err != nil {
		return nil, err
	}
	popular, err := s.reportRepo.GetPopularItems(from, to, 10)
	if err != nil {
		return nil, err
	}

	return &DashboardReport{
		From:          from,
		To:            to,
		Stats:         stats,
		DailyRevenue:  daily,
		FacilityUsage: usage,
		PopularItems:  popular,
	}, nil
}
