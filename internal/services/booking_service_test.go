package services

import (
	"io"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grandpavilion/booking-backend/internal/config"
	"github.com/grandpavilion/booking-backend/internal/database"
	"github.com/grandpavilion/booking-backend/internal/models"
	"github.com/grandpavilion/booking-backend/pkg/mailer"
)

func newServiceMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func newTestBookingService(db *sqlx.DB) *BookingService {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := config.BookingConfig{
		TaxRate:                0.15,
		DepositPercentage:      0.30,
		CancellationNoticeDays: 2,
		Timezone:               time.UTC,
	}

	return NewBookingService(
		database.NewBookingRepository(db),
		database.NewFacilityRepository(db),
		database.NewPackageRepository(db),
		database.NewFoodRepository(db),
		mailer.New(config.SMTPConfig{Mode: "dev"}, logger),
		cfg,
		logger,
	)
}

func facilityRow(maintenance bool) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "name", "facility_type", "table_number", "capacity", "hall_type",
		"position_x", "position_y", "position_width", "position_height", "position_floor",
		"features", "amenities", "base_price", "price_per_person", "min_booking_hours",
		"is_available", "is_maintenance", "images", "description", "created_at", "updated_at",
	}).AddRow(
		"fac-1", "Grand Ballroom", "hall", nil, 200, "luxury",
		0.0, 0.0, 0.0, 0.0, 1,
		"{projector,stage}", "{wifi}", 100000.0, 0.0, 4,
		true, maintenance, "{}", "Spacious banquet hall", now, now,
	)
}

func TestCheckAvailability(t *testing.T) {
	slot := models.TimeSlot{Start: "18:00", End: "22:00"}

	t.Run("Available", func(t *testing.T) {
		db, mock := newServiceMockDB(t)
		svc := newTestBookingService(db)

		mock.ExpectQuery(`FROM facilities WHERE id = \$1`).
			WithArgs("fac-1").
			WillReturnRows(facilityRow(false))
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings WHERE`).
			WithArgs("fac-1", "2026-09-12", "18:00", "22:00").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		available, err := svc.CheckAvailability("fac-1", "2026-09-12", slot)
		require.NoError(t, err)
		assert.True(t, available)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Slot Already Taken", func(t *testing.T) {
		db, mock := newServiceMockDB(t)
		svc := newTestBookingService(db)

		mock.ExpectQuery(`FROM facilities WHERE id = \$1`).
			WithArgs("fac-1").
			WillReturnRows(facilityRow(false))
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings WHERE`).
			WithArgs("fac-1", "2026-09-12", "18:00", "22:00").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		available, err := svc.CheckAvailability("fac-1", "2026-09-12", slot)
		require.NoError(t, err)
		assert.False(t, available)
	})

	t.Run("Under Maintenance", func(t *testing.T) {
		db, mock := newServiceMockDB(t)
		svc := newTestBookingService(db)

		mock.ExpectQuery(`FROM facilities WHERE id = \$1`).
			WithArgs("fac-1").
			WillReturnRows(facilityRow(true))

		// No overlap query expected when the facility cannot be booked
		available, err := svc.CheckAvailability("fac-1", "2026-09-12", slot)
		require.NoError(t, err)
		assert.False(t, available)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown Facility", func(t *testing.T) {
		db, mock := newServiceMockDB(t)
		svc := newTestBookingService(db)

		mock.ExpectQuery(`FROM facilities WHERE id = \$1`).
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := svc.CheckAvailability("missing", "2026-09-12", slot)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Invalid Slot", func(t *testing.T) {
		db, mock := newServiceMockDB(t)
		svc := newTestBookingService(db)

		mock.ExpectQuery(`FROM facilities WHERE id = \$1`).
			WithArgs("fac-1").
			WillReturnRows(facilityRow(false))

		_, err := svc.CheckAvailability("fac-1", "2026-09-12", models.TimeSlot{Start: "22:00", End: "18:00"})
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestGenerateConfirmationCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := generateConfirmationCode()
		require.NoError(t, err)
		assert.Len(t, code, 13)
		assert.Equal(t, "RES-", code[:4])
		for _, ch := range code[4:] {
			assert.True(t, (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9'), "unexpected character %q", ch)
		}
		assert.False(t, seen[code], "duplicate code %s", code)
		seen[code] = true
	}
}
