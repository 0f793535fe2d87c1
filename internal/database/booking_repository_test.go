package database

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grandpavilion/booking-backend/internal/models"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func testBooking() *models.Booking {
	return &models.Booking{
		CustomerID:    "cust-1",
		CustomerName:  "Jane Perera",
		CustomerPhone: "+94771234567",
		CustomerEmail: "jane@example.com",
		Type:          models.BookingTypeHall,
		FacilityID:    "fac-1",
		FacilityName:  "Grand Ballroom",
		FacilityType:  "hall",
		Date:          time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		MealTime:      models.MealTimeDinner,
		TimeSlot:      models.TimeSlot{Start: "18:00", End: "22:00"},
		GuestCount:    120,
		Pricing: models.Pricing{
			FacilityCharge: 100000,
			Tax:            15000,
			Total:          115000,
			AdvancePaid:    34500,
			BalanceDue:     80500,
		},
		Payment: models.Payment{Status: models.PaymentStatusPartial},
		Status:  models.BookingStatusPending,
		CancellationPolicy: models.CancellationPolicy{
			Type: models.CancellationPolicyEvent,
		},
		ConfirmationCode: "RES-ABC123XYZ",
	}
}

func TestCreateBooking(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookingRepository(db)
		booking := testBooking()
		now := time.Now()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM facilities WHERE id = \$1 FOR UPDATE`).
			WithArgs("fac-1").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("fac-1"))
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings`).
			WithArgs("fac-1", "2026-09-12", "18:00", "22:00").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`INSERT INTO booking_sequences`).
			WithArgs(2026).
			WillReturnRows(sqlmock.NewRows([]string{"last_value"}).AddRow(42))
		mock.ExpectQuery(`INSERT INTO bookings`).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
		mock.ExpectCommit()

		err := repo.Create(booking)
		require.NoError(t, err)
		assert.Equal(t, "BK-2026-000042", booking.BookingNumber)
		assert.NotEmpty(t, booking.ID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Slot Taken", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookingRepository(db)
		booking := testBooking()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM facilities WHERE id = \$1 FOR UPDATE`).
			WithArgs("fac-1").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("fac-1"))
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings`).
			WithArgs("fac-1", "2026-09-12", "18:00", "22:00").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectRollback()

		err := repo.Create(booking)
		assert.ErrorIs(t, err, ErrSlotUnavailable)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Facility Missing", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookingRepository(db)
		booking := testBooking()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM facilities WHERE id = \$1 FOR UPDATE`).
			WithArgs("fac-1").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		err := repo.Create(booking)
		assert.ErrorIs(t, err, ErrNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Sequence Error", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookingRepository(db)
		booking := testBooking()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM facilities WHERE id = \$1 FOR UPDATE`).
			WithArgs("fac-1").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("fac-1"))
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings`).
			WithArgs("fac-1", "2026-09-12", "18:00", "22:00").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`INSERT INTO booking_sequences`).
			WithArgs(2026).
			WillReturnError(fmt.Errorf("database error"))
		mock.ExpectRollback()

		err := repo.Create(booking)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to reserve booking number")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBookingNumberConcurrentAllocation(t *testing.T) {
	db, mock := newMockDB(t)
	mock.MatchExpectationsInOrder(false)

	const workers = 8
	for i := 1; i <= workers; i++ {
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO booking_sequences`).
			WithArgs(2026).
			WillReturnRows(sqlmock.NewRows([]string{"last_value"}).AddRow(i))
		mock.ExpectCommit()
	}

	numbers := make(chan string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			tx, err := db.Beginx()
			if !assert.NoError(t, err) {
				return
			}
			number, err := nextBookingNumber(tx, 2026)
			if !assert.NoError(t, err) {
				tx.Rollback()
				return
			}
			assert.NoError(t, tx.Commit())
			numbers <- number
		}()
	}
	wg.Wait()
	close(numbers)

	seen := make(map[string]bool)
	for number := range numbers {
		assert.False(t, seen[number], "number %s allocated twice", number)
		seen[number] = true
	}
	require.Len(t, seen, workers)
	for i := 1; i <= workers; i++ {
		assert.True(t, seen[fmt.Sprintf("BK-2026-%06d", i)], "missing sequence value %d", i)
	}

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHasOverlap(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)
	date := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)

	t.Run("Overlap Found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings`).
			WithArgs("fac-1", "2026-09-12", "18:00", "22:00").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

		overlap, err := repo.HasOverlap("fac-1", date, models.TimeSlot{Start: "18:00", End: "22:00"})
		require.NoError(t, err)
		assert.True(t, overlap)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Slot Free", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings`).
			WithArgs("fac-1", "2026-09-12", "22:00", "23:00").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		overlap, err := repo.HasOverlap("fac-1", date, models.TimeSlot{Start: "22:00", End: "23:00"})
		require.NoError(t, err)
		assert.False(t, overlap)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database Error", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings`).
			WithArgs("fac-1", "2026-09-12", "18:00", "22:00").
			WillReturnError(fmt.Errorf("database error"))

		_, err := repo.HasOverlap("fac-1", date, models.TimeSlot{Start: "18:00", End: "22:00"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to check slot availability")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSetQRCode(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookingRepository(db)

		mock.ExpectExec(`UPDATE bookings\s+SET qr_code = \$2`).
			WithArgs("booking-1", "data:image/jpeg;base64,AAAA").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.SetQRCode("booking-1", "data:image/jpeg;base64,AAAA")
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown Booking", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookingRepository(db)

		mock.ExpectExec(`UPDATE bookings\s+SET qr_code = \$2`).
			WithArgs("missing", "data:image/jpeg;base64,AAAA").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SetQRCode("missing", "data:image/jpeg;base64,AAAA")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestCountByYear(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings WHERE`).
		WithArgs(2026).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(17))

	count, err := repo.CountByYear(2026)
	require.NoError(t, err)
	assert.Equal(t, 17, count)

	assert.NoError(t, mock.ExpectationsWereMet())
}
