package database

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grandpavilion/booking-backend/internal/models"
)

func TestCreateReview(t *testing.T) {
	req := &models.CreateReviewRequest{
		BookingID:     "bk-1",
		Food:          5,
		Service:       4,
		Ambiance:      5,
		ValueForMoney: 4,
		Overall:       5,
	}

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewReviewRepository(db)
		now := time.Now()

		mock.ExpectQuery(`INSERT INTO reviews`).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

		review, err := repo.Create("cust-1", req)
		require.NoError(t, err)
		assert.Equal(t, "bk-1", review.BookingID)
		assert.Equal(t, "cust-1", review.CustomerID)
		assert.Equal(t, 5, review.Ratings.Overall)
		assert.True(t, review.Verified)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Second Review For Booking", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewReviewRepository(db)

		mock.ExpectQuery(`INSERT INTO reviews`).
			WillReturnError(&pq.Error{Code: "23505"})

		review, err := repo.Create("cust-1", req)
		assert.ErrorIs(t, err, ErrDuplicate)
		assert.Nil(t, review)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetFacilityRatings(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReviewRepository(db)

	mock.ExpectQuery(`SELECT(.|\n)+FROM reviews r(.|\n)+JOIN bookings b`).
		WithArgs("fac-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"avg_food", "avg_service", "avg_ambiance", "avg_value", "avg_overall", "count",
		}).AddRow(4.5, 4.0, 4.25, 3.75, 4.25, 8))

	ratings, err := repo.GetFacilityRatings("fac-1")
	require.NoError(t, err)
	assert.Equal(t, 4.5, ratings.AverageFood)
	assert.Equal(t, 4.25, ratings.AverageOverall)
	assert.Equal(t, 8, ratings.TotalReviews)

	assert.NoError(t, mock.ExpectationsWereMet())
}
