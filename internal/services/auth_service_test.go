package services

import (
	"database/sql/driver"
	"io"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/grandpavilion/booking-backend/internal/database"
	"github.com/grandpavilion/booking-backend/internal/models"
	"github.com/grandpavilion/booking-backend/pkg/jwt"
)

// bcryptHashArg matches an INSERT argument that is a bcrypt hash of the
// given password at the given cost.
type bcryptHashArg struct {
	password string
	cost     int
}

func (a bcryptHashArg) Match(v driver.Value) bool {
	hash, ok := v.(string)
	if !ok {
		return false
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil || cost != a.cost {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(a.password)) == nil
}

func newTestAuthService(t *testing.T, bcryptCost int) (*AuthService, sqlmock.Sqlmock) {
	db, mock := newServiceMockDB(t)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	jwtService := jwt.NewService("access-secret", "refresh-secret", time.Hour, 24*time.Hour)
	return NewAuthService(database.NewUserRepository(db), jwtService, 3600, bcryptCost, logger), mock
}

func TestRegister(t *testing.T) {
	req := &models.RegisterRequest{
		Name:     "Jane Perera",
		Email:    "jane@example.com",
		Phone:    "+94771234567",
		Password: "correct-horse-battery",
	}

	t.Run("Hashes With Configured Cost", func(t *testing.T) {
		svc, mock := newTestAuthService(t, bcrypt.MinCost)

		now := time.Now()
		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs(
				sqlmock.AnyArg(),
				req.Name,
				req.Email,
				req.Phone,
				bcryptHashArg{password: req.Password, cost: bcrypt.MinCost},
				models.RoleCustomer,
				true,
			).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

		user, err := svc.Register(req)
		require.NoError(t, err)
		assert.Equal(t, req.Email, user.Email)
		assert.Equal(t, models.RoleCustomer, user.Role)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Out Of Range Cost Falls Back To Default", func(t *testing.T) {
		svc, _ := newTestAuthService(t, 99)
		assert.Equal(t, bcrypt.DefaultCost, svc.bcryptCost)

		svc, _ = newTestAuthService(t, 0)
		assert.Equal(t, bcrypt.DefaultCost, svc.bcryptCost)
	})

	t.Run("Duplicate Email", func(t *testing.T) {
		svc, mock := newTestAuthService(t, bcrypt.MinCost)

		mock.ExpectQuery(`INSERT INTO users`).
			WillReturnError(&pq.Error{Code: "23505"})

		_, err := svc.Register(req)
		assert.ErrorIs(t, err, ErrAlreadyExists)
	})
}
