package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/grandpavilion/booking-backend/internal/models"
)

// UserRepository handles database operations for users and login audits
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user account
func (r *UserRepository) Create(name, email, phone, passwordHash, role string) (*models.User, error) {
	user := &models.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: passwordHash,
		Role:         role,
		IsActive:     true,
	}

	query := `
		INSERT INTO users (id, name, email, phone, password_hash, role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(
		query,
		user.ID,
		user.Name,
		user.Email,
		user.Phone,
		user.PasswordHash,
		user.Role,
		user.IsActive,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(id string) (*models.User, error) {
	var user models.User
	query := `SELECT * FROM users WHERE id = $1`
	err := r.db.Get(&user, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	query := `SELECT * FROM users WHERE email = $1`
	err := r.db.Get(&user, query, email)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

// UpdateProfile applies the non-nil fields of the request
func (r *UserRepository) UpdateProfile(id string, req *models.UpdateProfileRequest) (*models.User, error) {
	user, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}

	query := `
		UPDATE users SET name = $2, phone = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err = r.db.QueryRow(query, user.ID, user.Name, user.Phone).Scan(&user.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// UpdatePassword stores a new password hash
func (r *UserRepository) UpdatePassword(id, passwordHash string) error {
	result, err := r.db.Exec(
		`UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`,
		id, passwordHash,
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// TouchLastLogin records a successful login time
func (r *UserRepository) TouchLastLogin(id string) error {
	_, err := r.db.Exec(
		`UPDATE users SET last_login_at = NOW(), updated_at = NOW() WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

// RecordLoginAudit stores a login attempt with parsed device details
func (r *UserRepository) RecordLoginAudit(audit *models.LoginAudit) error {
	if audit.ID == "" {
		audit.ID = uuid.New().String()
	}

	query := `
		INSERT INTO login_audits (id, user_id, email, success, ip_address, browser, os, mobile, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
	`
	_, err := r.db.Exec(
		query,
		audit.ID,
		audit.UserID,
		audit.Email,
		audit.Success,
		audit.IPAddress,
		audit.Browser,
		audit.OS,
		audit.Mobile,
	)
	if err != nil {
		return fmt.Errorf("failed to record login audit: %w", err)
	}
	return nil
}

// ListLoginAudits returns recent login attempts for one user, newest first
func (r *UserRepository) ListLoginAudits(userID string, limit int) ([]models.LoginAudit, error) {
	var audits []models.LoginAudit
	query := `
		SELECT * FROM login_audits
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	err := r.db.Select(&audits, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list login audits: %w", err)
	}
	return audits, nil
}
