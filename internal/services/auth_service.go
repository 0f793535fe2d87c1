package services

import (
	"errors"
	"fmt"

	"github.com/mssola/user_agent"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/grandpavilion/booking-backend/internal/database"
	"github.com/grandpavilion/booking-backend/internal/models"
	"github.com/grandpavilion/booking-backend/pkg/jwt"
)

// LoginResponse carries tokens and the authenticated user
type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int64        `json:"expires_in"`
	User         *models.User `json:"user"`
}

// AuthService handles registration, login, and token refresh
type AuthService struct {
	userRepo          *database.UserRepository
	jwtService        *jwt.Service
	accessTokenExpiry int64
	bcryptCost        int
	logger            *logrus.Logger
}

// NewAuthService creates a new AuthService. A bcryptCost outside the
// valid bcrypt range falls back to the library default.
func NewAuthService(userRepo *database.UserRepository, jwtService *jwt.Service, accessTokenExpirySeconds int64, bcryptCost int, logger *logrus.Logger) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		userRepo:          userRepo,
		jwtService:        jwtService,
		accessTokenExpiry: accessTokenExpirySeconds,
		bcryptCost:        bcryptCost,
		logger:            logger,
	}
}

// Register creates a customer account
func (s *AuthService) Register(req *models.RegisterRequest) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.Create(req.Name, req.Email, req.Phone, string(hash), models.RoleCustomer)
	if err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, fmt.Errorf("%w: email already registered", ErrAlreadyExists)
		}
		return nil, err
	}

	s.logger.WithField("user_id", user.ID).Info("User registered")
	return user, nil
}

// Login authenticates a user and returns tokens. Every attempt is recorded
// with device details parsed from the User-Agent header; the audit write
// never fails the login.
func (s *AuthService) Login(req *models.LoginRequest, ipAddress, userAgent string) (*LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			s.recordAudit(nil, req.Email, false, ipAddress, userAgent)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		s.recordAudit(&user.ID, req.Email, false, ipAddress, userAgent)
		return nil, ErrAccountDisabled
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.recordAudit(&user.ID, req.Email, false, ipAddress, userAgent)
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.jwtService.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, err := s.jwtService.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	s.recordAudit(&user.ID, req.Email, true, ipAddress, userAgent)
	if err := s.userRepo.TouchLastLogin(user.ID); err != nil {
		s.logger.WithError(err).WithField("user_id", user.ID).Warn("Failed to update last login")
	}

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    s.accessTokenExpiry,
		User:         user,
	}, nil
}

// Refresh exchanges a valid refresh token for a new access token
func (s *AuthService) Refresh(refreshToken string) (*LoginResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAuthorized, err)
	}

	user, err := s.userRepo.GetByID(claims.UserID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrNotAuthorized
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	accessToken, err := s.jwtService.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	newRefresh, err := s.jwtService.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefresh,
		ExpiresIn:    s.accessTokenExpiry,
		User:         user,
	}, nil
}

func (s *AuthService) recordAudit(userID *string, email string, success bool, ipAddress, userAgent string) {
	ua := user_agent.New(userAgent)
	browser, _ := ua.Browser()

	audit := &models.LoginAudit{
		UserID:    userID,
		Email:     email,
		Success:   success,
		IPAddress: ipAddress,
		Browser:   browser,
		OS:        ua.OS(),
		Mobile:    ua.Mobile(),
	}
	if err := s.userRepo.RecordLoginAudit(audit); err != nil {
		s.logger.WithError(err).Warn("Failed to record login audit")
	}
}
