package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grandpavilion/booking-backend/pkg/jwt"
)

func setupTestJWTService() *jwt.Service {
	return jwt.NewService(
		"test-access-secret-key-123456789",
		"test-refresh-secret-key-123456789",
		time.Hour,
		24*time.Hour,
	)
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestAuthMiddleware_Success(t *testing.T) {
	jwtService := setupTestJWTService()
	router := setupTestRouter()

	token, err := jwtService.GenerateAccessToken("user-1", "jane@example.com", "customer")
	require.NoError(t, err)

	router.GET("/protected", AuthMiddleware(jwtService), func(c *gin.Context) {
		userCtx, exists := GetUserContext(c)
		require.True(t, exists)
		c.JSON(http.StatusOK, gin.H{
			"message": "success",
			"user_id": userCtx.UserID,
			"email":   userCtx.Email,
		})
	})

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "success")
	assert.Contains(t, w.Body.String(), "jane@example.com")
}

func TestAuthMiddleware_MissingAuthHeader(t *testing.T) {
	jwtService := setupTestJWTService()
	router := setupTestRouter()

	router.GET("/protected", AuthMiddleware(jwtService), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "should not reach here"})
	})

	req := httptest.NewRequest("GET", "/protected", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Authorization header is required")
}

func TestAuthMiddleware_InvalidFormat(t *testing.T) {
	jwtService := setupTestJWTService()
	router := setupTestRouter()

	router.GET("/protected", AuthMiddleware(jwtService), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "should not reach here"})
	})

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Token abc123")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	jwtService := setupTestJWTService()
	router := setupTestRouter()

	router.GET("/protected", AuthMiddleware(jwtService), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "should not reach here"})
	})

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_token")
}

func TestAuthMiddleware_RefreshTokenRejected(t *testing.T) {
	jwtService := setupTestJWTService()
	router := setupTestRouter()

	refresh, err := jwtService.GenerateRefreshToken("user-1", "jane@example.com")
	require.NoError(t, err)

	router.GET("/protected", AuthMiddleware(jwtService), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "should not reach here"})
	})

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	jwtService := setupTestJWTService()

	newRequest := func(role string) (*httptest.ResponseRecorder, *http.Request) {
		token, err := jwtService.GenerateAccessToken("user-1", "jane@example.com", role)
		require.NoError(t, err)
		req := httptest.NewRequest("GET", "/staff", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		return httptest.NewRecorder(), req
	}

	router := setupTestRouter()
	router.GET("/staff", AuthMiddleware(jwtService), RequireRole("staff", "admin"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	t.Run("Staff Allowed", func(t *testing.T) {
		w, req := newRequest("staff")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Admin Allowed", func(t *testing.T) {
		w, req := newRequest("admin")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Customer Forbidden", func(t *testing.T) {
		w, req := newRequest("customer")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
