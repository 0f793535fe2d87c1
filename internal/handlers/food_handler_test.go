package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grandpavilion/booking-backend/internal/database"
	"github.com/grandpavilion/booking-backend/internal/models"
)

func newMockFoodHandler(t *testing.T) (*FoodHandler, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := database.NewFoodRepository(sqlx.NewDb(db, "sqlmock"))
	return NewFoodHandler(repo), mock
}

func setupMenuRouter(handler *FoodHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	menu := router.Group("/api/v1/menu")
	{
		menu.GET("/categories", handler.ListCategories)
		menu.GET("/items", handler.ListItems)
		menu.GET("/items/:id", handler.GetItem)
	}
	return router
}

func foodItemRow() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "name", "category_id", "description", "price", "offer_price", "is_on_offer",
		"food_type", "spice_level", "ingredients", "is_available", "is_popular",
		"images", "tags", "created_at", "updated_at",
	}).AddRow(
		"item-1", "Chicken Biryani", "cat-1", "Basmati rice with spiced chicken", 2400.0, 1900.0, true,
		"non_veg", "medium", "{rice,chicken}", true, true,
		"{}", "{signature}", now, now,
	)
}

func TestListCategories(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mock := newMockFoodHandler(t)
		router := setupMenuRouter(handler)

		now := time.Now()
		mock.ExpectQuery(`FROM food_categories`).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "name", "description", "sort_order", "image", "is_active", "created_at", "updated_at",
			}).
				AddRow("cat-1", "Starters", nil, 1, nil, true, now, now).
				AddRow("cat-2", "Mains", nil, 2, nil, true, now, now))

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/v1/menu/categories", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var categories []models.FoodCategory
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &categories))
		require.Len(t, categories, 2)
		assert.Equal(t, "Starters", categories[0].Name)
		assert.Equal(t, "Mains", categories[1].Name)
	})

	t.Run("Database Error", func(t *testing.T) {
		handler, mock := newMockFoodHandler(t)
		router := setupMenuRouter(handler)

		mock.ExpectQuery(`FROM food_categories`).
			WillReturnError(errors.New("connection refused"))

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/v1/menu/categories", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestListItems(t *testing.T) {
	t.Run("Public View Filters Unavailable", func(t *testing.T) {
		handler, mock := newMockFoodHandler(t)
		router := setupMenuRouter(handler)

		mock.ExpectQuery(`FROM food_items WHERE is_available = true`).
			WillReturnRows(foodItemRow())

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/v1/menu/items", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var items []models.FoodItem
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
		require.Len(t, items, 1)
		assert.Equal(t, "Chicken Biryani", items[0].Name)
		assert.True(t, items[0].IsOnOffer)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Category Filter", func(t *testing.T) {
		handler, mock := newMockFoodHandler(t)
		router := setupMenuRouter(handler)

		mock.ExpectQuery(`FROM food_items WHERE is_available = true AND category_id = \$1`).
			WithArgs("cat-1").
			WillReturnRows(foodItemRow())

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/v1/menu/items?category_id=cat-1", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetItem(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		handler, mock := newMockFoodHandler(t)
		router := setupMenuRouter(handler)

		mock.ExpectQuery(`FROM food_items WHERE id = \$1`).
			WithArgs("item-1").
			WillReturnRows(foodItemRow())

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/v1/menu/items/item-1", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var item models.FoodItem
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))
		assert.Equal(t, "item-1", item.ID)
		require.NotNil(t, item.OfferPrice)
		assert.Equal(t, 1900.0, *item.OfferPrice)
	})

	t.Run("Not Found", func(t *testing.T) {
		handler, mock := newMockFoodHandler(t)
		router := setupMenuRouter(handler)

		mock.ExpectQuery(`FROM food_items WHERE id = \$1`).
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/v1/menu/items/missing", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "Menu item not found", body["error"])
	})
}
