package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/grandpavilion/booking-backend/internal/database"
	"github.com/grandpavilion/booking-backend/internal/models"
)

// FoodHandler exposes the menu catalog endpoints
type FoodHandler struct {
	foodRepo *database.FoodRepository
}

// NewFoodHandler creates a new FoodHandler
func NewFoodHandler(foodRepo *database.FoodRepository) *FoodHandler {
	return &FoodHandler{foodRepo: foodRepo}
}

// ListCategories returns the active menu categories in display order
// GET /api/v1/menu/categories
func (h *FoodHandler) ListCategories(c *gin.Context) {
	categories, err := h.foodRepo.ListCategories()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}

	c.JSON(http.StatusOK, categories)
}

// ListItems returns menu items, optionally filtered by category. The public
// view only shows available items; staff pass all=true for the full catalog.
// GET /api/v1/menu/items?category_id=&all=
func (h *FoodHandler) ListItems(c *gin.Context) {
	availableOnly := c.Query("all") != "true"

	items, err := h.foodRepo.ListItems(c.Query("category_id"), availableOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch menu items"})
		return
	}

	c.JSON(http.StatusOK, items)
}

// GetItem returns one menu item
// GET /api/v1/menu/items/:id
func (h *FoodHandler) GetItem(c *gin.Context) {
	item, err := h.foodRepo.GetItemByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch menu item"})
		return
	}

	c.JSON(http.StatusOK, item)
}

// CreateCategory creates a menu category. Admin only.
// POST /api/v1/admin/menu/categories
func (h *FoodHandler) CreateCategory(c *gin.Context) {
	var req models.CreateFoodCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := h.foodRepo.CreateCategory(&req)
	if err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "A category with this name already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}

	c.JSON(http.StatusCreated, category)
}

// DeleteCategory deactivates a category and its items. Admin only.
// DELETE /api/v1/admin/menu/categories/:id
func (h *FoodHandler) DeleteCategory(c *gin.Context) {
	if err := h.foodRepo.DeleteCategory(c.Param("id")); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}

// CreateItem creates a menu item. Admin only.
// POST /api/v1/admin/menu/items
func (h *FoodHandler) CreateItem(c *gin.Context) {
	var req models.CreateFoodItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.foodRepo.CreateItem(&req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create menu item"})
		return
	}

	c.JSON(http.StatusCreated, item)
}

// UpdateItem updates a menu item. Admin only. Changing prices here never
// rewrites existing booking snapshots.
// PUT /api/v1/admin/menu/items/:id
func (h *FoodHandler) UpdateItem(c *gin.Context) {
	var req models.UpdateFoodItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.foodRepo.UpdateItem(c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update menu item"})
		return
	}

	c.JSON(http.StatusOK, item)
}

// DeleteItem removes a menu item. Admin only.
// DELETE /api/v1/admin/menu/items/:id
func (h *FoodHandler) DeleteItem(c *gin.Context) {
	if err := h.foodRepo.DeleteItem(c.Param("id")); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete menu item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted"})
}
