package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/grandpavilion/booking-backend/internal/models"
)

// FoodRepository handles database operations for the menu catalog
// (food categories and food items)
type FoodRepository struct {
	db *sqlx.DB
}

// NewFoodRepository creates a new FoodRepository
func NewFoodRepository(db *sqlx.DB) *FoodRepository {
	return &FoodRepository{db: db}
}

const foodItemColumns = `
	id, name, category_id, description, price, offer_price, is_on_offer,
	food_type, spice_level, ingredients, is_available, is_popular,
	images, tags, created_at, updated_at`

// CreateCategory inserts a new food category
func (r *FoodRepository) CreateCategory(req *models.CreateFoodCategoryRequest) (*models.FoodCategory, error) {
	category := &models.FoodCategory{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		SortOrder:   req.SortOrder,
		Image:       req.Image,
		IsActive:    true,
	}

	query := `
		INSERT INTO food_categories (id, name, description, sort_order, image, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(
		query,
		category.ID,
		category.Name,
		category.Description,
		category.SortOrder,
		category.Image,
		category.IsActive,
	).Scan(&category.CreatedAt, &category.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create food category: %w", err)
	}
	return category, nil
}

// ListCategories returns active categories in display order
func (r *FoodRepository) ListCategories() ([]models.FoodCategory, error) {
	var categories []models.FoodCategory
	query := `
		SELECT id, name, description, sort_order, image, is_active, created_at, updated_at
		FROM food_categories
		WHERE is_active = true
		ORDER BY sort_order, name
	`
	err := r.db.Select(&categories, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list food categories: %w", err)
	}
	return categories, nil
}

// DeleteCategory deactivates a category and its items
func (r *FoodRepository) DeleteCategory(id string) error {
	result, err := r.db.Exec(
		`UPDATE food_categories SET is_active = false, updated_at = NOW() WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to deactivate food category: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to deactivate food category: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	_, err = r.db.Exec(
		`UPDATE food_items SET is_available = false, updated_at = NOW() WHERE category_id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to deactivate category items: %w", err)
	}
	return nil
}

// CreateItem inserts a new menu item
func (r *FoodRepository) CreateItem(req *models.CreateFoodItemRequest) (*models.FoodItem, error) {
	item := &models.FoodItem{
		ID:          uuid.New().String(),
		Name:        req.Name,
		CategoryID:  req.CategoryID,
		Description: req.Description,
		Price:       req.Price,
		OfferPrice:  req.OfferPrice,
		IsOnOffer:   req.IsOnOffer,
		Type:        req.Type,
		SpiceLevel:  req.SpiceLevel,
		Ingredients: pq.StringArray(req.Ingredients),
		IsAvailable: true,
		IsPopular:   req.IsPopular,
		Images:      pq.StringArray(req.Images),
		Tags:        pq.StringArray(req.Tags),
	}

	query := `
		INSERT INTO food_items (
			id, name, category_id, description, price, offer_price, is_on_offer,
			food_type, spice_level, ingredients, is_available, is_popular,
			images, tags, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(
		query,
		item.ID,
		item.Name,
		item.CategoryID,
		item.Description,
		item.Price,
		item.OfferPrice,
		item.IsOnOffer,
		item.Type,
		item.SpiceLevel,
		item.Ingredients,
		item.IsAvailable,
		item.IsPopular,
		item.Images,
		item.Tags,
	).Scan(&item.CreatedAt, &item.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to create food item: %w", err)
	}
	return item, nil
}

// GetItemByID retrieves a menu item by ID
func (r *FoodRepository) GetItemByID(id string) (*models.FoodItem, error) {
	query := `SELECT` + foodItemColumns + ` FROM food_items WHERE id = $1`
	row := r.db.QueryRow(query, id)

	item, err := scanFoodItemRow(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get food item: %w", err)
	}
	return item, nil
}

// GetItemsByIDs retrieves the menu items matching the given IDs. Missing
// IDs are simply absent from the result; callers decide how to treat them.
func (r *FoodRepository) GetItemsByIDs(ids []string) (map[string]*models.FoodItem, error) {
	items := make(map[string]*models.FoodItem, len(ids))
	if len(ids) == 0 {
		return items, nil
	}

	query := `SELECT` + foodItemColumns + ` FROM food_items WHERE id = ANY($1)`
	rows, err := r.db.Query(query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to get food items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		item, err := scanFoodItemRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan food item: %w", err)
		}
		items[item.ID] = item
	}
	return items, rows.Err()
}

// ListItems retrieves menu items, optionally filtered by category
func (r *FoodRepository) ListItems(categoryID string, availableOnly bool) ([]*models.FoodItem, error) {
	query := `SELECT` + foodItemColumns + ` FROM food_items`
	var conditions []string
	var args []interface{}

	if availableOnly {
		conditions = append(conditions, `is_available = true`)
	}
	if categoryID != "" {
		args = append(args, categoryID)
		conditions = append(conditions, fmt.Sprintf(`category_id = $%d`, len(args)))
	}
	for i, c := range conditions {
		if i == 0 {
			query += ` WHERE ` + c
		} else {
			query += ` AND ` + c
		}
	}
	query += ` ORDER BY name`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list food items: %w", err)
	}
	defer rows.Close()

	var items []*models.FoodItem
	for rows.Next() {
		item, err := scanFoodItemRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan food item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpdateItem applies the non-nil fields of the request to a menu item
func (r *FoodRepository) UpdateItem(id string, req *models.UpdateFoodItemRequest) (*models.FoodItem, error) {
	item, err := r.GetItemByID(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.CategoryID != nil {
		item.CategoryID = *req.CategoryID
	}
	if req.Description != nil {
		item.Description = req.Description
	}
	if req.Price != nil {
		item.Price = *req.Price
	}
	if req.OfferPrice != nil {
		item.OfferPrice = req.OfferPrice
	}
	if req.IsOnOffer != nil {
		item.IsOnOffer = *req.IsOnOffer
	}
	if req.SpiceLevel != nil {
		item.SpiceLevel = req.SpiceLevel
	}
	if req.Ingredients != nil {
		item.Ingredients = pq.StringArray(req.Ingredients)
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}
	if req.IsPopular != nil {
		item.IsPopular = *req.IsPopular
	}
	if req.Images != nil {
		item.Images = pq.StringArray(req.Images)
	}
	if req.Tags != nil {
		item.Tags = pq.StringArray(req.Tags)
	}

	query := `
		UPDATE food_items SET
			name = $2, category_id = $3, description = $4, price = $5,
			offer_price = $6, is_on_offer = $7, spice_level = $8,
			ingredients = $9, is_available = $10, is_popular = $11,
			images = $12, tags = $13, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err = r.db.QueryRow(
		query,
		item.ID,
		item.Name,
		item.CategoryID,
		item.Description,
		item.Price,
		item.OfferPrice,
		item.IsOnOffer,
		item.SpiceLevel,
		item.Ingredients,
		item.IsAvailable,
		item.IsPopular,
		item.Images,
		item.Tags,
	).Scan(&item.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to update food item: %w", err)
	}
	return item, nil
}

// DeleteItem removes a menu item. Booking snapshots keep their own copy of
// the item name and price, so hard delete is safe.
func (r *FoodRepository) DeleteItem(id string) error {
	result, err := r.db.Exec(`DELETE FROM food_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete food item: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete food item: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func scanFoodItemRow(row scanner) (*models.FoodItem, error) {
	var item models.FoodItem
	var description, spiceLevel sql.NullString
	var offerPrice sql.NullFloat64

	err := row.Scan(
		&item.ID,
		&item.Name,
		&item.CategoryID,
		&description,
		&item.Price,
		&offerPrice,
		&item.IsOnOffer,
		&item.Type,
		&spiceLevel,
		&item.Ingredients,
		&item.IsAvailable,
		&item.IsPopular,
		&item.Images,
		&item.Tags,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		item.Description = &description.String
	}
	if spiceLevel.Valid {
		item.SpiceLevel = &spiceLevel.String
	}
	if offerPrice.Valid {
		item.OfferPrice = &offerPrice.Float64
	}
	return &item, nil
}
