package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/marlon-leasing/marlon/app/models"
)

// cartRepository implements the CartRepository interface
type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository creates a new cart repository instance
func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

// GetOrCreateByUser returns the user's cart, creating an empty one on first use
func (r *cartRepository) GetOrCreateByUser(userID, organizationID uint) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.Preload("Items").Preload("Items.Product").Preload("Items.Product.Images").
		Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = models.Cart{
			UserID:         userID,
			OrganizationID: organizationID,
			DurationMonths: 36,
		}
		if err := r.db.Create(&cart).Error; err != nil {
			return nil, err
		}
		return &cart, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// GetByID retrieves a cart with its items
func (r *cartRepository) GetByID(id uint) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.Preload("Items").Preload("Items.Product").First(&cart, id).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// SetDuration changes the leasing duration selected for the whole cart
func (r *cartRepository) SetDuration(cartID uint, durationMonths int) error {
	return r.db.Model(&models.Cart{}).Where("id = ?", cartID).
		Update("duration_months", durationMonths).Error
}

// AddItem adds an item to a cart
func (r *cartRepository) AddItem(item *models.CartItem) error {
	return r.db.Create(item).Error
}

// GetItem retrieves a cart item with its product
func (r *cartRepository) GetItem(itemID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.Preload("Product").First(&item, itemID).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateItem updates a cart item
func (r *cartRepository) UpdateItem(item *models.CartItem) error {
	return r.db.Save(item).Error
}

// RemoveItem removes a single cart item
func (r *cartRepository) RemoveItem(itemID uint) error {
	return r.db.Delete(&models.CartItem{}, itemID).Error
}

// Clear removes all items from a cart
func (r *cartRepository) Clear(cartID uint) error {
	return r.db.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
}
