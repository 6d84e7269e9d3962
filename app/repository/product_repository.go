package repository

import (
	"gorm.io/gorm"

	"github.com/marlon-leasing/marlon/app/models"
)

// productRepository implements the ProductRepository interface
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository instance
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create creates a new product in the database
func (r *productRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

// GetByID retrieves a product with its brand, category and images
func (r *productRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.Preload("Brand").Preload("Category").Preload("Images").First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetBySlug retrieves a product by its URL slug
func (r *productRepository) GetBySlug(slug string) (*models.Product, error) {
	var product models.Product
	err := r.db.Preload("Brand").Preload("Category").Preload("Images").
		Where("slug = ?", slug).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Update updates an existing product
func (r *productRepository) Update(product *models.Product) error {
	return r.db.Save(product).Error
}

// Delete removes a product and its images
func (r *productRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Product{}, id).Error
	})
}

// List retrieves a page of products ordered by creation date
func (r *productRepository) List(offset, limit int) ([]models.Product, error) {
	var products []models.Product
	err := r.db.Preload("Brand").Preload("Category").Preload("Images").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&products).Error
	return products, err
}

// ListActive retrieves a page of active products for the public catalog
func (r *productRepository) ListActive(offset, limit int) ([]models.Product, error) {
	var products []models.Product
	err := r.db.Preload("Brand").Preload("Category").Preload("Images").
		Where("is_active = ?", true).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&products).Error
	return products, err
}

// Search finds active products whose name or description matches the query
func (r *productRepository) Search(query string) ([]models.Product, error) {
	var products []models.Product
	pattern := "%" + query + "%"
	err := r.db.Preload("Brand").Preload("Images").
		Where("is_active = ?", true).
		Where("name LIKE ? OR description LIKE ?", pattern, pattern).
		Order("name ASC").
		Find(&products).Error
	return products, err
}

// Count returns the total number of products
func (r *productRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Product{}).Count(&count).Error
	return count, err
}

// AddImage attaches an image to a product
func (r *productRepository) AddImage(image *models.ProductImage) error {
	return r.db.Create(image).Error
}
