package repository

import (
	"gorm.io/gorm"

	"github.com/marlon-leasing/marlon/app/models"
)

// Repositories struct holds all repository instances
type Repositories struct {
	User    UserRepository
	Leaser  LeaserRepository
	Product ProductRepository
	Cart    CartRepository
	Order   OrderRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:    NewUserRepository(db),
		Leaser:  NewLeaserRepository(db),
		Product: NewProductRepository(db),
		Cart:    NewCartRepository(db),
		Order:   NewOrderRepository(db),
	}
}

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	Count() (int64, error)
}

// LeaserRepository defines the interface for leaser, duration and
// coefficient schedule operations
type LeaserRepository interface {
	Create(leaser *models.Leaser) error
	GetByID(id uint) (*models.Leaser, error)
	GetAll() ([]models.Leaser, error)
	Update(leaser *models.Leaser) error
	Delete(id uint) error

	ListDurations() ([]models.LeasingDuration, error)
	GetDurationByID(id uint) (*models.LeasingDuration, error)
	GetDurationByMonths(months int) (*models.LeasingDuration, error)
	CreateDuration(duration *models.LeasingDuration) error

	CreateCoefficient(coefficient *models.LeaserCoefficient) error
	GetCoefficientByID(id uint) (*models.LeaserCoefficient, error)
	ListCoefficients(leaserID uint) ([]models.LeaserCoefficient, error)
	ListCoefficientsForPair(leaserID, durationID uint) ([]models.LeaserCoefficient, error)
	UpdateCoefficient(coefficient *models.LeaserCoefficient) error
	DeleteCoefficient(id uint) error
}

// ProductRepository defines the interface for product catalog operations
type ProductRepository interface {
	Create(product *models.Product) error
	GetByID(id uint) (*models.Product, error)
	GetBySlug(slug string) (*models.Product, error)
	Update(product *models.Product) error
	Delete(id uint) error
	List(offset, limit int) ([]models.Product, error)
	ListActive(offset, limit int) ([]models.Product, error)
	Search(query string) ([]models.Product, error)
	Count() (int64, error)
	AddImage(image *models.ProductImage) error
}

// CartRepository defines the interface for cart operations
type CartRepository interface {
	GetOrCreateByUser(userID, organizationID uint) (*models.Cart, error)
	GetByID(id uint) (*models.Cart, error)
	SetDuration(cartID uint, durationMonths int) error
	AddItem(item *models.CartItem) error
	GetItem(itemID uint) (*models.CartItem, error)
	UpdateItem(item *models.CartItem) error
	RemoveItem(itemID uint) error
	Clear(cartID uint) error
}

// OrderRepository defines the interface for order-related database operations
type OrderRepository interface {
	Create(order *models.Order, items []models.OrderItem) error
	GetByID(id uint) (*models.Order, error)
	GetByOrderNumber(number string) (*models.Order, error)
	ListByOrganization(organizationID uint) ([]models.Order, error)
	List(offset, limit int) ([]models.Order, error)
	Count() (int64, error)
	Update(order *models.Order) error
	UpdateItemPricing(itemID uint, coefficient, calculatedPriceHT float64) error
	AddItem(item *models.OrderItem) error
	RemoveItem(itemID uint) error
	ChangeStatus(order *models.Order, newStatus string, changedBy uint) error

	GetTracking(orderID uint) (*models.OrderTracking, error)
	SaveTracking(tracking *models.OrderTracking) error
	ListStatusHistory(orderID uint) ([]models.OrderStatusHistory, error)
	ListLogs(orderID uint) ([]models.OrderLog, error)
}
