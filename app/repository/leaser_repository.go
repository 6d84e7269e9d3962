package repository

import (
	"gorm.io/gorm"

	"github.com/marlon-leasing/marlon/app/models"
)

// leaserRepository implements the LeaserRepository interface
type leaserRepository struct {
	db *gorm.DB
}

// NewLeaserRepository creates a new leaser repository instance
func NewLeaserRepository(db *gorm.DB) LeaserRepository {
	return &leaserRepository{db: db}
}

// Create creates a new leaser in the database
func (r *leaserRepository) Create(leaser *models.Leaser) error {
	return r.db.Create(leaser).Error
}

// GetByID retrieves a leaser together with its coefficient schedule
func (r *leaserRepository) GetByID(id uint) (*models.Leaser, error) {
	var leaser models.Leaser
	err := r.db.Preload("Coefficients").Preload("Coefficients.Duration").First(&leaser, id).Error
	if err != nil {
		return nil, err
	}
	return &leaser, nil
}

// GetAll retrieves all leasers ordered by name
func (r *leaserRepository) GetAll() ([]models.Leaser, error) {
	var leasers []models.Leaser
	err := r.db.Order("name ASC").Find(&leasers).Error
	return leasers, err
}

// Update updates an existing leaser
func (r *leaserRepository) Update(leaser *models.Leaser) error {
	return r.db.Save(leaser).Error
}

// Delete removes a leaser and its coefficient schedule
func (r *leaserRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("leaser_id = ?", id).Delete(&models.LeaserCoefficient{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Leaser{}, id).Error
	})
}

// ListDurations retrieves all leasing durations ordered by months
func (r *leaserRepository) ListDurations() ([]models.LeasingDuration, error) {
	var durations []models.LeasingDuration
	err := r.db.Order("months ASC").Find(&durations).Error
	return durations, err
}

// GetDurationByID retrieves a leasing duration by its ID
func (r *leaserRepository) GetDurationByID(id uint) (*models.LeasingDuration, error) {
	var duration models.LeasingDuration
	err := r.db.First(&duration, id).Error
	if err != nil {
		return nil, err
	}
	return &duration, nil
}

// GetDurationByMonths retrieves a leasing duration by its month count
func (r *leaserRepository) GetDurationByMonths(months int) (*models.LeasingDuration, error) {
	var duration models.LeasingDuration
	err := r.db.Where("months = ?", months).First(&duration).Error
	if err != nil {
		return nil, err
	}
	return &duration, nil
}

// CreateDuration creates a new leasing duration
func (r *leaserRepository) CreateDuration(duration *models.LeasingDuration) error {
	return r.db.Create(duration).Error
}

// CreateCoefficient creates a new coefficient tier
func (r *leaserRepository) CreateCoefficient(coefficient *models.LeaserCoefficient) error {
	return r.db.Create(coefficient).Error
}

// GetCoefficientByID retrieves a coefficient tier by its ID
func (r *leaserRepository) GetCoefficientByID(id uint) (*models.LeaserCoefficient, error) {
	var coefficient models.LeaserCoefficient
	err := r.db.Preload("Duration").First(&coefficient, id).Error
	if err != nil {
		return nil, err
	}
	return &coefficient, nil
}

// ListCoefficients retrieves all coefficient tiers of a leaser
func (r *leaserRepository) ListCoefficients(leaserID uint) ([]models.LeaserCoefficient, error) {
	var coefficients []models.LeaserCoefficient
	err := r.db.Preload("Duration").
		Where("leaser_id = ?", leaserID).
		Order("duration_id ASC, min_amount ASC").
		Find(&coefficients).Error
	return coefficients, err
}

// ListCoefficientsForPair retrieves the tiers of one leaser/duration pair
func (r *leaserRepository) ListCoefficientsForPair(leaserID, durationID uint) ([]models.LeaserCoefficient, error) {
	var coefficients []models.LeaserCoefficient
	err := r.db.Where("leaser_id = ? AND duration_id = ?", leaserID, durationID).
		Order("min_amount ASC").
		Find(&coefficients).Error
	return coefficients, err
}

// UpdateCoefficient updates an existing coefficient tier
func (r *leaserRepository) UpdateCoefficient(coefficient *models.LeaserCoefficient) error {
	return r.db.Save(coefficient).Error
}

// DeleteCoefficient removes a coefficient tier
func (r *leaserRepository) DeleteCoefficient(id uint) error {
	return r.db.Delete(&models.LeaserCoefficient{}, id).Error
}
