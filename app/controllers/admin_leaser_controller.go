package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/marlon-leasing/marlon/app/models"
	"github.com/marlon-leasing/marlon/app/repository"
	"github.com/marlon-leasing/marlon/internal/pkg/cache"
	"github.com/marlon-leasing/marlon/internal/pkg/database"
	"github.com/marlon-leasing/marlon/internal/pkg/leasing"
)

type coefficientRequest struct {
	DurationID  uint     `json:"duration_id"`
	MinAmount   float64  `json:"min_amount"`
	MaxAmount   *float64 `json:"max_amount"`
	Coefficient float64  `json:"coefficient"`
}

// durationLookup is the slice of the leaser repository needed to resolve a
// tier's duration before triggering a cascade.
type durationLookup interface {
	GetDurationByID(id uint) (*models.LeasingDuration, error)
}

// coefficientMonths resolves the month count a tier applies to. A cascade
// must never run with an unresolved duration: sweeping zero months would
// silently reprice nothing.
func coefficientMonths(coefficient *models.LeaserCoefficient, repo durationLookup) (int, error) {
	if coefficient.Duration != nil {
		return coefficient.Duration.Months, nil
	}
	duration, err := repo.GetDurationByID(coefficient.DurationID)
	if err != nil {
		return 0, err
	}
	return duration.Months, nil
}

// runCascade reprices open orders and cart items after a schedule change and
// drops the cached catalog quotes.
func runCascade(leaserID uint, durationMonths int) leasing.CascadeResult {
	cascade := leasing.NewCascadeFromDB(database.GetDB()).
		WithCacheInvalidation(func() {
			if err := cache.DeleteByPattern(CatalogPriceCachePattern); err != nil {
				log.Warnf("[Leasing] catalog cache invalidation failed: %v", err)
			}
		})
	return cascade.OnCoefficientChanged(leaserID, durationMonths)
}

// HandleAdminLeaserList returns all financing partners.
func HandleAdminLeaserList(c *fiber.Ctx) error {
	leasers, err := repository.GetGlobalFactory().GetLeaserRepository().GetAll()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load leasers")
	}
	return c.JSON(fiber.Map{"leasers": leasers})
}

// HandleAdminLeaserCreate creates a financing partner.
func HandleAdminLeaserCreate(c *fiber.Ctx) error {
	var leaser models.Leaser
	if err := c.BodyParser(&leaser); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	leaser.ID = 0
	if err := leaser.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", err.Error())
	}
	if err := repository.GetGlobalFactory().GetLeaserRepository().Create(&leaser); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create leaser")
	}
	return c.Status(fiber.StatusCreated).JSON(leaser)
}

// HandleAdminLeaserDetail returns one leaser with its full schedule.
func HandleAdminLeaserDetail(c *fiber.Ctx) error {
	leaserID, err := parseIDParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
	}
	leaser, err := repository.GetGlobalFactory().GetLeaserRepository().GetByID(leaserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Leaser not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load leaser")
	}
	return c.JSON(leaser)
}

// HandleAdminLeaserUpdate updates a financing partner's base fields.
func HandleAdminLeaserUpdate(c *fiber.Ctx) error {
	leaserID, err := parseIDParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
	}
	leaserRepo := repository.GetGlobalFactory().GetLeaserRepository()
	leaser, err := leaserRepo.GetByID(leaserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Leaser not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load leaser")
	}

	var req models.Leaser
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	leaser.Name = req.Name
	leaser.ContactEmail = req.ContactEmail
	leaser.ContactPhone = req.ContactPhone
	leaser.IsActive = req.IsActive
	if err := leaser.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", err.Error())
	}
	if err := leaserRepo.Update(leaser); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update leaser")
	}
	return c.JSON(leaser)
}

// HandleAdminDurationList returns the offered leasing durations.
func HandleAdminDurationList(c *fiber.Ctx) error {
	durations, err := repository.GetGlobalFactory().GetLeaserRepository().ListDurations()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load durations")
	}
	return c.JSON(fiber.Map{"durations": durations})
}

// HandleAdminDurationCreate adds a leasing duration.
func HandleAdminDurationCreate(c *fiber.Ctx) error {
	var duration models.LeasingDuration
	if err := c.BodyParser(&duration); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	duration.ID = 0
	if err := duration.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", err.Error())
	}
	if err := repository.GetGlobalFactory().GetLeaserRepository().CreateDuration(&duration); err != nil {
		return jsonError(c, fiber.StatusConflict, "conflict", "Duration already exists")
	}
	return c.Status(fiber.StatusCreated).JSON(duration)
}

// HandleAdminCoefficientList returns a leaser's coefficient schedule.
func HandleAdminCoefficientList(c *fiber.Ctx) error {
	leaserID, err := parseIDParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
	}
	coefficients, err := repository.GetGlobalFactory().GetLeaserRepository().ListCoefficients(leaserID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load coefficients")
	}
	return c.JSON(fiber.Map{"coefficients": coefficients})
}

// HandleAdminCoefficientCreate adds a tier to a leaser's schedule. The new
// range must not overlap an existing tier of the same leaser/duration pair;
// open orders and carts are repriced before the response is sent.
func HandleAdminCoefficientCreate(c *fiber.Ctx) error {
	leaserID, err := parseIDParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
	}
	var req coefficientRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	leaserRepo := repository.GetGlobalFactory().GetLeaserRepository()
	duration, err := leaserRepo.GetDurationByID(req.DurationID)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Unknown leasing duration")
	}
	if req.MaxAmount != nil && *req.MaxAmount < req.MinAmount {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "max_amount must be greater than min_amount")
	}

	existing, err := leaserRepo.ListCoefficientsForPair(leaserID, req.DurationID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load schedule")
	}
	if err := leasing.ValidateNoOverlap(existing, req.MinAmount, req.MaxAmount, 0); err != nil {
		return jsonError(c, fiber.StatusConflict, "overlap", err.Error())
	}

	coefficient := models.LeaserCoefficient{
		LeaserID:    leaserID,
		DurationID:  req.DurationID,
		MinAmount:   req.MinAmount,
		MaxAmount:   req.MaxAmount,
		Coefficient: req.Coefficient,
	}
	if err := coefficient.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", err.Error())
	}
	if err := leaserRepo.CreateCoefficient(&coefficient); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create coefficient")
	}

	result := runCascade(leaserID, duration.Months)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"coefficient": coefficient,
		"cascade":     result,
	})
}

// HandleAdminCoefficientUpdate changes a tier's range or rate and reprices
// everything that depends on it.
func HandleAdminCoefficientUpdate(c *fiber.Ctx) error {
	coefficientID, err := parseIDParam(c, "coefficient_id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
	}
	var req coefficientRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	leaserRepo := repository.GetGlobalFactory().GetLeaserRepository()
	coefficient, err := leaserRepo.GetCoefficientByID(coefficientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Coefficient not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load coefficient")
	}

	if req.DurationID != 0 && req.DurationID != coefficient.DurationID {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "A tier cannot move to another duration")
	}
	if req.MaxAmount != nil && *req.MaxAmount < req.MinAmount {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "max_amount must be greater than min_amount")
	}

	existing, err := leaserRepo.ListCoefficientsForPair(coefficient.LeaserID, coefficient.DurationID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load schedule")
	}
	if err := leasing.ValidateNoOverlap(existing, req.MinAmount, req.MaxAmount, coefficient.ID); err != nil {
		return jsonError(c, fiber.StatusConflict, "overlap", err.Error())
	}

	months, err := coefficientMonths(coefficient, leaserRepo)
	if err != nil {
		log.Errorf("[Leasing] duration lookup for tier %d failed: %v", coefficient.ID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to resolve tier duration")
	}

	coefficient.MinAmount = req.MinAmount
	coefficient.MaxAmount = req.MaxAmount
	coefficient.Coefficient = req.Coefficient
	if err := coefficient.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", err.Error())
	}
	if err := leaserRepo.UpdateCoefficient(coefficient); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update coefficient")
	}

	result := runCascade(coefficient.LeaserID, months)
	return c.JSON(fiber.Map{
		"coefficient": coefficient,
		"cascade":     result,
	})
}

// HandleAdminCoefficientDelete removes a tier. Orders priced by the removed
// tier keep their last calculated prices; the sweep skips them.
func HandleAdminCoefficientDelete(c *fiber.Ctx) error {
	coefficientID, err := parseIDParam(c, "coefficient_id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
	}

	leaserRepo := repository.GetGlobalFactory().GetLeaserRepository()
	coefficient, err := leaserRepo.GetCoefficientByID(coefficientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Coefficient not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load coefficient")
	}
	months, err := coefficientMonths(coefficient, leaserRepo)
	if err != nil {
		log.Errorf("[Leasing] duration lookup for tier %d failed: %v", coefficient.ID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to resolve tier duration")
	}
	if err := leaserRepo.DeleteCoefficient(coefficient.ID); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to delete coefficient")
	}

	result := runCascade(coefficient.LeaserID, months)
	return c.JSON(fiber.Map{"deleted": coefficient.ID, "cascade": result})
}
