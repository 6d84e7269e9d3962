package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/marlon-leasing/marlon/app/models"
	"github.com/marlon-leasing/marlon/app/repository"
	"github.com/marlon-leasing/marlon/internal/pkg/database"
)

// HandleAdminDashboard returns the back-office landing counters.
func HandleAdminDashboard(c *fiber.Ctx) error {
	factory := repository.GetGlobalFactory()
	userCount, err := factory.GetUserRepository().Count()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load statistics")
	}
	productCount, err := factory.GetProductRepository().Count()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load statistics")
	}
	orderCount, err := factory.GetOrderRepository().Count()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load statistics")
	}

	db := database.GetDB()
	var openOrders int64
	db.Model(&models.Order{}).
		Where("status NOT IN ?", []string{models.ORDER_STATUS_DELIVERED, models.ORDER_STATUS_CANCELLED}).
		Count(&openOrders)
	var organizations int64
	db.Model(&models.Organization{}).Count(&organizations)

	return c.JSON(fiber.Map{
		"users":         userCount,
		"organizations": organizations,
		"products":      productCount,
		"orders":        orderCount,
		"open_orders":   openOrders,
	})
}

// HandleAdminBrandList returns all brands.
func HandleAdminBrandList(c *fiber.Ctx) error {
	var brands []models.Brand
	if err := database.GetDB().Order("name ASC").Find(&brands).Error; err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load brands")
	}
	return c.JSON(fiber.Map{"brands": brands})
}

// HandleAdminBrandCreate creates a brand.
func HandleAdminBrandCreate(c *fiber.Ctx) error {
	var brand models.Brand
	if err := c.BodyParser(&brand); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	brand.ID = 0
	if brand.Name == "" {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "name is required")
	}
	if brand.Slug == "" {
		brand.Slug = slugify(brand.Name)
	}
	if err := database.GetDB().Create(&brand).Error; err != nil {
		return jsonError(c, fiber.StatusConflict, "conflict", "Brand already exists")
	}
	return c.Status(fiber.StatusCreated).JSON(brand)
}

// HandleAdminCategoryList returns all categories.
func HandleAdminCategoryList(c *fiber.Ctx) error {
	var categories []models.Category
	if err := database.GetDB().Order("name ASC").Find(&categories).Error; err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load categories")
	}
	return c.JSON(fiber.Map{"categories": categories})
}

// HandleAdminCategoryCreate creates a category.
func HandleAdminCategoryCreate(c *fiber.Ctx) error {
	var category models.Category
	if err := c.BodyParser(&category); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	category.ID = 0
	if category.Name == "" {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "name is required")
	}
	if category.Slug == "" {
		category.Slug = slugify(category.Name)
	}
	if err := database.GetDB().Create(&category).Error; err != nil {
		return jsonError(c, fiber.StatusConflict, "conflict", "Category already exists")
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}
