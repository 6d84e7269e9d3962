package controllers

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/marlon-leasing/marlon/app/models"
	"github.com/marlon-leasing/marlon/app/repository"
	"github.com/marlon-leasing/marlon/internal/pkg/database"
	"github.com/marlon-leasing/marlon/internal/pkg/leasing"
	"github.com/marlon-leasing/marlon/internal/pkg/usercontext"
)

type checkoutRequest struct {
	DeliveryAddressID    *uint  `json:"delivery_address_id"`
	DeliveryName         string `json:"delivery_name"`
	DeliveryAddress      string `json:"delivery_address"`
	DeliveryCity         string `json:"delivery_city"`
	DeliveryPostalCode   string `json:"delivery_postal_code"`
	DeliveryCountry      string `json:"delivery_country"`
	DeliveryContactName  string `json:"delivery_contact_name"`
	DeliveryContactPhone string `json:"delivery_contact_phone"`
	DeliveryInstructions string `json:"delivery_instructions"`
}

// HandleCheckout turns the current cart into an order. Pricing is strict:
// every line must be covered by a real coefficient tier, indicative cart
// prices are never carried over.
func HandleCheckout(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if userCtx.OrganizationID == 0 {
		return jsonError(c, fiber.StatusUnprocessableEntity, "unprocessable", "Account has no organization")
	}

	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	cart, err := currentCart(c)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load cart")
	}
	if len(cart.Items) == 0 {
		return jsonError(c, fiber.StatusUnprocessableEntity, "unprocessable", "Cart is empty")
	}

	// All products must share one financing partner; an order is sent to a
	// single leaser.
	var leaserID uint
	lines := make([]leasing.LineItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		if item.Product == nil {
			return jsonError(c, fiber.StatusUnprocessableEntity, "unprocessable", "Cart references a missing product")
		}
		if item.Product.DefaultLeaserID == nil {
			return jsonError(c, fiber.StatusUnprocessableEntity, "unprocessable",
				fmt.Sprintf("Product %q has no financing partner configured", item.Product.Name))
		}
		if leaserID == 0 {
			leaserID = *item.Product.DefaultLeaserID
		} else if leaserID != *item.Product.DefaultLeaserID {
			return jsonError(c, fiber.StatusUnprocessableEntity, "unprocessable",
				"Cart mixes products from different financing partners")
		}
		lines = append(lines, leasing.LineItem{
			ProductID:       item.ProductID,
			PurchasePriceHT: item.Product.PurchasePriceHT,
			MarginPercent:   item.Product.MarginPercent,
			Quantity:        item.Quantity,
		})
	}

	engine := leasing.NewEngineFromDB(database.GetDB())
	priced, total, err := engine.Recalculate(lines, leaserID, cart.DurationMonths)
	if err != nil {
		if errors.Is(err, leasing.ErrTierNotFound) {
			return jsonError(c, fiber.StatusUnprocessableEntity, "no_coefficient",
				"No coefficient tier covers this order amount; please contact support")
		}
		log.Errorf("[Order] checkout pricing failed for org %d: %v", userCtx.OrganizationID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Pricing failed")
	}

	// One order item row per physical unit, so each unit can later be
	// tracked and delivered on its own.
	items := make([]models.OrderItem, 0, len(priced))
	for _, p := range priced {
		perUnit := leasing.LineTotal(p.MonthlyPriceHT, 1)
		for n := 0; n < p.Quantity; n++ {
			items = append(items, models.OrderItem{
				ProductID:         p.ProductID,
				Quantity:          1,
				PurchasePriceHT:   p.PurchasePriceHT,
				MarginPercent:     p.MarginPercent,
				CoefficientUsed:   p.Coefficient,
				CalculatedPriceHT: perUnit,
			})
		}
	}

	order := models.Order{
		OrderNumber:           uuid.New().String(),
		OrganizationID:        userCtx.OrganizationID,
		UserID:                userCtx.UserID,
		Status:                models.ORDER_STATUS_PENDING,
		LeaserID:              &leaserID,
		LeasingDurationMonths: cart.DurationMonths,
		TotalAmountHT:         total,
		DeliveryAddressID:     req.DeliveryAddressID,
		DeliveryName:          req.DeliveryName,
		DeliveryAddress:       req.DeliveryAddress,
		DeliveryCity:          req.DeliveryCity,
		DeliveryPostalCode:    req.DeliveryPostalCode,
		DeliveryCountry:       req.DeliveryCountry,
		DeliveryContactName:   req.DeliveryContactName,
		DeliveryContactPhone:  req.DeliveryContactPhone,
		DeliveryInstructions:  req.DeliveryInstructions,
	}
	if req.DeliveryAddressID != nil {
		if err := snapshotDeliveryAddress(&order, *req.DeliveryAddressID, userCtx.OrganizationID); err != nil {
			return jsonError(c, fiber.StatusBadRequest, "bad_request", "Unknown delivery address")
		}
	}

	orderRepo := repository.GetGlobalFactory().GetOrderRepository()
	if err := orderRepo.Create(&order, items); err != nil {
		log.Errorf("[Order] checkout create failed for org %d: %v", userCtx.OrganizationID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create order")
	}

	meta, _ := json.Marshal(fiber.Map{"items": len(items), "total_amount_ht": total})
	models.CreateOrderLog(database.GetDB(), order.ID, models.ORDER_LOG_CREATED,
		"Order created from cart", string(meta), &userCtx.UserID)

	if err := repository.GetGlobalFactory().GetCartRepository().Clear(cart.ID); err != nil {
		log.Warnf("[Order] failed to clear cart %d after checkout: %v", cart.ID, err)
	}

	created, err := orderRepo.GetByID(order.ID)
	if err != nil {
		return c.Status(fiber.StatusCreated).JSON(order)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// snapshotDeliveryAddress copies a stored address onto the order.
func snapshotDeliveryAddress(order *models.Order, addressID, organizationID uint) error {
	var address models.DeliveryAddress
	err := database.GetDB().
		Where("id = ? AND organization_id = ?", addressID, organizationID).
		First(&address).Error
	if err != nil {
		return err
	}
	order.DeliveryName = address.Name
	order.DeliveryAddress = address.Address
	order.DeliveryCity = address.City
	order.DeliveryPostalCode = address.PostalCode
	order.DeliveryCountry = address.Country
	order.DeliveryContactName = address.ContactName
	order.DeliveryContactPhone = address.ContactPhone
	order.DeliveryInstructions = address.Instructions
	return nil
}

// HandleOrderList returns the orders of the caller's organization.
func HandleOrderList(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	orders, err := repository.GetGlobalFactory().GetOrderRepository().
		ListByOrganization(userCtx.OrganizationID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load orders")
	}
	return c.JSON(fiber.Map{"orders": orders, "count": len(orders)})
}

// HandleOrderDetail returns one order of the caller's organization with its
// status history and tracking record.
func HandleOrderDetail(c *fiber.Ctx) error {
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
	}
	userCtx := usercontext.GetUserContext(c)

	orderRepo := repository.GetGlobalFactory().GetOrderRepository()
	order, err := orderRepo.GetByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Order not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load order")
	}
	if order.OrganizationID != userCtx.OrganizationID {
		return jsonError(c, fiber.StatusNotFound, "not_found", "Order not found")
	}

	history, err := orderRepo.ListStatusHistory(order.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load history")
	}
	tracking, err := orderRepo.GetTracking(order.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load tracking")
	}

	return c.JSON(fiber.Map{
		"order":    order,
		"history":  history,
		"tracking": tracking,
	})
}
