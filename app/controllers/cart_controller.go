package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/marlon-leasing/marlon/app/models"
	"github.com/marlon-leasing/marlon/app/repository"
	"github.com/marlon-leasing/marlon/internal/pkg/database"
	"github.com/marlon-leasing/marlon/internal/pkg/leasing"
	"github.com/marlon-leasing/marlon/internal/pkg/usercontext"
)

type cartAddRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type cartUpdateRequest struct {
	Quantity int `json:"quantity"`
}

type cartDurationRequest struct {
	DurationMonths int `json:"duration_months"`
}

// priceCartItem prices one cart line against the product's default leaser.
// Strict resolution is tried first; when no tier covers the amount the
// display fallback keeps the cart usable until checkout, where strict mode
// is enforced again.
func priceCartItem(engine *leasing.Engine, product *models.Product, months, quantity int) (coefficient, monthly, total float64) {
	line := []leasing.LineItem{{
		ProductID:       product.ID,
		PurchasePriceHT: product.PurchasePriceHT,
		MarginPercent:   product.MarginPercent,
		Quantity:        quantity,
	}}
	if product.DefaultLeaserID != nil {
		priced, _, err := engine.Recalculate(line, *product.DefaultLeaserID, months)
		if err == nil {
			return priced[0].Coefficient, priced[0].MonthlyPriceHT, priced[0].CalculatedPriceHT
		}
		if !errors.Is(err, leasing.ErrTierNotFound) {
			log.Warnf("[Cart] pricing product %d failed: %v", product.ID, err)
		}
	}

	selling := product.SellingPriceHT()
	var indicative float64
	if product.DefaultLeaserID != nil {
		indicative, _ = engine.Resolver().ResolveDisplay(*product.DefaultLeaserID, months, selling)
	} else {
		indicative = leasing.DefaultCoefficient(months)
	}
	monthly = leasing.MonthlyPrice(selling, indicative)
	return indicative, monthly, leasing.LineTotal(monthly, quantity)
}

// repriceCart rewrites the persisted pricing of every item in the cart.
func repriceCart(cart *models.Cart) error {
	cartRepo := repository.GetGlobalFactory().GetCartRepository()
	engine := leasing.NewEngineFromDB(database.GetDB())
	for i := range cart.Items {
		item := &cart.Items[i]
		if item.Product == nil {
			continue
		}
		coefficient, monthly, total := priceCartItem(engine, item.Product, cart.DurationMonths, item.Quantity)
		item.DurationMonths = cart.DurationMonths
		item.CoefficientUsed = coefficient
		item.CalculatedMonthlyPriceHT = monthly
		item.CalculatedPriceHT = total
		if err := cartRepo.UpdateItem(item); err != nil {
			return err
		}
	}
	return nil
}

func currentCart(c *fiber.Ctx) (*models.Cart, error) {
	userCtx := usercontext.GetUserContext(c)
	return repository.GetGlobalFactory().GetCartRepository().
		GetOrCreateByUser(userCtx.UserID, userCtx.OrganizationID)
}

func cartResponse(c *fiber.Ctx, cart *models.Cart) error {
	var monthlyTotal, grandTotal float64
	for _, item := range cart.Items {
		monthlyTotal += item.CalculatedMonthlyPriceHT * float64(item.Quantity)
		grandTotal += item.CalculatedPriceHT
	}
	return c.JSON(fiber.Map{
		"cart":              cart,
		"monthly_total_ht":  monthlyTotal,
		"monthly_total_ttc": leasing.MonthlyTTC(monthlyTotal),
		"total_ht":          grandTotal,
		"total_cost_ht":     leasing.TotalCost(monthlyTotal, cart.DurationMonths),
	})
}

// HandleCartGet returns the current cart with up-to-date pricing.
func HandleCartGet(c *fiber.Ctx) error {
	cart, err := currentCart(c)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load cart")
	}
	return cartResponse(c, cart)
}

// HandleCartAddItem adds a product line to the cart and prices it.
func HandleCartAddItem(c *fiber.Ctx) error {
	var req cartAddRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	product, err := repository.GetGlobalFactory().GetProductRepository().GetByID(req.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Product not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load product")
	}
	if !product.IsActive {
		return jsonError(c, fiber.StatusUnprocessableEntity, "unprocessable", "Product is not available")
	}

	cart, err := currentCart(c)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load cart")
	}

	cartRepo := repository.GetGlobalFactory().GetCartRepository()

	// Same product twice bumps the quantity instead of adding a second line.
	for i := range cart.Items {
		if cart.Items[i].ProductID == product.ID {
			cart.Items[i].Quantity += req.Quantity
			cart.Items[i].Product = product
			engine := leasing.NewEngineFromDB(database.GetDB())
			coefficient, monthly, total := priceCartItem(engine, product, cart.DurationMonths, cart.Items[i].Quantity)
			cart.Items[i].CoefficientUsed = coefficient
			cart.Items[i].CalculatedMonthlyPriceHT = monthly
			cart.Items[i].CalculatedPriceHT = total
			if err := cartRepo.UpdateItem(&cart.Items[i]); err != nil {
				return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update cart")
			}
			return cartResponse(c, cart)
		}
	}

	engine := leasing.NewEngineFromDB(database.GetDB())
	coefficient, monthly, total := priceCartItem(engine, product, cart.DurationMonths, req.Quantity)
	item := models.CartItem{
		CartID:                   cart.ID,
		ProductID:                product.ID,
		Quantity:                 req.Quantity,
		DurationMonths:           cart.DurationMonths,
		CoefficientUsed:          coefficient,
		CalculatedMonthlyPriceHT: monthly,
		CalculatedPriceHT:        total,
	}
	if err := cartRepo.AddItem(&item); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to add item")
	}
	item.Product = product
	cart.Items = append(cart.Items, item)
	return cartResponse(c, cart)
}

// HandleCartUpdateItem changes the quantity of one cart line.
func HandleCartUpdateItem(c *fiber.Ctx) error {
	itemID, err := parseIDParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
	}
	var req cartUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if req.Quantity < 1 {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "quantity must be at least 1")
	}

	cart, err := currentCart(c)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load cart")
	}

	cartRepo := repository.GetGlobalFactory().GetCartRepository()
	item, err := cartRepo.GetItem(itemID)
	if err != nil || item.CartID != cart.ID {
		return jsonError(c, fiber.StatusNotFound, "not_found", "Cart item not found")
	}

	item.Quantity = req.Quantity
	if item.Product != nil {
		engine := leasing.NewEngineFromDB(database.GetDB())
		coefficient, monthly, total := priceCartItem(engine, item.Product, cart.DurationMonths, item.Quantity)
		item.CoefficientUsed = coefficient
		item.CalculatedMonthlyPriceHT = monthly
		item.CalculatedPriceHT = total
	}
	if err := cartRepo.UpdateItem(item); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update item")
	}

	cart, err = currentCart(c)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load cart")
	}
	return cartResponse(c, cart)
}

// HandleCartRemoveItem removes one line from the cart.
func HandleCartRemoveItem(c *fiber.Ctx) error {
	itemID, err := parseIDParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
	}
	cart, err := currentCart(c)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load cart")
	}
	cartRepo := repository.GetGlobalFactory().GetCartRepository()
	item, err := cartRepo.GetItem(itemID)
	if err != nil || item.CartID != cart.ID {
		return jsonError(c, fiber.StatusNotFound, "not_found", "Cart item not found")
	}
	if err := cartRepo.RemoveItem(itemID); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to remove item")
	}

	cart, err = currentCart(c)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load cart")
	}
	return cartResponse(c, cart)
}

// HandleCartSetDuration changes the leasing duration for the whole cart and
// reprices every line.
func HandleCartSetDuration(c *fiber.Ctx) error {
	var req cartDurationRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	duration, err := repository.GetGlobalFactory().GetLeaserRepository().GetDurationByMonths(req.DurationMonths)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusBadRequest, "bad_request", "Unknown leasing duration")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load duration")
	}
	if !duration.IsActive {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Leasing duration is not offered")
	}

	cart, err := currentCart(c)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load cart")
	}

	cartRepo := repository.GetGlobalFactory().GetCartRepository()
	if err := cartRepo.SetDuration(cart.ID, duration.Months); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update cart")
	}
	cart.DurationMonths = duration.Months
	if err := repriceCart(cart); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to reprice cart")
	}
	return cartResponse(c, cart)
}

// HandleCartClear removes every item from the cart.
func HandleCartClear(c *fiber.Ctx) error {
	cart, err := currentCart(c)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load cart")
	}
	if err := repository.GetGlobalFactory().GetCartRepository().Clear(cart.ID); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to clear cart")
	}
	cart.Items = nil
	return cartResponse(c, cart)
}
