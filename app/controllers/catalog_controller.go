package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/marlon-leasing/marlon/app/models"
	"github.com/marlon-leasing/marlon/app/repository"
	"github.com/marlon-leasing/marlon/internal/pkg/cache"
	"github.com/marlon-leasing/marlon/internal/pkg/database"
	"github.com/marlon-leasing/marlon/internal/pkg/leasing"
)

const (
	catalogQuoteCacheTTL = 15 * time.Minute
	// CatalogPriceCachePattern matches every cached catalog quote; invalidated
	// as a whole when a coefficient schedule changes.
	CatalogPriceCachePattern = "catalog:price:*"
)

func catalogQuoteCacheKey(productID uint, months int) string {
	return fmt.Sprintf("catalog:price:%d:%d", productID, months)
}

// buildQuote computes the display-mode quote for one product and duration.
func buildQuote(resolver *leasing.Resolver, product *models.Product, months int) leasing.Quote {
	selling := product.SellingPriceHT()
	var coefficient float64
	indicative := true
	if product.DefaultLeaserID != nil {
		coefficient, indicative = resolver.ResolveDisplay(*product.DefaultLeaserID, months, selling)
	} else {
		coefficient = leasing.DefaultCoefficient(months)
	}
	monthly := leasing.MonthlyPrice(selling, coefficient)
	return leasing.Quote{
		SellingPriceHT:  selling,
		Coefficient:     coefficient,
		MonthlyPriceHT:  monthly,
		MonthlyPriceTTC: leasing.MonthlyTTC(monthly),
		TotalCostHT:     leasing.TotalCost(monthly, months),
		DurationMonths:  months,
		Indicative:      indicative,
	}
}

// cachedQuote serves a quote from redis, computing and storing it on a miss.
func cachedQuote(resolver *leasing.Resolver, product *models.Product, months int) leasing.Quote {
	key := catalogQuoteCacheKey(product.ID, months)
	if raw, err := cache.Get(key); err == nil && raw != "" {
		var quote leasing.Quote
		if err := json.Unmarshal([]byte(raw), &quote); err == nil {
			return quote
		}
	}

	quote := buildQuote(resolver, product, months)
	if payload, err := json.Marshal(quote); err == nil {
		if err := cache.Set(key, payload, catalogQuoteCacheTTL); err != nil {
			log.Warnf("[Catalog] failed to cache quote %s: %v", key, err)
		}
	}
	return quote
}

// HandleCatalogList returns the active products with their best display rate
// across all offered durations.
func HandleCatalogList(c *fiber.Ctx) error {
	offset, limit := paginationParams(c)
	productRepo := repository.GetGlobalFactory().GetProductRepository()

	var products []models.Product
	var err error
	if query := c.Query("q"); query != "" {
		products, err = productRepo.Search(query)
	} else {
		products, err = productRepo.ListActive(offset, limit)
	}
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load products")
	}

	leaserRepo := repository.GetGlobalFactory().GetLeaserRepository()
	durations, err := leaserRepo.ListDurations()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load durations")
	}
	months := make([]int, 0, len(durations))
	for _, d := range durations {
		if d.IsActive {
			months = append(months, d.Months)
		}
	}

	resolver := leasing.NewResolverFromDB(database.GetDB())
	type listEntry struct {
		models.Product
		BestQuote leasing.Quote `json:"best_quote"`
	}
	entries := make([]listEntry, 0, len(products))
	for i := range products {
		p := products[i]
		entry := listEntry{Product: p}
		if p.DefaultLeaserID != nil && len(months) > 0 {
			bestMonths, _ := resolver.BestDisplayRate(*p.DefaultLeaserID, months, p.SellingPriceHT())
			entry.BestQuote = cachedQuote(resolver, &p, bestMonths)
		} else if len(months) > 0 {
			entry.BestQuote = cachedQuote(resolver, &p, months[len(months)-1])
		}
		entries = append(entries, entry)
	}

	return c.JSON(fiber.Map{
		"products": entries,
		"count":    len(entries),
	})
}

// HandleCatalogDetail returns one product with a quote per offered duration.
func HandleCatalogDetail(c *fiber.Ctx) error {
	slug := c.Params("slug")
	productRepo := repository.GetGlobalFactory().GetProductRepository()
	product, err := productRepo.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Product not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load product")
	}
	if !product.IsActive {
		return jsonError(c, fiber.StatusNotFound, "not_found", "Product not found")
	}

	durations, err := repository.GetGlobalFactory().GetLeaserRepository().ListDurations()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load durations")
	}

	resolver := leasing.NewResolverFromDB(database.GetDB())
	quotes := make([]leasing.Quote, 0, len(durations))
	for _, d := range durations {
		if !d.IsActive {
			continue
		}
		quotes = append(quotes, cachedQuote(resolver, product, d.Months))
	}

	return c.JSON(fiber.Map{
		"product": product,
		"quotes":  quotes,
	})
}

// HandleCatalogQuote prices one product for an explicit duration and
// optional quantity, without touching any cart.
func HandleCatalogQuote(c *fiber.Ctx) error {
	productID, err := parseIDParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
	}
	months := c.QueryInt("duration", 36)
	quantity := c.QueryInt("quantity", 1)
	if quantity < 1 {
		quantity = 1
	}

	product, err := repository.GetGlobalFactory().GetProductRepository().GetByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Product not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load product")
	}

	resolver := leasing.NewResolverFromDB(database.GetDB())
	quote := cachedQuote(resolver, product, months)

	return c.JSON(fiber.Map{
		"quote":         quote,
		"quantity":      quantity,
		"line_total_ht": leasing.LineTotal(quote.MonthlyPriceHT, quantity),
	})
}
