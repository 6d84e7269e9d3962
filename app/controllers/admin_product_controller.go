package controllers

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/disintegration/imaging"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/marlon-leasing/marlon/app/models"
	"github.com/marlon-leasing/marlon/app/repository"
	"github.com/marlon-leasing/marlon/internal/pkg/cache"
	"github.com/marlon-leasing/marlon/internal/pkg/database"
	"github.com/marlon-leasing/marlon/internal/pkg/leasing"
	"github.com/marlon-leasing/marlon/internal/pkg/storage"
)

const productThumbnailSize = 400

type productRequest struct {
	Name            string  `json:"name"`
	Reference       string  `json:"reference"`
	Description     string  `json:"description"`
	BrandID         *uint   `json:"brand_id"`
	CategoryID      *uint   `json:"category_id"`
	PurchasePriceHT float64 `json:"purchase_price_ht"`
	MarginPercent   float64 `json:"margin_percent"`
	DefaultLeaserID *uint   `json:"default_leaser_id"`
	IsActive        *bool   `json:"is_active"`
}

// slugify turns a product name into a URL slug.
func slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.Trim(b.String(), "-")
}

func applyProductRequest(product *models.Product, req *productRequest) {
	product.Name = req.Name
	product.Reference = req.Reference
	product.Description = req.Description
	product.BrandID = req.BrandID
	product.CategoryID = req.CategoryID
	product.PurchasePriceHT = req.PurchasePriceHT
	product.MarginPercent = req.MarginPercent
	product.DefaultLeaserID = req.DefaultLeaserID
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
}

// invalidateProductQuotes drops the cached catalog quotes of one product.
func invalidateProductQuotes(productID uint) {
	pattern := fmt.Sprintf("catalog:price:%d:*", productID)
	if err := cache.DeleteByPattern(pattern); err != nil {
		log.Warnf("[AdminProduct] quote cache invalidation for product %d failed: %v", productID, err)
	}
}

// HandleAdminProductList returns a page of all products, inactive ones
// included.
func HandleAdminProductList(c *fiber.Ctx) error {
	offset, limit := paginationParams(c)
	productRepo := repository.GetGlobalFactory().GetProductRepository()
	products, err := productRepo.List(offset, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load products")
	}
	total, err := productRepo.Count()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to count products")
	}
	return c.JSON(fiber.Map{"products": products, "total": total})
}

// HandleAdminProductCreate creates a product.
func HandleAdminProductCreate(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	product := models.Product{Slug: slugify(req.Name), IsActive: true}
	applyProductRequest(&product, &req)
	if err := product.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", err.Error())
	}
	if err := repository.GetGlobalFactory().GetProductRepository().Create(&product); err != nil {
		return jsonError(c, fiber.StatusConflict, "conflict", "Product slug already exists")
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleAdminProductUpdate updates a product and drops its cached quotes.
func HandleAdminProductUpdate(c *fiber.Ctx) error {
	productID, err := parseIDParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
	}
	productRepo := repository.GetGlobalFactory().GetProductRepository()
	product, err := productRepo.GetByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Product not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load product")
	}

	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	applyProductRequest(product, &req)
	if err := product.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", err.Error())
	}
	if err := productRepo.Update(product); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update product")
	}
	invalidateProductQuotes(product.ID)
	return c.JSON(product)
}

// HandleAdminProductDelete removes a product and its images.
func HandleAdminProductDelete(c *fiber.Ctx) error {
	productID, err := parseIDParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
	}
	if err := repository.GetGlobalFactory().GetProductRepository().Delete(productID); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to delete product")
	}
	invalidateProductQuotes(productID)
	return c.JSON(fiber.Map{"deleted": productID})
}

// HandleAdminProductPreview prices purchase price and margin inputs across
// all durations without saving anything, for the product form.
func HandleAdminProductPreview(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	durations, err := repository.GetGlobalFactory().GetLeaserRepository().ListDurations()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load durations")
	}

	resolver := leasing.NewResolverFromDB(database.GetDB())
	selling := leasing.SellingPrice(req.PurchasePriceHT, req.MarginPercent)
	quotes := make([]leasing.Quote, 0, len(durations))
	for _, d := range durations {
		if !d.IsActive {
			continue
		}
		var coefficient float64
		indicative := true
		if req.DefaultLeaserID != nil {
			coefficient, indicative = resolver.ResolveDisplay(*req.DefaultLeaserID, d.Months, selling)
		} else {
			coefficient = leasing.DefaultCoefficient(d.Months)
		}
		monthly := leasing.MonthlyPrice(selling, coefficient)
		quotes = append(quotes, leasing.Quote{
			SellingPriceHT:  selling,
			Coefficient:     coefficient,
			MonthlyPriceHT:  monthly,
			MonthlyPriceTTC: leasing.MonthlyTTC(monthly),
			TotalCostHT:     leasing.TotalCost(monthly, d.Months),
			DurationMonths:  d.Months,
			Indicative:      indicative,
		})
	}

	return c.JSON(fiber.Map{"selling_price_ht": selling, "quotes": quotes})
}

// HandleAdminProductImageUpload stores a product image and a generated
// thumbnail on S3.
func HandleAdminProductImageUpload(c *fiber.Ctx) error {
	productID, err := parseIDParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
	}
	productRepo := repository.GetGlobalFactory().GetProductRepository()
	product, err := productRepo.GetByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Product not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load product")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Missing file upload")
	}
	client := storage.GetClient()
	if client == nil {
		return jsonError(c, fiber.StatusServiceUnavailable, "storage_unavailable", "Object storage is not configured")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Unreadable file upload")
	}
	defer file.Close()

	img, err := imaging.Decode(file, imaging.AutoOrientation(true))
	if err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "unprocessable", "File is not a supported image")
	}

	var original bytes.Buffer
	if err := imaging.Encode(&original, img, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Image encoding failed")
	}
	thumb := imaging.Fit(img, productThumbnailSize, productThumbnailSize, imaging.Lanczos)
	var thumbnail bytes.Buffer
	if err := imaging.Encode(&thumbnail, thumb, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Thumbnail encoding failed")
	}

	baseKey := client.Config().ProductImageKey(product.ID, slugify(fileHeader.Filename)+".jpg")
	imageURL, err := client.Upload(c.Context(), baseKey, original.Bytes())
	if err != nil {
		log.Errorf("[AdminProduct] image upload for product %d failed: %v", product.ID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Upload failed")
	}
	thumbKey := strings.TrimSuffix(baseKey, ".jpg") + "_thumb.jpg"
	thumbnailURL, err := client.Upload(c.Context(), thumbKey, thumbnail.Bytes())
	if err != nil {
		log.Warnf("[AdminProduct] thumbnail upload for product %d failed: %v", product.ID, err)
		thumbnailURL = imageURL
	}

	image := models.ProductImage{
		ProductID:    product.ID,
		ImageURL:     imageURL,
		ThumbnailURL: thumbnailURL,
		OrderIndex:   len(product.Images),
	}
	if err := productRepo.AddImage(&image); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to store image")
	}
	return c.Status(fiber.StatusCreated).JSON(image)
}
