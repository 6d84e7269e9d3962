package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/marlon-leasing/marlon/app/models"
	"github.com/marlon-leasing/marlon/app/repository"
	"github.com/marlon-leasing/marlon/internal/pkg/database"
	"github.com/marlon-leasing/marlon/internal/pkg/leasing"
	"github.com/marlon-leasing/marlon/internal/pkg/storage"
	"github.com/marlon-leasing/marlon/internal/pkg/usercontext"
)

type adminOrderUpdateRequest struct {
	LeaserID              *uint `json:"leaser_id"`
	LeasingDurationMonths *int  `json:"leasing_duration_months"`
}

type adminOrderStatusRequest struct {
	Status string `json:"status"`
}

type adminOrderOverrideRequest struct {
	OverridePurchasePriceHT *float64 `json:"override_purchase_price_ht"`
	OverrideCaMarlonHT      *float64 `json:"override_ca_marlon_ht"`
	OverrideMonthlyTTC      *float64 `json:"override_monthly_ttc"`
}

// HandleAdminOrderList returns a page of all orders.
func HandleAdminOrderList(c *fiber.Ctx) error {
	offset, limit := paginationParams(c)
	orderRepo := repository.GetGlobalFactory().GetOrderRepository()
	orders, err := orderRepo.List(offset, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load orders")
	}
	total, err := orderRepo.Count()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to count orders")
	}
	return c.JSON(fiber.Map{"orders": orders, "total": total})
}

// HandleAdminOrderDetail returns one order with its audit trail.
func HandleAdminOrderDetail(c *fiber.Ctx) error {
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
	}
	orderRepo := repository.GetGlobalFactory().GetOrderRepository()
	order, err := orderRepo.GetByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Order not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load order")
	}

	history, _ := orderRepo.ListStatusHistory(order.ID)
	logs, _ := orderRepo.ListLogs(order.ID)
	tracking, err := orderRepo.GetTracking(order.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load tracking")
	}

	return c.JSON(fiber.Map{
		"order":    order,
		"history":  history,
		"logs":     logs,
		"tracking": tracking,
	})
}

// HandleAdminOrderUpdate changes the financing context (leaser, duration) of
// an editable order and reprices every item in strict mode. When no tier
// covers the order amount the change is rejected and nothing is written.
func HandleAdminOrderUpdate(c *fiber.Ctx) error {
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
	}
	var req adminOrderUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	orderRepo := repository.GetGlobalFactory().GetOrderRepository()
	order, err := orderRepo.GetByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Order not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load order")
	}
	if !order.IsEditable() {
		return jsonError(c, fiber.StatusUnprocessableEntity, "not_editable", "Order is delivered or cancelled")
	}

	leaserID := order.LeaserID
	if req.LeaserID != nil {
		leaserID = req.LeaserID
	}
	months := order.LeasingDurationMonths
	if req.LeasingDurationMonths != nil {
		months = *req.LeasingDurationMonths
	}
	if leaserID == nil || *leaserID == 0 {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Order needs a leaser")
	}

	lines := make([]leasing.LineItem, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, leasing.LineItem{
			ProductID:       item.ProductID,
			PurchasePriceHT: item.PurchasePriceHT,
			MarginPercent:   item.MarginPercent,
			Quantity:        item.Quantity,
		})
	}

	engine := leasing.NewEngineFromDB(database.GetDB())
	priced, total, err := engine.Recalculate(lines, *leaserID, months)
	if err != nil {
		if errors.Is(err, leasing.ErrTierNotFound) {
			return jsonError(c, fiber.StatusBadRequest, "no_coefficient",
				"No coefficient tier covers the order amount for this leaser and duration")
		}
		if errors.Is(err, leasing.ErrNoItems) {
			return jsonError(c, fiber.StatusUnprocessableEntity, "unprocessable", "Order has no items")
		}
		log.Errorf("[AdminOrder] repricing order %d failed: %v", order.ID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Repricing failed")
	}

	for i := range order.Items {
		if err := orderRepo.UpdateItemPricing(order.Items[i].ID, priced[i].Coefficient, priced[i].CalculatedPriceHT); err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to store prices")
		}
		order.Items[i].CoefficientUsed = priced[i].Coefficient
		order.Items[i].CalculatedPriceHT = priced[i].CalculatedPriceHT
	}

	order.LeaserID = leaserID
	order.LeasingDurationMonths = months
	order.TotalAmountHT = total
	if err := orderRepo.Update(order); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update order")
	}

	adminID := usercontext.GetUserID(c)
	meta, _ := json.Marshal(fiber.Map{"leaser_id": leaserID, "duration_months": months, "total_amount_ht": total})
	models.CreateOrderLog(database.GetDB(), order.ID, models.ORDER_LOG_PRICES_UPDATED,
		"Financing context changed, order repriced", string(meta), &adminID)

	return c.JSON(order)
}

// HandleAdminOrderStatus moves an order to a new status. Cancelling an order
// deletes its items; the status history stays.
func HandleAdminOrderStatus(c *fiber.Ctx) error {
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
	}
	var req adminOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if !models.IsValidOrderStatus(req.Status) {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", fmt.Sprintf("Unknown status %q", req.Status))
	}

	orderRepo := repository.GetGlobalFactory().GetOrderRepository()
	order, err := orderRepo.GetByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Order not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load order")
	}
	if models.IsTerminalOrderStatus(order.Status) {
		return jsonError(c, fiber.StatusUnprocessableEntity, "not_editable", "Order is delivered or cancelled")
	}
	if req.Status == order.Status {
		return c.JSON(order)
	}

	adminID := usercontext.GetUserID(c)
	previous := order.Status
	if err := orderRepo.ChangeStatus(order, req.Status, adminID); err != nil {
		log.Errorf("[AdminOrder] status change for order %d failed: %v", order.ID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to change status")
	}

	meta, _ := json.Marshal(fiber.Map{"from": previous, "to": req.Status})
	models.CreateOrderLog(database.GetDB(), order.ID, models.ORDER_LOG_STATUS_CHANGED,
		fmt.Sprintf("Status changed from %s to %s", previous, req.Status), string(meta), &adminID)

	updated, err := orderRepo.GetByID(order.ID)
	if err != nil {
		return c.JSON(order)
	}
	return c.JSON(updated)
}

// HandleAdminOrderOverrides patches the display-only summary overrides. The
// computed item prices are never touched.
func HandleAdminOrderOverrides(c *fiber.Ctx) error {
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
	}
	var req adminOrderOverrideRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	orderRepo := repository.GetGlobalFactory().GetOrderRepository()
	order, err := orderRepo.GetByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Order not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load order")
	}
	if !order.IsEditable() {
		return jsonError(c, fiber.StatusUnprocessableEntity, "not_editable", "Order is delivered or cancelled")
	}

	if req.OverridePurchasePriceHT != nil {
		order.OverridePurchasePriceHT = req.OverridePurchasePriceHT
	}
	if req.OverrideCaMarlonHT != nil {
		order.OverrideCaMarlonHT = req.OverrideCaMarlonHT
	}
	if req.OverrideMonthlyTTC != nil {
		order.OverrideMonthlyTTC = req.OverrideMonthlyTTC
	}
	if err := orderRepo.Update(order); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update order")
	}

	adminID := usercontext.GetUserID(c)
	meta, _ := json.Marshal(req)
	models.CreateOrderLog(database.GetDB(), order.ID, models.ORDER_LOG_UPDATED,
		"Summary overrides changed", string(meta), &adminID)

	return c.JSON(order)
}

// document types accepted on the upload endpoint, mapped to the tracking
// field they fill.
var orderDocumentTypes = map[string]bool{
	"identity_card_front": true,
	"identity_card_back":  true,
	"tax_bundle":          true,
	"business_plan":       true,
	"contract":            true,
}

// HandleAdminOrderDocumentUpload stores an order document on S3 and records
// its URL on the tracking record. Uploading a contract moves the order to
// contract_uploaded when it is still earlier in the progression.
func HandleAdminOrderDocumentUpload(c *fiber.Ctx) error {
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
	}
	docType := c.Params("doc_type")
	if !orderDocumentTypes[docType] {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", fmt.Sprintf("Unknown document type %q", docType))
	}

	orderRepo := repository.GetGlobalFactory().GetOrderRepository()
	order, err := orderRepo.GetByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Order not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load order")
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
	data, err := io.ReadAll(file)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to read upload")
	}

	objectKey := client.Config().DocumentKey(order.ID, docType, fileHeader.Filename)
	url, err := client.Upload(c.Context(), objectKey, data)
	if err != nil {
		log.Errorf("[AdminOrder] document upload for order %d failed: %v", order.ID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Upload failed")
	}

	tracking, err := orderRepo.GetTracking(order.ID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load tracking")
		}
		tracking = &models.OrderTracking{OrderID: order.ID}
	}
	switch docType {
	case "identity_card_front":
		tracking.IdentityCardFrontURL = url
	case "identity_card_back":
		tracking.IdentityCardBackURL = url
	case "tax_bundle":
		tracking.TaxBundleURL = url
	case "business_plan":
		tracking.BusinessPlanURL = url
	case "contract":
		tracking.ContractURL = url
	}
	if err := orderRepo.SaveTracking(tracking); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to store document URL")
	}

	adminID := usercontext.GetUserID(c)
	meta, _ := json.Marshal(fiber.Map{"doc_type": docType, "url": url})
	models.CreateOrderLog(database.GetDB(), order.ID, models.ORDER_LOG_DOCUMENT_ADDED,
		fmt.Sprintf("Document %s uploaded", docType), string(meta), &adminID)

	if docType == "contract" && order.IsEditable() &&
		models.OrderStatusRank(order.Status) < models.OrderStatusRank(models.ORDER_STATUS_CONTRACT_UPLOADED) {
		if err := orderRepo.ChangeStatus(order, models.ORDER_STATUS_CONTRACT_UPLOADED, adminID); err != nil {
			log.Warnf("[AdminOrder] auto status move for order %d failed: %v", order.ID, err)
		}
	}

	return c.JSON(fiber.Map{"url": url, "tracking": tracking})
}
