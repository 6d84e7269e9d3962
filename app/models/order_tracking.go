package models

import "time"

const (
	TRACKING_PENDING    = "pending"
	TRACKING_VALIDATED  = "validated"
	TRACKING_SIGNED     = "signed"
	TRACKING_IN_TRANSIT = "in_transit"
	TRACKING_DELIVERED  = "delivered"
)

// OrderTracking carries the financing/contract/delivery sub-statuses shown
// on the back-office timeline, plus the document URLs collected at checkout.
type OrderTracking struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	OrderID         uint      `gorm:"not null;uniqueIndex" json:"order_id"`
	FinancingStatus string    `gorm:"type:varchar(50);default:'pending'" json:"financing_status"`
	ContractStatus  string    `gorm:"type:varchar(50);default:'pending'" json:"contract_status"`
	DeliveryStatus  string    `gorm:"type:varchar(50);default:'pending'" json:"delivery_status"`

	IdentityCardFrontURL string `gorm:"type:varchar(255)" json:"identity_card_front_url"`
	IdentityCardBackURL  string `gorm:"type:varchar(255)" json:"identity_card_back_url"`
	TaxBundleURL         string `gorm:"type:varchar(255)" json:"tax_bundle_url"`
	BusinessPlanURL      string `gorm:"type:varchar(255)" json:"business_plan_url"`
	ContractURL          string `gorm:"type:varchar(255)" json:"contract_url"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// SyncFromOrderStatus derives the tracking sub-statuses from an order status
// move. Cancelled orders keep their tracking as-is.
func (t *OrderTracking) SyncFromOrderStatus(status string) {
	if status == ORDER_STATUS_CANCELLED {
		return
	}
	rank := OrderStatusRank(status)
	if status == ORDER_STATUS_DRAFT || status == ORDER_STATUS_PENDING {
		t.FinancingStatus = TRACKING_PENDING
		t.ContractStatus = TRACKING_PENDING
		t.DeliveryStatus = TRACKING_PENDING
		return
	}
	if rank >= OrderStatusRank(ORDER_STATUS_SENT_TO_LEASER) && t.FinancingStatus == TRACKING_PENDING {
		t.FinancingStatus = TRACKING_VALIDATED
	}
	if rank >= OrderStatusRank(ORDER_STATUS_CONTRACT_UPLOADED) && t.ContractStatus == TRACKING_PENDING {
		t.ContractStatus = TRACKING_SIGNED
	}
	switch status {
	case ORDER_STATUS_SHIPPED:
		t.DeliveryStatus = TRACKING_IN_TRANSIT
	case ORDER_STATUS_DELIVERED:
		t.DeliveryStatus = TRACKING_DELIVERED
	}
}
