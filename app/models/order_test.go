package models

import "testing"

func TestIsTerminalOrderStatus(t *testing.T) {
	for _, s := range []string{ORDER_STATUS_DELIVERED, ORDER_STATUS_CANCELLED} {
		if !IsTerminalOrderStatus(s) {
			t.Fatalf("expected %q to be terminal", s)
		}
	}
	for _, s := range []string{
		ORDER_STATUS_DRAFT,
		ORDER_STATUS_PENDING,
		ORDER_STATUS_SENT_TO_LEASER,
		ORDER_STATUS_LEASER_ACCEPTED,
		ORDER_STATUS_CONTRACT_UPLOADED,
		ORDER_STATUS_PROCESSING,
		ORDER_STATUS_SHIPPED,
	} {
		if IsTerminalOrderStatus(s) {
			t.Fatalf("expected %q to be non-terminal", s)
		}
	}
}

func TestIsValidOrderStatus(t *testing.T) {
	if !IsValidOrderStatus(ORDER_STATUS_CANCELLED) {
		t.Fatal("cancelled must be a valid status")
	}
	if IsValidOrderStatus("refunded") {
		t.Fatal("unknown status accepted")
	}
}

func TestOrderStatusRank(t *testing.T) {
	if OrderStatusRank(ORDER_STATUS_DRAFT) != 0 {
		t.Fatal("draft must rank first")
	}
	if OrderStatusRank(ORDER_STATUS_SHIPPED) <= OrderStatusRank(ORDER_STATUS_PROCESSING) {
		t.Fatal("shipped must rank after processing")
	}
	if OrderStatusRank(ORDER_STATUS_CANCELLED) != -1 {
		t.Fatal("cancelled has no rank in the forward progression")
	}
}

func TestTrackingSyncFromOrderStatus(t *testing.T) {
	tr := &OrderTracking{
		FinancingStatus: TRACKING_PENDING,
		ContractStatus:  TRACKING_PENDING,
		DeliveryStatus:  TRACKING_PENDING,
	}

	tr.SyncFromOrderStatus(ORDER_STATUS_SENT_TO_LEASER)
	if tr.FinancingStatus != TRACKING_VALIDATED {
		t.Fatalf("financing = %q, want validated", tr.FinancingStatus)
	}
	if tr.ContractStatus != TRACKING_PENDING {
		t.Fatalf("contract = %q, want pending", tr.ContractStatus)
	}

	tr.SyncFromOrderStatus(ORDER_STATUS_DELIVERED)
	if tr.DeliveryStatus != TRACKING_DELIVERED {
		t.Fatalf("delivery = %q, want delivered", tr.DeliveryStatus)
	}

	// Cancellation leaves the tracking as-is.
	before := *tr
	tr.SyncFromOrderStatus(ORDER_STATUS_CANCELLED)
	if *tr != before {
		t.Fatal("cancelled must not change tracking")
	}
}

func TestCoefficientCovers(t *testing.T) {
	bounded := LeaserCoefficient{MinAmount: 0, MaxAmount: ptrF(5000)}
	if !bounded.Covers(0) || !bounded.Covers(5000) {
		t.Fatal("range edges are inclusive")
	}
	if bounded.Covers(5000.01) {
		t.Fatal("amount past upper edge must not be covered")
	}

	unbounded := LeaserCoefficient{MinAmount: 10000, MaxAmount: nil}
	if !unbounded.Covers(1e9) {
		t.Fatal("unbounded range must cover any large amount")
	}
	if unbounded.Covers(9999.99) {
		t.Fatal("amount below min must not be covered")
	}
}

func ptrF(v float64) *float64 { return &v }
