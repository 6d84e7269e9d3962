package leasing

// VATRate is the fixed French VAT applied to monthly payments. There are no
// configurable tax rates.
const VATRate = 0.20

// LineItem is the pricing input shape shared by cart entries and order
// items: the purchase cost, the platform margin and the quantity of one
// product line.
type LineItem struct {
	ProductID       uint
	PurchasePriceHT float64
	MarginPercent   float64
	Quantity        int
}

// PricedItem is a LineItem with the resolved pricing attached.
// CalculatedPriceHT is the persisted line total (monthly price multiplied by
// quantity).
type PricedItem struct {
	LineItem
	Coefficient       float64
	MonthlyPriceHT    float64
	CalculatedPriceHT float64
}

// Quote is a display-mode price calculation for a single product, shown on
// catalog pages before any cart or order context exists. Indicative is true
// when a fallback coefficient was used because no tier covered the amount;
// an indicative quote must never be persisted onto a real order.
type Quote struct {
	SellingPriceHT  float64 `json:"selling_price_ht"`
	Coefficient     float64 `json:"coefficient"`
	MonthlyPriceHT  float64 `json:"monthly_price_ht"`
	MonthlyPriceTTC float64 `json:"monthly_price_ttc"`
	TotalCostHT     float64 `json:"total_cost_ht"`
	DurationMonths  int     `json:"duration_months"`
	Indicative      bool    `json:"indicative"`
}

// defaultCoefficients are the display-only fallback rates per duration,
// used to keep catalog browsing functional while a leaser's schedule is
// incomplete.
var defaultCoefficients = map[int]float64{
	24: 5.0,
	36: 3.8,
	48: 3.2,
	60: 2.8,
}

const fallbackCoefficient = 3.5

// DefaultCoefficient returns the display fallback rate for a duration.
func DefaultCoefficient(durationMonths int) float64 {
	if c, ok := defaultCoefficients[durationMonths]; ok {
		return c
	}
	return fallbackCoefficient
}
