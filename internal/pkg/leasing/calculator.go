package leasing

// SellingPrice returns purchase price plus the platform margin, excl. tax.
func SellingPrice(purchasePriceHT, marginPercent float64) float64 {
	return purchasePriceHT * (1 + marginPercent/100)
}

// MonthlyPrice converts a selling price into the monthly lease payment.
// The coefficient is a percentage (3.5 means 3.5%).
func MonthlyPrice(sellingPriceHT, coefficient float64) float64 {
	return sellingPriceHT * coefficient / 100
}

// MonthlyTTC applies the fixed VAT to a monthly payment.
func MonthlyTTC(monthlyPriceHT float64) float64 {
	return monthlyPriceHT * (1 + VATRate)
}

// LineTotal is the persisted total for one order/cart line: the monthly
// payment multiplied by the quantity.
func LineTotal(monthlyPriceHT float64, quantity int) float64 {
	return monthlyPriceHT * float64(quantity)
}

// TotalCost is the full cost of the lease over its duration, used for
// display only.
func TotalCost(monthlyPriceHT float64, durationMonths int) float64 {
	return monthlyPriceHT * float64(durationMonths)
}
