// Package pricing holds the cart/tax math. Everything here is pure:
// inputs in, numbers out, no store access. Totals keep full floating
// precision; rounding to 2 decimals happens only at display time
// (invoice/QR formatting), never mid-calculation.
package pricing

import "strconv"

// DefaultUOM is the pieces-per-carton fallback when a product carries
// no UOM or an unparseable one.
const DefaultUOM = 24

// Line is one cart position as the calculator sees it.
type Line struct {
	Price    float64 // unit price in PCS
	Quantity int     // PCS, >= 1
	Discount float64 // absolute currency amount, >= 0
}

// Totals is the result of summing a cart.
type Totals struct {
	Subtotal  float64
	VATAmount float64
	Total     float64
}

// LineNet is price*quantity minus the absolute discount. A discount
// larger than the gross yields a negative net; the finalizer rejects
// such lines rather than clamping them silently.
func LineNet(l Line) float64 {
	return l.Price*float64(l.Quantity) - l.Discount
}

// LineVAT applies the tax percentage to the net amount.
func LineVAT(l Line, vatPercent float64) float64 {
	return LineNet(l) * vatPercent / 100
}

// Calculate sums a cart: subtotal is the sum of line nets, VAT the sum
// of line VATs, total their sum. Sum first, round never.
func Calculate(lines []Line, vatPercent float64) Totals {
	var t Totals
	for _, l := range lines {
		net := LineNet(l)
		t.Subtotal += net
		t.VATAmount += net * vatPercent / 100
	}
	t.Total = t.Subtotal + t.VATAmount
	return t
}

// DiscountPercent derives the percentage for the invoice line from the
// absolute discount. Zero when the gross is zero.
func DiscountPercent(l Line) float64 {
	gross := l.Price * float64(l.Quantity)
	if gross == 0 {
		return 0
	}
	return l.Discount / gross * 100
}

// UOMSize parses a product's UOM string ("24", "60", ...) into the
// pieces-per-carton count, defaulting when missing or unparseable.
func UOMSize(uom string) int {
	n, err := strconv.Atoi(uom)
	if err != nil || n <= 0 {
		return DefaultUOM
	}
	return n
}

// Cartons decomposes a PCS quantity into whole cartons and loose
// pieces. Presentation only; pricing always runs on pieces.
func Cartons(quantity, uomSize int) (ctn, pcs int) {
	if uomSize <= 0 {
		uomSize = DefaultUOM
	}
	return quantity / uomSize, quantity % uomSize
}
