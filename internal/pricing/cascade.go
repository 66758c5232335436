package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/printdeskhq/printdesk-backend/pkg/enums"
)

// ApplyCascade folds the order-level adjustments in a fixed sequence: the
// discount applies to the subtotal, tax applies to the discounted subtotal,
// and shipping is added last untaxed. Each resulting amount is rounded to
// cents before it feeds the next step.
func ApplyCascade(in CascadeInput) CascadeResult {
	subtotal := in.Subtotal.Round(2)

	discount := adjustmentAmount(in.DiscountMode, in.DiscountValue, subtotal)

	taxBase := subtotal.Sub(discount)
	if taxBase.IsNegative() {
		taxBase = decimal.Zero
	}

	tax := adjustmentAmount(in.TaxMode, in.TaxValue, taxBase)

	shipping := in.Shipping.Round(2)
	if shipping.IsNegative() {
		shipping = decimal.Zero
	}

	total := taxBase.Add(tax).Add(shipping).Round(2)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return CascadeResult{
		Discount: discount,
		Tax:      tax,
		Shipping: shipping,
		Total:    total,
	}
}

func adjustmentAmount(mode enums.AdjustmentMode, value, base decimal.Decimal) decimal.Decimal {
	switch mode {
	case enums.AdjustmentModeFixed:
		amount := value.Round(2)
		if amount.IsNegative() {
			return decimal.Zero
		}
		return amount
	case enums.AdjustmentModePercent:
		pct := value
		if pct.IsNegative() {
			pct = decimal.Zero
		}
		if pct.GreaterThan(hundred) {
			pct = hundred
		}
		return base.Mul(pct).Div(hundred).Round(2)
	default:
		return decimal.Zero
	}
}
