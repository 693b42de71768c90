package cart

import (
	"fmt"

	"github.com/shopspring/decimal"

	"plantfoods-storefront/internal/domain"
)

// Thresholds for the storefront's promotion ladder. Shipping is keyed on
// subtotal, bundle discounts on total item count; the two bundle tiers are
// mutually exclusive, highest first.
const (
	Bundle3Threshold = 3
	Bundle6Threshold = 6

	// SubscriptionDiscountPercent is the display discount for subscription
	// lines. It is cosmetic until the billing add-on confirms a plan at
	// checkout; the add-on owns the actually charged amount.
	SubscriptionDiscountPercent = 15
)

var (
	FreeShippingThreshold = decimal.NewFromInt(15)
	ShippingFee           = decimal.NewFromInt(5)
	Bundle3Discount       = decimal.NewFromInt(10)
	Bundle6Discount       = decimal.NewFromInt(15)
)

// ShippingCost returns the flat fee, waived at the free-shipping threshold.
func ShippingCost(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(FreeShippingThreshold) {
		return decimal.Zero
	}
	return ShippingFee
}

// BundleDiscount returns the fixed discount for the highest tier the item
// count reaches.
func BundleDiscount(count int) decimal.Decimal {
	switch {
	case count >= Bundle6Threshold:
		return Bundle6Discount
	case count >= Bundle3Threshold:
		return Bundle3Discount
	default:
		return decimal.Zero
	}
}

// BundleDiscountCode names the discount code forwarded to checkout for the
// reached tier; empty when no tier applies.
func BundleDiscountCode(count int) string {
	switch {
	case count >= Bundle6Threshold:
		return "BUNDLE15"
	case count >= Bundle3Threshold:
		return "BUNDLE10"
	default:
		return ""
	}
}

// SubscriptionPrice is the discounted unit price shown next to the
// struck-through original for subscription lines.
func SubscriptionPrice(unit decimal.Decimal, percent int) decimal.Decimal {
	if percent <= 0 {
		return unit
	}
	factor := decimal.NewFromInt(int64(100 - percent)).Div(decimal.NewFromInt(100))
	return unit.Mul(factor).Round(2)
}

// Summary is the displayed pricing breakdown. Subtotal deliberately ignores
// subscription discounts; those are applied by the billing add-on, never
// stored back into lines.
type Summary struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

// Summarize derives the full breakdown for a set of lines.
func Summarize(lines []domain.Line) Summary {
	subtotal := decimal.Zero
	count := 0
	for _, l := range lines {
		subtotal = subtotal.Add(l.Total())
		count += l.Quantity
	}
	shipping := ShippingCost(subtotal)
	discount := BundleDiscount(count)
	return Summary{
		Subtotal: subtotal,
		Shipping: shipping,
		Discount: discount,
		Total:    subtotal.Add(shipping).Sub(discount),
		Count:    count,
	}
}

// Progress describes the promotion ladder indicator: which reward is next
// and how far along a 0-100 bar the cart is. The bar is split into three
// equal bands, one per tier.
type Progress struct {
	Message string  `json:"message"`
	Percent float64 `json:"percent"`
}

const bandWidth = 100.0 / 3

// ProgressFor computes the indicator from the current subtotal and count.
func ProgressFor(subtotal decimal.Decimal, count int) Progress {
	switch {
	case subtotal.LessThan(FreeShippingThreshold):
		remaining := FreeShippingThreshold.Sub(subtotal)
		ratio, _ := subtotal.Div(FreeShippingThreshold).Float64()
		return Progress{
			Message: fmt.Sprintf("Add $%s more to get FREE SHIPPING!", remaining.StringFixed(2)),
			Percent: clampPercent(ratio * bandWidth),
		}
	case count < Bundle3Threshold:
		remaining := Bundle3Threshold - count
		return Progress{
			Message: fmt.Sprintf("Add %d more %s to receive $10 off!", remaining, plural(remaining, "product")),
			Percent: clampPercent(bandWidth + float64(count)/Bundle3Threshold*bandWidth),
		}
	case count < Bundle6Threshold:
		remaining := Bundle6Threshold - count
		return Progress{
			Message: fmt.Sprintf("Add %d more %s to get $15 off!", remaining, plural(remaining, "item")),
			Percent: clampPercent(2*bandWidth + float64(count-Bundle3Threshold)/(Bundle6Threshold-Bundle3Threshold)*bandWidth),
		}
	default:
		return Progress{Message: "You've unlocked all discounts!", Percent: 100}
	}
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
