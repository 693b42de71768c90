package domain

import "github.com/shopspring/decimal"

// Line is one cart entry: a product+variant+purchase-mode combination and a
// quantity. The same product+variant may appear twice when one line is a
// subscription and the other is one-time.
type Line struct {
	ProductID    string          `json:"productId"`
	VariantID    string          `json:"variantId"`
	Name         string          `json:"name"`
	VariantTitle string          `json:"variantTitle,omitempty"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	Quantity     int             `json:"quantity"`
	MaxQuantity  int             `json:"maxQuantity,omitempty"`
	ImageURL     string          `json:"imageUrl,omitempty"`
	Subscription *Subscription   `json:"subscription,omitempty"`
}

// Subscription describes the recurring-purchase choice attached to a line.
// Properties are forwarded opaquely to the billing add-on; nothing here is
// validated against a server-side plan catalog at add time.
type Subscription struct {
	DiscountPercent int               `json:"discount"`
	Interval        int               `json:"interval"`
	IntervalUnit    string            `json:"intervalUnit"`
	CorrelationID   string            `json:"subscriptionId,omitempty"`
	SellingPlanID   string            `json:"sellingPlan,omitempty"`
	Properties      map[string]string `json:"properties,omitempty"`
}

// Total is the line's extended price before any subscription discount.
func (l Line) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// SameSubscription reports whether the line's purchase mode matches the
// given subscription discriminator: both one-time, or both subscriptions on
// the same delivery interval.
func (l Line) SameSubscription(sub *Subscription) bool {
	if l.Subscription == nil && sub == nil {
		return true
	}
	if l.Subscription == nil || sub == nil {
		return false
	}
	return l.Subscription.Interval == sub.Interval &&
		l.Subscription.IntervalUnit == sub.IntervalUnit
}
