package checkout

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"plantfoods-storefront/internal/catalog"
	"plantfoods-storefront/internal/domain"
)

// Field is one ordered form field of the hand-off post.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Handoff describes the two posts to the external checkout domain: clear
// the hosted cart, then add every line and navigate. The storefront never
// waits for a response; the browser navigation is the completion signal.
type Handoff struct {
	ClearAction string  `json:"clearAction"`
	AddAction   string  `json:"addAction"`
	Fields      []Field `json:"fields"`
}

// Build serializes cart lines into the checkout domain's form contract.
// Variant ids are stripped to their numeric form; lines whose id cannot be
// reduced to a number (the static fallback dataset) are skipped and logged.
// Subscription lines carry the billing add-on's property set; the selling
// plan reference is attached only when a previously fetched plan matches,
// and a miss silently leaves the item marked by properties alone.
func Build(checkoutDomain string, lines []domain.Line, plans []domain.SellingPlan, discountCode string, logger *log.Logger) Handoff {
	h := Handoff{
		ClearAction: checkoutDomain + "/cart/clear",
		AddAction:   checkoutDomain + "/cart/add",
	}

	hasSubscription := false
	idx := 0
	for _, line := range lines {
		variantID, err := catalog.NumericID(line.VariantID)
		if err != nil {
			logger.Printf("skipping checkout line %q: %v", line.Name, err)
			continue
		}

		h.add(itemField(idx, "id"), variantID)
		h.add(itemField(idx, "quantity"), strconv.Itoa(line.Quantity))

		if sub := line.Subscription; sub != nil {
			hasSubscription = true
			h.appendSubscription(idx, line, sub, plans)
		}
		idx++
	}

	h.add("return_to", "/checkout")
	if discountCode != "" && !hasSubscription {
		h.add("discount", discountCode)
	}
	return h
}

func (h *Handoff) appendSubscription(idx int, line domain.Line, sub *domain.Subscription, plans []domain.SellingPlan) {
	percent := sub.DiscountPercent
	if percent <= 0 {
		percent = 15
	}
	discounted := line.UnitPrice.Mul(decimal.NewFromInt(int64(100 - percent))).Div(decimal.NewFromInt(100)).Round(2)

	h.add(propField(idx, "subscription_price"), discounted.StringFixed(2))
	h.add(propField(idx, "discount_amount"), line.UnitPrice.Sub(discounted).StringFixed(2))
	h.add(propField(idx, "discount_type"), "percentage")

	if planID := matchPlan(plans, sub); planID != "" {
		h.add(itemField(idx, "selling_plan"), planID)
	}

	interval := strconv.Itoa(sub.Interval)
	unit := sub.IntervalUnit
	if unit == "" {
		unit = "month"
	}
	h.add(propField(idx, "shipping_interval_frequency"), interval)
	h.add(propField(idx, "shipping_interval_unit_type"), unit)
	h.add(propField(idx, "order_interval_frequency"), interval)
	h.add(propField(idx, "order_interval_unit"), unit)
	h.add(propField(idx, "charge_interval_frequency"), interval)
	h.add(propField(idx, "discount_percentage"), strconv.Itoa(percent))
	h.add(propField(idx, "_rc_widget"), "1")

	correlation := sub.CorrelationID
	if correlation == "" {
		correlation = "sub_" + uuid.NewString()
	}
	h.add(propField(idx, "subscription_id"), correlation)

	// Extra properties ride along opaquely.
	for k, v := range sub.Properties {
		h.add(propField(idx, k), v)
	}
}

// matchPlan finds a selling plan for the subscription by best-effort name
// match against previously fetched descriptors. Plan ids are reduced to
// their numeric form for the checkout domain.
func matchPlan(plans []domain.SellingPlan, sub *domain.Subscription) string {
	if sub.SellingPlanID != "" {
		if id, err := catalog.NumericID(sub.SellingPlanID); err == nil {
			return id
		}
	}

	needle := fmt.Sprintf("every %d %s", sub.Interval, strings.TrimSuffix(sub.IntervalUnit, "s"))
	for _, plan := range plans {
		if plan.Interval == sub.Interval && strings.TrimSuffix(plan.IntervalUnit, "s") == strings.TrimSuffix(sub.IntervalUnit, "s") {
			if id, err := catalog.NumericID(plan.ID); err == nil {
				return id
			}
		}
		if strings.Contains(strings.ToLower(plan.Name), needle) {
			if id, err := catalog.NumericID(plan.ID); err == nil {
				return id
			}
		}
	}
	return ""
}

func (h *Handoff) add(name, value string) {
	h.Fields = append(h.Fields, Field{Name: name, Value: value})
}

func itemField(idx int, name string) string {
	return fmt.Sprintf("items[%d][%s]", idx, name)
}

func propField(idx int, name string) string {
	return fmt.Sprintf("items[%d][properties][%s]", idx, name)
}
