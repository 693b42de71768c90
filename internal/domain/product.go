package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the view model mapped from a catalog API product node. It is
// immutable once mapped and discarded on navigation.
type Product struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Handle      string          `json:"handle"`
	ProductType string          `json:"productType,omitempty"`
	Vendor      string          `json:"vendor,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
	MinPrice    decimal.Decimal `json:"minPrice"`
	MaxPrice    decimal.Decimal `json:"maxPrice"`
	Currency    string          `json:"currency"`
	Images      []Image         `json:"images,omitempty"`
	Variants    []Variant       `json:"variants"`
	CreatedAt   time.Time       `json:"createdAt,omitempty"`
	UpdatedAt   time.Time       `json:"updatedAt,omitempty"`
}

// Variant is a purchasable option of a product. A Product exclusively owns
// its Variants for the lifetime of the page view.
type Variant struct {
	ID             string           `json:"id"`
	Title          string           `json:"title"`
	Price          decimal.Decimal  `json:"price"`
	CompareAtPrice *decimal.Decimal `json:"compareAtPrice,omitempty"`
	Available      bool             `json:"available"`
	Quantity       int              `json:"quantity"`
	SKU            string           `json:"sku,omitempty"`
	ImageURL       string           `json:"imageUrl,omitempty"`
}

type Image struct {
	ID  string `json:"id,omitempty"`
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}

// SellingPlan is a recurring-purchase schedule owned by the external
// subscription-billing add-on, flattened from the catalog's plan groups.
type SellingPlan struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	GroupName     string `json:"groupName,omitempty"`
	Interval      int    `json:"interval"`
	IntervalUnit  string `json:"intervalUnit"`
	PercentageOff int    `json:"percentageOff"`
}

// ProductPage is one page of a catalog listing plus its pagination state.
type ProductPage struct {
	Products  []Product `json:"products"`
	EndCursor string    `json:"endCursor,omitempty"`
	HasNext   bool      `json:"hasNext"`
}

// FirstAvailableVariant returns the first in-stock variant, falling back to
// the first variant when everything is sold out.
func (p Product) FirstAvailableVariant() *Variant {
	for i := range p.Variants {
		if p.Variants[i].Available {
			return &p.Variants[i]
		}
	}
	if len(p.Variants) > 0 {
		return &p.Variants[0]
	}
	return nil
}

// HasAvailableVariant reports whether any variant can be purchased.
func (p Product) HasAvailableVariant() bool {
	for _, v := range p.Variants {
		if v.Available {
			return true
		}
	}
	return false
}

// PrimaryImageURL returns the first image URL or empty when none exist.
func (p Product) PrimaryImageURL() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].URL
}
