package catalog

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"plantfoods-storefront/internal/domain"
)

// Raw wire shapes for the catalog API's JSON envelope. Only the fields the
// storefront consumes are declared.

type envelope struct {
	Data   *queryData     `json:"data"`
	Errors []graphqlError `json:"errors"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type queryData struct {
	Products        *productConnection `json:"products"`
	ProductByHandle *productNode       `json:"productByHandle"`
}

type productConnection struct {
	PageInfo pageInfo      `json:"pageInfo"`
	Edges    []productEdge `json:"edges"`
}

type pageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

type productEdge struct {
	Node productNode `json:"node"`
}

type productNode struct {
	ID                string              `json:"id"`
	Title             string              `json:"title"`
	Description       string              `json:"description"`
	Handle            string              `json:"handle"`
	ProductType       string              `json:"productType"`
	Vendor            string              `json:"vendor"`
	Tags              []string            `json:"tags"`
	CreatedAt         time.Time           `json:"createdAt"`
	UpdatedAt         time.Time           `json:"updatedAt"`
	PriceRange        priceRange          `json:"priceRange"`
	Images            imageConnection     `json:"images"`
	Variants          variantConnection   `json:"variants"`
	SellingPlanGroups sellingPlanGroupCxn `json:"sellingPlanGroups"`
}

type priceRange struct {
	MinVariantPrice money `json:"minVariantPrice"`
	MaxVariantPrice money `json:"maxVariantPrice"`
}

type money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

type imageConnection struct {
	Edges []struct {
		Node imageNode `json:"node"`
	} `json:"edges"`
}

type imageNode struct {
	ID             string `json:"id"`
	TransformedSrc string `json:"transformedSrc"`
	AltText        string `json:"altText"`
}

type variantConnection struct {
	Edges []struct {
		Node variantNode `json:"node"`
	} `json:"edges"`
}

type variantNode struct {
	ID                string     `json:"id"`
	Title             string     `json:"title"`
	SKU               string     `json:"sku"`
	AvailableForSale  bool       `json:"availableForSale"`
	QuantityAvailable int        `json:"quantityAvailable"`
	Price             money      `json:"price"`
	CompareAtPrice    *money     `json:"compareAtPrice"`
	Image             *imageNode `json:"image"`
}

type sellingPlanGroupCxn struct {
	Edges []struct {
		Node sellingPlanGroupNode `json:"node"`
	} `json:"edges"`
}

type sellingPlanGroupNode struct {
	Name         string `json:"name"`
	SellingPlans struct {
		Edges []struct {
			Node sellingPlanNode `json:"node"`
		} `json:"edges"`
	} `json:"sellingPlans"`
}

type sellingPlanNode struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Options []struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	} `json:"options"`
	PriceAdjustments []struct {
		AdjustmentValue struct {
			AdjustmentPercentage float64 `json:"adjustmentPercentage"`
		} `json:"adjustmentValue"`
	} `json:"priceAdjustments"`
}

func mapProduct(n productNode) domain.Product {
	images := make([]domain.Image, 0, len(n.Images.Edges))
	for _, e := range n.Images.Edges {
		images = append(images, domain.Image{
			ID:  e.Node.ID,
			URL: normalizeImageURL(e.Node.TransformedSrc),
			Alt: altOrTitle(e.Node.AltText, n.Title),
		})
	}

	variants := make([]domain.Variant, 0, len(n.Variants.Edges))
	for _, e := range n.Variants.Edges {
		variants = append(variants, mapVariant(e.Node))
	}

	minPrice := parseAmount(n.PriceRange.MinVariantPrice.Amount)
	maxPrice := parseAmount(n.PriceRange.MaxVariantPrice.Amount)

	return domain.Product{
		ID:          n.ID,
		Title:       n.Title,
		Description: n.Description,
		Handle:      n.Handle,
		ProductType: n.ProductType,
		Vendor:      n.Vendor,
		Tags:        n.Tags,
		MinPrice:    minPrice,
		MaxPrice:    maxPrice,
		Currency:    n.PriceRange.MinVariantPrice.CurrencyCode,
		Images:      images,
		Variants:    variants,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   n.UpdatedAt,
	}
}

func mapVariant(n variantNode) domain.Variant {
	v := domain.Variant{
		ID:        n.ID,
		Title:     n.Title,
		SKU:       n.SKU,
		Price:     parseAmount(n.Price.Amount),
		Available: n.AvailableForSale && n.QuantityAvailable > 0,
		Quantity:  n.QuantityAvailable,
	}
	if n.CompareAtPrice != nil {
		cmp := parseAmount(n.CompareAtPrice.Amount)
		v.CompareAtPrice = &cmp
	}
	if n.Image != nil {
		v.ImageURL = normalizeImageURL(n.Image.TransformedSrc)
	}
	return v
}

func mapSellingPlans(n productNode) []domain.SellingPlan {
	var plans []domain.SellingPlan
	for _, ge := range n.SellingPlanGroups.Edges {
		group := ge.Node
		for _, pe := range group.SellingPlans.Edges {
			plan := domain.SellingPlan{
				ID:        pe.Node.ID,
				Name:      pe.Node.Name,
				GroupName: group.Name,
			}
			for _, adj := range pe.Node.PriceAdjustments {
				if pct := adj.AdjustmentValue.AdjustmentPercentage; pct > 0 {
					plan.PercentageOff = int(pct)
					break
				}
			}
			plan.Interval, plan.IntervalUnit = intervalFromPlanName(pe.Node.Name)
			plans = append(plans, plan)
		}
	}
	return plans
}

// intervalFromPlanName extracts "every N <unit>" from a plan name like
// "Deliver every 2 months". Unknown shapes default to monthly delivery.
func intervalFromPlanName(name string) (int, string) {
	fields := strings.Fields(strings.ToLower(name))
	for i, f := range fields {
		if f != "every" || i+1 >= len(fields) {
			continue
		}
		n := 0
		for _, c := range fields[i+1] {
			if c < '0' || c > '9' {
				n = 0
				break
			}
			n = n*10 + int(c-'0')
		}
		if n == 0 {
			continue
		}
		unit := "month"
		if i+2 < len(fields) {
			unit = strings.TrimSuffix(fields[i+2], "s")
		}
		return n, unit
	}
	return 1, "month"
}

func parseAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// normalizeImageURL upgrades protocol-relative CDN URLs to https.
func normalizeImageURL(u string) string {
	if u == "" || strings.HasPrefix(u, "http") {
		return u
	}
	return "https:" + u
}

func altOrTitle(alt, title string) string {
	if alt != "" {
		return alt
	}
	return title
}
