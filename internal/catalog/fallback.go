package catalog

import (
	"strings"

	"github.com/shopspring/decimal"

	"plantfoods-storefront/internal/domain"
)

// FallbackProducts is the hard-coded dataset rendered when the catalog API
// yields no data. It mirrors the brand's core range so the storefront stays
// browsable offline; ids are synthetic and never reach checkout.
func FallbackProducts() []domain.Product {
	return []domain.Product{
		fallbackProduct("fallback-monstera", "Monstera Plant Food", "Premium nutrition for Monstera plants",
			"/assets/products/TPS_8oz_Wrap_PNG/TPS_Monstera_8oz_Wrap.png", "houseplant",
			fv("var-1", "8 Ounce", "14.99", 100),
			fv("var-2", "32 Ounce", "24.99", 50),
			fv("var-3", "128 Ounce", "59.99", 25),
		),
		fallbackProduct("fallback-indoor", "Indoor Plant Food", "All-purpose indoor plant nutrition",
			"/assets/products/TPS_8oz_Wrap_PNG/TPS_Indoor_8oz_Wrap.png", "houseplant",
			fv("var-4", "8 Ounce", "14.99", 200),
			fv("var-5", "32 Ounce", "24.99", 75),
		),
		fallbackProduct("fallback-fiddle", "Fiddle Leaf Fig Plant Food", "Specialized nutrition for fiddle leaf figs",
			"/assets/products/TPS_8oz_Wrap_PNG/TPS_Fiddle Leaf Fig_8oz_Wrap.png", "houseplant",
			fv("var-6", "8 Ounce", "14.99", 150),
		),
		fallbackProduct("fallback-cactus", "Christmas Cactus Fertilizer", "Perfect for holiday cacti",
			"/assets/products/TPS_8oz_Wrap_PNG/TPS_Christmas Cactus_8oz_Wrap.png", "houseplant",
			fv("var-7", "8 Ounce", "14.99", 120),
		),
		fallbackProduct("fallback-rose", "Rose Fertilizer", "Premium nutrition for roses",
			"/assets/products/indoor-plant-food.png", "garden",
			fv("var-12", "8 Ounce", "15.99", 120),
		),
		fallbackProduct("fallback-tomato", "Tomato Fertilizer", "Boost your tomato harvest",
			"/assets/products/indoor-plant-food.png", "garden",
			fv("var-13", "8 Ounce", "14.99", 150),
		),
		fallbackProduct("fallback-hydroponic", "Hydroponic Plant Food", "Complete hydroponic nutrition",
			"/assets/products/indoor-plant-food.png", "hydroponic",
			fv("var-16", "8 Ounce", "19.99", 60),
		),
		fallbackProduct("fallback-aquatic", "Aquatic Plant Fertilizer", "Safe for fish and plants",
			"/assets/products/indoor-plant-food.png", "hydroponic",
			fv("var-17", "8 Ounce", "16.99", 45),
		),
		fallbackProduct("fallback-root", "Root Supplement", "Strengthen root systems",
			"/assets/products/indoor-plant-food.png", "supplement",
			fv("var-18", "8 Ounce", "21.99", 40),
		),
		fallbackProduct("fallback-bloom", "Bloom Booster", "Enhance flowering",
			"/assets/products/indoor-plant-food.png", "supplement",
			fv("var-19", "8 Ounce", "18.99", 35),
		),
	}
}

// FallbackByHandle searches the static dataset by URL slug.
func FallbackByHandle(handle string) *domain.Product {
	for _, p := range FallbackProducts() {
		if p.Handle == handle {
			return &p
		}
	}
	return nil
}

func fallbackProduct(id, title, description, image, tag string, variants ...domain.Variant) domain.Product {
	min, max := variants[0].Price, variants[0].Price
	for _, v := range variants[1:] {
		if v.Price.LessThan(min) {
			min = v.Price
		}
		if v.Price.GreaterThan(max) {
			max = v.Price
		}
	}
	return domain.Product{
		ID:          id,
		Title:       title,
		Description: description,
		Handle:      handleFromTitle(title),
		Vendor:      "TPS Plant Foods",
		Tags:        []string{tag},
		MinPrice:    min,
		MaxPrice:    max,
		Currency:    "USD",
		Images:      []domain.Image{{URL: image, Alt: title}},
		Variants:    variants,
	}
}

func fv(id, title, price string, quantity int) domain.Variant {
	return domain.Variant{
		ID:        id,
		Title:     title,
		Price:     decimal.RequireFromString(price),
		Available: true,
		Quantity:  quantity,
	}
}

func handleFromTitle(title string) string {
	return strings.ReplaceAll(strings.ToLower(title), " ", "-")
}
