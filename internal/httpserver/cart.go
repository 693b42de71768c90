package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"plantfoods-storefront/internal/cart"
	"plantfoods-storefront/internal/domain"
)

type subscriptionRequest struct {
	DiscountPercent int               `json:"discount"`
	Interval        int               `json:"interval" binding:"required"`
	IntervalUnit    string            `json:"intervalUnit" binding:"required"`
	SellingPlanID   string            `json:"sellingPlan"`
	Properties      map[string]string `json:"properties"`
}

func (r *subscriptionRequest) toDomain() *domain.Subscription {
	if r == nil {
		return nil
	}
	percent := r.DiscountPercent
	if percent <= 0 {
		percent = cart.SubscriptionDiscountPercent
	}
	return &domain.Subscription{
		DiscountPercent: percent,
		Interval:        r.Interval,
		IntervalUnit:    r.IntervalUnit,
		SellingPlanID:   r.SellingPlanID,
		Properties:      r.Properties,
	}
}

type addItemRequest struct {
	ProductID    string               `json:"productId" binding:"required"`
	ProductTitle string               `json:"productTitle"`
	VariantID    string               `json:"variantId" binding:"required"`
	VariantTitle string               `json:"variantTitle"`
	Price        string               `json:"price" binding:"required"`
	Quantity     int                  `json:"quantity"`
	MaxQuantity  int                  `json:"maxQuantity"`
	ImageURL     string               `json:"imageUrl"`
	Subscription *subscriptionRequest `json:"subscription"`
}

type lineKeyRequest struct {
	ProductID    string               `json:"productId" binding:"required"`
	VariantID    string               `json:"variantId" binding:"required"`
	Subscription *subscriptionRequest `json:"subscription"`
}

type updateQuantityRequest struct {
	ProductID    string               `json:"productId" binding:"required"`
	VariantID    string               `json:"variantId" binding:"required"`
	Quantity     int                  `json:"quantity"`
	Subscription *subscriptionRequest `json:"subscription"`
}

type cartView struct {
	Lines    []domain.Line `json:"lines"`
	Open     bool          `json:"open"`
	Summary  cart.Summary  `json:"summary"`
	Progress cart.Progress `json:"progress"`
}

func viewOf(store *cart.Store) cartView {
	return cartView{
		Lines:    store.Lines(),
		Open:     store.IsOpen(),
		Summary:  store.Summary(),
		Progress: store.ProgressInfo(),
	}
}

func cartHandler(store *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, viewOf(store))
	}
}

func addItemHandler(store *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		price, err := decimal.NewFromString(req.Price)
		if err != nil || price.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price"})
			return
		}

		product := domain.Product{ID: req.ProductID, Title: req.ProductTitle}
		variant := domain.Variant{
			ID:       req.VariantID,
			Title:    req.VariantTitle,
			Price:    price,
			Quantity: req.MaxQuantity,
			ImageURL: req.ImageURL,
		}
		if err := store.Add(c.Request.Context(), product, variant, req.Quantity, req.Subscription.toDomain()); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, viewOf(store))
	}
}

func removeItemHandler(store *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req lineKeyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := store.Remove(c.Request.Context(), req.ProductID, req.VariantID, req.Subscription.toDomain()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, viewOf(store))
	}
}

func updateQuantityHandler(store *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateQuantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := store.UpdateQuantity(c.Request.Context(), req.ProductID, req.VariantID, req.Quantity, req.Subscription.toDomain()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, viewOf(store))
	}
}

func clearCartHandler(store *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := store.ForceClean(c.Request.Context()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, viewOf(store))
	}
}

func toggleCartHandler(store *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"open": store.Toggle()})
	}
}
