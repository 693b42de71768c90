package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"plantfoods-storefront/internal/cart"
	"plantfoods-storefront/internal/domain"
	"plantfoods-storefront/internal/repository/state"
)

type checkoutRequest struct {
	SellingPlans []sellingPlanRequest `json:"sellingPlans"`
}

type sellingPlanRequest struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Interval     int    `json:"interval"`
	IntervalUnit string `json:"intervalUnit"`
}

func checkoutHandler(store *cart.Store, checkoutDomain string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req checkoutRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}

		plans := make([]domain.SellingPlan, 0, len(req.SellingPlans))
		for _, p := range req.SellingPlans {
			plans = append(plans, domain.SellingPlan{
				ID:           p.ID,
				Name:         p.Name,
				Interval:     p.Interval,
				IntervalUnit: p.IntervalUnit,
			})
		}

		handoff, err := store.Checkout(c.Request.Context(), checkoutDomain, plans)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, handoff)
	}
}

// checkoutCompletedHandler records the external completion signal. The flag
// is persisted first so other instances observe it, then applied locally.
func checkoutCompletedHandler(store *cart.Store, repo state.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if err := repo.Set(ctx, cart.KeyCheckoutCompleted, []byte(`true`)); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if err := store.ApplyCheckoutCompleted(ctx); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
