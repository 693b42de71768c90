package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"plantfoods-storefront/internal/domain"
	catalogsvc "plantfoods-storefront/internal/service/catalog"
)

func listProductsHandler(svc *catalogsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.Query("limit"))
		opts := catalogsvc.ListOptions{
			Query:   c.Query("q"),
			SortKey: c.Query("sort"),
			After:   c.Query("after"),
			Limit:   limit,
		}

		// A bare listing walks the whole catalog; parameters narrow it to
		// a single page.
		var products []domain.Product
		if opts == (catalogsvc.ListOptions{}) {
			products = svc.All(c.Request.Context())
		} else {
			products = svc.List(c.Request.Context(), opts)
		}
		c.JSON(http.StatusOK, gin.H{"products": products})
	}
}

func productHandler(svc *catalogsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := svc.ByHandle(c.Request.Context(), c.Param("handle"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
				return
			}
			c.JSON(http.StatusBadGateway, gin.H{"error": "catalog unavailable"})
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func sellingPlansHandler(svc *catalogsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		plans := svc.Plans(c.Request.Context(), c.Param("handle"))
		if plans == nil {
			plans = []domain.SellingPlan{}
		}
		c.JSON(http.StatusOK, gin.H{"sellingPlans": plans})
	}
}
