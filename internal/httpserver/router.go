package httpserver

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"plantfoods-storefront/internal/cart"
	"plantfoods-storefront/internal/repository/state"
	catalogsvc "plantfoods-storefront/internal/service/catalog"
)

// Deps carries the wired services the handlers need.
type Deps struct {
	Catalog        *catalogsvc.Service
	Cart           *cart.Store
	State          state.Repository
	CheckoutDomain string
}

// buildRouter wires routes for the storefront API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.Default())

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	api := router.Group("/api")
	{
		api.GET("/products", listProductsHandler(deps.Catalog))
		api.GET("/products/:handle", productHandler(deps.Catalog))
		api.GET("/products/:handle/selling-plans", sellingPlansHandler(deps.Catalog))

		api.GET("/cart", cartHandler(deps.Cart))
		api.POST("/cart/items", addItemHandler(deps.Cart))
		api.POST("/cart/items/remove", removeItemHandler(deps.Cart))
		api.POST("/cart/items/quantity", updateQuantityHandler(deps.Cart))
		api.POST("/cart/clear", clearCartHandler(deps.Cart))
		api.POST("/cart/toggle", toggleCartHandler(deps.Cart))

		api.POST("/checkout", checkoutHandler(deps.Cart, deps.CheckoutDomain))
		api.POST("/checkout/completed", checkoutCompletedHandler(deps.Cart, deps.State))
	}

	return router
}
