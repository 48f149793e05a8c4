package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"meal_storefront/internal/interfaces/http/handler"
)

type Handlers struct {
	Cart        *handler.CartHandler
	Catalog     *handler.CatalogHandler
	Checkout    *handler.CheckoutHandler
	Reorder     *handler.ReorderHandler
	Suggestions *handler.SuggestionHandler
}

func RegisterRoutes(r *gin.Engine, h Handlers) {
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	api := r.Group("/api")
	{
		api.GET("/cart", h.Cart.Get)
		api.DELETE("/cart", h.Cart.Clear)
		api.POST("/cart/items", h.Cart.AddItem)
		api.PATCH("/cart/items/:key", h.Cart.UpdateQuantity)
		api.DELETE("/cart/items/:key", h.Cart.RemoveItem)

		api.GET("/products/:id/substitutions", h.Catalog.Substitutions)
		api.POST("/products/:id/customization/validate", h.Catalog.ValidateCustomization)
		api.GET("/products/:id/suggestions", h.Suggestions.AlongWith)
		api.GET("/payment-methods", h.Catalog.PaymentMethods)

		api.POST("/checkout/prepare", h.Checkout.Prepare)
		api.POST("/checkout/submit", h.Checkout.Submit)

		api.GET("/orders", h.Reorder.History)
		api.GET("/orders/:id/reorder", h.Reorder.Preview)
		api.POST("/orders/:id/reorder", h.Reorder.Submit)

		api.GET("/suggestions", h.Suggestions.ForUser)
	}
}
