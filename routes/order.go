package routes

import (
	orderControllers "github.com/ClaudioDevv/e-commerce/controllers/order"
	"github.com/ClaudioDevv/e-commerce/middleware"
	"github.com/gin-gonic/gin"
)

func SetupOrderRoutes(r *gin.Engine, d Deps) {
	// Guest checkout: no account, items in the body
	guest := r.Group("/orders/guest")
	guest.Use(middleware.OptionalToken(d.JWTSecret))
	{
		guest.POST("", orderControllers.PlaceGuestOrderHandler(d.Orders))
		guest.POST("/:id/checkout", orderControllers.CheckoutHandler(d.Checkout))
	}

	orders := r.Group("/orders")
	orders.Use(middleware.ValidateToken(d.JWTSecret), middleware.ProvisionUser(d.Store))
	{
		// Create an order from the user's cart
		orders.POST("", orderControllers.PlaceOrderHandler(d.Orders))

		orders.GET("", orderControllers.ListOrdersHandler(d.Orders))
		orders.GET("/:id", orderControllers.GetOrderHandler(d.Orders))
		orders.POST("/:id/cancel", orderControllers.CancelOrderHandler(d.Orders))

		// Open a hosted payment page for an online order
		orders.POST("/:id/checkout", orderControllers.CheckoutHandler(d.Checkout))
	}

	// websocket endpoint for real-time order updates
	r.GET("/ws/orders", middleware.ValidateAPIKey(d.AdminAPIKey), d.Hub.Handler)
}
