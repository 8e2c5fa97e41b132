package routes

import (
	cartControllers "github.com/ClaudioDevv/e-commerce/controllers/cart"
	"github.com/ClaudioDevv/e-commerce/middleware"
	"github.com/gin-gonic/gin"
)

// SetupUserRoutes registers all “/user/*” endpoints. Requires JWT middleware.
func SetupUserRoutes(r *gin.Engine, d Deps) {
	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken(d.JWTSecret), middleware.ProvisionUser(d.Store))
	{
		// ──────────────── Shopping Cart ────────────────
		cartGroup := userGroup.Group("/cart")
		{
			cartGroup.GET("", cartControllers.GetUserCart(d.Cart))                 // GET /user/cart
			cartGroup.GET("/summary", cartControllers.GetCartSummary(d.Cart))      // GET /user/cart/summary
			cartGroup.POST("/items", cartControllers.AddCartItem(d.Cart))          // POST /user/cart/items
			cartGroup.PUT("/items/:id", cartControllers.UpdateCartItem(d.Cart))    // PUT /user/cart/items/:id
			cartGroup.DELETE("/items/:id", cartControllers.DeleteCartItem(d.Cart)) // DELETE /user/cart/items/:id
			cartGroup.DELETE("", cartControllers.ClearUserCart(d.Cart))            // DELETE /user/cart
		}
	}
}
