package cartControllers

import (
	"net/http"

	"github.com/ClaudioDevv/e-commerce/controllers"
	"github.com/ClaudioDevv/e-commerce/services/cart"
	"github.com/gin-gonic/gin"
)

// GET /user/cart
func GetUserCart(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := controllers.Actor(c).UserID

		items, err := svc.List(c.Request.Context(), userID)
		if err != nil {
			controllers.Fail(c, err)
			return
		}
		summary, err := svc.Summary(c.Request.Context(), userID)
		if err != nil {
			controllers.Fail(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"items": items, "summary": summary})
	}
}

// GET /user/cart/summary
func GetCartSummary(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, err := svc.Summary(c.Request.Context(), controllers.Actor(c).UserID)
		if err != nil {
			controllers.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

// POST /user/cart/items
func AddCartItem(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input cart.AddRequest
		if err := c.ShouldBindJSON(&input); err != nil {
			controllers.BadInput(c, err)
			return
		}

		item, err := svc.Add(c.Request.Context(), controllers.Actor(c).UserID, input)
		if err != nil {
			controllers.Fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, item)
	}
}

// PUT /user/cart/items/:id
func UpdateCartItem(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input cart.UpdateRequest
		if err := c.ShouldBindJSON(&input); err != nil {
			controllers.BadInput(c, err)
			return
		}

		item, err := svc.Update(c.Request.Context(), controllers.Actor(c).UserID, c.Param("id"), input)
		if err != nil {
			controllers.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

// DELETE /user/cart/items/:id
func DeleteCartItem(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Remove(c.Request.Context(), controllers.Actor(c).UserID, c.Param("id")); err != nil {
			controllers.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
	}
}

// DELETE /user/cart
func ClearUserCart(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Clear(c.Request.Context(), controllers.Actor(c).UserID); err != nil {
			controllers.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}
