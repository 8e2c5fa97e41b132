package orderControllers

import (
	"net/http"

	"github.com/ClaudioDevv/e-commerce/controllers"
	"github.com/ClaudioDevv/e-commerce/services/checkout"
	"github.com/ClaudioDevv/e-commerce/services/order"
	"github.com/gin-gonic/gin"
)

// PlaceOrderHandler serves POST /orders: signed-in users order their cart.
func PlaceOrderHandler(svc *order.Service) gin.HandlerFunc {
	return placeOrder(svc, false)
}

// PlaceGuestOrderHandler serves POST /orders/guest, where the items come in the
// body. A valid token on this route does not switch to the caller's cart.
func PlaceGuestOrderHandler(svc *order.Service) gin.HandlerFunc {
	return placeOrder(svc, true)
}

func placeOrder(svc *order.Service, inline bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.CreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			controllers.BadInput(c, err)
			return
		}
		if !inline {
			req.UserID = controllers.Actor(c).UserID
		}

		placed, err := svc.Create(c.Request.Context(), req)
		if err != nil {
			controllers.Fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, placed)
	}
}

// GET /orders
func ListOrdersHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter order.Filter
		if err := c.ShouldBindQuery(&filter); err != nil {
			controllers.BadInput(c, err)
			return
		}

		page, err := svc.List(c.Request.Context(), controllers.Actor(c), filter)
		if err != nil {
			controllers.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

// GET /orders/:id
func GetOrderHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := svc.Get(c.Request.Context(), c.Param("id"), controllers.Actor(c))
		if err != nil {
			controllers.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

// POST /orders/:id/cancel. A refund that could not be requested still answers
// 200 with refund REFUND_PENDING; the order is cancelled either way.
func CancelOrderHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := svc.Cancel(c.Request.Context(), c.Param("id"), controllers.Actor(c))
		if err != nil {
			controllers.Fail(c, err)
			return
		}

		body := gin.H{"order": result.Order, "refund": result.Outcome}
		if result.RefundID != "" {
			body["refund_id"] = result.RefundID
		}
		if result.RefundErr != nil {
			c.Error(result.RefundErr)
			body["message"] = "The order was cancelled. The refund could not be issued yet and will be handled by the restaurant."
		}
		c.JSON(http.StatusOK, body)
	}
}

// POST /orders/:id/checkout and POST /orders/guest/:id/checkout
func CheckoutHandler(svc *checkout.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := svc.Create(c.Request.Context(), c.Param("id"), controllers.Actor(c))
		if err != nil {
			controllers.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, session)
	}
}
