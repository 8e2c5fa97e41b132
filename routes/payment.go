package routes

import (
	paymentControllers "github.com/ClaudioDevv/e-commerce/controllers/payment"
	"github.com/gin-gonic/gin"
)

func SetupPaymentRoutes(r *gin.Engine, d Deps) {
	payment := r.Group("/payment")
	{
		// Webhook endpoint: the reconciler verifies the provider signature
		payment.POST("/webhook", paymentControllers.WebhookHandler(d.Reconciler))
	}
}
