package paymentControllers

import (
	"io"
	"net/http"

	"github.com/ClaudioDevv/e-commerce/controllers"
	"github.com/ClaudioDevv/e-commerce/services/payment"
	"github.com/gin-gonic/gin"
)

// MaxPayloadBytes caps the webhook body.
const MaxPayloadBytes = 64 << 10

// WebhookHandler serves POST /payment/webhook. The body is read raw because the
// signature covers the exact bytes.
func WebhookHandler(rec *payment.Reconciler) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, MaxPayloadBytes))
		if err != nil {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Payload too large"})
			return
		}

		if err := rec.HandleEvent(c.Request.Context(), payload, c.GetHeader("Stripe-Signature")); err != nil {
			controllers.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"received": true})
	}
}
