package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/ClaudioDevv/e-commerce/models"
	"github.com/gin-gonic/gin"
)

// AdminActorID is the user id admin API key requests act as.
const AdminActorID = "admin"

// ValidateAPIKey guards the admin routes. With no key configured every request
// is refused. Browsers cannot set headers on websockets, so the key may also
// come as the api_key query parameter.
func ValidateAPIKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader("X-API-KEY")
		if apiKey == "" {
			apiKey = c.Query("api_key")
		}
		if key == "" || subtle.ConstantTimeCompare([]byte(apiKey), []byte(key)) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or missing API key"})
			c.Abort()
			return
		}
		c.Set(KeyUserID, AdminActorID)
		c.Set(KeyRole, models.RoleAdmin)
		c.Next()
	}
}
