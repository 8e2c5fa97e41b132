package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GuestTokenTTL is how long a visitor can use a guest token.
const GuestTokenTTL = 24 * time.Hour

// POST /auth/guest
func CreateGuestToken(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		guestID := "guest_" + uuid.NewString()
		expiresAt := time.Now().Add(GuestTokenTTL)

		token, err := IssueToken(secret, guestID, "", RoleGuest, GuestTokenTTL)
		if err != nil {
			c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"guest_id":   guestID,
			"token":      token,
			"expires_at": expiresAt,
		})
	}
}
