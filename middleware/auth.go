package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/ClaudioDevv/e-commerce/auth"
	"github.com/ClaudioDevv/e-commerce/models"
	"github.com/gin-gonic/gin"
)

// Context keys set by the auth middlewares.
const (
	KeyUserID = "user_id"
	KeyRole   = "role"
	KeyEmail  = "email"
)

func bearer(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func setActor(c *gin.Context, claims *auth.Claims) {
	actor := claims.Actor()
	c.Set(KeyUserID, actor.UserID)
	c.Set(KeyRole, actor.Role)
	c.Set(KeyEmail, claims.Email)
}

// ValidateToken requires a signed-in user.
func ValidateToken(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearer(c)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
			c.Abort()
			return
		}

		claims, err := auth.ParseToken(secret, tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}
		if claims.Actor().IsGuest() {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Sign in required"})
			c.Abort()
			return
		}

		setActor(c, claims)
		c.Next()
	}
}

// OptionalToken lets guests through. A token that is present must be valid.
func OptionalToken(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearer(c)
		if tokenString == "" {
			c.Next()
			return
		}

		claims, err := auth.ParseToken(secret, tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		setActor(c, claims)
		c.Next()
	}
}

type UserProvisioner interface {
	EnsureUser(ctx context.Context, user *models.User) error
}

// ProvisionUser creates the account row of a token subject on first sight.
// It runs after ValidateToken.
func ProvisionUser(users UserProvisioner) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(KeyUserID)
		if userID == "" {
			c.Next()
			return
		}

		user := &models.User{ID: userID, Email: c.GetString(KeyEmail), Role: c.GetString(KeyRole)}
		if user.Email == "" {
			user.Email = userID
		}
		if err := users.EnsureUser(c.Request.Context(), user); err != nil {
			c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load account"})
			c.Abort()
			return
		}
		c.Next()
	}
}
