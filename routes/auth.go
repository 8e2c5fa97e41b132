package routes

import (
	"github.com/ClaudioDevv/e-commerce/auth"
	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes registers all “/auth/*” endpoints.
func SetupAuthRoutes(r *gin.Engine, d Deps) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/guest", auth.CreateGuestToken(d.JWTSecret))
	}
}
