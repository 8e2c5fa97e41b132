package routes

import (
	adminController "github.com/ClaudioDevv/e-commerce/controllers/admin"
	orderControllers "github.com/ClaudioDevv/e-commerce/controllers/order"
	"github.com/ClaudioDevv/e-commerce/middleware"
	"github.com/gin-gonic/gin"
)

// SetupAdminRoutes registers all “/admin/*” endpoints. Requires API‐Key middleware.
func SetupAdminRoutes(r *gin.Engine, d Deps) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateAPIKey(d.AdminAPIKey))
	{
		// ─────────── Orders ───────────
		orderAdmin := adminGroup.Group("/orders")
		{
			orderAdmin.GET("", orderControllers.ListOrdersHandler(d.Orders))
			orderAdmin.GET("/:id", orderControllers.GetOrderHandler(d.Orders))
			orderAdmin.POST("/:id/cancel", orderControllers.CancelOrderHandler(d.Orders))
		}

		// ─────────── Payment incidents ───────────
		incidents := adminGroup.Group("/incidents")
		{
			incidents.GET("", adminController.ListIncidents(d.Store))
			incidents.POST("/:id/resolve", adminController.ResolveIncident(d.Store))
			incidents.GET("/export-excel", adminController.ExportIncidentsToExcel(d.Store))
		}

		// ─────────── Shop settings & hours ───────────
		adminGroup.GET("/settings", adminController.GetSettings(d.Store))
		adminGroup.PUT("/settings", adminController.UpdateSettings(d.Store))
		adminGroup.PUT("/hours/:day", adminController.ReplaceBusinessHours(d.Store))
		adminGroup.PUT("/special-hours", adminController.SaveSpecialHours(d.Store))

		cartMgmt := adminGroup.Group("/user-cart")
		{
			cartMgmt.GET("/:user_id", adminController.GetAdminUserCart(d.Cart))
		}
	}
}
