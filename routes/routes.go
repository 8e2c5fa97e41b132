package routes

import (
	"github.com/ClaudioDevv/e-commerce/realtime"
	"github.com/ClaudioDevv/e-commerce/services/cart"
	"github.com/ClaudioDevv/e-commerce/services/checkout"
	"github.com/ClaudioDevv/e-commerce/services/order"
	"github.com/ClaudioDevv/e-commerce/services/payment"
	"github.com/ClaudioDevv/e-commerce/services/scheduling"
	"github.com/ClaudioDevv/e-commerce/store"
	"github.com/gin-gonic/gin"
)

// Deps is everything the handlers are built from.
type Deps struct {
	Store      *store.Store
	Cart       *cart.Service
	Orders     *order.Service
	Checkout   *checkout.Service
	Reconciler *payment.Reconciler
	Schedule   *scheduling.Engine
	Hub        *realtime.Hub

	JWTSecret   string
	AdminAPIKey string
}

// SetupRoutes is the single entry point that wires up every route group.
func SetupRoutes(r *gin.Engine, d Deps) {
	// Guest tokens
	SetupAuthRoutes(r, d)

	// User routes (JWT protected)
	SetupUserRoutes(r, d)

	// Admin routes (API key protected)
	SetupAdminRoutes(r, d)

	// Orders, signed in or guest
	SetupOrderRoutes(r, d)

	// Payment provider webhook
	SetupPaymentRoutes(r, d)

	// Opening hours and time slots
	SetupScheduleRoutes(r, d)
}
