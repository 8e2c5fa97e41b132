package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ClaudioDevv/e-commerce/config"
	"github.com/ClaudioDevv/e-commerce/gateway"
	stripegw "github.com/ClaudioDevv/e-commerce/gateway/stripe"
	"github.com/ClaudioDevv/e-commerce/logger"
	"github.com/ClaudioDevv/e-commerce/realtime"
	"github.com/ClaudioDevv/e-commerce/routes"
	"github.com/ClaudioDevv/e-commerce/services/cart"
	"github.com/ClaudioDevv/e-commerce/services/checkout"
	"github.com/ClaudioDevv/e-commerce/services/order"
	"github.com/ClaudioDevv/e-commerce/services/payment"
	"github.com/ClaudioDevv/e-commerce/services/report"
	"github.com/ClaudioDevv/e-commerce/services/scheduling"
	"github.com/ClaudioDevv/e-commerce/store"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Config{}).Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		Environment: cfg.Environment,
	})
	log.Info("starting application")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init DB and migrate all tables
	db, err := store.Open(cfg, log)
	if err != nil {
		log.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := db.Migrate(ctx); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}

	hub := realtime.NewHub(log)
	engine := scheduling.NewEngine(db, cfg.Location(), time.Now)

	// The gateway interfaces stay nil when payments are not configured, so
	// online orders are refused instead of failing at the provider.
	var (
		sessions gateway.SessionCreator
		refunds  gateway.Refunder
		verifier payment.Verifier = disabledVerifier{}
	)
	if cfg.PaymentsEnabled() {
		gw := stripegw.New(cfg.StripeSecretKey, cfg.StripeWebhookSecret, nil)
		sessions, refunds, verifier = gw, gw, gw
	} else {
		log.Warn("stripe is not configured, online payments are disabled")
	}

	deps := routes.Deps{
		Store:      db,
		Cart:       cart.NewService(db, cfg.MaxLineQuantity, log),
		Orders:     order.NewService(db, engine, refunds, log, order.Options{MaxQuantity: cfg.MaxLineQuantity, Notifier: hub}),
		Checkout:   checkout.NewService(db, sessions, cfg.Currency, checkout.URLsFor(cfg.FrontendURL), log),
		Reconciler: payment.NewReconciler(db, verifier, hub, log),
		Schedule:   engine,
		Hub:        hub,

		JWTSecret:   cfg.JWTSecret,
		AdminAPIKey: cfg.AdminAPIKey,
	}

	// Gin setup
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), logger.GinMiddleware(log))

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.SetupRoutes(r, deps)

	// Export open payment incidents every night and keep them for the retention period
	exporter := report.NewExporter(db, cfg.ReportDir, time.Duration(cfg.ReportRetentionDays)*24*time.Hour, log)
	go exporter.RunDaily(ctx, cfg.ReportHour, 0)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server running", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}

// disabledVerifier refuses every webhook when no signing secret is configured.
type disabledVerifier struct{}

func (disabledVerifier) VerifyEvent([]byte, string) (payment.Event, error) {
	return nil, errors.New("payment webhooks are not configured")
}
