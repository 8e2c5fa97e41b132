// Package store is the gorm persistence of the shop. Every repository method
// runs on the transaction carried by ctx when called inside Atomic.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ClaudioDevv/e-commerce/apperror"
	"github.com/ClaudioDevv/e-commerce/config"
	"github.com/ClaudioDevv/e-commerce/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type Store struct {
	db  *gorm.DB
	log *slog.Logger
}

type txKey struct{}

// Open connects to postgres using DATABASE_URL, or the discrete DB_* settings.
func Open(cfg *config.Config, log *slog.Logger) (*Store, error) {
	level := gormlogger.Warn
	if cfg.Environment == "development" {
		level = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return New(db, log), nil
}

func New(db *gorm.DB, log *slog.Logger) *Store {
	return &Store{db: db, log: log.With("component", "store")}
}

func (s *Store) DB() *gorm.DB { return s.db }

// Migrate creates the schema and seeds the settings row.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.Address{},
		&models.Customizable{},
		&models.Product{},
		&models.ProductVariant{},
		&models.ProductBaseCustomizable{},
		&models.ProductAvailableCustomizable{},
		&models.CartItem{},
		&models.CartItemCustomization{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderItemCustomization{},
		&models.Payment{},
		&models.PaymentIncident{},
		&models.BusinessHours{},
		&models.SpecialHours{},
		&models.Settings{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	defaults := models.DefaultSettings()
	if err := s.db.WithContext(ctx).Where("id = ?", defaults.ID).FirstOrCreate(&defaults).Error; err != nil {
		return fmt.Errorf("seed settings: %w", err)
	}
	s.log.Info("schema migrated")
	return nil
}

// Atomic runs fn in one transaction. Nested calls join the outer transaction.
func (s *Store) Atomic(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return s.db.WithContext(ctx)
}

// notFound maps gorm's missing-row error to a NotFound naming what was looked up.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound("%s not found", what)
	}
	return fmt.Errorf("load %s: %w", what, err)
}
