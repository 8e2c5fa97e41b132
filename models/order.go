package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"   // created, waiting for payment or preparation
	OrderStatusPaid      OrderStatus = "PAID"      // online payment confirmed
	OrderStatusCancelled OrderStatus = "CANCELLED" // terminal
)

// Cancellable reports whether an order in this status may still be cancelled.
func (s OrderStatus) Cancellable() bool {
	return s == OrderStatusPending || s == OrderStatusPaid
}

type DeliveryType string

const (
	DeliveryTypeDelivery DeliveryType = "DELIVERY"
	DeliveryTypePickup   DeliveryType = "PICKUP"
)

func (d DeliveryType) Valid() bool {
	return d == DeliveryTypeDelivery || d == DeliveryTypePickup
}

type Order struct {
	ID            string  `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID        *string `gorm:"type:varchar(64);index" json:"user_id"`
	IsGuest       bool    `gorm:"not null" json:"is_guest"`
	CustomerName  string  `gorm:"not null" json:"customer_name"`
	CustomerPhone string  `json:"customer_phone"`

	DeliveryType         DeliveryType `gorm:"type:varchar(20);not null" json:"delivery_type"`
	AddressID            *string      `gorm:"type:varchar(36)" json:"address_id"`
	DeliveryStreet       string       `json:"delivery_street,omitempty"`
	DeliveryCity         string       `json:"delivery_city,omitempty"`
	DeliveryPostalCode   string       `json:"delivery_postal_code,omitempty"`
	DeliveryInstructions string       `json:"delivery_instructions,omitempty"`

	ScheduledFor  *time.Time `json:"scheduled_for"`
	EstimatedTime time.Time  `json:"estimated_time"`

	Subtotal    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	DeliveryFee decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"delivery_fee"`
	Total       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`

	Status OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`

	Items   []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Payment *Payment    `gorm:"foreignKey:OrderID" json:"payment,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// OwnedBy reports whether the order belongs to the given registered user.
func (o *Order) OwnedBy(userID string) bool {
	return o.UserID != nil && *o.UserID == userID
}

// OrderFilter narrows an order listing. Zero values are ignored.
type OrderFilter struct {
	UserID string
	Status OrderStatus
	From   *time.Time
	To     *time.Time
	Offset int
	Limit  int
}

// OrderItem is a snapshot of a line taken when the order was placed. It is never
// recomputed from the catalog.
type OrderItem struct {
	ID              string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OrderID         string          `gorm:"type:varchar(36);index;not null" json:"order_id"`
	ProductID       string          `gorm:"type:varchar(36);not null" json:"product_id"`
	VariantID       *string         `gorm:"type:varchar(36)" json:"variant_id"`
	NameSnapshot    string          `gorm:"not null" json:"name"`
	VariantSnapshot *string         `json:"variant_name"`
	NotesSnapshot   *string         `json:"notes"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Quantity        int             `gorm:"not null" json:"quantity"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`

	Customizations []OrderItemCustomization `gorm:"foreignKey:OrderItemID;constraint:OnDelete:CASCADE" json:"customizations"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

type OrderItemCustomization struct {
	ID             uint                `gorm:"primaryKey;autoIncrement" json:"-"`
	OrderItemID    string              `gorm:"type:varchar(36);index;not null" json:"-"`
	CustomizableID uint                `gorm:"not null" json:"customizable_id"`
	Action         CustomizationAction `gorm:"type:varchar(10);not null" json:"action"`
	NameSnapshot   string              `gorm:"not null" json:"name"`
	PriceSnapshot  decimal.Decimal     `gorm:"type:decimal(10,2);not null" json:"price"`
}
