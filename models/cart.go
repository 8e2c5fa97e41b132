package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CartItem is one line of a registered user's cart.
type CartItem struct {
	ID        string  `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID    string  `gorm:"type:varchar(64);index;not null" json:"user_id"`
	ProductID string  `gorm:"type:varchar(36);index;not null" json:"product_id"`
	VariantID *string `gorm:"type:varchar(36)" json:"variant_id"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	Notes     *string `gorm:"type:varchar(100)" json:"notes"`

	Product        Product                 `gorm:"foreignKey:ProductID" json:"product"`
	Variant        *ProductVariant         `gorm:"foreignKey:VariantID" json:"variant,omitempty"`
	Customizations []CartItemCustomization `gorm:"foreignKey:CartItemID;constraint:OnDelete:CASCADE" json:"customizations"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *CartItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

type CartItemCustomization struct {
	ID             uint                `gorm:"primaryKey;autoIncrement" json:"-"`
	CartItemID     string              `gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_item_customizable" json:"-"`
	CustomizableID uint                `gorm:"not null;uniqueIndex:idx_cart_item_customizable" json:"customizable_id"`
	Action         CustomizationAction `gorm:"type:varchar(10);not null" json:"action"`
	Customizable   Customizable        `gorm:"foreignKey:CustomizableID" json:"customizable"`
}
