package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductCategory string

const (
	CategoryPizza   ProductCategory = "PIZZA"
	CategoryBurger  ProductCategory = "BURGER"
	CategoryStarter ProductCategory = "STARTER"
	CategoryDessert ProductCategory = "DESSERT"
	CategoryDrink   ProductCategory = "DRINK"
)

type Product struct {
	ID                 string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name               string          `gorm:"not null" json:"name"`
	Description        string          `json:"description"`
	BasePrice          decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"base_price"`
	Category           ProductCategory `gorm:"type:varchar(20);not null" json:"category"`
	Active             bool            `gorm:"not null" json:"active"`
	AllowCustomization bool            `gorm:"not null" json:"allow_customization"`

	Variants               []ProductVariant               `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variants,omitempty"`
	BaseCustomizables      []ProductBaseCustomizable      `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"base_customizables,omitempty"`
	AvailableCustomizables []ProductAvailableCustomizable `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"available_customizables,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// ActiveVariants filters out variants that are no longer sold.
func (p *Product) ActiveVariants() []ProductVariant {
	active := make([]ProductVariant, 0, len(p.Variants))
	for _, v := range p.Variants {
		if v.Active {
			active = append(active, v)
		}
	}
	return active
}

type ProductVariant struct {
	ID         string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	ProductID  string          `gorm:"type:varchar(36);index;not null" json:"product_id"`
	Name       string          `gorm:"not null" json:"name"`
	PriceDelta decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price_delta"`
	Active     bool            `gorm:"not null" json:"active"`
}

func (v *ProductVariant) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

// ProductBaseCustomizable is an ingredient the product ships with.
type ProductBaseCustomizable struct {
	ProductID      string       `gorm:"primaryKey;type:varchar(36)" json:"product_id"`
	CustomizableID uint         `gorm:"primaryKey" json:"customizable_id"`
	IsRemovable    bool         `gorm:"not null" json:"is_removable"`
	Customizable   Customizable `gorm:"foreignKey:CustomizableID" json:"customizable"`
}

// ProductAvailableCustomizable is an extra that may be added for its price.
type ProductAvailableCustomizable struct {
	ProductID      string       `gorm:"primaryKey;type:varchar(36)" json:"product_id"`
	CustomizableID uint         `gorm:"primaryKey" json:"customizable_id"`
	Customizable   Customizable `gorm:"foreignKey:CustomizableID" json:"customizable"`
}

type Customizable struct {
	ID         uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Name       string          `gorm:"not null" json:"name"`
	ExtraPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"extra_price"`
	Available  bool            `gorm:"not null" json:"available"`
}

type CustomizationAction string

const (
	ActionAdd    CustomizationAction = "ADD"
	ActionRemove CustomizationAction = "REMOVE"
)

func (a CustomizationAction) Valid() bool {
	return a == ActionAdd || a == ActionRemove
}
