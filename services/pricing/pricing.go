// Package pricing computes line and order amounts. Every amount is a
// decimal.Decimal; floats never touch money.
package pricing

import (
	"github.com/ClaudioDevv/e-commerce/models"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Modifier is a customization as far as the price is concerned.
type Modifier struct {
	ExtraPrice decimal.Decimal
	Action     models.CustomizationAction
}

// UnitPrice is basePrice + variantDelta + the extra price of every added
// customizable. Removed ingredients are free.
func UnitPrice(basePrice decimal.Decimal, variantDelta *decimal.Decimal, modifiers []Modifier) decimal.Decimal {
	price := basePrice
	if variantDelta != nil {
		price = price.Add(*variantDelta)
	}
	for _, m := range modifiers {
		if m.Action == models.ActionAdd {
			price = price.Add(m.ExtraPrice)
		}
	}
	return price
}

// ProductUnitPrice resolves UnitPrice from catalog records.
func ProductUnitPrice(product *models.Product, variant *models.ProductVariant, modifiers []Modifier) decimal.Decimal {
	var delta *decimal.Decimal
	if variant != nil {
		delta = &variant.PriceDelta
	}
	return UnitPrice(product.BasePrice, delta, modifiers)
}

func LineSubtotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

func Total(subtotal, deliveryFee decimal.Decimal) decimal.Decimal {
	return subtotal.Add(deliveryFee)
}

// DeliveryFee is the settings fee for deliveries and zero for pickups.
func DeliveryFee(deliveryType models.DeliveryType, settings models.Settings) decimal.Decimal {
	if deliveryType == models.DeliveryTypeDelivery {
		return settings.DeliveryFee
	}
	return decimal.Zero
}

// ToMinorUnits converts an amount to cents, rounding half up.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}
