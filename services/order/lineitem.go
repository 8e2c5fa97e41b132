package order

import (
	"context"

	"github.com/ClaudioDevv/e-commerce/apperror"
	"github.com/ClaudioDevv/e-commerce/models"
	"github.com/ClaudioDevv/e-commerce/services/cart"
	"github.com/ClaudioDevv/e-commerce/services/customization"
	"github.com/ClaudioDevv/e-commerce/services/pricing"
	"github.com/shopspring/decimal"
)

type Source int

const (
	CartSourced Source = iota + 1
	InlineSourced
)

func (s Source) String() string {
	switch s {
	case CartSourced:
		return "cart"
	case InlineSourced:
		return "inline"
	default:
		return "unknown"
	}
}

// LineItem is one line to be ordered, whichever way it arrived.
type LineItem struct {
	Source         Source
	CartItemID     string // set for cart-sourced lines
	ProductID      string
	VariantID      *string
	Quantity       int
	Notes          *string
	Customizations []customization.Request
}

// ItemRequest is a line sent inline by a guest.
type ItemRequest struct {
	ProductID      string                  `json:"product_id" binding:"required"`
	VariantID      *string                 `json:"variant_id"`
	Quantity       int                     `json:"quantity" binding:"required,min=1"`
	Notes          *string                 `json:"notes" binding:"omitempty,max=100"`
	Customizations []customization.Request `json:"customizations" binding:"omitempty,dive"`
}

func FromCart(items []models.CartItem) []LineItem {
	lines := make([]LineItem, 0, len(items))
	for _, item := range items {
		lines = append(lines, LineItem{
			Source:         CartSourced,
			CartItemID:     item.ID,
			ProductID:      item.ProductID,
			VariantID:      item.VariantID,
			Quantity:       item.Quantity,
			Notes:          item.Notes,
			Customizations: cart.Requests(item.Customizations),
		})
	}
	return lines
}

func Inline(items []ItemRequest) []LineItem {
	lines := make([]LineItem, 0, len(items))
	for _, item := range items {
		lines = append(lines, LineItem{
			Source:         InlineSourced,
			ProductID:      item.ProductID,
			VariantID:      item.VariantID,
			Quantity:       item.Quantity,
			Notes:          item.Notes,
			Customizations: item.Customizations,
		})
	}
	return lines
}

// enrich resolves every line against the current catalog and returns the
// priced snapshots plus their subtotal.
func (s *Service) enrich(ctx context.Context, lines []LineItem) ([]models.OrderItem, decimal.Decimal, error) {
	var ids []uint
	for _, line := range lines {
		ids = append(ids, customization.IDs(line.Customizations)...)
	}
	known, err := s.repo.CustomizablesByIDs(ctx, ids)
	if err != nil {
		return nil, decimal.Zero, err
	}

	products := make(map[string]*models.Product)
	items := make([]models.OrderItem, 0, len(lines))
	subtotal := decimal.Zero

	for _, line := range lines {
		if line.Quantity < 1 || line.Quantity > s.maxQuantity {
			return nil, decimal.Zero, apperror.Validation("quantity must be between 1 and %d", s.maxQuantity)
		}

		product, ok := products[line.ProductID]
		if !ok {
			product, err = s.repo.ProductByID(ctx, line.ProductID)
			if err != nil {
				return nil, decimal.Zero, err
			}
			products[line.ProductID] = product
		}
		if !product.Active {
			return nil, decimal.Zero, apperror.Validation("%s is not available", product.Name)
		}

		variant, err := cart.ResolveVariant(product, line.VariantID)
		if err != nil {
			return nil, decimal.Zero, err
		}

		applied, err := customization.Validate(product, line.Customizations, known)
		if err != nil {
			return nil, decimal.Zero, err
		}

		unit := pricing.ProductUnitPrice(product, variant, customization.Modifiers(applied))
		lineSubtotal := pricing.LineSubtotal(unit, line.Quantity)
		subtotal = subtotal.Add(lineSubtotal)

		items = append(items, snapshot(product, variant, line, applied, unit, lineSubtotal))
	}
	return items, subtotal, nil
}

func snapshot(product *models.Product, variant *models.ProductVariant, line LineItem, applied []customization.Applied, unit, subtotal decimal.Decimal) models.OrderItem {
	item := models.OrderItem{
		ProductID:      product.ID,
		NameSnapshot:   product.Name,
		NotesSnapshot:  line.Notes,
		UnitPrice:      unit,
		Quantity:       line.Quantity,
		Subtotal:       subtotal,
		Customizations: make([]models.OrderItemCustomization, 0, len(applied)),
	}
	if variant != nil {
		id, name := variant.ID, variant.Name
		item.VariantID = &id
		item.VariantSnapshot = &name
	}
	for _, a := range applied {
		item.Customizations = append(item.Customizations, models.OrderItemCustomization{
			CustomizableID: a.Customizable.ID,
			Action:         a.Action,
			NameSnapshot:   a.Customizable.Name,
			PriceSnapshot:  a.Customizable.ExtraPrice,
		})
	}
	return item
}
