// Package cart keeps a registered user's cart. Adding a line that matches an
// existing one by product, variant and customization set merges into it.
package cart

import (
	"context"
	"log/slog"

	"github.com/ClaudioDevv/e-commerce/apperror"
	"github.com/ClaudioDevv/e-commerce/models"
	"github.com/ClaudioDevv/e-commerce/services/customization"
	"github.com/ClaudioDevv/e-commerce/services/pricing"
	"github.com/shopspring/decimal"
)

// DefaultMaxQuantity is the per-line cap when none is configured.
const DefaultMaxQuantity = 15

// Catalog is the product lookup shared by cart and checkout.
type Catalog interface {
	// ProductByID loads the product with variants and customization rules.
	ProductByID(ctx context.Context, id string) (*models.Product, error)
	CustomizablesByIDs(ctx context.Context, ids []uint) (map[uint]models.Customizable, error)
}

type Repository interface {
	Catalog
	Atomic(ctx context.Context, fn func(ctx context.Context) error) error

	// LockCart serializes writers of one user's cart until the unit of work ends.
	LockCart(ctx context.Context, userID string) error
	CartItems(ctx context.Context, userID string) ([]models.CartItem, error)
	CartItem(ctx context.Context, userID, itemID string) (*models.CartItem, error)
	CreateCartItem(ctx context.Context, item *models.CartItem) error
	// SaveCartItem persists quantity and notes, and replaces the customization rows.
	SaveCartItem(ctx context.Context, item *models.CartItem) error
	DeleteCartItem(ctx context.Context, userID, itemID string) (bool, error)
	ClearCart(ctx context.Context, userID string) error
}

type AddRequest struct {
	ProductID      string                  `json:"product_id" binding:"required"`
	VariantID      *string                 `json:"variant_id"`
	Quantity       int                     `json:"quantity" binding:"required,min=1"`
	Notes          *string                 `json:"notes" binding:"omitempty,max=100"`
	Customizations []customization.Request `json:"customizations" binding:"omitempty,dive"`
}

// UpdateRequest changes only the fields that are set.
type UpdateRequest struct {
	Quantity       *int                     `json:"quantity" binding:"omitempty,min=1"`
	Notes          *string                  `json:"notes" binding:"omitempty,max=100"`
	Customizations *[]customization.Request `json:"customizations" binding:"omitempty,dive"`
}

type Summary struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	TotalItems int             `json:"total_items"`
	ItemsCount int             `json:"items_count"`
}

type Service struct {
	repo        Repository
	maxQuantity int
	log         *slog.Logger
}

func NewService(repo Repository, maxQuantity int, log *slog.Logger) *Service {
	if maxQuantity <= 0 {
		maxQuantity = DefaultMaxQuantity
	}
	return &Service{repo: repo, maxQuantity: maxQuantity, log: log.With("component", "cart")}
}

// Add merges the request into an identical line or creates a new one.
func (s *Service) Add(ctx context.Context, userID string, req AddRequest) (*models.CartItem, error) {
	if err := s.checkQuantity(req.Quantity); err != nil {
		return nil, err
	}

	var result *models.CartItem
	err := s.repo.Atomic(ctx, func(ctx context.Context) error {
		if err := s.repo.LockCart(ctx, userID); err != nil {
			return err
		}

		product, variant, applied, err := s.resolve(ctx, req.ProductID, req.VariantID, req.Customizations)
		if err != nil {
			return err
		}

		items, err := s.repo.CartItems(ctx, userID)
		if err != nil {
			return err
		}

		var variantID *string
		if variant != nil {
			variantID = &variant.ID
		}

		if existing := FindIdentical(items, product.ID, variantID, req.Customizations); existing != nil {
			quantity := existing.Quantity + req.Quantity
			if quantity > s.maxQuantity {
				return apperror.Validation("a line can hold at most %d units of %s (you already have %d)", s.maxQuantity, product.Name, existing.Quantity)
			}
			existing.Quantity = quantity
			if req.Notes != nil {
				existing.Notes = req.Notes
			}
			if err := s.repo.SaveCartItem(ctx, existing); err != nil {
				return err
			}
			result = existing
			return nil
		}

		item := &models.CartItem{
			UserID:         userID,
			ProductID:      product.ID,
			VariantID:      variantID,
			Quantity:       req.Quantity,
			Notes:          req.Notes,
			Product:        *product,
			Variant:        variant,
			Customizations: customizationRows(applied),
		}
		if err := s.repo.CreateCartItem(ctx, item); err != nil {
			return err
		}
		result = item
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.DebugContext(ctx, "cart line stored", "user_id", userID, "item_id", result.ID, "quantity", result.Quantity)
	return result, nil
}

// Update edits one line. New customizations are validated against the line's product.
func (s *Service) Update(ctx context.Context, userID, itemID string, req UpdateRequest) (*models.CartItem, error) {
	if req.Quantity != nil {
		if err := s.checkQuantity(*req.Quantity); err != nil {
			return nil, err
		}
	}

	var result *models.CartItem
	err := s.repo.Atomic(ctx, func(ctx context.Context) error {
		if err := s.repo.LockCart(ctx, userID); err != nil {
			return err
		}

		item, err := s.repo.CartItem(ctx, userID, itemID)
		if err != nil {
			return err
		}

		if req.Quantity != nil {
			item.Quantity = *req.Quantity
		}
		if req.Notes != nil {
			item.Notes = req.Notes
		}
		if req.Customizations != nil {
			_, _, applied, err := s.resolve(ctx, item.ProductID, item.VariantID, *req.Customizations)
			if err != nil {
				return err
			}
			item.Customizations = customizationRows(applied)
		}

		if err := s.repo.SaveCartItem(ctx, item); err != nil {
			return err
		}
		result = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) Remove(ctx context.Context, userID, itemID string) error {
	deleted, err := s.repo.DeleteCartItem(ctx, userID, itemID)
	if err != nil {
		return err
	}
	if !deleted {
		return apperror.NotFound("cart item not found")
	}
	return nil
}

func (s *Service) Clear(ctx context.Context, userID string) error {
	return s.repo.ClearCart(ctx, userID)
}

func (s *Service) List(ctx context.Context, userID string) ([]models.CartItem, error) {
	return s.repo.CartItems(ctx, userID)
}

// Summary prices the cart at current catalog prices.
func (s *Service) Summary(ctx context.Context, userID string) (Summary, error) {
	items, err := s.repo.CartItems(ctx, userID)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{Subtotal: decimal.Zero, ItemsCount: len(items)}
	for _, item := range items {
		unit := pricing.ProductUnitPrice(&item.Product, item.Variant, Modifiers(item.Customizations))
		summary.Subtotal = summary.Subtotal.Add(pricing.LineSubtotal(unit, item.Quantity))
		summary.TotalItems += item.Quantity
	}
	return summary, nil
}

// Requests turns stored customization rows back into requests.
func Requests(rows []models.CartItemCustomization) []customization.Request {
	reqs := make([]customization.Request, 0, len(rows))
	for _, c := range rows {
		reqs = append(reqs, customization.Request{CustomizableID: c.CustomizableID, Action: c.Action})
	}
	return reqs
}

// Modifiers prices stored customization rows with their preloaded records.
func Modifiers(rows []models.CartItemCustomization) []pricing.Modifier {
	mods := make([]pricing.Modifier, 0, len(rows))
	for _, c := range rows {
		mods = append(mods, pricing.Modifier{ExtraPrice: c.Customizable.ExtraPrice, Action: c.Action})
	}
	return mods
}

func (s *Service) checkQuantity(quantity int) error {
	if quantity < 1 || quantity > s.maxQuantity {
		return apperror.Validation("quantity must be between 1 and %d", s.maxQuantity)
	}
	return nil
}

func (s *Service) resolve(ctx context.Context, productID string, variantID *string, requests []customization.Request) (*models.Product, *models.ProductVariant, []customization.Applied, error) {
	product, err := s.repo.ProductByID(ctx, productID)
	if err != nil {
		return nil, nil, nil, err
	}
	if !product.Active {
		return nil, nil, nil, apperror.Validation("%s is not available", product.Name)
	}

	variant, err := ResolveVariant(product, variantID)
	if err != nil {
		return nil, nil, nil, err
	}

	known, err := s.repo.CustomizablesByIDs(ctx, customization.IDs(requests))
	if err != nil {
		return nil, nil, nil, err
	}
	applied, err := customization.Validate(product, requests, known)
	if err != nil {
		return nil, nil, nil, err
	}
	return product, variant, applied, nil
}
