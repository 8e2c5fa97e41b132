package store

import (
	"context"
	"fmt"

	"github.com/ClaudioDevv/e-commerce/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LockCart takes a row lock on the cart owner so concurrent adds to one cart
// are serialized. It must run inside Atomic.
func (s *Store) LockCart(ctx context.Context, userID string) error {
	var user models.User
	err := s.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&user, "id = ?", userID).Error
	if err != nil {
		return notFound(err, "user")
	}
	return nil
}

func (s *Store) cartItems(ctx context.Context) *gorm.DB {
	return s.conn(ctx).
		Preload("Product").
		Preload("Variant").
		Preload("Customizations.Customizable")
}

func (s *Store) CartItems(ctx context.Context, userID string) ([]models.CartItem, error) {
	var items []models.CartItem
	err := s.cartItems(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return items, nil
}

func (s *Store) CartItem(ctx context.Context, userID, itemID string) (*models.CartItem, error) {
	var item models.CartItem
	err := s.cartItems(ctx).First(&item, "id = ? AND user_id = ?", itemID, userID).Error
	if err != nil {
		return nil, notFound(err, "cart item")
	}
	return &item, nil
}

func (s *Store) CreateCartItem(ctx context.Context, item *models.CartItem) error {
	return s.Atomic(ctx, func(ctx context.Context) error {
		db := s.conn(ctx)
		if err := db.Omit(clause.Associations).Create(item).Error; err != nil {
			return fmt.Errorf("create cart item: %w", err)
		}
		return s.writeCartCustomizations(db, item)
	})
}

// SaveCartItem updates quantity and notes and replaces the customization rows.
func (s *Store) SaveCartItem(ctx context.Context, item *models.CartItem) error {
	return s.Atomic(ctx, func(ctx context.Context) error {
		db := s.conn(ctx)
		err := db.Model(&models.CartItem{}).
			Where("id = ?", item.ID).
			Updates(map[string]any{"quantity": item.Quantity, "notes": item.Notes}).Error
		if err != nil {
			return fmt.Errorf("update cart item: %w", err)
		}
		if err := db.Where("cart_item_id = ?", item.ID).Delete(&models.CartItemCustomization{}).Error; err != nil {
			return fmt.Errorf("clear cart item customizations: %w", err)
		}
		return s.writeCartCustomizations(db, item)
	})
}

func (s *Store) writeCartCustomizations(db *gorm.DB, item *models.CartItem) error {
	if len(item.Customizations) == 0 {
		return nil
	}
	for i := range item.Customizations {
		item.Customizations[i].ID = 0
		item.Customizations[i].CartItemID = item.ID
	}
	if err := db.Omit(clause.Associations).Create(&item.Customizations).Error; err != nil {
		return fmt.Errorf("create cart item customizations: %w", err)
	}
	return nil
}

// DeleteCartItem reports false when the item does not exist in the user's cart.
func (s *Store) DeleteCartItem(ctx context.Context, userID, itemID string) (bool, error) {
	var deleted bool
	err := s.Atomic(ctx, func(ctx context.Context) error {
		db := s.conn(ctx)
		res := db.Where("id = ? AND user_id = ?", itemID, userID).Delete(&models.CartItem{})
		if res.Error != nil {
			return fmt.Errorf("delete cart item: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil
		}
		deleted = true
		if err := db.Where("cart_item_id = ?", itemID).Delete(&models.CartItemCustomization{}).Error; err != nil {
			return fmt.Errorf("delete cart item customizations: %w", err)
		}
		return nil
	})
	return deleted, err
}

func (s *Store) ClearCart(ctx context.Context, userID string) error {
	return s.Atomic(ctx, func(ctx context.Context) error {
		db := s.conn(ctx)
		items := db.Model(&models.CartItem{}).Select("id").Where("user_id = ?", userID)
		if err := db.Where("cart_item_id IN (?)", items).Delete(&models.CartItemCustomization{}).Error; err != nil {
			return fmt.Errorf("clear cart customizations: %w", err)
		}
		if err := db.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		return nil
	})
}

func (s *Store) RemoveCartItems(ctx context.Context, userID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return s.Atomic(ctx, func(ctx context.Context) error {
		db := s.conn(ctx)
		owned := db.Model(&models.CartItem{}).Select("id").Where("user_id = ? AND id IN ?", userID, ids)
		if err := db.Where("cart_item_id IN (?)", owned).Delete(&models.CartItemCustomization{}).Error; err != nil {
			return fmt.Errorf("remove cart customizations: %w", err)
		}
		if err := db.Where("user_id = ? AND id IN ?", userID, ids).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("remove cart items: %w", err)
		}
		return nil
	})
}
