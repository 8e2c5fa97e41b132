package store

import (
	"context"
	"fmt"
	"time"

	"github.com/ClaudioDevv/e-commerce/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateOrder writes the order with its item snapshots and payment row.
func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	return s.Atomic(ctx, func(ctx context.Context) error {
		db := s.conn(ctx)
		if err := db.Omit(clause.Associations).Create(order).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		for i := range order.Items {
			item := &order.Items[i]
			item.OrderID = order.ID
			if err := db.Omit(clause.Associations).Create(item).Error; err != nil {
				return fmt.Errorf("create order item: %w", err)
			}
			if len(item.Customizations) == 0 {
				continue
			}
			for j := range item.Customizations {
				item.Customizations[j].OrderItemID = item.ID
			}
			if err := db.Create(&item.Customizations).Error; err != nil {
				return fmt.Errorf("create order item customizations: %w", err)
			}
		}

		if order.Payment != nil {
			order.Payment.OrderID = order.ID
			if err := db.Create(order.Payment).Error; err != nil {
				return fmt.Errorf("create payment: %w", err)
			}
		}
		return nil
	})
}

func (s *Store) orders(ctx context.Context) *gorm.DB {
	return s.conn(ctx).
		Preload("Items").
		Preload("Items.Customizations").
		Preload("Payment")
}

func (s *Store) OrderByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := s.orders(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "order")
	}
	return &order, nil
}

// ListOrders returns one page of orders, newest first, and the total matching
// the filter. To is a calendar day and includes the whole day.
func (s *Store) ListOrders(ctx context.Context, filter models.OrderFilter) ([]models.Order, int64, error) {
	query := s.conn(ctx).Model(&models.Order{})
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at < ?", filter.To.Add(24*time.Hour))
	}

	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	var orders []models.Order
	err := query.
		Preload("Items").
		Preload("Items.Customizations").
		Preload("Payment").
		Order("created_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	return orders, total, nil
}

// UpdateOrderStatus moves the order to `to` when its status is one of from.
// An empty from matches any status. It reports whether a row changed.
func (s *Store) UpdateOrderStatus(ctx context.Context, id string, from []models.OrderStatus, to models.OrderStatus) (bool, error) {
	query := s.conn(ctx).Model(&models.Order{}).Where("id = ?", id)
	if len(from) > 0 {
		query = query.Where("status IN ?", from)
	}
	res := query.Update("status", to)
	if res.Error != nil {
		return false, fmt.Errorf("update order status: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// CancelOrder cancels the order only if it is still in status from.
func (s *Store) CancelOrder(ctx context.Context, id string, from models.OrderStatus) (bool, error) {
	return s.UpdateOrderStatus(ctx, id, []models.OrderStatus{from}, models.OrderStatusCancelled)
}

// MarkRefundIssued records a refund this service requested itself.
func (s *Store) MarkRefundIssued(ctx context.Context, orderID, refundID string) error {
	res := s.conn(ctx).Model(&models.Payment{}).
		Where("order_id = ?", orderID).
		Updates(map[string]any{
			"status":             models.PaymentStatusRefunded,
			"provider_refund_id": refundID,
		})
	if res.Error != nil {
		return fmt.Errorf("mark refund issued: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "payment")
	}
	return nil
}
