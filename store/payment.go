package store

import (
	"context"
	"fmt"

	"github.com/ClaudioDevv/e-commerce/models"
)

func (s *Store) PaymentByProviderID(ctx context.Context, providerPaymentID string) (*models.Payment, error) {
	var payment models.Payment
	err := s.conn(ctx).First(&payment, "provider_payment_id = ?", providerPaymentID).Error
	if err != nil {
		return nil, notFound(err, "payment")
	}
	return &payment, nil
}

// MarkPaymentSucceeded stores the capture on a PENDING payment. A payment that
// already left PENDING is not touched and false is returned.
func (s *Store) MarkPaymentSucceeded(ctx context.Context, orderID, providerPaymentID string) (bool, error) {
	res := s.conn(ctx).Model(&models.Payment{}).
		Where("order_id = ? AND status = ?", orderID, models.PaymentStatusPending).
		Updates(map[string]any{
			"status":              models.PaymentStatusSucceeded,
			"provider_payment_id": providerPaymentID,
		})
	if res.Error != nil {
		return false, fmt.Errorf("mark payment succeeded: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// MarkPaymentRefunded records a refund reported by the provider.
func (s *Store) MarkPaymentRefunded(ctx context.Context, providerPaymentID, refundID string) (bool, error) {
	res := s.conn(ctx).Model(&models.Payment{}).
		Where("provider_payment_id = ? AND status <> ?", providerPaymentID, models.PaymentStatusRefunded).
		Updates(map[string]any{
			"status":             models.PaymentStatusRefunded,
			"provider_refund_id": refundID,
		})
	if res.Error != nil {
		return false, fmt.Errorf("mark payment refunded: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *Store) SetPaymentSession(ctx context.Context, orderID, sessionID string) error {
	res := s.conn(ctx).Model(&models.Payment{}).
		Where("order_id = ?", orderID).
		Update("session_id", sessionID)
	if res.Error != nil {
		return fmt.Errorf("store payment session: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("store payment session: no payment for order %s", orderID)
	}
	return nil
}
