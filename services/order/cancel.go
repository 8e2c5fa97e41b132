package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/ClaudioDevv/e-commerce/apperror"
	"github.com/ClaudioDevv/e-commerce/gateway"
	"github.com/ClaudioDevv/e-commerce/models"
	"github.com/ClaudioDevv/e-commerce/services/pricing"
)

var errPaymentsDisabled = errors.New("online payments are not configured")

type RefundOutcome string

const (
	NoRefund      RefundOutcome = "NONE"
	Refunded      RefundOutcome = "REFUNDED"
	RefundPending RefundOutcome = "REFUND_PENDING" // cancelled, refund still owed
)

// CancelResult is returned for every successful cancellation. A failed refund is
// reported through Outcome and RefundErr; the cancellation itself stands.
type CancelResult struct {
	Order     *models.Order `json:"order"`
	Outcome   RefundOutcome `json:"refund"`
	RefundID  string        `json:"refund_id,omitempty"`
	RefundErr error         `json:"-"`
}

// Cancel cancels a PENDING or PAID order of the actor. A captured online payment
// gets exactly one refund request for the full amount.
func (s *Service) Cancel(ctx context.Context, orderID string, actor models.Actor) (*CancelResult, error) {
	if actor.IsGuest() {
		return nil, apperror.Validation("guest orders cannot be cancelled online")
	}

	order, err := s.repo.OrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !order.OwnedBy(actor.UserID) {
		return nil, apperror.NotFound("order not found")
	}

	switch {
	case order.Status == models.OrderStatusCancelled:
		return nil, apperror.Validation("the order is already cancelled")
	case !order.Status.Cancellable():
		return nil, apperror.Validation("an order in status %s cannot be cancelled", order.Status)
	}

	previous := order.Status
	ok, err := s.repo.CancelOrder(ctx, order.ID, previous)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.Validation("the order changed while it was being cancelled, please try again")
	}
	order.Status = models.OrderStatusCancelled

	s.log.InfoContext(ctx, "order cancelled", "order_id", order.ID, "actor", actor.UserID, "previous_status", previous)

	result := &CancelResult{Order: order, Outcome: NoRefund}
	if refundable(order.Payment) {
		s.refund(ctx, order, actor, result)
	}

	s.notify.OrderCancelled(order)
	return result, nil
}

func refundable(p *models.Payment) bool {
	return p != nil &&
		p.Provider.Online() &&
		p.Status == models.PaymentStatusSucceeded &&
		p.ProviderPaymentID != nil && *p.ProviderPaymentID != ""
}

func (s *Service) refund(ctx context.Context, order *models.Order, actor models.Actor, result *CancelResult) {
	payment := order.Payment
	var refund *gateway.Refund
	err := errPaymentsDisabled
	if s.refunds != nil {
		refund, err = s.refunds.CreateRefund(ctx, gateway.RefundRequest{
			PaymentID: *payment.ProviderPaymentID,
			Amount:    pricing.ToMinorUnits(payment.Amount),
			Metadata: map[string]string{
				gateway.MetaOrderID: order.ID,
				gateway.MetaUserID:  actor.UserID,
			},
		})
	}
	if err != nil {
		s.log.ErrorContext(ctx, "refund request failed", "order_id", order.ID, "payment_id", *payment.ProviderPaymentID, "error", err)

		incident := &models.PaymentIncident{
			Kind:              models.IncidentRefundPending,
			OrderID:           &order.ID,
			ProviderPaymentID: payment.ProviderPaymentID,
			Detail:            fmt.Sprintf("refund of %s failed after cancellation: %v", payment.Amount.StringFixed(2), err),
		}
		if rerr := s.repo.RecordIncident(ctx, incident); rerr != nil {
			s.log.ErrorContext(ctx, "could not record refund incident", "order_id", order.ID, "error", rerr)
		}

		result.Outcome = RefundPending
		result.RefundErr = apperror.Gateway("the order was cancelled but the refund could not be processed, support will contact you", err)
		return
	}

	if err := s.repo.MarkRefundIssued(ctx, order.ID, refund.ID); err != nil {
		// the charge.refunded event will settle the payment row
		s.log.ErrorContext(ctx, "could not store refund", "order_id", order.ID, "refund_id", refund.ID, "error", err)
	} else {
		payment.Status = models.PaymentStatusRefunded
		payment.ProviderRefundID = &refund.ID
	}

	s.log.InfoContext(ctx, "refund issued", "order_id", order.ID, "refund_id", refund.ID)
	result.Outcome = Refunded
	result.RefundID = refund.ID
}
