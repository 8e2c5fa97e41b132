// Package payment applies provider payment events to orders and payments.
// Every handler is idempotent: the provider delivers at least once and in any
// order, so each transition is a guarded update and replays are no-ops.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ClaudioDevv/e-commerce/apperror"
	"github.com/ClaudioDevv/e-commerce/models"
)

type Repository interface {
	Atomic(ctx context.Context, fn func(ctx context.Context) error) error

	OrderByID(ctx context.Context, id string) (*models.Order, error)
	PaymentByProviderID(ctx context.Context, providerPaymentID string) (*models.Payment, error)

	// UpdateOrderStatus sets to when the order is in one of from; an empty from
	// matches any status. It reports whether a row changed.
	UpdateOrderStatus(ctx context.Context, id string, from []models.OrderStatus, to models.OrderStatus) (bool, error)
	// MarkPaymentSucceeded stores the capture on a PENDING payment.
	MarkPaymentSucceeded(ctx context.Context, orderID, providerPaymentID string) (bool, error)
	// MarkPaymentRefunded stores the refund on a payment not yet REFUNDED.
	MarkPaymentRefunded(ctx context.Context, providerPaymentID, refundID string) (bool, error)
	RecordIncident(ctx context.Context, incident *models.PaymentIncident) error
}

// Verifier authenticates a raw webhook body and decodes it.
type Verifier interface {
	VerifyEvent(payload []byte, signature string) (Event, error)
}

type Notifier interface {
	OrderPaid(order *models.Order)
}

type Reconciler struct {
	repo     Repository
	verifier Verifier
	notify   Notifier
	log      *slog.Logger
}

var _ Handler = (*Reconciler)(nil)

func NewReconciler(repo Repository, verifier Verifier, notify Notifier, log *slog.Logger) *Reconciler {
	return &Reconciler{repo: repo, verifier: verifier, notify: notify, log: log.With("component", "payment")}
}

// HandleEvent verifies and applies one webhook delivery. Only a bad signature is
// returned as an error; a recognized event whose handler fails is logged,
// recorded as an incident and still acknowledged.
func (r *Reconciler) HandleEvent(ctx context.Context, payload []byte, signature string) error {
	event, err := r.verifier.VerifyEvent(payload, signature)
	if err != nil {
		if apperror.Is(err, apperror.KindSignature) {
			return err
		}
		return apperror.Signature(err)
	}

	meta := event.EventMeta()
	log := r.log.With("event_id", meta.ID, "event_type", meta.Type)
	log.DebugContext(ctx, "payment event received")

	if err := Dispatch(ctx, r, event); err != nil {
		log.ErrorContext(ctx, "payment event not applied", "error", err)
		incident := &models.PaymentIncident{
			Kind:      models.IncidentEventFailed,
			EventType: meta.Type,
			Detail:    fmt.Sprintf("event %s: %v", meta.ID, err),
		}
		fillIncident(incident, event)
		if rerr := r.repo.RecordIncident(ctx, incident); rerr != nil {
			log.ErrorContext(ctx, "could not record payment incident", "error", rerr)
		}
	}
	return nil
}

func (r *Reconciler) PaymentSucceeded(ctx context.Context, e PaymentSucceeded) error {
	if e.OrderID == "" {
		return errors.New("checkout session without order metadata")
	}

	var paid *models.Order
	err := r.repo.Atomic(ctx, func(ctx context.Context) error {
		order, err := r.repo.OrderByID(ctx, e.OrderID)
		if err != nil {
			return err
		}

		switch order.Status {
		case models.OrderStatusPaid:
			r.log.InfoContext(ctx, "order already paid", "order_id", order.ID)
			return nil
		case models.OrderStatusCancelled:
			return r.captureAfterCancel(ctx, e)
		}

		moved, err := r.repo.UpdateOrderStatus(ctx, order.ID, []models.OrderStatus{models.OrderStatusPending}, models.OrderStatusPaid)
		if err != nil {
			return err
		}
		if !moved {
			// lost a race with another delivery or a cancellation
			current, err := r.repo.OrderByID(ctx, e.OrderID)
			if err != nil {
				return err
			}
			if current.Status == models.OrderStatusCancelled {
				return r.captureAfterCancel(ctx, e)
			}
			return nil
		}

		if _, err := r.repo.MarkPaymentSucceeded(ctx, order.ID, e.PaymentID); err != nil {
			return err
		}
		order.Status = models.OrderStatusPaid
		paid = order
		return nil
	})
	if err != nil {
		return err
	}

	if paid != nil {
		r.log.InfoContext(ctx, "order paid", "order_id", paid.ID, "payment_id", e.PaymentID)
		if r.notify != nil {
			r.notify.OrderPaid(paid)
		}
	}
	return nil
}

// captureAfterCancel keeps the order cancelled, remembers the capture so it can
// be refunded, and flags it for a human.
func (r *Reconciler) captureAfterCancel(ctx context.Context, e PaymentSucceeded) error {
	stored, err := r.repo.MarkPaymentSucceeded(ctx, e.OrderID, e.PaymentID)
	if err != nil {
		return err
	}
	if !stored {
		return nil
	}

	r.log.WarnContext(ctx, "payment captured for a cancelled order", "order_id", e.OrderID, "payment_id", e.PaymentID)
	orderID, paymentID := e.OrderID, e.PaymentID
	return r.repo.RecordIncident(ctx, &models.PaymentIncident{
		Kind:              models.IncidentPaidAfterCancel,
		OrderID:           &orderID,
		ProviderPaymentID: &paymentID,
		EventType:         e.Type,
		Detail:            "payment captured after the order was cancelled, refund it manually",
	})
}

func (r *Reconciler) CheckoutExpired(ctx context.Context, e CheckoutExpired) error {
	if e.OrderID == "" {
		return errors.New("expired session without order metadata")
	}

	moved, err := r.repo.UpdateOrderStatus(ctx, e.OrderID, nil, models.OrderStatusCancelled)
	if err != nil {
		return err
	}
	if !moved {
		return apperror.NotFound("order %s not found", e.OrderID)
	}
	r.log.InfoContext(ctx, "checkout expired, order cancelled", "order_id", e.OrderID)
	return nil
}

func (r *Reconciler) ChargeRefunded(ctx context.Context, e ChargeRefunded) error {
	if e.RefundID == "" {
		r.log.WarnContext(ctx, "refund event without refund id, skipped", "payment_id", e.PaymentID)
		return nil
	}

	payment, err := r.repo.PaymentByProviderID(ctx, e.PaymentID)
	if err != nil {
		return err
	}
	if payment.Status == models.PaymentStatusRefunded {
		r.log.InfoContext(ctx, "payment already refunded", "order_id", payment.OrderID)
		return nil
	}

	if _, err := r.repo.MarkPaymentRefunded(ctx, e.PaymentID, e.RefundID); err != nil {
		return err
	}
	r.log.InfoContext(ctx, "payment refunded", "order_id", payment.OrderID, "refund_id", e.RefundID)
	return nil
}

func (r *Reconciler) RefundFailed(ctx context.Context, e RefundFailed) error {
	r.log.ErrorContext(ctx, "refund failed at the provider", "payment_id", e.PaymentID, "refund_id", e.RefundID, "reason", e.Reason)

	incident := &models.PaymentIncident{
		Kind:      models.IncidentRefundFailed,
		EventType: e.Type,
		Detail:    "refund failed: " + e.Reason,
	}
	fillIncident(incident, e)
	return r.repo.RecordIncident(ctx, incident)
}

func (r *Reconciler) Unrecognized(ctx context.Context, e Unrecognized) error {
	r.log.DebugContext(ctx, "ignoring payment event", "event_type", e.Type)
	return nil
}

func fillIncident(incident *models.PaymentIncident, event Event) {
	set := func(dst **string, v string) {
		if v != "" {
			*dst = &v
		}
	}
	switch e := event.(type) {
	case PaymentSucceeded:
		set(&incident.OrderID, e.OrderID)
		set(&incident.ProviderPaymentID, e.PaymentID)
	case CheckoutExpired:
		set(&incident.OrderID, e.OrderID)
	case ChargeRefunded:
		set(&incident.ProviderPaymentID, e.PaymentID)
		set(&incident.ProviderRefundID, e.RefundID)
	case RefundFailed:
		set(&incident.OrderID, e.OrderID)
		set(&incident.ProviderPaymentID, e.PaymentID)
		set(&incident.ProviderRefundID, e.RefundID)
	}
}
