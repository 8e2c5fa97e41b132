// Package checkout opens hosted payment sessions for orders paid online.
package checkout

import (
	"context"
	"log/slog"

	"github.com/ClaudioDevv/e-commerce/apperror"
	"github.com/ClaudioDevv/e-commerce/gateway"
	"github.com/ClaudioDevv/e-commerce/models"
	"github.com/ClaudioDevv/e-commerce/services/order"
	"github.com/ClaudioDevv/e-commerce/services/pricing"
)

// DeliveryFeeLabel names the extra session line carrying the delivery fee.
const DeliveryFeeLabel = "Delivery fee"

type Repository interface {
	OrderByID(ctx context.Context, id string) (*models.Order, error)
	SetPaymentSession(ctx context.Context, orderID, sessionID string) error
}

type URLs struct {
	Success string
	Cancel  string
}

// URLsFor builds the return pages of the storefront at frontend.
func URLsFor(frontend string) URLs {
	return URLs{
		Success: frontend + "/order-success?session_id={CHECKOUT_SESSION_ID}",
		Cancel:  frontend + "/order-cancelled",
	}
}

type Service struct {
	repo     Repository
	sessions gateway.SessionCreator
	currency string
	urls     URLs
	log      *slog.Logger
}

func NewService(repo Repository, sessions gateway.SessionCreator, currency string, urls URLs, log *slog.Logger) *Service {
	return &Service{repo: repo, sessions: sessions, currency: currency, urls: urls, log: log.With("component", "checkout")}
}

// BuildSessionRequest turns a pending online order into a session request: one
// line per item plus the delivery fee when there is one.
func BuildSessionRequest(o *models.Order, currency string, urls URLs) (gateway.SessionRequest, error) {
	if o.Status != models.OrderStatusPending {
		return gateway.SessionRequest{}, apperror.Validation("this order cannot be paid")
	}
	if o.Payment == nil || o.Payment.Provider != models.ProviderStripe {
		return gateway.SessionRequest{}, apperror.Validation("this order is not set up for online payment")
	}

	lines := make([]gateway.SessionLine, 0, len(o.Items)+1)
	for _, item := range o.Items {
		lines = append(lines, gateway.SessionLine{
			Name:       lineName(item),
			UnitAmount: pricing.ToMinorUnits(item.UnitPrice),
			Quantity:   int64(item.Quantity),
		})
	}
	if o.DeliveryFee.IsPositive() {
		lines = append(lines, gateway.SessionLine{
			Name:       DeliveryFeeLabel,
			UnitAmount: pricing.ToMinorUnits(o.DeliveryFee),
			Quantity:   1,
		})
	}

	userID := gateway.GuestMarker
	if o.UserID != nil && *o.UserID != "" {
		userID = *o.UserID
	}

	return gateway.SessionRequest{
		Currency:   currency,
		Lines:      lines,
		SuccessURL: urls.Success,
		CancelURL:  urls.Cancel,
		Metadata: map[string]string{
			gateway.MetaOrderID: o.ID,
			gateway.MetaUserID:  userID,
		},
	}, nil
}

func lineName(item models.OrderItem) string {
	if item.VariantSnapshot != nil && *item.VariantSnapshot != "" {
		return item.NameSnapshot + " (" + *item.VariantSnapshot + ")"
	}
	return item.NameSnapshot
}

// Create opens a session for an order visible to actor and stores its id on the payment.
func (s *Service) Create(ctx context.Context, orderID string, actor models.Actor) (*gateway.Session, error) {
	if s.sessions == nil {
		return nil, apperror.Validation("online payment is not available")
	}

	o, err := s.repo.OrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Visible(o, actor) {
		return nil, apperror.NotFound("order not found")
	}

	req, err := BuildSessionRequest(o, s.currency, s.urls)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.CreateCheckoutSession(ctx, req)
	if err != nil {
		s.log.ErrorContext(ctx, "checkout session failed", "order_id", o.ID, "error", err)
		return nil, apperror.Gateway("the payment provider is not available, please try again", err)
	}

	if err := s.repo.SetPaymentSession(ctx, o.ID, session.ID); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "checkout session created", "order_id", o.ID, "session_id", session.ID)
	return session, nil
}
