// Package stripe implements the payment gateway on top of stripe-go.
package stripe

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ClaudioDevv/e-commerce/gateway"
	"github.com/ClaudioDevv/e-commerce/services/payment"
	stripego "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

// Event types handled besides the ones stripe-go names.
const (
	eventRefundFailed  = "refund.failed"
	eventRefundUpdated = "charge.refund.updated"
)

type Client struct {
	api           *client.API
	webhookSecret string
}

// New builds a client for the live API. backends may be nil.
func New(secretKey, webhookSecret string, backends *stripego.Backends) *Client {
	return &Client{api: client.New(secretKey, backends), webhookSecret: webhookSecret}
}

var (
	_ gateway.SessionCreator = (*Client)(nil)
	_ gateway.Refunder       = (*Client)(nil)
	_ payment.Verifier       = (*Client)(nil)
)

func (c *Client) CreateCheckoutSession(ctx context.Context, req gateway.SessionRequest) (*gateway.Session, error) {
	params := &stripego.CheckoutSessionParams{
		Mode:       stripego.String(string(stripego.CheckoutSessionModePayment)),
		SuccessURL: stripego.String(req.SuccessURL),
		CancelURL:  stripego.String(req.CancelURL),
		PaymentIntentData: &stripego.CheckoutSessionPaymentIntentDataParams{
			Metadata: req.Metadata,
		},
	}
	params.Context = ctx
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	for _, line := range req.Lines {
		params.LineItems = append(params.LineItems, &stripego.CheckoutSessionLineItemParams{
			PriceData: &stripego.CheckoutSessionLineItemPriceDataParams{
				Currency: stripego.String(req.Currency),
				ProductData: &stripego.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripego.String(line.Name),
				},
				UnitAmount: stripego.Int64(line.UnitAmount),
			},
			Quantity: stripego.Int64(line.Quantity),
		})
	}

	session, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	return &gateway.Session{ID: session.ID, URL: session.URL}, nil
}

func (c *Client) CreateRefund(ctx context.Context, req gateway.RefundRequest) (*gateway.Refund, error) {
	params := &stripego.RefundParams{
		PaymentIntent: stripego.String(req.PaymentID),
		Amount:        stripego.Int64(req.Amount),
	}
	params.Context = ctx
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	refund, err := c.api.Refunds.New(params)
	if err != nil {
		return nil, fmt.Errorf("create refund: %w", err)
	}
	return &gateway.Refund{ID: refund.ID}, nil
}

// VerifyEvent checks the Stripe-Signature header and maps the event to one of
// the payment variants. Types with no variant become payment.Unrecognized.
func (c *Client) VerifyEvent(payload []byte, signature string) (payment.Event, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, c.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, err
	}
	return toEvent(event)
}

func toEvent(event stripego.Event) (payment.Event, error) {
	meta := payment.Meta{ID: event.ID, Type: string(event.Type)}

	switch event.Type {
	case stripego.EventTypeCheckoutSessionCompleted:
		var session stripego.CheckoutSession
		if err := decode(event, &session); err != nil {
			return nil, err
		}
		e := payment.PaymentSucceeded{Meta: meta, OrderID: session.Metadata[gateway.MetaOrderID]}
		if session.PaymentIntent != nil {
			e.PaymentID = session.PaymentIntent.ID
		}
		return e, nil

	case stripego.EventTypeCheckoutSessionExpired:
		var session stripego.CheckoutSession
		if err := decode(event, &session); err != nil {
			return nil, err
		}
		return payment.CheckoutExpired{Meta: meta, OrderID: session.Metadata[gateway.MetaOrderID]}, nil

	case stripego.EventTypeChargeRefunded:
		var charge stripego.Charge
		if err := decode(event, &charge); err != nil {
			return nil, err
		}
		e := payment.ChargeRefunded{Meta: meta}
		if charge.PaymentIntent != nil {
			e.PaymentID = charge.PaymentIntent.ID
		}
		// Stripe lists the newest refund first.
		if charge.Refunds != nil && len(charge.Refunds.Data) > 0 {
			e.RefundID = charge.Refunds.Data[0].ID
		}
		return e, nil

	case eventRefundFailed, eventRefundUpdated:
		var refund stripego.Refund
		if err := decode(event, &refund); err != nil {
			return nil, err
		}
		if refund.Status != stripego.RefundStatusFailed {
			return payment.Unrecognized{Meta: meta}, nil
		}
		e := payment.RefundFailed{
			Meta:     meta,
			RefundID: refund.ID,
			OrderID:  refund.Metadata[gateway.MetaOrderID],
			Reason:   string(refund.FailureReason),
		}
		if refund.PaymentIntent != nil {
			e.PaymentID = refund.PaymentIntent.ID
		}
		return e, nil
	}

	return payment.Unrecognized{Meta: meta}, nil
}

func decode(event stripego.Event, into any) error {
	if event.Data == nil {
		return fmt.Errorf("event %s has no data", event.ID)
	}
	if err := json.Unmarshal(event.Data.Raw, into); err != nil {
		return fmt.Errorf("decode %s: %w", event.Type, err)
	}
	return nil
}
