// Package gateway holds the provider-neutral shapes exchanged with the payment
// provider. The stripe subpackage is the production implementation.
package gateway

import "context"

// GuestMarker is sent as the user metadata of orders placed without an account.
const GuestMarker = "guest"

// Metadata keys attached to sessions and refunds.
const (
	MetaOrderID = "orderId"
	MetaUserID  = "userId"
)

type SessionLine struct {
	Name string
	// UnitAmount is in minor units of Currency.
	UnitAmount int64
	Quantity   int64
}

type SessionRequest struct {
	Currency   string
	Lines      []SessionLine
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string
}

type Session struct {
	ID  string `json:"session_id"`
	URL string `json:"checkout_url"`
}

type RefundRequest struct {
	PaymentID string
	// Amount is in minor units; the whole capture is refunded.
	Amount   int64
	Metadata map[string]string
}

type Refund struct {
	ID string
}

type SessionCreator interface {
	CreateCheckoutSession(ctx context.Context, req SessionRequest) (*Session, error)
}

type Refunder interface {
	CreateRefund(ctx context.Context, req RefundRequest) (*Refund, error)
}
