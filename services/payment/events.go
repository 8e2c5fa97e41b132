package payment

import "context"

// Meta identifies the provider event a variant was decoded from.
type Meta struct {
	ID   string
	Type string
}

func (m Meta) EventMeta() Meta { return m }

// Event is the closed set of payment events the reconciler understands. The
// unexported method keeps other packages from adding variants.
type Event interface {
	EventMeta() Meta
	accept(ctx context.Context, h Handler) error
}

// PaymentSucceeded means the checkout session of an order was paid.
type PaymentSucceeded struct {
	Meta
	OrderID   string
	PaymentID string
}

// CheckoutExpired means the customer never completed the checkout session.
type CheckoutExpired struct {
	Meta
	OrderID string
}

// ChargeRefunded means a refund of the capture went through.
type ChargeRefunded struct {
	Meta
	PaymentID string
	RefundID  string
}

// RefundFailed means the provider gave up on a refund.
type RefundFailed struct {
	Meta
	PaymentID string
	RefundID  string
	OrderID   string
	Reason    string
}

// Unrecognized is any other event type; it is acknowledged and ignored.
type Unrecognized struct {
	Meta
}

// Handler has one method per Event variant, so an implementation that misses a
// variant does not compile.
type Handler interface {
	PaymentSucceeded(ctx context.Context, e PaymentSucceeded) error
	CheckoutExpired(ctx context.Context, e CheckoutExpired) error
	ChargeRefunded(ctx context.Context, e ChargeRefunded) error
	RefundFailed(ctx context.Context, e RefundFailed) error
	Unrecognized(ctx context.Context, e Unrecognized) error
}

func Dispatch(ctx context.Context, h Handler, e Event) error {
	return e.accept(ctx, h)
}

func (e PaymentSucceeded) accept(ctx context.Context, h Handler) error { return h.PaymentSucceeded(ctx, e) }
func (e CheckoutExpired) accept(ctx context.Context, h Handler) error  { return h.CheckoutExpired(ctx, e) }
func (e ChargeRefunded) accept(ctx context.Context, h Handler) error   { return h.ChargeRefunded(ctx, e) }
func (e RefundFailed) accept(ctx context.Context, h Handler) error     { return h.RefundFailed(ctx, e) }
func (e Unrecognized) accept(ctx context.Context, h Handler) error     { return h.Unrecognized(ctx, e) }
