// Package order turns a cart or a guest's inline items into a priced, scheduled
// order in one transaction, and cancels orders with their refund.
package order

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/ClaudioDevv/e-commerce/apperror"
	"github.com/ClaudioDevv/e-commerce/gateway"
	"github.com/ClaudioDevv/e-commerce/models"
	"github.com/ClaudioDevv/e-commerce/services/cart"
	"github.com/ClaudioDevv/e-commerce/services/pricing"
	"github.com/google/uuid"
)

type Repository interface {
	cart.Catalog
	Atomic(ctx context.Context, fn func(ctx context.Context) error) error

	Settings(ctx context.Context) (*models.Settings, error)
	UserByID(ctx context.Context, id string) (*models.User, error)
	AddressByID(ctx context.Context, userID, id string) (*models.Address, error)
	// LockCart serializes checkouts and writers of one user's cart until the
	// unit of work ends.
	LockCart(ctx context.Context, userID string) error
	CartItems(ctx context.Context, userID string) ([]models.CartItem, error)
	// RemoveCartItems deletes the given lines of the user's cart and their
	// customizations.
	RemoveCartItems(ctx context.Context, userID string, ids []string) error

	// CreateOrder inserts the order with its items, customizations and payment.
	CreateOrder(ctx context.Context, order *models.Order) error
	OrderByID(ctx context.Context, id string) (*models.Order, error)
	ListOrders(ctx context.Context, filter models.OrderFilter) ([]models.Order, int64, error)
	// CancelOrder moves the order to CANCELLED only if it is still in status from.
	CancelOrder(ctx context.Context, id string, from models.OrderStatus) (bool, error)
	MarkRefundIssued(ctx context.Context, orderID, refundID string) error
	RecordIncident(ctx context.Context, incident *models.PaymentIncident) error
}

type Scheduler interface {
	ValidateScheduledTime(ctx context.Context, requested time.Time, settings models.Settings) error
	CalculateEstimatedTime(ctx context.Context, settings models.Settings, scheduledFor *time.Time) (time.Time, error)
}

// Notifier is told about orders after they are committed.
type Notifier interface {
	OrderCreated(order *models.Order)
	OrderCancelled(order *models.Order)
}

type AddressRequest struct {
	Street       string `json:"street" binding:"required"`
	City         string `json:"city" binding:"required"`
	PostalCode   string `json:"postal_code" binding:"required"`
	Instructions string `json:"instructions"`
}

// CreateRequest places an order. A set UserID means a registered checkout from
// the user's cart; otherwise the guest fields and Items are used.
type CreateRequest struct {
	UserID string `json:"-"`

	CustomerName    string          `json:"customer_name"`
	CustomerPhone   string          `json:"customer_phone"`
	Items           []ItemRequest   `json:"items" binding:"omitempty,dive"`
	DeliveryAddress *AddressRequest `json:"delivery_address"`

	AddressID       *string                `json:"address_id"`
	DeliveryType    models.DeliveryType    `json:"delivery_type" binding:"required"`
	ScheduledFor    *time.Time             `json:"scheduled_for"`
	PaymentProvider models.PaymentProvider `json:"payment_provider" binding:"required"`
}

func (r CreateRequest) guest() bool { return r.UserID == "" }

type Service struct {
	repo        Repository
	schedule    Scheduler
	refunds     gateway.Refunder
	notify      Notifier
	maxQuantity int
	log         *slog.Logger
}

type Options struct {
	MaxQuantity int
	Notifier    Notifier
}

func NewService(repo Repository, schedule Scheduler, refunds gateway.Refunder, log *slog.Logger, opts Options) *Service {
	if opts.MaxQuantity <= 0 {
		opts.MaxQuantity = cart.DefaultMaxQuantity
	}
	if opts.Notifier == nil {
		opts.Notifier = nopNotifier{}
	}
	return &Service{
		repo:        repo,
		schedule:    schedule,
		refunds:     refunds,
		notify:      opts.Notifier,
		maxQuantity: opts.MaxQuantity,
		log:         log.With("component", "order"),
	}
}

// Create checks every precondition before writing, then stores the order, its
// snapshots and its payment and removes the ordered cart lines as one unit. A
// registered checkout holds the cart lock from the first read to the commit.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.Order, error) {
	if !req.DeliveryType.Valid() {
		return nil, apperror.Validation("invalid delivery type %q", req.DeliveryType)
	}
	if !req.PaymentProvider.Valid() {
		return nil, apperror.Validation("invalid payment provider %q", req.PaymentProvider)
	}
	if req.PaymentProvider.Online() && s.refunds == nil {
		return nil, apperror.Validation("online payment is not available, choose payment on delivery")
	}

	var order *models.Order
	err := s.repo.Atomic(ctx, func(ctx context.Context) error {
		o, ordered, err := s.assemble(ctx, req)
		if err != nil {
			return err
		}
		if err := s.repo.CreateOrder(ctx, o); err != nil {
			return err
		}
		if len(ordered) > 0 {
			if err := s.repo.RemoveCartItems(ctx, req.UserID, ordered); err != nil {
				return err
			}
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "order created",
		"order_id", order.ID,
		"guest", order.IsGuest,
		"delivery_type", order.DeliveryType,
		"total", order.Total.StringFixed(2),
		"provider", req.PaymentProvider,
	)
	s.notify.OrderCreated(order)
	return order, nil
}

// assemble reads and validates everything the order needs without writing. It
// returns the order and the ids of the cart lines it was built from.
func (s *Service) assemble(ctx context.Context, req CreateRequest) (*models.Order, []string, error) {
	settings, err := s.repo.Settings(ctx)
	if err != nil {
		return nil, nil, err
	}
	if settings.TemporarilyClosed {
		msg := settings.StatusMessage
		if msg == "" {
			msg = "we are not taking orders right now"
		}
		return nil, nil, apperror.Validation("%s", msg)
	}

	order := &models.Order{
		ID:           uuid.NewString(),
		IsGuest:      req.guest(),
		DeliveryType: req.DeliveryType,
		ScheduledFor: req.ScheduledFor,
		Status:       models.OrderStatusPending,
	}

	var lines []LineItem
	if req.guest() {
		name, phone := strings.TrimSpace(req.CustomerName), strings.TrimSpace(req.CustomerPhone)
		if name == "" || phone == "" {
			return nil, nil, apperror.Validation("customer name and phone are required")
		}
		if len(req.Items) == 0 {
			return nil, nil, apperror.Validation("an order needs at least one item")
		}
		order.CustomerName, order.CustomerPhone = name, phone
		lines = Inline(req.Items)
	} else {
		user, err := s.repo.UserByID(ctx, req.UserID)
		if err != nil {
			return nil, nil, err
		}
		if err := s.repo.LockCart(ctx, req.UserID); err != nil {
			return nil, nil, err
		}
		items, err := s.repo.CartItems(ctx, req.UserID)
		if err != nil {
			return nil, nil, err
		}
		if len(items) == 0 {
			return nil, nil, apperror.Validation("your cart is empty")
		}
		userID := user.ID
		order.UserID = &userID
		order.CustomerName, order.CustomerPhone = user.FullName(), user.Phone
		lines = FromCart(items)
	}

	items, subtotal, err := s.enrich(ctx, lines)
	if err != nil {
		return nil, nil, err
	}

	if req.DeliveryType == models.DeliveryTypeDelivery {
		if err := s.resolveAddress(ctx, req, order); err != nil {
			return nil, nil, err
		}
	}

	if settings.MinOrderAmount.IsPositive() && subtotal.LessThan(settings.MinOrderAmount) {
		return nil, nil, apperror.Validation("the minimum order is %s", settings.MinOrderAmount.StringFixed(2))
	}

	if req.ScheduledFor != nil {
		if err := s.schedule.ValidateScheduledTime(ctx, *req.ScheduledFor, *settings); err != nil {
			return nil, nil, err
		}
	}
	estimated, err := s.schedule.CalculateEstimatedTime(ctx, *settings, req.ScheduledFor)
	if err != nil {
		return nil, nil, err
	}

	fee := pricing.DeliveryFee(req.DeliveryType, *settings)
	order.Items = items
	order.EstimatedTime = estimated
	order.Subtotal = subtotal
	order.DeliveryFee = fee
	order.Total = pricing.Total(subtotal, fee)
	order.Payment = &models.Payment{
		OrderID:  order.ID,
		Provider: req.PaymentProvider,
		Status:   models.PaymentStatusPending,
		Amount:   order.Total,
	}
	return order, cartItemIDs(lines), nil
}

func cartItemIDs(lines []LineItem) []string {
	var ids []string
	for _, line := range lines {
		if line.Source == CartSourced && line.CartItemID != "" {
			ids = append(ids, line.CartItemID)
		}
	}
	return ids
}

func (s *Service) resolveAddress(ctx context.Context, req CreateRequest, order *models.Order) error {
	if req.guest() {
		a := req.DeliveryAddress
		if a == nil || strings.TrimSpace(a.Street) == "" || strings.TrimSpace(a.City) == "" || strings.TrimSpace(a.PostalCode) == "" {
			return apperror.Validation("a delivery address is required for delivery orders")
		}
		order.DeliveryStreet = a.Street
		order.DeliveryCity = a.City
		order.DeliveryPostalCode = a.PostalCode
		order.DeliveryInstructions = a.Instructions
		return nil
	}

	if req.AddressID == nil || *req.AddressID == "" {
		return apperror.Validation("address_id is required for delivery orders")
	}
	address, err := s.repo.AddressByID(ctx, req.UserID, *req.AddressID)
	if err != nil {
		return err
	}
	id := address.ID
	order.AddressID = &id
	order.DeliveryStreet = address.Street
	order.DeliveryCity = address.City
	order.DeliveryPostalCode = address.PostalCode
	order.DeliveryInstructions = address.Instructions
	return nil
}

type nopNotifier struct{}

func (nopNotifier) OrderCreated(*models.Order)   {}
func (nopNotifier) OrderCancelled(*models.Order) {}
