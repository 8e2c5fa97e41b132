package order

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/ClaudioDevv/e-commerce/apperror"
	"github.com/ClaudioDevv/e-commerce/gateway"
	"github.com/ClaudioDevv/e-commerce/models"
	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func strptr(s string) *string { return &s }

type fakeRepo struct {
	settings      models.Settings
	users         map[string]*models.User
	addresses     map[string]*models.Address
	products      map[string]*models.Product
	customizables map[uint]models.Customizable
	carts         map[string][]models.CartItem
	orders        map[string]*models.Order
	incidents     []models.PaymentIncident

	failCreate error
	failClear  error
	staleGuard bool

	inTx   bool
	locks  []bool // one entry per LockCart call, true when inside Atomic
	onRead func()
}

func newFakeRepo() *fakeRepo {
	pizza := &models.Product{
		ID: "pizza", Name: "Margherita", BasePrice: d("8.50"), Active: true, AllowCustomization: true,
		Variants: []models.ProductVariant{
			{ID: "large", ProductID: "pizza", Name: "Large", PriceDelta: d("2.00"), Active: true},
		},
		BaseCustomizables:      []models.ProductBaseCustomizable{{ProductID: "pizza", CustomizableID: 2, IsRemovable: true}},
		AvailableCustomizables: []models.ProductAvailableCustomizable{{ProductID: "pizza", CustomizableID: 1}},
	}
	cola := &models.Product{ID: "cola", Name: "Cola", BasePrice: d("2.00"), Active: true}

	return &fakeRepo{
		settings: models.Settings{ID: 1, AvgPrepMinutes: 30, DeliveryFee: d("3.00"), MinOrderAmount: decimal.Zero},
		users: map[string]*models.User{
			"u1": {ID: "u1", Name: "Ana", Surname: "García", Phone: "600111222", Role: models.RoleCustomer},
		},
		addresses: map[string]*models.Address{
			"home": {ID: "home", UserID: "u1", Street: "Calle Mayor 1", City: "Madrid", PostalCode: "28013", Instructions: "2ºB"},
		},
		products: map[string]*models.Product{"pizza": pizza, "cola": cola},
		customizables: map[uint]models.Customizable{
			1: {ID: 1, Name: "Olives", ExtraPrice: d("1.50"), Available: true},
			2: {ID: 2, Name: "Basil", ExtraPrice: d("0.50"), Available: true},
		},
		carts:  map[string][]models.CartItem{},
		orders: map[string]*models.Order{},
	}
}

// fillCart puts 2 large margheritas with olives (24.00) and one cola (2.00) in u1's cart.
func (f *fakeRepo) fillCart() {
	f.carts["u1"] = []models.CartItem{
		{
			ID: "c1", UserID: "u1", ProductID: "pizza", VariantID: strptr("large"), Quantity: 2,
			Customizations: []models.CartItemCustomization{
				{CustomizableID: 1, Action: models.ActionAdd},
				{CustomizableID: 2, Action: models.ActionRemove},
			},
		},
		{ID: "c2", UserID: "u1", ProductID: "cola", Quantity: 1},
	}
}

func (f *fakeRepo) ProductByID(_ context.Context, id string) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, apperror.NotFound("product not found")
	}
	cp := *p
	return &cp, nil
}

func (f *fakeRepo) CustomizablesByIDs(_ context.Context, ids []uint) (map[uint]models.Customizable, error) {
	out := map[uint]models.Customizable{}
	for _, id := range ids {
		if c, ok := f.customizables[id]; ok {
			out[id] = c
		}
	}
	return out, nil
}

func (f *fakeRepo) Atomic(ctx context.Context, fn func(ctx context.Context) error) error {
	orders := make(map[string]*models.Order, len(f.orders))
	for k, v := range f.orders {
		orders[k] = v
	}
	carts := make(map[string][]models.CartItem, len(f.carts))
	for k, v := range f.carts {
		carts[k] = v
	}
	f.inTx = true
	defer func() { f.inTx = false }()
	if err := fn(ctx); err != nil {
		f.orders, f.carts = orders, carts
		return err
	}
	return nil
}

func (f *fakeRepo) Settings(context.Context) (*models.Settings, error) {
	s := f.settings
	return &s, nil
}

func (f *fakeRepo) UserByID(_ context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("user not found")
	}
	return u, nil
}

func (f *fakeRepo) AddressByID(_ context.Context, userID, id string) (*models.Address, error) {
	a, ok := f.addresses[id]
	if !ok || a.UserID != userID {
		return nil, apperror.NotFound("address not found")
	}
	return a, nil
}

func (f *fakeRepo) LockCart(context.Context, string) error {
	f.locks = append(f.locks, f.inTx)
	return nil
}

func (f *fakeRepo) CartItems(_ context.Context, userID string) ([]models.CartItem, error) {
	items := f.carts[userID]
	if f.onRead != nil {
		f.onRead()
	}
	return items, nil
}

func (f *fakeRepo) RemoveCartItems(_ context.Context, userID string, ids []string) error {
	if f.failClear != nil {
		return f.failClear
	}
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	var kept []models.CartItem
	for _, item := range f.carts[userID] {
		if !drop[item.ID] {
			kept = append(kept, item)
		}
	}
	if len(kept) == 0 {
		delete(f.carts, userID)
		return nil
	}
	f.carts[userID] = kept
	return nil
}

func (f *fakeRepo) CreateOrder(_ context.Context, order *models.Order) error {
	if f.failCreate != nil {
		return f.failCreate
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	f.orders[order.ID] = order
	return nil
}

func (f *fakeRepo) OrderByID(_ context.Context, id string) (*models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, apperror.NotFound("order not found")
	}
	return o, nil
}

func (f *fakeRepo) ListOrders(_ context.Context, filter models.OrderFilter) ([]models.Order, int64, error) {
	var all []models.Order
	for _, o := range f.orders {
		if filter.UserID != "" && !o.OwnedBy(filter.UserID) {
			continue
		}
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		all = append(all, *o)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := int64(len(all))
	if filter.Offset >= len(all) {
		return nil, total, nil
	}
	end := filter.Offset + filter.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[filter.Offset:end], total, nil
}

func (f *fakeRepo) CancelOrder(_ context.Context, id string, from models.OrderStatus) (bool, error) {
	o, ok := f.orders[id]
	if !ok || f.staleGuard || o.Status != from {
		return false, nil
	}
	o.Status = models.OrderStatusCancelled
	return true, nil
}

func (f *fakeRepo) MarkRefundIssued(_ context.Context, orderID, refundID string) error {
	o, ok := f.orders[orderID]
	if !ok || o.Payment == nil {
		return errors.New("payment not found")
	}
	o.Payment.Status = models.PaymentStatusRefunded
	o.Payment.ProviderRefundID = &refundID
	return nil
}

func (f *fakeRepo) RecordIncident(_ context.Context, incident *models.PaymentIncident) error {
	f.incidents = append(f.incidents, *incident)
	return nil
}

type fakeScheduler struct {
	estimate    time.Time
	validateErr error
	estimateErr error
	validated   []time.Time
}

func (f *fakeScheduler) ValidateScheduledTime(_ context.Context, requested time.Time, _ models.Settings) error {
	f.validated = append(f.validated, requested)
	return f.validateErr
}

func (f *fakeScheduler) CalculateEstimatedTime(_ context.Context, _ models.Settings, scheduledFor *time.Time) (time.Time, error) {
	if f.estimateErr != nil {
		return time.Time{}, f.estimateErr
	}
	if scheduledFor != nil {
		return *scheduledFor, nil
	}
	return f.estimate, nil
}

type fakeRefunder struct {
	requests []gateway.RefundRequest
	err      error
}

func (f *fakeRefunder) CreateRefund(_ context.Context, req gateway.RefundRequest) (*gateway.Refund, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &gateway.Refund{ID: "re_123"}, nil
}

type fakeNotifier struct {
	created   []string
	cancelled []string
}

func (f *fakeNotifier) OrderCreated(o *models.Order)   { f.created = append(f.created, o.ID) }
func (f *fakeNotifier) OrderCancelled(o *models.Order) { f.cancelled = append(f.cancelled, o.ID) }
