package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/ClaudioDevv/e-commerce/apperror"
	"github.com/ClaudioDevv/e-commerce/gateway"
	"github.com/ClaudioDevv/e-commerce/logger"
	"github.com/ClaudioDevv/e-commerce/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func pendingOrder(fee string) *models.Order {
	uid := "u1"
	large := "Large"
	return &models.Order{
		ID:          "o1",
		UserID:      &uid,
		Status:      models.OrderStatusPending,
		DeliveryFee: d(fee),
		Items: []models.OrderItem{
			{NameSnapshot: "Margherita", VariantSnapshot: &large, UnitPrice: d("12.00"), Quantity: 2},
			{NameSnapshot: "Cola", UnitPrice: d("1.995"), Quantity: 1},
		},
		Payment: &models.Payment{Provider: models.ProviderStripe, Status: models.PaymentStatusPending},
	}
}

var urls = URLsFor("https://pizza.test")

func TestBuildSessionRequest_WithDeliveryFee(t *testing.T) {
	req, err := BuildSessionRequest(pendingOrder("3.00"), "eur", urls)
	require.NoError(t, err)

	require.Len(t, req.Lines, 3)
	assert.Equal(t, gateway.SessionLine{Name: "Margherita (Large)", UnitAmount: 1200, Quantity: 2}, req.Lines[0])
	assert.Equal(t, int64(200), req.Lines[1].UnitAmount)
	assert.Equal(t, gateway.SessionLine{Name: DeliveryFeeLabel, UnitAmount: 300, Quantity: 1}, req.Lines[2])

	assert.Equal(t, "eur", req.Currency)
	assert.Equal(t, "https://pizza.test/order-success?session_id={CHECKOUT_SESSION_ID}", req.SuccessURL)
	assert.Equal(t, "https://pizza.test/order-cancelled", req.CancelURL)
	assert.Equal(t, map[string]string{"orderId": "o1", "userId": "u1"}, req.Metadata)
}

func TestBuildSessionRequest_NoFeeLineWhenFree(t *testing.T) {
	req, err := BuildSessionRequest(pendingOrder("0"), "eur", urls)
	require.NoError(t, err)

	assert.Len(t, req.Lines, 2)
}

func TestBuildSessionRequest_GuestMarker(t *testing.T) {
	o := pendingOrder("0")
	o.UserID = nil
	o.IsGuest = true

	req, err := BuildSessionRequest(o, "eur", urls)
	require.NoError(t, err)

	assert.Equal(t, gateway.GuestMarker, req.Metadata[gateway.MetaUserID])
}

func TestBuildSessionRequest_Rejections(t *testing.T) {
	paid := pendingOrder("0")
	paid.Status = models.OrderStatusPaid

	cash := pendingOrder("0")
	cash.Payment.Provider = models.ProviderCashOnDelivery

	noPayment := pendingOrder("0")
	noPayment.Payment = nil

	for name, o := range map[string]*models.Order{"paid": paid, "cash": cash, "no payment": noPayment} {
		t.Run(name, func(t *testing.T) {
			_, err := BuildSessionRequest(o, "eur", urls)
			assert.True(t, apperror.Is(err, apperror.KindValidation))
		})
	}
}

type fakeRepo struct {
	orders   map[string]*models.Order
	sessions map[string]string
}

func (f *fakeRepo) OrderByID(_ context.Context, id string) (*models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, apperror.NotFound("order not found")
	}
	return o, nil
}

func (f *fakeRepo) SetPaymentSession(_ context.Context, orderID, sessionID string) error {
	f.sessions[orderID] = sessionID
	return nil
}

type fakeSessions struct {
	requests []gateway.SessionRequest
	err      error
}

func (f *fakeSessions) CreateCheckoutSession(_ context.Context, req gateway.SessionRequest) (*gateway.Session, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &gateway.Session{ID: "cs_test_1", URL: "https://checkout.test/cs_test_1"}, nil
}

func newService(o *models.Order, sessions *fakeSessions) (*Service, *fakeRepo) {
	repo := &fakeRepo{orders: map[string]*models.Order{o.ID: o}, sessions: map[string]string{}}
	return NewService(repo, sessions, "eur", urls, logger.Discard()), repo
}

func TestCreate_StoresSession(t *testing.T) {
	sessions := &fakeSessions{}
	svc, repo := newService(pendingOrder("3.00"), sessions)

	session, err := svc.Create(context.Background(), "o1", models.Actor{UserID: "u1"})

	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", session.ID)
	assert.Equal(t, "https://checkout.test/cs_test_1", session.URL)
	assert.Equal(t, "cs_test_1", repo.sessions["o1"])
	assert.Len(t, sessions.requests, 1)
}

func TestCreate_ProviderFailureIsGatewayError(t *testing.T) {
	sessions := &fakeSessions{err: errors.New("stripe: rate limited")}
	svc, repo := newService(pendingOrder("3.00"), sessions)

	_, err := svc.Create(context.Background(), "o1", models.Actor{UserID: "u1"})

	assert.True(t, apperror.Is(err, apperror.KindGateway))
	assert.Empty(t, repo.sessions)
}

func TestCreate_OnlyVisibleOrders(t *testing.T) {
	sessions := &fakeSessions{}
	svc, _ := newService(pendingOrder("3.00"), sessions)

	_, err := svc.Create(context.Background(), "o1", models.Actor{UserID: "u2"})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = svc.Create(context.Background(), "o1", models.Actor{})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	assert.Empty(t, sessions.requests)
}
