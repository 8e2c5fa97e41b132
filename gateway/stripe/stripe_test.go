package stripe

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/ClaudioDevv/e-commerce/gateway"
	"github.com/ClaudioDevv/e-commerce/services/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	stripego "github.com/stripe/stripe-go/v76"
)

const secret = "whsec_test"

func sign(payload string, at time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", at.Unix(), payload)
	return fmt.Sprintf("t=%d,v1=%s", at.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func event(id, typ, object string) string {
	return fmt.Sprintf(`{"id":%q,"object":"event","type":%q,"data":{"object":%s}}`, id, typ, object)
}

func TestVerifyEvent(t *testing.T) {
	c := New("sk_test", secret, nil)

	tests := []struct {
		name    string
		payload string
		want    payment.Event
	}{
		{
			name:    "checkout completed",
			payload: event("evt_1", "checkout.session.completed", `{"id":"cs_1","object":"checkout.session","payment_intent":"pi_1","metadata":{"orderId":"o1","userId":"guest"}}`),
			want:    payment.PaymentSucceeded{Meta: payment.Meta{ID: "evt_1", Type: "checkout.session.completed"}, OrderID: "o1", PaymentID: "pi_1"},
		},
		{
			name:    "checkout expired",
			payload: event("evt_2", "checkout.session.expired", `{"id":"cs_1","object":"checkout.session","metadata":{"orderId":"o1"}}`),
			want:    payment.CheckoutExpired{Meta: payment.Meta{ID: "evt_2", Type: "checkout.session.expired"}, OrderID: "o1"},
		},
		{
			name:    "charge refunded",
			payload: event("evt_3", "charge.refunded", `{"id":"ch_1","object":"charge","payment_intent":"pi_1","refunds":{"object":"list","data":[{"id":"re_2","object":"refund"},{"id":"re_1","object":"refund"}]}}`),
			want:    payment.ChargeRefunded{Meta: payment.Meta{ID: "evt_3", Type: "charge.refunded"}, PaymentID: "pi_1", RefundID: "re_2"},
		},
		{
			name:    "charge refunded without refund list",
			payload: event("evt_4", "charge.refunded", `{"id":"ch_1","object":"charge","payment_intent":"pi_1"}`),
			want:    payment.ChargeRefunded{Meta: payment.Meta{ID: "evt_4", Type: "charge.refunded"}, PaymentID: "pi_1"},
		},
		{
			name:    "refund failed",
			payload: event("evt_5", "refund.failed", `{"id":"re_1","object":"refund","status":"failed","failure_reason":"expired_or_canceled_card","payment_intent":"pi_1","metadata":{"orderId":"o1"}}`),
			want: payment.RefundFailed{
				Meta:      payment.Meta{ID: "evt_5", Type: "refund.failed"},
				PaymentID: "pi_1", RefundID: "re_1", OrderID: "o1", Reason: "expired_or_canceled_card",
			},
		},
		{
			name:    "refund updated but not failed",
			payload: event("evt_6", "charge.refund.updated", `{"id":"re_1","object":"refund","status":"succeeded"}`),
			want:    payment.Unrecognized{Meta: payment.Meta{ID: "evt_6", Type: "charge.refund.updated"}},
		},
		{
			name:    "other type",
			payload: event("evt_7", "customer.created", `{"id":"cus_1","object":"customer"}`),
			want:    payment.Unrecognized{Meta: payment.Meta{ID: "evt_7", Type: "customer.created"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.VerifyEvent([]byte(tt.payload), sign(tt.payload, time.Now()))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVerifyEvent_RejectsBadSignatures(t *testing.T) {
	c := New("sk_test", secret, nil)
	payload := event("evt_1", "checkout.session.completed", `{"id":"cs_1","object":"checkout.session"}`)

	for name, header := range map[string]string{
		"missing":  "",
		"tampered": sign(payload+" ", time.Now()),
		"stale":    sign(payload, time.Now().Add(-time.Hour)),
		"garbage":  "t=abc,v1=xyz",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := c.VerifyEvent([]byte(payload), header)
			assert.Error(t, err)
		})
	}
}

// fakeAPI records the form posted to each path and answers with a canned body.
type fakeAPI struct {
	mu    sync.Mutex
	forms map[string]url.Values
	body  string
	code  int
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	f.mu.Lock()
	f.forms[r.URL.Path] = r.PostForm
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(f.code)
	fmt.Fprint(w, f.body)
}

func newClient(t *testing.T, api *fakeAPI) *Client {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	backend := stripego.GetBackendWithConfig(stripego.APIBackend, &stripego.BackendConfig{
		URL:               stripego.String(srv.URL),
		HTTPClient:        srv.Client(),
		MaxNetworkRetries: stripego.Int64(0),
		LeveledLogger:     &stripego.LeveledLogger{Level: stripego.LevelNull},
	})
	return New("sk_test", secret, &stripego.Backends{API: backend, Connect: backend, Uploads: backend})
}

func TestCreateCheckoutSession(t *testing.T) {
	api := &fakeAPI{forms: map[string]url.Values{}, code: http.StatusOK,
		body: `{"id":"cs_test_1","object":"checkout.session","url":"https://checkout.stripe.com/c/cs_test_1"}`}
	c := newClient(t, api)

	session, err := c.CreateCheckoutSession(context.Background(), gateway.SessionRequest{
		Currency: "eur",
		Lines: []gateway.SessionLine{
			{Name: "Margherita (Large)", UnitAmount: 1200, Quantity: 2},
			{Name: "Delivery fee", UnitAmount: 300, Quantity: 1},
		},
		SuccessURL: "https://pizza.test/order-success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  "https://pizza.test/order-cancelled",
		Metadata:   map[string]string{"orderId": "o1", "userId": "u1"},
	})

	require.NoError(t, err)
	assert.Equal(t, &gateway.Session{ID: "cs_test_1", URL: "https://checkout.stripe.com/c/cs_test_1"}, session)

	form := api.forms["/v1/checkout/sessions"]
	require.NotNil(t, form)
	assert.Equal(t, "payment", form.Get("mode"))
	assert.Equal(t, "Margherita (Large)", form.Get("line_items[0][price_data][product_data][name]"))
	assert.Equal(t, "1200", form.Get("line_items[0][price_data][unit_amount]"))
	assert.Equal(t, "2", form.Get("line_items[0][quantity]"))
	assert.Equal(t, "eur", form.Get("line_items[1][price_data][currency]"))
	assert.Equal(t, "o1", form.Get("metadata[orderId]"))
	assert.Equal(t, "o1", form.Get("payment_intent_data[metadata][orderId]"))
}

func TestCreateRefund(t *testing.T) {
	api := &fakeAPI{forms: map[string]url.Values{}, code: http.StatusOK, body: `{"id":"re_1","object":"refund","status":"succeeded"}`}
	c := newClient(t, api)

	refund, err := c.CreateRefund(context.Background(), gateway.RefundRequest{
		PaymentID: "pi_1",
		Amount:    2900,
		Metadata:  map[string]string{"orderId": "o1", "userId": "u1"},
	})

	require.NoError(t, err)
	assert.Equal(t, "re_1", refund.ID)
	form := api.forms["/v1/refunds"]
	assert.Equal(t, "pi_1", form.Get("payment_intent"))
	assert.Equal(t, "2900", form.Get("amount"))
	assert.Equal(t, "u1", form.Get("metadata[userId]"))
}

func TestCreateRefund_ProviderError(t *testing.T) {
	api := &fakeAPI{forms: map[string]url.Values{}, code: http.StatusBadRequest,
		body: `{"error":{"type":"invalid_request_error","message":"Charge has already been refunded."}}`}
	c := newClient(t, api)

	_, err := c.CreateRefund(context.Background(), gateway.RefundRequest{PaymentID: "pi_1", Amount: 100})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "already been refunded")
}
