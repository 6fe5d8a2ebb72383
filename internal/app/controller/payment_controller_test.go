package controller

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/clozet/clozet-backend/internal/app/model"
	"github.com/clozet/clozet-backend/internal/app/service"
	apperrors "github.com/clozet/clozet-backend/internal/errors"
	"github.com/clozet/clozet-backend/pkg/payment/stripecheckout"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGateway keeps sessions in memory and accepts webhooks signed "valid".
type fakeGateway struct {
	mu       sync.Mutex
	sessions map[string]*stripecheckout.Session
	created  []stripecheckout.CreateSessionRequest
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{sessions: make(map[string]*stripecheckout.Session)}
}

func (g *fakeGateway) FindOrCreateCustomer(_ context.Context, email string, _ map[string]string) (string, error) {
	return "cus_" + email, nil
}

func (g *fakeGateway) CreateSession(_ context.Context, req stripecheckout.CreateSessionRequest) (*stripecheckout.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.created = append(g.created, req)
	id := "cs_test_1"
	var subtotal int64
	var items []stripecheckout.SessionLineItem
	for _, li := range req.LineItems {
		subtotal += li.UnitAmount * li.Quantity
		items = append(items, stripecheckout.SessionLineItem{
			Description:    li.Name,
			Quantity:       li.Quantity,
			UnitAmount:     li.UnitAmount,
			AmountSubtotal: li.UnitAmount * li.Quantity,
			AmountTotal:    li.UnitAmount * li.Quantity,
		})
	}
	g.sessions[id] = &stripecheckout.Session{
		ID:             id,
		URL:            "https://checkout.stripe.test/" + id,
		PaymentStatus:  "unpaid",
		AmountSubtotal: subtotal,
		AmountTotal:    subtotal,
		Metadata:       req.Metadata,
		LineItems:      items,
	}
	return g.sessions[id], nil
}

func (g *fakeGateway) GetSession(_ context.Context, id string) (*stripecheckout.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	sess, ok := g.sessions[id]
	if !ok {
		return nil, stripecheckout.ErrInvalidRequest
	}
	copied := *sess
	return &copied, nil
}

func (g *fakeGateway) ParseWebhook(_ []byte, signature string) (*stripecheckout.Event, error) {
	if signature != "valid" {
		return nil, stripecheckout.ErrInvalidSignature
	}
	return &stripecheckout.Event{ID: "evt_1", Type: "payment_intent.created"}, nil
}

func (g *fakeGateway) markPaid(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sessions[id].PaymentStatus = stripecheckout.PaymentStatusPaid
}

func createSessionBody() service.CreateSessionInput {
	return service.CreateSessionInput{
		OrderTotal:     decimal.RequireFromString("3837.80"),
		DeliveryCharge: decimal.NewFromInt(100),
		OrderItems: []service.OrderItemInput{
			{Name: "Premium Cotton T-Shirt", Price: decimal.NewFromInt(899), Quantity: 2},
			{Name: "Designer Jeans", Price: decimal.NewFromInt(2499), Quantity: 1},
		},
		DeliveryAddress: model.AddressSnapshot{FullName: "Asha Raman", City: "Vellore"},
		DeliveryType:    model.DeliveryExpress,
	}
}

func TestPaymentController_DemoPayment(t *testing.T) {
	srv := newTestServer(t, nil)

	w := srv.do(http.MethodGet, "/api/v1/payments/demo?orderId=CLZ00123456&total=3837.80", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var screen service.DemoPaymentScreen
	decode(t, w, &screen)
	assert.Equal(t, "CLZ00123456", screen.OrderID)
	assert.Equal(t, "3837.80", screen.Total)

	w = srv.do(http.MethodPost, "/api/v1/payments/demo/CLZ00123456/pay", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var result service.DemoPaymentResult
	decode(t, w, &result)
	assert.True(t, result.Paid)
	assert.Equal(t, "/order/CLZ00123456/confirmation", result.RedirectURL)
}

func TestPaymentController_CardPaymentsUnavailable(t *testing.T) {
	srv := newTestServer(t, nil)

	w := srv.do(http.MethodPost, "/api/v1/payments/create", "", createSessionBody())
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, apperrors.PaymentFailed, errorCode(t, w))
}

func TestPaymentController_CreateAndComplete(t *testing.T) {
	gateway := newFakeGateway()
	srv := newTestServer(t, gateway)
	token := srv.loginEmail(t, "asha@example.com").Tokens.AccessToken

	w := srv.do(http.MethodPost, "/api/v1/payments/create", token, createSessionBody())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var created service.CreateSessionResult
	decode(t, w, &created)
	assert.Equal(t, "cs_test_1", created.SessionID)
	assert.NotEmpty(t, created.URL)

	w = srv.do(http.MethodPost, "/api/v1/payments/complete", "", CompletePaymentRequest{SessionID: created.SessionID})
	require.Equal(t, http.StatusOK, w.Code)
	var result service.CompletionResult
	decode(t, w, &result)
	assert.False(t, result.Paid)

	gateway.markPaid(created.SessionID)
	w = srv.do(http.MethodPost, "/api/v1/payments/complete", "", CompletePaymentRequest{SessionID: created.SessionID})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &result)
	assert.True(t, result.Paid)
	assert.True(t, result.OrderRecorded)

	// the order belongs to the identity that created the session
	w = srv.do(http.MethodGet, "/api/v1/orders/"+result.OrderID, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = srv.do(http.MethodPost, "/api/v1/payments/complete", "", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPaymentController_CreateSession_Invalid(t *testing.T) {
	srv := newTestServer(t, newFakeGateway())

	body := createSessionBody()
	body.OrderItems = nil
	w := srv.do(http.MethodPost, "/api/v1/payments/create", "", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPaymentController_Webhook(t *testing.T) {
	srv := newTestServer(t, newFakeGateway())

	send := func(signature string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/stripe/webhook", bytes.NewBufferString(`{"id":"evt_1"}`))
		req.Header.Set("Stripe-Signature", signature)
		w := httptest.NewRecorder()
		srv.router.ServeHTTP(w, req)
		return w
	}

	w := send("forged")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.PaymentWebhook, errorCode(t, w))

	w = send("valid")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"received":true}`, w.Body.String())
}
