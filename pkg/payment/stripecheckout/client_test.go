package stripecheckout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/form"
	"github.com/stripe/stripe-go/v81/webhook"
)

// mockBackend implements stripe.Backend for testing
type mockBackend struct {
	handler func(method, path string, params stripe.ParamsContainer) ([]byte, error)
}

func (m *mockBackend) Call(method, path, key string, params stripe.ParamsContainer, v stripe.LastResponseSetter) error {
	data, err := m.handler(method, path, params)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func (m *mockBackend) CallStreaming(method, path, key string, params stripe.ParamsContainer, v stripe.StreamingLastResponseSetter) error {
	return nil
}

// CallRaw serves list endpoints
func (m *mockBackend) CallRaw(method, path, key string, body *form.Values, params *stripe.Params, v stripe.LastResponseSetter) error {
	data, err := m.handler(method, path, nil)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func (m *mockBackend) CallMultipart(method, path, key, boundary string, body *bytes.Buffer, params *stripe.Params, v stripe.LastResponseSetter) error {
	return nil
}

func (m *mockBackend) SetMaxNetworkRetries(maxNetworkRetries int64) {}

func setupMockBackend(t *testing.T, handler func(method, path string, params stripe.ParamsContainer) ([]byte, error)) {
	stripe.SetBackend(stripe.APIBackend, &mockBackend{handler: handler})
	t.Cleanup(func() { stripe.SetBackend(stripe.APIBackend, nil) })
}

func testClient(t *testing.T) *Client {
	c, err := NewClient(Config{SecretKey: "sk_test_123", WebhookSecret: "whsec_test_123", Currency: "inr"})
	require.NoError(t, err)
	return c
}

func TestNewClient_Validates(t *testing.T) {
	_, err := NewClient(Config{Currency: "inr"})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestFindOrCreateCustomer(t *testing.T) {
	t.Run("existing customer", func(t *testing.T) {
		created := false
		setupMockBackend(t, func(method, path string, params stripe.ParamsContainer) ([]byte, error) {
			if method == http.MethodGet && path == "/v1/customers" {
				return []byte(`{"object":"list","data":[{"id":"cus_existing","email":"a@b.com"}],"has_more":false}`), nil
			}
			created = true
			return []byte(`{"id":"cus_new"}`), nil
		})

		id, err := testClient(t).FindOrCreateCustomer(context.Background(), "a@b.com", nil)
		require.NoError(t, err)
		assert.Equal(t, "cus_existing", id)
		assert.False(t, created)
	})

	t.Run("creates when missing", func(t *testing.T) {
		var createParams *stripe.CustomerParams
		setupMockBackend(t, func(method, path string, params stripe.ParamsContainer) ([]byte, error) {
			if method == http.MethodGet {
				return []byte(`{"object":"list","data":[],"has_more":false}`), nil
			}
			createParams = params.(*stripe.CustomerParams)
			return []byte(`{"id":"cus_new","email":"guest@clozet.demo"}`), nil
		})

		id, err := testClient(t).FindOrCreateCustomer(context.Background(), "guest@clozet.demo", map[string]string{"user_id": "guest"})
		require.NoError(t, err)
		assert.Equal(t, "cus_new", id)
		require.NotNil(t, createParams)
		assert.Equal(t, "guest@clozet.demo", *createParams.Email)
		assert.Equal(t, "guest", createParams.Metadata["user_id"])
	})
}

func TestCreateSession(t *testing.T) {
	var got *stripe.CheckoutSessionParams
	setupMockBackend(t, func(method, path string, params stripe.ParamsContainer) ([]byte, error) {
		require.Equal(t, http.MethodPost, method)
		require.Equal(t, "/v1/checkout/sessions", path)
		got = params.(*stripe.CheckoutSessionParams)
		return []byte(`{"id":"cs_test_1","url":"https://checkout.stripe.com/c/pay/cs_test_1","payment_status":"unpaid"}`), nil
	})

	s, err := testClient(t).CreateSession(context.Background(), CreateSessionRequest{
		CustomerID: "cus_1",
		LineItems: []LineItem{
			{Name: "Premium Cotton T-Shirt", UnitAmount: 89900, Quantity: 2},
			{Name: "Delivery Charge", Description: "Express delivery service", UnitAmount: 10000, Quantity: 1},
		},
		SuccessURL: "http://localhost:5173/order/{CHECKOUT_SESSION_ID}/confirmation?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  "http://localhost:5173/checkout",
		Metadata:   map[string]string{"user_id": "guest", "store_id": "clozet-vellore"},
	})
	require.NoError(t, err)

	assert.Equal(t, "cs_test_1", s.ID)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_1", s.URL)
	assert.False(t, s.Paid())

	require.NotNil(t, got)
	assert.Equal(t, "payment", *got.Mode)
	assert.Equal(t, "cus_1", *got.Customer)
	require.Len(t, got.LineItems, 2)
	assert.Equal(t, "inr", *got.LineItems[0].PriceData.Currency)
	assert.Equal(t, int64(89900), *got.LineItems[0].PriceData.UnitAmount)
	assert.Equal(t, int64(2), *got.LineItems[0].Quantity)
	assert.Equal(t, "Express delivery service", *got.LineItems[1].PriceData.ProductData.Description)
	assert.Equal(t, "clozet-vellore", got.Metadata["store_id"])
}

func TestCreateSession_RejectsEmpty(t *testing.T) {
	_, err := testClient(t).CreateSession(context.Background(), CreateSessionRequest{})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestGetSession(t *testing.T) {
	var expand []*string
	setupMockBackend(t, func(method, path string, params stripe.ParamsContainer) ([]byte, error) {
		require.Equal(t, "/v1/checkout/sessions/cs_test_1", path)
		expand = params.GetParams().Expand
		return []byte(`{
			"id": "cs_test_1",
			"payment_status": "paid",
			"amount_subtotal": 179800,
			"amount_total": 189800,
			"metadata": {"user_id": "u-1", "store_id": "clozet-vellore"},
			"line_items": {"object": "list", "data": [
				{"description": "Premium Cotton T-Shirt", "quantity": 2, "amount_subtotal": 179800, "amount_total": 179800, "price": {"unit_amount": 89900}}
			]}
		}`), nil
	})

	s, err := testClient(t).GetSession(context.Background(), "cs_test_1")
	require.NoError(t, err)

	require.Len(t, expand, 1)
	assert.Equal(t, "line_items", *expand[0])
	assert.True(t, s.Paid())
	assert.Equal(t, int64(189800), s.AmountTotal)
	assert.Equal(t, "u-1", s.Metadata["user_id"])
	require.Len(t, s.LineItems, 1)
	assert.Equal(t, int64(89900), s.LineItems[0].UnitAmount)
}

func TestGetSession_ProcessorError(t *testing.T) {
	setupMockBackend(t, func(method, path string, params stripe.ParamsContainer) ([]byte, error) {
		return nil, errors.New("connection reset")
	})

	_, err := testClient(t).GetSession(context.Background(), "cs_test_1")
	assert.ErrorIs(t, err, ErrProcessor)
}

func TestParseWebhook(t *testing.T) {
	c := testClient(t)
	payload := []byte(fmt.Sprintf(`{
		"id": "evt_1",
		"object": "event",
		"api_version": %q,
		"type": "checkout.session.completed",
		"data": {"object": {"id": "cs_test_1", "object": "checkout.session", "payment_status": "paid"}}
	}`, stripe.APIVersion))

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    "whsec_test_123",
		Timestamp: time.Now(),
	})

	event, err := c.ParseWebhook(signed.Payload, signed.Header)
	require.NoError(t, err)
	assert.Equal(t, EventCheckoutSessionCompleted, event.Type)
	require.NotNil(t, event.Session)
	assert.Equal(t, "cs_test_1", event.Session.ID)
	assert.True(t, event.Session.Paid())

	_, err = c.ParseWebhook(payload, "t=1,v1=deadbeef")
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestParseWebhook_OtherAPIVersion(t *testing.T) {
	c := testClient(t)
	payload := []byte(`{
		"id": "evt_2",
		"object": "event",
		"api_version": "2020-08-27",
		"type": "checkout.session.completed",
		"data": {"object": {"id": "cs_test_2", "object": "checkout.session", "payment_status": "paid"}}
	}`)

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    "whsec_test_123",
		Timestamp: time.Now(),
	})

	event, err := c.ParseWebhook(signed.Payload, signed.Header)
	require.NoError(t, err)
	require.NotNil(t, event.Session)
	assert.Equal(t, "cs_test_2", event.Session.ID)
}

func TestParseWebhook_StaleTimestamp(t *testing.T) {
	c := testClient(t)
	payload := []byte(fmt.Sprintf(`{"id": "evt_3", "object": "event", "api_version": %q, "type": "ping", "data": {"object": {}}}`, stripe.APIVersion))

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    "whsec_test_123",
		Timestamp: time.Now().Add(-time.Hour),
	})

	_, err := c.ParseWebhook(signed.Payload, signed.Header)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}
