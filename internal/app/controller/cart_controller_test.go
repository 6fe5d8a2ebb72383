package controller

import (
	"net/http"
	"testing"

	"github.com/clozet/clozet-backend/internal/app/service"
	apperrors "github.com/clozet/clozet-backend/internal/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartController_GetCart_DemoStarterCart(t *testing.T) {
	srv := newTestServer(t, nil)
	token := srv.loginDemo(t)

	w := srv.do(http.MethodGet, "/api/v1/cart", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var view service.CartView
	decode(t, w, &view)
	assert.Len(t, view.Lines, 2)
	assert.Equal(t, "3398.00", view.Totals.Subtotal.StringFixed(2))
	assert.Equal(t, "3787.80", view.Totals.Total.StringFixed(2))
}

func TestCartController_GetCart_Unauthorized(t *testing.T) {
	srv := newTestServer(t, nil)

	w := srv.do(http.MethodGet, "/api/v1/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCartController_AddUpdateRemove(t *testing.T) {
	srv := newTestServer(t, nil)
	token := srv.loginEmail(t, "asha@example.com").Tokens.AccessToken

	w := srv.do(http.MethodPost, "/api/v1/cart", token, service.CartLineInput{
		Title:     "Silk Scarf",
		Variant:   "Red",
		UnitPrice: decimal.NewFromInt(499),
		Quantity:  1,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var view service.CartView
	decode(t, w, &view)
	require.Len(t, view.Lines, 1)
	lineID := view.Lines[0].ID

	w = srv.do(http.MethodPut, "/api/v1/cart/"+lineID, token, map[string]int{"quantity": 3})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &view)
	assert.Equal(t, 3, view.Lines[0].Quantity)
	assert.Equal(t, "1497.00", view.Totals.Subtotal.StringFixed(2))

	w = srv.do(http.MethodPut, "/api/v1/cart/"+lineID, token, map[string]int{"quantity": 0})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &view)
	assert.Empty(t, view.Lines)

	w = srv.do(http.MethodDelete, "/api/v1/cart/"+lineID, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperrors.CartLineNotFound, errorCode(t, w))
}

func TestCartController_InvalidRequests(t *testing.T) {
	srv := newTestServer(t, nil)
	token := srv.loginDemo(t)

	w := srv.do(http.MethodPost, "/api/v1/cart", token, service.CartLineInput{Title: "", Quantity: 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body apperrors.ValidationError
	decode(t, w, &body)
	assert.Contains(t, body.Fields, "title")

	w = srv.do(http.MethodPut, "/api/v1/cart/any", token, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartController_ClearCart(t *testing.T) {
	srv := newTestServer(t, nil)
	token := srv.loginDemo(t)

	w := srv.do(http.MethodDelete, "/api/v1/cart", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var view service.CartView
	decode(t, w, &view)
	assert.Empty(t, view.Lines)
	assert.True(t, view.Totals.Total.IsZero())
}
